// Package notification fans player notifications out to subscribed streams.
package notification

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/bibliasertaneja/internal/api/playerv1"
)

// DefaultSendTimeout bounds how long a broadcast waits for one stream.
const DefaultSendTimeout = 500 * time.Millisecond

// Stream represents a notification stream for a subscriber.
type Stream interface {
	Send(*playerv1.Notification) error
}

// subscription represents a subscriber's subscription. Sends to one stream
// are serialized and never happen after the subscription is closed.
type subscription struct {
	id     string
	stream Stream

	sendMu sync.Mutex
	closed atomic.Bool
}

func newSubscription(stream Stream) *subscription {
	return &subscription{id: uuid.New().String(), stream: stream}
}

func (s *subscription) send(n *playerv1.Notification) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if s.closed.Load() {
		return nil
	}
	return s.stream.Send(n)
}

// close waits for an in-flight send and stops further ones.
func (s *subscription) close() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	s.closed.Store(true)
}

// Manager manages notification subscriptions and broadcasting.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	sendTimeout   time.Duration

	sequenceNo   uint64
	sequenceNoMu sync.Mutex
}

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
		sendTimeout:   DefaultSendTimeout,
	}
}

// SetSendTimeout overrides the per-stream send timeout.
func (m *Manager) SetSendTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.sendTimeout = d
	}
}

// Subscribe adds a new subscription and returns the subscription ID.
func (m *Manager) Subscribe(stream Stream) string {
	sub := newSubscription(stream)
	m.add(sub)
	return sub.id
}

// SubscribeWithInitial adds a subscription and sends it the notification built
// by initial before any broadcast can reach the stream. Broadcasts racing the
// subscription queue behind it and may carry a lower sequence number.
// If the initial send fails, nothing stays subscribed.
func (m *Manager) SubscribeWithInitial(stream Stream, initial func() *playerv1.Notification) (string, error) {
	sub := newSubscription(stream)
	sub.sendMu.Lock()
	defer sub.sendMu.Unlock()

	m.add(sub)

	n := initial()
	n.SequenceNo = m.NextSequenceNo()
	if err := stream.Send(n); err != nil {
		m.mu.Lock()
		delete(m.subscriptions, sub.id)
		m.mu.Unlock()
		sub.closed.Store(true)
		return "", err
	}
	return sub.id, nil
}

func (m *Manager) add(sub *subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subscriptions[sub.id] = sub
	zlog.Debug().Msgf("notification: subscribed: subscription_id=%s count=%d", sub.id, len(m.subscriptions))
}

// Unsubscribe removes a subscription. Once it returns, the stream is not
// written to again.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	sub, ok := m.subscriptions[subscriptionID]
	delete(m.subscriptions, subscriptionID)
	m.mu.Unlock()

	if ok {
		sub.close()
	}
}

// NextSequenceNo returns the next sequence number and increments the counter.
func (m *Manager) NextSequenceNo() uint64 {
	m.sequenceNoMu.Lock()
	defer m.sequenceNoMu.Unlock()
	m.sequenceNo++
	return m.sequenceNo
}

// Broadcast stamps the notification with the next sequence number and sends
// it to all subscribers in parallel. A subscriber whose send fails is removed.
// A send that outlives the timeout keeps running in the background, ahead of
// the next notification for that subscriber.
func (m *Manager) Broadcast(n *playerv1.Notification) {
	n.SequenceNo = m.NextSequenceNo()

	m.mu.RLock()
	subs := make([]*subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	timeout := m.sendTimeout
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(s *subscription) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- s.send(n)
			}()

			select {
			case err := <-done:
				if err != nil {
					zlog.Warn().Msgf("notification: send failed, dropping subscriber: subscription_id=%s err=%v", s.id, err)
					m.Unsubscribe(s.id)
				}
			case <-ctx.Done():
				zlog.Debug().Msgf("notification: send timed out: subscription_id=%s type=%s", s.id, n.Type)
			}
		}(sub)
	}
	wg.Wait()
}

// Send sends a notification to a specific subscriber.
func (m *Manager) Send(subscriptionID string, n *playerv1.Notification) error {
	m.mu.RLock()
	sub, ok := m.subscriptions[subscriptionID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	return sub.send(n)
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close removes all subscriptions. Queued sends are dropped; an in-flight
// send is not waited for.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subscriptions {
		sub.closed.Store(true)
	}
	m.subscriptions = make(map[string]*subscription)
}
