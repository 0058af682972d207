// Package ws serves the notification feed to browsers over WebSocket.
package ws

import (
	"crypto/subtle"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/net/websocket"

	apiconnect "github.com/osa030/bibliasertaneja/internal/api/connect"
	"github.com/osa030/bibliasertaneja/internal/api/playerv1"
	"github.com/osa030/bibliasertaneja/internal/app/session"
	"github.com/osa030/bibliasertaneja/internal/infra/config"
)

const (
	// Path is where the feed is mounted.
	Path = "/ws"

	writeWait = 10 * time.Second
)

// Handler streams session notifications as JSON text frames.
type Handler struct {
	session        *session.Manager
	token          string
	allowedOrigins []string
}

// NewHandler creates a feed handler.
func NewHandler(sessionMgr *session.Manager, cfg *config.Config) *Handler {
	return &Handler{
		session:        sessionMgr,
		token:          cfg.Server.Token,
		allowedOrigins: cfg.Server.AllowedOrigins,
	}
}

// ServeHTTP upgrades the request and serves the feed.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	websocket.Server{
		Handshake: h.handshake,
		Handler:   h.serve,
	}.ServeHTTP(w, r)
}

// handshake checks the origin and the API token. A non-nil error rejects
// the upgrade with 403.
func (h *Handler) handshake(cfg *websocket.Config, r *http.Request) error {
	origin, err := websocket.Origin(cfg, r)
	if err != nil {
		return errors.Wrap(err, "invalid origin")
	}
	cfg.Origin = origin

	if len(h.allowedOrigins) > 0 {
		if origin == nil || !lo.Contains(h.allowedOrigins, origin.String()) {
			zlog.Warn().Msgf("ws: origin not allowed, rejecting connection: origin=%v", origin)
			return errors.New("origin not allowed")
		}
	}

	if h.token != "" {
		token := r.Header.Get(apiconnect.TokenHeader)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) != 1 {
			zlog.Warn().Msgf("ws: unauthenticated connection rejected: remote=%s", r.RemoteAddr)
			return errors.New("unauthenticated")
		}
	}
	return nil
}

func (h *Handler) serve(conn *websocket.Conn) {
	defer func() {
		if err := conn.Close(); err != nil {
			zlog.Debug().Msgf("ws: close failed: error=%v", err)
		}
	}()

	notifManager := h.session.GetNotificationManager()
	stream := &connStream{conn: conn}

	// The current state goes out before any broadcast
	subscriptionID, err := notifManager.SubscribeWithInitial(stream, h.session.InitialNotification)
	if err != nil {
		zlog.Debug().Msgf("ws: initial send failed: error=%v", err)
		return
	}
	defer notifManager.Unsubscribe(subscriptionID)
	zlog.Debug().Msgf("ws: client connected: subscription_id=%s", subscriptionID)

	// Read until the client disconnects
	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		var msg string
		for {
			if err := websocket.Message.Receive(conn, &msg); err != nil {
				return
			}
		}
	}()

	select {
	case <-disconnected:
	case <-h.session.Done():
	}
	zlog.Debug().Msgf("ws: client disconnected: subscription_id=%s", subscriptionID)
}

// connStream adapts a WebSocket connection to notification.Stream.
type connStream struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *connStream) Send(n *playerv1.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return websocket.JSON.Send(s.conn, n)
}

// Health responds to liveness checks.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		zlog.Warn().Msgf("failed to write health check response: error=%v", err)
	}
}

// Mount registers the feed and the health endpoint on mux.
func Mount(mux *http.ServeMux, sessionMgr *session.Manager, cfg *config.Config) {
	mux.Handle(Path, NewHandler(sessionMgr, cfg))
	mux.HandleFunc("/health", Health)
}
