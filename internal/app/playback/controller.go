package playback

import (
	"math"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/osa030/bibliasertaneja/internal/app/gate"
	"github.com/osa030/bibliasertaneja/internal/domain/account"
	"github.com/osa030/bibliasertaneja/internal/domain/track"
)

// Environment supplies the session conditions. It is read at the start of
// every operation and every tick, so a login or an offline switch takes
// effect on the next call.
type Environment interface {
	Role() account.Role
	Offline() bool
	IsDownloaded(trackID string) bool
}

// Catalog is the ordered track sequence used to resolve next/prev.
type Catalog interface {
	Len() int
	At(i int) track.Track
	IndexOf(id string) (int, bool)
}

// Policy classifies continuation actions (resume, seek).
type Policy interface {
	Check(req gate.Request) gate.Decision
}

// Config holds controller configuration.
type Config struct {
	PreviewLimitSec float64         // Guest preview ceiling
	TickInterval    time.Duration   // Clock interval; zero disables the built-in clock
	InitialVolume   float64         // Volume before the first SetVolume
	EventBuffer     int             // Size of the event channel buffer
	Logger          *zerolog.Logger // Defaults to the global logger
}

// conditions is the environment read once per operation.
type conditions struct {
	role    account.Role
	offline bool
}

// Controller owns the now-playing slot. All operations are serialized on a
// single mutex shared with the clock, so ticks and user actions never interleave.
type Controller struct {
	mu sync.Mutex

	config  Config
	log     zerolog.Logger
	catalog Catalog
	env     Environment
	policy  Policy
	clock   *Clock

	// Current track state
	current         *track.Track
	status          State
	elapsed         float64
	volume          float64
	previewSignaled bool // Set on a guest limit crossing, cleared by any allowed resume, tick or seek

	// Events
	eventCh   chan Event
	observers map[int]func(Event)
	nextObsID int
	closed    bool
}

// NewController creates a new playback controller.
func NewController(config Config, catalog Catalog, env Environment, policy Policy) *Controller {
	if config.PreviewLimitSec <= 0 {
		config.PreviewLimitSec = gate.DefaultPreviewLimitSec
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = 32
	}
	if policy == nil {
		policy = gate.NewDefaultChain(config.PreviewLimitSec)
	}
	log := zlog.Logger
	if config.Logger != nil {
		log = *config.Logger
	}

	c := &Controller{
		config:    config,
		log:       log,
		catalog:   catalog,
		env:       env,
		policy:    policy,
		status:    StatePaused,
		volume:    lo.Clamp(config.InitialVolume, 0, 1),
		eventCh:   make(chan Event, config.EventBuffer),
		observers: make(map[int]func(Event)),
	}
	if config.TickInterval > 0 {
		c.clock = NewClock(config.TickInterval)
	}
	return c
}

// Events returns the event channel.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// Subscribe registers an observer called after every state change, in order.
// Observers run with the controller locked and must not call back into it.
// The returned function removes the observer.
func (c *Controller) Subscribe(fn func(Event)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextObsID
	c.nextObsID++
	c.observers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

// Snapshot returns the current playback snapshot.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SelectTrack makes t the current track and starts playing it from the start.
// Selecting the current track toggles playback instead.
func (c *Controller) SelectTrack(t track.Track) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.selectTrackLocked(t, c.conditions())
}

// TogglePlayback flips between paused and playing. No-op without a track.
func (c *Controller) TogglePlayback() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.toggleLocked(c.conditions())
}

// Advance moves to the next or previous catalog track, wrapping around.
// In offline mode tracks that are not downloaded are skipped, at most one lap.
func (c *Controller) Advance(dir Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.advanceLocked(dir, c.conditions())
}

// OnTrackEnded handles natural completion of the current track.
func (c *Controller) OnTrackEnded() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	c.sendEventLocked(EventTrackEnded)
	return c.advanceLocked(Next, c.conditions())
}

// PlayCollection plays the first playable track of a sequence (playlist, album).
func (c *Controller) PlayCollection(tracks []track.Track) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cond := c.conditions()
	candidate, ok := lo.Find(tracks, func(t track.Track) bool {
		return !cond.offline || c.env.IsDownloaded(t.ID)
	})
	if !ok {
		return errors.Wrapf(gate.ErrNoPlayableTrack, "collection of %d tracks", len(tracks))
	}
	return c.selectTrackLocked(candidate, cond)
}

// Seek moves the playhead. No-op without a track.
func (c *Controller) Seek(target float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	if math.IsNaN(target) {
		return errors.New("seek target is not a number")
	}

	cond := c.conditions()
	d := c.policy.Check(gate.Request{Action: gate.ActionSeek, Role: cond.role, Position: target})
	if !d.Allowed {
		return errors.Wrapf(d.Err(), "seek to %.3f", target)
	}

	c.elapsed = lo.Clamp(target, 0, float64(c.current.Duration))
	c.previewSignaled = false
	c.sendEventLocked(EventSeeked)
	return nil
}

// SetVolume sets the volume, clamped to [0, 1].
func (c *Controller) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if math.IsNaN(v) {
		v = 0
	}
	c.volume = lo.Clamp(v, 0, 1)
	c.sendEventLocked(EventVolumeChanged)
}

// Tick reports the audio position. It is ignored unless playing.
// Returns ErrPreviewExpired once per crossing of the guest preview limit.
func (c *Controller) Tick(now float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tickLocked(now, c.conditions())
}

// Reset clears the player back to paused with no track.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopClockLocked()
	c.current = nil
	c.status = StatePaused
	c.elapsed = 0
	c.previewSignaled = false
	c.sendEventLocked(EventReset)
}

// Close stops the clock and closes the event channel.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.stopClockLocked()
	c.closed = true
	close(c.eventCh)
}

func (c *Controller) conditions() conditions {
	if c.env == nil {
		return conditions{role: account.RoleGuest}
	}
	return conditions{role: c.env.Role(), offline: c.env.Offline()}
}

func (c *Controller) selectTrackLocked(t track.Track, cond conditions) error {
	// Rejections must not touch the snapshot.
	if cond.offline && !c.env.IsDownloaded(t.ID) {
		return errors.Wrapf(gate.ErrUnavailable, "track %s", t.ID)
	}

	if c.current != nil && c.current.ID == t.ID {
		return c.toggleLocked(cond)
	}

	c.stopClockLocked()
	selected := t
	c.current = &selected
	c.elapsed = 0
	c.status = StatePlaying
	c.previewSignaled = false
	c.startClockLocked()

	c.log.Debug().Msgf("playback: track started: track=%s title=%s duration=%d role=%s",
		t.ID, t.Title, t.Duration, cond.role)
	c.sendEventLocked(EventTrackStarted)
	return nil
}

func (c *Controller) toggleLocked(cond conditions) error {
	if c.current == nil {
		return nil
	}

	d := c.policy.Check(gate.Request{Action: gate.ActionResume, Role: cond.role, Position: c.elapsed})
	if !d.Allowed {
		return errors.Wrapf(d.Err(), "toggle at %.3f", c.elapsed)
	}
	c.previewSignaled = false

	if c.status == StatePaused {
		c.status = StatePlaying
		c.startClockLocked()
	} else {
		c.status = StatePaused
		c.stopClockLocked()
	}

	c.log.Debug().Msgf("playback: state changed: track=%s state=%s elapsed=%.1f",
		c.current.ID, c.status, c.elapsed)
	c.sendEventLocked(EventStateChanged)
	return nil
}

func (c *Controller) advanceLocked(dir Direction, cond conditions) error {
	if c.current == nil {
		return nil
	}

	n := c.catalog.Len()
	if n == 0 {
		return errors.Wrap(gate.ErrNoPlayableTrack, "catalog is empty")
	}
	cur, ok := c.catalog.IndexOf(c.current.ID)
	if !ok {
		return errors.Wrapf(gate.ErrNoPlayableTrack, "track %s is not in the catalog", c.current.ID)
	}

	for step := 1; step <= n; step++ {
		i := ((cur+int(dir)*step)%n + n) % n
		candidate := c.catalog.At(i)
		if cond.offline && !c.env.IsDownloaded(candidate.ID) {
			continue
		}
		return c.selectTrackLocked(candidate, cond)
	}

	c.log.Debug().Msgf("playback: no playable track: direction=%s offline=%v", dir, cond.offline)
	return errors.Wrapf(gate.ErrNoPlayableTrack, "advance %s", dir)
}

func (c *Controller) tickLocked(now float64, cond conditions) error {
	if c.current == nil || c.status != StatePlaying {
		return nil
	}
	if math.IsNaN(now) {
		return nil
	}

	now = lo.Clamp(now, 0, float64(c.current.Duration))

	d := c.policy.Check(gate.Request{Action: gate.ActionResume, Role: cond.role, Position: now})
	if !d.Allowed {
		c.elapsed = math.Min(now, c.config.PreviewLimitSec)
		c.status = StatePaused
		c.stopClockLocked()

		if c.previewSignaled {
			c.sendEventLocked(EventStateChanged)
			return nil
		}
		c.previewSignaled = true
		c.log.Info().Msgf("playback: guest preview limit reached: track=%s elapsed=%.1f",
			c.current.ID, c.elapsed)
		c.sendEventLocked(EventPreviewExpired)
		return d.Err()
	}

	c.elapsed = now
	c.previewSignaled = false
	c.sendEventLocked(EventProgress)
	return nil
}

// onClockTick advances the simulated audio position by one interval.
func (c *Controller) onClockTick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.clock == nil || !c.clock.Current(gen) {
		return
	}
	if c.current == nil || c.status != StatePlaying {
		return
	}

	cond := c.conditions()
	_ = c.tickLocked(c.elapsed+c.clock.Interval().Seconds(), cond)

	if c.status != StatePlaying || c.elapsed < float64(c.current.Duration) {
		return
	}

	ended := c.current.ID
	c.sendEventLocked(EventTrackEnded)
	if err := c.advanceLocked(Next, cond); err != nil {
		// Nothing to continue with: stop at the end of the track.
		c.log.Info().Msgf("playback: stopping after track end: track=%s reason=%v", ended, err)
		c.status = StatePaused
		c.stopClockLocked()
		c.sendEventLocked(EventStateChanged)
	}
}

func (c *Controller) startClockLocked() {
	if c.clock == nil {
		return
	}
	c.clock.Start(c.onClockTick)
}

func (c *Controller) stopClockLocked() {
	if c.clock == nil {
		return
	}
	c.clock.Stop()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Status:        c.status,
		Elapsed:       c.elapsed,
		Volume:        c.volume,
		PreviewLocked: c.previewSignaled,
	}
	if c.current != nil {
		t := *c.current
		s.TrackID = t.ID
		s.Track = &t
	}
	return s
}

// sendEventLocked notifies observers and sends the event without blocking.
// Must be called with lock held.
func (c *Controller) sendEventLocked(typ EventType) {
	e := Event{Type: typ, Snapshot: c.snapshotLocked()}

	for _, fn := range c.observers {
		fn(e)
	}

	if c.closed {
		return
	}
	select {
	case c.eventCh <- e:
	default:
		// Channel full, drop event. Observers already saw it.
	}
}
