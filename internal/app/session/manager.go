// Package session provides the session manager.
package session

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/osa030/bibliasertaneja/internal/api/playerv1"
	"github.com/osa030/bibliasertaneja/internal/app/gate"
	"github.com/osa030/bibliasertaneja/internal/app/library"
	"github.com/osa030/bibliasertaneja/internal/app/notification"
	"github.com/osa030/bibliasertaneja/internal/app/playback"
	"github.com/osa030/bibliasertaneja/internal/app/session/registry"
	"github.com/osa030/bibliasertaneja/internal/app/session/state"
	"github.com/osa030/bibliasertaneja/internal/domain/account"
	"github.com/osa030/bibliasertaneja/internal/domain/catalog"
	"github.com/osa030/bibliasertaneja/internal/domain/playlist"
	"github.com/osa030/bibliasertaneja/internal/domain/track"
	"github.com/osa030/bibliasertaneja/internal/infra/config"
	"github.com/osa030/bibliasertaneja/internal/infra/logger"
)

var (
	ErrTrackNotFound = errors.New("track not found")
	ErrAlbumNotFound = errors.New("album not found")
)

// Manager owns one listener session: identity, library, gate and player.
type Manager struct {
	// Serializes identity transitions (login, logout, offline switch)
	mu sync.Mutex

	// Configuration
	config *config.Config
	log    zerolog.Logger // Tagged with session_id

	// Components
	stateMgr     *state.Manager
	accounts     *registry.AccountRegistry
	catalog      *catalog.Catalog
	library      *library.Store
	gate         *gate.Chain
	playback     *playback.Controller
	notification *notification.Manager

	// Lifecycle
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// environment exposes the session to the controller.
type environment struct {
	state   *state.Manager
	library *library.Store
}

func (e environment) Role() account.Role               { return e.state.Role() }
func (e environment) Offline() bool                    { return e.state.Offline() }
func (e environment) IsDownloaded(trackID string) bool { return e.library.IsDownloaded(trackID) }

// NewManager creates a session manager over a loaded catalog and library.
func NewManager(cfg *config.Config, cat *catalog.Catalog, lib *library.Store) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	sessionID := uuid.New().String()
	stateMgr := state.New(sessionID)
	gateChain := gate.NewDefaultChain(cfg.Player.PreviewLimitSeconds)

	m := &Manager{
		config:       cfg,
		log:          logger.ForSession(sessionID),
		stateMgr:     stateMgr,
		accounts:     registry.NewAccountRegistry(),
		catalog:      cat,
		library:      lib,
		gate:         gateChain,
		notification: notification.NewManager(),

		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	m.playback = playback.NewController(playback.Config{
		PreviewLimitSec: cfg.Player.PreviewLimitSeconds,
		TickInterval:    cfg.TickInterval(),
		InitialVolume:   cfg.Player.DefaultVolume,
		EventBuffer:     cfg.Player.EventBuffer,
		Logger:          &m.log,
	}, cat, environment{state: stateMgr, library: lib}, gateChain)

	m.notification.SetSendTimeout(cfg.NotificationTimeout())

	return m
}

// Start starts the playback event loop.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return
	}
	m.started = true

	m.log.Info().Msgf("session started: tracks=%d preview_limit=%.0fs",
		m.catalog.Len(), m.config.Player.PreviewLimitSeconds)
	go m.playbackLoop()
}

// Done returns a channel closed when the session is closed.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Close stops the player and drops all subscribers.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		return
	default:
	}

	m.cancel()
	m.playback.Close()
	m.notification.Close()
	close(m.done)
}

// --- Identity ---

// Register creates an account and logs it in.
func (m *Manager) Register(displayName, email string) (account.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.accounts.Register(displayName, email)
	if err != nil {
		return account.User{}, err
	}
	m.stateMgr.SetUser(u)

	m.log.Info().Msgf("user registered: user_id=%s display_name=%s", u.ID, u.DisplayName)
	m.broadcastSession()
	return u, nil
}

// Login logs in an existing account by email.
func (m *Manager) Login(email string) (account.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.accounts.Login(email, m.config.Accounts.AutoRegister)
	if err != nil {
		m.log.Warn().Msgf("login rejected: email=%s error=%v", email, err)
		return account.User{}, err
	}
	m.stateMgr.SetUser(u)

	m.log.Info().Msgf("user logged in: user_id=%s", u.ID)
	m.broadcastSession()
	return u, nil
}

// ContinueAsGuest enters the app without an account. Leaving a logged-in
// session this way clears the player like Logout.
func (m *Manager) ContinueAsGuest() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.stateMgr.Role().IsGuest() {
		m.playback.Reset()
		m.stateMgr.Clear()
	}
	m.stateMgr.SetGuest()
	m.log.Info().Msg("continuing as guest")
	m.broadcastSession()
}

// Logout clears the player, turns offline mode off and returns to guest.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.playback.Reset()
	m.stateMgr.Clear()

	m.log.Info().Msg("user logged out")
	m.broadcastSession()
}

// SetOffline switches offline mode. Enabling it requires a login; disabling
// is always allowed.
func (m *Manager) SetOffline(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if on {
		if err := m.check(gate.ActionEnableOffline); err != nil {
			return err
		}
	}
	m.stateMgr.SetOffline(on)

	m.log.Info().Msgf("offline mode changed: offline=%v downloaded=%d", on, len(m.library.Downloaded()))
	m.broadcastSession()
	return nil
}

// --- Library ---

// ToggleDownload flips the offline copy of a track.
func (m *Manager) ToggleDownload(trackID string) (bool, error) {
	if _, err := m.track(trackID); err != nil {
		return false, err
	}
	if err := m.check(gate.ActionToggleDownload); err != nil {
		return false, err
	}
	downloaded := m.library.ToggleDownload(trackID)
	m.log.Debug().Msgf("download toggled: track_id=%s downloaded=%v", trackID, downloaded)
	return downloaded, nil
}

// ToggleFavorite flips the favorite flag of a track. Allowed for guests.
func (m *Manager) ToggleFavorite(trackID string) (bool, error) {
	if _, err := m.track(trackID); err != nil {
		return false, err
	}
	if err := m.check(gate.ActionToggleFavorite); err != nil {
		return false, err
	}
	return m.library.ToggleFavorite(trackID), nil
}

// CreatePlaylist creates a user playlist.
func (m *Manager) CreatePlaylist(title string) (playlist.Playlist, error) {
	if err := m.check(gate.ActionCreatePlaylist); err != nil {
		return playlist.Playlist{}, err
	}
	p := m.library.CreatePlaylist(title)
	m.log.Info().Msgf("playlist created: playlist_id=%s title=%s", p.ID, p.Title)
	return p, nil
}

// DeletePlaylist deletes a user playlist.
func (m *Manager) DeletePlaylist(playlistID string) error {
	if err := m.check(gate.ActionDeletePlaylist); err != nil {
		return err
	}
	return m.library.DeletePlaylist(playlistID)
}

// AddToPlaylist appends a catalog track to a playlist.
func (m *Manager) AddToPlaylist(playlistID, trackID string) (playlist.Playlist, error) {
	if _, err := m.track(trackID); err != nil {
		return playlist.Playlist{}, err
	}
	if err := m.check(gate.ActionAddToPlaylist); err != nil {
		return playlist.Playlist{}, err
	}
	if err := m.library.AddToPlaylist(playlistID, trackID); err != nil {
		return playlist.Playlist{}, err
	}
	return m.library.Playlist(playlistID)
}

// RemoveFromPlaylist removes a track from a playlist.
func (m *Manager) RemoveFromPlaylist(playlistID, trackID string) (playlist.Playlist, error) {
	if err := m.check(gate.ActionRemoveFromPlaylist); err != nil {
		return playlist.Playlist{}, err
	}
	if err := m.library.RemoveFromPlaylist(playlistID, trackID); err != nil {
		return playlist.Playlist{}, err
	}
	return m.library.Playlist(playlistID)
}

// Playlists returns the playlists playable in the current mode.
func (m *Manager) Playlists() []playlist.Playlist {
	return m.library.AvailablePlaylists(m.stateMgr.Offline())
}

// Tracks returns the catalog tracks, optionally narrowed to an album.
func (m *Manager) Tracks(albumID string) ([]track.Track, error) {
	if albumID == "" {
		return m.catalog.Tracks(), nil
	}
	a, ok := m.catalog.Album(albumID)
	if !ok {
		return nil, errors.Wrapf(ErrAlbumNotFound, "album %s", albumID)
	}
	return m.catalog.Resolve(a.TrackIDs), nil
}

// Albums returns the catalog albums.
func (m *Manager) Albums() []track.Album {
	return m.catalog.Albums()
}

// IsDownloaded reports whether a track is downloaded.
func (m *Manager) IsDownloaded(trackID string) bool {
	return m.library.IsDownloaded(trackID)
}

// IsFavorite reports whether a track is a favorite.
func (m *Manager) IsFavorite(trackID string) bool {
	return m.library.IsFavorite(trackID)
}

// --- Transport ---

// SelectTrack selects a catalog track by id.
func (m *Manager) SelectTrack(trackID string) error {
	t, err := m.track(trackID)
	if err != nil {
		return err
	}
	return m.playback.SelectTrack(t)
}

// TogglePlayback flips between paused and playing.
func (m *Manager) TogglePlayback() error {
	return m.playback.TogglePlayback()
}

// Advance moves to the next or previous track.
func (m *Manager) Advance(dir playback.Direction) error {
	return m.playback.Advance(dir)
}

// Seek moves the playhead.
func (m *Manager) Seek(position float64) error {
	return m.playback.Seek(position)
}

// SetVolume sets the volume.
func (m *Manager) SetVolume(v float64) {
	m.playback.SetVolume(v)
}

// PlayPlaylist plays the first playable track of a playlist.
func (m *Manager) PlayPlaylist(playlistID string) error {
	p, err := m.library.Playlist(playlistID)
	if err != nil {
		return err
	}
	return m.playback.PlayCollection(m.catalog.Resolve(p.TrackIDs))
}

// PlayAlbum plays the first playable track of an album.
func (m *Manager) PlayAlbum(albumID string) error {
	a, ok := m.catalog.Album(albumID)
	if !ok {
		return errors.Wrapf(ErrAlbumNotFound, "album %s", albumID)
	}
	return m.playback.PlayCollection(m.catalog.Resolve(a.TrackIDs))
}

// Snapshot returns the current player snapshot.
func (m *Manager) Snapshot() playback.Snapshot {
	return m.playback.Snapshot()
}

// Role returns the current role.
func (m *Manager) Role() account.Role {
	return m.stateMgr.Role()
}

// GetNotificationManager returns the notification manager.
func (m *Manager) GetNotificationManager() *notification.Manager {
	return m.notification
}

// --- Internals ---

func (m *Manager) track(trackID string) (track.Track, error) {
	t, ok := m.catalog.Get(trackID)
	if !ok {
		return track.Track{}, errors.Wrapf(ErrTrackNotFound, "track %s", trackID)
	}
	return t, nil
}

// check runs the gate for a library action with the current role.
func (m *Manager) check(action gate.Action) error {
	role := m.stateMgr.Role()
	d := m.gate.Check(gate.Request{Action: action, Role: role})
	if !d.Allowed {
		m.log.Info().Msgf("action denied: action=%s role=%s code=%s", action, role, d.Reason.Code())
		return errors.Wrapf(d.Err(), "%s", action)
	}
	return nil
}

// playbackLoop forwards controller events to subscribers.
func (m *Manager) playbackLoop() {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().Msgf("playback loop panicked: %v", r)
			// Restart loop so notifications keep flowing
			m.log.Info().Msg("restarting playback loop")
			go m.playbackLoop()
		}
	}()

	events := m.playback.Events()
	for {
		select {
		case <-m.ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			m.handlePlaybackEvent(event)
		}
	}
}

// handlePlaybackEvent broadcasts a controller event.
func (m *Manager) handlePlaybackEvent(event playback.Event) {
	typ := notificationType(event.Type)
	if event.Type != playback.EventProgress {
		m.log.Info().Msgf("broadcast %s: track_id=%s state=%s elapsed=%.1f",
			typ, event.Snapshot.TrackID, event.Snapshot.Status, event.Snapshot.Elapsed)
	}

	m.notification.Broadcast(&playerv1.Notification{
		Type:        typ,
		SessionInfo: m.SessionInfo(),
		PlayerState: m.BuildPlayerState(event.Snapshot),
	})
}

// broadcastSession notifies subscribers of an identity or mode change.
func (m *Manager) broadcastSession() {
	m.notification.Broadcast(&playerv1.Notification{
		Type:        playerv1.NotificationTypeSessionChanged,
		SessionInfo: m.SessionInfo(),
		PlayerState: m.BuildPlayerState(m.playback.Snapshot()),
	})
}

func notificationType(t playback.EventType) playerv1.NotificationType {
	switch t {
	case playback.EventTrackStarted:
		return playerv1.NotificationTypeTrackStarted
	case playback.EventTrackEnded:
		return playerv1.NotificationTypeTrackEnded
	case playback.EventStateChanged:
		return playerv1.NotificationTypeStateChanged
	case playback.EventSeeked:
		return playerv1.NotificationTypeSeeked
	case playback.EventProgress:
		return playerv1.NotificationTypeProgress
	case playback.EventVolumeChanged:
		return playerv1.NotificationTypeVolumeChanged
	case playback.EventPreviewExpired:
		return playerv1.NotificationTypePreviewExpired
	case playback.EventReset:
		return playerv1.NotificationTypeReset
	default:
		return playerv1.NotificationTypeStateChanged
	}
}
