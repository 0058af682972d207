package connect

import (
	"context"
	"math"

	"connectrpc.com/connect"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/bibliasertaneja/internal/api/playerv1"
	"github.com/osa030/bibliasertaneja/internal/api/playerv1/playerv1connect"
	"github.com/osa030/bibliasertaneja/internal/app/playback"
	"github.com/osa030/bibliasertaneja/internal/app/session"
	"github.com/osa030/bibliasertaneja/internal/infra/config"
)

// PlayerService implements the PlayerService RPC.
type PlayerService struct {
	session *session.Manager
	config  *config.Config
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(session *session.Manager, cfg *config.Config) *PlayerService {
	return &PlayerService{
		session: session,
		config:  cfg,
	}
}

// Ensure PlayerService implements the interface.
var _ playerv1connect.PlayerServiceHandler = (*PlayerService)(nil)

// SelectTrack handles track selection.
func (s *PlayerService) SelectTrack(
	ctx context.Context,
	req *connect.Request[playerv1.SelectTrackRequest],
) (*connect.Response[playerv1.PlayerResponse], error) {
	if req.Msg.TrackId == "" {
		return nil, invalidArgument("track_id is required")
	}
	return s.playerResponse(s.session.SelectTrack(req.Msg.TrackId))
}

// TogglePlayback handles play/pause.
func (s *PlayerService) TogglePlayback(
	ctx context.Context,
	req *connect.Request[playerv1.TogglePlaybackRequest],
) (*connect.Response[playerv1.PlayerResponse], error) {
	return s.playerResponse(s.session.TogglePlayback())
}

// Advance handles next/previous.
func (s *PlayerService) Advance(
	ctx context.Context,
	req *connect.Request[playerv1.AdvanceRequest],
) (*connect.Response[playerv1.PlayerResponse], error) {
	dir, ok := playback.ParseDirection(req.Msg.Direction)
	if !ok {
		return nil, invalidArgument("direction must be next or prev, got %q", req.Msg.Direction)
	}
	return s.playerResponse(s.session.Advance(dir))
}

// Seek handles playhead moves.
func (s *PlayerService) Seek(
	ctx context.Context,
	req *connect.Request[playerv1.SeekRequest],
) (*connect.Response[playerv1.PlayerResponse], error) {
	if math.IsNaN(req.Msg.PositionSeconds) || math.IsInf(req.Msg.PositionSeconds, 0) {
		return nil, invalidArgument("position_seconds must be finite")
	}
	return s.playerResponse(s.session.Seek(req.Msg.PositionSeconds))
}

// SetVolume handles volume changes.
func (s *PlayerService) SetVolume(
	ctx context.Context,
	req *connect.Request[playerv1.SetVolumeRequest],
) (*connect.Response[playerv1.PlayerResponse], error) {
	s.session.SetVolume(req.Msg.Volume)
	return s.playerResponse(nil)
}

// GetSnapshot returns the session and player state.
func (s *PlayerService) GetSnapshot(
	ctx context.Context,
	req *connect.Request[playerv1.GetSnapshotRequest],
) (*connect.Response[playerv1.GetSnapshotResponse], error) {
	return connect.NewResponse(&playerv1.GetSnapshotResponse{
		SessionInfo: s.session.SessionInfo(),
		State:       s.session.BuildPlayerState(s.session.Snapshot()),
	}), nil
}

// SubscribeNotifications streams player and session notifications.
func (s *PlayerService) SubscribeNotifications(
	ctx context.Context,
	req *connect.Request[playerv1.SubscribeNotificationsRequest],
	stream *connect.ServerStream[playerv1.Notification],
) error {
	notifManager := s.session.GetNotificationManager()

	adapter := &notificationStreamAdapter{stream: stream}
	subscriptionID, err := notifManager.SubscribeWithInitial(adapter, s.session.InitialNotification)
	if err != nil {
		return err
	}
	zlog.Debug().Msgf("notification stream opened: subscription_id=%s", subscriptionID)

	// Wait for context cancellation or session end
	select {
	case <-ctx.Done():
	case <-s.session.Done():
	}

	notifManager.Unsubscribe(subscriptionID)
	zlog.Debug().Msgf("notification stream closed: subscription_id=%s", subscriptionID)
	return nil
}

// Register handles account creation.
func (s *PlayerService) Register(
	ctx context.Context,
	req *connect.Request[playerv1.RegisterRequest],
) (*connect.Response[playerv1.SessionResponse], error) {
	_, err := s.session.Register(req.Msg.DisplayName, req.Msg.Email)
	return s.sessionResponse(err)
}

// Login handles account login.
func (s *PlayerService) Login(
	ctx context.Context,
	req *connect.Request[playerv1.LoginRequest],
) (*connect.Response[playerv1.SessionResponse], error) {
	_, err := s.session.Login(req.Msg.Email)
	return s.sessionResponse(err)
}

// ContinueAsGuest enters without an account.
func (s *PlayerService) ContinueAsGuest(
	ctx context.Context,
	req *connect.Request[playerv1.ContinueAsGuestRequest],
) (*connect.Response[playerv1.SessionResponse], error) {
	s.session.ContinueAsGuest()
	return s.sessionResponse(nil)
}

// Logout handles logout.
func (s *PlayerService) Logout(
	ctx context.Context,
	req *connect.Request[playerv1.LogoutRequest],
) (*connect.Response[playerv1.SessionResponse], error) {
	s.session.Logout()
	return s.sessionResponse(nil)
}

// SetOffline switches offline mode.
func (s *PlayerService) SetOffline(
	ctx context.Context,
	req *connect.Request[playerv1.SetOfflineRequest],
) (*connect.Response[playerv1.SessionResponse], error) {
	return s.sessionResponse(s.session.SetOffline(req.Msg.Enabled))
}

func (s *PlayerService) playerResponse(opErr error) (*connect.Response[playerv1.PlayerResponse], error) {
	result, err := outcome(s.config, opErr)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&playerv1.PlayerResponse{
		Result: result,
		State:  s.session.BuildPlayerState(s.session.Snapshot()),
	}), nil
}

func (s *PlayerService) sessionResponse(opErr error) (*connect.Response[playerv1.SessionResponse], error) {
	result, err := outcome(s.config, opErr)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&playerv1.SessionResponse{
		Result:      result,
		SessionInfo: s.session.SessionInfo(),
	}), nil
}

// notificationStreamAdapter adapts connect.ServerStream to notification.Stream.
type notificationStreamAdapter struct {
	stream *connect.ServerStream[playerv1.Notification]
}

func (a *notificationStreamAdapter) Send(notification *playerv1.Notification) error {
	return a.stream.Send(notification)
}
