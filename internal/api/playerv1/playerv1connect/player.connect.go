package playerv1connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/osa030/bibliasertaneja/internal/api/playerv1"
)

// PlayerServiceHandler is implemented by the player service.
type PlayerServiceHandler interface {
	SelectTrack(context.Context, *connect.Request[playerv1.SelectTrackRequest]) (*connect.Response[playerv1.PlayerResponse], error)
	TogglePlayback(context.Context, *connect.Request[playerv1.TogglePlaybackRequest]) (*connect.Response[playerv1.PlayerResponse], error)
	Advance(context.Context, *connect.Request[playerv1.AdvanceRequest]) (*connect.Response[playerv1.PlayerResponse], error)
	Seek(context.Context, *connect.Request[playerv1.SeekRequest]) (*connect.Response[playerv1.PlayerResponse], error)
	SetVolume(context.Context, *connect.Request[playerv1.SetVolumeRequest]) (*connect.Response[playerv1.PlayerResponse], error)
	GetSnapshot(context.Context, *connect.Request[playerv1.GetSnapshotRequest]) (*connect.Response[playerv1.GetSnapshotResponse], error)
	SubscribeNotifications(context.Context, *connect.Request[playerv1.SubscribeNotificationsRequest], *connect.ServerStream[playerv1.Notification]) error
	Register(context.Context, *connect.Request[playerv1.RegisterRequest]) (*connect.Response[playerv1.SessionResponse], error)
	Login(context.Context, *connect.Request[playerv1.LoginRequest]) (*connect.Response[playerv1.SessionResponse], error)
	ContinueAsGuest(context.Context, *connect.Request[playerv1.ContinueAsGuestRequest]) (*connect.Response[playerv1.SessionResponse], error)
	Logout(context.Context, *connect.Request[playerv1.LogoutRequest]) (*connect.Response[playerv1.SessionResponse], error)
	SetOffline(context.Context, *connect.Request[playerv1.SetOfflineRequest]) (*connect.Response[playerv1.SessionResponse], error)
}

// NewPlayerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewPlayerServiceHandler(svc PlayerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)

	routes := map[string]http.Handler{
		playerv1.PlayerServiceSelectTrackProcedure: connect.NewUnaryHandler(
			playerv1.PlayerServiceSelectTrackProcedure, svc.SelectTrack, opts...),
		playerv1.PlayerServiceTogglePlaybackProcedure: connect.NewUnaryHandler(
			playerv1.PlayerServiceTogglePlaybackProcedure, svc.TogglePlayback, opts...),
		playerv1.PlayerServiceAdvanceProcedure: connect.NewUnaryHandler(
			playerv1.PlayerServiceAdvanceProcedure, svc.Advance, opts...),
		playerv1.PlayerServiceSeekProcedure: connect.NewUnaryHandler(
			playerv1.PlayerServiceSeekProcedure, svc.Seek, opts...),
		playerv1.PlayerServiceSetVolumeProcedure: connect.NewUnaryHandler(
			playerv1.PlayerServiceSetVolumeProcedure, svc.SetVolume, opts...),
		playerv1.PlayerServiceGetSnapshotProcedure: connect.NewUnaryHandler(
			playerv1.PlayerServiceGetSnapshotProcedure, svc.GetSnapshot, opts...),
		playerv1.PlayerServiceSubscribeNotificationsProcedure: connect.NewServerStreamHandler(
			playerv1.PlayerServiceSubscribeNotificationsProcedure, svc.SubscribeNotifications, opts...),
		playerv1.PlayerServiceRegisterProcedure: connect.NewUnaryHandler(
			playerv1.PlayerServiceRegisterProcedure, svc.Register, opts...),
		playerv1.PlayerServiceLoginProcedure: connect.NewUnaryHandler(
			playerv1.PlayerServiceLoginProcedure, svc.Login, opts...),
		playerv1.PlayerServiceContinueAsGuestProcedure: connect.NewUnaryHandler(
			playerv1.PlayerServiceContinueAsGuestProcedure, svc.ContinueAsGuest, opts...),
		playerv1.PlayerServiceLogoutProcedure: connect.NewUnaryHandler(
			playerv1.PlayerServiceLogoutProcedure, svc.Logout, opts...),
		playerv1.PlayerServiceSetOfflineProcedure: connect.NewUnaryHandler(
			playerv1.PlayerServiceSetOfflineProcedure, svc.SetOffline, opts...),
	}

	return "/" + playerv1.PlayerServiceName + "/", router(routes)
}

// PlayerServiceClient is a client for the player service.
type PlayerServiceClient struct {
	selectTrack            *connect.Client[playerv1.SelectTrackRequest, playerv1.PlayerResponse]
	togglePlayback         *connect.Client[playerv1.TogglePlaybackRequest, playerv1.PlayerResponse]
	advance                *connect.Client[playerv1.AdvanceRequest, playerv1.PlayerResponse]
	seek                   *connect.Client[playerv1.SeekRequest, playerv1.PlayerResponse]
	setVolume              *connect.Client[playerv1.SetVolumeRequest, playerv1.PlayerResponse]
	getSnapshot            *connect.Client[playerv1.GetSnapshotRequest, playerv1.GetSnapshotResponse]
	subscribeNotifications *connect.Client[playerv1.SubscribeNotificationsRequest, playerv1.Notification]
	register               *connect.Client[playerv1.RegisterRequest, playerv1.SessionResponse]
	login                  *connect.Client[playerv1.LoginRequest, playerv1.SessionResponse]
	continueAsGuest        *connect.Client[playerv1.ContinueAsGuestRequest, playerv1.SessionResponse]
	logout                 *connect.Client[playerv1.LogoutRequest, playerv1.SessionResponse]
	setOffline             *connect.Client[playerv1.SetOfflineRequest, playerv1.SessionResponse]
}

// NewPlayerServiceClient constructs a client for the player service. The
// baseURL has the form "http://host:port" with no trailing slash.
func NewPlayerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PlayerServiceClient {
	opts = withClientCodec(opts)
	return &PlayerServiceClient{
		selectTrack: connect.NewClient[playerv1.SelectTrackRequest, playerv1.PlayerResponse](
			httpClient, baseURL+playerv1.PlayerServiceSelectTrackProcedure, opts...),
		togglePlayback: connect.NewClient[playerv1.TogglePlaybackRequest, playerv1.PlayerResponse](
			httpClient, baseURL+playerv1.PlayerServiceTogglePlaybackProcedure, opts...),
		advance: connect.NewClient[playerv1.AdvanceRequest, playerv1.PlayerResponse](
			httpClient, baseURL+playerv1.PlayerServiceAdvanceProcedure, opts...),
		seek: connect.NewClient[playerv1.SeekRequest, playerv1.PlayerResponse](
			httpClient, baseURL+playerv1.PlayerServiceSeekProcedure, opts...),
		setVolume: connect.NewClient[playerv1.SetVolumeRequest, playerv1.PlayerResponse](
			httpClient, baseURL+playerv1.PlayerServiceSetVolumeProcedure, opts...),
		getSnapshot: connect.NewClient[playerv1.GetSnapshotRequest, playerv1.GetSnapshotResponse](
			httpClient, baseURL+playerv1.PlayerServiceGetSnapshotProcedure, opts...),
		subscribeNotifications: connect.NewClient[playerv1.SubscribeNotificationsRequest, playerv1.Notification](
			httpClient, baseURL+playerv1.PlayerServiceSubscribeNotificationsProcedure, opts...),
		register: connect.NewClient[playerv1.RegisterRequest, playerv1.SessionResponse](
			httpClient, baseURL+playerv1.PlayerServiceRegisterProcedure, opts...),
		login: connect.NewClient[playerv1.LoginRequest, playerv1.SessionResponse](
			httpClient, baseURL+playerv1.PlayerServiceLoginProcedure, opts...),
		continueAsGuest: connect.NewClient[playerv1.ContinueAsGuestRequest, playerv1.SessionResponse](
			httpClient, baseURL+playerv1.PlayerServiceContinueAsGuestProcedure, opts...),
		logout: connect.NewClient[playerv1.LogoutRequest, playerv1.SessionResponse](
			httpClient, baseURL+playerv1.PlayerServiceLogoutProcedure, opts...),
		setOffline: connect.NewClient[playerv1.SetOfflineRequest, playerv1.SessionResponse](
			httpClient, baseURL+playerv1.PlayerServiceSetOfflineProcedure, opts...),
	}
}

// SelectTrack calls PlayerService.SelectTrack.
func (c *PlayerServiceClient) SelectTrack(ctx context.Context, req *connect.Request[playerv1.SelectTrackRequest]) (*connect.Response[playerv1.PlayerResponse], error) {
	return c.selectTrack.CallUnary(ctx, req)
}

// TogglePlayback calls PlayerService.TogglePlayback.
func (c *PlayerServiceClient) TogglePlayback(ctx context.Context, req *connect.Request[playerv1.TogglePlaybackRequest]) (*connect.Response[playerv1.PlayerResponse], error) {
	return c.togglePlayback.CallUnary(ctx, req)
}

// Advance calls PlayerService.Advance.
func (c *PlayerServiceClient) Advance(ctx context.Context, req *connect.Request[playerv1.AdvanceRequest]) (*connect.Response[playerv1.PlayerResponse], error) {
	return c.advance.CallUnary(ctx, req)
}

// Seek calls PlayerService.Seek.
func (c *PlayerServiceClient) Seek(ctx context.Context, req *connect.Request[playerv1.SeekRequest]) (*connect.Response[playerv1.PlayerResponse], error) {
	return c.seek.CallUnary(ctx, req)
}

// SetVolume calls PlayerService.SetVolume.
func (c *PlayerServiceClient) SetVolume(ctx context.Context, req *connect.Request[playerv1.SetVolumeRequest]) (*connect.Response[playerv1.PlayerResponse], error) {
	return c.setVolume.CallUnary(ctx, req)
}

// GetSnapshot calls PlayerService.GetSnapshot.
func (c *PlayerServiceClient) GetSnapshot(ctx context.Context, req *connect.Request[playerv1.GetSnapshotRequest]) (*connect.Response[playerv1.GetSnapshotResponse], error) {
	return c.getSnapshot.CallUnary(ctx, req)
}

// SubscribeNotifications calls PlayerService.SubscribeNotifications.
func (c *PlayerServiceClient) SubscribeNotifications(ctx context.Context, req *connect.Request[playerv1.SubscribeNotificationsRequest]) (*connect.ServerStreamForClient[playerv1.Notification], error) {
	return c.subscribeNotifications.CallServerStream(ctx, req)
}

// Register calls PlayerService.Register.
func (c *PlayerServiceClient) Register(ctx context.Context, req *connect.Request[playerv1.RegisterRequest]) (*connect.Response[playerv1.SessionResponse], error) {
	return c.register.CallUnary(ctx, req)
}

// Login calls PlayerService.Login.
func (c *PlayerServiceClient) Login(ctx context.Context, req *connect.Request[playerv1.LoginRequest]) (*connect.Response[playerv1.SessionResponse], error) {
	return c.login.CallUnary(ctx, req)
}

// ContinueAsGuest calls PlayerService.ContinueAsGuest.
func (c *PlayerServiceClient) ContinueAsGuest(ctx context.Context, req *connect.Request[playerv1.ContinueAsGuestRequest]) (*connect.Response[playerv1.SessionResponse], error) {
	return c.continueAsGuest.CallUnary(ctx, req)
}

// Logout calls PlayerService.Logout.
func (c *PlayerServiceClient) Logout(ctx context.Context, req *connect.Request[playerv1.LogoutRequest]) (*connect.Response[playerv1.SessionResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

// SetOffline calls PlayerService.SetOffline.
func (c *PlayerServiceClient) SetOffline(ctx context.Context, req *connect.Request[playerv1.SetOfflineRequest]) (*connect.Response[playerv1.SessionResponse], error) {
	return c.setOffline.CallUnary(ctx, req)
}

// router dispatches on the full procedure path.
func router(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
