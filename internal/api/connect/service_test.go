package connect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/bibliasertaneja/internal/api/playerv1"
	"github.com/osa030/bibliasertaneja/internal/api/playerv1/playerv1connect"
	"github.com/osa030/bibliasertaneja/internal/app/gate"
	"github.com/osa030/bibliasertaneja/internal/app/library"
	"github.com/osa030/bibliasertaneja/internal/app/session"
	"github.com/osa030/bibliasertaneja/internal/app/session/registry"
	"github.com/osa030/bibliasertaneja/internal/domain/catalog"
	"github.com/osa030/bibliasertaneja/internal/domain/playlist"
	"github.com/osa030/bibliasertaneja/internal/domain/track"
	"github.com/osa030/bibliasertaneja/internal/infra/config"
)

const testConfigYAML = `
player:
  tick_interval_ms: 10000
catalog:
  sources:
    - type: file
      settings:
        path: unused.yaml
`

type testEnv struct {
	player  *playerv1connect.PlayerServiceClient
	library *playerv1connect.LibraryServiceClient
	session *session.Manager
	config  *config.Config
	url     string
}

func newTestEnv(t *testing.T, serverToken, clientToken string) *testEnv {
	t.Helper()

	cfg, err := config.Parse([]byte(testConfigYAML))
	require.NoError(t, err)
	cfg.Server.Token = serverToken

	cat := catalog.New()
	for _, tr := range []track.Track{
		{ID: "1", Title: "Caminho de Emaús", BibleReference: "Lucas 24:13-35", Duration: 185},
		{ID: "2", Title: "O Filho Pródigo", BibleReference: "Lucas 15:11-32", Duration: 240},
		{ID: "3", Title: "Davi e Golias", Duration: 190},
	} {
		require.NoError(t, cat.Insert(tr))
	}
	require.NoError(t, cat.InsertAlbum(track.Album{ID: "a1", Title: "Raízes do Sertão", TrackIDs: []string{"1", "2"}}))

	lib := library.NewStore()
	require.NoError(t, lib.SeedPlaylist(playlist.Playlist{ID: "p1", Title: "Clássicos", TrackIDs: []string{"2", "3"}}))

	mgr := session.NewManager(cfg, cat, lib)
	mgr.Start()

	mux := http.NewServeMux()
	Mount(mux, mgr, cfg)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Cleanup(mgr.Close)

	opts := []connect.ClientOption{connect.WithInterceptors(WithToken(clientToken))}
	return &testEnv{
		player:  playerv1connect.NewPlayerServiceClient(srv.Client(), srv.URL, opts...),
		library: playerv1connect.NewLibraryServiceClient(srv.Client(), srv.URL, opts...),
		session: mgr,
		config:  cfg,
		url:     srv.URL,
	}
}

func TestPlayerService_GuestPreview(t *testing.T) {
	env := newTestEnv(t, "", "")
	ctx := context.Background()

	sess, err := env.player.ContinueAsGuest(ctx, connect.NewRequest(&playerv1.ContinueAsGuestRequest{}))
	require.NoError(t, err)
	assert.True(t, sess.Msg.Result.Success)
	assert.Equal(t, "guest", sess.Msg.SessionInfo.Role)
	assert.Equal(t, 30.0, sess.Msg.SessionInfo.PreviewLimitSeconds)

	resp, err := env.player.SelectTrack(ctx, connect.NewRequest(&playerv1.SelectTrackRequest{TrackId: "1"}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.Result.Success)
	assert.Equal(t, "success", resp.Msg.Result.Code)
	assert.Equal(t, "playing", resp.Msg.State.State)
	require.NotNil(t, resp.Msg.State.Track)
	assert.Equal(t, "Lucas 24:13-35", resp.Msg.State.Track.BibleReference)

	resp, err = env.player.Seek(ctx, connect.NewRequest(&playerv1.SeekRequest{PositionSeconds: 30}))
	require.NoError(t, err)
	assert.False(t, resp.Msg.Result.Success)
	assert.Equal(t, "preview_expired", resp.Msg.Result.Code)
	assert.Equal(t, env.config.Messages.PreviewExpired, resp.Msg.Result.Message)
	assert.Equal(t, 0.0, resp.Msg.State.ElapsedSeconds)

	resp, err = env.player.Seek(ctx, connect.NewRequest(&playerv1.SeekRequest{PositionSeconds: 29.9}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.Result.Success)
	assert.InDelta(t, 29.9, resp.Msg.State.ElapsedSeconds, 1e-9)

	resp, err = env.player.SetVolume(ctx, connect.NewRequest(&playerv1.SetVolumeRequest{Volume: 1.7}))
	require.NoError(t, err)
	assert.Equal(t, 1.0, resp.Msg.State.Volume)

	snap, err := env.player.GetSnapshot(ctx, connect.NewRequest(&playerv1.GetSnapshotRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "1", snap.Msg.State.TrackId)
	assert.Equal(t, "guest", snap.Msg.SessionInfo.Role)
}

func TestPlayerService_Errors(t *testing.T) {
	env := newTestEnv(t, "", "")
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		code connect.Code
	}{
		{
			name: "empty track id",
			call: func() error {
				_, err := env.player.SelectTrack(ctx, connect.NewRequest(&playerv1.SelectTrackRequest{}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown track",
			call: func() error {
				_, err := env.player.SelectTrack(ctx, connect.NewRequest(&playerv1.SelectTrackRequest{TrackId: "nope"}))
				return err
			},
			code: connect.CodeNotFound,
		},
		{
			name: "bad direction",
			call: func() error {
				_, err := env.player.Advance(ctx, connect.NewRequest(&playerv1.AdvanceRequest{Direction: "sideways"}))
				return err
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown album",
			call: func() error {
				_, err := env.library.PlayAlbum(ctx, connect.NewRequest(&playerv1.PlayAlbumRequest{AlbumId: "nope"}))
				return err
			},
			code: connect.CodeNotFound,
		},
		{
			name: "unknown playlist",
			call: func() error {
				_, err := env.library.PlayPlaylist(ctx, connect.NewRequest(&playerv1.PlayPlaylistRequest{PlaylistId: "nope"}))
				return err
			},
			code: connect.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, tt.code, connect.CodeOf(err))
		})
	}
}

func TestPlayerService_AdvanceWithoutTrack(t *testing.T) {
	env := newTestEnv(t, "", "")

	resp, err := env.player.Advance(context.Background(), connect.NewRequest(&playerv1.AdvanceRequest{Direction: "next"}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.Result.Success)
	assert.Empty(t, resp.Msg.State.TrackId)
	assert.Equal(t, "paused", resp.Msg.State.State)
}

func TestLibraryService_OfflineFlow(t *testing.T) {
	env := newTestEnv(t, "", "")
	ctx := context.Background()

	toggle, err := env.library.ToggleDownload(ctx, connect.NewRequest(&playerv1.ToggleDownloadRequest{TrackId: "3"}))
	require.NoError(t, err)
	assert.Equal(t, "login_required", toggle.Msg.Result.Code)
	assert.False(t, toggle.Msg.Enabled)

	toggle, err = env.library.ToggleFavorite(ctx, connect.NewRequest(&playerv1.ToggleFavoriteRequest{TrackId: "1"}))
	require.NoError(t, err)
	assert.True(t, toggle.Msg.Result.Success)
	assert.True(t, toggle.Msg.Enabled)

	offline, err := env.player.SetOffline(ctx, connect.NewRequest(&playerv1.SetOfflineRequest{Enabled: true}))
	require.NoError(t, err)
	assert.Equal(t, "login_required", offline.Msg.Result.Code)
	assert.False(t, offline.Msg.SessionInfo.Offline)

	reg, err := env.player.Register(ctx, connect.NewRequest(&playerv1.RegisterRequest{DisplayName: "Maria", Email: "maria@example.com"}))
	require.NoError(t, err)
	assert.True(t, reg.Msg.Result.Success)
	assert.Equal(t, "entitled", reg.Msg.SessionInfo.Role)

	toggle, err = env.library.ToggleDownload(ctx, connect.NewRequest(&playerv1.ToggleDownloadRequest{TrackId: "3"}))
	require.NoError(t, err)
	assert.True(t, toggle.Msg.Enabled)

	list, err := env.library.ListTracks(ctx, connect.NewRequest(&playerv1.ListTracksRequest{DownloadedOnly: true}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Tracks, 1)
	assert.Equal(t, "3", list.Msg.Tracks[0].TrackId)
	assert.True(t, list.Msg.Tracks[0].Downloaded)
	assert.Len(t, list.Msg.Albums, 1)

	list, err = env.library.ListTracks(ctx, connect.NewRequest(&playerv1.ListTracksRequest{FavoritesOnly: true}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Tracks, 1)
	assert.True(t, list.Msg.Tracks[0].Favorite)

	offline, err = env.player.SetOffline(ctx, connect.NewRequest(&playerv1.SetOfflineRequest{Enabled: true}))
	require.NoError(t, err)
	assert.True(t, offline.Msg.Result.Success)
	assert.True(t, offline.Msg.SessionInfo.Offline)
	assert.Equal(t, int32(1), offline.Msg.SessionInfo.DownloadedCount)

	resp, err := env.player.SelectTrack(ctx, connect.NewRequest(&playerv1.SelectTrackRequest{TrackId: "2"}))
	require.NoError(t, err)
	assert.Equal(t, "unavailable", resp.Msg.Result.Code)
	assert.Equal(t, env.config.Messages.Unavailable, resp.Msg.Result.Message)

	resp, err = env.library.PlayAlbum(ctx, connect.NewRequest(&playerv1.PlayAlbumRequest{AlbumId: "a1"}))
	require.NoError(t, err)
	assert.Equal(t, "no_playable_track", resp.Msg.Result.Code)

	resp, err = env.library.PlayPlaylist(ctx, connect.NewRequest(&playerv1.PlayPlaylistRequest{PlaylistId: "p1"}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.Result.Success)
	assert.Equal(t, "3", resp.Msg.State.TrackId)

	playlists, err := env.library.ListPlaylists(ctx, connect.NewRequest(&playerv1.ListPlaylistsRequest{}))
	require.NoError(t, err)
	require.Len(t, playlists.Msg.Playlists, 1)
	assert.Equal(t, "p1", playlists.Msg.Playlists[0].PlaylistId)

	logout, err := env.player.Logout(ctx, connect.NewRequest(&playerv1.LogoutRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "guest", logout.Msg.SessionInfo.Role)
	assert.False(t, logout.Msg.SessionInfo.Offline)
}

func TestLibraryService_Playlists(t *testing.T) {
	env := newTestEnv(t, "", "")
	ctx := context.Background()

	_, err := env.player.Register(ctx, connect.NewRequest(&playerv1.RegisterRequest{Email: "joao@example.com"}))
	require.NoError(t, err)

	created, err := env.library.CreatePlaylist(ctx, connect.NewRequest(&playerv1.CreatePlaylistRequest{}))
	require.NoError(t, err)
	require.True(t, created.Msg.Result.Success)
	require.NotNil(t, created.Msg.Playlist)
	assert.Equal(t, "Minha Playlist #1", created.Msg.Playlist.Title)
	assert.True(t, created.Msg.Playlist.UserCreated)
	id := created.Msg.Playlist.PlaylistId

	added, err := env.library.AddToPlaylist(ctx, connect.NewRequest(&playerv1.AddToPlaylistRequest{PlaylistId: id, TrackId: "2"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, added.Msg.Playlist.TrackIds)

	added, err = env.library.AddToPlaylist(ctx, connect.NewRequest(&playerv1.AddToPlaylistRequest{PlaylistId: id, TrackId: "2"}))
	require.NoError(t, err)
	assert.Equal(t, "duplicate_track", added.Msg.Result.Code)

	removed, err := env.library.RemoveFromPlaylist(ctx, connect.NewRequest(&playerv1.RemoveFromPlaylistRequest{PlaylistId: id, TrackId: "2"}))
	require.NoError(t, err)
	assert.Empty(t, removed.Msg.Playlist.TrackIds)

	added, err = env.library.AddToPlaylist(ctx, connect.NewRequest(&playerv1.AddToPlaylistRequest{PlaylistId: "p1", TrackId: "1"}))
	require.NoError(t, err)
	assert.Equal(t, "playlist_read_only", added.Msg.Result.Code)

	removed, err = env.library.RemoveFromPlaylist(ctx, connect.NewRequest(&playerv1.RemoveFromPlaylistRequest{PlaylistId: "p1", TrackId: "2"}))
	require.NoError(t, err)
	assert.Equal(t, "playlist_read_only", removed.Msg.Result.Code)

	playlists, err := env.library.ListPlaylists(ctx, connect.NewRequest(&playerv1.ListPlaylistsRequest{}))
	require.NoError(t, err)
	for _, p := range playlists.Msg.Playlists {
		if p.PlaylistId == "p1" {
			assert.Equal(t, []string{"2", "3"}, p.TrackIds)
		}
	}

	deleted, err := env.library.DeletePlaylist(ctx, connect.NewRequest(&playerv1.DeletePlaylistRequest{PlaylistId: "p1"}))
	require.NoError(t, err)
	assert.Equal(t, "playlist_read_only", deleted.Msg.Result.Code)

	deleted, err = env.library.DeletePlaylist(ctx, connect.NewRequest(&playerv1.DeletePlaylistRequest{PlaylistId: id}))
	require.NoError(t, err)
	assert.True(t, deleted.Msg.Result.Success)
	assert.Nil(t, deleted.Msg.Playlist)

	_, err = env.library.DeletePlaylist(ctx, connect.NewRequest(&playerv1.DeletePlaylistRequest{PlaylistId: id}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestAccountOutcomes(t *testing.T) {
	env := newTestEnv(t, "", "")
	ctx := context.Background()

	login, err := env.player.Login(ctx, connect.NewRequest(&playerv1.LoginRequest{Email: "ghost@example.com"}))
	require.NoError(t, err)
	assert.Equal(t, "account_not_found", login.Msg.Result.Code)
	assert.Equal(t, "guest", login.Msg.SessionInfo.Role)

	reg, err := env.player.Register(ctx, connect.NewRequest(&playerv1.RegisterRequest{Email: "sem-arroba"}))
	require.NoError(t, err)
	assert.Equal(t, "invalid_email", reg.Msg.Result.Code)

	_, err = env.player.Register(ctx, connect.NewRequest(&playerv1.RegisterRequest{Email: "maria@example.com"}))
	require.NoError(t, err)
	reg, err = env.player.Register(ctx, connect.NewRequest(&playerv1.RegisterRequest{Email: "maria@example.com"}))
	require.NoError(t, err)
	assert.Equal(t, "account_exists", reg.Msg.Result.Code)
}

func TestTokenInterceptor(t *testing.T) {
	t.Run("missing token is rejected", func(t *testing.T) {
		env := newTestEnv(t, "secret", "")
		_, err := env.player.GetSnapshot(context.Background(), connect.NewRequest(&playerv1.GetSnapshotRequest{}))
		require.Error(t, err)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

		stream, err := env.player.SubscribeNotifications(context.Background(),
			connect.NewRequest(&playerv1.SubscribeNotificationsRequest{}))
		if err == nil {
			defer stream.Close()
			assert.False(t, stream.Receive())
			err = stream.Err()
		}
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("wrong token is rejected", func(t *testing.T) {
		env := newTestEnv(t, "secret", "guess")
		_, err := env.library.ListPlaylists(context.Background(), connect.NewRequest(&playerv1.ListPlaylistsRequest{}))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("matching token is accepted", func(t *testing.T) {
		env := newTestEnv(t, "secret", "secret")
		_, err := env.library.ListPlaylists(context.Background(), connect.NewRequest(&playerv1.ListPlaylistsRequest{}))
		assert.NoError(t, err)
	})
}

func TestSubscribeNotifications(t *testing.T) {
	env := newTestEnv(t, "", "")
	ctx, cancel := context.WithCancel(context.Background())

	stream, err := env.player.SubscribeNotifications(ctx, connect.NewRequest(&playerv1.SubscribeNotificationsRequest{}))
	require.NoError(t, err)
	// Close drains the stream, so the server must see the cancellation first.
	defer func() {
		cancel()
		_ = stream.Close()
	}()

	require.True(t, stream.Receive(), "initial state: %v", stream.Err())
	initial := stream.Msg()
	assert.Equal(t, playerv1.NotificationTypeInitialState, initial.Type)
	assert.Equal(t, "guest", initial.SessionInfo.Role)

	require.Eventually(t, func() bool {
		return env.session.GetNotificationManager().SubscriberCount() == 1
	}, 2*time.Second, 5*time.Millisecond)

	_, err = env.player.SelectTrack(ctx, connect.NewRequest(&playerv1.SelectTrackRequest{TrackId: "2"}))
	require.NoError(t, err)

	var got *playerv1.Notification
	for stream.Receive() {
		n := stream.Msg()
		assert.Greater(t, n.SequenceNo, initial.SequenceNo)
		if n.Type == playerv1.NotificationTypeTrackStarted {
			got = n
			break
		}
	}
	require.NotNil(t, got, "stream ended: %v", stream.Err())
	assert.Equal(t, "2", got.PlayerState.TrackId)
	assert.Equal(t, "O Filho Pródigo", got.PlayerState.Track.Title)
}

func TestOutcome(t *testing.T) {
	cfg, err := config.Parse([]byte(testConfigYAML))
	require.NoError(t, err)

	tests := []struct {
		name    string
		err     error
		code    string
		success bool
		rpcCode connect.Code
	}{
		{name: "nil", err: nil, code: "success", success: true},
		{name: "wrapped unavailable", err: errors.Wrap(gate.ErrUnavailable, "select 2"), code: "unavailable"},
		{name: "preview expired", err: gate.ErrPreviewExpired, code: "preview_expired"},
		{name: "no playable track", err: gate.ErrNoPlayableTrack, code: "no_playable_track"},
		{name: "login required", err: gate.ErrLoginRequired, code: "login_required"},
		{name: "duplicate", err: library.ErrDuplicateTrack, code: "duplicate_track"},
		{name: "read only", err: library.ErrPlaylistReadOnly, code: "playlist_read_only"},
		{name: "account exists", err: registry.ErrAccountExists, code: "account_exists"},
		{name: "track not found", err: errors.Wrap(session.ErrTrackNotFound, "track x"), rpcCode: connect.CodeNotFound},
		{name: "playlist not found", err: library.ErrPlaylistNotFound, rpcCode: connect.CodeNotFound},
		{name: "other", err: errors.New("boom"), rpcCode: connect.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := outcome(cfg, tt.err)
			if tt.rpcCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.rpcCode, connect.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.code, result.Code)
			assert.Equal(t, tt.success, result.Success)
			assert.Equal(t, cfg.GetMessage(tt.code), result.Message)
		})
	}
}

func TestCodecs(t *testing.T) {
	env := newTestEnv(t, "", "")

	tests := []struct {
		name        string
		contentType string
		wantStatus  int
	}{
		{name: "json", contentType: "application/json", wantStatus: http.StatusOK},
		{name: "json with charset", contentType: "application/json; charset=utf-8", wantStatus: http.StatusOK},
		{name: "binary proto is unsupported", contentType: "application/proto", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost,
				env.url+playerv1.PlayerServiceGetSnapshotProcedure, strings.NewReader("{}"))
			require.NoError(t, err)
			req.Header.Set("Content-Type", tt.contentType)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
