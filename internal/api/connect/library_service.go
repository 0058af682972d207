package connect

import (
	"context"

	"connectrpc.com/connect"
	"github.com/samber/lo"

	"github.com/osa030/bibliasertaneja/internal/api/playerv1"
	"github.com/osa030/bibliasertaneja/internal/api/playerv1/playerv1connect"
	"github.com/osa030/bibliasertaneja/internal/app/session"
	"github.com/osa030/bibliasertaneja/internal/domain/playlist"
	"github.com/osa030/bibliasertaneja/internal/domain/track"
	"github.com/osa030/bibliasertaneja/internal/infra/config"
)

// LibraryService implements the LibraryService RPC.
type LibraryService struct {
	session *session.Manager
	config  *config.Config
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(session *session.Manager, cfg *config.Config) *LibraryService {
	return &LibraryService{
		session: session,
		config:  cfg,
	}
}

// Ensure LibraryService implements the interface.
var _ playerv1connect.LibraryServiceHandler = (*LibraryService)(nil)

// ListTracks lists catalog tracks with the caller's library flags.
func (s *LibraryService) ListTracks(
	ctx context.Context,
	req *connect.Request[playerv1.ListTracksRequest],
) (*connect.Response[playerv1.ListTracksResponse], error) {
	tracks, err := s.session.Tracks(req.Msg.AlbumId)
	if err != nil {
		return nil, toConnectError(s.config, err)
	}

	tracks = lo.Filter(tracks, func(t track.Track, _ int) bool {
		if req.Msg.DownloadedOnly && !s.session.IsDownloaded(t.ID) {
			return false
		}
		if req.Msg.FavoritesOnly && !s.session.IsFavorite(t.ID) {
			return false
		}
		return true
	})

	return connect.NewResponse(&playerv1.ListTracksResponse{
		Tracks: lo.Map(tracks, func(t track.Track, _ int) *playerv1.TrackInfo {
			return s.session.BuildTrackInfo(t)
		}),
		Albums: lo.Map(s.session.Albums(), func(a track.Album, _ int) *playerv1.AlbumInfo {
			return session.BuildAlbumInfo(a)
		}),
	}), nil
}

// ToggleDownload flips the offline copy of a track.
func (s *LibraryService) ToggleDownload(
	ctx context.Context,
	req *connect.Request[playerv1.ToggleDownloadRequest],
) (*connect.Response[playerv1.ToggleResponse], error) {
	if req.Msg.TrackId == "" {
		return nil, invalidArgument("track_id is required")
	}
	enabled, opErr := s.session.ToggleDownload(req.Msg.TrackId)
	return s.toggleResponse(enabled, opErr)
}

// ToggleFavorite flips the favorite flag of a track.
func (s *LibraryService) ToggleFavorite(
	ctx context.Context,
	req *connect.Request[playerv1.ToggleFavoriteRequest],
) (*connect.Response[playerv1.ToggleResponse], error) {
	if req.Msg.TrackId == "" {
		return nil, invalidArgument("track_id is required")
	}
	enabled, opErr := s.session.ToggleFavorite(req.Msg.TrackId)
	return s.toggleResponse(enabled, opErr)
}

// CreatePlaylist creates a user playlist.
func (s *LibraryService) CreatePlaylist(
	ctx context.Context,
	req *connect.Request[playerv1.CreatePlaylistRequest],
) (*connect.Response[playerv1.PlaylistResponse], error) {
	p, opErr := s.session.CreatePlaylist(req.Msg.Title)
	return s.playlistResponse(p, opErr)
}

// DeletePlaylist deletes a user playlist.
func (s *LibraryService) DeletePlaylist(
	ctx context.Context,
	req *connect.Request[playerv1.DeletePlaylistRequest],
) (*connect.Response[playerv1.PlaylistResponse], error) {
	if req.Msg.PlaylistId == "" {
		return nil, invalidArgument("playlist_id is required")
	}
	return s.playlistResponse(playlist.Playlist{}, s.session.DeletePlaylist(req.Msg.PlaylistId))
}

// AddToPlaylist appends a track to a playlist.
func (s *LibraryService) AddToPlaylist(
	ctx context.Context,
	req *connect.Request[playerv1.AddToPlaylistRequest],
) (*connect.Response[playerv1.PlaylistResponse], error) {
	if req.Msg.PlaylistId == "" || req.Msg.TrackId == "" {
		return nil, invalidArgument("playlist_id and track_id are required")
	}
	p, opErr := s.session.AddToPlaylist(req.Msg.PlaylistId, req.Msg.TrackId)
	return s.playlistResponse(p, opErr)
}

// RemoveFromPlaylist removes a track from a playlist.
func (s *LibraryService) RemoveFromPlaylist(
	ctx context.Context,
	req *connect.Request[playerv1.RemoveFromPlaylistRequest],
) (*connect.Response[playerv1.PlaylistResponse], error) {
	if req.Msg.PlaylistId == "" || req.Msg.TrackId == "" {
		return nil, invalidArgument("playlist_id and track_id are required")
	}
	p, opErr := s.session.RemoveFromPlaylist(req.Msg.PlaylistId, req.Msg.TrackId)
	return s.playlistResponse(p, opErr)
}

// ListPlaylists lists the playlists playable in the current mode.
func (s *LibraryService) ListPlaylists(
	ctx context.Context,
	req *connect.Request[playerv1.ListPlaylistsRequest],
) (*connect.Response[playerv1.ListPlaylistsResponse], error) {
	return connect.NewResponse(&playerv1.ListPlaylistsResponse{
		Playlists: lo.Map(s.session.Playlists(), func(p playlist.Playlist, _ int) *playerv1.PlaylistInfo {
			return session.BuildPlaylistInfo(p)
		}),
	}), nil
}

// PlayPlaylist plays the first playable track of a playlist.
func (s *LibraryService) PlayPlaylist(
	ctx context.Context,
	req *connect.Request[playerv1.PlayPlaylistRequest],
) (*connect.Response[playerv1.PlayerResponse], error) {
	if req.Msg.PlaylistId == "" {
		return nil, invalidArgument("playlist_id is required")
	}
	return s.playerResponse(s.session.PlayPlaylist(req.Msg.PlaylistId))
}

// PlayAlbum plays the first playable track of an album.
func (s *LibraryService) PlayAlbum(
	ctx context.Context,
	req *connect.Request[playerv1.PlayAlbumRequest],
) (*connect.Response[playerv1.PlayerResponse], error) {
	if req.Msg.AlbumId == "" {
		return nil, invalidArgument("album_id is required")
	}
	return s.playerResponse(s.session.PlayAlbum(req.Msg.AlbumId))
}

func (s *LibraryService) toggleResponse(enabled bool, opErr error) (*connect.Response[playerv1.ToggleResponse], error) {
	result, err := outcome(s.config, opErr)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&playerv1.ToggleResponse{
		Result:  result,
		Enabled: enabled,
	}), nil
}

func (s *LibraryService) playlistResponse(p playlist.Playlist, opErr error) (*connect.Response[playerv1.PlaylistResponse], error) {
	result, err := outcome(s.config, opErr)
	if err != nil {
		return nil, err
	}
	resp := &playerv1.PlaylistResponse{Result: result}
	if p.ID != "" {
		resp.Playlist = session.BuildPlaylistInfo(p)
	}
	return connect.NewResponse(resp), nil
}

func (s *LibraryService) playerResponse(opErr error) (*connect.Response[playerv1.PlayerResponse], error) {
	result, err := outcome(s.config, opErr)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&playerv1.PlayerResponse{
		Result: result,
		State:  s.session.BuildPlayerState(s.session.Snapshot()),
	}), nil
}
