package playerv1connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/osa030/bibliasertaneja/internal/api/playerv1"
)

// LibraryServiceHandler is implemented by the library service.
type LibraryServiceHandler interface {
	ListTracks(context.Context, *connect.Request[playerv1.ListTracksRequest]) (*connect.Response[playerv1.ListTracksResponse], error)
	ToggleDownload(context.Context, *connect.Request[playerv1.ToggleDownloadRequest]) (*connect.Response[playerv1.ToggleResponse], error)
	ToggleFavorite(context.Context, *connect.Request[playerv1.ToggleFavoriteRequest]) (*connect.Response[playerv1.ToggleResponse], error)
	CreatePlaylist(context.Context, *connect.Request[playerv1.CreatePlaylistRequest]) (*connect.Response[playerv1.PlaylistResponse], error)
	DeletePlaylist(context.Context, *connect.Request[playerv1.DeletePlaylistRequest]) (*connect.Response[playerv1.PlaylistResponse], error)
	AddToPlaylist(context.Context, *connect.Request[playerv1.AddToPlaylistRequest]) (*connect.Response[playerv1.PlaylistResponse], error)
	RemoveFromPlaylist(context.Context, *connect.Request[playerv1.RemoveFromPlaylistRequest]) (*connect.Response[playerv1.PlaylistResponse], error)
	ListPlaylists(context.Context, *connect.Request[playerv1.ListPlaylistsRequest]) (*connect.Response[playerv1.ListPlaylistsResponse], error)
	PlayPlaylist(context.Context, *connect.Request[playerv1.PlayPlaylistRequest]) (*connect.Response[playerv1.PlayerResponse], error)
	PlayAlbum(context.Context, *connect.Request[playerv1.PlayAlbumRequest]) (*connect.Response[playerv1.PlayerResponse], error)
}

// NewLibraryServiceHandler builds an HTTP handler from the service
// implementation.
func NewLibraryServiceHandler(svc LibraryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)

	routes := map[string]http.Handler{
		playerv1.LibraryServiceListTracksProcedure: connect.NewUnaryHandler(
			playerv1.LibraryServiceListTracksProcedure, svc.ListTracks, opts...),
		playerv1.LibraryServiceToggleDownloadProcedure: connect.NewUnaryHandler(
			playerv1.LibraryServiceToggleDownloadProcedure, svc.ToggleDownload, opts...),
		playerv1.LibraryServiceToggleFavoriteProcedure: connect.NewUnaryHandler(
			playerv1.LibraryServiceToggleFavoriteProcedure, svc.ToggleFavorite, opts...),
		playerv1.LibraryServiceCreatePlaylistProcedure: connect.NewUnaryHandler(
			playerv1.LibraryServiceCreatePlaylistProcedure, svc.CreatePlaylist, opts...),
		playerv1.LibraryServiceDeletePlaylistProcedure: connect.NewUnaryHandler(
			playerv1.LibraryServiceDeletePlaylistProcedure, svc.DeletePlaylist, opts...),
		playerv1.LibraryServiceAddToPlaylistProcedure: connect.NewUnaryHandler(
			playerv1.LibraryServiceAddToPlaylistProcedure, svc.AddToPlaylist, opts...),
		playerv1.LibraryServiceRemoveFromPlaylistProcedure: connect.NewUnaryHandler(
			playerv1.LibraryServiceRemoveFromPlaylistProcedure, svc.RemoveFromPlaylist, opts...),
		playerv1.LibraryServiceListPlaylistsProcedure: connect.NewUnaryHandler(
			playerv1.LibraryServiceListPlaylistsProcedure, svc.ListPlaylists, opts...),
		playerv1.LibraryServicePlayPlaylistProcedure: connect.NewUnaryHandler(
			playerv1.LibraryServicePlayPlaylistProcedure, svc.PlayPlaylist, opts...),
		playerv1.LibraryServicePlayAlbumProcedure: connect.NewUnaryHandler(
			playerv1.LibraryServicePlayAlbumProcedure, svc.PlayAlbum, opts...),
	}

	return "/" + playerv1.LibraryServiceName + "/", router(routes)
}

// LibraryServiceClient is a client for the library service.
type LibraryServiceClient struct {
	listTracks         *connect.Client[playerv1.ListTracksRequest, playerv1.ListTracksResponse]
	toggleDownload     *connect.Client[playerv1.ToggleDownloadRequest, playerv1.ToggleResponse]
	toggleFavorite     *connect.Client[playerv1.ToggleFavoriteRequest, playerv1.ToggleResponse]
	createPlaylist     *connect.Client[playerv1.CreatePlaylistRequest, playerv1.PlaylistResponse]
	deletePlaylist     *connect.Client[playerv1.DeletePlaylistRequest, playerv1.PlaylistResponse]
	addToPlaylist      *connect.Client[playerv1.AddToPlaylistRequest, playerv1.PlaylistResponse]
	removeFromPlaylist *connect.Client[playerv1.RemoveFromPlaylistRequest, playerv1.PlaylistResponse]
	listPlaylists      *connect.Client[playerv1.ListPlaylistsRequest, playerv1.ListPlaylistsResponse]
	playPlaylist       *connect.Client[playerv1.PlayPlaylistRequest, playerv1.PlayerResponse]
	playAlbum          *connect.Client[playerv1.PlayAlbumRequest, playerv1.PlayerResponse]
}

// NewLibraryServiceClient constructs a client for the library service.
func NewLibraryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LibraryServiceClient {
	opts = withClientCodec(opts)
	return &LibraryServiceClient{
		listTracks: connect.NewClient[playerv1.ListTracksRequest, playerv1.ListTracksResponse](
			httpClient, baseURL+playerv1.LibraryServiceListTracksProcedure, opts...),
		toggleDownload: connect.NewClient[playerv1.ToggleDownloadRequest, playerv1.ToggleResponse](
			httpClient, baseURL+playerv1.LibraryServiceToggleDownloadProcedure, opts...),
		toggleFavorite: connect.NewClient[playerv1.ToggleFavoriteRequest, playerv1.ToggleResponse](
			httpClient, baseURL+playerv1.LibraryServiceToggleFavoriteProcedure, opts...),
		createPlaylist: connect.NewClient[playerv1.CreatePlaylistRequest, playerv1.PlaylistResponse](
			httpClient, baseURL+playerv1.LibraryServiceCreatePlaylistProcedure, opts...),
		deletePlaylist: connect.NewClient[playerv1.DeletePlaylistRequest, playerv1.PlaylistResponse](
			httpClient, baseURL+playerv1.LibraryServiceDeletePlaylistProcedure, opts...),
		addToPlaylist: connect.NewClient[playerv1.AddToPlaylistRequest, playerv1.PlaylistResponse](
			httpClient, baseURL+playerv1.LibraryServiceAddToPlaylistProcedure, opts...),
		removeFromPlaylist: connect.NewClient[playerv1.RemoveFromPlaylistRequest, playerv1.PlaylistResponse](
			httpClient, baseURL+playerv1.LibraryServiceRemoveFromPlaylistProcedure, opts...),
		listPlaylists: connect.NewClient[playerv1.ListPlaylistsRequest, playerv1.ListPlaylistsResponse](
			httpClient, baseURL+playerv1.LibraryServiceListPlaylistsProcedure, opts...),
		playPlaylist: connect.NewClient[playerv1.PlayPlaylistRequest, playerv1.PlayerResponse](
			httpClient, baseURL+playerv1.LibraryServicePlayPlaylistProcedure, opts...),
		playAlbum: connect.NewClient[playerv1.PlayAlbumRequest, playerv1.PlayerResponse](
			httpClient, baseURL+playerv1.LibraryServicePlayAlbumProcedure, opts...),
	}
}

// ListTracks calls LibraryService.ListTracks.
func (c *LibraryServiceClient) ListTracks(ctx context.Context, req *connect.Request[playerv1.ListTracksRequest]) (*connect.Response[playerv1.ListTracksResponse], error) {
	return c.listTracks.CallUnary(ctx, req)
}

// ToggleDownload calls LibraryService.ToggleDownload.
func (c *LibraryServiceClient) ToggleDownload(ctx context.Context, req *connect.Request[playerv1.ToggleDownloadRequest]) (*connect.Response[playerv1.ToggleResponse], error) {
	return c.toggleDownload.CallUnary(ctx, req)
}

// ToggleFavorite calls LibraryService.ToggleFavorite.
func (c *LibraryServiceClient) ToggleFavorite(ctx context.Context, req *connect.Request[playerv1.ToggleFavoriteRequest]) (*connect.Response[playerv1.ToggleResponse], error) {
	return c.toggleFavorite.CallUnary(ctx, req)
}

// CreatePlaylist calls LibraryService.CreatePlaylist.
func (c *LibraryServiceClient) CreatePlaylist(ctx context.Context, req *connect.Request[playerv1.CreatePlaylistRequest]) (*connect.Response[playerv1.PlaylistResponse], error) {
	return c.createPlaylist.CallUnary(ctx, req)
}

// DeletePlaylist calls LibraryService.DeletePlaylist.
func (c *LibraryServiceClient) DeletePlaylist(ctx context.Context, req *connect.Request[playerv1.DeletePlaylistRequest]) (*connect.Response[playerv1.PlaylistResponse], error) {
	return c.deletePlaylist.CallUnary(ctx, req)
}

// AddToPlaylist calls LibraryService.AddToPlaylist.
func (c *LibraryServiceClient) AddToPlaylist(ctx context.Context, req *connect.Request[playerv1.AddToPlaylistRequest]) (*connect.Response[playerv1.PlaylistResponse], error) {
	return c.addToPlaylist.CallUnary(ctx, req)
}

// RemoveFromPlaylist calls LibraryService.RemoveFromPlaylist.
func (c *LibraryServiceClient) RemoveFromPlaylist(ctx context.Context, req *connect.Request[playerv1.RemoveFromPlaylistRequest]) (*connect.Response[playerv1.PlaylistResponse], error) {
	return c.removeFromPlaylist.CallUnary(ctx, req)
}

// ListPlaylists calls LibraryService.ListPlaylists.
func (c *LibraryServiceClient) ListPlaylists(ctx context.Context, req *connect.Request[playerv1.ListPlaylistsRequest]) (*connect.Response[playerv1.ListPlaylistsResponse], error) {
	return c.listPlaylists.CallUnary(ctx, req)
}

// PlayPlaylist calls LibraryService.PlayPlaylist.
func (c *LibraryServiceClient) PlayPlaylist(ctx context.Context, req *connect.Request[playerv1.PlayPlaylistRequest]) (*connect.Response[playerv1.PlayerResponse], error) {
	return c.playPlaylist.CallUnary(ctx, req)
}

// PlayAlbum calls LibraryService.PlayAlbum.
func (c *LibraryServiceClient) PlayAlbum(ctx context.Context, req *connect.Request[playerv1.PlayAlbumRequest]) (*connect.Response[playerv1.PlayerResponse], error) {
	return c.playAlbum.CallUnary(ctx, req)
}
