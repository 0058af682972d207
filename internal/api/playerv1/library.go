package playerv1

type ListTracksRequest struct {
	AlbumId        string `json:"albumId,omitempty"`
	DownloadedOnly bool   `json:"downloadedOnly,omitempty"`
	FavoritesOnly  bool   `json:"favoritesOnly,omitempty"`
}

type ListTracksResponse struct {
	Tracks []*TrackInfo `json:"tracks"`
	Albums []*AlbumInfo `json:"albums"`
}

type ToggleDownloadRequest struct {
	TrackId string `json:"trackId"`
}

type ToggleFavoriteRequest struct {
	TrackId string `json:"trackId"`
}

// ToggleResponse reports the flag value after a toggle.
type ToggleResponse struct {
	Result  *Result `json:"result"`
	Enabled bool    `json:"enabled"`
}

type CreatePlaylistRequest struct {
	Title string `json:"title,omitempty"`
}

type DeletePlaylistRequest struct {
	PlaylistId string `json:"playlistId"`
}

type AddToPlaylistRequest struct {
	PlaylistId string `json:"playlistId"`
	TrackId    string `json:"trackId"`
}

type RemoveFromPlaylistRequest struct {
	PlaylistId string `json:"playlistId"`
	TrackId    string `json:"trackId"`
}

// PlaylistResponse carries the playlist after a mutation. Playlist is nil
// when the action was denied or the playlist was deleted.
type PlaylistResponse struct {
	Result   *Result       `json:"result"`
	Playlist *PlaylistInfo `json:"playlist,omitempty"`
}

type ListPlaylistsRequest struct{}

type ListPlaylistsResponse struct {
	Playlists []*PlaylistInfo `json:"playlists"`
}

type PlayPlaylistRequest struct {
	PlaylistId string `json:"playlistId"`
}

type PlayAlbumRequest struct {
	AlbumId string `json:"albumId"`
}
