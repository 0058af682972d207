// Package loader fills the catalog and the curated playlists from configured
// sources.
package loader

import (
	"context"

	"github.com/osa030/bibliasertaneja/internal/domain/playlist"
	"github.com/osa030/bibliasertaneja/internal/domain/track"
	"github.com/osa030/bibliasertaneja/internal/infra/spotify"
)

// Bundle is the content contributed by one source.
type Bundle struct {
	Tracks    []track.Track       `yaml:"tracks"`
	Albums    []track.Album       `yaml:"albums"`
	Playlists []playlist.Playlist `yaml:"playlists"`
}

// Source is the interface for catalog sources.
type Source interface {
	// Load fetches the source content.
	Load(ctx context.Context) (*Bundle, error)

	// Name returns the source type (used in config).
	Name() string
}

// SpotifyClient defines the Spotify operations needed by the playlist source.
type SpotifyClient interface {
	GetPlaylist(ctx context.Context, playlistURL string) (*spotify.Playlist, error)
}
