package loader

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/osa030/bibliasertaneja/internal/domain/playlist"
	"github.com/osa030/bibliasertaneja/internal/domain/track"
)

type SpotifyPlaylistSourceConfig struct {
	PlaylistURL string `mapstructure:"playlist_url" validate:"required"`
	Title       string `mapstructure:"title"`                      // Overrides the Spotify playlist name
	AsPlaylist  *bool  `mapstructure:"as_playlist" default:"true"` // Also seed a curated playlist
	AsAlbum     bool   `mapstructure:"as_album"`                   // Also register an album
	Author      string `mapstructure:"author" default:"Spotify"`   // Album author when AsAlbum is set
}

// SpotifyPlaylistSource imports the tracks of a Spotify playlist.
type SpotifyPlaylistSource struct {
	spotify SpotifyClient
	config  *SpotifyPlaylistSourceConfig
}

// NewSpotifyPlaylistSource creates a new SpotifyPlaylistSource.
func NewSpotifyPlaylistSource(spotify SpotifyClient, settings map[string]any) (*SpotifyPlaylistSource, error) {
	if spotify == nil {
		return nil, errors.New("spotify client is not configured")
	}

	var config SpotifyPlaylistSourceConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	return &SpotifyPlaylistSource{spotify: spotify, config: &config}, nil
}

// Load fetches the playlist.
func (s *SpotifyPlaylistSource) Load(ctx context.Context) (*Bundle, error) {
	p, err := s.spotify.GetPlaylist(ctx, s.config.PlaylistURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to import playlist")
	}

	title := s.config.Title
	if title == "" {
		title = p.Name
	}

	ids := make([]string, len(p.Tracks))
	for i, t := range p.Tracks {
		ids[i] = t.ID
	}

	b := &Bundle{Tracks: p.Tracks}
	if s.config.AsPlaylist == nil || *s.config.AsPlaylist {
		b.Playlists = append(b.Playlists, playlist.Playlist{
			ID:          p.ID,
			Title:       title,
			Description: p.Description,
			CoverURL:    p.CoverURL,
			TrackIDs:    ids,
		})
	}
	if s.config.AsAlbum {
		b.Albums = append(b.Albums, track.Album{
			ID:       p.ID,
			Title:    title,
			Author:   s.config.Author,
			CoverURL: p.CoverURL,
			TrackIDs: ids,
		})
	}
	return b, nil
}

// Name returns the source name.
func (s *SpotifyPlaylistSource) Name() string {
	return "spotify_playlist"
}
