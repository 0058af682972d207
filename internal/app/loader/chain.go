package loader

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/bibliasertaneja/internal/domain/catalog"
	"github.com/osa030/bibliasertaneja/internal/domain/playlist"
)

// PlaylistSeeder receives curated playlists.
type PlaylistSeeder interface {
	SeedPlaylist(p playlist.Playlist) error
}

// SourceWithMetadata wraps a source with its metadata.
type SourceWithMetadata struct {
	Source      Source
	DisplayName string
}

// Summary counts what a load merged.
type Summary struct {
	Tracks    int
	Albums    int
	Playlists int
	Skipped   int // Duplicate or invalid entries
	Failed    int // Sources that returned an error
}

// Chain loads every source in order and merges the results.
type Chain struct {
	sources []SourceWithMetadata
}

// NewChain creates a new source chain.
func NewChain(sources []SourceWithMetadata) *Chain {
	return &Chain{sources: sources}
}

// Load merges all sources into the catalog and seeds curated playlists.
// A failing source is skipped; the load fails only if the catalog ends up empty.
// Playlist entries that reference unknown tracks are dropped.
func (c *Chain) Load(ctx context.Context, cat *catalog.Catalog, seeder PlaylistSeeder) (Summary, error) {
	var sum Summary

	for i, sm := range c.sources {
		zlog.Debug().Msgf("loading source: index=%d total=%d name=%s type=%s",
			i+1, len(c.sources), sm.DisplayName, sm.Source.Name())

		b, err := sm.Source.Load(ctx)
		if err != nil {
			zlog.Warn().Msgf("source failed, trying next: source=%s error=%v", sm.DisplayName, err)
			sum.Failed++
			continue
		}

		c.merge(sm.DisplayName, b, cat, seeder, &sum)
	}

	if cat.Len() == 0 {
		return sum, errors.Newf("no tracks loaded from %d sources", len(c.sources))
	}

	zlog.Info().Msgf("catalog loaded: tracks=%d albums=%d playlists=%d skipped=%d failed_sources=%d",
		sum.Tracks, sum.Albums, sum.Playlists, sum.Skipped, sum.Failed)
	return sum, nil
}

func (c *Chain) merge(source string, b *Bundle, cat *catalog.Catalog, seeder PlaylistSeeder, sum *Summary) {
	for _, t := range b.Tracks {
		if err := cat.Insert(t); err != nil {
			zlog.Debug().Msgf("track skipped: source=%s track_id=%s error=%v", source, t.ID, err)
			sum.Skipped++
			continue
		}
		sum.Tracks++
	}

	for _, a := range b.Albums {
		if err := cat.InsertAlbum(a); err != nil {
			zlog.Warn().Msgf("album skipped: source=%s album_id=%s error=%v", source, a.ID, err)
			sum.Skipped++
			continue
		}
		sum.Albums++
	}

	if seeder == nil {
		return
	}
	for _, p := range b.Playlists {
		known := make([]string, 0, len(p.TrackIDs))
		for _, id := range p.TrackIDs {
			if _, ok := cat.Get(id); ok {
				known = append(known, id)
			} else {
				zlog.Warn().Msgf("playlist entry dropped: source=%s playlist_id=%s track_id=%s", source, p.ID, id)
			}
		}
		p.TrackIDs = known

		if err := seeder.SeedPlaylist(p); err != nil {
			zlog.Warn().Msgf("playlist skipped: source=%s playlist_id=%s error=%v", source, p.ID, err)
			sum.Skipped++
			continue
		}
		sum.Playlists++
	}
}

// Len returns the number of sources.
func (c *Chain) Len() int {
	return len(c.sources)
}
