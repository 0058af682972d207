// Package catalog provides the ordered track catalog.
package catalog

import (
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/osa030/bibliasertaneja/internal/domain/track"
)

var (
	ErrDuplicateTrack = errors.New("track already in catalog")
	ErrDuplicateAlbum = errors.New("album already in catalog")
)

// Catalog is an ordered sequence of tracks with O(1) lookup by ID.
// Order is insertion order and defines the ordinals used by next/prev.
type Catalog struct {
	mu     sync.RWMutex
	tracks []track.Track
	index  map[string]int

	albums     []track.Album
	albumIndex map[string]int
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		tracks:     make([]track.Track, 0),
		index:      make(map[string]int),
		albums:     make([]track.Album, 0),
		albumIndex: make(map[string]int),
	}
}

// Insert appends a validated track to the end of the catalog.
func (c *Catalog) Insert(t track.Track) error {
	if err := t.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[t.ID]; ok {
		return errors.Wrapf(ErrDuplicateTrack, "track %s", t.ID)
	}
	c.index[t.ID] = len(c.tracks)
	c.tracks = append(c.tracks, t)
	return nil
}

// InsertAlbum registers an album. Tracks referenced by the album must exist.
func (c *Catalog) InsertAlbum(a track.Album) error {
	if a.ID == "" {
		return errors.New("album id is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.albumIndex[a.ID]; ok {
		return errors.Wrapf(ErrDuplicateAlbum, "album %s", a.ID)
	}
	for _, id := range a.TrackIDs {
		if _, ok := c.index[id]; !ok {
			return errors.Newf("album %s references unknown track %s", a.ID, id)
		}
	}
	c.albumIndex[a.ID] = len(c.albums)
	c.albums = append(c.albums, a)
	return nil
}

// Get returns the track with the given ID.
func (c *Catalog) Get(id string) (track.Track, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return track.Track{}, false
	}
	return c.tracks[i], true
}

// IndexOf returns the ordinal of the track with the given ID.
func (c *Catalog) IndexOf(id string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	return i, ok
}

// At returns the track at ordinal i. It panics if i is out of range.
func (c *Catalog) At(i int) track.Track {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tracks[i]
}

// Len returns the number of tracks.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tracks)
}

// Tracks returns a copy of all tracks in catalog order.
func (c *Catalog) Tracks() []track.Track {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]track.Track, len(c.tracks))
	copy(result, c.tracks)
	return result
}

// Resolve maps IDs to tracks, skipping unknown IDs and keeping order.
func (c *Catalog) Resolve(ids []string) []track.Track {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]track.Track, 0, len(ids))
	for _, id := range ids {
		if i, ok := c.index[id]; ok {
			result = append(result, c.tracks[i])
		}
	}
	return result
}

// Album returns the album with the given ID.
func (c *Catalog) Album(id string) (track.Album, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.albumIndex[id]
	if !ok {
		return track.Album{}, false
	}
	return c.albums[i], true
}

// Albums returns a copy of all albums.
func (c *Catalog) Albums() []track.Album {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]track.Album, len(c.albums))
	copy(result, c.albums)
	return result
}
