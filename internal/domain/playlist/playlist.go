// Package playlist provides the Playlist domain entity.
package playlist

import "github.com/samber/lo"

// Playlist is an ordered list of unique catalog track IDs.
type Playlist struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	CoverURL    string   `yaml:"cover_url"`
	TrackIDs    []string `yaml:"tracks"`
	UserCreated bool     `yaml:"-"` // Curated playlists come from the catalog file
}

// Contains reports whether the track is in the playlist.
func (p *Playlist) Contains(trackID string) bool {
	return lo.Contains(p.TrackIDs, trackID)
}

// Add appends a track. Returns false if it is already present.
func (p *Playlist) Add(trackID string) bool {
	if p.Contains(trackID) {
		return false
	}
	p.TrackIDs = append(p.TrackIDs, trackID)
	return true
}

// Remove deletes a track. Returns false if it was not present.
func (p *Playlist) Remove(trackID string) bool {
	if !p.Contains(trackID) {
		return false
	}
	p.TrackIDs = lo.Without(p.TrackIDs, trackID)
	return true
}

// Clone returns a deep copy.
func (p *Playlist) Clone() Playlist {
	c := *p
	c.TrackIDs = append([]string(nil), p.TrackIDs...)
	return c
}
