// Package track provides the Track domain entity.
package track

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Track represents a song in the catalog.
// Tracks are immutable once loaded into the catalog.
type Track struct {
	ID             string `yaml:"id"`              // Stable catalog ID
	Title          string `yaml:"title"`           // Song title
	BibleReference string `yaml:"bible_reference"` // e.g. "Lucas 24:13-35"
	Description    string `yaml:"description"`     // Short description
	Album          string `yaml:"album"`           // Album title
	Lyrics         string `yaml:"lyrics"`          // Optional lyrics
	Encrypted      bool   `yaml:"encrypted"`       // Cosmetic DRM flag
	CoverURL       string `yaml:"cover_url"`       // Cover art locator
	AudioURL       string `yaml:"audio_url"`       // Audio locator
	Duration       int    `yaml:"duration"`        // Duration in seconds
}

// Validate checks the fields the player relies on.
func (t *Track) Validate() error {
	if t.ID == "" {
		return errors.New("track id is required")
	}
	if t.Title == "" {
		return errors.Newf("track %s: title is required", t.ID)
	}
	if t.Duration <= 0 {
		return errors.Newf("track %s: duration must be positive, got %d", t.ID, t.Duration)
	}
	return nil
}

// Length returns the duration as a time.Duration.
func (t *Track) Length() time.Duration {
	return time.Duration(t.Duration) * time.Second
}

// HasLyrics reports whether lyrics are attached.
func (t *Track) HasLyrics() bool {
	return t.Lyrics != ""
}

// Album groups catalog tracks.
type Album struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Author   string   `yaml:"author"`
	CoverURL string   `yaml:"cover_url"`
	Year     int      `yaml:"year"`
	TrackIDs []string `yaml:"tracks"`
}
