package playback

import "github.com/osa030/bibliasertaneja/internal/domain/track"

// EventType represents a playback event type.
type EventType int

const (
	EventTrackStarted   EventType = iota // A new track became current
	EventTrackEnded                      // The current track reached its end
	EventStateChanged                    // Playback state changed (pause/resume)
	EventSeeked                          // Playhead moved by a seek
	EventProgress                        // Elapsed time advanced by a tick
	EventVolumeChanged                   // Volume changed
	EventPreviewExpired                  // Guest reached the preview limit
	EventReset                           // Player cleared (logout)
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackStarted:
		return "track_started"
	case EventTrackEnded:
		return "track_ended"
	case EventStateChanged:
		return "state_changed"
	case EventSeeked:
		return "seeked"
	case EventProgress:
		return "progress"
	case EventVolumeChanged:
		return "volume_changed"
	case EventPreviewExpired:
		return "preview_expired"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event represents a playback event with the snapshot taken right after it.
type Event struct {
	Type     EventType
	Snapshot Snapshot
}

// Snapshot is the observable state of the controller.
type Snapshot struct {
	TrackID       string       // Empty until the first play
	Track         *track.Track // Copy of the current track (nil when TrackID is empty)
	Status        State        // Current playback state
	Elapsed       float64      // Seconds into the current track
	Volume        float64      // 0.0 to 1.0
	PreviewLocked bool         // Guest is parked at the preview limit
}

// HasTrack reports whether a track is selected.
func (s Snapshot) HasTrack() bool {
	return s.TrackID != ""
}

// Remaining returns the seconds left in the current track.
func (s Snapshot) Remaining() float64 {
	if s.Track == nil {
		return 0
	}
	r := float64(s.Track.Duration) - s.Elapsed
	if r < 0 {
		return 0
	}
	return r
}
