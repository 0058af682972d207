// Package gate provides the entitlement policy that classifies player and
// library actions as allowed or denied for the active session.
package gate

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/bibliasertaneja/internal/domain/account"
)

// Outcome errors. These are expected, user-facing results and are matched
// with errors.Is by callers.
var (
	ErrUnavailable     = errors.New("track is not available offline")
	ErrPreviewExpired  = errors.New("guest preview limit reached")
	ErrNoPlayableTrack = errors.New("no playable track")
	ErrLoginRequired   = errors.New("login required")
)

// Action is a gate-checked user action.
type Action int

const (
	ActionResume             Action = iota // Resume playback
	ActionSeek                             // Move the playhead
	ActionToggleDownload                   // Add/remove an offline copy
	ActionCreatePlaylist                   // Create a user playlist
	ActionAddToPlaylist                    // Add a track to a playlist
	ActionDeletePlaylist                   // Delete a playlist
	ActionEnableOffline                    // Switch to offline mode
	ActionToggleFavorite                   // Favorite/unfavorite a track
	ActionRemoveFromPlaylist               // Remove a track from a playlist
)

// String returns the string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionResume:
		return "resume"
	case ActionSeek:
		return "seek"
	case ActionToggleDownload:
		return "toggle_download"
	case ActionCreatePlaylist:
		return "create_playlist"
	case ActionAddToPlaylist:
		return "add_to_playlist"
	case ActionDeletePlaylist:
		return "delete_playlist"
	case ActionEnableOffline:
		return "enable_offline"
	case ActionToggleFavorite:
		return "toggle_favorite"
	case ActionRemoveFromPlaylist:
		return "remove_from_playlist"
	default:
		return "unknown"
	}
}

// IsLibraryMutation reports whether the action changes the user's library.
// Favorites are deliberately not included: guests may favorite for the session.
func (a Action) IsLibraryMutation() bool {
	switch a {
	case ActionToggleDownload, ActionCreatePlaylist, ActionAddToPlaylist,
		ActionRemoveFromPlaylist, ActionDeletePlaylist, ActionEnableOffline:
		return true
	default:
		return false
	}
}

// IsContinuation reports whether the action continues playback of the current track.
func (a Action) IsContinuation() bool {
	return a == ActionResume || a == ActionSeek
}

// Reason is the closed set of outcome kinds.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnavailable
	ReasonPreviewExpired
	ReasonNoPlayableTrack
	ReasonLoginRequired
)

// Code returns the wire code of the reason.
func (r Reason) Code() string {
	switch r {
	case ReasonNone:
		return "success"
	case ReasonUnavailable:
		return "unavailable"
	case ReasonPreviewExpired:
		return "preview_expired"
	case ReasonNoPlayableTrack:
		return "no_playable_track"
	case ReasonLoginRequired:
		return "login_required"
	default:
		return "unknown"
	}
}

// Err returns the sentinel error for the reason, nil for ReasonNone.
func (r Reason) Err() error {
	switch r {
	case ReasonUnavailable:
		return ErrUnavailable
	case ReasonPreviewExpired:
		return ErrPreviewExpired
	case ReasonNoPlayableTrack:
		return ErrNoPlayableTrack
	case ReasonLoginRequired:
		return ErrLoginRequired
	default:
		return nil
	}
}

// ReasonOf classifies an error returned by the player or library.
// ok is false for errors outside the outcome set.
func ReasonOf(err error) (reason Reason, ok bool) {
	switch {
	case err == nil:
		return ReasonNone, true
	case errors.Is(err, ErrUnavailable):
		return ReasonUnavailable, true
	case errors.Is(err, ErrPreviewExpired):
		return ReasonPreviewExpired, true
	case errors.Is(err, ErrNoPlayableTrack):
		return ReasonNoPlayableTrack, true
	case errors.Is(err, ErrLoginRequired):
		return ReasonLoginRequired, true
	default:
		return ReasonNone, false
	}
}

// Request describes an attempted action.
type Request struct {
	Action   Action
	Role     account.Role
	Position float64 // Playhead position in seconds: elapsed for resume, target for seek
}

// Decision is the result of a gate check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Allow returns an allowing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision with the given reason.
func Deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Err returns nil when allowed, otherwise the reason's sentinel error.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return d.Reason.Err()
}

// Rule is a single gate rule.
type Rule interface {
	// Name returns the rule name.
	Name() string
	// AppliesTo returns true if the rule should be consulted for the action.
	AppliesTo(action Action) bool
	// Check classifies the request.
	Check(req Request) Decision
}
