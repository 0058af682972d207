// Package playback provides the transport controller: the single now-playing
// slot, its status state machine, the elapsed-time clock and the guest preview
// and offline availability policies applied to every transition.
package playback

// State represents the playback state.
type State int

const (
	StatePaused    State = iota // Nothing is advancing (initial state)
	StatePlaying                // The current track is advancing
	StateBuffering              // Reserved for a network layer; never entered by the controller
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	case StateBuffering:
		return "buffering"
	default:
		return "unknown"
	}
}

// Direction selects the neighbour used by Advance.
type Direction int

const (
	Next Direction = 1
	Prev Direction = -1
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case Next:
		return "next"
	case Prev:
		return "prev"
	default:
		return "unknown"
	}
}

// ParseDirection parses "next" or "prev".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "next":
		return Next, true
	case "prev", "previous":
		return Prev, true
	default:
		return 0, false
	}
}
