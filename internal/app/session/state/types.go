// Package state provides session state management.
package state

// Connectivity represents whether the player uses the network.
type Connectivity int

const (
	Online  Connectivity = iota // Full catalog is streamable
	Offline                     // Only downloaded tracks are playable
)

// String returns the string representation of the connectivity.
func (c Connectivity) String() string {
	switch c {
	case Online:
		return "online"
	case Offline:
		return "offline"
	default:
		return "unknown"
	}
}

// Entry represents how the listener entered the app.
type Entry int

const (
	EntryNone  Entry = iota // Welcome screen, no choice yet
	EntryGuest              // Continued as guest
	EntryLogin              // Logged in or registered
)

// String returns the string representation of the entry.
func (e Entry) String() string {
	switch e {
	case EntryNone:
		return "none"
	case EntryGuest:
		return "guest"
	case EntryLogin:
		return "login"
	default:
		return "unknown"
	}
}
