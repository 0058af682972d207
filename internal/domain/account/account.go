// Package account provides the session role and user entities.
package account

import "time"

// Role is the entitlement level of the active session.
type Role int

const (
	RoleGuest    Role = iota // Anonymous, preview-only playback
	RoleEntitled             // Logged in, unrestricted playback
)

// String returns the string representation of the role.
func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleEntitled:
		return "entitled"
	default:
		return "unknown"
	}
}

// IsGuest reports whether the role is Guest.
func (r Role) IsGuest() bool {
	return r != RoleEntitled
}

// Plan is the subscription plan shown on the profile.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// User represents a registered listener.
type User struct {
	ID          string    // UUID
	DisplayName string    // Display name
	Email       string    // Login key
	Plan        Plan      // Subscription plan
	CreatedAt   time.Time // Registration time
}

// NewUser creates a user on the free plan.
func NewUser(id, displayName, email string) *User {
	return &User{
		ID:          id,
		DisplayName: displayName,
		Email:       email,
		Plan:        PlanFree,
		CreatedAt:   time.Now(),
	}
}
