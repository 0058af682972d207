package state

import (
	"sync"

	"github.com/osa030/bibliasertaneja/internal/api/playerv1"
	"github.com/osa030/bibliasertaneja/internal/domain/account"
)

// Manager manages session state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	sessionID string

	// Identity
	entry Entry
	user  *account.User

	// Mode
	connectivity Connectivity
}

// New creates a new state manager for a guest that has not chosen an entry yet.
func New(sessionID string) *Manager {
	return &Manager{
		sessionID:    sessionID,
		entry:        EntryNone,
		connectivity: Online,
	}
}

// GetSessionID returns the session ID.
func (m *Manager) GetSessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionID
}

// Role returns the current entitlement. Only a logged-in user is entitled.
func (m *Manager) Role() account.Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.entry == EntryLogin && m.user != nil {
		return account.RoleEntitled
	}
	return account.RoleGuest
}

// GetEntry returns how the listener entered.
func (m *Manager) GetEntry() Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entry
}

// User returns a copy of the logged-in user, or nil for guests.
func (m *Manager) User() *account.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// SetUser marks the session as logged in.
func (m *Manager) SetUser(u account.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = &u
	m.entry = EntryLogin
}

// SetGuest marks the session as a guest session.
func (m *Manager) SetGuest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	m.entry = EntryGuest
}

// Clear drops the user and returns to the welcome state, online.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	m.entry = EntryNone
	m.connectivity = Online
}

// Offline reports whether offline mode is on.
func (m *Manager) Offline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connectivity == Offline
}

// SetOffline switches offline mode.
func (m *Manager) SetOffline(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if on {
		m.connectivity = Offline
	} else {
		m.connectivity = Online
	}
}

// BuildSessionInfo creates the wire description of the session.
func (m *Manager) BuildSessionInfo() *playerv1.SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.buildSessionInfoLocked()
}

// buildSessionInfoLocked must be called with m.mu held.
func (m *Manager) buildSessionInfoLocked() *playerv1.SessionInfo {
	info := &playerv1.SessionInfo{
		Role:    account.RoleGuest.String(),
		Offline: m.connectivity == Offline,
	}
	if m.entry == EntryLogin && m.user != nil {
		info.Role = account.RoleEntitled.String()
		info.UserId = m.user.ID
		info.DisplayName = m.user.DisplayName
		info.Email = m.user.Email
	}
	return info
}
