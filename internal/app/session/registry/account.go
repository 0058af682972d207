// Package registry keeps the in-memory account directory.
package registry

import (
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/osa030/bibliasertaneja/internal/domain/account"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
)

// AccountRegistry manages registered users with thread-safe access.
// Credentials are not checked: an account is identified by its email.
type AccountRegistry struct {
	mu      sync.RWMutex
	users   map[string]*account.User // By ID
	byEmail map[string]string        // Normalized email to ID
}

// NewAccountRegistry creates a new account registry.
func NewAccountRegistry() *AccountRegistry {
	return &AccountRegistry{
		users:   make(map[string]*account.User),
		byEmail: make(map[string]string),
	}
}

// Register creates a new account and returns it.
func (r *AccountRegistry) Register(displayName, email string) (account.User, error) {
	key, err := normalizeEmail(email)
	if err != nil {
		return account.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[key]; ok {
		return account.User{}, errors.Wrapf(ErrAccountExists, "email %s", key)
	}

	if strings.TrimSpace(displayName) == "" {
		displayName = key[:strings.Index(key, "@")]
	}

	id := uuid.New().String()
	u := account.NewUser(id, displayName, key)
	r.users[id] = u
	r.byEmail[key] = id
	return *u, nil
}

// Login looks up an account by email. When autoRegister is set an unknown
// email creates a new account.
func (r *AccountRegistry) Login(email string, autoRegister bool) (account.User, error) {
	key, err := normalizeEmail(email)
	if err != nil {
		return account.User{}, err
	}

	r.mu.RLock()
	id, ok := r.byEmail[key]
	var u account.User
	if ok {
		u = *r.users[id]
	}
	r.mu.RUnlock()

	if ok {
		return u, nil
	}
	if !autoRegister {
		return account.User{}, errors.Wrapf(ErrAccountNotFound, "email %s", key)
	}
	return r.Register("", key)
}

// Get retrieves an account by ID.
func (r *AccountRegistry) Get(id string) (account.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return account.User{}, errors.Wrapf(ErrAccountNotFound, "id %s", id)
	}
	return *u, nil
}

// Count returns the number of accounts.
func (r *AccountRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func normalizeEmail(email string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	at := strings.Index(key, "@")
	if at <= 0 || at == len(key)-1 {
		return "", errors.Wrapf(ErrInvalidEmail, "%q", email)
	}
	return key, nil
}
