package registry

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/bibliasertaneja/internal/domain/account"
)

func TestAccountRegistry_Register(t *testing.T) {
	r := NewAccountRegistry()

	u, err := r.Register("Maria", " Maria@Example.com ")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Maria", u.DisplayName)
	assert.Equal(t, "maria@example.com", u.Email)
	assert.Equal(t, account.PlanFree, u.Plan)

	_, err = r.Register("Outra", "maria@example.com")
	assert.True(t, errors.Is(err, ErrAccountExists))

	got, err := r.Get(u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, 1, r.Count())
}

func TestAccountRegistry_RegisterDefaultName(t *testing.T) {
	r := NewAccountRegistry()

	u, err := r.Register("", "joao@example.com")
	require.NoError(t, err)
	assert.Equal(t, "joao", u.DisplayName)
}

func TestAccountRegistry_InvalidEmail(t *testing.T) {
	r := NewAccountRegistry()

	for _, email := range []string{"", "   ", "joao", "@example.com", "joao@"} {
		_, err := r.Register("x", email)
		assert.True(t, errors.Is(err, ErrInvalidEmail), "email %q", email)
	}
	assert.Zero(t, r.Count())
}

func TestAccountRegistry_Login(t *testing.T) {
	r := NewAccountRegistry()
	registered, err := r.Register("Ana", "ana@example.com")
	require.NoError(t, err)

	tests := []struct {
		name         string
		email        string
		autoRegister bool
		wantErr      error
		wantID       string
	}{
		{name: "known", email: "ANA@example.com", wantID: registered.ID},
		{name: "unknown", email: "pedro@example.com", wantErr: ErrAccountNotFound},
		{name: "bad email", email: "pedro", autoRegister: true, wantErr: ErrInvalidEmail},
		{name: "auto register", email: "pedro@example.com", autoRegister: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := r.Login(tt.email, tt.autoRegister)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			if tt.wantID != "" {
				assert.Equal(t, tt.wantID, u.ID)
			}
			assert.NotEmpty(t, u.ID)
		})
	}

	assert.Equal(t, 2, r.Count())
}
