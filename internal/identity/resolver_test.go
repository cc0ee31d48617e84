package identity_test

import (
	"testing"

	"ms-registration/internal/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_AuthenticatedUserWins(t *testing.T) {
	r := identity.NewResolver()

	id, err := r.Resolve("user-abc", "someone@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-abc", id)
	assert.False(t, identity.IsGuest(id))
}

func TestResolve_GuestIsDeterministic(t *testing.T) {
	r := identity.NewResolver()

	first, err := r.Resolve("", "Jane.Doe@Example.COM")
	require.NoError(t, err)
	second, err := r.Resolve("", "  jane.doe@example.com ")
	require.NoError(t, err)

	// Case and whitespace differences collapse onto one identity.
	assert.Equal(t, first, second)
	assert.True(t, identity.IsGuest(first))

	other, err := r.Resolve("", "someone.else@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestResolve_NoIdentity(t *testing.T) {
	r := identity.NewResolver()

	_, err := r.Resolve("", "   ")
	assert.ErrorIs(t, err, identity.ErrNoIdentity)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", identity.NormalizeEmail("  A@B.Com "))
	// Plus-addressing and dots are preserved on purpose.
	assert.Equal(t, "a+tag@b.com", identity.NormalizeEmail("A+tag@b.com"))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, identity.ValidEmail("alice@example.com"))
	assert.False(t, identity.ValidEmail("alice"))
	assert.False(t, identity.ValidEmail("alice@"))
	assert.False(t, identity.ValidEmail("@example.com"))
	assert.False(t, identity.ValidEmail("alice@localhost"))
}
