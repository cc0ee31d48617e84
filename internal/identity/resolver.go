// Package identity maps registrants to the stable key under which one
// registration per event is enforced. Authenticated users pass through with
// their account id; guests get a synthetic identity derived from their
// normalized email so that two submissions with the same address resolve to
// the same identity.
package identity

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrNoIdentity = errors.New("neither user id nor email provided")

// guestNamespace salts the derivation so guest ids cannot collide with (or be
// forged as) authenticated account ids.
var guestNamespace = uuid.MustParse("7a1b9c04-53de-4c8a-9f10-2b6de15c2f6d")

// Resolver resolves the identity key for a registration attempt.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the identity id for a registration attempt. If an
// authenticated user id is present it is used directly and stays stable
// across sessions. Otherwise a deterministic guest id is derived from the
// normalized email, which is what makes duplicate detection work for
// unauthenticated repeat submissions.
func (r *Resolver) Resolve(authenticatedUserID, providedEmail string) (string, error) {
	if authenticatedUserID != "" {
		return authenticatedUserID, nil
	}

	email := NormalizeEmail(providedEmail)
	if email == "" {
		return "", ErrNoIdentity
	}

	return "guest-" + uuid.NewSHA1(guestNamespace, []byte(email)).String(), nil
}

// IsGuest reports whether an identity id was derived rather than
// authenticated.
func IsGuest(identityID string) bool {
	return strings.HasPrefix(identityID, "guest-")
}

// NormalizeEmail lowercases and trims an address. Anything fancier (dots,
// plus-addressing) is deliberately left alone: two spellings the provider
// treats as one mailbox are still two identities here.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail does a basic structural check.
func ValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
