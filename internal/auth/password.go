package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher is the PasswordHasher implementation. bcrypt salts every
// digest itself, so two hashes of the same password always differ.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher clamps the cost into bcrypt's valid range; anything
// below MinCost falls back to the library default rather than silently
// producing weak digests.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed digest is
// treated as not equal, never as an error: the caller only needs a
// yes/no and bcrypt's comparison is constant time with respect to the
// password.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
