package hasher

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bookvault/bookvault/ports"
)

// BcryptHasher implements the PasswordHasher interface using bcrypt.
// bcrypt salts every digest and compares in constant time.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new bcrypt hasher. A cost of 0 selects the
// bcrypt default.
func NewBcryptHasher(cost int) ports.PasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash digests a plaintext password
func (h *BcryptHasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Compare reports whether plain matches digest
func (h *BcryptHasher) Compare(digest, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
