package ports

import (
	"time"

	"github.com/bookvault/bookvault/core"
)

// Tokenizer signs and verifies the two token kinds. Tokens are opaque
// strings to every other component.
type Tokenizer interface {
	// IssueAccessToken mints a short-lived access token and reports its expiry.
	IssueAccessToken(user *core.User) (string, time.Time, error)

	// IssueRefreshToken mints a long-lived refresh token.
	IssueRefreshToken(user *core.User) (string, error)

	// VerifyAccessToken checks signature, expiry and kind of an access token.
	VerifyAccessToken(token string) (*core.Identity, error)

	// VerifyRefreshToken checks signature, expiry and kind of a refresh token.
	VerifyRefreshToken(token string) (*core.Identity, error)
}

// PasswordHasher produces and verifies salted one-way password digests.
type PasswordHasher interface {
	// Hash digests a plaintext password with a fresh salt.
	Hash(plain string) (string, error)

	// Compare reports whether plain matches digest. The comparison must not
	// leak timing information about the mismatch position.
	Compare(digest, plain string) bool
}
