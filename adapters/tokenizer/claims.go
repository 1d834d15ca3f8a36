package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims combines the standard claims with the login name. The
// audience claim carries the token kind.
type SessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}
