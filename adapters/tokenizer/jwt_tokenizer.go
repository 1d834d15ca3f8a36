package tokenizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bookvault/bookvault/core"
	"github.com/bookvault/bookvault/ports"
)

const AudienceAccess = "bookvault:access"
const AudienceRefresh = "bookvault:refresh"

// Config is the immutable signing configuration for both token kinds.
// Access and refresh tokens use distinct secrets so compromise of one
// cannot forge the other.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// JWTTokenizer implements the Tokenizer interface using HS256 JWTs
type JWTTokenizer struct {
	cfg Config
}

// NewJWTTokenizer creates a new JWT tokenizer
func NewJWTTokenizer(cfg Config) ports.Tokenizer {
	return &JWTTokenizer{cfg: cfg}
}

// IssueAccessToken mints an access token for the user
func (j *JWTTokenizer) IssueAccessToken(user *core.User) (string, time.Time, error) {
	expiry := time.Now().Add(j.cfg.AccessTTL)
	token, err := j.issue(user, AudienceAccess, j.cfg.AccessSecret, expiry)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, expiry, nil
}

// IssueRefreshToken mints a refresh token for the user
func (j *JWTTokenizer) IssueRefreshToken(user *core.User) (string, error) {
	token, err := j.issue(user, AudienceRefresh, j.cfg.RefreshSecret, time.Now().Add(j.cfg.RefreshTTL))
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return token, nil
}

// VerifyAccessToken parses an access token and returns the embedded identity
func (j *JWTTokenizer) VerifyAccessToken(token string) (*core.Identity, error) {
	return j.verify(token, AudienceAccess, j.cfg.AccessSecret)
}

// VerifyRefreshToken parses a refresh token and returns the embedded identity
func (j *JWTTokenizer) VerifyRefreshToken(token string) (*core.Identity, error) {
	return j.verify(token, AudienceRefresh, j.cfg.RefreshSecret)
}

func (j *JWTTokenizer) issue(user *core.User, audience string, secret []byte, expiry time.Time) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiry),
			Audience:  jwt.ClaimStrings{audience},
		},
		Username: user.Username,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (j *JWTTokenizer) verify(tokenStr, audience string, secret []byte) (*core.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithAudience(audience))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("failed to parse token: %w", core.ErrTokenExpired)
		case errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, fmt.Errorf("failed to parse token: %w", core.ErrWrongTokenKind)
		default:
			return nil, fmt.Errorf("failed to parse token: %w", core.ErrInvalidToken)
		}
	}

	if !token.Valid {
		return nil, core.ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.Subject == "" {
		return nil, core.ErrInvalidToken
	}

	return &core.Identity{
		UserID:   claims.Subject,
		Username: claims.Username,
		IssuedAt: claims.IssuedAt.Time,
	}, nil
}
