package tokenizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookvault/bookvault/core"
)

func testConfig() Config {
	return Config{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func testUser() *core.User {
	return &core.User{ID: "user-123", Username: "alice"}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tk := NewJWTTokenizer(testConfig())

	token, expiry, err := tk.IssueAccessToken(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiry, time.Minute)

	identity, err := tk.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.UserID)
	assert.Equal(t, "alice", identity.Username)
	assert.WithinDuration(t, time.Now(), identity.IssuedAt, time.Minute)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tk := NewJWTTokenizer(testConfig())

	token, err := tk.IssueRefreshToken(testUser())
	require.NoError(t, err)

	identity, err := tk.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.UserID)
}

func TestVerifyExpiredToken(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.AccessTTL = -time.Minute
	tk := NewJWTTokenizer(cfg)

	token, _, err := tk.IssueAccessToken(testUser())
	require.NoError(t, err)

	_, err = tk.VerifyAccessToken(token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	tk := NewJWTTokenizer(testConfig())

	other := testConfig()
	other.AccessSecret = []byte("some-other-secret")
	forged, _, err := NewJWTTokenizer(other).IssueAccessToken(testUser())
	require.NoError(t, err)

	_, err = tk.VerifyAccessToken(forged)
	assert.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestVerifyWrongKind(t *testing.T) {
	t.Parallel()

	// Distinct secrets reject a swapped kind at the signature check
	tk := NewJWTTokenizer(testConfig())
	refresh, err := tk.IssueRefreshToken(testUser())
	require.NoError(t, err)

	_, err = tk.VerifyAccessToken(refresh)
	assert.Error(t, err)

	// With a shared secret the audience claim is what stops the swap
	cfg := testConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	shared := NewJWTTokenizer(cfg)

	refresh, err = shared.IssueRefreshToken(testUser())
	require.NoError(t, err)

	_, err = shared.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, core.ErrWrongTokenKind)

	access, _, err := shared.IssueAccessToken(testUser())
	require.NoError(t, err)

	_, err = shared.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, core.ErrWrongTokenKind)
}

func TestVerifyMalformedToken(t *testing.T) {
	t.Parallel()

	tk := NewJWTTokenizer(testConfig())

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := tk.VerifyAccessToken(token)
		assert.ErrorIs(t, err, core.ErrInvalidToken, "token %q", token)
	}
}
