package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig(t *testing.T) {
	t.Setenv(accessTokenSecretEnvName, "access-secret")
	t.Setenv(refreshTokenSecretEnvName, "refresh-secret")
	t.Setenv(accessTokenDurationEnvName, "5m")
	t.Setenv(refreshTokenDurationEnvName, "48h")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)

	assert.Equal(t, []byte("access-secret"), cfg.AccessTokenSecret())
	assert.Equal(t, []byte("refresh-secret"), cfg.RefreshTokenSecret())
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenDuration())
	assert.Equal(t, 48*time.Hour, cfg.RefreshTokenDuration())
}

func TestNewJWTConfigDefaults(t *testing.T) {
	t.Setenv(accessTokenSecretEnvName, "access-secret")
	t.Setenv(refreshTokenSecretEnvName, "refresh-secret")
	t.Setenv(accessTokenDurationEnvName, "")
	t.Setenv(refreshTokenDurationEnvName, "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)

	assert.Equal(t, defaultAccessTokenDuration, cfg.AccessTokenDuration())
	assert.Equal(t, defaultRefreshTokenDuration, cfg.RefreshTokenDuration())
}

func TestNewJWTConfigRejectsMissingSecrets(t *testing.T) {
	t.Setenv(accessTokenSecretEnvName, "")
	t.Setenv(refreshTokenSecretEnvName, "refresh-secret")

	_, err := NewJWTConfig()
	assert.Error(t, err)
}

func TestNewJWTConfigRejectsSharedSecret(t *testing.T) {
	t.Setenv(accessTokenSecretEnvName, "same-secret")
	t.Setenv(refreshTokenSecretEnvName, "same-secret")

	_, err := NewJWTConfig()
	assert.Error(t, err)
}

func TestNewJWTConfigRejectsInvertedDurations(t *testing.T) {
	t.Setenv(accessTokenSecretEnvName, "access-secret")
	t.Setenv(refreshTokenSecretEnvName, "refresh-secret")
	t.Setenv(accessTokenDurationEnvName, "48h")
	t.Setenv(refreshTokenDurationEnvName, "5m")

	_, err := NewJWTConfig()
	assert.Error(t, err)
}
