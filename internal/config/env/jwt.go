package env

import (
	"fmt"
	"os"
	"time"

	"github.com/bookvault/bookvault/internal/config"
)

const (
	accessTokenSecretEnvName    = "ACCESS_TOKEN_SECRET"
	refreshTokenSecretEnvName   = "REFRESH_TOKEN_SECRET"
	accessTokenDurationEnvName  = "ACCESS_TOKEN_DURATION"
	refreshTokenDurationEnvName = "REFRESH_TOKEN_DURATION"
)

const (
	defaultAccessTokenDuration  = 15 * time.Minute
	defaultRefreshTokenDuration = 7 * 24 * time.Hour
)

type jwtConfig struct {
	accessTokenSecret    string
	refreshTokenSecret   string
	accessTokenDuration  time.Duration
	refreshTokenDuration time.Duration
}

// NewJWTConfig reads the signing configuration. Both secrets are required
// and must differ so that one kind of token cannot be passed off as the
// other.
func NewJWTConfig() (config.JWTConfig, error) {
	accessSecret := os.Getenv(accessTokenSecretEnvName)
	if len(accessSecret) == 0 {
		return nil, fmt.Errorf("%s not set", accessTokenSecretEnvName)
	}

	refreshSecret := os.Getenv(refreshTokenSecretEnvName)
	if len(refreshSecret) == 0 {
		return nil, fmt.Errorf("%s not set", refreshTokenSecretEnvName)
	}

	if accessSecret == refreshSecret {
		return nil, fmt.Errorf("%s and %s must differ", accessTokenSecretEnvName, refreshTokenSecretEnvName)
	}

	accessDuration, err := durationFromEnv(accessTokenDurationEnvName, defaultAccessTokenDuration)
	if err != nil {
		return nil, err
	}

	refreshDuration, err := durationFromEnv(refreshTokenDurationEnvName, defaultRefreshTokenDuration)
	if err != nil {
		return nil, err
	}

	if accessDuration >= refreshDuration {
		return nil, fmt.Errorf("access token duration must be shorter than refresh token duration")
	}

	return &jwtConfig{
		accessTokenSecret:    accessSecret,
		refreshTokenSecret:   refreshSecret,
		accessTokenDuration:  accessDuration,
		refreshTokenDuration: refreshDuration,
	}, nil
}

func durationFromEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if len(raw) == 0 {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return parsed, nil
}

func (j *jwtConfig) AccessTokenSecret() []byte {
	return []byte(j.accessTokenSecret)
}

func (j *jwtConfig) RefreshTokenSecret() []byte {
	return []byte(j.refreshTokenSecret)
}

func (j *jwtConfig) AccessTokenDuration() time.Duration {
	return j.accessTokenDuration
}

func (j *jwtConfig) RefreshTokenDuration() time.Duration {
	return j.refreshTokenDuration
}
