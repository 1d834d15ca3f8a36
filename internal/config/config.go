package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Load reads a .env file into the process environment. A missing file is
// not an error; deployments usually configure the environment directly.
func Load(path string) error {
	if err := godotenv.Load(path); err != nil {
		return err
	}
	return nil
}

type HTTPConfig interface {
	Address() string
	SecureCookies() bool
}

type PGConfig interface {
	// DSN is empty when no database is configured; the server then runs on
	// the in-memory store.
	DSN() string
}

type RedisConfig interface {
	// URL is empty when no broker is configured; security events are then
	// discarded.
	URL() string
}

type JWTConfig interface {
	AccessTokenSecret() []byte
	RefreshTokenSecret() []byte
	AccessTokenDuration() time.Duration
	RefreshTokenDuration() time.Duration
}

type HashConfig interface {
	BcryptCost() int
}
