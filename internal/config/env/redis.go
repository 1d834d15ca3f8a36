package env

import (
	"os"

	"github.com/bookvault/bookvault/internal/config"
)

const redisURLEnvName = "REDIS_URL"

type redisConfig struct {
	url string
}

func NewRedisConfig() (config.RedisConfig, error) {
	return &redisConfig{url: os.Getenv(redisURLEnvName)}, nil
}

func (r *redisConfig) URL() string {
	return r.url
}
