package env

import (
	"os"

	"github.com/bookvault/bookvault/internal/config"
)

const pgDSNEnvName = "PG_DSN"

type pgConfig struct {
	dsn string
}

func NewPGConfig() (config.PGConfig, error) {
	return &pgConfig{dsn: os.Getenv(pgDSNEnvName)}, nil
}

func (p *pgConfig) DSN() string {
	return p.dsn
}
