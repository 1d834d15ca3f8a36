package env

import (
	"fmt"
	"os"
	"strconv"

	"github.com/bookvault/bookvault/internal/config"
)

const bcryptCostEnvName = "BCRYPT_COST"

type hashConfig struct {
	bcryptCost int
}

func NewHashConfig() (config.HashConfig, error) {
	raw := os.Getenv(bcryptCostEnvName)
	if len(raw) == 0 {
		return &hashConfig{}, nil
	}

	cost, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", bcryptCostEnvName, err)
	}

	return &hashConfig{bcryptCost: cost}, nil
}

func (h *hashConfig) BcryptCost() int {
	return h.bcryptCost
}
