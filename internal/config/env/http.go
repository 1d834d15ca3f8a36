package env

import (
	"os"

	"github.com/bookvault/bookvault/internal/config"
)

const (
	httpAddressEnvName   = "HTTP_ADDRESS"
	secureCookiesEnvName = "SECURE_COOKIES"
)

const defaultHTTPAddress = ":8080"

type httpConfig struct {
	address       string
	secureCookies bool
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	address := os.Getenv(httpAddressEnvName)
	if len(address) == 0 {
		address = defaultHTTPAddress
	}

	return &httpConfig{
		address:       address,
		secureCookies: os.Getenv(secureCookiesEnvName) != "false",
	}, nil
}

func (h *httpConfig) Address() string {
	return h.address
}

func (h *httpConfig) SecureCookies() bool {
	return h.secureCookies
}
