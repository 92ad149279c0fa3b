package config

import (
	"fmt"
	"net/url"

	pkgconfig "github.com/bally3399/chord001-monograms/pkg/config"
)

// CLI holds configuration for the storefront command-line client. Variables
// are read with the STOREFRONT_ prefix.
type CLI struct {
	APIURL   string `env:"API_URL" envDefault:"http://localhost:8080"`
	Token    string `env:"TOKEN"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`

	// AdminSession is a token from "admin login" used by the other admin commands.
	AdminSession string `env:"ADMIN_SESSION"`
}

// LoadCLI reads the client configuration.
func LoadCLI() (*CLI, error) {
	cfg := &CLI{}
	if err := pkgconfig.LoadWithPrefix(cfg, "STOREFRONT_"); err != nil {
		return nil, fmt.Errorf("load client config: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *CLI) Validate() error {
	if u, err := url.ParseRequestURI(c.APIURL); err != nil || u.Host == "" {
		return fmt.Errorf("invalid STOREFRONT_API_URL %q", c.APIURL)
	}
	return nil
}
