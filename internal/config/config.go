// Package config reads the settings of all commands from environment variables.
package config

import (
	"fmt"
	"strings"

	env "github.com/Netflix/go-env"
)

// Config holds the settings shared by the service, the client and the tools. Persistence is
// enabled only when DBHOST is set.
type Config struct {
	Port       int    `env:"PORT,default=8080"`
	DBHost     string `env:"DBHOST"`
	DBUser     string `env:"DBUSER"`
	DBPassword string `env:"DBPWD"`
	GinLogging string `env:"GIN_LOGGING,default=on"`
	LogLevel   string `env:"LOG_LEVEL,default=info"`
	ServiceURL string `env:"SERVICE_URL,default=http://localhost:8080"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnvSet reads the configuration from the given variables instead of the process
// environment.
func FromEnvSet(es env.EnvSet) (Config, error) {
	var cfg Config
	if err := env.Unmarshal(es, &cfg); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.DBHost != "" && c.DBUser == "" {
		return fmt.Errorf("DBUSER is required when DBHOST is set")
	}
	return nil
}

// PersistenceEnabled reports whether a database has been configured.
func (c Config) PersistenceEnabled() bool {
	return c.DBHost != ""
}

// RequestLogging reports whether HTTP requests are to be logged.
func (c Config) RequestLogging() bool {
	return !strings.EqualFold(c.GinLogging, "off")
}
