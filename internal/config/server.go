package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server configures the HTTP surface. It is read from the environment only.
type Server struct {
	Addr             string        `env:"FORMFLOW_HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	ReadTimeout      time.Duration `env:"FORMFLOW_HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout     time.Duration `env:"FORMFLOW_HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	SessionKeyPrefix string        `env:"FORMFLOW_HTTP_SESSION_KEY_PREFIX" envDefault:"formflow"`
}

// LoadServer parses the server settings from the environment.
func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
