// Package config loads CLI configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the CLI's environment configuration.
type Config struct {
	// Lang selects the message catalogue ("ko" or "en"; tags like ko-KR
	// are matched).
	Lang string `env:"SIGNUP_LANG" envDefault:"ko"`
	// LogLevel is DEBUG, INFO, WARN or ERROR.
	LogLevel string `env:"SIGNUP_LOG_LEVEL" envDefault:"INFO"`
	// LogFormat is console or json.
	LogFormat string `env:"SIGNUP_LOG_FORMAT" envDefault:"console"`
	// GateSchemaCheck makes the submission gate re-run field rules itself.
	GateSchemaCheck bool `env:"SIGNUP_GATE_SCHEMA_CHECK" envDefault:"false"`
	// NoticeDuration is how long notices ask to be shown.
	NoticeDuration time.Duration `env:"SIGNUP_NOTICE_DURATION" envDefault:"1s"`
}

// Parse loads Config from environment variables.
func Parse() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
