package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// FromEnv starts from the DIFFICULTY preset and lets individual variables
// override it. Unset variables leave the preset value alone.
func FromEnv() (Balance, error) {
	cfg, err := Preset(os.Getenv("DIFFICULTY"))
	if err != nil {
		return Balance{}, err
	}
	if err := env.Parse(&cfg); err != nil {
		return Balance{}, fmt.Errorf("parse balance env: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables onto a loaded config.
func ApplyEnv(c *Config) error {
	if err := env.Parse(&c.Battle); err != nil {
		return fmt.Errorf("parse battle env: %w", err)
	}
	if err := env.Parse(&c.Balance); err != nil {
		return fmt.Errorf("parse balance env: %w", err)
	}
	return nil
}
