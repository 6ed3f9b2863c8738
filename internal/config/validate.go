package config

import (
	"fmt"
	"strings"
	"time"
)

var validEditions = map[string]bool{
	"2015": true,
	"2018": true,
	"2021": true,
	"2024": true,
}

// Validate checks the config for errors and sets defaults.
func Validate(cfg *Config) error {
	if cfg.Edition == "" {
		cfg.Edition = DefaultEdition
	}
	if !validEditions[cfg.Edition] {
		return fmt.Errorf("config: unknown edition %q (must be 2015, 2018, 2021 or 2024)", cfg.Edition)
	}
	if time.Duration(cfg.MaxCacheAge) <= 0 {
		return fmt.Errorf("config: 'max-cache-age' must be positive, got %s", time.Duration(cfg.MaxCacheAge))
	}
	if strings.TrimSpace(cfg.Cargo) == "" {
		cfg.Cargo = DefaultCargo
	}
	if strings.HasPrefix(cfg.Toolchain, "+") {
		return fmt.Errorf("config: 'toolchain' should not start with '+': %q", cfg.Toolchain)
	}
	return nil
}
