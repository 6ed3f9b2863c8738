package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxCacheAge = 7 * 24 * time.Hour
	DefaultEdition     = "2021"
	DefaultCargo       = "cargo"
)

// Duration is a time.Duration written in YAML as a Go duration string.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

type Config struct {
	CacheDir    string   `yaml:"cache-dir"`
	MaxCacheAge Duration `yaml:"max-cache-age"`
	Edition     string   `yaml:"edition"`
	Toolchain   string   `yaml:"toolchain"`
	Cargo       string   `yaml:"cargo"`
	TemplateDir string   `yaml:"template-dir"`
	CargoOutput bool     `yaml:"cargo-output"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		MaxCacheAge: Duration(DefaultMaxCacheAge),
		Edition:     DefaultEdition,
		Cargo:       DefaultCargo,
	}
}

// DefaultPath is <user config dir>/rsrun/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rsrun", "config.yaml"), nil
}

// Load reads a YAML config file, applies RSRUN_ environment overrides (a
// .env file in the working directory is honoured) and returns a validated
// Config. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("RSRUN_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("RSRUN_MAX_CACHE_AGE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: RSRUN_MAX_CACHE_AGE: invalid duration %q", v)
		}
		cfg.MaxCacheAge = Duration(d)
	}
	if v := os.Getenv("RSRUN_TOOLCHAIN"); v != "" {
		cfg.Toolchain = v
	}
	if v := os.Getenv("RSRUN_CARGO"); v != "" {
		cfg.Cargo = v
	}
	return nil
}

// CacheRoot is the configured cache directory, or
// <user cache dir>/rsrun/script-cache.
func (c *Config) CacheRoot() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating cache directory: %w", err)
	}
	return filepath.Join(dir, "rsrun", "script-cache"), nil
}

// TemplateRoot is the configured template override directory, or
// <user config dir>/rsrun/templates.
func (c *Config) TemplateRoot() string {
	if c.TemplateDir != "" {
		return c.TemplateDir
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rsrun", "templates")
}
