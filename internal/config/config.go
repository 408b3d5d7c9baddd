// Package config loads tmstore configuration from an optional TOML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultMaxCandidates = 3
	defaultMinSimilarity = 75
	defaultMaxLength     = 1000
)

// Config carries the process configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty means the per-user default.
	DBPath string `toml:"db_path"`
	// MaxCandidates caps results per lookup.
	MaxCandidates int `toml:"max_candidates"`
	// MinSimilarity is the inclusive quality floor, 1-100.
	MinSimilarity int `toml:"min_similarity"`
	// MaxLength bounds comparison length.
	MaxLength int `toml:"max_length"`
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		MaxCandidates: defaultMaxCandidates,
		MinSimilarity: defaultMinSimilarity,
		MaxLength:     defaultMaxLength,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tmstore", "config.toml"), nil
}

// Load reads the config file at path, falling back to defaults if the file
// does not exist, then applies environment overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No config file is fine; defaults plus environment apply.
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides file values from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("TMSTORE_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("TMSTORE_MAX_CANDIDATES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxCandidates = n
		}
	}
	if v := os.Getenv("TMSTORE_MIN_SIMILARITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MinSimilarity = n
		}
	}
	if v := os.Getenv("TMSTORE_MAX_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxLength = n
		}
	}
}

func (c *Config) validate() error {
	if c.MaxCandidates <= 0 {
		return fmt.Errorf("max_candidates must be positive, got %d", c.MaxCandidates)
	}
	if c.MinSimilarity <= 0 || c.MinSimilarity > 100 {
		return fmt.Errorf("min_similarity must be in 1-100, got %d", c.MinSimilarity)
	}
	if c.MaxLength <= 0 {
		return fmt.Errorf("max_length must be positive, got %d", c.MaxLength)
	}
	return nil
}
