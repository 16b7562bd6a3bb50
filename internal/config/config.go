package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitgarden/internal/constants"
)

// Config holds habitgarden settings read from config.yaml and the environment.
type Config struct {
	// Storage is a file path (.json or SQLite) or a postgres:// URL
	Storage string `yaml:"storage"`
	Debug   bool   `yaml:"debug"`
	// AchievementsFile overrides the built-in achievement catalog
	AchievementsFile string `yaml:"achievements_file,omitempty"`
	SuggestionLimit  int    `yaml:"suggestion_limit"`
	// Timezone is an IANA name, or "Local" for the system timezone
	Timezone string `yaml:"timezone"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Storage:         constants.DefaultStoragePath,
		SuggestionLimit: constants.DefaultSuggestionLimit,
		Timezone:        "Local",
	}
}

// Load reads path over the defaults, then applies .env and environment overrides.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ExpandHome(path))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(constants.EnvStorage); v != "" {
		c.Storage = v
	}
	if v := os.Getenv(constants.EnvAchievements); v != "" {
		c.AchievementsFile = v
	}
	if v := os.Getenv(constants.EnvDebug); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Debug = debug
		}
	}
}

// Validate checks settings that would otherwise fail later in confusing ways.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage) == "" {
		return fmt.Errorf("config: storage must not be empty")
	}
	if c.SuggestionLimit <= 0 {
		c.SuggestionLimit = constants.DefaultSuggestionLimit
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone; check-ins without an explicit date use this
// zone to pick "today".
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Save writes the config as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// IsPostgres reports whether Storage is a PostgreSQL connection string.
func (c *Config) IsPostgres() bool {
	return strings.HasPrefix(c.Storage, "postgres://") || strings.HasPrefix(c.Storage, "postgresql://") ||
		(strings.Contains(c.Storage, "host=") && strings.Contains(c.Storage, " "))
}

// ConfigDir returns the directory holding logs, backups and the config file.
func (c *Config) ConfigDir() string {
	if c.IsPostgres() {
		return ExpandHome(constants.DefaultConfigDir)
	}
	return filepath.Dir(ExpandHome(c.Storage))
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
