// Package config loads geoquiz settings from a YAML file, a .env file and
// GEOQUIZ_ environment variables. Command-line flags are applied on top by
// the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/geoquiz/internal/geo"
)

// Config holds all application configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty means the default location.
	DBPath string `yaml:"db_path"`

	// LogFile receives JSON log lines while the TUI owns the terminal.
	LogFile string `yaml:"log_file"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Locale is the BCP 47 tag used to sort region labels.
	Locale string `yaml:"locale"`

	// ServeAddr is the listen address of the HTTP bridge.
	ServeAddr string `yaml:"serve_addr"`

	// DefaultOptions is the options count given to new multiple-choice quizzes.
	DefaultOptions int `yaml:"default_options"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:       "info",
		Locale:         geo.DefaultLocale().String(),
		ServeAddr:      "127.0.0.1:8787",
		DefaultOptions: 4,
	}
}

// Load builds the configuration in priority order:
//  1. GEOQUIZ_* environment variables (a .env file in the working
//     directory is loaded into the environment first)
//  2. the YAML file at path, or DefaultPath() when path is empty
//  3. Default()
//
// A missing file is only an error when path was given explicitly.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg.mergeEnv()

	if cfg.LogFile == "" {
		p, err := DefaultLogPath()
		if err != nil {
			return nil, err
		}
		cfg.LogFile = p
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	c.DBPath = envStr("GEOQUIZ_DB", c.DBPath)
	c.LogFile = envStr("GEOQUIZ_LOG_FILE", c.LogFile)
	c.LogLevel = envStr("GEOQUIZ_LOG_LEVEL", c.LogLevel)
	c.Locale = envStr("GEOQUIZ_LOCALE", c.Locale)
	c.ServeAddr = envStr("GEOQUIZ_ADDR", c.ServeAddr)
	c.DefaultOptions = envInt("GEOQUIZ_DEFAULT_OPTIONS", c.DefaultOptions)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	if c.DefaultOptions < 2 || c.DefaultOptions > 9 {
		return fmt.Errorf("default options must be between 2 and 9, got %d", c.DefaultOptions)
	}
	return nil
}

// Language returns the parsed locale, falling back to geo.DefaultLocale.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return geo.DefaultLocale()
	}
	return tag
}

// DefaultPath returns $XDG_CONFIG_HOME/geoquiz/config.yaml, falling back to
// ~/.config/geoquiz/config.yaml.
func DefaultPath() (string, error) {
	return xdgPath("XDG_CONFIG_HOME", ".config", "config.yaml")
}

// DefaultLogPath returns $XDG_STATE_HOME/geoquiz/geoquiz.log, falling back
// to ~/.local/state/geoquiz/geoquiz.log.
func DefaultLogPath() (string, error) {
	return xdgPath("XDG_STATE_HOME", filepath.Join(".local", "state"), "geoquiz.log")
}

func xdgPath(env, fallback, file string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, "geoquiz", file), nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
