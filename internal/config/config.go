package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the optional settings file inside the data directory.
const FileName = "config.yaml"

// Config holds application configuration. Paths left empty in the settings
// file are derived from DataDir; relative paths are resolved against it.
type Config struct {
	DataDir          string        `yaml:"-"`
	CollectionsDir   string        `yaml:"collections_dir"`
	HistoryDB        string        `yaml:"history_db"`
	LogFile          string        `yaml:"log_file"`
	LogLevel         string        `yaml:"log_level"`
	Theme            string        `yaml:"theme"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	FollowRedirects  bool          `yaml:"follow_redirects"`
	HistoryLimit     int           `yaml:"history_limit"`
	WatchCollections bool          `yaml:"watch_collections"`
	UserAgent        string        `yaml:"user_agent"`
}

// DefaultUserAgent is sent when a request sets no User-Agent header of its own.
const DefaultUserAgent = "restui"

// DefaultDataDir returns ~/.config/restui on every platform.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".config", "restui"), nil
}

// Default returns the configuration used when no settings file exists.
func Default(dataDir string) Config {
	return Config{
		DataDir:          dataDir,
		CollectionsDir:   filepath.Join(dataDir, "collections"),
		HistoryDB:        filepath.Join(dataDir, "history.db"),
		LogFile:          filepath.Join(dataDir, "restui.log"),
		LogLevel:         "info",
		Theme:            "classic",
		RequestTimeout:   30 * time.Second,
		FollowRedirects:  true,
		HistoryLimit:     100,
		WatchCollections: true,
		UserAgent:        DefaultUserAgent,
	}
}

// Load reads the settings file at path over the defaults for dataDir. An empty
// path means <dataDir>/config.yaml. A missing file is not an error.
func Load(dataDir, path string) (Config, error) {
	cfg := Default(dataDir)
	if path == "" {
		path = filepath.Join(dataDir, FileName)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.CollectionsDir = cfg.resolve(cfg.CollectionsDir, "collections")
	cfg.HistoryDB = cfg.resolve(cfg.HistoryDB, "history.db")
	cfg.LogFile = cfg.resolve(cfg.LogFile, "restui.log")

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) resolve(path, fallback string) string {
	if path == "" {
		return filepath.Join(c.DataDir, fallback)
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	if !filepath.IsAbs(path) {
		return filepath.Join(c.DataDir, path)
	}
	return path
}

// Validate checks values a settings file could get wrong.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative, got %s", c.RequestTimeout)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be at least 1, got %d", c.HistoryLimit)
	}
	return nil
}

// EnsureDirs creates the data and collections directories.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.DataDir, c.CollectionsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}
