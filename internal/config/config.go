// ABOUTME: timetrack configuration management with backend selection.
// ABOUTME: Handles settings, env overrides, auth secrets, and the storage backend factory.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/timetrack/internal/auth"
	"github.com/harperreed/timetrack/internal/charm"
	"github.com/harperreed/timetrack/internal/storage"
)

// Backend names accepted in config and TIMETRACK_BACKEND.
const (
	BackendCharm  = "charm"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Backends lists every supported storage backend.
var Backends = []string{BackendCharm, BackendBadger, BackendSQLite}

// Config stores timetrack configuration.
type Config struct {
	// Backend selects the storage backend: "charm" (default), "badger", or "sqlite".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for local data.
	// Badger keeps its files in badger/, SQLite uses timetrack.db, accounts live in accounts.db.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/timetrack.
	DataDir string `json:"data_dir,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`

	Auth AuthConfig `json:"auth,omitzero"`
}

// AuthConfig holds identity settings.
type AuthConfig struct {
	// TokenSecret signs session tokens. Generated on first run.
	TokenSecret string `json:"token_secret,omitempty"`
	// TokenTTL is a Go duration string. Defaults to 720h.
	TokenTTL           string `json:"token_ttl,omitempty"`
	GoogleClientID     string `json:"google_client_id,omitempty"`
	GoogleClientSecret string `json:"google_client_secret,omitempty"`
}

// GetTokenTTL parses TokenTTL, falling back to the default on empty or bad input.
func (a AuthConfig) GetTokenTTL() time.Duration {
	if a.TokenTTL == "" {
		return auth.DefaultTokenTTL
	}
	ttl, err := time.ParseDuration(a.TokenTTL)
	if err != nil || ttl <= 0 {
		return auth.DefaultTokenTTL
	}
	return ttl
}

// EnsureTokenSecret generates a signing secret if none is set.
// It reports whether the config changed and needs saving.
func (c *Config) EnsureTokenSecret() (bool, error) {
	if c.Auth.TokenSecret != "" {
		return false, nil
	}
	secret, err := auth.GenerateSecret()
	if err != nil {
		return false, err
	}
	c.Auth.TokenSecret = secret
	return true, nil
}

// GetBackend returns the configured backend, defaulting to "charm".
func (c *Config) GetBackend() string {
	backend := c.Backend
	if backend == "" {
		backend = BackendCharm
	}
	return strings.ToLower(getEnv("TIMETRACK_BACKEND", backend))
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	dir := getEnv("TIMETRACK_DATA_DIR", c.DataDir)
	if dir == "" {
		return storage.DataDir()
	}
	return ExpandPath(dir)
}

// GetLogLevel returns the configured log level, defaulting to warn.
func (c *Config) GetLogLevel() string {
	level := c.LogLevel
	if level == "" {
		level = "warn"
	}
	return getEnv("TIMETRACK_LOG_LEVEL", level)
}

// BadgerDir is the directory of the badger backend.
func (c *Config) BadgerDir() string {
	return filepath.Join(c.GetDataDir(), "badger")
}

// AccountsPath is the SQLite file holding sign-in accounts.
func (c *Config) AccountsPath() string {
	return filepath.Join(c.GetDataDir(), "accounts.db")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage(logger *log.Logger) (storage.Repository, error) {
	return c.OpenBackend(c.GetBackend(), logger)
}

// OpenBackend creates a Repository for the named backend.
func (c *Config) OpenBackend(backend string, logger *log.Logger) (storage.Repository, error) {
	dataDir := c.GetDataDir()

	switch backend {
	case BackendCharm:
		client, err := charm.InitClient(logger)
		if err != nil {
			return nil, err
		}
		return storage.NewKVStore(client), nil
	case BackendBadger:
		backend, err := storage.OpenBadger(c.BadgerDir())
		if err != nil {
			return nil, err
		}
		return storage.NewKVStore(backend), nil
	case BackendSQLite:
		return storage.OpenSQLite(filepath.Join(dataDir, "timetrack.db"))
	default:
		return nil, fmt.Errorf("unknown backend: %q (want one of %s)", backend, strings.Join(Backends, ", "))
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "timetrack", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
