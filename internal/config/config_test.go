// ABOUTME: Tests for timetrack configuration management.
// ABOUTME: Covers load, save, defaults, env overrides, backend selection, and path expansion.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/timetrack/internal/auth"
)

// isolate points config and env lookups away from the real user environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("TIMETRACK_BACKEND", "")
	t.Setenv("TIMETRACK_DATA_DIR", "")
	t.Setenv("TIMETRACK_LOG_LEVEL", "")
	return dir
}

func TestGetBackendDefault(t *testing.T) {
	isolate(t)
	cfg := &Config{}
	if got := cfg.GetBackend(); got != "charm" {
		t.Errorf("GetBackend() = %q, want %q", got, "charm")
	}
}

func TestGetBackendExplicit(t *testing.T) {
	isolate(t)
	cfg := &Config{Backend: "badger"}
	if got := cfg.GetBackend(); got != "badger" {
		t.Errorf("GetBackend() = %q, want %q", got, "badger")
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("TIMETRACK_BACKEND", "SQLite")
	t.Setenv("TIMETRACK_DATA_DIR", "/tmp/timetrack-env")
	t.Setenv("TIMETRACK_LOG_LEVEL", "debug")

	cfg := &Config{Backend: "badger", DataDir: "/tmp/timetrack-file", LogLevel: "error"}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("GetBackend() = %q, want sqlite", got)
	}
	if got := cfg.GetDataDir(); got != "/tmp/timetrack-env" {
		t.Errorf("GetDataDir() = %q, want /tmp/timetrack-env", got)
	}
	if got := cfg.GetLogLevel(); got != "debug" {
		t.Errorf("GetLogLevel() = %q, want debug", got)
	}
}

func TestGetLogLevelDefault(t *testing.T) {
	isolate(t)
	if got := (&Config{}).GetLogLevel(); got != "warn" {
		t.Errorf("GetLogLevel() = %q, want warn", got)
	}
}

func TestGetDataDirDefault(t *testing.T) {
	isolate(t)
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	if got := (&Config{}).GetDataDir(); got != "/tmp/xdg-data/timetrack" {
		t.Errorf("GetDataDir() = %q, want /tmp/xdg-data/timetrack", got)
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	isolate(t)
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/timetrack-data"}
	want := filepath.Join(home, "timetrack-data")
	if got := cfg.GetDataDir(); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/timetrack", filepath.Join(home, "data/timetrack")},
		{"data/timetrack", "data/timetrack"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGetTokenTTL(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", auth.DefaultTokenTTL},
		{"24h", 24 * time.Hour},
		{"nonsense", auth.DefaultTokenTTL},
		{"-1h", auth.DefaultTokenTTL},
	}

	for _, tt := range tests {
		if got := (AuthConfig{TokenTTL: tt.in}).GetTokenTTL(); got != tt.want {
			t.Errorf("GetTokenTTL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEnsureTokenSecret(t *testing.T) {
	cfg := &Config{}

	changed, err := cfg.EnsureTokenSecret()
	if err != nil || !changed {
		t.Fatalf("EnsureTokenSecret() = %v, %v; want true, nil", changed, err)
	}
	secret := cfg.Auth.TokenSecret
	if secret == "" {
		t.Fatal("expected a generated secret")
	}

	changed, err = cfg.EnsureTokenSecret()
	if err != nil || changed || cfg.Auth.TokenSecret != secret {
		t.Errorf("second call should keep the secret, got changed=%v err=%v", changed, err)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.Backend != "" || cfg.DataDir != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := &Config{
		Backend:  "sqlite",
		DataDir:  "/tmp/timetrack-data",
		LogLevel: "info",
		Auth: AuthConfig{
			TokenSecret:    "s3cret",
			TokenTTL:       "48h",
			GoogleClientID: "client.apps.googleusercontent.com",
		},
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	info, err := os.Stat(GetConfigPath())
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := isolate(t)

	configDir := filepath.Join(dir, "timetrack")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	dir := isolate(t)

	want := filepath.Join(dir, "timetrack", "config.json")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorageLocalBackends(t *testing.T) {
	tests := []struct {
		backend string
		created string
	}{
		{"sqlite", "timetrack.db"},
		{"badger", "badger"},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			isolate(t)
			dir := t.TempDir()
			cfg := &Config{Backend: tt.backend, DataDir: dir}

			repo, err := cfg.OpenStorage(nil)
			if err != nil {
				t.Fatalf("OpenStorage() failed: %v", err)
			}
			defer repo.Close()

			if _, err := os.Stat(filepath.Join(dir, tt.created)); os.IsNotExist(err) {
				t.Errorf("expected %s to be created", tt.created)
			}
		})
	}
}

func TestOpenStorageInvalidBackend(t *testing.T) {
	isolate(t)
	cfg := &Config{Backend: "invalid", DataDir: t.TempDir()}

	if _, err := cfg.OpenStorage(nil); err == nil {
		t.Error("Expected error for invalid backend")
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}
