// ABOUTME: Tests for dailylog configuration management.
// ABOUTME: Covers load, save, defaults, env overrides, .env files, and the backend factory.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/dailylog/internal/storage"
)

// isolateEnv points config lookups at a temp dir and clears DAILYLOG_* overrides.
func isolateEnv(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv(EnvBackend, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, "")
	return tmpDir
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != BackendSQLite {
		t.Errorf("GetBackend() = %q, want %q", got, BackendSQLite)
	}
	if got := cfg.GetLogLevel(); got != "info" {
		t.Errorf("GetLogLevel() = %q, want info", got)
	}
	if got := cfg.GetDataDir(); got != storage.DataDir() {
		t.Errorf("GetDataDir() = %q, want %q", got, storage.DataDir())
	}
}

func TestGetBackendIsCaseInsensitive(t *testing.T) {
	cfg := &Config{Backend: "Local"}
	if got := cfg.GetBackend(); got != BackendLocal {
		t.Errorf("GetBackend() = %q, want %q", got, BackendLocal)
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
		{"relative/path", "relative/path"},
		{"~", home},
		{"~/dailylog", filepath.Join(home, "dailylog")},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()
	cfg := &Config{DataDir: "~/logs"}
	if got := cfg.GetDataDir(); got != filepath.Join(home, "logs") {
		t.Errorf("GetDataDir() = %q", got)
	}
}

func TestStoragePath(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{"", "/data/dailylog.db"},
		{BackendSQLite, "/data/dailylog.db"},
		{BackendLocal, "/data/local"},
		{BackendMemory, ""},
	}
	for _, tt := range tests {
		cfg := &Config{Backend: tt.backend, DataDir: "/data"}
		if got := cfg.StoragePath(); got != tt.want {
			t.Errorf("StoragePath(%q) = %q, want %q", tt.backend, got, tt.want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if *cfg != (Config{}) {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := isolateEnv(t)

	cfg := &Config{Backend: BackendLocal, DataDir: "/tmp/dailylog-data", LogLevel: "debug"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "dailylog", "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolateEnv(t)
	if err := (&Config{Backend: BackendSQLite, DataDir: "/from/file"}).Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	t.Setenv(EnvBackend, BackendMemory)
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Backend != BackendMemory {
		t.Errorf("Backend = %q, want memory", cfg.Backend)
	}
	if cfg.DataDir != "/from/file" {
		t.Errorf("DataDir = %q, want the file value", cfg.DataDir)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("DAILYLOG_DATA_DIR=/from/dotenv\n"), 0600); err != nil {
		t.Fatal(err)
	}
	// t.Setenv above registered cleanup, so the value loaded here is restored.
	os.Unsetenv(EnvDataDir)

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DataDir != "/from/dotenv" {
		t.Errorf("DataDir = %q, want /from/dotenv", cfg.DataDir)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := isolateEnv(t)

	configDir := filepath.Join(tmpDir, "dailylog")
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
	tmpDir := isolateEnv(t)
	want := filepath.Join(tmpDir, "dailylog", "config.json")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorageBackends(t *testing.T) {
	for _, backend := range []string{"", BackendSQLite, BackendLocal, BackendMemory} {
		t.Run("backend="+backend, func(t *testing.T) {
			cfg := &Config{Backend: backend, DataDir: t.TempDir()}
			repo, err := cfg.OpenStorage(nil)
			if err != nil {
				t.Fatalf("OpenStorage() failed: %v", err)
			}
			defer repo.Close()

			if p := cfg.StoragePath(); p != "" {
				if _, err := os.Stat(p); err != nil {
					t.Errorf("expected %s to exist: %v", p, err)
				}
			}
		})
	}
}

func TestOpenStorageInvalidBackend(t *testing.T) {
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
