// ABOUTME: Tests for care4u configuration management.
// ABOUTME: Covers load, save, defaults, factories, and path expansion.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/care4u/internal/auth"
	"github.com/harperreed/care4u/internal/companion"
	"github.com/harperreed/care4u/internal/models"
	"github.com/harperreed/care4u/internal/storage"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != BackendMemory {
		t.Errorf("GetBackend() = %q, want %q", got, BackendMemory)
	}
	if got := cfg.GetTheme(); got != models.ThemeDark {
		t.Errorf("GetTheme() = %q", got)
	}
	if got := cfg.GetLogLevel(); got != "info" {
		t.Errorf("GetLogLevel() = %q", got)
	}
	if got := cfg.GetProvider(); got != ProviderScripted {
		t.Errorf("GetProvider() = %q", got)
	}
	if got := cfg.GetTimeout(); got != 30*time.Second {
		t.Errorf("GetTimeout() = %v", got)
	}
	if got := cfg.GetAuthMode(); got != AuthOpen {
		t.Errorf("GetAuthMode() = %q", got)
	}
	if cfg.GetDataDir() == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetThemeIgnoresInvalid(t *testing.T) {
	cfg := &Config{Theme: "sepia"}
	if got := cfg.GetTheme(); got != models.ThemeDark {
		t.Errorf("GetTheme() = %q, want dark", got)
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/care4u-test"}
	if got := cfg.GetDataDir(); got != "/tmp/care4u-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/care4u-test")
	}
	if got := cfg.LogPath(); got != "/tmp/care4u-test/care4u.log" {
		t.Errorf("LogPath() = %q", got)
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
		{"~/data/care4u", filepath.Join(home, "data/care4u")},
		{"data/care4u", "data/care4u"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.Backend != "" || cfg.DataDir != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		Backend:   BackendSQLite,
		DataDir:   "/tmp/care4u-data",
		Companion: CompanionConfig{Provider: ProviderOpenAI, Model: "gpt-4o-mini", TimeoutSeconds: 10},
		Auth:      AuthConfig{Mode: AuthLocal},
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded = %+v, want %+v", loaded, cfg)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{Backend: BackendSQLite}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "nonexistent", "care4u")); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "care4u")
	_ = os.MkdirAll(configDir, 0755)
	_ = os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600)

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	want := filepath.Join(tmpDir, "care4u", "config.json")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorage(t *testing.T) {
	tests := []struct {
		backend string
		file    string
	}{
		{BackendMemory, ""},
		{BackendSQLite, "care4u.db"},
		{BackendBadger, "badger"},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			tmpDir := t.TempDir()
			cfg := &Config{Backend: tt.backend, DataDir: tmpDir}

			repo, err := cfg.OpenStorage()
			if err != nil {
				t.Fatalf("OpenStorage() failed: %v", err)
			}
			defer repo.Close()

			if _, err := repo.LoadState(); !errors.Is(err, storage.ErrNoState) {
				t.Errorf("fresh repo LoadState error = %v", err)
			}
			if tt.file != "" {
				if _, err := os.Stat(filepath.Join(tmpDir, tt.file)); os.IsNotExist(err) {
					t.Errorf("Expected %s to be created", tt.file)
				}
			}
		})
	}
}

func TestOpenStorageInvalidBackend(t *testing.T) {
	cfg := &Config{Backend: "invalid", DataDir: "/tmp"}
	if _, err := cfg.OpenStorage(); err == nil {
		t.Error("Expected error for invalid backend")
	}
}

func TestNewResponder(t *testing.T) {
	r, err := (&Config{}).NewResponder()
	if err != nil {
		t.Fatalf("NewResponder() failed: %v", err)
	}
	if _, ok := r.(*companion.Scripted); !ok {
		t.Errorf("default responder = %T, want *companion.Scripted", r)
	}

	t.Setenv(EnvAPIKey, "")
	cfg := &Config{Companion: CompanionConfig{Provider: ProviderOpenAI}}
	if _, err := cfg.NewResponder(); !errors.Is(err, companion.ErrNoAPIKey) {
		t.Errorf("openai without key: error = %v", err)
	}

	t.Setenv(EnvAPIKey, "sk-test")
	r, err = cfg.NewResponder()
	if err != nil {
		t.Fatalf("openai with key failed: %v", err)
	}
	if _, ok := r.(*companion.Client); !ok {
		t.Errorf("responder = %T, want *companion.Client", r)
	}
}

func TestNewAuthenticator(t *testing.T) {
	a, err := (&Config{}).NewAuthenticator()
	if err != nil {
		t.Fatalf("NewAuthenticator() failed: %v", err)
	}
	if _, ok := a.(*auth.Open); !ok {
		t.Errorf("default authenticator = %T", a)
	}

	t.Setenv(EnvAuthSecret, "")
	dir := t.TempDir()
	cfg := &Config{DataDir: dir, Auth: AuthConfig{Mode: AuthLocal}}
	if got := cfg.CredentialsPath(); got != filepath.Join(dir, "credentials.json") {
		t.Errorf("CredentialsPath() = %s", got)
	}
	if _, err := cfg.NewAuthenticator(); err == nil {
		t.Error("local auth without secret should fail")
	}
	t.Setenv(EnvAuthSecret, "s3cret")
	if _, err := cfg.NewAuthenticator(); err != nil {
		t.Errorf("local auth with secret failed: %v", err)
	}
}

func TestSet(t *testing.T) {
	cfg := &Config{}
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"backend", "badger", false},
		{"backend", "postgres", true},
		{"theme", "light", false},
		{"log_level", "debug", false},
		{"companion.provider", "openai", false},
		{"companion.timeout_seconds", "15", false},
		{"companion.timeout_seconds", "soon", true},
		{"companion.disable_stream", "true", false},
		{"auth.mode", "local", false},
		{"auth.mode", "oauth", true},
		{"colour", "blue", true},
	}
	for _, tt := range tests {
		err := cfg.Set(tt.key, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
		}
	}

	if cfg.Backend != "badger" || cfg.Theme != "light" || cfg.Companion.TimeoutSeconds != 15 || !cfg.Companion.DisableStream || cfg.Auth.Mode != "local" {
		t.Errorf("config after Set = %+v", cfg)
	}
	if err := cfg.Set("colour", "blue"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("error = %v, want ErrUnknownKey", err)
	}
	if len(Keys()) != len(setters) {
		t.Error("Keys() incomplete")
	}
}

func TestLoadSeed(t *testing.T) {
	seed, err := (&Config{}).LoadSeed()
	if err != nil {
		t.Fatalf("LoadSeed() failed: %v", err)
	}
	if len(seed.Companions) != 4 {
		t.Errorf("companions = %d", len(seed.Companions))
	}

	path := filepath.Join(t.TempDir(), "seed.yaml")
	_ = os.WriteFile(path, []byte("medications:\n  - id: x1\n    name: Vitamin D\n    dosage: 1 pill\n    time: \"09:00 AM\"\n    time_slot: Morning\n"), 0600)
	seed, err = (&Config{SeedFile: path}).LoadSeed()
	if err != nil {
		t.Fatalf("LoadSeed(file) failed: %v", err)
	}
	if len(seed.Medications) != 1 || seed.Medications[0].Name != "Vitamin D" {
		t.Errorf("medications = %+v", seed.Medications)
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
