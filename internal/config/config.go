// ABOUTME: Care4U configuration management with backend selection.
// ABOUTME: Handles settings, secrets from env, and the storage/companion/auth factories.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/care4u/internal/auth"
	"github.com/harperreed/care4u/internal/charm"
	"github.com/harperreed/care4u/internal/companion"
	"github.com/harperreed/care4u/internal/models"
	"github.com/harperreed/care4u/internal/storage"
)

const (
	// EnvAPIKey holds the companion API key.
	EnvAPIKey = "CARE4U_API_KEY"
	// EnvAuthSecret holds the JWT signing secret for local auth.
	EnvAuthSecret = "CARE4U_AUTH_SECRET"

	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"

	ProviderScripted = "scripted"
	ProviderOpenAI   = "openai"

	AuthOpen  = "open"
	AuthLocal = "local"
)

// ErrUnknownKey is returned by Set for keys it does not manage.
var ErrUnknownKey = errors.New("unknown config key")

// CompanionConfig selects and tunes the companion responder.
type CompanionConfig struct {
	// Provider is "scripted" (default, offline) or "openai".
	Provider string `json:"provider,omitempty"`
	// BaseURL of an OpenAI-compatible API. Defaults to api.openai.com.
	BaseURL string `json:"base_url,omitempty"`
	Model   string `json:"model,omitempty"`
	// TimeoutSeconds bounds each reply. Defaults to 30.
	TimeoutSeconds int  `json:"timeout_seconds,omitempty"`
	DisableStream  bool `json:"disable_stream,omitempty"`
}

// AuthConfig selects the authenticator.
type AuthConfig struct {
	// Mode is "open" (default, accepts everything) or "local".
	Mode string `json:"mode,omitempty"`
}

// Config stores care4u configuration.
type Config struct {
	// Backend selects the storage backend: "memory" (default), "sqlite", "badger" or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage and the TUI log file.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/care4u.
	DataDir string `json:"data_dir,omitempty"`

	// Theme is the starting theme for a fresh session: "dark" (default) or "light".
	Theme string `json:"theme,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `json:"log_level,omitempty"`

	// SeedFile optionally replaces the built-in companions, medications and history.
	SeedFile string `json:"seed_file,omitempty"`

	Companion CompanionConfig `json:"companion,omitzero"`
	Auth      AuthConfig      `json:"auth,omitzero"`
}

// GetBackend returns the configured backend, defaulting to "memory".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendMemory
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetTheme returns the configured theme, defaulting to dark.
func (c *Config) GetTheme() models.Theme {
	if models.IsValidTheme(c.Theme) {
		return models.Theme(c.Theme)
	}
	return models.ThemeDark
}

// GetLogLevel returns the configured log level, defaulting to info.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// GetProvider returns the companion provider, defaulting to scripted.
func (c *Config) GetProvider() string {
	if c.Companion.Provider == "" {
		return ProviderScripted
	}
	return c.Companion.Provider
}

// GetTimeout returns the companion timeout.
func (c *Config) GetTimeout() time.Duration {
	if c.Companion.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Companion.TimeoutSeconds) * time.Second
}

// GetAuthMode returns the auth mode, defaulting to open.
func (c *Config) GetAuthMode() string {
	if c.Auth.Mode == "" {
		return AuthOpen
	}
	return c.Auth.Mode
}

// LogPath is where the TUI writes its log.
func (c *Config) LogPath() string {
	return filepath.Join(c.GetDataDir(), "care4u.log")
}

// SQLitePath is the database file used by the sqlite backend.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.GetDataDir(), "care4u.db")
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
func (c *Config) OpenStorage() (storage.Repository, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case BackendMemory:
		return storage.NewMemoryStore(), nil
	case BackendSQLite:
		db, err := storage.Open(c.SQLitePath())
		if err != nil {
			return nil, err
		}
		return db, nil
	case BackendBadger:
		b, err := storage.OpenBadger(filepath.Join(dataDir, "badger"))
		if err != nil {
			return nil, err
		}
		return b, nil
	case BackendCharm:
		client, err := charm.InitClient()
		if err != nil {
			return nil, fmt.Errorf("open charm kv: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// NewResponder builds the configured companion responder.
func (c *Config) NewResponder() (companion.Responder, error) {
	switch c.GetProvider() {
	case ProviderScripted:
		return companion.NewScripted(40 * time.Millisecond), nil
	case ProviderOpenAI:
		client, err := companion.NewClient(companion.Config{
			BaseURL: c.Companion.BaseURL,
			APIKey:  os.Getenv(EnvAPIKey),
			Model:   c.Companion.Model,
			Timeout: c.GetTimeout(),
			Stream:  !c.Companion.DisableStream,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown companion provider: %q", c.Companion.Provider)
	}
}

// CredentialsPath returns where local auth keeps password hashes.
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.GetDataDir(), "credentials.json")
}

// NewAuthenticator builds the configured authenticator.
func (c *Config) NewAuthenticator() (auth.Authenticator, error) {
	switch c.GetAuthMode() {
	case AuthOpen:
		return auth.NewOpen(), nil
	case AuthLocal:
		l, err := auth.NewLocal(os.Getenv(EnvAuthSecret), 0, auth.WithCredentialsFile(c.CredentialsPath()))
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown auth mode: %q", c.Auth.Mode)
	}
}

// LoadSeed returns the seed file contents or the built-in seed.
func (c *Config) LoadSeed() (*models.Seed, error) {
	if c.SeedFile == "" {
		return models.DefaultSeed(), nil
	}
	return models.LoadSeedFile(ExpandPath(c.SeedFile))
}

// setters maps dotted keys to validating assignments.
var setters = map[string]func(c *Config, v string) error{
	"backend": func(c *Config, v string) error {
		return oneOf(&c.Backend, v, BackendMemory, BackendSQLite, BackendBadger, BackendCharm)
	},
	"data_dir":  func(c *Config, v string) error { c.DataDir = v; return nil },
	"seed_file": func(c *Config, v string) error { c.SeedFile = v; return nil },
	"theme": func(c *Config, v string) error {
		return oneOf(&c.Theme, v, string(models.ThemeDark), string(models.ThemeLight))
	},
	"log_level": func(c *Config, v string) error {
		return oneOf(&c.LogLevel, v, "debug", "info", "warn", "error")
	},
	"companion.provider": func(c *Config, v string) error {
		return oneOf(&c.Companion.Provider, v, ProviderScripted, ProviderOpenAI)
	},
	"companion.base_url": func(c *Config, v string) error { c.Companion.BaseURL = v; return nil },
	"companion.model":    func(c *Config, v string) error { c.Companion.Model = v; return nil },
	"companion.timeout_seconds": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("timeout_seconds must be a non-negative integer: %q", v)
		}
		c.Companion.TimeoutSeconds = n
		return nil
	},
	"companion.disable_stream": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("disable_stream must be true or false: %q", v)
		}
		c.Companion.DisableStream = b
		return nil
	},
	"auth.mode": func(c *Config, v string) error {
		return oneOf(&c.Auth.Mode, v, AuthOpen, AuthLocal)
	},
}

func oneOf(dst *string, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("invalid value %q (expected one of %s)", v, strings.Join(allowed, ", "))
}

// Set assigns a value by dotted key, validating enums.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("%s: %w", key, ErrUnknownKey)
	}
	return set(c, strings.TrimSpace(value))
}

// Keys lists the keys accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "care4u", "config.json")
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
		return nil, err
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
