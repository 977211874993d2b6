// Package config loads and saves subwatch configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Environment variables checked before the config file. The names
// match the original serverless deployment of this job, so existing
// setups keep working without a config file.
const (
	EnvNotionToken      = "NOTION_SUBSCRIPTION_TOKEN"
	EnvNotionDatabaseID = "NOTION_SUBSCRIPTION_DB_ID"
	EnvPushoverToken    = "PUSHOVER_SUBSCRIPTION_TOKEN"
	EnvPushoverUser     = "PUSHOVER_USER"
)

// Config holds all subwatch configuration.
type Config struct {
	Notion     NotionConfig     `toml:"notion"`
	Pushover   PushoverConfig   `toml:"pushover"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// NotionConfig holds data-source credentials.
type NotionConfig struct {
	Token      string `toml:"token,omitempty"`
	DatabaseID string `toml:"database_id,omitempty"`
}

// PushoverConfig holds push delivery credentials.
type PushoverConfig struct {
	Token   string `toml:"token,omitempty"`
	UserKey string `toml:"user_key,omitempty"`
}

// DaemonConfig holds periodic-run settings.
type DaemonConfig struct {
	Schedule  string `toml:"schedule"`
	Listen    string `toml:"listen"`
	LogFormat string `toml:"log_format"`
	LogLevel  string `toml:"log_level"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Daemon: DaemonConfig{
			Schedule:  "0 9 * * *",
			Listen:    "127.0.0.1:7980",
			LogFormat: "console",
			LogLevel:  "info",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "subwatch")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "subwatch")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetNotionToken returns the Notion token from env var or config, in that order.
func GetNotionToken(cfg Config) string {
	if v := os.Getenv(EnvNotionToken); v != "" {
		return v
	}
	return cfg.Notion.Token
}

// GetNotionDatabaseID returns the database id from env var or config, in that order.
func GetNotionDatabaseID(cfg Config) string {
	if v := os.Getenv(EnvNotionDatabaseID); v != "" {
		return v
	}
	return cfg.Notion.DatabaseID
}

// GetPushoverToken returns the Pushover application token from env var
// or config, in that order.
func GetPushoverToken(cfg Config) string {
	if v := os.Getenv(EnvPushoverToken); v != "" {
		return v
	}
	return cfg.Pushover.Token
}

// GetPushoverUser returns the Pushover user key from env var or config,
// in that order.
func GetPushoverUser(cfg Config) string {
	if v := os.Getenv(EnvPushoverUser); v != "" {
		return v
	}
	return cfg.Pushover.UserKey
}

// HasNotionCredentials reports whether a fetch can be attempted.
func HasNotionCredentials(cfg Config) bool {
	return GetNotionToken(cfg) != "" && GetNotionDatabaseID(cfg) != ""
}

// HasPushoverCredentials reports whether dispatch is possible. Missing
// credentials disable sending, never rendering.
func HasPushoverCredentials(cfg Config) bool {
	return GetPushoverToken(cfg) != "" && GetPushoverUser(cfg) != ""
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
