package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points the config dir at a fresh temp dir and blanks the
// credential env vars so host state cannot leak in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, env := range []string{EnvNotionToken, EnvNotionDatabaseID, EnvPushoverToken, EnvPushoverUser} {
		t.Setenv(env, "")
	}
	return dir
}

func TestLoad_NoFileReturnsDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Daemon.Schedule != "0 9 * * *" {
		t.Errorf("Schedule = %q, want default cron", cfg.Daemon.Schedule)
	}
	if cfg.Daemon.Listen != "127.0.0.1:7980" {
		t.Errorf("Listen = %q", cfg.Daemon.Listen)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Errorf("Theme = %q", cfg.Appearance.Theme)
	}
	if Exists() {
		t.Error("Exists() = true with no file on disk")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.Notion.Token = "secret_abc"
	cfg.Notion.DatabaseID = "db-123"
	cfg.Pushover.Token = "app-tok"
	cfg.Pushover.UserKey = "user-key"
	cfg.Daemon.Schedule = "6h"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded != cfg {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", loaded, cfg)
	}

	info, err := os.Stat(ConfigPath())
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config perms = %o, want 600", perm)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.Notion.Token = "file-tok"
	cfg.Pushover.UserKey = "file-user"

	if got := GetNotionToken(cfg); got != "file-tok" {
		t.Errorf("GetNotionToken = %q, want file value without env", got)
	}

	t.Setenv(EnvNotionToken, "env-tok")
	t.Setenv(EnvPushoverUser, "env-user")

	if got := GetNotionToken(cfg); got != "env-tok" {
		t.Errorf("GetNotionToken = %q, want env to win", got)
	}
	if got := GetPushoverUser(cfg); got != "env-user" {
		t.Errorf("GetPushoverUser = %q, want env to win", got)
	}
}

func TestHasCredentials(t *testing.T) {
	isolate(t)

	var cfg Config
	if HasNotionCredentials(cfg) {
		t.Error("HasNotionCredentials = true for empty config")
	}
	if HasPushoverCredentials(cfg) {
		t.Error("HasPushoverCredentials = true for empty config")
	}

	cfg.Pushover.Token = "tok"
	if HasPushoverCredentials(cfg) {
		t.Error("HasPushoverCredentials = true with only the token")
	}

	cfg.Pushover.UserKey = "user"
	if !HasPushoverCredentials(cfg) {
		t.Error("HasPushoverCredentials = false with both values")
	}

	t.Setenv(EnvNotionToken, "tok")
	t.Setenv(EnvNotionDatabaseID, "db")
	if !HasNotionCredentials(cfg) {
		t.Error("HasNotionCredentials = false with env pair set")
	}
}

func TestConfigPathUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	want := filepath.Join(dir, "subwatch", "config.toml")
	if got := ConfigPath(); got != want {
		t.Errorf("ConfigPath = %q, want %q", got, want)
	}
}
