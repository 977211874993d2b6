// Package cmd implements the subwatch CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/subwatch/internal/config"
	"github.com/theirongolddev/subwatch/internal/logx"
	"github.com/theirongolddev/subwatch/internal/notify"
	"github.com/theirongolddev/subwatch/internal/notion"
	"github.com/theirongolddev/subwatch/internal/pushover"
	"github.com/theirongolddev/subwatch/internal/store"

	"github.com/spf13/cobra"
)

var flagQuiet bool

var rootCmd = &cobra.Command{
	Use:   "subwatch",
	Short: "Subscription renewal reminders from your Notion tracker",
	Long:  "Watch a Notion subscription database and get Pushover reminders before services bill you.",
	RunE:  runList,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// buildLogger builds the CLI logger from config. --quiet raises the
// threshold to errors only.
func buildLogger(cfg config.Config) logx.Logger {
	level := cfg.Daemon.LogLevel
	if flagQuiet {
		level = "error"
	}
	if cfg.Daemon.LogFormat == "json" {
		return logx.NewJSON(os.Stderr, level)
	}
	return logx.NewConsole(os.Stderr, level)
}

// newNotionClient returns the configured tracker client, printing
// setup instructions when credentials are missing.
func newNotionClient(cfg config.Config) (*notion.Client, error) {
	client := notion.NewClient(config.GetNotionToken(cfg), config.GetNotionDatabaseID(cfg))
	if client != nil {
		return client, nil
	}

	fmt.Println()
	fmt.Println("  Notion credentials not configured.")
	fmt.Println()
	fmt.Println("  Either export them:")
	fmt.Printf("    %s=secret_...\n", config.EnvNotionToken)
	fmt.Printf("    %s=<database id>\n", config.EnvNotionDatabaseID)
	fmt.Println()
	fmt.Println("  Or run `subwatch setup` to store them in config.toml.")
	fmt.Println()
	return nil, errors.New("notion credentials not configured")
}

// newPusher returns the configured Pusher, or a plain nil interface
// when Pushover credentials are missing so callers can test for it.
func newPusher(cfg config.Config) notify.Pusher {
	if pc := pushover.NewClient(config.GetPushoverToken(cfg), config.GetPushoverUser(cfg)); pc != nil {
		return pc
	}
	return nil
}

// openFetcher wraps the tracker client with the snapshot cache so
// successful fetches refresh it. Cache trouble degrades to a direct
// fetcher. The returned func closes the cache.
func openFetcher(client *notion.Client, log logx.Logger) (notify.Fetcher, func()) {
	cache, err := store.Open(store.DefaultPath())
	if err != nil {
		log.Warn("snapshot cache unavailable", logx.Err(err))
		return client, func() {}
	}
	return store.NewCachingFetcher(client, cache, log), func() { _ = cache.Close() }
}

func maskSecret(s string) string {
	if len(s) > 16 {
		return s[:8] + "..." + s[len(s)-4:]
	}
	if len(s) > 4 {
		return s[:4] + "..."
	}
	return "****"
}
