package cmd

import (
	"fmt"

	"github.com/theirongolddev/subwatch/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Notion]")
	printCredential("Token", config.GetNotionToken(cfg), config.EnvNotionToken)
	printCredential("Database ID", config.GetNotionDatabaseID(cfg), config.EnvNotionDatabaseID)
	fmt.Println()

	fmt.Println("  [Pushover]")
	printCredential("Token", config.GetPushoverToken(cfg), config.EnvPushoverToken)
	printCredential("User key", config.GetPushoverUser(cfg), config.EnvPushoverUser)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Schedule:   %s\n", cfg.Daemon.Schedule)
	fmt.Printf("    Listen:     %s\n", cfg.Daemon.Listen)
	fmt.Printf("    Log format: %s\n", cfg.Daemon.LogFormat)
	fmt.Printf("    Log level:  %s\n", cfg.Daemon.LogLevel)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `subwatch setup` to reconfigure.")
	return nil
}
