package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/subwatch/internal/config"
	"github.com/theirongolddev/subwatch/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	if err := tui.RunSetup(); err != nil {
		if errors.Is(err, tui.ErrSetupCancelled) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `subwatch notify` to send your first reminder,")
	fmt.Println("  or `subwatch setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
