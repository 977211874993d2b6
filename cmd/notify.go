package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/theirongolddev/subwatch/internal/config"
	"github.com/theirongolddev/subwatch/internal/notify"

	"github.com/spf13/cobra"
)

var (
	flagNotifyDryRun bool
	flagNotifyJSON   bool
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Run one reminder cycle: fetch, filter, print, push",
	RunE:  runNotify,
}

func init() {
	notifyCmd.Flags().BoolVar(&flagNotifyDryRun, "dry-run", false, "Render reminder blocks without pushing")
	notifyCmd.Flags().BoolVar(&flagNotifyJSON, "json", false, "Emit the run result as JSON")
	rootCmd.AddCommand(notifyCmd)
}

func runNotify(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	log := buildLogger(cfg)

	client, err := newNotionClient(cfg)
	if err != nil {
		return err
	}

	var pusher notify.Pusher
	if !flagNotifyDryRun {
		pusher = newPusher(cfg)
	}

	fetcher, closeCache := openFetcher(client, log)
	defer closeCache()

	out := io.Writer(os.Stdout)
	if flagNotifyJSON {
		out = io.Discard
	}
	runner := notify.NewRunner(fetcher, pusher, out, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, runErr := runner.Run(ctx)
	if res == nil {
		return runErr
	}

	if flagNotifyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
		return runErr
	}

	switch {
	case len(res.Blocks) == 0:
		fmt.Println("  Nothing due within the reminder window.")
	case flagNotifyDryRun:
		fmt.Printf("\n  Dry run: %d blocks rendered, nothing pushed.\n", len(res.Blocks))
	case res.SendSkipped:
		fmt.Println("\n  Push skipped: no Pushover credentials configured.")
	default:
		fmt.Printf("\n  Sent %d of %d blocks.\n", res.Sent, len(res.Blocks))
	}

	return runErr
}
