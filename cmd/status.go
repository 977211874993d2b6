package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/theirongolddev/subwatch/internal/cli"
	"github.com/theirongolddev/subwatch/internal/config"
	"github.com/theirongolddev/subwatch/internal/daemon"
	"github.com/theirongolddev/subwatch/internal/store"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show credentials, snapshot, and daemon health",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println(cli.RenderTitle("SUBWATCH STATUS"))
	fmt.Println()

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Notion]")
	printCredential("Token", config.GetNotionToken(cfg), config.EnvNotionToken)
	printCredential("Database", config.GetNotionDatabaseID(cfg), config.EnvNotionDatabaseID)
	fmt.Println()

	fmt.Println("  [Pushover]")
	printCredential("App token", config.GetPushoverToken(cfg), config.EnvPushoverToken)
	printCredential("User key", config.GetPushoverUser(cfg), config.EnvPushoverUser)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Schedule: %s\n", cfg.Daemon.Schedule)
	fmt.Printf("    Listen:   %s\n", cfg.Daemon.Listen)
	printDaemonProbe(cfg)
	fmt.Println()

	printSnapshot()

	if !config.HasNotionCredentials(cfg) {
		fmt.Println("  Run `subwatch setup` to configure credentials.")
		fmt.Println()
	}

	return nil
}

// printCredential prints a masked credential with its provenance, or
// "not configured" when absent.
func printCredential(label, value, envName string) {
	if value == "" {
		fmt.Printf("    %-12s not configured\n", label+":")
		return
	}
	source := "config"
	if os.Getenv(envName) != "" {
		source = "env"
	}
	fmt.Printf("    %-12s %s (%s)\n", label+":", maskSecret(value), source)
}

func printSnapshot() {
	fmt.Println("  [Snapshot]")

	cache, err := store.Open(store.DefaultPath())
	if err != nil {
		fmt.Printf("    Cache: unavailable (%v)\n\n", err)
		return
	}
	defer func() { _ = cache.Close() }()

	snap, err := cache.LoadLatest()
	if err != nil {
		fmt.Printf("    Cache: unreadable (%v)\n\n", err)
		return
	}
	if snap == nil {
		fmt.Println("    Cache: empty (no fetch recorded yet)")
		fmt.Println()
		return
	}

	age := cli.FormatDuration(int64(time.Since(snap.FetchedAt).Seconds()))
	fmt.Printf("    Rows:    %d\n", len(snap.Subscriptions))
	fmt.Printf("    Fetched: %s (%s ago)\n", snap.FetchedAt.Local().Format("2006-01-02 15:04"), age)
	fmt.Println()
}

func printDaemonProbe(cfg config.Config) {
	pid, err := readPID(defaultPIDFile())
	if err != nil {
		fmt.Println("    Process:  not running")
		return
	}
	if !processAlive(pid) {
		fmt.Printf("    Process:  stale pid file (pid %d not alive)\n", pid)
		return
	}
	fmt.Printf("    Process:  running (pid %d)\n", pid)

	addr := cfg.Daemon.Listen
	if st, err := readState(statePath(defaultPIDFile())); err == nil && st.Addr != "" {
		addr = st.Addr
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("    API:      unreachable (%v)\n", err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("    API:      HTTP %d\n", resp.StatusCode)
		return
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("    API:      malformed response (%v)\n", err)
		return
	}

	fmt.Printf("    Runs:     %d\n", st.RunCount)
	if !st.NextRunAt.IsZero() {
		fmt.Printf("    Next run: %s\n", st.NextRunAt.Local().Format(time.RFC3339))
	}
	if st.LastError != "" {
		fmt.Printf("    Last error: %s\n", st.LastError)
	}
}
