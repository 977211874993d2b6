package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/theirongolddev/subwatch/internal/cli"
	"github.com/theirongolddev/subwatch/internal/config"
	"github.com/theirongolddev/subwatch/internal/model"
	"github.com/theirongolddev/subwatch/internal/pipeline"
	"github.com/theirongolddev/subwatch/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagListCached bool
	flagListActive bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show tracked subscriptions",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&flagListCached, "cached", false, "Use the last snapshot instead of fetching")
	listCmd.Flags().BoolVar(&flagListActive, "active", false, "Only show Active subscriptions")
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	log := buildLogger(cfg)

	var (
		subs      []model.Subscription
		fetchedAt time.Time
	)

	if flagListCached {
		cache, err := store.Open(store.DefaultPath())
		if err != nil {
			return fmt.Errorf("opening snapshot cache: %w", err)
		}
		defer func() { _ = cache.Close() }()

		snap, err := cache.LoadLatest()
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		if snap == nil {
			fmt.Println("\n  No cached snapshot yet. Run `subwatch list` without --cached first.")
			return nil
		}
		subs = snap.Subscriptions
		fetchedAt = snap.FetchedAt
	} else {
		client, err := newNotionClient(cfg)
		if err != nil {
			return err
		}
		fetcher, closeCache := openFetcher(client, log)
		defer closeCache()

		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Fetching subscriptions...\n")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		subs, err = fetcher.FetchSubscriptions(ctx)
		if err != nil {
			return err
		}
		fetchedAt = time.Now()
	}

	if flagListActive {
		subs = pipeline.FilterActive(subs)
	}

	if len(subs) == 0 {
		fmt.Println("\n  No subscriptions found.")
		return nil
	}

	// Soonest renewal first; unknown countdowns go last.
	rows := make([]model.Subscription, len(subs))
	copy(rows, subs)
	sort.SliceStable(rows, func(i, j int) bool {
		di, dj := rows[i].DateRemaining, rows[j].DateRemaining
		if (di == nil) != (dj == nil) {
			return dj == nil
		}
		if di == nil {
			return false
		}
		return *di < *dj
	})

	fmt.Println()
	fmt.Println(cli.RenderTitle("SUBSCRIPTIONS"))
	fmt.Println()

	tableRows := make([][]string, 0, len(rows))
	for _, s := range rows {
		dday := ""
		if s.DateRemaining != nil {
			dday = cli.StyleDays(s.DateRemaining).Render(cli.FormatDDay(*s.DateRemaining))
		}
		tableRows = append(tableRows, []string{
			cli.Truncate(s.DisplayName(), 28),
			s.Cost(),
			dday,
			s.StatusLabel(),
			s.RenewalDate(),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Service", "Cost", "D-Day", "Status", "Renews"},
		Rows:    tableRows,
	}))

	ov := pipeline.Summarize(subs)
	fmt.Printf("  %d subscriptions, %d active", ov.Subscriptions, ov.Active)
	if ov.CostKnown > 0 {
		fmt.Printf(", %s/mo across %d priced", cli.FormatWon(ov.MonthlyCost), ov.CostKnown)
	}
	fmt.Println()

	if flagListCached {
		age := cli.FormatDuration(int64(time.Since(fetchedAt).Seconds()))
		fmt.Printf("  Snapshot from %s (%s ago)\n", fetchedAt.Local().Format("2006-01-02 15:04"), age)
	}
	fmt.Println()

	return nil
}
