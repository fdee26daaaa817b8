package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/dda"
	"github.com/vovakirdan/tui-runner/internal/history"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show saved runs and the difficulty state",
	Long: `Display the most recent saved runs, the longest runs on record and the
difficulty the next run would be played at.

Examples:
  runner history
  runner history --limit 50`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of recent runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open runner database: %w", err)
	}
	defer store.Close()

	hist := history.NewStore(store, cfg.History, nil)
	records, err := hist.LoadAll()
	if err != nil {
		return fmt.Errorf("cannot read history: %w", err)
	}
	launches, err := hist.LaunchCount()
	if err != nil {
		return fmt.Errorf("cannot read history: %w", err)
	}

	fmt.Println(titleStyle.Render("Run History"))
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'runner simulate' to play the first run!")
		return nil
	}

	start := 0
	if flagLimit > 0 {
		start = core.Clamp(len(records)-flagLimit, 0, len(records))
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("  %-5s  %10s  %6s  %-12s  %-9s  %6s",
		"#", "Distance", "Deaths", "Skill", "Type", "Launch")))
	for i := start; i < len(records); i++ {
		r := records[i]
		fmt.Printf("  %-5d  %10.2f  %6d  %-12s  %-9s  %6d\n",
			i+1, r.Distance, r.DeathCount, r.Skill, r.Type, r.LaunchCount)
	}
	fmt.Println()

	if top, err := store.TopRuns(5); err == nil && len(top) > 0 {
		fmt.Println(titleStyle.Render("Longest Runs"))
		fmt.Println()
		for i, e := range top {
			fmt.Printf("  %-4d  %10.2f  %-10s  %s\n", i+1, e.Distance, e.PeakTier, e.CreatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Println()
	}

	if stats, err := store.GetRunStats(); err == nil && stats.Runs > 0 {
		fmt.Printf("  Runs: %d  Best: %.2f  Average: %.2f  Last played: %s\n",
			stats.Runs, stats.BestDistance, stats.AvgDistance, stats.LastPlayed.Format("2006-01-02 15:04"))
		fmt.Println()
	}

	// Difficulty the next run starts at
	model := dda.New(cfg.DDA, nil)
	model.SetLaunchCount(launches)
	model.RecomputeFromHistory(records)
	printState(model.Snapshot())
	return nil
}
