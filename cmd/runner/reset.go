package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/history"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var flagResetAll bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete saved runs",
	Long: `Delete the saved run history and launch counter. The difficulty model
starts over from scratch on the next run.

With --all, the session and run log used by 'runner history' is cleared too.

Examples:
  runner reset
  runner reset --all`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetAll, "all", false, "Also clear sessions and the run log")
}

func runReset(cmd *cobra.Command, args []string) error {
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
	n, err := hist.Count()
	if err != nil {
		return err
	}
	if err := hist.Reset(); err != nil {
		return err
	}

	if flagResetAll {
		if err := store.ClearRuns(); err != nil {
			return err
		}
	}

	fmt.Printf("Deleted %d saved runs.\n", n)
	return nil
}
