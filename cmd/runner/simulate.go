package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/history"
	"github.com/vovakirdan/tui-runner/internal/sim"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var (
	flagRuns       int
	flagBotSkill   float64
	flagMaxTicks   int
	flagDifficulty string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play runs with the bot",
	Long: `Generate tracks and let the bot play them. Every finished run is saved
to the history, and the difficulty of the next run is derived from it.

Difficulty options:
  easy   - Slower acceleration, shorter render distance, sharper bot
  normal - Configured values
  hard   - Faster acceleration, more obstacles per segment
  fixed  - No dynamic difficulty adjustment

Examples:
  runner simulate
  runner simulate --runs 20 --seed 7
  runner simulate --bot-skill 0.5 --difficulty hard
  runner simulate --max-ticks 3600 --log-level debug`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagRuns, "runs", 1, "Number of runs to play")
	simulateCmd.Flags().Float64Var(&flagBotSkill, "bot-skill", -1, "Chance the bot dodges an obstacle (-1 = from config)")
	simulateCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", -1, "Tick limit per run (-1 = from config, 0 = unlimited)")
	simulateCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if flagDifficulty != "" {
		preset := config.ParsePreset(flagDifficulty)
		if preset == "" {
			return fmt.Errorf("unknown difficulty %q (valid presets: easy, normal, hard, fixed)", flagDifficulty)
		}
		config.ApplyRunnerPreset(&cfg, preset)
	}
	if flagBotSkill >= 0 {
		cfg.Player.BotSkill = flagBotSkill
	}
	if flagMaxTicks >= 0 {
		cfg.Simulation.MaxTicks = flagMaxTicks
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger()
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	// Open storage
	var prefs history.Prefs
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runner database, history will not be kept", "error", err)
		// Continue without storage
		store = nil
		prefs = history.NewMemoryPrefs()
	} else {
		defer store.Close()
		prefs = store
	}

	hist := history.NewStore(prefs, cfg.History, logger.WithPrefix("history"))
	runner, err := sim.NewRunner(cfg, hist, logger)
	if err != nil {
		return err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sessionID := ""
	if store != nil {
		if sessionID, err = store.StartSession(seed); err != nil {
			logger.Warn("could not record session", "error", err)
		}
	}

	launches, err := runner.Launch()
	if err != nil {
		return err
	}
	logger.Info("session started", "session", sessionID, "seed", seed, "launch", launches)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summaries := make([]sim.Summary, 0, flagRuns)
	for i := 0; i < flagRuns; i++ {
		sum, err := runner.Run(ctx, seed+int64(i))
		if errors.Is(err, context.Canceled) {
			logger.Warn("interrupted, run not saved", "run", i+1)
			break
		}
		if err != nil {
			return err
		}
		summaries = append(summaries, sum)
		saveRun(store, sessionID, sum, logger)
	}

	printSummaries(summaries)
	printState(runner.State())
	return nil
}

// saveRun records a finished run in the runs table. Failures are logged.
func saveRun(store *storage.Store, sessionID string, sum sim.Summary, logger *log.Logger) {
	if store == nil {
		return
	}
	_, err := store.SaveRun(storage.RunEntry{
		SessionID: sessionID,
		Distance:  sum.Record.Distance,
		Ticks:     sum.Result.Ticks,
		PeakTier:  sum.Result.PeakTier.String(),
		EndReason: sum.Result.Reason.String(),
	})
	if err != nil {
		logger.Warn("could not save run", "error", err)
	}
}
