package sim

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/catalog"
	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/dda"
	"github.com/vovakirdan/tui-runner/internal/history"
)

// Summary is the outcome of one run together with what was saved for it.
type Summary struct {
	Result RunResult
	Record dda.RunRecord
	Before dda.State // Difficulty the run was played at
}

// Runner plays consecutive runs, adjusting difficulty from the saved
// history before each one and saving a record after it.
type Runner struct {
	cfg     config.RunnerConfig
	cat     *catalog.Catalog
	history *history.Store
	model   *dda.Model
	logger  *log.Logger
}

// NewRunner creates a runner over a history store.
func NewRunner(cfg config.RunnerConfig, store *history.Store, logger *log.Logger) (*Runner, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cat, err := catalog.New(cfg.Obstacles.Catalog)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:     cfg,
		cat:     cat,
		history: store,
		model:   dda.New(cfg.DDA, logger.WithPrefix("dda")),
		logger:  logger,
	}, nil
}

// Launch counts a new launch of the game.
func (r *Runner) Launch() (int, error) {
	n, err := r.history.RecordLaunch()
	if err != nil {
		return 0, err
	}
	r.model.SetLaunchCount(n)
	return n, nil
}

// Run plays one run with the given seed. Cancelled runs are not saved.
func (r *Runner) Run(ctx context.Context, seed int64) (Summary, error) {
	records, err := r.history.LoadAll()
	if err != nil {
		return Summary{}, err
	}
	r.model.RecomputeFromHistory(records)
	before := r.model.Snapshot()

	rt := core.DefaultConfig()
	if r.cfg.Simulation.TickRate > 0 {
		rt.TickRate = r.cfg.Simulation.TickRate
	}
	rt.Seed = seed
	session, err := NewSession(r.cfg, rt, r.cat, Modifiers{
		Speed:   r.model.SpeedModifier(),
		Density: r.model,
	}, r.logger.WithPrefix("track"))
	if err != nil {
		return Summary{}, err
	}

	res, err := session.Run(ctx)
	if err != nil {
		return Summary{Result: res, Before: before}, err
	}

	rec := r.model.NewRecord(res.Distance, res.Reason == EndReasonCollision)
	if err := r.history.Append(rec); err != nil {
		return Summary{Result: res, Record: rec, Before: before}, fmt.Errorf("sim: cannot save run: %w", err)
	}

	return Summary{Result: res, Record: rec, Before: before}, nil
}

// State returns the difficulty model's current state.
func (r *Runner) State() dda.State {
	return r.model.Snapshot()
}
