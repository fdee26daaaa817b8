// Package sim drives headless runs. A Session wires the world, the track
// generator, the tier controller and a bot player together and ticks them
// at a fixed rate until the player crashes. A Runner adds the run history
// and difficulty model around each session.
package sim

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/catalog"
	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/tier"
	"github.com/vovakirdan/tui-runner/internal/track"
	"github.com/vovakirdan/tui-runner/internal/world"
)

// botSeedSalt separates the bot's random stream from track generation.
const botSeedSalt = 0x5eed

// EndReason explains why a run stopped.
type EndReason int

const (
	EndReasonCollision EndReason = iota // Player hit an obstacle
	EndReasonMaxTicks                   // Tick limit reached
	EndReasonCancelled                  // Context cancelled
)

func (r EndReason) String() string {
	switch r {
	case EndReasonCollision:
		return "collision"
	case EndReasonMaxTicks:
		return "max_ticks"
	case EndReasonCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Modifiers are the difficulty factors applied to a session.
type Modifiers struct {
	Speed   float64
	Density track.DensitySource
}

// RunResult is the outcome of one session.
type RunResult struct {
	Distance  float64
	Ticks     int
	FinalTier tier.Tier
	PeakTier  tier.Tier
	Speed     float64
	Reason    EndReason
	Stats     track.Stats
	Dodged    int
	Ignored   int
}

// Session is one run from spawn to crash.
type Session struct {
	cfg    config.RunnerConfig
	rt     core.RuntimeConfig
	logger *log.Logger

	world  *world.World
	engine *track.Engine
	tiers  *tier.Controller
	player *Player
}

// NewSession builds a session for the given seed and modifiers.
func NewSession(cfg config.RunnerConfig, rt core.RuntimeConfig, cat *catalog.Catalog, mods Modifiers, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	w := world.New(cat, logger)
	th := cfg.Tiers
	tiers := tier.NewController(tier.Thresholds{
		VeryEasy: th.VeryEasy,
		Easy:     th.Easy,
		Medium:   th.Medium,
		Hard:     th.Hard,
		VeryHard: th.VeryHard,
		Extreme:  th.Extreme,
	}, logger)

	player := NewPlayer(cfg.Player, w, rand.New(rand.NewSource(rt.Seed^botSeedSalt)), mods.Speed)

	engine, err := track.New(cfg, track.Deps{
		Spawner: w,
		Query:   w,
		Player:  player,
		Tiers:   tiers,
		Catalog: cat,
		Density: mods.Density,
	}, rand.New(rand.NewSource(rt.Seed)), logger)
	if err != nil {
		return nil, fmt.Errorf("sim: cannot create track: %w", err)
	}

	return &Session{
		cfg:    cfg,
		rt:     rt,
		logger: logger,
		world:  w,
		engine: engine,
		tiers:  tiers,
		player: player,
	}, nil
}

// Run ticks the session until the player crashes, the tick limit is reached
// or ctx is cancelled. A cancelled run returns ctx.Err() with the partial
// result.
func (s *Session) Run(ctx context.Context) (RunResult, error) {
	dt := s.rt.DeltaTime()
	spawnZ := s.player.PositionAlongAxis()
	maxTicks := s.cfg.Simulation.MaxTicks

	s.tiers.Reset()
	s.engine.Start(s.player.Position())

	var res RunResult
	for {
		if err := ctx.Err(); err != nil {
			res.Reason = EndReasonCancelled
			return s.finish(res, spawnZ), err
		}
		if maxTicks > 0 && res.Ticks >= maxTicks {
			res.Reason = EndReasonMaxTicks
			return s.finish(res, spawnZ), nil
		}

		s.tiers.Tick(s.player.ForwardSpeed())
		if cur := s.tiers.Current(); cur > res.PeakTier {
			res.PeakTier = cur
		}
		s.engine.Tick()

		s.player.Step(dt)
		res.Ticks++

		if hit, ok := s.player.Collision(); ok {
			s.tiers.OnCollision(tier.CollisionEvent{Tick: res.Ticks, Position: hit.Obstacle.Position})
			res.Reason = EndReasonCollision
			return s.finish(res, spawnZ), nil
		}
	}
}

func (s *Session) finish(res RunResult, spawnZ float64) RunResult {
	res.Distance = s.player.PositionAlongAxis() - spawnZ
	res.FinalTier = s.tiers.Current()
	res.Speed = s.player.ForwardSpeed()
	res.Stats = s.engine.Stats()
	res.Dodged, res.Ignored = s.player.Dodges()

	s.logger.Info("run finished",
		"reason", res.Reason,
		"distance", core.Round2(res.Distance),
		"ticks", res.Ticks,
		"tier", res.FinalTier,
		"peak", res.PeakTier,
		"live_obstacles", s.engine.LiveObstacles(),
	)
	return res
}

// World returns the session's world.
func (s *Session) World() *world.World {
	return s.world
}

// Engine returns the session's track generator.
func (s *Session) Engine() *track.Engine {
	return s.engine
}
