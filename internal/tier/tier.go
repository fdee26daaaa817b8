// Package tier implements the speed tier state machine. The player's forward
// speed promotes the run through ordered difficulty tiers; a collision ends
// the run in the terminal GameOver tier.
package tier

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/core"
)

// Tier is a discrete difficulty level keyed to player forward speed.
type Tier int

const (
	GameOver Tier = iota - 1
	Start         // Switching from Start to VeryEasy keeps the start palette
	VeryEasy
	Easy
	Medium
	Hard
	VeryHard
	Extreme
)

// String returns a human-readable name for the tier.
func (t Tier) String() string {
	switch t {
	case GameOver:
		return "GAMEOVER"
	case Start:
		return "START"
	case VeryEasy:
		return "VERY_EASY"
	case Easy:
		return "EASY"
	case Medium:
		return "MEDIUM"
	case Hard:
		return "HARD"
	case VeryHard:
		return "VERY_HARD"
	case Extreme:
		return "EXTREME"
	default:
		return "UNKNOWN"
	}
}

// Ordinal returns the tier as used by obstacle count scaling.
func (t Tier) Ordinal() int {
	return int(t)
}

// Thresholds holds the forward speed that promotes the run into each tier.
type Thresholds struct {
	VeryEasy float64
	Easy     float64
	Medium   float64
	Hard     float64
	VeryHard float64
	Extreme  float64
}

// For returns the threshold of the given tier and whether it has one.
func (th Thresholds) For(t Tier) (float64, bool) {
	switch t {
	case VeryEasy:
		return th.VeryEasy, true
	case Easy:
		return th.Easy, true
	case Medium:
		return th.Medium, true
	case Hard:
		return th.Hard, true
	case VeryHard:
		return th.VeryHard, true
	case Extreme:
		return th.Extreme, true
	default:
		return 0, false
	}
}

// CollisionEvent describes a player/obstacle contact reported by the host.
type CollisionEvent struct {
	Tick     int
	Position mgl64.Vec3
}

// Controller tracks the current tier and the next tier to reach.
//
// Promotion happens only when the speed, rounded to two decimals, lands
// exactly on the next tier's threshold. A speed that steps over a threshold
// within one tick never promotes.
type Controller struct {
	thresholds Thresholds
	current    Tier
	next       Tier
	changed    bool
	logger     *log.Logger
}

// NewController creates a controller in the Start tier.
func NewController(th Thresholds, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Controller{thresholds: th, logger: logger}
	c.Reset()
	return c
}

// Reset returns the controller to Start at the beginning of a run.
func (c *Controller) Reset() {
	c.current = Start
	c.next = VeryEasy
	c.changed = false
}

// Tick evaluates the player's forward speed for this frame.
func (c *Controller) Tick(speed float64) {
	if c.current == GameOver || c.next > Extreme {
		return
	}
	threshold, ok := c.thresholds.For(c.next)
	if !ok {
		return
	}
	if core.Round2(speed) != core.Round2(threshold) {
		return
	}
	c.current = c.next
	c.next++
	c.changed = true
	c.logger.Info("hit speed threshold", "tier", c.current, "speed", threshold)
}

// OnCollision ends the run.
func (c *Controller) OnCollision(ev CollisionEvent) {
	if c.current == GameOver {
		return
	}
	c.logger.Info("collision", "tick", ev.Tick, "z", ev.Position.Z(), "tier", c.current)
	c.current = GameOver
	c.changed = true
}

// Current returns the active tier.
func (c *Controller) Current() Tier {
	return c.current
}

// Next returns the tier the controller is waiting to reach.
func (c *Controller) Next() Tier {
	return c.next
}

// IsGameOver reports whether the run has ended.
func (c *Controller) IsGameOver() bool {
	return c.current == GameOver
}

// Changed reports whether the tier changed since the last Acknowledge.
func (c *Controller) Changed() bool {
	return c.changed
}

// Acknowledge clears the changed flag. The consumer calls this after reacting.
func (c *Controller) Acknowledge() {
	c.changed = false
}
