package sim

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/track"
	"github.com/vovakirdan/tui-runner/internal/world"
)

// laneStep is the spacing of candidate X positions the bot considers.
const laneStep = 0.5

// Surroundings is what the player can sense of the world.
type Surroundings interface {
	FirstHit(box core.Box) (world.Hit, bool)
	OverlapBox(center, halfExtents mgl64.Vec3, rotation mgl64.Quat, mask track.LayerMask) int
	SegmentAt(z float64) (track.Segment, bool)
	Obstacle(h track.ObstacleHandle) (track.Obstacle, bool)
}

// Player is a kinematic runner steered by a simple bot. It accelerates
// forward on its own and sidesteps obstacles it notices in time.
type Player struct {
	cfg      config.PlayerConfig
	world    Surroundings
	rng      *rand.Rand
	speedMod float64

	pos     mgl64.Vec3
	speed   float64
	targetX float64
	rolled  map[track.ObstacleHandle]bool // Dodge decision per threat
	dodges  int
	misses  int
}

// NewPlayer creates a player at the configured spawn point.
// speedMod scales forward acceleration.
func NewPlayer(cfg config.PlayerConfig, w Surroundings, rng *rand.Rand, speedMod float64) *Player {
	if speedMod <= 0 {
		speedMod = 1
	}
	spawn := cfg.Spawn.Vec()
	return &Player{
		cfg:      cfg,
		world:    w,
		rng:      rng,
		speedMod: speedMod,
		pos:      spawn,
		speed:    cfg.StartSpeed,
		targetX:  spawn.X(),
		rolled:   make(map[track.ObstacleHandle]bool),
	}
}

// PositionAlongAxis returns the player's Z coordinate.
func (p *Player) PositionAlongAxis() float64 {
	return p.pos.Z()
}

// ForwardSpeed returns the current forward speed.
func (p *Player) ForwardSpeed() float64 {
	return p.speed
}

// Position returns the player's center.
func (p *Player) Position() mgl64.Vec3 {
	return p.pos
}

// Box returns the player's collision box.
func (p *Player) Box() core.Box {
	return core.NewBox(p.pos, p.cfg.HalfExtents.Vec())
}

// Step advances the player by dt seconds.
func (p *Player) Step(dt float64) {
	p.steer()

	dx := p.targetX - p.pos.X()
	maxMove := p.cfg.LateralSpeed * dt
	p.pos[0] += core.ClampF(dx, -maxMove, maxMove)

	p.speed = math.Min(p.cfg.MaxSpeed, p.speed+p.cfg.Acceleration*dt*p.speedMod)
	p.pos[2] += p.speed * dt
}

// Collision returns the obstacle the player is touching, if any.
func (p *Player) Collision() (world.Hit, bool) {
	return p.world.FirstHit(p.Box())
}

// steer looks ahead for an obstacle in the current corridor and picks a
// free lane if the bot decides to dodge it.
func (p *Player) steer() {
	p.forgetPassed()

	hit, ok := p.world.FirstHit(p.corridor(p.pos.X()))
	if !ok {
		return
	}
	dodge, seen := p.rolled[hit.Handle]
	if !seen {
		dodge = p.rng.Float64() < p.cfg.BotSkill
		p.rolled[hit.Handle] = dodge
		if dodge {
			p.dodges++
		} else {
			p.misses++
		}
	}
	if !dodge {
		return
	}
	if x, ok := p.freeLane(); ok {
		p.targetX = x
	}
}

// corridor is the box swept by the player at lane x over the look-ahead.
func (p *Player) corridor(x float64) core.Box {
	half := p.cfg.HalfExtents.Vec()
	reach := p.speed*p.cfg.LookAhead + half.Z()
	center := mgl64.Vec3{x, p.pos.Y(), p.pos.Z() + reach/2}
	return core.NewBox(center, mgl64.Vec3{half.X(), half.Y(), reach/2 + half.Z()})
}

// freeLane returns the nearest lane whose corridor is clear.
func (p *Player) freeLane() (float64, bool) {
	seg, ok := p.world.SegmentAt(p.pos.Z())
	if !ok {
		return 0, false
	}
	limit := seg.GroundScale.X()/2 - p.cfg.HalfExtents.X
	lanes := int(2 * limit / laneStep)

	for i := 1; i <= 2*lanes; i++ {
		offset := float64((i+1)/2) * laneStep
		if i%2 == 0 {
			offset = -offset
		}
		x := p.pos.X() + offset
		if math.Abs(x-seg.Position.X()) > limit {
			continue
		}
		box := p.corridor(x)
		if p.world.OverlapBox(box.Center(), box.HalfExtents(), mgl64.QuatIdent(), track.LayerObstacle) == 0 {
			return x, true
		}
	}
	return 0, false
}

// forgetPassed drops decisions about obstacles that are gone or behind.
func (p *Player) forgetPassed() {
	for h := range p.rolled {
		o, ok := p.world.Obstacle(h)
		if !ok || o.Position.Z() < p.pos.Z()-p.cfg.LookAhead*p.speed {
			delete(p.rolled, h)
		}
	}
}

// Dodges returns how many threats the bot chose to dodge and ignore.
func (p *Player) Dodges() (dodged, ignored int) {
	return p.dodges, p.misses
}
