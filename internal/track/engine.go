// Package track generates the endless track. The Engine keeps a frontier
// ahead of the player, spawns ever longer ground segments with obstacles
// while the frontier is inside the render distance, and despawns segments
// once the player has left them behind.
package track

import (
	"errors"
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/catalog"
	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/mapper"
	"github.com/vovakirdan/tui-runner/internal/tier"
)

// Deps are the collaborators the engine drives.
type Deps struct {
	Spawner Spawner
	Query   SpatialQuery
	Player  PlayerState
	Tiers   TierSource
	Catalog *catalog.Catalog
	Density DensitySource // Optional; nil means density 1
}

// Stats counts generation work over the engine's lifetime.
type Stats struct {
	SegmentsSpawned   int
	LiveSegments      int
	SegmentsPruned    int
	ObstaclesTargeted int
	ObstaclesPlaced   int
	SlotsAbandoned    int
}

// Engine is the track generator.
type Engine struct {
	track     config.TrackConfig
	obstacles config.ObstacleConfig
	deps      Deps
	rng       *rand.Rand
	logger    *log.Logger

	registry    *Registry
	frontier    mgl64.Vec3 // Center of the newest segment
	groundScale mgl64.Vec3
	wallScale   mgl64.Vec3
	groundColor core.RGBA
	wallColor   core.RGBA
	originalLen float64
	ordinal     int
	started     bool
	stats       Stats
}

// New creates an engine. All dependencies except Density are required.
func New(cfg config.RunnerConfig, deps Deps, rng *rand.Rand, logger *log.Logger) (*Engine, error) {
	if deps.Spawner == nil || deps.Query == nil || deps.Player == nil || deps.Tiers == nil {
		return nil, errors.New("track: spawner, spatial query, player and tier source are required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("track: obstacle catalog is required")
	}
	if rng == nil {
		return nil, errors.New("track: rng is required")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := &Engine{
		track:     cfg.Track,
		obstacles: cfg.Obstacles,
		deps:      deps,
		rng:       rng,
		logger:    logger,
		registry:  NewRegistry(32),
	}
	e.resetScale()
	e.applyPalette(tier.Start)
	return e, nil
}

func (e *Engine) resetScale() {
	e.groundScale = e.track.GroundScale.Vec()
	e.wallScale = e.track.WallScale.Vec()
	e.wallScale[2] = e.groundScale.Z()
	e.originalLen = e.groundScale.Z()
}

// Start spawns the starting segment under the player.
func (e *Engine) Start(playerPos mgl64.Vec3) {
	e.resetScale()
	e.applyPalette(tier.Start)
	e.frontier = playerPos.Add(mgl64.Vec3{0, -e.track.GroundOffset, e.originalLen / 2})

	seg := e.newSegment()
	seg.Starting = true
	seg.Handle = e.deps.Spawner.SpawnSegment(seg)
	e.registry.Append(Entry{Segment: seg})
	e.stats.SegmentsSpawned++
	e.stats.LiveSegments++
	e.started = true

	e.logger.Debug("spawned starting segment", "z", seg.Position.Z(), "length", seg.GroundScale.Z())
}

// Tick advances generation by one step: react to tier changes, grow the
// track if the frontier is inside the render distance, then prune.
func (e *Engine) Tick() {
	if !e.started {
		return
	}

	if e.deps.Tiers.Changed() {
		t := e.deps.Tiers.Current()
		if e.applyPalette(t) {
			e.logger.Info("switched palette", "tier", t, "ground", e.groundColor.Hex(), "wall", e.wallColor.Hex())
		}
		e.deps.Tiers.Acknowledge()
	}

	playerZ := e.deps.Player.PositionAlongAxis()
	if e.frontier.Z() < playerZ+e.track.RenderDistance {
		e.grow()
	}

	keepBehind := 0.0
	if e.track.KeepOccupiedSegment {
		keepBehind = e.groundScale.Z()
	}
	pruned := e.registry.PruneFront(playerZ-keepBehind, e.deps.Spawner)
	if pruned > 0 {
		e.stats.SegmentsPruned += pruned
		e.stats.LiveSegments -= pruned
		e.logger.Debug("pruned segments", "count", pruned, "live", e.stats.LiveSegments)
	}
}

// grow lengthens the segment template, moves the frontier and spawns the
// next segment with its obstacles.
func (e *Engine) grow() {
	speed := e.deps.Player.ForwardSpeed()
	inc := mapper.RandomFloat(e.rng, speed/2, speed)

	prevHalf := e.groundScale.Z() / 2
	e.groundScale[2] += inc
	e.wallScale[2] = e.groundScale.Z()
	e.frontier = e.frontier.Add(core.AxisForward.Mul(prevHalf + e.groundScale.Z()/2))

	seg := e.newSegment()
	seg.Handle = e.deps.Spawner.SpawnSegment(seg)
	obstacles := e.PlaceObstacles(seg)
	e.registry.Append(Entry{Segment: seg, Obstacles: obstacles})
	e.stats.SegmentsSpawned++
	e.stats.LiveSegments++

	e.logger.Debug("spawned segment",
		"ordinal", seg.Ordinal,
		"z", core.Round2(seg.Position.Z()),
		"length", core.Round2(seg.GroundScale.Z()),
		"obstacles", len(obstacles),
	)
}

func (e *Engine) newSegment() Segment {
	seg := Segment{
		Ordinal:     e.ordinal,
		Position:    e.frontier,
		Rotation:    mgl64.QuatIdent(),
		GroundScale: e.groundScale,
		WallScale:   e.wallScale,
		GroundColor: e.groundColor,
		WallColor:   e.wallColor,
	}
	e.ordinal++
	return seg
}

// applyPalette switches segment colors for a tier. Tiers without a palette
// keep the current colors and return false.
func (e *Engine) applyPalette(t tier.Tier) bool {
	p, ok := e.track.Palettes[t.String()]
	if !ok {
		return false
	}
	e.groundColor = core.NewRGBA(p.Ground.R, p.Ground.G, p.Ground.B)
	e.wallColor = core.NewRGBA(p.Wall.R, p.Wall.G, p.Wall.B)
	return true
}

func (e *Engine) density() float64 {
	if e.deps.Density == nil {
		return 1
	}
	return e.deps.Density.ObstacleDensity()
}

// PlaceObstacles fills a spawned segment with a random number of obstacles
// and returns their handles. Slots that cannot be placed within the attempt
// cap stay empty.
func (e *Engine) PlaceObstacles(seg Segment) []ObstacleHandle {
	oc := e.obstacles
	maxCount := mapper.ObstacleMaxCount(oc.Baseline, seg.GroundScale.Z(), e.originalLen,
		e.density(), e.deps.Tiers.Current().Ordinal())
	lo, hi := mapper.NarrowRange(oc.MinCount, maxCount, oc.NarrowFactor, oc.MinSpanToNarrow)
	target := mapper.RandomInt(e.rng, lo, hi)
	e.stats.ObstaclesTargeted += target

	kinds := e.deps.Spawner.CatalogSize()
	if kinds == 0 || target <= 0 {
		return nil
	}

	handles := make([]ObstacleHandle, 0, target)
	for slot := 0; slot < target; slot++ {
		o, ok := e.findSpot(seg, kinds)
		if !ok {
			e.stats.SlotsAbandoned++
			continue
		}
		o.Handle = e.deps.Spawner.SpawnObstacle(o)
		handles = append(handles, o.Handle)
		e.logger.Debug("placed obstacle",
			"kind", o.Kind,
			"x", core.Round2(o.Position.X()),
			"z", core.Round2(o.Position.Z()),
			"yaw", core.Round2(core.YawDegrees(o.Rotation)),
		)
	}
	e.stats.ObstaclesPlaced += len(handles)

	if abandoned := target - len(handles); abandoned > 0 {
		e.logger.Debug("segment partially filled", "ordinal", seg.Ordinal, "target", target, "placed", len(handles))
	}
	return handles
}

// findSpot draws candidates until one passes both probes or the attempt cap
// is reached.
func (e *Engine) findSpot(seg Segment, kinds int) (Obstacle, bool) {
	oc := e.obstacles
	halfWidth := math.Max(0, seg.GroundScale.X()/2-oc.WallClearance)
	halfLen := seg.HalfLength()
	groundTop := seg.GroundTop()
	rerollHalf := oc.RerollHalfExtents.Vec()
	overlapHalf := oc.OverlapHalfExtents.Vec()

	for attempt := 0; attempt < oc.AttemptCap; attempt++ {
		idx := mapper.RandomInt(e.rng, 0, kinds)
		kind, err := e.deps.Catalog.Kind(idx)
		if err != nil {
			continue
		}

		x := mapper.RandomFloat(e.rng, seg.Position.X()-halfWidth, seg.Position.X()+halfWidth)
		z := mapper.RandomFloat(e.rng, seg.Position.Z()-halfLen, seg.Position.Z()+halfLen)
		rot := mapper.RandomYaw(e.rng)

		if e.probe(x, z, groundTop, rerollHalf) > 0 && !e.proceedAnyway() {
			continue
		}

		// The strict probe always covers the candidate's own footprint.
		footprint := core.RotatedBox(mgl64.Vec3{}, kind.HalfExtents, rot).HalfExtents()
		strictHalf := mgl64.Vec3{
			math.Max(overlapHalf.X(), footprint.X()),
			math.Max(overlapHalf.Y(), footprint.Y()),
			math.Max(overlapHalf.Z(), footprint.Z()),
		}
		if e.probe(x, z, groundTop, strictHalf) > 0 {
			continue
		}

		return Obstacle{
			Position: mgl64.Vec3{x, groundTop + kind.HalfExtents.Y(), z},
			Rotation: rot,
			Kind:     idx,
			Color:    kind.Color,
			Segment:  seg.Handle,
		}, true
	}
	return Obstacle{}, false
}

// probe counts obstacles overlapping a box resting on the ground at (x, z).
func (e *Engine) probe(x, z, groundTop float64, half mgl64.Vec3) int {
	center := mgl64.Vec3{x, groundTop + half.Y(), z}
	return e.deps.Query.OverlapBox(center, half, mgl64.QuatIdent(), LayerObstacle)
}

// proceedAnyway rolls the 1 in N chance of keeping a crowded candidate.
func (e *Engine) proceedAnyway() bool {
	n := e.obstacles.RerollChance
	if n <= 1 {
		return true
	}
	return e.rng.Intn(n) == 0
}

// Registry returns the live segment registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// LiveObstacles returns the number of obstacles owned by live segments.
func (e *Engine) LiveObstacles() int {
	n := 0
	e.registry.Each(func(entry Entry) bool {
		n += len(entry.Obstacles)
		return true
	})
	return n
}

// Frontier returns the center of the newest segment.
func (e *Engine) Frontier() mgl64.Vec3 {
	return e.frontier
}

// GroundLength returns the current segment length.
func (e *Engine) GroundLength() float64 {
	return e.groundScale.Z()
}

// Colors returns the current ground and wall colors.
func (e *Engine) Colors() (ground, wall core.RGBA) {
	return e.groundColor, e.wallColor
}

// Stats returns generation counters.
func (e *Engine) Stats() Stats {
	return e.stats
}
