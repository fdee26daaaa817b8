package track

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/catalog"
	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/tier"
)

// fakeWorld is a minimal spawner and spatial query over obstacle boxes.
type fakeWorld struct {
	cat       *catalog.Catalog
	next      uint64
	segments  map[SegmentHandle]Segment
	obstacles map[ObstacleHandle]core.Box
	placed    []mgl64.Vec3
	despawned []SegmentHandle
	overlaps  int // Obstacles spawned on top of another
	alwaysHit bool
}

func newFakeWorld(t *testing.T) *fakeWorld {
	t.Helper()
	cat, err := catalog.New(config.DefaultRunnerConfig().Obstacles.Catalog)
	if err != nil {
		t.Fatalf("catalog.New() failed: %v", err)
	}
	return &fakeWorld{
		cat:       cat,
		segments:  make(map[SegmentHandle]Segment),
		obstacles: make(map[ObstacleHandle]core.Box),
	}
}

func (w *fakeWorld) SpawnSegment(s Segment) SegmentHandle {
	w.next++
	h := SegmentHandle(w.next)
	w.segments[h] = s
	return h
}

func (w *fakeWorld) SpawnObstacle(o Obstacle) ObstacleHandle {
	kind, _ := w.cat.Kind(o.Kind)
	box := core.RotatedBox(o.Position, kind.HalfExtents, o.Rotation)
	for _, other := range w.obstacles {
		if box.Intersects(other) {
			w.overlaps++
		}
	}
	w.next++
	h := ObstacleHandle(w.next)
	w.obstacles[h] = box
	w.placed = append(w.placed, o.Position)
	return h
}

func (w *fakeWorld) Despawn(seg SegmentHandle, obstacles []ObstacleHandle) {
	delete(w.segments, seg)
	for _, h := range obstacles {
		delete(w.obstacles, h)
	}
	w.despawned = append(w.despawned, seg)
}

func (w *fakeWorld) CatalogSize() int {
	return w.cat.Size()
}

func (w *fakeWorld) OverlapBox(center, halfExtents mgl64.Vec3, rotation mgl64.Quat, mask LayerMask) int {
	if w.alwaysHit {
		return 1
	}
	if mask&LayerObstacle == 0 {
		return 0
	}
	probe := core.RotatedBox(center, halfExtents, rotation)
	n := 0
	for _, b := range w.obstacles {
		if probe.Intersects(b) {
			n++
		}
	}
	return n
}

type fakePlayer struct {
	z, speed float64
}

func (p *fakePlayer) PositionAlongAxis() float64 { return p.z }
func (p *fakePlayer) ForwardSpeed() float64      { return p.speed }

type fixedDensity float64

func (d fixedDensity) ObstacleDensity() float64 { return float64(d) }

type harness struct {
	engine *Engine
	world  *fakeWorld
	player *fakePlayer
	tiers  *tier.Controller
}

func newHarness(t *testing.T, seed int64, density float64) *harness {
	t.Helper()
	cfg := config.DefaultRunnerConfig()
	w := newFakeWorld(t)
	p := &fakePlayer{speed: 10}
	tiers := tier.NewController(tier.Thresholds{
		VeryEasy: 8, Easy: 12, Medium: 16, Hard: 20, VeryHard: 24, Extreme: 28,
	}, nil)

	e, err := New(cfg, Deps{
		Spawner: w,
		Query:   w,
		Player:  p,
		Tiers:   tiers,
		Catalog: w.cat,
		Density: fixedDensity(density),
	}, rand.New(rand.NewSource(seed)), nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	e.Start(cfg.Player.Spawn.Vec())
	return &harness{engine: e, world: w, player: p, tiers: tiers}
}

// run advances the player at its speed for n ticks of 1/60 s.
func (h *harness) run(n int) {
	for i := 0; i < n; i++ {
		h.player.z += h.player.speed / 60
		h.engine.Tick()
	}
}

func TestNewRequiresDeps(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	if _, err := New(cfg, Deps{}, rand.New(rand.NewSource(1)), nil); err == nil {
		t.Error("expected error for missing dependencies")
	}
}

func TestStartSpawnsStartingSegment(t *testing.T) {
	h := newHarness(t, 1, 1)

	if h.engine.Registry().Len() != 1 {
		t.Fatalf("registry has %d entries, expected 1", h.engine.Registry().Len())
	}
	front, _ := h.engine.Registry().Front()
	seg := front.Segment

	want := mgl64.Vec3{0, 0, 15}
	if !seg.Position.ApproxEqual(want) {
		t.Errorf("starting position = %v, expected %v", seg.Position, want)
	}
	if !seg.Starting {
		t.Error("first segment should be marked as starting")
	}
	if len(front.Obstacles) != 0 {
		t.Errorf("starting segment has %d obstacles", len(front.Obstacles))
	}
	if seg.GroundColor != core.NewRGBA(0, 255, 10) {
		t.Errorf("starting ground color = %s", seg.GroundColor.Hex())
	}
}

func TestSegmentsAreContiguousAndOrdered(t *testing.T) {
	h := newHarness(t, 7, 1)
	h.run(3000)

	reg := h.engine.Registry()
	if reg.Len() < 2 {
		t.Fatalf("expected several live segments, got %d", reg.Len())
	}
	for i := 1; i < reg.Len(); i++ {
		prev, cur := reg.At(i-1).Segment, reg.At(i).Segment
		if cur.Ordinal <= prev.Ordinal {
			t.Errorf("ordinal %d follows %d", cur.Ordinal, prev.Ordinal)
		}
		if cur.Position.Z()-prev.Position.Z() < prev.HalfLength() {
			t.Errorf("segment %d at %v is closer than half a length to %v", cur.Ordinal, cur.Position.Z(), prev.Position.Z())
		}
		if math.Abs(cur.TrailingEdge()-prev.LeadingEdge()) > 1e-6 {
			t.Errorf("gap between segments %d and %d: %v", prev.Ordinal, cur.Ordinal, cur.TrailingEdge()-prev.LeadingEdge())
		}
		if cur.GroundScale.Z() < prev.GroundScale.Z() {
			t.Errorf("segment %d is shorter than its predecessor", cur.Ordinal)
		}
		if cur.WallScale.Z() != cur.GroundScale.Z() {
			t.Errorf("wall length %v does not track ground length %v", cur.WallScale.Z(), cur.GroundScale.Z())
		}
	}
}

func TestFrontierStaysAheadOfPlayer(t *testing.T) {
	h := newHarness(t, 3, 1)
	h.run(60)

	for i := 0; i < 3000; i++ {
		h.run(1)
		back, _ := h.engine.Registry().Back()
		if back.Segment.LeadingEdge() < h.player.z {
			t.Fatalf("track ends at %v behind player at %v", back.Segment.LeadingEdge(), h.player.z)
		}
	}
}

func TestPruneRemovesOnlySegmentsBehind(t *testing.T) {
	h := newHarness(t, 11, 1)
	h.run(6000)

	stats := h.engine.Stats()
	if stats.SegmentsPruned == 0 {
		t.Fatal("expected segments to be pruned")
	}
	if stats.LiveSegments != h.engine.Registry().Len() {
		t.Errorf("live counter %d != registry length %d", stats.LiveSegments, h.engine.Registry().Len())
	}
	if stats.SegmentsSpawned-stats.SegmentsPruned != stats.LiveSegments {
		t.Errorf("spawned %d - pruned %d != live %d", stats.SegmentsSpawned, stats.SegmentsPruned, stats.LiveSegments)
	}

	// The segment under the player is kept.
	front, _ := h.engine.Registry().Front()
	if front.Segment.TrailingEdge() > h.player.z {
		t.Errorf("ground under the player at %v was pruned, front starts at %v", h.player.z, front.Segment.TrailingEdge())
	}

	// Pruned segments are despawned oldest first.
	for i := 1; i < len(h.world.despawned); i++ {
		if h.world.despawned[i] <= h.world.despawned[i-1] {
			t.Errorf("despawn order %v", h.world.despawned)
			break
		}
	}
	if len(h.world.segments) != h.engine.Registry().Len() {
		t.Errorf("world holds %d segments, registry %d", len(h.world.segments), h.engine.Registry().Len())
	}
}

func TestObstaclesDoNotOverlap(t *testing.T) {
	h := newHarness(t, 5, 2)
	h.run(4000)

	if h.engine.Stats().ObstaclesPlaced == 0 {
		t.Fatal("expected obstacles to be placed")
	}
	if h.world.overlaps != 0 {
		t.Errorf("%d obstacles were placed overlapping another", h.world.overlaps)
	}
}

func TestObstaclesStayInsideWalls(t *testing.T) {
	h := newHarness(t, 9, 2)
	h.run(2000)

	limit := 10.0/2 - 1.5
	for _, p := range h.world.placed {
		if math.Abs(p.X()) > limit {
			t.Errorf("obstacle at x=%v outside clearance %v", p.X(), limit)
		}
	}
}

func TestPlacementExhaustionLeavesSegmentEmpty(t *testing.T) {
	h := newHarness(t, 2, 1)
	h.world.alwaysHit = true
	h.run(600)

	stats := h.engine.Stats()
	if stats.SegmentsSpawned < 3 {
		t.Fatalf("engine stopped spawning: %+v", stats)
	}
	if stats.ObstaclesPlaced != 0 {
		t.Errorf("placed %d obstacles with every probe rejected", stats.ObstaclesPlaced)
	}
	if stats.SlotsAbandoned != stats.ObstaclesTargeted {
		t.Errorf("abandoned %d slots, targeted %d", stats.SlotsAbandoned, stats.ObstaclesTargeted)
	}

	// Still ticking normally afterwards.
	h.world.alwaysHit = false
	before := stats.SegmentsSpawned
	h.run(1200)
	if h.engine.Stats().SegmentsSpawned <= before {
		t.Error("engine did not keep spawning after exhausted placements")
	}
}

func TestGenerationIsDeterministic(t *testing.T) {
	a := newHarness(t, 42, 2)
	b := newHarness(t, 42, 2)
	a.run(2000)
	b.run(2000)

	if len(a.world.placed) != len(b.world.placed) {
		t.Fatalf("placed %d vs %d obstacles", len(a.world.placed), len(b.world.placed))
	}
	for i := range a.world.placed {
		if a.world.placed[i] != b.world.placed[i] {
			t.Fatalf("obstacle %d differs: %v vs %v", i, a.world.placed[i], b.world.placed[i])
		}
	}
	if a.engine.Frontier() != b.engine.Frontier() {
		t.Errorf("frontier differs: %v vs %v", a.engine.Frontier(), b.engine.Frontier())
	}
}

func TestTierChangeSwitchesPalette(t *testing.T) {
	h := newHarness(t, 1, 1)
	start, _ := h.engine.Colors()

	// VERY_EASY has no palette of its own.
	h.tiers.Tick(8)
	h.engine.Tick()
	if g, _ := h.engine.Colors(); g != start {
		t.Errorf("VERY_EASY changed ground color to %s", g.Hex())
	}
	if h.tiers.Changed() {
		t.Error("engine did not acknowledge the tier change")
	}

	h.tiers.Tick(12)
	h.engine.Tick()
	ground, wall := h.engine.Colors()
	if ground != core.NewRGBA(0, 255, 250) || wall != core.NewRGBA(10, 125, 120) {
		t.Errorf("EASY colors = %s/%s", ground.Hex(), wall.Hex())
	}
}

func TestHigherDensityPlacesMoreObstacles(t *testing.T) {
	low := newHarness(t, 8, 0.5)
	high := newHarness(t, 8, 4)
	low.run(3000)
	high.run(3000)

	if high.engine.Stats().ObstaclesTargeted <= low.engine.Stats().ObstaclesTargeted {
		t.Errorf("density 4 targeted %d obstacles, density 0.5 targeted %d",
			high.engine.Stats().ObstaclesTargeted, low.engine.Stats().ObstaclesTargeted)
	}
}

// crowdedQuery reports a neighbour for the wide reroll-sized box and a free
// spot for anything smaller.
type crowdedQuery struct {
	rerollX float64
	reroll  int
	strict  int
}

func (q *crowdedQuery) OverlapBox(center, halfExtents mgl64.Vec3, rotation mgl64.Quat, mask LayerMask) int {
	if halfExtents.X() >= q.rerollX {
		q.reroll++
		return 1
	}
	q.strict++
	return 0
}

func TestCrowdedCandidatesProceedOneInN(t *testing.T) {
	tests := []struct {
		name     string
		chance   int
		min, max float64 // Accepted strict/reroll ratio
	}{
		{"one in five", 5, 0.15, 0.25},
		{"one in one always proceeds", 1, 1, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultRunnerConfig()
			cfg.Obstacles.RerollChance = tc.chance
			w := newFakeWorld(t)
			q := &crowdedQuery{rerollX: cfg.Obstacles.RerollHalfExtents.X}
			tiers := tier.NewController(tier.Thresholds{
				VeryEasy: 8, Easy: 12, Medium: 16, Hard: 20, VeryHard: 24, Extreme: 28,
			}, nil)

			e, err := New(cfg, Deps{
				Spawner: w,
				Query:   q,
				Player:  &fakePlayer{speed: 10},
				Tiers:   tiers,
				Catalog: w.cat,
			}, rand.New(rand.NewSource(9)), nil)
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}

			for i := 0; i < 200; i++ {
				seg := Segment{
					Position:    mgl64.Vec3{0, -1.5, float64(i) * 60},
					GroundScale: mgl64.Vec3{10, 1, 60},
				}
				seg.Handle = w.SpawnSegment(seg)
				e.PlaceObstacles(seg)
			}

			stats := e.Stats()
			if stats.ObstaclesPlaced != stats.ObstaclesTargeted {
				t.Errorf("placed %d of %d obstacles", stats.ObstaclesPlaced, stats.ObstaclesTargeted)
			}
			if q.strict != stats.ObstaclesPlaced {
				t.Errorf("strict checks = %d, expected one per placed obstacle (%d)", q.strict, stats.ObstaclesPlaced)
			}
			if q.reroll == 0 {
				t.Fatal("no crowded candidates drawn")
			}
			ratio := float64(q.strict) / float64(q.reroll)
			if ratio < tc.min || ratio > tc.max {
				t.Errorf("strict/reroll = %d/%d = %.3f, expected within [%v, %v]", q.strict, q.reroll, ratio, tc.min, tc.max)
			}
		})
	}
}
