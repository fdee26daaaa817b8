package world

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/catalog"
	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/tier"
	"github.com/vovakirdan/tui-runner/internal/track"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	cat, err := catalog.New(config.DefaultRunnerConfig().Obstacles.Catalog)
	if err != nil {
		t.Fatalf("catalog.New() failed: %v", err)
	}
	return New(cat, nil)
}

func cubeAt(x, z float64) track.Obstacle {
	return track.Obstacle{
		Position: mgl64.Vec3{x, 1, z},
		Rotation: mgl64.QuatIdent(),
		Kind:     0,
	}
}

func TestSpawnAndDespawn(t *testing.T) {
	w := newTestWorld(t)

	seg := w.SpawnSegment(track.Segment{
		Position:    mgl64.Vec3{0, 0, 15},
		GroundScale: mgl64.Vec3{10, 1, 30},
		WallScale:   mgl64.Vec3{1, 1, 30},
	})
	a := w.SpawnObstacle(cubeAt(0, 5))
	b := w.SpawnObstacle(cubeAt(2, 20))

	if a == b {
		t.Fatal("handles must be unique")
	}
	if w.SegmentCount() != 1 || w.ObstacleCount() != 2 {
		t.Fatalf("counts = %d/%d, expected 1/2", w.SegmentCount(), w.ObstacleCount())
	}
	if o, ok := w.Obstacle(a); !ok || o.Handle != a {
		t.Errorf("Obstacle(%d) = %+v, %v", a, o, ok)
	}

	w.Despawn(seg, []track.ObstacleHandle{a, b})
	if w.SegmentCount() != 0 || w.ObstacleCount() != 0 {
		t.Errorf("counts after despawn = %d/%d", w.SegmentCount(), w.ObstacleCount())
	}
	if len(w.buckets) != 0 {
		t.Errorf("%d buckets left after despawn", len(w.buckets))
	}
	if w.OverlapBox(mgl64.Vec3{0, 1, 5}, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent(), track.LayerAll) != 0 {
		t.Error("despawned objects still answer queries")
	}
}

func TestOverlapBoxLayers(t *testing.T) {
	w := newTestWorld(t)
	w.SpawnSegment(track.Segment{
		Position:    mgl64.Vec3{0, 0, 15},
		GroundScale: mgl64.Vec3{10, 1, 30},
		WallScale:   mgl64.Vec3{1, 1, 30},
	})
	w.SpawnObstacle(cubeAt(0, 10))

	tests := []struct {
		name   string
		center mgl64.Vec3
		half   mgl64.Vec3
		mask   track.LayerMask
		want   int
	}{
		{"obstacle hit", mgl64.Vec3{0, 1, 10}, mgl64.Vec3{0.2, 0.2, 0.2}, track.LayerObstacle, 1},
		{"obstacle miss", mgl64.Vec3{3, 1, 10}, mgl64.Vec3{0.2, 0.2, 0.2}, track.LayerObstacle, 0},
		{"touching faces miss", mgl64.Vec3{1, 1, 10}, mgl64.Vec3{0.5, 0.5, 0.5}, track.LayerObstacle, 0},
		{"ground", mgl64.Vec3{3, 0, 10}, mgl64.Vec3{0.2, 0.2, 0.2}, track.LayerGround, 1},
		{"left wall", mgl64.Vec3{-5.5, 1, 10}, mgl64.Vec3{0.2, 0.2, 0.2}, track.LayerWall, 1},
		{"obstacle masked out", mgl64.Vec3{0, 1, 10}, mgl64.Vec3{0.2, 0.2, 0.2}, track.LayerGround, 0},
		{"all layers", mgl64.Vec3{0, 0.5, 10}, mgl64.Vec3{0.2, 0.2, 0.2}, track.LayerAll, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.OverlapBox(tt.center, tt.half, mgl64.QuatIdent(), tt.mask)
			if got != tt.want {
				t.Errorf("OverlapBox() = %d, expected %d", got, tt.want)
			}
		})
	}
}

func TestRotatedFootprint(t *testing.T) {
	w := newTestWorld(t)
	// Quad is 2 wide and 0.2 deep; turned 90 degrees it is 2 deep.
	quad := track.Obstacle{
		Position: mgl64.Vec3{0, 1, 10},
		Rotation: mgl64.QuatRotate(mgl64.DegToRad(90), core.AxisUp),
		Kind:     2,
	}
	w.SpawnObstacle(quad)

	probeHalf := mgl64.Vec3{0.1, 0.1, 0.1}
	if w.OverlapBox(mgl64.Vec3{0, 1, 10.8}, probeHalf, mgl64.QuatIdent(), track.LayerObstacle) != 1 {
		t.Error("rotated quad should reach 0.8 along Z")
	}
	if w.OverlapBox(mgl64.Vec3{0.8, 1, 10}, probeHalf, mgl64.QuatIdent(), track.LayerObstacle) != 0 {
		t.Error("rotated quad should be thin along X")
	}
}

func TestQueriesAcrossBuckets(t *testing.T) {
	w := newTestWorld(t)
	// Pillar straddling a bucket boundary, filed under the lower bucket.
	w.SpawnObstacle(track.Obstacle{
		Position: mgl64.Vec3{0, 2.5, DefaultBucketSize},
		Rotation: mgl64.QuatIdent(),
		Kind:     1,
	})

	probe := core.NewBox(mgl64.Vec3{0, 1, DefaultBucketSize + 0.3}, mgl64.Vec3{0.1, 0.1, 0.1})
	hit, ok := w.FirstHit(probe)
	if !ok {
		t.Fatal("FirstHit() missed an obstacle filed in the previous bucket")
	}
	if hit.Obstacle.Kind != 1 {
		t.Errorf("hit kind = %d, expected pillar", hit.Obstacle.Kind)
	}

	far := core.NewBox(mgl64.Vec3{0, 1, 5 * DefaultBucketSize}, mgl64.Vec3{0.5, 0.5, 0.5})
	if _, ok := w.FirstHit(far); ok {
		t.Error("FirstHit() reported a distant obstacle")
	}
}

func TestSegmentAt(t *testing.T) {
	w := newTestWorld(t)
	w.SpawnSegment(track.Segment{Ordinal: 0, Position: mgl64.Vec3{0, 0, 15}, GroundScale: mgl64.Vec3{10, 1, 30}})
	w.SpawnSegment(track.Segment{Ordinal: 1, Position: mgl64.Vec3{0, 0, 50}, GroundScale: mgl64.Vec3{10, 1, 40}})

	tests := []struct {
		z       float64
		ordinal int
		ok      bool
	}{
		{0, 0, true},
		{29.9, 0, true},
		{30, 1, true},
		{69.9, 1, true},
		{70, 0, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		seg, ok := w.SegmentAt(tt.z)
		if ok != tt.ok || (ok && seg.Ordinal != tt.ordinal) {
			t.Errorf("SegmentAt(%v) = %d, %v; expected %d, %v", tt.z, seg.Ordinal, ok, tt.ordinal, tt.ok)
		}
	}
}

type steadyPlayer struct {
	z, speed float64
}

func (p *steadyPlayer) PositionAlongAxis() float64 { return p.z }
func (p *steadyPlayer) ForwardSpeed() float64      { return p.speed }

func TestEngineOverWorldPlacesDisjointObstacles(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	w := newTestWorld(t)
	p := &steadyPlayer{speed: 14}
	tiers := tier.NewController(tier.Thresholds{VeryEasy: 8, Easy: 12, Medium: 16, Hard: 20, VeryHard: 24, Extreme: 28}, nil)

	engine, err := track.New(cfg, track.Deps{
		Spawner: w,
		Query:   w,
		Player:  p,
		Tiers:   tiers,
		Catalog: w.cat,
	}, rand.New(rand.NewSource(99)), nil)
	if err != nil {
		t.Fatalf("track.New() failed: %v", err)
	}
	engine.Start(cfg.Player.Spawn.Vec())
	tiers.Tick(8)
	tiers.Tick(12)

	for i := 0; i < 3000; i++ {
		p.z += p.speed / 60
		engine.Tick()
	}

	if w.ObstacleCount() == 0 {
		t.Fatal("no obstacles placed")
	}
	boxes := make([]core.Box, 0, len(w.obstacles))
	for _, body := range w.obstacles {
		boxes = append(boxes, body.box)
	}
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].Intersects(boxes[j]) {
				t.Fatalf("obstacles overlap: %+v and %+v", boxes[i], boxes[j])
			}
		}
	}

	if w.SegmentCount() != engine.Registry().Len() {
		t.Errorf("world has %d segments, registry %d", w.SegmentCount(), engine.Registry().Len())
	}
	if live := engine.LiveObstacles(); live != w.ObstacleCount() {
		t.Errorf("registry owns %d obstacles, world holds %d", engine.LiveObstacles(), w.ObstacleCount())
	}
}
