package track

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/tier"
)

// SegmentHandle identifies a spawned segment.
type SegmentHandle uint64

// ObstacleHandle identifies a spawned obstacle.
type ObstacleHandle uint64

// LayerMask selects which spawned objects a spatial query considers.
type LayerMask uint32

const (
	LayerGround LayerMask = 1 << iota
	LayerWall
	LayerObstacle

	LayerAll = LayerGround | LayerWall | LayerObstacle
)

// Segment is one ground piece with its two side walls.
// GroundScale.Z is the segment length.
type Segment struct {
	Ordinal     int
	Position    mgl64.Vec3 // Center of the ground piece
	Rotation    mgl64.Quat
	GroundScale mgl64.Vec3
	WallScale   mgl64.Vec3
	GroundColor core.RGBA
	WallColor   core.RGBA
	Starting    bool
	Handle      SegmentHandle
}

// HalfLength returns half the segment length.
func (s Segment) HalfLength() float64 {
	return s.GroundScale.Z() / 2
}

// TrailingEdge returns the Z coordinate of the segment's rear end.
func (s Segment) TrailingEdge() float64 {
	return s.Position.Z() - s.HalfLength()
}

// LeadingEdge returns the Z coordinate of the segment's front end.
func (s Segment) LeadingEdge() float64 {
	return s.Position.Z() + s.HalfLength()
}

// GroundTop returns the height of the walkable surface.
func (s Segment) GroundTop() float64 {
	return s.Position.Y() + s.GroundScale.Y()/2
}

// Obstacle is a placed obstacle owned by one segment.
type Obstacle struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Kind     int // Catalog index
	Color    core.RGBA
	Segment  SegmentHandle
	Handle   ObstacleHandle
}

// Spawner creates and destroys track objects in the host world.
type Spawner interface {
	SpawnSegment(s Segment) SegmentHandle
	SpawnObstacle(o Obstacle) ObstacleHandle
	Despawn(seg SegmentHandle, obstacles []ObstacleHandle)
	CatalogSize() int
}

// SpatialQuery counts spawned objects overlapping a rotated box.
type SpatialQuery interface {
	OverlapBox(center, halfExtents mgl64.Vec3, rotation mgl64.Quat, mask LayerMask) int
}

// PlayerState exposes the player values the generator reads each tick.
type PlayerState interface {
	PositionAlongAxis() float64
	ForwardSpeed() float64
}

// TierSource is the speed tier signal consumed by the generator.
type TierSource interface {
	Current() tier.Tier
	Changed() bool
	Acknowledge()
}

// DensitySource provides the obstacle density factor.
type DensitySource interface {
	ObstacleDensity() float64
}
