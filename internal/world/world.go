// Package world is the headless host for the track generator. It issues
// handles for spawned segments and obstacles and answers box overlap
// queries against them. Obstacles are indexed in buckets along Z so queries
// only scan the part of the track they touch.
package world

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/catalog"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/track"
)

// DefaultBucketSize is the Z length covered by one index bucket.
const DefaultBucketSize = 8.0

type obstacleBody struct {
	obstacle track.Obstacle
	box      core.Box
	bucket   int
}

type segmentBody struct {
	segment track.Segment
	ground  core.Box
	walls   [2]core.Box
}

// Hit is an obstacle found by a collision query.
type Hit struct {
	Handle   track.ObstacleHandle
	Obstacle track.Obstacle
	Box      core.Box
}

// World holds every live track object.
type World struct {
	cat        *catalog.Catalog
	bucketSize float64
	logger     *log.Logger

	nextID    uint64
	segments  map[track.SegmentHandle]*segmentBody
	obstacles map[track.ObstacleHandle]*obstacleBody
	buckets   map[int][]track.ObstacleHandle
	maxDepth  float64 // Largest obstacle half depth along Z
}

// The world is the generator's spawner and spatial query.
var (
	_ track.Spawner      = (*World)(nil)
	_ track.SpatialQuery = (*World)(nil)
)

// New creates an empty world for obstacles from cat.
func New(cat *catalog.Catalog, logger *log.Logger) *World {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &World{
		cat:        cat,
		bucketSize: DefaultBucketSize,
		logger:     logger,
		segments:   make(map[track.SegmentHandle]*segmentBody),
		obstacles:  make(map[track.ObstacleHandle]*obstacleBody),
		buckets:    make(map[int][]track.ObstacleHandle),
	}
}

func (w *World) id() uint64 {
	w.nextID++
	return w.nextID
}

func (w *World) bucketOf(z float64) int {
	return int(math.Floor(z / w.bucketSize))
}

// SpawnSegment adds a ground piece with walls on both sides.
func (w *World) SpawnSegment(s track.Segment) track.SegmentHandle {
	h := track.SegmentHandle(w.id())
	s.Handle = h

	groundHalf := s.GroundScale.Mul(0.5)
	wallHalf := s.WallScale.Mul(0.5)
	wallX := groundHalf.X() + wallHalf.X()
	wallY := s.GroundTop() + wallHalf.Y()

	w.segments[h] = &segmentBody{
		segment: s,
		ground:  core.NewBox(s.Position, groundHalf),
		walls: [2]core.Box{
			core.NewBox(mgl64.Vec3{s.Position.X() - wallX, wallY, s.Position.Z()}, wallHalf),
			core.NewBox(mgl64.Vec3{s.Position.X() + wallX, wallY, s.Position.Z()}, wallHalf),
		},
	}
	return h
}

// SpawnObstacle adds an obstacle. Its footprint is the catalog box rotated
// by the obstacle's yaw and re-boxed along the axes.
func (w *World) SpawnObstacle(o track.Obstacle) track.ObstacleHandle {
	half := mgl64.Vec3{0.5, 0.5, 0.5}
	if kind, err := w.cat.Kind(o.Kind); err == nil {
		half = kind.HalfExtents
	} else {
		w.logger.Warn("unknown obstacle kind, using unit box", "kind", o.Kind)
	}

	h := track.ObstacleHandle(w.id())
	o.Handle = h
	box := core.RotatedBox(o.Position, half, o.Rotation)
	bucket := w.bucketOf(box.Min.Z())

	w.obstacles[h] = &obstacleBody{obstacle: o, box: box, bucket: bucket}
	w.buckets[bucket] = append(w.buckets[bucket], h)
	if d := box.HalfExtents().Z(); d > w.maxDepth {
		w.maxDepth = d
	}
	return h
}

// Despawn removes a segment and the given obstacles.
func (w *World) Despawn(seg track.SegmentHandle, obstacles []track.ObstacleHandle) {
	delete(w.segments, seg)
	for _, h := range obstacles {
		w.removeObstacle(h)
	}
}

func (w *World) removeObstacle(h track.ObstacleHandle) {
	body, ok := w.obstacles[h]
	if !ok {
		return
	}
	delete(w.obstacles, h)

	list := w.buckets[body.bucket]
	for i, other := range list {
		if other == h {
			list[i] = list[len(list)-1]
			list = list[:len(list)-1]
			break
		}
	}
	if len(list) == 0 {
		delete(w.buckets, body.bucket)
	} else {
		w.buckets[body.bucket] = list
	}
}

// CatalogSize returns the number of obstacle kinds.
func (w *World) CatalogSize() int {
	return w.cat.Size()
}

// OverlapBox counts objects on the masked layers that overlap a box.
func (w *World) OverlapBox(center, halfExtents mgl64.Vec3, rotation mgl64.Quat, mask track.LayerMask) int {
	box := core.RotatedBox(center, halfExtents, rotation)
	n := 0
	if mask&track.LayerObstacle != 0 {
		w.eachObstacle(box, func(*obstacleBody) bool {
			n++
			return true
		})
	}
	if mask&(track.LayerGround|track.LayerWall) != 0 {
		for _, s := range w.segments {
			if mask&track.LayerGround != 0 && box.Intersects(s.ground) {
				n++
			}
			if mask&track.LayerWall != 0 {
				for _, wall := range s.walls {
					if box.Intersects(wall) {
						n++
					}
				}
			}
		}
	}
	return n
}

// FirstHit returns an obstacle overlapping box, if any.
func (w *World) FirstHit(box core.Box) (Hit, bool) {
	var hit Hit
	found := false
	w.eachObstacle(box, func(b *obstacleBody) bool {
		hit = Hit{Handle: b.obstacle.Handle, Obstacle: b.obstacle, Box: b.box}
		found = true
		return false
	})
	return hit, found
}

// eachObstacle calls fn for obstacles overlapping box until fn returns false.
func (w *World) eachObstacle(box core.Box, fn func(*obstacleBody) bool) {
	// An obstacle is filed under the bucket of its rear edge, so look back
	// by the deepest footprint.
	from := w.bucketOf(box.Min.Z() - 2*w.maxDepth)
	to := w.bucketOf(box.Max.Z())
	for b := from; b <= to; b++ {
		for _, h := range w.buckets[b] {
			body := w.obstacles[h]
			if box.Intersects(body.box) && !fn(body) {
				return
			}
		}
	}
}

// SegmentAt returns the live segment whose ground spans z.
func (w *World) SegmentAt(z float64) (track.Segment, bool) {
	for _, s := range w.segments {
		if z >= s.segment.TrailingEdge() && z < s.segment.LeadingEdge() {
			return s.segment, true
		}
	}
	return track.Segment{}, false
}

// Obstacle returns a live obstacle by handle.
func (w *World) Obstacle(h track.ObstacleHandle) (track.Obstacle, bool) {
	body, ok := w.obstacles[h]
	if !ok {
		return track.Obstacle{}, false
	}
	return body.obstacle, true
}

// SegmentCount returns the number of live segments.
func (w *World) SegmentCount() int {
	return len(w.segments)
}

// ObstacleCount returns the number of live obstacles.
func (w *World) ObstacleCount() int {
	return len(w.obstacles)
}
