// Package core provides fundamental types and utilities for the runner.
// It contains no game state of its own so track generation, difficulty and
// simulation code can share geometry and numeric helpers.
package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis vectors used throughout the runner. The player runs along +Z.
var (
	AxisUp      = mgl64.Vec3{0, 1, 0}
	AxisForward = mgl64.Vec3{0, 0, 1}
)

// Box represents an axis-aligned bounding box used for overlap queries.
type Box struct {
	Min, Max mgl64.Vec3
}

// NewBox creates a box from its center and half extents.
func NewBox(center, halfExtents mgl64.Vec3) Box {
	return Box{
		Min: center.Sub(halfExtents),
		Max: center.Add(halfExtents),
	}
}

// Center returns the center point of the box.
func (b Box) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// HalfExtents returns half the size of the box on each axis.
func (b Box) HalfExtents() mgl64.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Intersects returns true if this box overlaps with another.
// Boxes that only touch on a face do not intersect.
func (b Box) Intersects(other Box) bool {
	for i := 0; i < 3; i++ {
		if b.Min[i] >= other.Max[i] || other.Min[i] >= b.Max[i] {
			return false
		}
	}
	return true
}

// RotatedBox returns the axis-aligned box enclosing a box of the given half
// extents rotated by q around center.
func RotatedBox(center, halfExtents mgl64.Vec3, q mgl64.Quat) Box {
	var ext mgl64.Vec3
	for _, sx := range [2]float64{-1, 1} {
		for _, sy := range [2]float64{-1, 1} {
			for _, sz := range [2]float64{-1, 1} {
				corner := q.Rotate(mgl64.Vec3{sx * halfExtents[0], sy * halfExtents[1], sz * halfExtents[2]})
				for i := 0; i < 3; i++ {
					ext[i] = math.Max(ext[i], math.Abs(corner[i]))
				}
			}
		}
	}
	return NewBox(center, ext)
}

// YawDegrees returns the rotation of q about the vertical axis in [0, 360).
func YawDegrees(q mgl64.Quat) float64 {
	fwd := q.Rotate(AxisForward)
	deg := mgl64.RadToDeg(math.Atan2(fwd[0], fwd[2]))
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
