// Package mapper implements the numeric remapping and randomization helpers
// used by track generation: value remaps, range narrowing, bounded random
// draws and random yaw rotations.
//
// Random helpers take a caller-owned *rand.Rand so a generation run is fully
// reproducible from its seed.
package mapper

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/core"
)

// RemapLinear maps value from [oldMin, oldMax] onto [newMin, newMax].
// The caller must ensure oldMin != oldMax.
func RemapLinear(value, oldMin, oldMax, newMin, newMax float64) float64 {
	slope := (newMax - newMin) / (oldMax - oldMin)
	return (value-oldMin)*slope + newMin
}

// NarrowRange shrinks [min, max] symmetrically by factor*(max-min) on each
// side when the span is at least minSpan. Smaller spans are returned as is.
// The result satisfies min' <= max' for factor <= 0.5.
func NarrowRange(min, max int, factor float64, minSpan int) (int, int) {
	span := max - min
	if span < minSpan {
		return min, max
	}
	scaled := int(float64(span) * factor)
	return min + scaled, max - scaled
}

// ScaleRange multiplies both ends of [min, max] by factor, truncating.
func ScaleRange(min, max int, factor float64) (int, int) {
	return int(float64(min) * factor), int(float64(max) * factor)
}

// RandomFloat returns a uniform value in [min, max). Returns min if max <= min.
func RandomFloat(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rng.Float64()*(max-min)
}

// RandomInt returns a uniform value in [min, max). Returns min if max <= min.
func RandomInt(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min)
}

// RandomYaw returns a random whole-degree rotation about the vertical axis
// two thirds of the time and the identity rotation otherwise.
func RandomYaw(rng *rand.Rand) mgl64.Quat {
	if rng.Intn(3) == 0 {
		return mgl64.QuatIdent()
	}
	deg := float64(rng.Intn(360))
	return mgl64.QuatRotate(mgl64.DegToRad(deg), core.AxisUp)
}

// ObstacleMaxCount returns the upper bound of obstacles for a segment.
// Longer segments, higher density and higher tiers allow more obstacles on
// top of the baseline.
func ObstacleMaxCount(baseline int, groundLen, originalLen, density float64, tierOrdinal int) int {
	extra := (groundLen - originalLen) * density * float64(tierOrdinal+1) * 0.1
	return baseline + int(extra)
}
