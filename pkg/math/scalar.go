package math

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp returns f clamped to the range [low, high].
func Clamp[T constraints.Integer | constraints.Float](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Clamp01 clamps to [0, 1].
func Clamp01(f float32) float32 {
	return Clamp(f, 0, 1)
}

// CeilToInt rounds up to the nearest integer.
func CeilToInt(f float32) int {
	return int(math.Ceil(float64(f)))
}

// FloorToInt rounds down to the nearest integer.
func FloorToInt(f float32) int {
	return int(math.Floor(float64(f)))
}

// RoundToInt rounds half away from zero.
func RoundToInt(f float32) int {
	return int(math.Round(float64(f)))
}
