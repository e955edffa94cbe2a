// Package math provides the vector, matrix and geometry types shared by the
// grass pipeline. Matrices are column-major (OpenGL compatible).
package math

import "math"

// Vec2 is a 2D vector. On the terrain plane X maps to world X and Y to world Z.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Mul returns the component-wise product.
func (v Vec2) Mul(other Vec2) Vec2 {
	return Vec2{v.X * other.X, v.Y * other.Y}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
}

// Max returns the larger component.
func (v Vec2) Max() float32 {
	if v.X > v.Y {
		return v.X
	}
	return v.Y
}

// Lerp interpolates between the two components of a [min, max] range.
func (v Vec2) Lerp(t float32) float32 {
	return v.X + (v.Y-v.X)*t
}
