package math

import (
	"math"

	"golang.org/x/exp/rand"
)

// perlinSeed fixes the permutation so noise is identical across runs.
const perlinSeed = 9999

var perm = func() [512]uint8 {
	var p [512]uint8
	r := rand.New(rand.NewSource(perlinSeed))
	for i, v := range r.Perm(256) {
		p[i] = uint8(v)
		p[i+256] = uint8(v)
	}
	return p
}()

// Perlin returns 2D gradient noise remapped to [0, 1].
func Perlin(x, y float32) float32 {
	fx, fy := float64(x), float64(y)
	x0, y0 := math.Floor(fx), math.Floor(fy)
	xi, yi := int(x0)&255, int(y0)&255
	xf, yf := fx-x0, fy-y0
	u, v := fade(xf), fade(yf)

	aa := perm[int(perm[xi])+yi]
	ab := perm[int(perm[xi])+yi+1]
	ba := perm[int(perm[xi+1])+yi]
	bb := perm[int(perm[xi+1])+yi+1]

	x1 := lerp(grad(aa, xf, yf), grad(ba, xf-1, yf), u)
	x2 := lerp(grad(ab, xf, yf-1), grad(bb, xf-1, yf-1), u)
	n := lerp(x1, x2, v)

	return Clamp01(float32((n + 1) * 0.5))
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func grad(hash uint8, x, y float64) float64 {
	switch hash & 7 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x
	case 5:
		return -x
	case 6:
		return y
	default:
		return -y
	}
}
