// Package terrain provides the immutable terrain snapshot the grass pipeline
// samples: a height field, per-layer detail density and placement.
package terrain

import (
	"errors"

	"github.com/Faultbox/grassfield/pkg/math"
)

// Configuration errors. Both are fatal before the frame loop starts.
var (
	ErrLayerMismatch = errors.New("detail layer count mismatch")
	ErrResolution    = errors.New("resolution mismatch")
)

// Terrain is a loaded terrain snapshot. It is never mutated after load;
// reloads produce a new value.
type Terrain struct {
	Position math.Vec3
	Size     math.Vec3
	Heights  *HeightField
	Density  *DensityField
}

// Empty returns a terrain with placement but no data. Heights read as 0,
// normals as up and density as 0.
func Empty(position, size math.Vec3) *Terrain {
	return &Terrain{Position: position, Size: size}
}

// Ready reports whether both height and density data are loaded.
func (t *Terrain) Ready() bool {
	return t != nil && t.Heights != nil && t.Density != nil
}

// Normalized maps a terrain-local XZ position to [0,1] texture coordinates.
func (t *Terrain) Normalized(local math.Vec2) (u, v float32) {
	if t.Size.X == 0 || t.Size.Z == 0 {
		return 0, 0
	}
	return local.X / t.Size.X, local.Y / t.Size.Z
}

// HeightAt returns the height above Position.Y at a terrain-local XZ position.
func (t *Terrain) HeightAt(local math.Vec2) float32 {
	if t == nil {
		return 0
	}
	u, v := t.Normalized(local)
	return t.Heights.Height(u, v)
}

// NormalAt returns the surface normal at a terrain-local XZ position.
func (t *Terrain) NormalAt(local math.Vec2) math.Vec3 {
	if t == nil {
		return math.Up
	}
	u, v := t.Normalized(local)
	return t.Heights.Normal(u, v)
}

// DensityAt returns the normalized density of a layer at a detail pixel.
func (t *Terrain) DensityAt(layer, px, py int) float32 {
	if t == nil {
		return 0
	}
	return t.Density.Density(layer, px, py)
}

// DetailResolution returns the density map resolution, or 0 when unloaded.
func (t *Terrain) DetailResolution() int {
	if t == nil {
		return 0
	}
	return t.Density.Resolution()
}
