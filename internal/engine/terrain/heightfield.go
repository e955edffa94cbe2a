package terrain

import (
	"github.com/Faultbox/grassfield/pkg/formats"
	"github.com/Faultbox/grassfield/pkg/math"
)

// HeightField converts raw 16-bit samples into world-space heights.
// A nil *HeightField is valid and describes flat ground.
type HeightField struct {
	resolution int
	samples    []uint16
	size       math.Vec3
	normals    *formats.NormalMap
}

// NewHeightField wraps a parsed heightmap. size is the terrain extent; size.Y
// is the height of a full-scale (65535) sample.
func NewHeightField(hm *formats.Heightmap, size math.Vec3) *HeightField {
	return &HeightField{
		resolution: hm.Resolution,
		samples:    hm.Samples,
		size:       size,
	}
}

// WithNormals returns a copy that reads normals from a baked normal map.
func (h *HeightField) WithNormals(n *formats.NormalMap) *HeightField {
	if h == nil {
		return nil
	}
	c := *h
	c.normals = n
	return &c
}

// Resolution returns the number of samples per side.
func (h *HeightField) Resolution() int {
	if h == nil {
		return 0
	}
	return h.resolution
}

// sample returns the world height of grid sample (x, y), clamped.
func (h *HeightField) sample(x, y int) float32 {
	x = math.Clamp(x, 0, h.resolution-1)
	y = math.Clamp(y, 0, h.resolution-1)
	return float32(h.samples[y*h.resolution+x]) / 0xFFFF * h.size.Y
}

// Height returns the bilinearly interpolated height at normalized (u, v).
// Coordinates outside [0,1] are clamped.
func (h *HeightField) Height(u, v float32) float32 {
	if h == nil || len(h.samples) == 0 {
		return 0
	}

	span := float32(h.resolution - 1)
	fx := math.Clamp01(u) * span
	fy := math.Clamp01(v) * span
	x0 := math.FloorToInt(fx)
	y0 := math.FloorToInt(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	south := h.sample(x0, y0)*(1-tx) + h.sample(x0+1, y0)*tx
	north := h.sample(x0, y0+1)*(1-tx) + h.sample(x0+1, y0+1)*tx
	return south*(1-ty) + north*ty
}

// Normal returns the surface normal at normalized (u, v). A baked normal map
// is preferred; otherwise it is derived from height central differences.
func (h *HeightField) Normal(u, v float32) math.Vec3 {
	if h == nil || len(h.samples) == 0 {
		return math.Up
	}

	if h.normals != nil {
		x := math.RoundToInt(math.Clamp01(u) * float32(h.normals.Width-1))
		y := math.RoundToInt(math.Clamp01(v) * float32(h.normals.Height-1))
		return h.normals.At(x, y).Normalize()
	}

	if h.resolution < 2 || h.size.X == 0 || h.size.Z == 0 {
		return math.Up
	}

	step := 1 / float32(h.resolution-1)
	dhdx := (h.Height(u+step, v) - h.Height(u-step, v)) / (2 * step * h.size.X)
	dhdz := (h.Height(u, v+step) - h.Height(u, v-step)) / (2 * step * h.size.Z)
	return math.Vec3{X: -dhdx, Y: 1, Z: -dhdz}.Normalize()
}
