package terrain

import "github.com/Faultbox/grassfield/pkg/formats"

// DensityField exposes per-layer detail density normalized to [0,1].
// A nil *DensityField reads as zero everywhere.
type DensityField struct {
	detail *formats.DetailMap
}

// NewDensityField wraps parsed density blocks.
func NewDensityField(d *formats.DetailMap) *DensityField {
	return &DensityField{detail: d}
}

// Resolution returns the density map resolution.
func (d *DensityField) Resolution() int {
	if d == nil || d.detail == nil {
		return 0
	}
	return d.detail.Resolution
}

// Layers returns the number of detail layers.
func (d *DensityField) Layers() int {
	if d == nil || d.detail == nil {
		return 0
	}
	return d.detail.Layers
}

// Density returns the sample for a layer at pixel (px, py) as byte/255.
// Out-of-range pixels and layers return 0.
func (d *DensityField) Density(layer, px, py int) float32 {
	if d == nil {
		return 0
	}
	return float32(d.detail.At(layer, px, py)) / 255
}
