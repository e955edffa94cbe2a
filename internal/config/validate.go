package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

const (
	// MaxQuadsPerMesh is the quad limit imposed by 16-bit mesh indices.
	MaxQuadsPerMesh = 16384
	// MaxInstancesPerDraw stays one below the 1023-instance draw limit.
	MaxInstancesPerDraw = 1022
)

// Validate checks the configuration for inconsistencies that would make the
// grass system unusable. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	t := c.Terrain
	if t.Size[0] <= 0 || t.Size[2] <= 0 {
		fail("terrain size %v must be positive on x and z", t.Size)
	}
	if t.HeightmapResolution <= 0 {
		fail("heightmap_resolution %d must be positive", t.HeightmapResolution)
	}
	if t.DetailResolution <= 0 {
		fail("detail_resolution %d must be positive", t.DetailResolution)
	}
	if t.DetailLayers <= 0 {
		fail("detail_layers %d must be positive", t.DetailLayers)
	}

	g := c.Grass
	if g.CellSize[0] <= 0 || g.CellSize[1] <= 0 {
		fail("cell_size %v must be positive", g.CellSize)
	}
	if g.CullDistance <= 0 {
		fail("cull_distance %g must be positive", g.CullDistance)
	}
	if g.DetailDensity < 0 {
		fail("detail_density %g must not be negative", g.DetailDensity)
	}
	if g.MaxCountPerBatch <= 0 || g.MaxCountPerBatch > MaxQuadsPerMesh {
		fail("max_count_per_batch %d must be in (0, %d]", g.MaxCountPerBatch, MaxQuadsPerMesh)
	}
	if g.MaxInstancesPerBatch <= 0 || g.MaxInstancesPerBatch > MaxInstancesPerDraw {
		fail("max_instances_per_batch %d must be in (0, %d]", g.MaxInstancesPerBatch, MaxInstancesPerDraw)
	}
	switch g.Falloff {
	case "", "linear", "exponential", "none":
	default:
		fail("unknown falloff %q", g.Falloff)
	}

	for i, l := range c.Layers {
		if l.BrushIndex < 0 || l.BrushIndex >= t.DetailLayers {
			fail("layer %d (%s): brush_index %d outside detail layers [0,%d)", i, l.Name, l.BrushIndex, t.DetailLayers)
		}
		if l.DetailThreshold < 0 || l.DetailThreshold > 1 {
			fail("layer %d (%s): detail_threshold %g must be in [0,1]", i, l.Name, l.DetailThreshold)
		}
		if l.WidthScale[0] > l.WidthScale[1] || l.HeightScale[0] > l.HeightScale[1] {
			fail("layer %d (%s): scale ranges must be [min,max]", i, l.Name)
		}
		if l.CullDistance < 0 {
			fail("layer %d (%s): cull_distance %g must not be negative", i, l.Name, l.CullDistance)
		}
	}

	if c.Workers.Count < 0 {
		fail("workers count %d must not be negative", c.Workers.Count)
	}

	return errors.Join(errs...)
}
