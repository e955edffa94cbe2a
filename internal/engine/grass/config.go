package grass

import (
	"errors"
	"fmt"

	"github.com/Faultbox/grassfield/pkg/math"
)

// ErrInvalidConfig is wrapped by every configuration error.
var ErrInvalidConfig = errors.New("invalid grass config")

// Config holds system-wide settings and the layer list.
type Config struct {
	Mode                 RenderMode
	CellSize             math.Vec2
	CullDistance         float32
	MaxDensity           float32
	MaxCountPerBatch     int
	MaxInstancesPerBatch int
	MaxInflight          int
	Falloff              Falloff

	// MoveThreshold is the squared camera travel that triggers a
	// visibility pass.
	MoveThreshold float32
	// RotateThreshold is the camera rotation in degrees that triggers a
	// visibility pass.
	RotateThreshold float32

	Layers []LayerConfig
}

// LayerConfig describes one vegetation type.
type LayerConfig struct {
	Name            string
	BrushIndex      int
	DetailThreshold float32
	ShowDensity     float32
	// CullDistance overrides Config.CullDistance when positive.
	CullDistance float32
	HeightOffset float32
	WidthScale   math.Vec2
	HeightScale  math.Vec2
	NoiseSpread  float32

	CastShadows    bool
	ReceiveShadows bool
	UseQuad        bool
	Billboard      bool
	Mesh           string
	Material       string
	DrawLayer      int
}

// DefaultConfig returns a single-layer instanced configuration.
func DefaultConfig() Config {
	return Config{
		Mode:                 ModeInstanced,
		CellSize:             math.Vec2{X: 32, Y: 32},
		CullDistance:         100,
		MaxDensity:           10,
		MaxCountPerBatch:     DefaultMaxCountPerBatch,
		MaxInstancesPerBatch: DefaultMaxInstancesPerBatch,
		MaxInflight:          DefaultMaxInflight,
		Falloff:              FalloffLinear,
		MoveThreshold:        1,
		RotateThreshold:      5,
		Layers:               []LayerConfig{DefaultLayer("grass")},
	}
}

// DefaultLayer returns a billboarded quad layer reading brush 0.
func DefaultLayer(name string) LayerConfig {
	return LayerConfig{
		Name:            name,
		DetailThreshold: 0.1,
		ShowDensity:     1,
		WidthScale:      math.Vec2{X: 0.8, Y: 1.2},
		HeightScale:     math.Vec2{X: 0.8, Y: 1.4},
		NoiseSpread:     0.1,
		UseQuad:         true,
		Billboard:       true,
	}
}

// Validate checks the configuration. All problems are reported together.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.CellSize.X <= 0 || c.CellSize.Y <= 0 {
		bad("cell size must be positive, got %v", c.CellSize)
	}
	if c.CullDistance <= 0 {
		bad("cull distance must be positive, got %g", c.CullDistance)
	}
	if c.MaxDensity < 0 {
		bad("max density must not be negative, got %g", c.MaxDensity)
	}
	if c.MaxCountPerBatch < 0 || c.MaxCountPerBatch > MaxQuadsPerMesh {
		bad("max count per batch must be in [0, %d], got %d", MaxQuadsPerMesh, c.MaxCountPerBatch)
	}
	if c.MaxInstancesPerBatch < 0 || c.MaxInstancesPerBatch > DefaultMaxInstancesPerBatch {
		bad("max instances per batch must be in [0, %d], got %d", DefaultMaxInstancesPerBatch, c.MaxInstancesPerBatch)
	}
	if c.Mode != ModeInstanced && c.Mode != ModeCombined {
		bad("unknown render mode %v", c.Mode)
	}
	if len(c.Layers) == 0 {
		bad("at least one layer is required")
	}
	for i, l := range c.Layers {
		if l.BrushIndex < 0 {
			bad("layer %d (%s): brush index must not be negative", i, l.Name)
		}
		if l.DetailThreshold < 0 || l.DetailThreshold > 1 {
			bad("layer %d (%s): detail threshold must be in [0, 1], got %g", i, l.Name, l.DetailThreshold)
		}
		if l.ShowDensity < 0 {
			bad("layer %d (%s): show density must not be negative", i, l.Name)
		}
	}
	return errors.Join(errs...)
}

// layerCull returns the effective cull distance of a layer.
func (c Config) layerCull(l LayerConfig) float32 {
	if l.CullDistance > 0 {
		return l.CullDistance
	}
	return c.CullDistance
}
