package grass

import (
	"fmt"
	gomath "math"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/grassfield/internal/engine/camera"
	"github.com/Faultbox/grassfield/internal/engine/terrain"
	"github.com/Faultbox/grassfield/internal/logger"
	"github.com/Faultbox/grassfield/pkg/math"
)

// Falloff shapes how density fades with distance from the camera.
type Falloff int

const (
	// FalloffLinear scales density by 1 - t.
	FalloffLinear Falloff = iota
	// FalloffExponential keeps density high until close to the cull
	// distance, then drops it sharply.
	FalloffExponential
	// FalloffNone ignores distance.
	FalloffNone
)

// ParseFalloff converts a config name to a Falloff. The empty string is
// linear.
func ParseFalloff(s string) (Falloff, error) {
	switch strings.ToLower(s) {
	case "", "linear":
		return FalloffLinear, nil
	case "exponential", "exp":
		return FalloffExponential, nil
	case "none", "off":
		return FalloffNone, nil
	default:
		return FalloffLinear, fmt.Errorf("%w: unknown falloff %q", ErrInvalidConfig, s)
	}
}

func (f Falloff) String() string {
	switch f {
	case FalloffLinear:
		return "linear"
	case FalloffExponential:
		return "exponential"
	case FalloffNone:
		return "none"
	default:
		return fmt.Sprintf("Falloff(%d)", int(f))
	}
}

// Weight returns the density multiplier for a normalized distance t, where
// 0 is at the camera and 1 at the cull distance.
func (f Falloff) Weight(t float32) float32 {
	t = math.Clamp01(t)
	switch f {
	case FalloffExponential:
		return 1 - easeInExponential(t)
	case FalloffNone:
		return 1
	default:
		return 1 - t
	}
}

func easeInExponential(t float32) float32 {
	if t == 0 {
		return 0
	}
	return float32(gomath.Pow(1024, float64(t-1)))
}

// InstanceCount returns how many instances a pixel spawns.
func InstanceCount(density, falloff, showDensity, maxDensity float32) int {
	n := math.CeilToInt(density * falloff * showDensity * maxDensity)
	if n < 0 {
		return 0
	}
	return n
}

// Request asks for one cell to be built. View is the camera snapshot taken
// when the request was created.
type Request struct {
	Index      CellIndex
	Footprint  math.Rect
	View       camera.View
	Generation uint64
}

// CellData is the build output for one cell. Points is filled for
// combined-mesh layers and Transforms for instanced layers.
type CellData struct {
	Index      CellIndex
	Generation uint64
	Points     []math.Vec3
	Transforms []math.Mat4
}

// Len returns the number of instances in the cell.
func (c CellData) Len() int {
	return len(c.Points) + len(c.Transforms)
}

// BuildParams are the system-wide inputs of a Builder.
type BuildParams struct {
	Mode         RenderMode
	MaxDensity   float32
	CullDistance float32
	Falloff      Falloff
}

// Builder turns a cell footprint into instances. Build only reads its inputs
// and is safe to call from any goroutine.
type Builder struct {
	terrain *terrain.Terrain
	layer   LayerConfig
	params  BuildParams
	random  *RandomTable
	log     *zap.Logger
}

// NewBuilder creates a builder for one layer. A nil or unloaded terrain
// yields empty cells.
func NewBuilder(t *terrain.Terrain, layer LayerConfig, params BuildParams, random *RandomTable) *Builder {
	if random == nil {
		random = NewRandomTable()
	}
	return &Builder{
		terrain: t,
		layer:   layer,
		params:  params,
		random:  random,
		log:     logger.Named("grass.builder").With(zap.String("layer", layer.Name)),
	}
}

// Build computes the instances of one cell. A panic during the build is
// logged and the cell comes back empty.
func (b *Builder) Build(req Request) (data CellData) {
	data = CellData{Index: req.Index, Generation: req.Generation}
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("cell build panicked", zap.Stringer("cell", req.Index), zap.Any("panic", r))
			data = CellData{Index: req.Index, Generation: req.Generation}
		}
	}()

	t := b.terrain
	if !t.Ready() || t.Size.X <= 0 || t.Size.Z <= 0 {
		return data
	}
	res := float32(t.DetailResolution())
	if res == 0 {
		return data
	}

	terrainToPixel := math.Vec2{X: res / t.Size.X, Y: res / t.Size.Z}
	pixelToTerrain := math.Vec2{X: t.Size.X / res, Y: t.Size.Z / res}
	pixels := req.Footprint.Scale(terrainToPixel)
	end := pixels.Max()
	cull := b.params.CullDistance
	yaw := req.View.Yaw()

	for px := pixels.Min.X; px < end.X; px++ {
		for py := pixels.Min.Y; py < end.Y; py++ {
			density := t.DensityAt(b.layer.BrushIndex, math.RoundToInt(px), math.RoundToInt(py))
			if density < b.layer.DetailThreshold {
				continue
			}

			local := math.Vec2{X: px, Y: py}.Mul(pixelToTerrain)
			world := b.worldPosition(local)

			var dist float32
			if cull > 0 {
				dist = req.View.Position.Distance(world) / cull
			}
			count := InstanceCount(density, b.params.Falloff.Weight(dist), b.layer.ShowDensity, b.params.MaxDensity)

			for j := 0; j < count; j++ {
				pos := b.random.Jitter(local, pixelToTerrain, j)
				b.emit(&data, pos, yaw)
			}
		}
	}
	return data
}

func (b *Builder) worldPosition(local math.Vec2) math.Vec3 {
	h := b.terrain.HeightAt(local) + b.layer.HeightOffset
	return b.terrain.Position.Add(math.Vec3{X: local.X, Y: h, Z: local.Y})
}

func (b *Builder) emit(data *CellData, local math.Vec2, yaw float32) {
	world := b.worldPosition(local)
	if b.params.Mode == ModeCombined {
		data.Points = append(data.Points, world)
		return
	}

	normal, scale := placement(b.terrain, b.layer, local)
	rot := math.QuatFromTo(math.Up, normal)
	if b.layer.Billboard {
		rot = math.QuatYaw(yaw).Mul(rot)
	}
	data.Transforms = append(data.Transforms, math.TRS(world, rot, scale))
}

// placement returns the surface normal and noise-driven scale for an
// instance at a terrain-local position.
func placement(t *terrain.Terrain, layer LayerConfig, local math.Vec2) (normal, scale math.Vec3) {
	normal = t.NormalAt(local)

	var origin math.Vec3
	if t != nil {
		origin = t.Position
	}
	n := math.Perlin(origin.X+local.X*layer.NoiseSpread, origin.Z+local.Y*layer.NoiseSpread)
	w := layer.WidthScale.Lerp(n)
	scale = math.Vec3{X: w, Y: layer.HeightScale.Lerp(n), Z: w}
	return normal, scale
}
