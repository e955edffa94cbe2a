package grass

import (
	gomath "math"

	"github.com/Faultbox/grassfield/internal/engine/camera"
	"github.com/Faultbox/grassfield/internal/engine/terrain"
	"github.com/Faultbox/grassfield/pkg/formats"
	"github.com/Faultbox/grassfield/pkg/math"
)

// flatTerrain returns a ready terrain of the given extent at the origin with
// one detail pixel per unit and every pixel set to density.
func flatTerrain(size float32, density byte) *terrain.Terrain {
	res := int(size)
	detail := &formats.DetailMap{Layers: 1, Resolution: res, Density: make([]byte, res*res)}
	for i := range detail.Density {
		detail.Density[i] = density
	}
	hm := &formats.Heightmap{Resolution: 2, Samples: make([]uint16, 4)}

	extent := math.Vec3{X: size, Y: 0, Z: size}
	return &terrain.Terrain{
		Size:    extent,
		Heights: terrain.NewHeightField(hm, extent),
		Density: terrain.NewDensityField(detail),
	}
}

// overheadView returns a view at pos whose frustum contains everything of
// interest.
func overheadView(pos math.Vec3) camera.View {
	return camera.View{
		Position: pos,
		Rotation: math.QuatIdentity(),
		ViewProj: math.Ortho(-1e4, 1e4, -1e4, 1e4, -1e4, 1e4),
	}
}

type inlineExec struct{}

func (inlineExec) Submit(fn func()) error {
	fn()
	return nil
}

// manualExec holds tasks until run is called.
type manualExec struct {
	tasks []func()
}

func (e *manualExec) Submit(fn func()) error {
	e.tasks = append(e.tasks, fn)
	return nil
}

func (e *manualExec) run() {
	tasks := e.tasks
	e.tasks = nil
	for _, fn := range tasks {
		fn()
	}
}

type recordingSubmitter struct {
	instanced []InstanceBatch
	meshes    []MeshBatch
	layers    []string
}

func (r *recordingSubmitter) SubmitInstanced(layer LayerConfig, b InstanceBatch) {
	r.instanced = append(r.instanced, b)
	r.layers = append(r.layers, layer.Name)
}

func (r *recordingSubmitter) SubmitMesh(layer LayerConfig, b MeshBatch) {
	r.meshes = append(r.meshes, b)
	r.layers = append(r.layers, layer.Name)
}

// testConfig is a 10x10 cell grid over a 100 unit terrain with a 15 unit
// cull distance.
func testConfig(mode RenderMode) Config {
	cfg := DefaultConfig()
	cfg.Mode = mode
	cfg.CellSize = math.Vec2{X: 10, Y: 10}
	cfg.CullDistance = 15
	cfg.Falloff = FalloffNone
	cfg.Layers[0].DetailThreshold = 0.5
	return cfg
}

const gomathPi = gomath.Pi

func approx(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}
