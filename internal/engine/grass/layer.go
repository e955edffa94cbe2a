package grass

import (
	"go.uber.org/zap"

	"github.com/Faultbox/grassfield/internal/engine/camera"
	"github.com/Faultbox/grassfield/internal/engine/terrain"
	"github.com/Faultbox/grassfield/internal/logger"
	"github.com/Faultbox/grassfield/pkg/math"
)

// Layer runs the visibility, build and batching pipeline for one vegetation
// type.
type Layer struct {
	cfg      LayerConfig
	mode     RenderMode
	cull     float32
	grid     *Grid
	vis      *Visibility
	sched    *Scheduler
	strategy Strategy
	batches  Batches
	log      *zap.Logger
}

func newLayer(sys Config, cfg LayerConfig, t *terrain.Terrain, grid *Grid, random *RandomTable, exec Executor) *Layer {
	l := &Layer{
		cfg:  cfg,
		mode: sys.Mode,
		cull: sys.layerCull(cfg),
		grid: grid,
		log:  logger.Named("grass.layer").With(zap.String("layer", cfg.Name)),
	}
	l.vis = NewVisibility(grid, l.cull)
	l.sched = NewScheduler(l.newBuilder(sys, t, random), exec, sys.MaxInflight, grid.Len()/2)
	l.strategy = l.newStrategy(sys, t)
	return l
}

func (l *Layer) newBuilder(sys Config, t *terrain.Terrain, random *RandomTable) *Builder {
	return NewBuilder(t, l.cfg, BuildParams{
		Mode:         l.mode,
		MaxDensity:   sys.MaxDensity,
		CullDistance: l.cull,
		Falloff:      sys.Falloff,
	}, random)
}

func (l *Layer) newStrategy(sys Config, t *terrain.Terrain) Strategy {
	if l.mode == ModeCombined {
		return &CombinedStrategy{
			MaxPerBatch:  sys.MaxCountPerBatch,
			CullDistance: l.cull,
			Layer:        l.cfg,
			Terrain:      t,
		}
	}
	return &InstancedStrategy{MaxPerBatch: sys.MaxInstancesPerBatch}
}

// Config returns the layer configuration.
func (l *Layer) Config() LayerConfig {
	return l.cfg
}

// State returns the build state of a cell.
func (l *Layer) State(idx CellIndex) CellState {
	return l.sched.State(idx)
}

// Batches returns the draws produced by the last rebuild.
func (l *Layer) Batches() Batches {
	return l.batches
}

// refresh applies a visibility pass: exited cells are removed before
// entered cells are requested.
func (l *Layer) refresh(view camera.View) Diff {
	d := l.vis.Update(view)
	for _, idx := range d.Exited {
		l.sched.Remove(idx)
	}
	for _, idx := range d.Entered {
		l.sched.Create(idx, l.grid.Footprint(idx), view)
	}
	if d.Changed() {
		l.log.Debug("visibility changed",
			zap.Int("entered", len(d.Entered)),
			zap.Int("exited", len(d.Exited)),
			zap.Int("active", l.vis.Len()))
	}
	return d
}

// sync rebuilds batches when needed. Instanced layers follow committed
// data; combined layers wait for the queue to drain, or rebuild on camera
// change while idle since their quads face the camera.
func (l *Layer) sync(view camera.View, moved bool) {
	changed := l.sched.TakeChanged()
	drained := l.sched.TakeDrained()

	rebuild := changed
	if l.mode == ModeCombined {
		rebuild = drained || (moved && l.sched.Idle())
	}
	if rebuild {
		l.batches = l.strategy.Assemble(l.sched.Committed(), view)
	}
}

func (l *Layer) reset(sys Config, t *terrain.Terrain, grid *Grid, random *RandomTable) {
	l.grid = grid
	l.vis.Reset(grid)
	l.sched.Reset(l.newBuilder(sys, t, random))
	l.strategy = l.newStrategy(sys, t)
	l.batches = Batches{}
}

// Stats returns the layer counters.
func (l *Layer) Stats() LayerStats {
	return LayerStats{
		Name:      l.cfg.Name,
		Active:    l.vis.Len(),
		Committed: len(l.sched.committed),
		Instances: l.sched.Instances(),
		Batches:   l.batches.Len(),
		Pending:   l.sched.Pending(),
	}
}

// ActiveBounds returns the culling boxes of the active cells.
func (l *Layer) ActiveBounds() []math.AABB {
	cells := l.vis.Active()
	out := make([]math.AABB, len(cells))
	for i, idx := range cells {
		out[i] = l.grid.Bounds(idx)
	}
	return out
}
