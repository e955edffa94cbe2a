package grass

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/grassfield/internal/engine/camera"
	"github.com/Faultbox/grassfield/internal/engine/terrain"
	"github.com/Faultbox/grassfield/internal/logger"
	"github.com/Faultbox/grassfield/pkg/math"
)

// Submitter receives draws from System.Render.
type Submitter interface {
	SubmitInstanced(layer LayerConfig, batch InstanceBatch)
	SubmitMesh(layer LayerConfig, batch MeshBatch)
}

// LayerStats are per-layer counters.
type LayerStats struct {
	Name      string
	Active    int
	Committed int
	Instances int
	Batches   int
	Pending   int
}

// Stats are system counters, one entry per layer.
type Stats struct {
	Layers []LayerStats
}

// Instances returns the total committed instance count.
func (s Stats) Instances() int {
	n := 0
	for _, l := range s.Layers {
		n += l.Instances
	}
	return n
}

// Batches returns the total draw count.
func (s Stats) Batches() int {
	n := 0
	for _, l := range s.Layers {
		n += l.Batches
	}
	return n
}

// System owns every grass layer over one terrain. All methods must be
// called from the same goroutine.
type System struct {
	cfg     Config
	terrain *terrain.Terrain
	exec    Executor
	grid    *Grid
	random  *RandomTable
	layers  []*Layer

	hasLast  bool
	lastView camera.View
	closed   bool

	log *zap.Logger
}

// NewSystem validates cfg and creates one layer per LayerConfig. A nil
// terrain is treated as not loaded.
func NewSystem(cfg Config, t *terrain.Terrain, exec Executor) (*System, error) {
	if exec == nil {
		return nil, fmt.Errorf("%w: nil executor", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkTerrain(cfg, t); err != nil {
		return nil, err
	}

	s := &System{
		cfg:    cfg,
		exec:   exec,
		random: NewRandomTable(),
		log:    logger.Named("grass"),
	}
	s.terrain = t
	s.grid = s.newGrid(t)
	for _, lc := range cfg.Layers {
		s.layers = append(s.layers, newLayer(cfg, lc, t, s.grid, s.random, exec))
	}

	cx, cy := s.grid.CellCount()
	s.log.Info("grass system created",
		zap.Stringer("mode", cfg.Mode),
		zap.Int("layers", len(s.layers)),
		zap.Int("cellsX", cx),
		zap.Int("cellsY", cy))
	return s, nil
}

// checkTerrain verifies loaded density data covers every brush.
func checkTerrain(cfg Config, t *terrain.Terrain) error {
	if !t.Ready() {
		return nil
	}
	layers := t.Density.Layers()
	var errs []error
	for _, l := range cfg.Layers {
		if l.BrushIndex >= layers {
			errs = append(errs, fmt.Errorf("%w: layer %s uses brush %d, terrain has %d",
				terrain.ErrLayerMismatch, l.Name, l.BrushIndex, layers))
		}
	}
	return errors.Join(errs...)
}

func (s *System) newGrid(t *terrain.Terrain) *Grid {
	var pos, size math.Vec3
	if t != nil {
		pos, size = t.Position, t.Size
	}
	return NewGrid(pos, size, s.cfg.CellSize, t)
}

// Layers returns the layers in config order.
func (s *System) Layers() []*Layer {
	return s.layers
}

// Grid returns the current grid.
func (s *System) Grid() *Grid {
	return s.grid
}

// Update advances the system one frame. It commits finished builds and, when
// the camera moved or turned past the configured thresholds, runs a
// visibility pass. It reports whether visibility was recomputed.
func (s *System) Update(view camera.View) bool {
	if s.closed || !s.terrain.Ready() {
		return false
	}

	for _, l := range s.layers {
		l.sched.Poll()
	}

	moved := s.shouldRefresh(view)
	if moved {
		s.hasLast = true
		s.lastView = view
		for _, l := range s.layers {
			l.refresh(view)
		}
	}

	for _, l := range s.layers {
		l.sync(view, moved)
	}
	return moved
}

func (s *System) shouldRefresh(view camera.View) bool {
	if !s.hasLast {
		return true
	}
	if view.Position.Sub(s.lastView.Position).LengthSquared() >= s.cfg.MoveThreshold {
		return true
	}
	return view.Rotation.Angle(s.lastView.Rotation) >= s.cfg.RotateThreshold
}

// Render hands every layer's draws to sub.
func (s *System) Render(sub Submitter) {
	for _, l := range s.layers {
		for _, b := range l.batches.Instanced {
			sub.SubmitInstanced(l.cfg, b)
		}
		for _, m := range l.batches.Meshes {
			sub.SubmitMesh(l.cfg, m)
		}
	}
}

// Stats returns the current counters.
func (s *System) Stats() Stats {
	st := Stats{Layers: make([]LayerStats, len(s.layers))}
	for i, l := range s.layers {
		st.Layers[i] = l.Stats()
	}
	return st
}

// ActiveBounds returns the culling boxes of a layer's active cells, or nil
// for an unknown layer.
func (s *System) ActiveBounds(layer int) []math.AABB {
	if layer < 0 || layer >= len(s.layers) {
		return nil
	}
	return s.layers[layer].ActiveBounds()
}

// SetTerrain swaps the terrain snapshot. All cells are dropped and builds in
// flight are discarded; the next Update recomputes visibility.
func (s *System) SetTerrain(t *terrain.Terrain) error {
	if err := checkTerrain(s.cfg, t); err != nil {
		return err
	}
	s.terrain = t
	s.grid = s.newGrid(t)
	for _, l := range s.layers {
		l.reset(s.cfg, t, s.grid, s.random)
	}
	s.hasLast = false
	s.log.Info("terrain replaced", zap.Bool("ready", t.Ready()))
	return nil
}

// Wait blocks until every layer has finished its pending builds, then
// rebuilds batches for the last camera.
func (s *System) Wait(ctx context.Context) error {
	for _, l := range s.layers {
		if err := l.sched.Wait(ctx); err != nil {
			return err
		}
	}
	for _, l := range s.layers {
		l.sync(s.lastView, false)
	}
	return nil
}

// Close drops all cells. Builds still running finish on the executor and
// are discarded. The executor is not closed.
func (s *System) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, l := range s.layers {
		l.reset(s.cfg, nil, s.grid, s.random)
	}
	s.log.Debug("grass system closed")
}
