package grass

import (
	"context"
	"errors"
	"testing"

	"github.com/Faultbox/grassfield/internal/engine/terrain"
	"github.com/Faultbox/grassfield/pkg/math"
)

func newTestSystem(t *testing.T, cfg Config, tr *terrain.Terrain) *System {
	t.Helper()
	s, err := NewSystem(cfg, tr, inlineExec{})
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestSystemRecomputeGating(t *testing.T) {
	s := newTestSystem(t, testConfig(ModeInstanced), flatTerrain(100, 255))

	if !s.Update(overheadView(math.Vec3{})) {
		t.Fatal("first update must recompute")
	}
	if s.Update(overheadView(math.Vec3{X: 0.5})) {
		t.Error("0.5 unit move (0.25 squared) must not recompute")
	}
	if !s.Update(overheadView(math.Vec3{X: 2})) {
		t.Error("2 unit move must recompute")
	}

	turned := overheadView(math.Vec3{X: 2})
	turned.Rotation = math.QuatYaw(3 * gomathPi / 180)
	if s.Update(turned) {
		t.Error("3 degree turn must not recompute")
	}
	turned.Rotation = math.QuatYaw(6 * gomathPi / 180)
	if !s.Update(turned) {
		t.Error("6 degree turn must recompute")
	}
}

func TestSystemOriginScenario(t *testing.T) {
	s := newTestSystem(t, testConfig(ModeInstanced), flatTerrain(100, 255))
	s.Update(overheadView(math.Vec3{}))

	bounds := s.ActiveBounds(0)
	if len(bounds) != 1 {
		t.Fatalf("expected exactly one active cell, got %d", len(bounds))
	}
	if c := bounds[0].Center(); c != (math.Vec3{X: 5, Y: 5, Z: 5}) {
		t.Errorf("expected cell centered at (5,5,5), got %v", c)
	}
}

func TestSystemActiveSetInvariant(t *testing.T) {
	for _, mode := range []RenderMode{ModeInstanced, ModeCombined} {
		t.Run(mode.String(), func(t *testing.T) {
			cfg := testConfig(mode)
			cfg.CullDistance = 30
			s := newTestSystem(t, cfg, flatTerrain(100, 255))

			for _, pos := range []math.Vec3{{X: 10, Z: 10}, {X: 50, Z: 40}, {X: 80, Z: 90}} {
				s.Update(overheadView(pos))
				if err := s.Wait(context.Background()); err != nil {
					t.Fatalf("Wait: %v", err)
				}

				l := s.Layers()[0]
				active := l.vis.Active()
				sched := l.sched.Active()
				if len(active) != len(sched) {
					t.Fatalf("visibility has %d cells, scheduler %d", len(active), len(sched))
				}
				for i := range active {
					if active[i] != sched[i] {
						t.Fatalf("active sets differ at %d: %v vs %v", i, active[i], sched[i])
					}
				}
				for _, c := range l.sched.Committed() {
					if !l.vis.Contains(c.Index) {
						t.Fatalf("committed cell %v is not visible", c.Index)
					}
				}

				st := s.Stats().Layers[0]
				if st.Committed != st.Active || st.Pending != 0 {
					t.Errorf("after Wait: expected all %d active cells committed, got %+v", st.Active, st)
				}
			}
		})
	}
}

func TestSystemRenderMatchesAccumulator(t *testing.T) {
	for _, mode := range []RenderMode{ModeInstanced, ModeCombined} {
		t.Run(mode.String(), func(t *testing.T) {
			cfg := testConfig(mode)
			cfg.CullDistance = 40
			cfg.MaxInstancesPerBatch = 500
			cfg.MaxCountPerBatch = 700
			cfg.Layers = append(cfg.Layers, DefaultLayer("flowers"))
			s := newTestSystem(t, cfg, flatTerrain(100, 255))

			s.Update(overheadView(math.Vec3{X: 50, Z: 50}))
			if err := s.Wait(context.Background()); err != nil {
				t.Fatalf("Wait: %v", err)
			}

			var sub recordingSubmitter
			s.Render(&sub)

			rendered := 0
			for _, b := range sub.instanced {
				if b.Len() > 500 {
					t.Errorf("instanced batch of %d over limit", b.Len())
				}
				rendered += b.Len()
			}
			for _, m := range sub.meshes {
				if m.Len() > 700 {
					t.Errorf("mesh of %d quads over limit", m.Len())
				}
				rendered += m.Len()
			}

			st := s.Stats()
			if st.Instances() == 0 {
				t.Fatal("expected instances")
			}
			if rendered != st.Instances() {
				t.Errorf("rendered %d instances, accumulators hold %d", rendered, st.Instances())
			}
			if len(sub.layers) != st.Batches() {
				t.Errorf("submitted %d draws, stats report %d", len(sub.layers), st.Batches())
			}
			if mode == ModeInstanced && len(sub.meshes) != 0 {
				t.Error("instanced mode submitted meshes")
			}
			if mode == ModeCombined && len(sub.instanced) != 0 {
				t.Error("combined mode submitted instanced batches")
			}
		})
	}
}

func TestSystemDeterministic(t *testing.T) {
	run := func() []InstanceBatch {
		s := newTestSystem(t, testConfig(ModeInstanced), flatTerrain(100, 180))
		s.Update(overheadView(math.Vec3{X: 33, Z: 47}))
		if err := s.Wait(context.Background()); err != nil {
			t.Fatalf("Wait: %v", err)
		}
		var sub recordingSubmitter
		s.Render(&sub)
		return sub.instanced
	}

	a, b := run(), run()
	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("expected matching non-empty batch lists, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Len() != b[i].Len() {
			t.Fatalf("batch %d: sizes differ", i)
		}
		for j := range a[i].Transforms {
			if a[i].Transforms[j] != b[i].Transforms[j] {
				t.Fatalf("batch %d transform %d differs", i, j)
			}
		}
	}
}

func TestSystemTerrainNotReady(t *testing.T) {
	s := newTestSystem(t, testConfig(ModeInstanced), terrain.Empty(math.Vec3{}, math.Vec3{X: 100, Z: 100}))

	if s.Update(overheadView(math.Vec3{})) {
		t.Error("update without terrain data must be a no-op")
	}
	if st := s.Stats().Layers[0]; st.Active != 0 || st.Instances != 0 {
		t.Errorf("expected empty stats, got %+v", st)
	}

	if err := s.SetTerrain(flatTerrain(100, 255)); err != nil {
		t.Fatalf("SetTerrain: %v", err)
	}
	if !s.Update(overheadView(math.Vec3{})) {
		t.Error("expected recompute once terrain is ready")
	}
}

func TestSystemSetTerrainResets(t *testing.T) {
	s := newTestSystem(t, testConfig(ModeInstanced), flatTerrain(100, 255))
	view := overheadView(math.Vec3{X: 50, Z: 50})
	s.Update(view)
	if err := s.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if s.Stats().Instances() == 0 {
		t.Fatal("expected instances before reload")
	}

	if err := s.SetTerrain(flatTerrain(100, 0)); err != nil {
		t.Fatalf("SetTerrain: %v", err)
	}
	if st := s.Stats().Layers[0]; st.Active != 0 || st.Committed != 0 || st.Batches != 0 {
		t.Errorf("expected reset after terrain swap, got %+v", st)
	}

	if !s.Update(view) {
		t.Error("expected recompute after terrain swap even without camera movement")
	}
	if err := s.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if s.Stats().Instances() != 0 {
		t.Error("zero-density terrain should produce no instances")
	}
}

func TestSystemLayerMismatch(t *testing.T) {
	cfg := testConfig(ModeInstanced)
	cfg.Layers[0].BrushIndex = 3

	_, err := NewSystem(cfg, flatTerrain(100, 255), inlineExec{})
	if !errors.Is(err, terrain.ErrLayerMismatch) {
		t.Fatalf("expected ErrLayerMismatch, got %v", err)
	}

	s := newTestSystem(t, cfg, nil)
	if err := s.SetTerrain(flatTerrain(100, 255)); !errors.Is(err, terrain.ErrLayerMismatch) {
		t.Errorf("SetTerrain: expected ErrLayerMismatch, got %v", err)
	}
}

func TestSystemInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero cell size", func(c *Config) { c.CellSize = math.Vec2{} }},
		{"no layers", func(c *Config) { c.Layers = nil }},
		{"oversized mesh", func(c *Config) { c.MaxCountPerBatch = MaxQuadsPerMesh + 1 }},
		{"oversized instanced draw", func(c *Config) { c.MaxInstancesPerBatch = DefaultMaxInstancesPerBatch + 1 }},
		{"threshold above one", func(c *Config) { c.Layers[0].DetailThreshold = 2 }},
		{"zero cull", func(c *Config) { c.CullDistance = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(ModeInstanced)
			tt.modify(&cfg)
			if _, err := NewSystem(cfg, nil, inlineExec{}); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if _, err := NewSystem(testConfig(ModeInstanced), nil, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("nil executor: expected ErrInvalidConfig, got %v", err)
	}
}

func TestSystemActiveBoundsUnknownLayer(t *testing.T) {
	s := newTestSystem(t, testConfig(ModeInstanced), flatTerrain(100, 255))
	if s.ActiveBounds(5) != nil || s.ActiveBounds(-1) != nil {
		t.Error("expected nil bounds for unknown layer")
	}
}

func TestSystemClose(t *testing.T) {
	s, err := NewSystem(testConfig(ModeInstanced), flatTerrain(100, 255), inlineExec{})
	if err != nil {
		t.Fatal(err)
	}
	s.Update(overheadView(math.Vec3{X: 50, Z: 50}))
	s.Close()
	if s.Update(overheadView(math.Vec3{X: 10, Z: 10})) {
		t.Error("update after Close must be a no-op")
	}
	if s.Stats().Instances() != 0 {
		t.Error("expected no instances after Close")
	}
}
