package grass

import (
	"testing"

	"github.com/Faultbox/grassfield/pkg/math"
)

func transformCells(sizes ...int) []CellData {
	cells := make([]CellData, len(sizes))
	n := 0
	for i, size := range sizes {
		cells[i].Index = CellIndex{X: i}
		for j := 0; j < size; j++ {
			cells[i].Transforms = append(cells[i].Transforms, math.Translate(float32(n), 0, 0))
			n++
		}
	}
	return cells
}

func pointCells(sizes ...int) []CellData {
	cells := make([]CellData, len(sizes))
	n := 0
	for i, size := range sizes {
		cells[i].Index = CellIndex{X: i}
		for j := 0; j < size; j++ {
			cells[i].Points = append(cells[i].Points, math.Vec3{X: float32(n % 100), Z: float32(n / 100)})
			n++
		}
	}
	return cells
}

func TestInstancedStrategyCapacity(t *testing.T) {
	tests := []struct {
		name    string
		sizes   []int
		limit   int
		batches int
	}{
		{"empty", nil, 0, 0},
		{"single small", []int{10}, 0, 1},
		{"exact fit", []int{1000, 22}, 0, 1},
		{"spill", []int{1000, 500, 100}, 0, 2},
		{"small limit", []int{7, 7, 7}, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := transformCells(tt.sizes...)
			s := &InstancedStrategy{MaxPerBatch: tt.limit}
			out := s.Assemble(cells, overheadView(math.Vec3{}))

			if len(out.Instanced) != tt.batches {
				t.Fatalf("expected %d batches, got %d", tt.batches, len(out.Instanced))
			}
			limit := tt.limit
			if limit == 0 {
				limit = DefaultMaxInstancesPerBatch
			}

			var got []math.Mat4
			for _, b := range out.Instanced {
				if b.Len() == 0 || b.Len() > limit {
					t.Errorf("batch size %d outside (0, %d]", b.Len(), limit)
				}
				got = append(got, b.Transforms...)
			}
			var want []math.Mat4
			for _, c := range cells {
				want = append(want, c.Transforms...)
			}
			if len(got) != len(want) {
				t.Fatalf("expected %d transforms, got %d", len(want), len(got))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("transform %d differs", i)
				}
			}
		})
	}
}

func TestCombinedStrategyCapacity(t *testing.T) {
	cells := pointCells(3000, 1500, 10)
	s := &CombinedStrategy{
		MaxPerBatch:  2048,
		CullDistance: 80,
		Layer:        DefaultLayer("grass"),
		Terrain:      flatTerrain(100, 0),
	}
	out := s.Assemble(cells, overheadView(math.Vec3{}))

	if len(out.Meshes) != 3 {
		t.Fatalf("expected 3 meshes, got %d", len(out.Meshes))
	}
	if out.Instances() != 4510 {
		t.Errorf("expected 4510 quads, got %d", out.Instances())
	}

	for i, m := range out.Meshes {
		if m.Len() > 2048 {
			t.Errorf("mesh %d: %d quads over limit", i, m.Len())
		}
		if len(m.Indices) != m.Len()*6 || len(m.Normals) != len(m.Vertices) || len(m.UVs) != len(m.Vertices) {
			t.Errorf("mesh %d: inconsistent buffers", i)
		}
		for _, ix := range m.Indices {
			if int(ix) >= len(m.Vertices) {
				t.Fatalf("mesh %d: index %d out of range", i, ix)
			}
		}
		for _, uv := range m.UVs {
			if uv[2] != 80 || uv[3] != 80 {
				t.Fatalf("mesh %d: expected cull distance in uv.zw, got %v", i, uv)
			}
		}
	}
}

func TestCombinedStrategyQuadsStandOnPoints(t *testing.T) {
	cells := pointCells(50)
	s := &CombinedStrategy{Layer: DefaultLayer("grass"), Terrain: flatTerrain(100, 0)}
	out := s.Assemble(cells, overheadView(math.Vec3{}))

	m := out.Meshes[0]
	for q, p := range cells[0].Points {
		base := m.Vertices[q*4+2].Add(m.Vertices[q*4+3]).Scale(0.5)
		if !approx(base.X, p.X) || !approx(base.Y, p.Y) || !approx(base.Z, p.Z) {
			t.Fatalf("quad %d: base midpoint %v, expected %v", q, base, p)
		}
		if top := m.Vertices[q*4]; top.Y <= p.Y {
			t.Fatalf("quad %d: top vertex %v not above base", q, top)
		}
	}
}

func TestInstancedStrategyLimitClamped(t *testing.T) {
	s := &InstancedStrategy{MaxPerBatch: 5000}
	out := s.Assemble(transformCells(3000), overheadView(math.Vec3{}))
	if len(out.Instanced) != 3 {
		t.Fatalf("expected 3000 instances split at %d, got %d batches", DefaultMaxInstancesPerBatch, len(out.Instanced))
	}
	for i, b := range out.Instanced {
		if b.Len() > DefaultMaxInstancesPerBatch {
			t.Errorf("batch %d: %d instances exceeds %d", i, b.Len(), DefaultMaxInstancesPerBatch)
		}
	}
	if out.Instances() != 3000 {
		t.Errorf("expected 3000 instances, got %d", out.Instances())
	}
}

func TestCombinedStrategyLimitClamped(t *testing.T) {
	s := &CombinedStrategy{MaxPerBatch: 1 << 20, Layer: DefaultLayer("grass")}
	out := s.Assemble(pointCells(MaxQuadsPerMesh+1), overheadView(math.Vec3{}))
	if len(out.Meshes) != 2 {
		t.Fatalf("expected split at %d quads, got %d meshes", MaxQuadsPerMesh, len(out.Meshes))
	}
	if out.Meshes[0].Len() != MaxQuadsPerMesh {
		t.Errorf("expected first mesh to hold %d quads, got %d", MaxQuadsPerMesh, out.Meshes[0].Len())
	}
}

func TestQuad(t *testing.T) {
	q := Quad()

	wantVerts := []math.Vec3{
		{X: -0.5, Y: 1}, {X: 0.5, Y: 1}, {X: 0.5}, {X: -0.5},
	}
	for i, v := range wantVerts {
		if q.Vertices[i] != v {
			t.Errorf("vertex %d: expected %v, got %v", i, v, q.Vertices[i])
		}
	}
	wantIdx := []uint16{0, 1, 2, 2, 3, 0}
	for i, ix := range wantIdx {
		if q.Indices[i] != ix {
			t.Errorf("index %d: expected %d, got %d", i, ix, q.Indices[i])
		}
	}
	if q.Normals[0] != math.Up || q.Normals[2] != (math.Vec3{Z: 1}) {
		t.Errorf("unexpected normals %v", q.Normals)
	}
	if q.UVs[0][0] != 0 || q.UVs[0][1] != 1 || q.UVs[2][0] != 1 || q.UVs[2][1] != 0 {
		t.Errorf("unexpected uvs %v", q.UVs)
	}
}
