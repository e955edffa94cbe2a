package grass

import (
	"fmt"

	"github.com/Faultbox/grassfield/internal/engine/camera"
	"github.com/Faultbox/grassfield/internal/engine/terrain"
	"github.com/Faultbox/grassfield/pkg/math"
)

const (
	// DefaultMaxInstancesPerBatch is the largest instanced draw the batcher emits.
	DefaultMaxInstancesPerBatch = 1022
	// DefaultMaxCountPerBatch is the default quad count per combined mesh.
	DefaultMaxCountPerBatch = 2048
	// MaxQuadsPerMesh keeps every vertex addressable by a uint16 index.
	MaxQuadsPerMesh = 16384

	quadVertices = 4
	quadIndices  = 6
)

// RenderMode selects how a layer's instances reach the renderer.
type RenderMode int

const (
	// ModeInstanced submits per-instance transforms for a shared mesh.
	ModeInstanced RenderMode = iota
	// ModeCombined bakes camera-facing quads into merged meshes.
	ModeCombined
)

func (m RenderMode) String() string {
	switch m {
	case ModeInstanced:
		return "instanced"
	case ModeCombined:
		return "combined"
	default:
		return fmt.Sprintf("RenderMode(%d)", int(m))
	}
}

// InstanceBatch is one instanced draw.
type InstanceBatch struct {
	Transforms []math.Mat4
}

// Len returns the instance count.
func (b InstanceBatch) Len() int {
	return len(b.Transforms)
}

// MeshBatch is one merged quad mesh. UVs carry texture coordinates in xy
// and the layer cull distance in zw.
type MeshBatch struct {
	Vertices []math.Vec3
	Normals  []math.Vec3
	UVs      [][4]float32
	Indices  []uint16
}

// Len returns the quad count.
func (b MeshBatch) Len() int {
	return len(b.Vertices) / quadVertices
}

// Batches is the full render output of one layer.
type Batches struct {
	Instanced []InstanceBatch
	Meshes    []MeshBatch
}

// Len returns the number of draws.
func (b Batches) Len() int {
	return len(b.Instanced) + len(b.Meshes)
}

// Instances returns the number of instances across all draws.
func (b Batches) Instances() int {
	n := 0
	for _, ib := range b.Instanced {
		n += ib.Len()
	}
	for _, mb := range b.Meshes {
		n += mb.Len()
	}
	return n
}

// Strategy regroups committed cells into draws. cells arrive in row order
// and every call fully replaces the previous output.
type Strategy interface {
	Mode() RenderMode
	Assemble(cells []CellData, view camera.View) Batches
}

// InstancedStrategy splits transforms into fixed-size instanced draws.
type InstancedStrategy struct {
	MaxPerBatch int
}

// Mode implements Strategy.
func (s *InstancedStrategy) Mode() RenderMode { return ModeInstanced }

// Assemble implements Strategy.
func (s *InstancedStrategy) Assemble(cells []CellData, _ camera.View) Batches {
	limit := s.MaxPerBatch
	if limit <= 0 {
		limit = DefaultMaxInstancesPerBatch
	}
	limit = min(limit, DefaultMaxInstancesPerBatch)

	var out Batches
	cur := make([]math.Mat4, 0, limit)
	for _, c := range cells {
		for _, m := range c.Transforms {
			cur = append(cur, m)
			if len(cur) == limit {
				out.Instanced = append(out.Instanced, InstanceBatch{Transforms: cur})
				cur = make([]math.Mat4, 0, limit)
			}
		}
	}
	if len(cur) > 0 {
		out.Instanced = append(out.Instanced, InstanceBatch{Transforms: cur})
	}
	return out
}

// CombinedStrategy turns point samples into camera-facing quads and packs
// them into meshes.
type CombinedStrategy struct {
	MaxPerBatch  int
	CullDistance float32
	Layer        LayerConfig
	Terrain      *terrain.Terrain
}

// Mode implements Strategy.
func (s *CombinedStrategy) Mode() RenderMode { return ModeCombined }

// Assemble implements Strategy.
func (s *CombinedStrategy) Assemble(cells []CellData, view camera.View) Batches {
	limit := s.MaxPerBatch
	if limit <= 0 {
		limit = DefaultMaxCountPerBatch
	}
	limit = min(limit, MaxQuadsPerMesh)

	facing := math.QuatYaw(view.Yaw())
	var origin math.Vec3
	if s.Terrain != nil {
		origin = s.Terrain.Position
	}

	var out Batches
	var cur *MeshBatch
	for _, c := range cells {
		for _, p := range c.Points {
			if cur == nil || cur.Len() == limit {
				out.Meshes = append(out.Meshes, newMeshBatch(limit))
				cur = &out.Meshes[len(out.Meshes)-1]
			}
			normal, scale := placement(s.Terrain, s.Layer, p.Sub(origin).XZ())
			cur.addQuad(p, facing.Mul(math.QuatFromTo(math.Up, normal)), scale, s.CullDistance)
		}
	}
	return out
}

func newMeshBatch(quads int) MeshBatch {
	return MeshBatch{
		Vertices: make([]math.Vec3, 0, quads*quadVertices),
		Normals:  make([]math.Vec3, 0, quads*quadVertices),
		UVs:      make([][4]float32, 0, quads*quadVertices),
		Indices:  make([]uint16, 0, quads*quadIndices),
	}
}

var (
	axisRight   = math.Vec3{X: 1}
	axisForward = math.Vec3{Z: 1}
)

// addQuad appends a quad standing on pos, rotated by rot.
func (b *MeshBatch) addQuad(pos math.Vec3, rot math.Quat, scale math.Vec3, cull float32) {
	right := rot.Rotate(axisRight).Scale(scale.X * 0.5)
	up := rot.Rotate(math.Up).Scale(scale.Y)

	base := uint16(len(b.Vertices))
	b.Vertices = append(b.Vertices,
		pos.Sub(right).Add(up),
		pos.Add(right).Add(up),
		pos.Add(right),
		pos.Sub(right),
	)
	n0 := rot.Rotate(math.Up)
	n1 := rot.Rotate(axisForward)
	b.Normals = append(b.Normals, n0, n0, n1, n1)
	b.UVs = append(b.UVs,
		[4]float32{0, 1, cull, cull},
		[4]float32{1, 1, cull, cull},
		[4]float32{1, 0, cull, cull},
		[4]float32{0, 0, cull, cull},
	)
	b.Indices = append(b.Indices, base, base+1, base+2, base+2, base+3, base)
}

// Quad returns the unit quad used as the shared mesh for instanced layers
// with UseQuad set. It is one unit wide, one unit tall and stands on the
// origin.
func Quad() MeshBatch {
	m := newMeshBatch(1)
	m.addQuad(math.Vec3{}, math.QuatIdentity(), math.Vec3{X: 1, Y: 1, Z: 1}, 0)
	return m
}
