// Package debug provides debug visualization utilities for the grass
// pipeline.
package debug

import "github.com/Faultbox/grassfield/pkg/math"

// BoxVertexCount is the number of vertices in one box wireframe (12 edges x 2).
const BoxVertexCount = 24

// BoxWireframe returns line vertices for a box as [x, y, z] triples.
func BoxWireframe(b math.AABB) []float32 {
	return appendBox(make([]float32, 0, BoxVertexCount*3), b)
}

// CellWireframe returns line vertices for a list of cell bounds, 24 vertices
// per box.
func CellWireframe(bounds []math.AABB) []float32 {
	out := make([]float32, 0, len(bounds)*BoxVertexCount*3)
	for _, b := range bounds {
		out = appendBox(out, b)
	}
	return out
}

func appendBox(out []float32, b math.AABB) []float32 {
	minX, minY, minZ := b.Min.X, b.Min.Y, b.Min.Z
	maxX, maxY, maxZ := b.Max.X, b.Max.Y, b.Max.Z
	return append(out,
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	)
}

// Expand grows a box by padding on every side.
func Expand(b math.AABB, padding float32) math.AABB {
	p := math.Vec3{X: padding, Y: padding, Z: padding}
	return math.AABB{Min: b.Min.Sub(p), Max: b.Max.Add(p)}
}
