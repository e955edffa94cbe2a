package grass

import (
	"github.com/Faultbox/grassfield/pkg/math"
)

// HeightSampler returns terrain height above the terrain origin at a
// terrain-local XZ position. *terrain.Terrain satisfies it, including a nil one.
type HeightSampler interface {
	HeightAt(local math.Vec2) float32
}

// Grid maps between world positions and cell indices. Cells are never
// materialized; their geometry is derived from the index on demand.
type Grid struct {
	origin   math.Vec3
	size     math.Vec3
	cellSize math.Vec2
	countX   int
	countY   int
	heights  HeightSampler
}

// NewGrid creates a grid over a terrain placed at terrainPos. A nil heights
// sampler places every cell at height 0.
func NewGrid(terrainPos, terrainSize math.Vec3, cellSize math.Vec2, heights HeightSampler) *Grid {
	g := &Grid{
		origin:   terrainPos,
		size:     terrainSize,
		cellSize: cellSize,
		heights:  heights,
	}
	if cellSize.X > 0 && cellSize.Y > 0 {
		g.countX = math.CeilToInt(terrainSize.X / cellSize.X)
		g.countY = math.CeilToInt(terrainSize.Z / cellSize.Y)
	}
	return g
}

// CellCount returns the number of cells along X and Z.
func (g *Grid) CellCount() (x, y int) {
	return g.countX, g.countY
}

// Len returns the total number of cells.
func (g *Grid) Len() int {
	return g.countX * g.countY
}

// CellSize returns the cell edge lengths.
func (g *Grid) CellSize() math.Vec2 {
	return g.cellSize
}

// Origin returns the terrain position the grid is anchored at.
func (g *Grid) Origin() math.Vec3 {
	return g.origin
}

// IndexFromPosition returns the cell containing a world XZ position. The
// result is not bounds checked.
func (g *Grid) IndexFromPosition(world math.Vec2) CellIndex {
	if g.cellSize.X <= 0 || g.cellSize.Y <= 0 {
		return CellIndex{}
	}
	local := world.Sub(g.origin.XZ())
	return CellIndex{
		X: math.FloorToInt(local.X / g.cellSize.X),
		Y: math.FloorToInt(local.Y / g.cellSize.Y),
	}
}

// Contains reports whether idx lies inside the grid.
func (g *Grid) Contains(idx CellIndex) bool {
	return idx.X >= 0 && idx.Y >= 0 && idx.X < g.countX && idx.Y < g.countY
}

// Footprint returns the terrain-local XZ rectangle covered by a cell.
func (g *Grid) Footprint(idx CellIndex) math.Rect {
	return math.Rect{
		Min:  math.Vec2{X: float32(idx.X) * g.cellSize.X, Y: float32(idx.Y) * g.cellSize.Y},
		Size: g.cellSize,
	}
}

// Center returns the world-space center of a cell. The center sits half a
// cell above the terrain surface at the cell's midpoint.
func (g *Grid) Center(idx CellIndex) math.Vec3 {
	mid := math.Vec2{
		X: float32(idx.X)*g.cellSize.X + g.cellSize.X/2,
		Y: float32(idx.Y)*g.cellSize.Y + g.cellSize.Y/2,
	}
	var h float32
	if g.heights != nil {
		h = g.heights.HeightAt(mid)
	}
	return g.origin.Add(math.Vec3{X: mid.X, Y: h + g.cellSize.Max()/2, Z: mid.Y})
}

// Bounds returns the culling box of a cell.
func (g *Grid) Bounds(idx CellIndex) math.AABB {
	return math.AABBFromCenter(g.Center(idx), math.Vec3{
		X: g.cellSize.X,
		Y: g.cellSize.Max(),
		Z: g.cellSize.Y,
	})
}

// Clamp limits idx to the grid. The grid must not be empty.
func (g *Grid) Clamp(idx CellIndex) CellIndex {
	return CellIndex{
		X: math.Clamp(idx.X, 0, g.countX-1),
		Y: math.Clamp(idx.Y, 0, g.countY-1),
	}
}
