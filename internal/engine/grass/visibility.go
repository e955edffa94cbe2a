package grass

import (
	"github.com/Faultbox/grassfield/internal/engine/camera"
	"github.com/Faultbox/grassfield/pkg/math"
)

// Diff is the result of one visibility pass. Each slice is sorted in row
// order.
type Diff struct {
	Entered   []CellIndex
	Exited    []CellIndex
	Unchanged []CellIndex
}

// Changed reports whether any cell entered or exited.
func (d Diff) Changed() bool {
	return len(d.Entered) > 0 || len(d.Exited) > 0
}

// Transition returns how idx changed in this pass. Cells outside both sets
// report Unchanged.
func (d Diff) Transition(idx CellIndex) Transition {
	for _, c := range d.Entered {
		if c == idx {
			return Entered
		}
	}
	for _, c := range d.Exited {
		if c == idx {
			return Exited
		}
	}
	return Unchanged
}

// Visibility tracks the set of cells accepted by the last pass for one
// layer. It is owned by a single goroutine.
type Visibility struct {
	grid   *Grid
	cull   float32
	active map[CellIndex]struct{}
}

// NewVisibility creates an empty visibility set.
func NewVisibility(grid *Grid, cullDistance float32) *Visibility {
	return &Visibility{
		grid:   grid,
		cull:   cullDistance,
		active: make(map[CellIndex]struct{}, grid.Len()/2),
	}
}

// CullDistance returns the acceptance radius.
func (v *Visibility) CullDistance() float32 {
	return v.cull
}

// Visible returns the cells accepted from a camera position and frustum:
// within cullDistance of the cell center and not entirely outside the
// frustum.
func (v *Visibility) Visible(position math.Vec3, frustum *math.Frustum) map[CellIndex]struct{} {
	out := make(map[CellIndex]struct{})
	cx, cy := v.grid.CellCount()
	if cx == 0 || cy == 0 {
		return out
	}

	reach := math.Vec2{X: v.cull, Y: v.cull}
	lo := v.grid.Clamp(v.grid.IndexFromPosition(position.XZ().Sub(reach)))
	hi := v.grid.Clamp(v.grid.IndexFromPosition(position.XZ().Add(reach)))

	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			idx := CellIndex{X: x, Y: y}
			if position.Distance(v.grid.Center(idx)) > v.cull {
				continue
			}
			if frustum.TestAABB(v.grid.Bounds(idx)) == math.Outside {
				continue
			}
			out[idx] = struct{}{}
		}
	}
	return out
}

// Update runs a visibility pass for view, replaces the active set and
// returns the difference against the previous one.
func (v *Visibility) Update(view camera.View) Diff {
	frustum := view.Frustum()
	now := v.Visible(view.Position, &frustum)

	var d Diff
	for idx := range now {
		if _, ok := v.active[idx]; ok {
			d.Unchanged = append(d.Unchanged, idx)
		} else {
			d.Entered = append(d.Entered, idx)
		}
	}
	for idx := range v.active {
		if _, ok := now[idx]; !ok {
			d.Exited = append(d.Exited, idx)
		}
	}
	sortIndices(d.Entered)
	sortIndices(d.Exited)
	sortIndices(d.Unchanged)

	v.active = now
	return d
}

// Contains reports whether idx was accepted by the last pass.
func (v *Visibility) Contains(idx CellIndex) bool {
	_, ok := v.active[idx]
	return ok
}

// Active returns the accepted cells in row order.
func (v *Visibility) Active() []CellIndex {
	return setToSorted(v.active)
}

// Len returns the number of accepted cells.
func (v *Visibility) Len() int {
	return len(v.active)
}

// Reset forgets every accepted cell, optionally switching to a new grid.
func (v *Visibility) Reset(grid *Grid) {
	if grid != nil {
		v.grid = grid
	}
	v.active = make(map[CellIndex]struct{}, v.grid.Len()/2)
}
