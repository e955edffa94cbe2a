// Package grass scatters vegetation over a terrain. It partitions the terrain
// into square cells, tracks which cells are visible from the camera, builds
// per-cell instance data on background workers and regroups the results into
// render batches.
package grass

import (
	"cmp"
	"fmt"
	"slices"
)

// CellIndex addresses one cell of the grid. It is comparable and used as a
// map key.
type CellIndex struct {
	X, Y int
}

// Hash packs the index into a single integer.
func (c CellIndex) Hash() int {
	return c.X + c.Y<<16
}

func (c CellIndex) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Compare orders indices row by row.
func (c CellIndex) Compare(other CellIndex) int {
	if r := cmp.Compare(c.Y, other.Y); r != 0 {
		return r
	}
	return cmp.Compare(c.X, other.X)
}

// Transition is the per-pass visibility change of a cell.
type Transition int

const (
	Unchanged Transition = iota
	Entered
	Exited
)

func (t Transition) String() string {
	switch t {
	case Unchanged:
		return "unchanged"
	case Entered:
		return "entered"
	case Exited:
		return "exited"
	default:
		return fmt.Sprintf("Transition(%d)", int(t))
	}
}

func sortIndices(s []CellIndex) {
	slices.SortFunc(s, CellIndex.Compare)
}

// setToSorted returns the keys of a cell set in row order.
func setToSorted(set map[CellIndex]struct{}) []CellIndex {
	out := make([]CellIndex, 0, len(set))
	for idx := range set {
		out = append(out, idx)
	}
	sortIndices(out)
	return out
}

// CellState is the build state of a cell within one layer.
type CellState int

const (
	Inactive CellState = iota
	Requested
	Building
	Committed
)

func (s CellState) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Requested:
		return "requested"
	case Building:
		return "building"
	case Committed:
		return "committed"
	default:
		return fmt.Sprintf("CellState(%d)", int(s))
	}
}
