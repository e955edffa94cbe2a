package grass

import (
	"golang.org/x/exp/rand"

	"github.com/Faultbox/grassfield/pkg/math"
)

const (
	// RandomTableSize is the number of precomputed jitter values.
	RandomTableSize = 9999
	randomTableSeed = 9999
)

// RandomTable is a fixed table of uniform values in [0,1). Lookups are keyed
// by position and instance number so placement is reproducible across runs
// and independent of build order. It is read-only after construction.
type RandomTable struct {
	values []float32
}

// NewRandomTable fills a table from a PCG source with a fixed seed.
func NewRandomTable() *RandomTable {
	r := rand.New(rand.NewSource(randomTableSeed))
	values := make([]float32, RandomTableSize)
	for i := range values {
		values[i] = r.Float32()
	}
	return &RandomTable{values: values}
}

// Len returns the table size.
func (t *RandomTable) Len() int {
	return len(t.values)
}

// Value returns entry i modulo the table size.
func (t *RandomTable) Value(i int) float32 {
	return t.values[mod(i, len(t.values))]
}

// Jitter displaces a pixel position by up to one pixel footprint in each
// axis. seed selects the instance within the pixel.
func (t *RandomTable) Jitter(pos, pixelToTerrain math.Vec2, seed int) math.Vec2 {
	n := len(t.values)
	x := int(pos.X * 1000)
	z := int(pos.Y * 1000)

	seedX := mod(x*x*z+2*z*z*x+seed, n)
	seedZ := mod(seedX+13*x, n)

	rx := t.values[seedX]*2 - 1
	rz := t.values[seedZ]*2 - 1

	return math.Vec2{
		X: pos.X + pixelToTerrain.X*0.5*(1+rx),
		Y: pos.Y + pixelToTerrain.Y*0.5*(1+rz),
	}
}

// mod is the non-negative remainder.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
