package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Heightmap errors.
var (
	ErrTruncatedHeightData = errors.New("truncated height data")
	ErrInvalidResolution   = errors.New("invalid resolution")
)

// Heightmap holds raw 16-bit height samples in row-major order.
type Heightmap struct {
	Resolution int
	Samples    []uint16
}

// At returns the sample at (x, y). Out-of-range coordinates are clamped.
func (h *Heightmap) At(x, y int) uint16 {
	if h == nil || len(h.Samples) == 0 {
		return 0
	}
	x = clampIndex(x, h.Resolution)
	y = clampIndex(y, h.Resolution)
	return h.Samples[y*h.Resolution+x]
}

// ParseHeightmap parses resolution×resolution little-endian uint16 samples.
// Trailing bytes are ignored.
func ParseHeightmap(data []byte, resolution int) (*Heightmap, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResolution, resolution)
	}

	count := resolution * resolution
	if len(data) < count*2 {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrTruncatedHeightData, count*2, len(data))
	}

	h := &Heightmap{
		Resolution: resolution,
		Samples:    make([]uint16, count),
	}
	if err := binary.Read(bytes.NewReader(data[:count*2]), binary.LittleEndian, h.Samples); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedHeightData, err)
	}

	return h, nil
}

// ParseHeightmapFile parses a raw heightmap from disk.
func ParseHeightmapFile(path string, resolution int) (*Heightmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading heightmap file: %w", err)
	}
	return ParseHeightmap(data, resolution)
}

// WriteHeightmap writes samples in the raw little-endian layout.
func WriteHeightmap(w io.Writer, h *Heightmap) error {
	if len(h.Samples) != h.Resolution*h.Resolution {
		return fmt.Errorf("%w: %d samples for resolution %d", ErrInvalidResolution, len(h.Samples), h.Resolution)
	}
	return binary.Write(w, binary.LittleEndian, h.Samples)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
