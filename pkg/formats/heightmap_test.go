package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// createTestHeightmap creates raw little-endian samples where sample i = i*100.
func createTestHeightmap(resolution int) []byte {
	buf := new(bytes.Buffer)
	for i := 0; i < resolution*resolution; i++ {
		binary.Write(buf, binary.LittleEndian, uint16(i*100))
	}
	return buf.Bytes()
}

func TestParseHeightmap_Valid(t *testing.T) {
	h, err := ParseHeightmap(createTestHeightmap(3), 3)
	if err != nil {
		t.Fatalf("ParseHeightmap failed: %v", err)
	}

	if len(h.Samples) != 9 {
		t.Fatalf("expected 9 samples, got %d", len(h.Samples))
	}
	if got := h.At(2, 1); got != 500 {
		t.Errorf("expected sample (2,1) = 500, got %d", got)
	}
	if got := h.At(10, -4); got != 200 {
		t.Errorf("expected clamped sample (2,0) = 200, got %d", got)
	}
}

func TestParseHeightmap_Truncated(t *testing.T) {
	data := createTestHeightmap(3)
	_, err := ParseHeightmap(data[:len(data)-1], 3)
	if !errors.Is(err, ErrTruncatedHeightData) {
		t.Errorf("expected ErrTruncatedHeightData, got %v", err)
	}
}

func TestParseHeightmap_InvalidResolution(t *testing.T) {
	_, err := ParseHeightmap(nil, 0)
	if !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("expected ErrInvalidResolution, got %v", err)
	}
}

func TestHeightmap_RoundTripFile(t *testing.T) {
	h, err := ParseHeightmap(createTestHeightmap(4), 4)
	if err != nil {
		t.Fatalf("ParseHeightmap failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "height.raw")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := WriteHeightmap(f, h); err != nil {
		t.Fatalf("WriteHeightmap failed: %v", err)
	}
	f.Close()

	loaded, err := ParseHeightmapFile(path, 4)
	if err != nil {
		t.Fatalf("ParseHeightmapFile failed: %v", err)
	}
	for i := range h.Samples {
		if loaded.Samples[i] != h.Samples[i] {
			t.Fatalf("sample %d: expected %d, got %d", i, h.Samples[i], loaded.Samples[i])
		}
	}
}

func TestNilHeightmap(t *testing.T) {
	var h *Heightmap
	if h.At(1, 1) != 0 {
		t.Error("expected nil heightmap to return 0")
	}
}
