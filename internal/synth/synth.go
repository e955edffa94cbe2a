// Package synth generates synthetic baked terrain data for benchmarks and
// tests: rolling hills and patchy vegetation density.
package synth

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/exp/rand"

	"github.com/Faultbox/grassfield/pkg/formats"
	"github.com/Faultbox/grassfield/pkg/math"
)

// Params controls generation.
type Params struct {
	HeightResolution int
	DetailResolution int
	Layers           int
	Seed             uint64
	// Frequency is the number of noise cycles across the terrain.
	Frequency float32
	// Coverage is the approximate fraction of ground with vegetation.
	Coverage float32
}

// DefaultParams matches the default terrain configuration.
func DefaultParams() Params {
	return Params{
		HeightResolution: 513,
		DetailResolution: 1024,
		Layers:           1,
		Seed:             1,
		Frequency:        4,
		Coverage:         0.6,
	}
}

// noiseField samples octave noise at a normalized position.
type noiseField struct {
	ox, oy float32
	freq   float32
}

func newNoiseField(r *rand.Rand, freq float32) noiseField {
	return noiseField{ox: r.Float32() * 256, oy: r.Float32() * 256, freq: freq}
}

func (f noiseField) at(u, v float32) float32 {
	var sum, norm float32
	amp, freq := float32(1), f.freq
	for octave := 0; octave < 3; octave++ {
		sum += amp * math.Perlin(f.ox+u*freq, f.oy+v*freq)
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / norm
}

// Heightmap returns rolling hills.
func Heightmap(p Params) *formats.Heightmap {
	res := p.HeightResolution
	field := newNoiseField(rand.New(rand.NewSource(p.Seed)), p.Frequency)

	hm := &formats.Heightmap{Resolution: res, Samples: make([]uint16, res*res)}
	span := float32(max(res-1, 1))
	for y := 0; y < res; y++ {
		for x := 0; x < res; x++ {
			h := field.at(float32(x)/span, float32(y)/span)
			hm.Samples[y*res+x] = uint16(math.Clamp01(h) * 0xFFFF)
		}
	}
	return hm
}

// Detail returns one density block per layer. Each layer uses its own noise
// so patches of different vegetation overlap only partly.
func Detail(p Params) *formats.DetailMap {
	res := p.DetailResolution
	r := rand.New(rand.NewSource(p.Seed + 1))
	coverage := math.Clamp(p.Coverage, 0.01, 1)

	d := &formats.DetailMap{
		Layers:     p.Layers,
		Resolution: res,
		Density:    make([]byte, p.Layers*res*res),
	}
	span := float32(max(res-1, 1))
	for layer := 0; layer < p.Layers; layer++ {
		field := newNoiseField(r, p.Frequency*2)
		block := d.Layer(layer)
		for y := 0; y < res; y++ {
			for x := 0; x < res; x++ {
				n := field.at(float32(x)/span, float32(y)/span)
				v := math.Clamp01((n - (1 - coverage)) / coverage * 2)
				block[y*res+x] = byte(v * 255)
			}
		}
	}
	return d
}

// Files lists what Write produced.
type Files struct {
	Height   string
	Detail   string
	Textures []string
}

// Write generates data and stores it in dir as height.raw, detail.raw and
// packed density_N.png textures.
func Write(dir string, p Params) (Files, error) {
	if p.HeightResolution <= 0 || p.DetailResolution <= 0 || p.Layers <= 0 {
		return Files{}, fmt.Errorf("invalid synth params %+v", p)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Files{}, fmt.Errorf("creating output dir: %w", err)
	}

	files := Files{
		Height: filepath.Join(dir, "height.raw"),
		Detail: filepath.Join(dir, "detail.raw"),
	}

	if err := writeFile(files.Height, func(f *os.File) error {
		return formats.WriteHeightmap(f, Heightmap(p))
	}); err != nil {
		return Files{}, err
	}

	detail := Detail(p)
	if err := writeFile(files.Detail, func(f *os.File) error {
		return formats.WriteDetail(f, detail)
	}); err != nil {
		return Files{}, err
	}

	for i, img := range formats.PackDetailTextures(detail) {
		path := filepath.Join(dir, fmt.Sprintf("density_%d.png", i))
		if err := writeFile(path, func(f *os.File) error {
			return png.Encode(f, img)
		}); err != nil {
			return Files{}, err
		}
		files.Textures = append(files.Textures, path)
	}
	return files, nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
