// grasstool is a CLI utility for generating and inspecting baked grass data.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Faultbox/grassfield/internal/config"
	"github.com/Faultbox/grassfield/internal/synth"
	"github.com/Faultbox/grassfield/pkg/formats"
)

// out groups digits in the large counts printed by info.
var out = message.NewPrinter(language.English)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "synth", "gen":
		err = cmdSynth(args)
	case "info":
		err = cmdInfo(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`grasstool - baked grass data utility

Usage:
  grasstool <command> [options]

Commands:
  synth [options] <dir>              Generate synthetic height and detail data
  info [options] <file>              Show statistics for a data file or texture
  config <file.yaml|file.toml>       Write the default configuration

Examples:
  grasstool synth -layers 2 -config data/config.yaml data
  grasstool info -kind detail -res 1024 -layers 2 data/detail.raw
  grasstool info data/density_0.png`)
}

func cmdSynth(args []string) error {
	def := synth.DefaultParams()
	fs := flag.NewFlagSet("synth", flag.ExitOnError)
	heightRes := fs.Int("height-res", def.HeightResolution, "Heightmap resolution")
	detailRes := fs.Int("detail-res", def.DetailResolution, "Detail map resolution")
	layers := fs.Int("layers", def.Layers, "Number of detail layers")
	seed := fs.Uint64("seed", def.Seed, "Noise seed")
	freq := fs.Float64("freq", float64(def.Frequency), "Noise cycles across the terrain")
	coverage := fs.Float64("coverage", float64(def.Coverage), "Fraction of ground with vegetation")
	cfgPath := fs.String("config", "", "Also write a config pointing at the generated files")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: grasstool synth [options] <dir>")
	}
	dir := fs.Arg(0)

	p := synth.Params{
		HeightResolution: *heightRes,
		DetailResolution: *detailRes,
		Layers:           *layers,
		Seed:             *seed,
		Frequency:        float32(*freq),
		Coverage:         float32(*coverage),
	}
	files, err := synth.Write(dir, p)
	if err != nil {
		return err
	}

	fmt.Printf("Heights:  %s (%dx%d)\n", files.Height, p.HeightResolution, p.HeightResolution)
	fmt.Printf("Detail:   %s (%d layers, %dx%d)\n", files.Detail, p.Layers, p.DetailResolution, p.DetailResolution)
	for _, tex := range files.Textures {
		fmt.Printf("Texture:  %s\n", tex)
	}

	if *cfgPath == "" {
		return nil
	}
	cfg := synthConfig(p, files)
	if err := cfg.SaveTo(*cfgPath); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Printf("Config:   %s\n", *cfgPath)
	return nil
}

// synthConfig returns the default config pointed at generated files, with
// one layer per detail brush.
func synthConfig(p synth.Params, files synth.Files) *config.Config {
	cfg := config.Default()
	cfg.Terrain.HeightmapResolution = p.HeightResolution
	cfg.Terrain.DetailResolution = p.DetailResolution
	cfg.Terrain.DetailLayers = p.Layers
	cfg.Terrain.HeightDataPath = files.Height
	cfg.Terrain.DetailDataPath = files.Detail

	base := cfg.Layers[0]
	cfg.Layers = cfg.Layers[:0]
	for i := 0; i < p.Layers; i++ {
		l := base
		l.Name = fmt.Sprintf("layer%d", i)
		l.BrushIndex = i
		cfg.Layers = append(cfg.Layers, l)
	}
	return cfg
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	kind := fs.String("kind", "", "Raw data kind: height or detail (default from file name)")
	res := fs.Int("res", 0, "Raw data resolution (default from file size)")
	layers := fs.Int("layers", 1, "Detail layer count")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: grasstool info [options] <file>")
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".tga", ".bmp", ".tif", ".tiff":
		return imageInfo(path, data)
	}

	if *kind == "" {
		*kind = "height"
		if strings.Contains(strings.ToLower(filepath.Base(path)), "detail") {
			*kind = "detail"
		}
	}

	switch *kind {
	case "height":
		return heightInfo(path, data, *res)
	case "detail":
		return detailInfo(path, data, *layers, *res)
	default:
		return fmt.Errorf("unknown kind %q", *kind)
	}
}

// squareSide returns the side of a square with n cells, or 0.
func squareSide(n int) int {
	for s := 1; s*s <= n; s++ {
		if s*s == n {
			return s
		}
	}
	return 0
}

func heightInfo(path string, data []byte, res int) error {
	if res == 0 {
		res = squareSide(len(data) / 2)
	}
	hm, err := formats.ParseHeightmap(data, res)
	if err != nil {
		return err
	}

	lo, hi := uint16(0xFFFF), uint16(0)
	var sum float64
	for _, s := range hm.Samples {
		lo, hi = min(lo, s), max(hi, s)
		sum += float64(s)
	}

	out.Printf("Heightmap: %s\n", path)
	out.Printf("Resolution: %dx%d\n", hm.Resolution, hm.Resolution)
	out.Printf("Samples:    %d\n", len(hm.Samples))
	out.Printf("Range:      %.4f - %.4f\n", float64(lo)/0xFFFF, float64(hi)/0xFFFF)
	out.Printf("Mean:       %.4f\n", sum/float64(len(hm.Samples))/0xFFFF)
	return nil
}

func detailInfo(path string, data []byte, layers, res int) error {
	if layers <= 0 {
		return fmt.Errorf("layer count must be positive")
	}
	if res == 0 {
		res = squareSide(len(data) / layers)
	}
	d, err := formats.ParseDetail(data, layers, res)
	if err != nil {
		return err
	}

	out.Printf("Detail map: %s\n", path)
	out.Printf("Resolution: %dx%d, %d layers\n", d.Resolution, d.Resolution, d.Layers)
	for i := 0; i < d.Layers; i++ {
		printCoverage(fmt.Sprintf("layer %d", i), d.Layer(i))
	}
	return nil
}

func imageInfo(path string, data []byte) error {
	img, err := formats.DecodeImage(path, data)
	if err != nil {
		return err
	}
	b := img.Bounds()

	out.Printf("Image: %s\n", path)
	out.Printf("Size:  %dx%d\n", b.Dx(), b.Dy())

	// Read the image as one packed density texture.
	d, err := formats.UnpackDetailTextures([]image.Image{img}, formats.LayersPerTexture, min(b.Dx(), b.Dy()))
	if err != nil {
		return err
	}
	for i, name := range []string{"R", "G", "B", "A"} {
		printCoverage(name, d.Layer(i))
	}
	return nil
}

func printCoverage(name string, density []byte) {
	if len(density) == 0 {
		return
	}
	var covered int
	var sum float64
	for _, v := range density {
		if v > 0 {
			covered++
		}
		sum += float64(v)
	}
	n := float64(len(density))
	out.Printf("  %-8s %d pixels covered (%.1f%%), mean %.3f\n", name, covered, 100*float64(covered)/n, sum/n/255)
}

func cmdConfig(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: grasstool config <file.yaml|file.toml>")
	}
	if err := config.Default().SaveTo(args[0]); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", args[0])
	return nil
}
