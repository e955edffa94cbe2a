package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Terrain.Size != [3]float32{1000, 600, 1000} {
		t.Errorf("expected terrain size 1000x600x1000, got %v", cfg.Terrain.Size)
	}
	if cfg.Grass.MaxInstancesPerBatch != 1022 {
		t.Errorf("expected 1022 instances per batch, got %d", cfg.Grass.MaxInstancesPerBatch)
	}
	if cfg.Grass.MaxCountPerBatch != 2048 {
		t.Errorf("expected 2048 quads per batch, got %d", cfg.Grass.MaxCountPerBatch)
	}
	if cfg.Grass.MaxInflight != 64 {
		t.Errorf("expected 64 in-flight builds, got %d", cfg.Grass.MaxInflight)
	}
	if cfg.Grass.MoveThreshold != 1 || cfg.Grass.RotateThreshold != 5 {
		t.Errorf("expected thresholds 1/5, got %g/%g", cfg.Grass.MoveThreshold, cfg.Grass.RotateThreshold)
	}
	if len(cfg.Layers) != 1 {
		t.Fatalf("expected 1 default layer, got %d", len(cfg.Layers))
	}
	if cfg.Workers.IdleTimeout != 30*time.Second {
		t.Errorf("expected idle timeout 30s, got %v", cfg.Workers.IdleTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
terrain:
  size: [200, 50, 200]
  detail_layers: 2
  height_data_path: "https://cdn.example.com/height.raw"

grass:
  instance_draw: false
  cell_size: [16, 16]
  cull_distance: 80

layers:
  - name: flowers
    brush_index: 1
    detail_threshold: 0.3
    width_scale: [1, 2]
    height_scale: [1, 3]

workers:
  idle_timeout: 5s

logging:
  level: "debug"
  log_file: "grass.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Terrain.Size != [3]float32{200, 50, 200} {
		t.Errorf("expected terrain size 200x50x200, got %v", cfg.Terrain.Size)
	}
	if cfg.Terrain.HeightDataPath != "https://cdn.example.com/height.raw" {
		t.Errorf("unexpected height path %s", cfg.Terrain.HeightDataPath)
	}
	// Unset keys keep defaults.
	if cfg.Terrain.DetailResolution != 1024 {
		t.Errorf("expected default detail resolution 1024, got %d", cfg.Terrain.DetailResolution)
	}
	if cfg.Grass.InstanceDraw {
		t.Error("expected instance_draw false")
	}
	if cfg.Grass.CellSize != [2]float32{16, 16} {
		t.Errorf("expected cell size 16x16, got %v", cfg.Grass.CellSize)
	}
	if len(cfg.Layers) != 1 || cfg.Layers[0].Name != "flowers" || cfg.Layers[0].BrushIndex != 1 {
		t.Errorf("expected layers replaced by flowers, got %+v", cfg.Layers)
	}
	if cfg.Workers.IdleTimeout != 5*time.Second {
		t.Errorf("expected idle timeout 5s, got %v", cfg.Workers.IdleTimeout)
	}
	if cfg.Logging.LogFile != "grass.log" {
		t.Errorf("expected log file 'grass.log', got %s", cfg.Logging.LogFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoadFromFileTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
[grass]
cull_distance = 42.0
falloff = "exponential"

[terrain]
detail_resolution = 512

[[layers]]
name = "fern"
brush_index = 0
detail_threshold = 0.5
width_scale = [0.5, 0.5]
height_scale = [1.0, 1.5]
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Grass.CullDistance != 42 {
		t.Errorf("expected cull distance 42, got %g", cfg.Grass.CullDistance)
	}
	if cfg.Grass.Falloff != "exponential" {
		t.Errorf("expected exponential falloff, got %s", cfg.Grass.Falloff)
	}
	if cfg.Terrain.DetailResolution != 512 {
		t.Errorf("expected detail resolution 512, got %d", cfg.Terrain.DetailResolution)
	}
	if len(cfg.Layers) != 1 || cfg.Layers[0].Name != "fern" {
		t.Fatalf("expected one fern layer, got %+v", cfg.Layers)
	}
	if cfg.Layers[0].HeightScale != [2]float32{1, 1.5} {
		t.Errorf("expected height scale [1,1.5], got %v", cfg.Layers[0].HeightScale)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
grass:
  cull_distance: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[grass]\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); filepath.Base(path) != "config.toml" {
		t.Errorf("expected to find config.toml, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "combined flag",
			setup: func() { *flagCombined = true },
			verify: func(cfg *Config) {
				if cfg.Grass.InstanceDraw {
					t.Error("expected combined mode with combined flag")
				}
			},
			teardown: func() { *flagCombined = false },
		},
		{
			name:  "instanced flag",
			setup: func() { *flagInstanced = true },
			verify: func(cfg *Config) {
				if !cfg.Grass.InstanceDraw {
					t.Error("expected instanced mode with instanced flag")
				}
			},
			teardown: func() { *flagInstanced = false },
		},
		{
			name: "frames and workers flags",
			setup: func() {
				*flagFrames = 10
				*flagWorkers = 3
			},
			verify: func(cfg *Config) {
				if cfg.Bench.Frames != 10 {
					t.Errorf("expected 10 frames, got %d", cfg.Bench.Frames)
				}
				if cfg.Workers.Count != 3 {
					t.Errorf("expected 3 workers, got %d", cfg.Workers.Count)
				}
			},
			teardown: func() {
				*flagFrames = 0
				*flagWorkers = 0
			},
		},
		{
			name:  "watch flag",
			setup: func() { *flagWatch = true },
			verify: func(cfg *Config) {
				if !cfg.Bench.Watch {
					t.Error("expected watch enabled")
				}
			},
			teardown: func() { *flagWatch = false },
		},
		{
			name: "snapshot and debug draw flags",
			setup: func() {
				*flagSnapshot = "shots"
				*flagDebugDraw = true
			},
			verify: func(cfg *Config) {
				if cfg.Bench.SnapshotDir != "shots" {
					t.Errorf("expected snapshot dir 'shots', got %q", cfg.Bench.SnapshotDir)
				}
				if !cfg.Bench.DebugDraw {
					t.Error("expected debug draw enabled")
				}
			},
			teardown: func() {
				*flagSnapshot = ""
				*flagDebugDraw = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
bench:
  frames: 100
  radius: 75
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagFrames = 5
	defer func() {
		*flagConfig = ""
		*flagFrames = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Bench.Frames != 5 {
		t.Errorf("expected 5 frames from flag, got %d", cfg.Bench.Frames)
	}
	if cfg.Bench.Radius != 75 {
		t.Errorf("expected radius 75 from file, got %g", cfg.Bench.Radius)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cell size", func(c *Config) { c.Grass.CellSize = [2]float32{0, 10} }},
		{"negative cull distance", func(c *Config) { c.Grass.CullDistance = -1 }},
		{"too many quads", func(c *Config) { c.Grass.MaxCountPerBatch = MaxQuadsPerMesh + 1 }},
		{"too many instances", func(c *Config) { c.Grass.MaxInstancesPerBatch = 5000 }},
		{"unknown falloff", func(c *Config) { c.Grass.Falloff = "cubic" }},
		{"brush outside layers", func(c *Config) { c.Layers[0].BrushIndex = 3 }},
		{"threshold above one", func(c *Config) { c.Layers[0].DetailThreshold = 1.5 }},
		{"inverted scale", func(c *Config) { c.Layers[0].WidthScale = [2]float32{2, 1} }},
		{"zero resolution", func(c *Config) { c.Terrain.DetailResolution = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"out/config.yaml", "out/config.toml"} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			cfg.Grass.CullDistance = 33
			cfg.Layers[0].Name = "saved"

			path := filepath.Join(tmpDir, name)
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo failed: %v", err)
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile failed: %v", err)
			}
			if loaded.Grass.CullDistance != 33 {
				t.Errorf("expected cull distance 33, got %g", loaded.Grass.CullDistance)
			}
			if loaded.Layers[0].Name != "saved" {
				t.Errorf("expected layer name 'saved', got %s", loaded.Layers[0].Name)
			}
		})
	}
}
