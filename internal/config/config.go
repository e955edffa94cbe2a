// Package config handles grass system configuration loading and management.
package config

import "time"

// Config holds all settings for the grass pipeline and its tools.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain" toml:"terrain"`
	Grass   GrassConfig   `yaml:"grass" toml:"grass"`
	Layers  []LayerConfig `yaml:"layers" toml:"layers"`
	Workers WorkersConfig `yaml:"workers" toml:"workers"`
	Bench   BenchConfig   `yaml:"bench" toml:"bench"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// TerrainConfig describes the terrain placement and its baked data files.
// Paths containing "://" are fetched over HTTP(S).
type TerrainConfig struct {
	Position            [3]float32 `yaml:"position" toml:"position"`
	Size                [3]float32 `yaml:"size" toml:"size"`
	HeightmapResolution int        `yaml:"heightmap_resolution" toml:"heightmap_resolution"`
	DetailResolution    int        `yaml:"detail_resolution" toml:"detail_resolution"`
	DetailLayers        int        `yaml:"detail_layers" toml:"detail_layers"`
	HeightDataPath      string     `yaml:"height_data_path" toml:"height_data_path"`
	DetailDataPath      string     `yaml:"detail_data_path" toml:"detail_data_path"`
	DensityTextures     []string   `yaml:"density_textures" toml:"density_textures"` // Packed RGBA alternative to DetailDataPath
	NormalMapPath       string     `yaml:"normal_map_path" toml:"normal_map_path"`
}

// GrassConfig holds settings shared by every detail layer.
type GrassConfig struct {
	InstanceDraw         bool       `yaml:"instance_draw" toml:"instance_draw"`
	CellSize             [2]float32 `yaml:"cell_size" toml:"cell_size"`
	CullDistance         float32    `yaml:"cull_distance" toml:"cull_distance"`
	DetailDensity        float32    `yaml:"detail_density" toml:"detail_density"` // Instances per pixel at full density
	MaxCountPerBatch     int        `yaml:"max_count_per_batch" toml:"max_count_per_batch"`
	MaxInstancesPerBatch int        `yaml:"max_instances_per_batch" toml:"max_instances_per_batch"`
	MaxInflight          int        `yaml:"max_inflight" toml:"max_inflight"`
	Falloff              string     `yaml:"falloff" toml:"falloff"` // linear, exponential or none
	MoveThreshold        float32    `yaml:"move_threshold" toml:"move_threshold"`
	RotateThreshold      float32    `yaml:"rotate_threshold" toml:"rotate_threshold"` // Degrees
}

// LayerConfig configures one vegetation type.
type LayerConfig struct {
	Name            string     `yaml:"name" toml:"name"`
	BrushIndex      int        `yaml:"brush_index" toml:"brush_index"`
	DetailThreshold float32    `yaml:"detail_threshold" toml:"detail_threshold"`
	ShowDensity     float32    `yaml:"show_density" toml:"show_density"`
	CullDistance    float32    `yaml:"cull_distance" toml:"cull_distance"` // 0 inherits grass.cull_distance
	HeightOffset    float32    `yaml:"height_offset" toml:"height_offset"`
	WidthScale      [2]float32 `yaml:"width_scale" toml:"width_scale"`
	HeightScale     [2]float32 `yaml:"height_scale" toml:"height_scale"`
	NoiseSpread     float32    `yaml:"noise_spread" toml:"noise_spread"`
	CastShadows     bool       `yaml:"cast_shadows" toml:"cast_shadows"`
	ReceiveShadows  bool       `yaml:"receive_shadows" toml:"receive_shadows"`
	UseQuad         bool       `yaml:"use_quad" toml:"use_quad"`
	Billboard       bool       `yaml:"billboard" toml:"billboard"`
	Mesh            string     `yaml:"mesh" toml:"mesh"`
	Material        string     `yaml:"material" toml:"material"`
	DrawLayer       int        `yaml:"draw_layer" toml:"draw_layer"`
}

// WorkersConfig sizes the background build pool.
type WorkersConfig struct {
	Count       int           `yaml:"count" toml:"count"` // 0 uses GOMAXPROCS
	QueueSize   int           `yaml:"queue_size" toml:"queue_size"`
	IdleTimeout time.Duration `yaml:"idle_timeout" toml:"idle_timeout"`
}

// BenchConfig drives the headless benchmark camera.
type BenchConfig struct {
	Frames      int     `yaml:"frames" toml:"frames"`
	Camera      string  `yaml:"camera" toml:"camera"` // orbit or follow
	Speed       float32 `yaml:"speed" toml:"speed"`   // World units per frame
	Radius      float32 `yaml:"radius" toml:"radius"`
	FOV         float32 `yaml:"fov" toml:"fov"` // Degrees
	Aspect      float32 `yaml:"aspect" toml:"aspect"`
	Near        float32 `yaml:"near" toml:"near"`
	Far         float32 `yaml:"far" toml:"far"`
	ReportEvery int     `yaml:"report_every" toml:"report_every"`
	Watch       bool    `yaml:"watch" toml:"watch"`
	SnapshotDir string  `yaml:"snapshot_dir" toml:"snapshot_dir"` // Cell state images are written here when set
	DebugDraw   bool    `yaml:"debug_draw" toml:"debug_draw"`     // Submit grid and cell bounds line lists each frame
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
	JSON    bool   `yaml:"json" toml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Position:            [3]float32{0, 0, 0},
			Size:                [3]float32{1000, 600, 1000},
			HeightmapResolution: 513,
			DetailResolution:    1024,
			DetailLayers:        1,
			HeightDataPath:      "data/height.raw",
			DetailDataPath:      "data/detail.raw",
		},
		Grass: GrassConfig{
			InstanceDraw:         true,
			CellSize:             [2]float32{32, 32},
			CullDistance:         100,
			DetailDensity:        10,
			MaxCountPerBatch:     2048,
			MaxInstancesPerBatch: 1022,
			MaxInflight:          64,
			Falloff:              "linear",
			MoveThreshold:        1,
			RotateThreshold:      5,
		},
		Layers: []LayerConfig{
			{
				Name:            "grass",
				BrushIndex:      0,
				DetailThreshold: 0.1,
				ShowDensity:     1,
				HeightOffset:    0,
				WidthScale:      [2]float32{0.8, 1.2},
				HeightScale:     [2]float32{0.8, 1.4},
				NoiseSpread:     0.1,
				ReceiveShadows:  true,
				UseQuad:         true,
				Billboard:       true,
			},
		},
		Workers: WorkersConfig{
			Count:       0,
			QueueSize:   256,
			IdleTimeout: 30 * time.Second,
		},
		Bench: BenchConfig{
			Frames:      600,
			Camera:      "orbit",
			Speed:       0.5,
			Radius:      150,
			FOV:         60,
			Aspect:      16.0 / 9.0,
			Near:        0.3,
			Far:         1000,
			ReportEvery: 60,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
