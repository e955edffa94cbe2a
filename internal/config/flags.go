package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagInstanced = flag.Bool("instanced", false, "Force instanced rendering")
	flagCombined  = flag.Bool("combined", false, "Force combined-mesh rendering")
	flagFrames    = flag.Int("frames", 0, "Number of frames to simulate")
	flagWorkers   = flag.Int("workers", 0, "Number of build workers")
	flagWatch     = flag.Bool("watch", false, "Reload baked data when files change")
	flagSnapshot  = flag.String("snapshot", "", "Directory for cell state snapshots")
	flagDebugDraw = flag.Bool("debug-draw", false, "Submit debug line lists for grid and cells")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagInstanced {
		cfg.Grass.InstanceDraw = true
	}
	if *flagCombined {
		cfg.Grass.InstanceDraw = false
	}
	if *flagFrames > 0 {
		cfg.Bench.Frames = *flagFrames
	}
	if *flagWorkers > 0 {
		cfg.Workers.Count = *flagWorkers
	}
	if *flagWatch {
		cfg.Bench.Watch = true
	}
	if *flagSnapshot != "" {
		cfg.Bench.SnapshotDir = *flagSnapshot
	}
	if *flagDebugDraw {
		cfg.Bench.DebugDraw = true
	}
}
