package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagSeed      = flag.Uint64("seed", 0, "Generation seed (0 = random)")
	flagChunksX   = flag.Int("chunks-x", 0, "Map width in chunks")
	flagChunksY   = flag.Int("chunks-y", 0, "Map height in chunks")
	flagFill      = flag.Float64("fill", -1, "Initial wall probability")
	flagSmoothing = flag.Int("smoothing", -1, "Smoothing iterations")
	flagWorkers   = flag.Int("workers", -1, "Tessellation workers (0 = one per CPU)")
	flagPreview   = flag.Bool("preview", false, "Print the generated grid to stdout")
	flagSave      = flag.Bool("save-config", false, "Write the merged config to the user config directory")
	flagDig       = flag.String("dig", "", "World points to dig after generation, as \"x,y;x,y\"")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// Preview reports whether the --preview flag was set.
func Preview() bool {
	return *flagPreview
}

// SaveRequested reports whether the --save-config flag was set.
func SaveRequested() bool {
	return *flagSave
}

// DigPoints returns the raw --dig flag value.
func DigPoints() string {
	return *flagDig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed != 0 {
		cfg.Generation.Seed = *flagSeed
	}
	if *flagChunksX > 0 {
		cfg.Generation.ChunksX = *flagChunksX
	}
	if *flagChunksY > 0 {
		cfg.Generation.ChunksY = *flagChunksY
	}
	if *flagFill >= 0 {
		cfg.Generation.FillProbability = *flagFill
	}
	if *flagSmoothing >= 0 {
		cfg.Generation.SmoothingIterations = *flagSmoothing
	}
	if *flagWorkers >= 0 {
		cfg.Terrain.Workers = *flagWorkers
	}
}
