// Package config handles cave generator configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all generator settings.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GenerationConfig holds cave generation parameters. Map size is given in
// chunks; the grid adds one border cell on every side.
type GenerationConfig struct {
	ChunksX             int     `yaml:"chunks_x"`
	ChunksY             int     `yaml:"chunks_y"`
	FillProbability     float64 `yaml:"fill_probability"`
	SmoothingIterations int     `yaml:"smoothing_iterations"`
	MinWallRegion       int     `yaml:"min_wall_region"`
	MinAirRegion        int     `yaml:"min_air_region"`
	Seed                uint64  `yaml:"seed"` // 0 picks a random seed at startup
}

// TerrainConfig holds meshing settings.
type TerrainConfig struct {
	CellSize  float32 `yaml:"cell_size"`  // World units per grid cell
	ChunkSize int     `yaml:"chunk_size"` // Cells per chunk edge
	Workers   int     `yaml:"workers"`    // Parallel tessellation workers, 0 = one per CPU
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Generation: GenerationConfig{
			ChunksX:             8,
			ChunksY:             4,
			FillProbability:     0.48,
			SmoothingIterations: 4,
			MinWallRegion:       50,
			MinAirRegion:        500,
		},
		Terrain: TerrainConfig{
			CellSize:  10,
			ChunkSize: 16,
			Workers:   0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error

	g := c.Generation
	if g.ChunksX <= 0 || g.ChunksY <= 0 {
		errs = append(errs, fmt.Errorf("generation: chunk counts must be positive, got %dx%d", g.ChunksX, g.ChunksY))
	}
	if g.FillProbability < 0 || g.FillProbability > 1 {
		errs = append(errs, fmt.Errorf("generation: fill_probability %v outside [0,1]", g.FillProbability))
	}
	if g.SmoothingIterations < 0 {
		errs = append(errs, fmt.Errorf("generation: smoothing_iterations must not be negative, got %d", g.SmoothingIterations))
	}
	if g.MinWallRegion < 0 || g.MinAirRegion < 0 {
		errs = append(errs, fmt.Errorf("generation: region thresholds must not be negative"))
	}

	t := c.Terrain
	if t.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("terrain: cell_size must be positive, got %v", t.CellSize))
	}
	if t.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("terrain: chunk_size must be positive, got %d", t.ChunkSize))
	}
	if t.Workers < 0 {
		errs = append(errs, fmt.Errorf("terrain: workers must not be negative, got %d", t.Workers))
	}

	return errors.Join(errs...)
}
