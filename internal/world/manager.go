package world

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-caves/internal/cavegen"
	"github.com/Faultbox/midgard-caves/internal/chunk"
	"github.com/Faultbox/midgard-caves/internal/logger"
	"github.com/Faultbox/midgard-caves/internal/terrain"
)

// Settings describes how the manager generates and meshes maps.
type Settings struct {
	ChunksX             int
	ChunksY             int
	ChunkSize           int
	CellSize            float32
	FillProbability     float64
	SmoothingIterations int
	MinWallRegion       int
	MinAirRegion        int
	Workers             int
}

// Params converts the settings into generator parameters. The grid gets one
// border cell on each side of the chunk area.
func (s Settings) Params() cavegen.Params {
	return cavegen.Params{
		Width:               s.ChunksX*s.ChunkSize + chunk.Padding,
		Height:              s.ChunksY*s.ChunkSize + chunk.Padding,
		FillProbability:     s.FillProbability,
		SmoothingIterations: s.SmoothingIterations,
		MinWallRegion:       s.MinWallRegion,
		MinAirRegion:        s.MinAirRegion,
	}
}

// Manager owns the current map and replaces it on regeneration.
type Manager struct {
	settings Settings
	current  *Map
	seed     uint64
}

// NewManager creates a manager with no map loaded.
func NewManager(s Settings) *Manager {
	return &Manager{settings: s}
}

// Current returns the current map, or nil before the first Generate.
func (m *Manager) Current() *Map {
	return m.current
}

// Seed returns the seed of the current map.
func (m *Manager) Seed() uint64 {
	return m.seed
}

// Generate builds a new map from seed, makes it current and returns the
// meshes of all its chunks.
func (m *Manager) Generate(ctx context.Context, seed uint64) ([]terrain.ChunkMesh, error) {
	log := logger.Named("world")

	g, err := cavegen.Generate(m.settings.Params(), cavegen.NewRand(seed))
	if err != nil {
		return nil, fmt.Errorf("generating map: %w", err)
	}

	newMap, err := NewMap(g, m.settings.ChunkSize, m.settings.CellSize)
	if err != nil {
		return nil, fmt.Errorf("creating map: %w", err)
	}

	meshes, err := newMap.BuildAll(ctx, m.settings.Workers)
	if err != nil {
		return nil, fmt.Errorf("building chunk meshes: %w", err)
	}

	m.current = newMap
	m.seed = seed
	log.Info("map generated",
		zap.Uint64("seed", seed),
		zap.Int("chunks_x", newMap.ChunksX),
		zap.Int("chunks_y", newMap.ChunksY),
		zap.Int("meshes", len(meshes)),
	)
	return meshes, nil
}
