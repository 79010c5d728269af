// Package main is the entry point for the cave generator CLI.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-caves/internal/config"
	"github.com/Faultbox/midgard-caves/internal/grid"
	"github.com/Faultbox/midgard-caves/internal/logger"
	"github.com/Faultbox/midgard-caves/internal/terrain"
	"github.com/Faultbox/midgard-caves/internal/world"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	digPoints, err := parsePoints(config.DigPoints())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --dig: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Midgard Caves ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Fatal("failed to save config", zap.Error(err))
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, digPoints); err != nil {
		stop()
		logger.Fatal("generation failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, digPoints []mgl32.Vec2) error {
	seed := cfg.Generation.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	mgr := world.NewManager(world.Settings{
		ChunksX:             cfg.Generation.ChunksX,
		ChunksY:             cfg.Generation.ChunksY,
		ChunkSize:           cfg.Terrain.ChunkSize,
		CellSize:            cfg.Terrain.CellSize,
		FillProbability:     cfg.Generation.FillProbability,
		SmoothingIterations: cfg.Generation.SmoothingIterations,
		MinWallRegion:       cfg.Generation.MinWallRegion,
		MinAirRegion:        cfg.Generation.MinAirRegion,
		Workers:             cfg.Terrain.Workers,
	})

	meshes, err := mgr.Generate(ctx, seed)
	if err != nil {
		return err
	}
	m := mgr.Current()

	vertices, triangles := meshStats(meshes)
	logger.Info("terrain built",
		zap.Uint64("seed", seed),
		zap.Int("width", m.Grid.Width()),
		zap.Int("height", m.Grid.Height()),
		zap.Int("walls", m.Grid.Count(grid.Wall)),
		zap.Int("vertices", vertices),
		zap.Int("triangles", triangles),
	)
	if b := worldBounds(meshes); !b.Empty {
		logger.Debug("terrain bounds",
			zap.Float32s("min", b.Min[:2]),
			zap.Float32s("max", b.Max[:2]),
		)
	}

	if len(digPoints) > 0 {
		for _, p := range digPoints {
			if _, ok := m.Dig(p); !ok {
				logger.Warn("dig point outside the diggable area",
					zap.Float32("x", p.X()), zap.Float32("y", p.Y()))
			}
		}

		rebuilt, err := m.Rebuild(ctx)
		if err != nil {
			return fmt.Errorf("rebuilding dug chunks: %w", err)
		}
		for _, cm := range rebuilt {
			logger.Info("chunk rebuilt",
				zap.Stringer("chunk", cm.Coord),
				zap.Int("triangles", cm.Mesh.TriangleCount()))
		}
	}

	if config.Preview() {
		fmt.Print(m.Grid.String())
	}
	return nil
}

func meshStats(meshes []terrain.ChunkMesh) (vertices, triangles int) {
	for _, cm := range meshes {
		vertices += cm.Mesh.VertexCount()
		triangles += cm.Mesh.TriangleCount()
	}
	return vertices, triangles
}

// worldBounds returns the bounding box of all chunk meshes in world space.
func worldBounds(meshes []terrain.ChunkMesh) terrain.Bounds {
	b := terrain.Bounds{Empty: true}
	for _, cm := range meshes {
		wb := cm.World().Bounds
		if wb.Empty {
			continue
		}
		if b.Empty {
			b = wb
			continue
		}
		for i := 0; i < 3; i++ {
			b.Min[i] = min(b.Min[i], wb.Min[i])
			b.Max[i] = max(b.Max[i], wb.Max[i])
		}
	}
	return b
}

// parsePoints parses "x,y;x,y" into world-space points.
func parsePoints(s string) ([]mgl32.Vec2, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var points []mgl32.Vec2
	for _, part := range strings.Split(s, ";") {
		xs, ys, found := strings.Cut(strings.TrimSpace(part), ",")
		if !found {
			return nil, fmt.Errorf("point %q: expected x,y", part)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 32)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", part, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 32)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", part, err)
		}
		points = append(points, mgl32.Vec2{float32(x), float32(y)})
	}
	return points, nil
}
