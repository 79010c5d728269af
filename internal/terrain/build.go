package terrain

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/midgard-caves/internal/chunk"
	"github.com/Faultbox/midgard-caves/internal/logger"
)

// BuildChunk tessellates a single chunk of m and attaches its world offset.
func BuildChunk(m *chunk.Map, c chunk.Coord, cellSize float32) ChunkMesh {
	return ChunkMesh{
		Coord:  c,
		Offset: ChunkOffset(c, m.Size, cellSize),
		Mesh:   Tessellate(m.At(c), cellSize),
	}
}

// BuildAll tessellates every chunk of m. Chunks are independent, so up to
// workers of them are built concurrently; workers <= 0 uses one per CPU.
// The result is ordered like m.Coords() whatever the worker count.
func BuildAll(ctx context.Context, m *chunk.Map, cellSize float32, workers int) ([]ChunkMesh, error) {
	return Build(ctx, m, m.Coords(), cellSize, workers)
}

// Build tessellates the listed chunks of m, preserving the order of coords.
// Coordinates outside m are skipped.
func Build(ctx context.Context, m *chunk.Map, coords []chunk.Coord, cellSize float32, workers int) ([]ChunkMesh, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log := logger.Named("terrain")

	valid := make([]chunk.Coord, 0, len(coords))
	for _, c := range coords {
		if m.Contains(c) {
			valid = append(valid, c)
		}
	}

	out := make([]ChunkMesh, len(valid))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, c := range valid {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = BuildChunk(m, c, cellSize)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	// gctx is always done once Wait returns; only the caller's context counts.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	triangles := 0
	for _, cm := range out {
		triangles += cm.Mesh.TriangleCount()
	}
	log.Debug("chunks tessellated",
		zap.Int("chunks", len(out)),
		zap.Int("workers", workers),
		zap.Int("triangles", triangles),
	)

	return out, nil
}
