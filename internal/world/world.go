// Package world owns the generated cave map: world/cell conversion, digging,
// and incremental rebuilds of the chunks an edit touched.
package world

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-caves/internal/chunk"
	"github.com/Faultbox/midgard-caves/internal/grid"
	"github.com/Faultbox/midgard-caves/internal/logger"
	"github.com/Faultbox/midgard-caves/internal/terrain"
)

// Map is a generated cave grid plus the layout needed to place its chunks in
// world space. It has a single writer; none of its methods are safe for
// concurrent use.
type Map struct {
	Grid      *grid.Grid
	ChunkSize int
	CellSize  float32
	ChunksX   int
	ChunksY   int

	dirty map[chunk.Coord]struct{}
	log   *zap.Logger
}

// NewMap wraps g. The grid must split into whole chunks of chunkSize.
func NewMap(g *grid.Grid, chunkSize int, cellSize float32) (*Map, error) {
	cx, cy, err := chunk.Count(g, chunkSize)
	if err != nil {
		return nil, err
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %v", cellSize)
	}
	return &Map{
		Grid:      g,
		ChunkSize: chunkSize,
		CellSize:  cellSize,
		ChunksX:   cx,
		ChunksY:   cy,
		dirty:     make(map[chunk.Coord]struct{}),
		log:       logger.Named("world"),
	}, nil
}

// halfChunk is the distance from a chunk's centre to its edge.
func (m *Map) halfChunk() float32 {
	return float32(m.ChunkSize) * m.CellSize / 2
}

// WorldToCell returns the grid sample nearest to p. ok is false when that
// sample is on the border frame or outside the grid.
//
// World space matches the chunk meshes placed at their ChunkOffset: grid
// sample (x, y) sits at ((x-1)*cell - half, (y-1)*cell - half), where half
// is half a chunk's width.
func (m *Map) WorldToCell(p mgl32.Vec2) (x, y int, ok bool) {
	fx := float64((p.X()+m.halfChunk())/m.CellSize) + 1
	fy := float64((p.Y()+m.halfChunk())/m.CellSize) + 1
	if math.IsNaN(fx) || math.IsNaN(fy) || math.IsInf(fx, 0) || math.IsInf(fy, 0) {
		return 0, 0, false
	}

	fx, fy = math.Floor(fx+0.5), math.Floor(fy+0.5)
	if fx < 1 || fy < 1 || fx > float64(m.Grid.Width()-2) || fy > float64(m.Grid.Height()-2) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

// CellToWorld returns the world position of grid sample (x, y).
func (m *Map) CellToWorld(x, y int) mgl32.Vec2 {
	return mgl32.Vec2{
		float32(x-1)*m.CellSize - m.halfChunk(),
		float32(y-1)*m.CellSize - m.halfChunk(),
	}
}

// ChunksOf returns every chunk whose tessellation reads sample (x, y), in
// row-major order. Chunk c reads samples c*size+1 through c*size+size+1 on
// each axis, so a sample on a seam belongs to two chunks per axis and a
// sample on a chunk corner to four.
func (m *Map) ChunksOf(x, y int) []chunk.Coord {
	xs := chunkSpan(x, m.ChunkSize, m.ChunksX)
	ys := chunkSpan(y, m.ChunkSize, m.ChunksY)

	coords := make([]chunk.Coord, 0, len(xs)*len(ys))
	for _, cy := range ys {
		for _, cx := range xs {
			coords = append(coords, chunk.Coord{X: cx, Y: cy})
		}
	}
	return coords
}

// chunkSpan returns the chunk indices along one axis that read sample v.
func chunkSpan(v, size, count int) []int {
	var idx []int
	last := (v - 1) / size
	for c := last - 1; c <= last; c++ {
		if c < 0 || c >= count || v < c*size+1 || v > c*size+size+1 {
			continue
		}
		idx = append(idx, c)
	}
	return idx
}

// MarkDirty queues c and its four direct neighbours for re-tessellation.
// Coordinates outside the map are ignored.
func (m *Map) MarkDirty(c chunk.Coord) []chunk.Coord {
	var marked []chunk.Coord
	for _, d := range [5][2]int{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		n := chunk.Coord{X: c.X + d[0], Y: c.Y + d[1]}
		if n.X < 0 || n.Y < 0 || n.X >= m.ChunksX || n.Y >= m.ChunksY {
			continue
		}
		m.dirty[n] = struct{}{}
		marked = append(marked, n)
	}
	return marked
}

// Dirty returns the queued chunks in row-major order without draining them.
func (m *Map) Dirty() []chunk.Coord {
	return sortedCoords(m.dirty)
}

// Drain returns the queued chunks in row-major order and clears the queue.
func (m *Map) Drain() []chunk.Coord {
	coords := m.Dirty()
	clear(m.dirty)
	return coords
}

// Dig turns the interior sample nearest to p into air and queues the chunks
// that sample it. It returns the affected chunks, or ok=false when p is
// outside the playable interior.
func (m *Map) Dig(p mgl32.Vec2) (affected []chunk.Coord, ok bool) {
	x, y, ok := m.WorldToCell(p)
	if !ok {
		return nil, false
	}

	m.Grid.Set(x, y, grid.Air)

	marked := make(map[chunk.Coord]struct{})
	for _, c := range m.ChunksOf(x, y) {
		for _, d := range m.MarkDirty(c) {
			marked[d] = struct{}{}
		}
	}
	affected = sortedCoords(marked)
	m.log.Debug("dug cell",
		zap.Int("x", x),
		zap.Int("y", y),
		zap.Int("dirty_chunks", len(m.dirty)),
	)
	return affected, true
}

// Partition slices the whole grid into padded chunks.
func (m *Map) Partition() (*chunk.Map, error) {
	return chunk.Partition(m.Grid, m.ChunkSize)
}

// BuildAll tessellates every chunk of the map.
func (m *Map) BuildAll(ctx context.Context, workers int) ([]terrain.ChunkMesh, error) {
	cm, err := m.Partition()
	if err != nil {
		return nil, fmt.Errorf("partitioning map: %w", err)
	}
	return terrain.BuildAll(ctx, cm, m.CellSize, workers)
}

// Rebuild drains the dirty queue, re-slices each queued chunk from the grid
// and re-tessellates it. Meshes come back in row-major chunk order and
// replace the renderer's previous meshes for the same coordinates.
func (m *Map) Rebuild(ctx context.Context) ([]terrain.ChunkMesh, error) {
	coords := m.Drain()
	out := make([]terrain.ChunkMesh, 0, len(coords))

	for _, c := range coords {
		if err := ctx.Err(); err != nil {
			// Nothing is returned, so requeue the whole batch.
			for _, q := range coords {
				m.dirty[q] = struct{}{}
			}
			return nil, err
		}
		padded, err := chunk.Slice(m.Grid, c, m.ChunkSize)
		if err != nil {
			return nil, fmt.Errorf("slicing chunk %s: %w", c, err)
		}
		out = append(out, terrain.ChunkMesh{
			Coord:  c,
			Offset: terrain.ChunkOffset(c, m.ChunkSize, m.CellSize),
			Mesh:   terrain.Tessellate(padded, m.CellSize),
		})
	}

	if len(out) > 0 {
		m.log.Debug("chunks rebuilt", zap.Int("count", len(out)))
	}
	return out, nil
}

func sortedCoords(set map[chunk.Coord]struct{}) []chunk.Coord {
	coords := make([]chunk.Coord, 0, len(set))
	for c := range set {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords
}
