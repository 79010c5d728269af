// Package chunk slices a bordered grid into fixed-size tiles padded by one
// cell on every side, so that tiles sharing an edge see the same samples.
package chunk

import (
	"fmt"

	"github.com/Faultbox/midgard-caves/internal/grid"
)

// DefaultSize is the logical edge length of a chunk in cells.
const DefaultSize = 16

// Padding is the number of border cells a bordered grid adds to each axis.
const Padding = 2

// Coord addresses a chunk by column and row.
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Less orders coordinates row-major.
func (c Coord) Less(o Coord) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// Map holds every padded chunk of a grid.
type Map struct {
	Size    int
	ChunksX int
	ChunksY int
	chunks  []*grid.Grid
}

// At returns the padded sub-grid of chunk c, or nil when c is out of range.
func (m *Map) At(c Coord) *grid.Grid {
	if !m.Contains(c) {
		return nil
	}
	return m.chunks[c.Y*m.ChunksX+c.X]
}

// Contains reports whether c addresses a chunk of the map.
func (m *Map) Contains(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < m.ChunksX && c.Y < m.ChunksY
}

// Coords lists every chunk coordinate in row-major order.
func (m *Map) Coords() []Coord {
	coords := make([]Coord, 0, m.ChunksX*m.ChunksY)
	for y := 0; y < m.ChunksY; y++ {
		for x := 0; x < m.ChunksX; x++ {
			coords = append(coords, Coord{x, y})
		}
	}
	return coords
}

// Count returns the chunk count along each axis of g for the given size.
func Count(g *grid.Grid, size int) (int, int, error) {
	if size <= 0 {
		return 0, 0, fmt.Errorf("%w: chunk size %d", grid.ErrDimensionMismatch, size)
	}
	w, h := g.Width()-Padding, g.Height()-Padding
	if w <= 0 || h <= 0 || w%size != 0 || h%size != 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d grid is not %d-cell chunks plus %d padding",
			grid.ErrDimensionMismatch, g.Width(), g.Height(), size, Padding)
	}
	return w / size, h / size, nil
}

// Partition slices g into (size+2) x (size+2) padded chunks. Chunk (cx, cy)
// copies source columns [cx*size, cx*size+size+2) and the matching rows, so
// neighbouring chunks overlap by two columns or rows.
func Partition(g *grid.Grid, size int) (*Map, error) {
	cx, cy, err := Count(g, size)
	if err != nil {
		return nil, err
	}

	m := &Map{
		Size:    size,
		ChunksX: cx,
		ChunksY: cy,
		chunks:  make([]*grid.Grid, 0, cx*cy),
	}
	for _, c := range m.Coords() {
		sub, err := Slice(g, c, size)
		if err != nil {
			return nil, err
		}
		m.chunks = append(m.chunks, sub)
	}
	return m, nil
}

// Slice extracts the padded sub-grid of one chunk. Chunks outside the grid
// return an error wrapping grid.ErrIndexOutOfRange.
func Slice(g *grid.Grid, c Coord, size int) (*grid.Grid, error) {
	cx, cy, err := Count(g, size)
	if err != nil {
		return nil, err
	}
	if c.X < 0 || c.Y < 0 || c.X >= cx || c.Y >= cy {
		return nil, fmt.Errorf("%w: chunk %s outside %dx%d chunks", grid.ErrIndexOutOfRange, c, cx, cy)
	}
	return g.Sub(c.X*size, c.Y*size, size+Padding, size+Padding)
}
