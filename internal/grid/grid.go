// Package grid provides the boolean occupancy field shared by cave generation,
// chunk partitioning and tessellation.
package grid

import (
	"errors"
	"fmt"
	"strings"
)

// Wall and Air are the two cell values. Wall is solid rock.
const (
	Wall = true
	Air  = false
)

var (
	// ErrDimensionMismatch is returned when a grid cannot be split into whole chunks.
	ErrDimensionMismatch = errors.New("grid dimensions do not match chunk size")

	// ErrIndexOutOfRange marks an access outside the grid. It indicates a logic error.
	ErrIndexOutOfRange = errors.New("grid index out of range")

	// ErrInvalidProbability is returned for fill probabilities outside [0,1].
	ErrInvalidProbability = errors.New("fill probability outside [0,1]")

	// ErrInvalidDimensions is returned for non-positive grid sizes.
	ErrInvalidDimensions = errors.New("grid dimensions must be positive")
)

// Grid is a width x height boolean field stored row-major.
type Grid struct {
	width  int
	height int
	cells  []bool
}

// New allocates a grid with every cell set to Air.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}, nil
}

// NewBordered allocates a grid whose border frame is Wall and interior is Air.
func NewBordered(width, height int) (*Grid, error) {
	g, err := New(width, height)
	if err != nil {
		return nil, err
	}
	g.FillBorder()
	return g, nil
}

// FromRows builds a grid from rows of '#' (wall) and '.' (air).
// All rows must have the same length.
func FromRows(rows ...string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidDimensions)
	}
	g, err := New(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrDimensionMismatch, y, len(row), g.width)
		}
		for x := 0; x < len(row); x++ {
			g.cells[y*g.width+x] = row[x] == '#'
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// IsBorder reports whether (x, y) lies on the outer frame.
func (g *Grid) IsBorder(x, y int) bool {
	return x == 0 || y == 0 || x == g.width-1 || y == g.height-1
}

// At returns the value at (x, y). It panics on out-of-range access.
func (g *Grid) At(x, y int) bool {
	g.mustInBounds(x, y)
	return g.cells[y*g.width+x]
}

// Set stores v at (x, y). It panics on out-of-range access.
func (g *Grid) Set(x, y int, v bool) {
	g.mustInBounds(x, y)
	g.cells[y*g.width+x] = v
}

// Sample returns the value at (x, y), treating anything outside the grid as Wall.
// Only the tessellator and smoothing neighbourhood use this.
func (g *Grid) Sample(x, y int) bool {
	if !g.InBounds(x, y) {
		return Wall
	}
	return g.cells[y*g.width+x]
}

// FillBorder forces every border cell to Wall.
func (g *Grid) FillBorder() {
	for x := 0; x < g.width; x++ {
		g.cells[x] = Wall
		g.cells[(g.height-1)*g.width+x] = Wall
	}
	for y := 0; y < g.height; y++ {
		g.cells[y*g.width] = Wall
		g.cells[y*g.width+g.width-1] = Wall
	}
}

// Sub copies the w x h rectangle starting at (x0, y0) into a new grid.
func (g *Grid) Sub(x0, y0, w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: sub-grid %dx%d", ErrInvalidDimensions, w, h)
	}
	if !g.InBounds(x0, y0) || !g.InBounds(x0+w-1, y0+h-1) {
		return nil, fmt.Errorf("%w: sub-grid [%d,%d)x[%d,%d) of %dx%d grid",
			ErrIndexOutOfRange, x0, x0+w, y0, y0+h, g.width, g.height)
	}
	sub := &Grid{width: w, height: h, cells: make([]bool, w*h)}
	for y := 0; y < h; y++ {
		src := (y0+y)*g.width + x0
		copy(sub.cells[y*w:(y+1)*w], g.cells[src:src+w])
	}
	return sub, nil
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]bool, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}

// Equal reports whether both grids have the same size and contents.
func (g *Grid) Equal(o *Grid) bool {
	if g.width != o.width || g.height != o.height {
		return false
	}
	for i, v := range g.cells {
		if o.cells[i] != v {
			return false
		}
	}
	return true
}

// Count returns the number of cells holding v.
func (g *Grid) Count(v bool) int {
	n := 0
	for _, c := range g.cells {
		if c == v {
			n++
		}
	}
	return n
}

// String renders the grid with '#' for wall and '.' for air, one row per line.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.width + 1) * g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y*g.width+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (g *Grid) mustInBounds(x, y int) {
	if !g.InBounds(x, y) {
		panic(fmt.Errorf("%w: (%d,%d) in %dx%d grid", ErrIndexOutOfRange, x, y, g.width, g.height))
	}
}
