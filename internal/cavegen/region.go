package cavegen

import (
	"github.com/Faultbox/midgard-caves/internal/grid"
)

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// Region is a maximal 4-connected set of cells sharing one value.
type Region struct {
	Value bool
	Cells []Cell
}

// Size returns the number of cells in the region.
func (r Region) Size() int { return len(r.Cells) }

// TouchesBorder reports whether any member lies on the grid frame.
func (r Region) TouchesBorder(g *grid.Grid) bool {
	for _, c := range r.Cells {
		if g.IsBorder(c.X, c.Y) {
			return true
		}
	}
	return false
}

// CleanStats summarizes one pruning pass.
type CleanStats struct {
	WallRegions        int
	AirRegions         int
	WallRegionsFlipped int
	AirRegionsFlipped  int
	CellsToAir         int
	CellsToWall        int
}

var neighbors4 = [4][2]int{{-1, 0}, {1, 0}, {0, 1}, {0, -1}}

// Regions returns every region of cells holding value. Cells are scanned
// column by column; each unvisited match seeds a stack-based flood fill.
func Regions(g *grid.Grid, value bool) []Region {
	w, h := g.Width(), g.Height()
	visited := make([]bool, w*h)

	var regions []Region
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if g.At(x, y) != value || visited[y*w+x] {
				continue
			}
			regions = append(regions, Region{
				Value: value,
				Cells: floodFill(g, x, y, visited),
			})
		}
	}
	return regions
}

// floodFill collects the region containing (sx, sy) and marks it visited.
func floodFill(g *grid.Grid, sx, sy int, visited []bool) []Cell {
	w := g.Width()
	target := g.At(sx, sy)

	var cells []Cell
	stack := []Cell{{sx, sy}}
	visited[sy*w+sx] = true

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cells = append(cells, c)

		for _, d := range neighbors4 {
			nx, ny := c.X+d[0], c.Y+d[1]
			if !g.InBounds(nx, ny) || visited[ny*w+nx] || g.At(nx, ny) != target {
				continue
			}
			visited[ny*w+nx] = true
			stack = append(stack, Cell{nx, ny})
		}
	}
	return cells
}

// Clean flips undersized regions in place: wall regions smaller than
// minWallRegion become air, then air regions smaller than minAirRegion become
// wall. A region survives when its size is at least the threshold.
//
// The wall region anchored to the grid frame is never flipped, so the border
// stays solid whatever the thresholds.
func Clean(g *grid.Grid, minWallRegion, minAirRegion int) CleanStats {
	var stats CleanStats

	walls := Regions(g, grid.Wall)
	stats.WallRegions = len(walls)
	for _, r := range walls {
		if r.Size() >= minWallRegion || r.TouchesBorder(g) {
			continue
		}
		stats.WallRegionsFlipped++
		stats.CellsToAir += flip(g, r)
	}

	air := Regions(g, grid.Air)
	stats.AirRegions = len(air)
	for _, r := range air {
		if r.Size() >= minAirRegion {
			continue
		}
		stats.AirRegionsFlipped++
		stats.CellsToWall += flip(g, r)
	}

	return stats
}

func flip(g *grid.Grid, r Region) int {
	for _, c := range r.Cells {
		g.Set(c.X, c.Y, !r.Value)
	}
	return len(r.Cells)
}
