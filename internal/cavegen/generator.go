// Package cavegen fills occupancy grids with cave-like terrain using random
// seeding, cellular-automaton smoothing and connected-region pruning.
package cavegen

import (
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-caves/internal/grid"
	"github.com/Faultbox/midgard-caves/internal/logger"
)

// Params controls cave generation.
type Params struct {
	Width               int
	Height              int
	FillProbability     float64
	SmoothingIterations int
	MinWallRegion       int
	MinAirRegion        int
}

// Validate checks the parameters before any allocation happens.
func (p Params) Validate() error {
	if p.FillProbability < 0 || p.FillProbability > 1 || math.IsNaN(p.FillProbability) {
		return fmt.Errorf("%w: %v", grid.ErrInvalidProbability, p.FillProbability)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", grid.ErrInvalidDimensions, p.Width, p.Height)
	}
	if p.SmoothingIterations < 0 {
		return fmt.Errorf("negative smoothing iterations: %d", p.SmoothingIterations)
	}
	return nil
}

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate builds a bordered cave grid. The same params and an identically
// seeded rng always produce the same grid.
func Generate(p Params, rng *rand.Rand) (*grid.Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	log := logger.Named("cavegen")

	g, err := grid.NewBordered(p.Width, p.Height)
	if err != nil {
		return nil, err
	}

	// Cleaning an unfilled grid cannot affect the result: the fill below
	// overwrites every interior cell. Kept so the pass order matches the
	// tool's historical output.
	Clean(g, p.MinWallRegion, p.MinAirRegion)

	RandomFill(g, p.FillProbability, rng)
	for i := 0; i < p.SmoothingIterations; i++ {
		Smooth(g)
	}

	stats := Clean(g, p.MinWallRegion, p.MinAirRegion)

	log.Debug("cave generated",
		zap.Int("width", p.Width),
		zap.Int("height", p.Height),
		zap.Float64("fill", p.FillProbability),
		zap.Int("smoothing", p.SmoothingIterations),
		zap.Int("wall_regions", stats.WallRegions),
		zap.Int("air_regions", stats.AirRegions),
		zap.Int("cells_to_air", stats.CellsToAir),
		zap.Int("cells_to_wall", stats.CellsToWall),
		zap.Int("wall_cells", g.Count(grid.Wall)),
	)

	return g, nil
}

// RandomFill sets each interior cell to wall with probability p.
// Border cells are forced to wall.
func RandomFill(g *grid.Grid, p float64, rng *rand.Rand) {
	for x := 0; x < g.Width(); x++ {
		for y := 0; y < g.Height(); y++ {
			if g.IsBorder(x, y) {
				g.Set(x, y, grid.Wall)
				continue
			}
			g.Set(x, y, rng.Float64() < p)
		}
	}
}

// Smooth runs one cellular-automaton pass over the interior. A cell with more
// than four wall neighbours becomes wall, fewer than four becomes air, exactly
// four keeps its value. Cells are updated in place in scan order, so later
// cells see the already-updated values of earlier ones.
func Smooth(g *grid.Grid) {
	for x := 1; x < g.Width()-1; x++ {
		for y := 1; y < g.Height()-1; y++ {
			switch n := WallNeighbors(g, x, y); {
			case n > 4:
				g.Set(x, y, grid.Wall)
			case n < 4:
				g.Set(x, y, grid.Air)
			}
		}
	}
}

// WallNeighbors counts wall cells among the 8 neighbours of (x, y).
// Positions outside the grid count as wall.
func WallNeighbors(g *grid.Grid, x, y int) int {
	n := 0
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if g.Sample(x+dx, y+dy) {
				n++
			}
		}
	}
	return n
}
