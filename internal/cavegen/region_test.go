package cavegen

import (
	"testing"

	"github.com/Faultbox/midgard-caves/internal/grid"
)

func TestRegionsPartitionGrid(t *testing.T) {
	params := defaultParams()
	params.SmoothingIterations = 1
	g, err := Generate(params, NewRand(11))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, value := range []bool{grid.Wall, grid.Air} {
		seen := make(map[Cell]bool)
		for _, r := range Regions(g, value) {
			if r.Value != value {
				t.Errorf("region value %v, want %v", r.Value, value)
			}
			for _, c := range r.Cells {
				if seen[c] {
					t.Fatalf("cell %v belongs to more than one region", c)
				}
				seen[c] = true
				if g.At(c.X, c.Y) != value {
					t.Fatalf("cell %v holds %v, region value %v", c, g.At(c.X, c.Y), value)
				}
			}
		}
		if len(seen) != g.Count(value) {
			t.Errorf("value %v: regions cover %d cells, grid holds %d", value, len(seen), g.Count(value))
		}
	}
}

func TestRegionsFourConnected(t *testing.T) {
	// Diagonal neighbours do not join regions.
	g, _ := grid.FromRows(
		"#...",
		".#..",
		"..##",
		"....",
	)

	walls := Regions(g, grid.Wall)
	if len(walls) != 3 {
		t.Fatalf("expected 3 wall regions, got %d", len(walls))
	}

	sizes := map[int]int{}
	for _, r := range walls {
		sizes[r.Size()]++
	}
	if sizes[1] != 2 || sizes[2] != 1 {
		t.Errorf("unexpected region sizes %v", sizes)
	}

	air := Regions(g, grid.Air)
	if len(air) != 2 {
		t.Errorf("expected 2 air regions, got %d", len(air))
	}
}

func TestCleanThresholdInclusive(t *testing.T) {
	rows := []string{
		"########",
		"#......#",
		"#.##...#",
		"#......#",
		"#....#.#",
		"#......#",
		"########",
	}

	// The two-cell island survives a threshold of 2, the one-cell island does not.
	g, _ := grid.FromRows(rows...)
	stats := Clean(g, 2, 1)
	if !g.At(2, 2) || !g.At(3, 2) {
		t.Error("region of size == threshold should survive")
	}
	if g.At(5, 4) {
		t.Error("region below threshold should become air")
	}
	if stats.WallRegionsFlipped != 1 || stats.CellsToAir != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}

	g, _ = grid.FromRows(rows...)
	Clean(g, 3, 1)
	if g.At(2, 2) || g.At(3, 2) {
		t.Error("region of size threshold-1 should become air")
	}
}

func TestCleanFillsSmallCaves(t *testing.T) {
	g, _ := grid.FromRows(
		"#######",
		"#..#..#",
		"#..#..#",
		"#######",
		"#.....#",
		"#.....#",
		"#######",
	)

	stats := Clean(g, 1, 5)
	if stats.AirRegionsFlipped != 2 || stats.CellsToWall != 8 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if !g.At(1, 1) || !g.At(4, 2) {
		t.Error("4-cell caves should be filled")
	}
	if g.At(1, 4) {
		t.Error("10-cell cave should survive")
	}
}

func TestCleanKeepsBorder(t *testing.T) {
	g, _ := grid.NewBordered(6, 6)

	// Frame has 20 cells, far below the threshold.
	Clean(g, 1000, 1)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			if g.IsBorder(x, y) && !g.At(x, y) {
				t.Fatalf("border cell (%d,%d) flipped to air", x, y)
			}
		}
	}
}

func TestCleanIdempotent(t *testing.T) {
	for seed := uint64(1); seed <= 4; seed++ {
		params := defaultParams()
		params.SmoothingIterations = 2
		g, err := Generate(params, NewRand(seed))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}

		before := g.Clone()
		stats := Clean(g, params.MinWallRegion, params.MinAirRegion)
		if !g.Equal(before) {
			t.Errorf("seed %d: second clean changed the grid", seed)
		}
		if stats.CellsToAir != 0 || stats.CellsToWall != 0 {
			t.Errorf("seed %d: second clean flipped cells: %+v", seed, stats)
		}
	}
}
