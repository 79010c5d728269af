package terrain

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-caves/internal/cavegen"
	"github.com/Faultbox/midgard-caves/internal/chunk"
	"github.com/Faultbox/midgard-caves/internal/grid"
)

func TestCaseTableCounts(t *testing.T) {
	wantVertices := [16]int{0, 3, 3, 4, 3, 6, 4, 5, 3, 4, 6, 5, 4, 5, 5, 4}
	wantTriangles := [16]int{0, 1, 1, 2, 1, 2, 2, 3, 1, 2, 2, 3, 2, 3, 3, 2}

	for c := 0; c < 16; c++ {
		s := CaseShape(uint8(c))
		if len(s.Vertices) != wantVertices[c] {
			t.Errorf("case %d: %d vertices, want %d", c, len(s.Vertices), wantVertices[c])
		}
		if len(s.Triangles) != wantTriangles[c] {
			t.Errorf("case %d: %d triangles, want %d", c, len(s.Triangles), wantTriangles[c])
		}
	}

	if err := validateTable(caseTable[:]); err != nil {
		t.Errorf("case table invalid: %v", err)
	}
}

func TestCaseShapeCorners(t *testing.T) {
	// Each corner case must include its own corner and no other corner.
	corners := map[uint8]Anchor{
		8: topLeft,
		4: topRight,
		2: bottomRight,
		1: bottomLeft,
	}

	for value, corner := range corners {
		s := CaseShape(value)
		found := false
		for _, a := range s.Vertices {
			if a == corner {
				found = true
				continue
			}
			if (a[0] == 0 || a[0] == 1) && (a[1] == 0 || a[1] == 1) {
				t.Errorf("case %d: unexpected corner %v", value, a)
			}
		}
		if !found {
			t.Errorf("case %d: missing corner %v", value, corner)
		}
	}
}

func TestCaseShapeOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for case 16")
		}
	}()
	CaseShape(16)
}

func TestValidateTableRejectsBadIndex(t *testing.T) {
	bad := make([]Shape, 16)
	copy(bad, caseTable[:])
	bad[3] = Shape{Vertices: []Anchor{topLeft}, Triangles: single}

	if err := validateTable(bad); err == nil {
		t.Error("expected error for out of range triangle index")
	}
	if err := validateTable(bad[:15]); err == nil {
		t.Error("expected error for short table")
	}
}

func TestCaseValue(t *testing.T) {
	tests := []struct {
		tl, tr, br, bl bool
		want           uint8
	}{
		{false, false, false, false, 0},
		{false, false, false, true, 1},
		{false, false, true, false, 2},
		{false, true, false, false, 4},
		{true, false, false, false, 8},
		{true, false, true, false, 10},
		{true, true, true, true, 15},
	}

	for _, tt := range tests {
		if got := CaseValue(tt.tl, tt.tr, tt.br, tt.bl); got != tt.want {
			t.Errorf("CaseValue(%v,%v,%v,%v) = %d, want %d", tt.tl, tt.tr, tt.br, tt.bl, got, tt.want)
		}
	}
}

func TestSingleWallCell(t *testing.T) {
	g, _ := grid.FromRows(
		"######",
		"#....#",
		"#.#..#",
		"#....#",
		"#....#",
		"######",
	)

	if got := CellCase(g, 1, 1); got != 2 {
		t.Fatalf("case at (1,1) = %d, want 2", got)
	}

	s := CaseShape(2)
	if len(s.Vertices) != 3 || len(s.Triangles)*3 != 3 {
		t.Errorf("case 2 emits %d vertices and %d indices", len(s.Vertices), len(s.Triangles)*3)
	}
}

func TestTessellateAllWall(t *testing.T) {
	g, _ := grid.New(18, 18)
	for y := 0; y < 18; y++ {
		for x := 0; x < 18; x++ {
			g.Set(x, y, grid.Wall)
		}
	}

	m := Tessellate(g, 10)
	if m.TriangleCount() != 512 {
		t.Errorf("expected 512 triangles, got %d", m.TriangleCount())
	}
	if len(m.Indices) != 1536 {
		t.Errorf("expected 1536 indices, got %d", len(m.Indices))
	}
	if m.VertexCount() != 1024 {
		t.Errorf("expected 1024 vertices, got %d", m.VertexCount())
	}

	// The chunk is centred on its origin.
	want := Bounds{Min: mgl32.Vec3{-80, -80, 0}, Max: mgl32.Vec3{80, 80, 0}}
	if m.Bounds != want {
		t.Errorf("bounds = %+v, want %+v", m.Bounds, want)
	}
}

func TestTessellateAllAir(t *testing.T) {
	g, _ := grid.New(18, 18)

	m := Tessellate(g, 10)
	if m.VertexCount() != 0 || len(m.Indices) != 0 {
		t.Errorf("expected empty mesh, got %d vertices and %d indices", m.VertexCount(), len(m.Indices))
	}
	if !m.Bounds.Empty {
		t.Error("expected empty bounds")
	}
}

func TestTessellateBufferInvariants(t *testing.T) {
	g, err := cavegen.Generate(cavegen.Params{
		Width: 34, Height: 34, FillProbability: 0.48, SmoothingIterations: 3,
		MinWallRegion: 5, MinAirRegion: 5,
	}, cavegen.NewRand(3))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	cm, err := chunk.Partition(g, chunk.DefaultSize)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}

	for _, c := range cm.Coords() {
		m := Tessellate(cm.At(c), 6)
		if len(m.Normals) != len(m.Positions) || len(m.UVs) != len(m.Positions) {
			t.Errorf("chunk %s: buffer lengths %d/%d/%d", c, len(m.Positions), len(m.Normals), len(m.UVs))
		}
		if len(m.Indices)%3 != 0 {
			t.Errorf("chunk %s: %d indices not a multiple of 3", c, len(m.Indices))
		}
		for _, i := range m.Indices {
			if int(i) >= len(m.Positions) {
				t.Fatalf("chunk %s: index %d beyond %d vertices", c, i, len(m.Positions))
			}
		}
		for i := range m.Normals {
			if m.Normals[i] != Normal || m.UVs[i] != (mgl32.Vec2{}) {
				t.Fatalf("chunk %s: vertex %d has normal %v uv %v", c, i, m.Normals[i], m.UVs[i])
			}
		}
	}
}

func TestTessellateCellPositions(t *testing.T) {
	// A single wall sample at padded (1,1): only cell (1,1) sees it, as its
	// top-left corner, giving case 8 in the chunk's first cell.
	g, _ := grid.New(4, 4)
	g.Set(1, 1, grid.Wall)

	m := Tessellate(g, 2)

	want := []mgl32.Vec3{{-2, -2, 0}, {-1, -2, 0}, {-2, -1, 0}}
	if !reflect.DeepEqual(m.Positions, want) {
		t.Errorf("positions = %v, want %v", m.Positions, want)
	}
	if !reflect.DeepEqual(m.Indices, []uint32{0, 1, 2}) {
		t.Errorf("indices = %v, want [0 1 2]", m.Indices)
	}
}

func TestTessellateDeterministic(t *testing.T) {
	build := func() []ChunkMesh {
		g, err := cavegen.Generate(cavegen.Params{
			Width: 50, Height: 34, FillProbability: 0.45, SmoothingIterations: 4,
			MinWallRegion: 10, MinAirRegion: 30,
		}, cavegen.NewRand(77))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		cm, err := chunk.Partition(g, chunk.DefaultSize)
		if err != nil {
			t.Fatalf("Partition: %v", err)
		}
		meshes, err := BuildAll(context.Background(), cm, 10, 1)
		if err != nil {
			t.Fatalf("BuildAll: %v", err)
		}
		return meshes
	}

	if !reflect.DeepEqual(build(), build()) {
		t.Error("same seed produced different meshes")
	}
}

func TestBuildAllParallelMatchesSequential(t *testing.T) {
	g, err := cavegen.Generate(cavegen.Params{
		Width: 66, Height: 50, FillProbability: 0.48, SmoothingIterations: 4,
		MinWallRegion: 20, MinAirRegion: 50,
	}, cavegen.NewRand(5))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	cm, err := chunk.Partition(g, chunk.DefaultSize)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}

	seq, err := BuildAll(context.Background(), cm, 10, 1)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	par, err := BuildAll(context.Background(), cm, 10, 8)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	if len(seq) != cm.ChunksX*cm.ChunksY {
		t.Fatalf("expected %d chunk meshes, got %d", cm.ChunksX*cm.ChunksY, len(seq))
	}
	if !reflect.DeepEqual(seq, par) {
		t.Error("parallel build differs from sequential build")
	}
	for i, c := range cm.Coords() {
		if seq[i].Coord != c {
			t.Errorf("mesh %d has coord %s, want %s", i, seq[i].Coord, c)
		}
		if seq[i].Offset != ChunkOffset(c, 16, 10) {
			t.Errorf("mesh %d has offset %v", i, seq[i].Offset)
		}
	}
}

func TestBuildSkipsUnknownChunks(t *testing.T) {
	g, _ := grid.NewBordered(34, 18)
	cm, err := chunk.Partition(g, chunk.DefaultSize)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}

	meshes, err := Build(context.Background(), cm, []chunk.Coord{{1, 0}, {5, 5}, {0, 0}}, 10, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(meshes) != 2 || meshes[0].Coord != (chunk.Coord{1, 0}) || meshes[1].Coord != (chunk.Coord{0, 0}) {
		t.Errorf("unexpected meshes %+v", meshes)
	}
}

func TestBuildAllCancelled(t *testing.T) {
	g, _ := grid.NewBordered(34, 34)
	cm, err := chunk.Partition(g, chunk.DefaultSize)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := BuildAll(ctx, cm, 10, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestChunkOffset(t *testing.T) {
	got := ChunkOffset(chunk.Coord{X: 2, Y: 3}, 16, 10)
	if got != (mgl32.Vec2{320, 480}) {
		t.Errorf("offset = %v, want [320 480]", got)
	}
}

func TestTranslate(t *testing.T) {
	g, _ := grid.New(18, 18)
	g.Set(5, 5, grid.Wall)
	m := Tessellate(g, 1)

	moved := m.Translate(mgl32.Vec2{100, -50})
	for i := range m.Positions {
		want := m.Positions[i].Add(mgl32.Vec3{100, -50, 0})
		if moved.Positions[i] != want {
			t.Fatalf("vertex %d = %v, want %v", i, moved.Positions[i], want)
		}
	}
	if moved.Bounds.Min != m.Bounds.Min.Add(mgl32.Vec3{100, -50, 0}) {
		t.Errorf("bounds not translated: %+v", moved.Bounds)
	}
	if &moved.Indices[0] == &m.Indices[0] {
		t.Error("translated mesh shares index storage")
	}
}
