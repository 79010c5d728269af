package terrain

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-caves/internal/chunk"
	"github.com/Faultbox/midgard-caves/internal/grid"
)

// Tessellate builds the mesh for one padded chunk. The chunk's logical size
// is its padded size minus chunk.Padding; logical cell (col, row) runs from 1
// to size inclusive and samples corners (col,row), (col+1,row), (col+1,row+1) and
// (col,row+1). Corners outside the padded grid read as wall.
//
// Positions are chunk-local and centred on the origin. Vertices are not
// shared between cells.
func Tessellate(padded *grid.Grid, cellSize float32) *Mesh {
	cols := padded.Width() - chunk.Padding
	rows := padded.Height() - chunk.Padding
	halfW := float32(cols) * cellSize / 2
	halfH := float32(rows) * cellSize / 2

	mesh := &Mesh{Bounds: emptyBounds()}

	for row := 1; row <= rows; row++ {
		for col := 1; col <= cols; col++ {
			shape := CaseShape(CellCase(padded, col, row))
			if len(shape.Vertices) == 0 {
				continue
			}

			leftX := float32(col-1)*cellSize - halfW
			topY := float32(row-1)*cellSize - halfH

			base := uint32(len(mesh.Positions))
			for _, a := range shape.Vertices {
				p := mgl32.Vec3{leftX + a[0]*cellSize, topY + a[1]*cellSize, 0}
				mesh.Positions = append(mesh.Positions, p)
				mesh.Normals = append(mesh.Normals, Normal)
				mesh.UVs = append(mesh.UVs, mgl32.Vec2{0, 0})
				updateBounds(&mesh.Bounds, p)
			}
			for _, tri := range shape.Triangles {
				mesh.Indices = append(mesh.Indices, base+tri[0], base+tri[1], base+tri[2])
			}
		}
	}

	return mesh
}

// CellCase returns the marching-squares case of the cell whose top-left
// corner is (col, row) in the padded grid.
func CellCase(padded *grid.Grid, col, row int) uint8 {
	return CaseValue(
		padded.Sample(col, row),
		padded.Sample(col+1, row),
		padded.Sample(col+1, row+1),
		padded.Sample(col, row+1),
	)
}

// ChunkOffset returns the world translation of chunk c:
// chunk index * chunk size * cell size on each axis.
func ChunkOffset(c chunk.Coord, chunkSize int, cellSize float32) mgl32.Vec2 {
	span := float32(chunkSize) * cellSize
	return mgl32.Vec2{float32(c.X) * span, float32(c.Y) * span}
}
