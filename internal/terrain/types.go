// Package terrain turns padded chunk grids into flat triangle meshes using
// marching squares.
package terrain

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-caves/internal/chunk"
)

// Normal is the facing of every emitted vertex; meshes are flat 2D sheets.
var Normal = mgl32.Vec3{0, 0, 1}

// Mesh holds one chunk's geometry ready for GPU upload. Normals and UVs run
// parallel to Positions; Indices is a flat triangle list.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
	Bounds    Bounds
}

// Bounds holds the axis-aligned bounding box of a mesh.
// An empty mesh has Empty set and zero extents.
type Bounds struct {
	Min   mgl32.Vec3
	Max   mgl32.Vec3
	Empty bool
}

// ChunkMesh is the artifact handed to the renderer: the mesh in chunk-local
// coordinates plus the world offset the renderer must translate it by.
type ChunkMesh struct {
	Coord  chunk.Coord
	Offset mgl32.Vec2
	Mesh   *Mesh
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Translate returns a copy of the mesh with every position moved by offset.
func (m *Mesh) Translate(offset mgl32.Vec2) *Mesh {
	d := mgl32.Vec3{offset.X(), offset.Y(), 0}
	out := &Mesh{
		Positions: make([]mgl32.Vec3, len(m.Positions)),
		Normals:   append([]mgl32.Vec3(nil), m.Normals...),
		UVs:       append([]mgl32.Vec2(nil), m.UVs...),
		Indices:   append([]uint32(nil), m.Indices...),
		Bounds:    m.Bounds,
	}
	for i, p := range m.Positions {
		out.Positions[i] = p.Add(d)
	}
	if !out.Bounds.Empty {
		out.Bounds.Min = out.Bounds.Min.Add(d)
		out.Bounds.Max = out.Bounds.Max.Add(d)
	}
	return out
}

// World returns the mesh translated to its world position.
func (cm ChunkMesh) World() *Mesh {
	return cm.Mesh.Translate(cm.Offset)
}

func emptyBounds() Bounds {
	return Bounds{Empty: true}
}

func updateBounds(b *Bounds, p mgl32.Vec3) {
	if b.Empty {
		b.Min, b.Max, b.Empty = p, p, false
		return
	}
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
