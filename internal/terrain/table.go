package terrain

import "fmt"

// Anchor is a vertex position inside a cell, as fractions of the cell size
// measured from its top-left corner. Edge midpoints sit at exactly 0.5.
type Anchor [2]float32

// Cell anchors: four corners and four edge midpoints.
var (
	topLeft     = Anchor{0, 0}
	topRight    = Anchor{1, 0}
	bottomRight = Anchor{1, 1}
	bottomLeft  = Anchor{0, 1}

	midTop    = Anchor{0.5, 0}
	midRight  = Anchor{1, 0.5}
	midBottom = Anchor{0.5, 1}
	midLeft   = Anchor{0, 0.5}
)

// Shape is the geometry emitted for one marching-squares case.
// Triangles index into Vertices.
type Shape struct {
	Vertices  []Anchor
	Triangles [][3]uint32
}

var (
	single = [][3]uint32{{0, 1, 2}}
	quad   = [][3]uint32{{0, 1, 2}, {0, 2, 3}}
	fan    = [][3]uint32{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}}
	pair   = [][3]uint32{{0, 1, 2}, {3, 4, 5}}
)

// Corner weights of the case value.
const (
	weightTopLeft     = 8
	weightTopRight    = 4
	weightBottomRight = 2
	weightBottomLeft  = 1
)

// caseTable maps every 4-bit corner mask to its geometry. Saddle cases (5 and
// 10) emit two disjoint corner triangles without consulting the cell centre,
// so diagonal walls may look disconnected at such cells.
var caseTable = [16]Shape{
	0: {},
	1: {Vertices: []Anchor{midLeft, bottomLeft, midBottom}, Triangles: single},
	2: {Vertices: []Anchor{midBottom, midRight, bottomRight}, Triangles: single},
	3: {Vertices: []Anchor{midLeft, midRight, bottomRight, bottomLeft}, Triangles: quad},
	4: {Vertices: []Anchor{topRight, midRight, midTop}, Triangles: single},
	5: {Vertices: []Anchor{midLeft, bottomLeft, midBottom, topRight, midRight, midTop}, Triangles: pair},
	6: {Vertices: []Anchor{midTop, topRight, bottomRight, midBottom}, Triangles: quad},
	7: {Vertices: []Anchor{bottomLeft, bottomRight, topRight, midTop, midLeft}, Triangles: fan},
	8: {Vertices: []Anchor{topLeft, midTop, midLeft}, Triangles: single},
	9: {Vertices: []Anchor{topLeft, midTop, midBottom, bottomLeft}, Triangles: quad},
	10: {Vertices: []Anchor{midBottom, midRight, bottomRight, topLeft, midTop, midLeft}, Triangles: pair},
	11: {Vertices: []Anchor{bottomRight, bottomLeft, topLeft, midTop, midRight}, Triangles: fan},
	12: {Vertices: []Anchor{midRight, midLeft, topLeft, topRight}, Triangles: quad},
	13: {Vertices: []Anchor{topRight, topLeft, bottomLeft, midBottom, midRight}, Triangles: fan},
	14: {Vertices: []Anchor{topLeft, topRight, bottomRight, midBottom, midLeft}, Triangles: fan},
	15: {Vertices: []Anchor{topLeft, topRight, bottomRight, bottomLeft}, Triangles: quad},
}

func init() {
	if err := validateTable(caseTable[:]); err != nil {
		panic(err)
	}
}

// validateTable checks that every case references only its own vertices and
// uses each vertex at least once.
func validateTable(table []Shape) error {
	if len(table) != 16 {
		return fmt.Errorf("case table has %d entries, want 16", len(table))
	}
	for c, s := range table {
		used := make([]bool, len(s.Vertices))
		for _, tri := range s.Triangles {
			for _, i := range tri {
				if int(i) >= len(s.Vertices) {
					return fmt.Errorf("case %d: triangle index %d beyond %d vertices", c, i, len(s.Vertices))
				}
				used[i] = true
			}
		}
		for i, ok := range used {
			if !ok {
				return fmt.Errorf("case %d: vertex %d unused", c, i)
			}
		}
	}
	return nil
}

// CaseValue packs four corner samples into a case index.
func CaseValue(tl, tr, br, bl bool) uint8 {
	var v uint8
	if tl {
		v += weightTopLeft
	}
	if tr {
		v += weightTopRight
	}
	if br {
		v += weightBottomRight
	}
	if bl {
		v += weightBottomLeft
	}
	return v
}

// CaseShape returns the geometry for a case value. It panics for values
// above 15, which CaseValue cannot produce.
func CaseShape(value uint8) Shape {
	if int(value) >= len(caseTable) {
		panic(fmt.Sprintf("terrain: marching-squares case %d out of range", value))
	}
	return caseTable[value]
}
