// Package mesh holds the indexed mesh form, the solidifier, and the
// contract for the mesh kernel that performs boolean, remesh and export
// operations on watertight solids.
package mesh

import "github.com/banshee-data/moldforge/internal/geom"

// IndexedMesh is the deduplicated form of a triangle soup: a vertex array
// keyed by coordinates rounded to 1e-6 plus index triples into it. Every
// stored triangle has three distinct indices.
type IndexedMesh struct {
	Verts []geom.Point3
	Tris  [][3]int

	index map[[3]int64]int
}

// NewIndexedMesh returns an empty indexed mesh.
func NewIndexedMesh() *IndexedMesh {
	return &IndexedMesh{index: make(map[[3]int64]int)}
}

// FromTriangles builds an indexed mesh from a triangle list, deduplicating
// vertices and dropping degenerate triangles.
func FromTriangles(tris []geom.Triangle) *IndexedMesh {
	m := NewIndexedMesh()
	for _, t := range tris {
		m.AddTriangle(t)
	}
	return m
}

// AddVertex interns p and returns its index.
func (m *IndexedMesh) AddVertex(p geom.Point3) int {
	if m.index == nil {
		m.index = make(map[[3]int64]int)
		for i, v := range m.Verts {
			m.index[geom.VertexKey(v)] = i
		}
	}
	key := geom.VertexKey(p)
	if i, ok := m.index[key]; ok {
		return i
	}
	i := len(m.Verts)
	m.Verts = append(m.Verts, p)
	m.index[key] = i
	return i
}

// AddTriangle interns the triangle's vertices and stores the index triple.
// Triangles that are degenerate by area, or whose vertices collapse onto
// fewer than three distinct indices after dedup, are dropped; the return
// value reports whether the triangle was kept.
func (m *IndexedMesh) AddTriangle(t geom.Triangle) bool {
	if t.Degenerate() {
		return false
	}
	a := m.AddVertex(t[0])
	b := m.AddVertex(t[1])
	c := m.AddVertex(t[2])
	if a == b || b == c || a == c {
		return false
	}
	m.Tris = append(m.Tris, [3]int{a, b, c})
	return true
}

// Triangle materialises the i-th stored triangle.
func (m *IndexedMesh) Triangle(i int) geom.Triangle {
	t := m.Tris[i]
	return geom.Triangle{m.Verts[t[0]], m.Verts[t[1]], m.Verts[t[2]]}
}

// Triangles materialises every stored triangle.
func (m *IndexedMesh) Triangles() []geom.Triangle {
	out := make([]geom.Triangle, 0, len(m.Tris))
	for i := range m.Tris {
		out = append(out, m.Triangle(i))
	}
	return out
}

// Edge is an undirected vertex index pair with lo <= hi.
type Edge [2]int

// MakeEdge normalises an index pair into undirected form.
func MakeEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{a, b}
}

// EdgeUseCounts returns, for every undirected edge, the number of incident
// triangles.
func (m *IndexedMesh) EdgeUseCounts() map[Edge]int {
	counts := make(map[Edge]int, len(m.Tris)*3/2)
	for _, t := range m.Tris {
		counts[MakeEdge(t[0], t[1])]++
		counts[MakeEdge(t[1], t[2])]++
		counts[MakeEdge(t[2], t[0])]++
	}
	return counts
}

// DirectedEdge is an edge in the winding direction of its owning triangle.
type DirectedEdge struct {
	A, B int
}

// BoundaryEdges returns the edges incident to exactly one triangle, in the
// winding direction of that triangle. For an open surface produced by the
// loft/stitch stages these form one or more closed loops. Order follows
// triangle storage order, keeping the result deterministic.
func (m *IndexedMesh) BoundaryEdges() []DirectedEdge {
	counts := m.EdgeUseCounts()
	var out []DirectedEdge
	for _, t := range m.Tris {
		pairs := [3][2]int{{t[0], t[1]}, {t[1], t[2]}, {t[2], t[0]}}
		for _, p := range pairs {
			if counts[MakeEdge(p[0], p[1])] == 1 {
				out = append(out, DirectedEdge{A: p[0], B: p[1]})
			}
		}
	}
	return out
}
