// Package native implements the mesh.Kernel contract in pure Go,
// substituting the engine the pipeline would otherwise shell out to. It
// covers dedup builds, vertex welding, hole capping, normal orientation,
// BSP booleans, blocky voxel remeshing and binary STL export.
package native

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/moldforge/internal/geom"
	"github.com/banshee-data/moldforge/internal/mesh"
)

// Kernel is the native mesh kernel. The zero value is ready to use.
type Kernel struct{}

// New returns a native kernel.
func New() *Kernel { return &Kernel{} }

var _ mesh.Kernel = (*Kernel)(nil)

// solid is the kernel-owned watertight mesh. It is mutated in place by
// boolean and remesh requests and only ever read by the pipeline through
// the mesh.Solid interface.
type solid struct {
	verts []geom.Point3
	tris  [][3]int
}

func (s *solid) Vertices() []geom.Point3 { return s.verts }

func (s *solid) NumTriangles() int { return len(s.tris) }

func (s *solid) Bounds() (min, max geom.Point3) {
	if len(s.verts) == 0 {
		return geom.Point3{}, geom.Point3{}
	}
	min, max = s.verts[0], s.verts[0]
	for _, v := range s.verts[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		min.Z = math.Min(min.Z, v.Z)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		max.Z = math.Max(max.Z, v.Z)
	}
	return min, max
}

// triangle materialises triangle i.
func (s *solid) triangle(i int) geom.Triangle {
	t := s.tris[i]
	return geom.Triangle{s.verts[t[0]], s.verts[t[1]], s.verts[t[2]]}
}

func (s *solid) triangles() []geom.Triangle {
	out := make([]geom.Triangle, 0, len(s.tris))
	for i := range s.tris {
		out = append(out, s.triangle(i))
	}
	return out
}

// replace swaps the solid's contents for the deduplicated form of tris.
func (s *solid) replace(tris []geom.Triangle) {
	im := mesh.FromTriangles(tris)
	s.verts = im.Verts
	s.tris = im.Tris
}

// own asserts that a mesh.Solid was produced by this kernel.
func own(op string, s mesh.Solid) (*solid, error) {
	ns, ok := s.(*solid)
	if !ok {
		return nil, mesh.OpErrorf(op, "solid %T was not built by the native kernel", s)
	}
	return ns, nil
}

// BuildSolid constructs a solid from a triangle list, deduplicating
// vertices on the 1e-6 rounding grid and dropping degenerate triangles.
func (k *Kernel) BuildSolid(tris []geom.Triangle) (mesh.Solid, error) {
	if len(tris) == 0 {
		return nil, mesh.OpErrorf("build", "no triangles")
	}
	s := &solid{}
	s.replace(tris)
	if len(s.tris) == 0 {
		return nil, mesh.OpErrorf("build", "all %d triangles degenerate", len(tris))
	}
	return s, nil
}

// Weld merges vertices closer than tol along every axis and drops
// triangles that collapse in the process.
func (k *Kernel) Weld(s mesh.Solid, tol float64) error {
	ns, err := own("weld", s)
	if err != nil {
		return err
	}
	if tol <= 0 {
		return mesh.OpErrorf("weld", "tolerance %g must be positive", tol)
	}

	quant := func(p geom.Point3) [3]int64 {
		return [3]int64{
			int64(math.Round(p.X / tol)),
			int64(math.Round(p.Y / tol)),
			int64(math.Round(p.Z / tol)),
		}
	}

	remap := make([]int, len(ns.verts))
	merged := make([]geom.Point3, 0, len(ns.verts))
	seen := make(map[[3]int64]int)
	for i, v := range ns.verts {
		key := quant(v)
		if j, ok := seen[key]; ok {
			remap[i] = j
			continue
		}
		j := len(merged)
		merged = append(merged, v)
		seen[key] = j
		remap[i] = j
	}

	tris := ns.tris[:0]
	for _, t := range ns.tris {
		a, b, c := remap[t[0]], remap[t[1]], remap[t[2]]
		if a == b || b == c || a == c {
			continue
		}
		if geom.SquaredArea(merged[a], merged[b], merged[c]) < geom.DegenerateAreaEps {
			continue
		}
		tris = append(tris, [3]int{a, b, c})
	}
	ns.verts = merged
	ns.tris = tris
	return nil
}

// FillHoles finds every boundary loop and caps it with a centroid fan.
func (k *Kernel) FillHoles(s mesh.Solid) error {
	ns, err := own("fill-holes", s)
	if err != nil {
		return err
	}
	loops := boundaryLoops(ns)
	if len(loops) == 0 {
		return nil
	}
	tris := ns.triangles()
	for _, loop := range loops {
		pts := make([]geom.Point3, 0, len(loop))
		for _, vi := range loop {
			pts = append(pts, ns.verts[vi])
		}
		caps, err := k.TriangulatePolygon(pts)
		if err != nil {
			return err
		}
		tris = append(tris, caps...)
	}
	ns.replace(tris)
	return nil
}

// boundaryLoops chains directed boundary edges into closed vertex loops.
// Edges that cannot be chained (non-manifold rims) are dropped.
func boundaryLoops(ns *solid) [][]int {
	im := &mesh.IndexedMesh{Verts: ns.verts, Tris: ns.tris}
	edges := im.BoundaryEdges()
	next := make(map[int]int, len(edges))
	for _, e := range edges {
		if _, dup := next[e.A]; dup {
			// Non-manifold rim vertex; keep the first edge only.
			continue
		}
		next[e.A] = e.B
	}

	var loops [][]int
	used := make(map[int]bool, len(next))
	for _, e := range edges {
		if used[e.A] {
			continue
		}
		loop := []int{e.A}
		used[e.A] = true
		for cur := next[e.A]; ; {
			if cur == e.A {
				loops = append(loops, loop)
				break
			}
			n, ok := next[cur]
			if !ok || used[cur] {
				break // open chain, cannot cap
			}
			loop = append(loop, cur)
			used[cur] = true
			cur = n
		}
	}
	return loops
}

// TriangulatePolygon triangulates a closed loop with a centroid fan. The
// fan traverses each loop edge opposite to the loop's own direction: a
// boundary edge runs one way in the surrounding triangles, so the cap
// sealing it must run the other way to keep the mesh consistently wound.
func (k *Kernel) TriangulatePolygon(loop []geom.Point3) ([]geom.Triangle, error) {
	if len(loop) < 3 {
		return nil, mesh.OpErrorf("triangulate", "loop has %d points, need at least 3", len(loop))
	}
	var centroid geom.Point3
	for _, p := range loop {
		centroid = r3.Add(centroid, p)
	}
	centroid = r3.Scale(1/float64(len(loop)), centroid)

	out := make([]geom.Triangle, 0, len(loop))
	for i := range loop {
		j := (i + 1) % len(loop)
		t := geom.Triangle{centroid, loop[j], loop[i]}
		if !t.Degenerate() {
			out = append(out, t)
		}
	}
	return out, nil
}

// OrientNormals makes the winding consistent across shared edges by
// flooding out from each component's first triangle, then flips the whole
// mesh if its signed volume says the normals point inward.
func (k *Kernel) OrientNormals(s mesh.Solid) error {
	ns, err := own("orient", s)
	if err != nil {
		return err
	}
	if len(ns.tris) == 0 {
		return nil
	}

	// Adjacency over undirected edges.
	byEdge := make(map[mesh.Edge][]int, len(ns.tris)*3/2)
	for i, t := range ns.tris {
		byEdge[mesh.MakeEdge(t[0], t[1])] = append(byEdge[mesh.MakeEdge(t[0], t[1])], i)
		byEdge[mesh.MakeEdge(t[1], t[2])] = append(byEdge[mesh.MakeEdge(t[1], t[2])], i)
		byEdge[mesh.MakeEdge(t[2], t[0])] = append(byEdge[mesh.MakeEdge(t[2], t[0])], i)
	}

	visited := make([]bool, len(ns.tris))
	for start := range ns.tris {
		if visited[start] {
			continue
		}
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			t := ns.tris[cur]
			dirs := [3][2]int{{t[0], t[1]}, {t[1], t[2]}, {t[2], t[0]}}
			for _, d := range dirs {
				for _, nb := range byEdge[mesh.MakeEdge(d[0], d[1])] {
					if nb == cur || visited[nb] {
						continue
					}
					// A consistent neighbour traverses the shared edge the
					// opposite way.
					if hasDirectedEdge(ns.tris[nb], d[0], d[1]) {
						ns.tris[nb][1], ns.tris[nb][2] = ns.tris[nb][2], ns.tris[nb][1]
					}
					visited[nb] = true
					queue = append(queue, nb)
				}
			}
		}
	}

	if signedVolume(ns) < 0 {
		for i := range ns.tris {
			ns.tris[i][1], ns.tris[i][2] = ns.tris[i][2], ns.tris[i][1]
		}
	}
	return nil
}

func hasDirectedEdge(t [3]int, a, b int) bool {
	return (t[0] == a && t[1] == b) || (t[1] == a && t[2] == b) || (t[2] == a && t[0] == b)
}

// signedVolume sums the tetrahedron volumes spanned by each triangle and
// the origin. Positive means outward-facing normals overall.
func signedVolume(ns *solid) float64 {
	var v float64
	for i := range ns.tris {
		t := ns.triangle(i)
		v += r3.Dot(t[0], r3.Cross(t[1], t[2]))
	}
	return v / 6
}
