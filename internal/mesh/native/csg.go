package native

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/moldforge/internal/geom"
	"github.com/banshee-data/moldforge/internal/mesh"
)

// Boolean operations via BSP-tree CSG (the csg.js construction: build both
// trees, clip each against the other, merge). Robust enough for the
// convex parametric cutters the feature engine produces; the voxel remesh
// stage exists to clean up whatever artifacts remain.

// planeEps is the point-to-plane distance below which a vertex is treated
// as lying on the plane during polygon splitting.
const planeEps = 1e-9

// Union merges cutter into target in place.
func (k *Kernel) Union(target, cutter mesh.Solid) error {
	return k.boolean("union", target, cutter, func(a, b *bspNode) []csgPolygon {
		a.clipTo(b)
		b.clipTo(a)
		b.invert()
		b.clipTo(a)
		b.invert()
		a.build(b.allPolygons())
		return a.allPolygons()
	})
}

// Difference subtracts cutter from target in place.
func (k *Kernel) Difference(target, cutter mesh.Solid) error {
	return k.boolean("difference", target, cutter, func(a, b *bspNode) []csgPolygon {
		a.invert()
		a.clipTo(b)
		b.clipTo(a)
		b.invert()
		b.clipTo(a)
		b.invert()
		a.build(b.allPolygons())
		a.invert()
		return a.allPolygons()
	})
}

func (k *Kernel) boolean(op string, target, cutter mesh.Solid, combine func(a, b *bspNode) []csgPolygon) error {
	nt, err := own(op, target)
	if err != nil {
		return err
	}
	nc, err := own(op, cutter)
	if err != nil {
		return err
	}
	if len(nt.tris) == 0 {
		return mesh.OpErrorf(op, "target solid is empty")
	}
	if len(nc.tris) == 0 {
		return mesh.OpErrorf(op, "cutter solid is empty")
	}

	a := newBSPNode(polygonsFromSolid(nt))
	b := newBSPNode(polygonsFromSolid(nc))
	if a == nil || b == nil {
		return mesh.OpErrorf(op, "could not build BSP tree (all polygons degenerate)")
	}

	result := combine(a, b)
	tris := trianglesFromPolygons(result)
	if len(tris) == 0 {
		return mesh.OpErrorf(op, "result is empty")
	}
	nt.replace(tris)
	return nil
}

// csgPlane is a hyperplane in normal/offset form.
type csgPlane struct {
	n geom.Point3 // unit normal
	w float64     // distance from origin along n
}

func planeFromPoints(a, b, c geom.Point3) (csgPlane, bool) {
	cross := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	if r3.Norm2(cross) < geom.DegenerateAreaEps {
		return csgPlane{}, false
	}
	n := r3.Unit(cross)
	return csgPlane{n: n, w: r3.Dot(n, a)}, true
}

func (p csgPlane) flipped() csgPlane {
	return csgPlane{n: r3.Scale(-1, p.n), w: -p.w}
}

// csgPolygon is a planar convex polygon with its supporting plane.
type csgPolygon struct {
	verts []geom.Point3
	plane csgPlane
}

func (p csgPolygon) flipped() csgPolygon {
	verts := make([]geom.Point3, len(p.verts))
	for i, v := range p.verts {
		verts[len(verts)-1-i] = v
	}
	return csgPolygon{verts: verts, plane: p.plane.flipped()}
}

func polygonsFromSolid(s *solid) []csgPolygon {
	out := make([]csgPolygon, 0, len(s.tris))
	for i := range s.tris {
		t := s.triangle(i)
		plane, ok := planeFromPoints(t[0], t[1], t[2])
		if !ok {
			continue
		}
		out = append(out, csgPolygon{verts: []geom.Point3{t[0], t[1], t[2]}, plane: plane})
	}
	return out
}

func trianglesFromPolygons(polys []csgPolygon) []geom.Triangle {
	var tris []geom.Triangle
	for _, p := range polys {
		for i := 2; i < len(p.verts); i++ {
			t := geom.Triangle{p.verts[0], p.verts[i-1], p.verts[i]}
			if !t.Degenerate() {
				tris = append(tris, t)
			}
		}
	}
	return tris
}

// Vertex classifications relative to a plane.
const (
	coplanar = 0
	front    = 1
	back     = 2
	spanning = 3
)

// splitPolygon classifies polygon against plane and routes it (or its
// split halves) onto the four output lists.
func (plane csgPlane) splitPolygon(poly csgPolygon, coFront, coBack, f, b *[]csgPolygon) {
	polyType := 0
	types := make([]int, len(poly.verts))
	for i, v := range poly.verts {
		d := r3.Dot(plane.n, v) - plane.w
		t := coplanar
		if d < -planeEps {
			t = back
		} else if d > planeEps {
			t = front
		}
		polyType |= t
		types[i] = t
	}

	switch polyType {
	case coplanar:
		if r3.Dot(plane.n, poly.plane.n) > 0 {
			*coFront = append(*coFront, poly)
		} else {
			*coBack = append(*coBack, poly)
		}
	case front:
		*f = append(*f, poly)
	case back:
		*b = append(*b, poly)
	case spanning:
		var fv, bv []geom.Point3
		n := len(poly.verts)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := poly.verts[i], poly.verts[j]
			if ti != back {
				fv = append(fv, vi)
			}
			if ti != front {
				bv = append(bv, vi)
			}
			if (ti | tj) == spanning {
				// Edge crosses the plane; interpolate the crossing point.
				t := (plane.w - r3.Dot(plane.n, vi)) / r3.Dot(plane.n, r3.Sub(vj, vi))
				v := r3.Add(vi, r3.Scale(t, r3.Sub(vj, vi)))
				fv = append(fv, v)
				bv = append(bv, v)
			}
		}
		if len(fv) >= 3 {
			*f = append(*f, csgPolygon{verts: fv, plane: poly.plane})
		}
		if len(bv) >= 3 {
			*b = append(*b, csgPolygon{verts: bv, plane: poly.plane})
		}
	}
}

// bspNode is one node of a BSP tree over polygons.
type bspNode struct {
	plane    *csgPlane
	frontN   *bspNode
	backN    *bspNode
	polygons []csgPolygon
}

func newBSPNode(polys []csgPolygon) *bspNode {
	if len(polys) == 0 {
		return nil
	}
	n := &bspNode{}
	n.build(polys)
	return n
}

func (n *bspNode) invert() {
	for i := range n.polygons {
		n.polygons[i] = n.polygons[i].flipped()
	}
	if n.plane != nil {
		p := n.plane.flipped()
		n.plane = &p
	}
	if n.frontN != nil {
		n.frontN.invert()
	}
	if n.backN != nil {
		n.backN.invert()
	}
	n.frontN, n.backN = n.backN, n.frontN
}

// clipPolygons removes from polys everything inside this node's solid.
func (n *bspNode) clipPolygons(polys []csgPolygon) []csgPolygon {
	if n.plane == nil {
		return append([]csgPolygon(nil), polys...)
	}
	var f, b []csgPolygon
	for _, p := range polys {
		n.plane.splitPolygon(p, &f, &b, &f, &b)
	}
	if n.frontN != nil {
		f = n.frontN.clipPolygons(f)
	}
	if n.backN != nil {
		b = n.backN.clipPolygons(b)
	} else {
		b = nil
	}
	return append(f, b...)
}

// clipTo removes every polygon of this tree that sits inside other.
func (n *bspNode) clipTo(other *bspNode) {
	n.polygons = other.clipPolygons(n.polygons)
	if n.frontN != nil {
		n.frontN.clipTo(other)
	}
	if n.backN != nil {
		n.backN.clipTo(other)
	}
}

func (n *bspNode) allPolygons() []csgPolygon {
	out := append([]csgPolygon(nil), n.polygons...)
	if n.frontN != nil {
		out = append(out, n.frontN.allPolygons()...)
	}
	if n.backN != nil {
		out = append(out, n.backN.allPolygons()...)
	}
	return out
}

func (n *bspNode) build(polys []csgPolygon) {
	if len(polys) == 0 {
		return
	}
	if n.plane == nil {
		p := polys[0].plane
		n.plane = &p
	}
	var f, b []csgPolygon
	for _, p := range polys {
		n.plane.splitPolygon(p, &n.polygons, &n.polygons, &f, &b)
	}
	if len(f) > 0 {
		if n.frontN == nil {
			n.frontN = &bspNode{}
		}
		n.frontN.build(f)
	}
	if len(b) > 0 {
		if n.backN == nil {
			n.backN = &bspNode{}
		}
		n.backN.build(b)
	}
}
