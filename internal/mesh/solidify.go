package mesh

import "github.com/banshee-data/moldforge/internal/geom"

// Solidify extrudes an open, outward-facing triangulated surface into a
// closed shell of the given signed depth along the Z axis. The output is:
//
//   - the original front triangles,
//   - a mirrored back copy offset by (0,0,depth) with reversed winding,
//   - two triangles per boundary edge forming the side quad between the
//     front and back boundary loops.
//
// The result is closed (every edge incident to exactly two triangles)
// whenever the input's boundary edges form closed loops. That precondition
// is not verified here; the loft/stitch stages are responsible for handing
// over surfaces with a single boundary loop per side.
func Solidify(tris []geom.Triangle, depth float64) []geom.Triangle {
	m := FromTriangles(tris)
	offset := geom.Point3{Z: depth}

	out := make([]geom.Triangle, 0, len(m.Tris)*2)
	for i := range m.Tris {
		front := m.Triangle(i)
		out = append(out, front)
		out = append(out, front.Offset(offset).Reversed())
	}

	for _, e := range m.BoundaryEdges() {
		a := m.Verts[e.A]
		b := m.Verts[e.B]
		a2 := geom.Point3{X: a.X, Y: a.Y, Z: a.Z + depth}
		b2 := geom.Point3{X: b.X, Y: b.Y, Z: b.Z + depth}

		t1 := geom.Triangle{a, b, b2}
		if !t1.Degenerate() {
			out = append(out, t1)
		}
		t2 := geom.Triangle{a, b2, a2}
		if !t2.Degenerate() {
			out = append(out, t2)
		}
	}
	return out
}
