package geom

import "gonum.org/v1/gonum/spatial/r3"

// Triangle is an ordered vertex triple. Winding order is meaningful: the
// face normal follows the right-hand rule over (V1-V0) x (V2-V0).
type Triangle [3]Point3

// SquaredArea returns the squared magnitude of the cross product of (b-a)
// and (c-a). No square root is taken: the value is four times the squared
// triangle area and is only ever compared against DegenerateAreaEps, so the
// exact numeric form must stay as-is.
func SquaredArea(a, b, c Point3) float64 {
	return r3.Norm2(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
}

// Degenerate reports whether the triangle collapses below the area epsilon.
func (t Triangle) Degenerate() bool {
	return SquaredArea(t[0], t[1], t[2]) < DegenerateAreaEps
}

// Normal returns the unit face normal, or the zero vector for a degenerate
// triangle.
func (t Triangle) Normal() Point3 {
	n := r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
	if r3.Norm2(n) == 0 {
		return Point3{}
	}
	return r3.Unit(n)
}

// Offset returns the triangle translated by d.
func (t Triangle) Offset(d Point3) Triangle {
	return Triangle{r3.Add(t[0], d), r3.Add(t[1], d), r3.Add(t[2], d)}
}

// Reversed returns the triangle with opposite winding.
func (t Triangle) Reversed() Triangle {
	return Triangle{t[0], t[2], t[1]}
}

// AppendStrip connects two equal-length point rows into a triangle strip
// and appends the result to dst. For each cell i the two triangles are
// (a[i], b[i], a[i+1]) and (a[i+1], b[i], b[i+1]); with a as the top row
// and b as the bottom row this is the top-left/bottom-left/top-right then
// top-right/bottom-left/bottom-right split. Degenerate cells (coincident
// resampled points) are dropped rather than emitted.
func AppendStrip(dst []Triangle, a, b []Point3) []Triangle {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i+1 < n; i++ {
		t1 := Triangle{a[i], b[i], a[i+1]}
		if !t1.Degenerate() {
			dst = append(dst, t1)
		}
		t2 := Triangle{a[i+1], b[i], b[i+1]}
		if !t2.Degenerate() {
			dst = append(dst, t2)
		}
	}
	return dst
}
