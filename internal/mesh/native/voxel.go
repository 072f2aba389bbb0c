package native

import (
	"math"

	"github.com/banshee-data/moldforge/internal/geom"
	"github.com/banshee-data/moldforge/internal/mesh"
)

// maxVoxelCells caps the remesh grid so a tiny voxel size on a large solid
// cannot exhaust memory. A request above the cap fails and is skipped by
// the feature engine's best-effort policy.
const maxVoxelCells = 8 << 20

// Sample offsets within a cell, deliberately unequal and slightly off
// half-cell so classification rays cannot run exactly along facet edges or
// diagonals of axis-aligned geometry.
const (
	sampleOffX = 0.5004321
	sampleOffY = 0.5001234
	sampleOffZ = 0.4998761
)

// Remesh resamples the solid onto a uniform voxel grid: every cell centre
// is classified inside/outside by parity ray casting, then the surface is
// rebuilt from the quads between inside cells and outside neighbours. The
// result is closed and consistently wound by construction. Lossy; intended
// to regularise topology after boolean edits.
func (k *Kernel) Remesh(s mesh.Solid, voxelSize float64) error {
	ns, err := own("remesh", s)
	if err != nil {
		return err
	}
	if voxelSize <= 0 {
		return mesh.OpErrorf("remesh", "voxel size %g must be positive", voxelSize)
	}
	if len(ns.tris) == 0 {
		return mesh.OpErrorf("remesh", "empty solid")
	}

	min, max := ns.Bounds()
	// One cell of padding on every side so the surface never touches the
	// grid boundary.
	nx := int(math.Ceil((max.X-min.X)/voxelSize)) + 2
	ny := int(math.Ceil((max.Y-min.Y)/voxelSize)) + 2
	nz := int(math.Ceil((max.Z-min.Z)/voxelSize)) + 2
	if int64(nx)*int64(ny)*int64(nz) > maxVoxelCells {
		return mesh.OpErrorf("remesh", "grid %dx%dx%d exceeds max cells", nx, ny, nz)
	}
	origin := geom.Point3{X: min.X - voxelSize, Y: min.Y - voxelSize, Z: min.Z - voxelSize}

	tris := ns.triangles()
	inside := make([]bool, nx*ny*nz)
	idx := func(i, j, l int) int { return (l*ny+j)*nx + i }

	// Classify by casting one +X ray per (j,l) column and toggling parity
	// at each triangle crossing. One pass per column instead of one ray
	// per cell keeps this O(columns * tris).
	for l := 0; l < nz; l++ {
		for j := 0; j < ny; j++ {
			y := origin.Y + (float64(j)+sampleOffY)*voxelSize
			z := origin.Z + (float64(l)+sampleOffZ)*voxelSize
			xs := rayCrossingsX(tris, y, z)
			if len(xs) == 0 {
				continue
			}
			for i := 0; i < nx; i++ {
				x := origin.X + (float64(i)+sampleOffX)*voxelSize
				crossings := 0
				for _, cx := range xs {
					if cx > x {
						crossings++
					}
				}
				inside[idx(i, j, l)] = crossings%2 == 1
			}
		}
	}

	insideAt := func(i, j, l int) bool {
		if i < 0 || j < 0 || l < 0 || i >= nx || j >= ny || l >= nz {
			return false
		}
		return inside[idx(i, j, l)]
	}

	corner := func(i, j, l int) geom.Point3 {
		return geom.Point3{
			X: origin.X + float64(i)*voxelSize,
			Y: origin.Y + float64(j)*voxelSize,
			Z: origin.Z + float64(l)*voxelSize,
		}
	}

	var out []geom.Triangle
	quad := func(a, b, c, d geom.Point3) {
		out = append(out, geom.Triangle{a, b, c}, geom.Triangle{a, c, d})
	}

	for l := 0; l < nz; l++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				if !insideAt(i, j, l) {
					continue
				}
				// Emit a face towards every outside neighbour, wound so the
				// normal points out of the inside cell.
				if !insideAt(i-1, j, l) {
					quad(corner(i, j, l), corner(i, j, l+1), corner(i, j+1, l+1), corner(i, j+1, l))
				}
				if !insideAt(i+1, j, l) {
					quad(corner(i+1, j, l), corner(i+1, j+1, l), corner(i+1, j+1, l+1), corner(i+1, j, l+1))
				}
				if !insideAt(i, j-1, l) {
					quad(corner(i, j, l), corner(i+1, j, l), corner(i+1, j, l+1), corner(i, j, l+1))
				}
				if !insideAt(i, j+1, l) {
					quad(corner(i, j+1, l), corner(i, j+1, l+1), corner(i+1, j+1, l+1), corner(i+1, j+1, l))
				}
				if !insideAt(i, j, l-1) {
					quad(corner(i, j, l), corner(i, j+1, l), corner(i+1, j+1, l), corner(i+1, j, l))
				}
				if !insideAt(i, j, l+1) {
					quad(corner(i, j, l+1), corner(i+1, j, l+1), corner(i+1, j+1, l+1), corner(i, j+1, l+1))
				}
			}
		}
	}

	if len(out) == 0 {
		return mesh.OpErrorf("remesh", "no cells classified inside at voxel size %g", voxelSize)
	}
	ns.replace(out)
	return nil
}

// rayCrossingsX returns the X coordinates where the line (t, y, z), t in
// (-inf, +inf), crosses the triangle set. Sample points sit at half-cell
// offsets from the grid, which keeps exact edge hits (and their parity
// ambiguity) out of the common case.
func rayCrossingsX(tris []geom.Triangle, y, z float64) []float64 {
	var xs []float64
	for _, t := range tris {
		if x, ok := triangleCrossingX(t, y, z); ok {
			xs = append(xs, x)
		}
	}
	return xs
}

func triangleCrossingX(t geom.Triangle, y, z float64) (float64, bool) {
	// Project onto YZ and test point containment with edge functions.
	a, b, c := t[0], t[1], t[2]
	d00 := edge2(b, c, y, z)
	d01 := edge2(c, a, y, z)
	d02 := edge2(a, b, y, z)

	pos := d00 > 0 || d01 > 0 || d02 > 0
	neg := d00 < 0 || d01 < 0 || d02 < 0
	if pos && neg {
		return 0, false
	}
	area := (b.Y-a.Y)*(c.Z-a.Z) - (b.Z-a.Z)*(c.Y-a.Y)
	if area == 0 {
		return 0, false // triangle edge-on to the ray
	}
	// Barycentric interpolation of X at (y,z).
	w0 := d00 / area
	w1 := d01 / area
	w2 := d02 / area
	return w0*a.X + w1*b.X + w2*c.X, true
}

// edge2 is the 2D edge function of segment pq evaluated at (y,z) in the YZ
// plane.
func edge2(p, q geom.Point3, y, z float64) float64 {
	return (q.Y-p.Y)*(z-p.Z) - (q.Z-p.Z)*(y-p.Y)
}
