package native

import (
	"math"

	"github.com/banshee-data/moldforge/internal/geom"
	"github.com/banshee-data/moldforge/internal/mesh"
)

// Box returns a closed axis-aligned rectangular prism with outward-facing
// normals. Used by the feature engine for anchor rib cutters.
func (k *Kernel) Box(min, max geom.Point3) (mesh.Solid, error) {
	if !(min.X < max.X && min.Y < max.Y && min.Z < max.Z) {
		return nil, mesh.OpErrorf("box", "empty extent min=%v max=%v", min, max)
	}
	p := func(x, y, z float64) geom.Point3 { return geom.Point3{X: x, Y: y, Z: z} }
	v := [8]geom.Point3{
		p(min.X, min.Y, min.Z), // 0
		p(max.X, min.Y, min.Z), // 1
		p(max.X, max.Y, min.Z), // 2
		p(min.X, max.Y, min.Z), // 3
		p(min.X, min.Y, max.Z), // 4
		p(max.X, min.Y, max.Z), // 5
		p(max.X, max.Y, max.Z), // 6
		p(min.X, max.Y, max.Z), // 7
	}
	// Each face as two triangles, wound outward.
	faces := [6][4]int{
		{0, 3, 2, 1}, // bottom (-Z)
		{4, 5, 6, 7}, // top (+Z)
		{0, 1, 5, 4}, // front (-Y)
		{2, 3, 7, 6}, // back (+Y)
		{0, 4, 7, 3}, // left (-X)
		{1, 2, 6, 5}, // right (+X)
	}
	tris := make([]geom.Triangle, 0, 12)
	for _, f := range faces {
		tris = append(tris,
			geom.Triangle{v[f[0]], v[f[1]], v[f[2]]},
			geom.Triangle{v[f[0]], v[f[2]], v[f[3]]},
		)
	}
	return k.BuildSolid(tris)
}

// Cylinder returns a closed cylinder of the given radius and height,
// centred on center with its axis along Z (the solidification axis), with
// segments flat sides. Used for hole cutters.
func (k *Kernel) Cylinder(center geom.Point3, radius, height float64, segments int) (mesh.Solid, error) {
	if radius <= 0 || height <= 0 {
		return nil, mesh.OpErrorf("cylinder", "radius %g and height %g must be positive", radius, height)
	}
	if segments < 3 {
		segments = 3
	}
	zLo := center.Z - height/2
	zHi := center.Z + height/2

	rim := func(z float64) []geom.Point3 {
		pts := make([]geom.Point3, segments)
		for i := 0; i < segments; i++ {
			a := 2 * math.Pi * float64(i) / float64(segments)
			pts[i] = geom.Point3{
				X: center.X + radius*math.Cos(a),
				Y: center.Y + radius*math.Sin(a),
				Z: z,
			}
		}
		return pts
	}
	lo := rim(zLo)
	hi := rim(zHi)
	bottom := geom.Point3{X: center.X, Y: center.Y, Z: zLo}
	top := geom.Point3{X: center.X, Y: center.Y, Z: zHi}

	tris := make([]geom.Triangle, 0, segments*4)
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		// Side quad, outward.
		tris = append(tris,
			geom.Triangle{lo[i], lo[j], hi[j]},
			geom.Triangle{lo[i], hi[j], hi[i]},
		)
		// Caps: bottom wound downward, top wound upward.
		tris = append(tris,
			geom.Triangle{bottom, lo[j], lo[i]},
			geom.Triangle{top, hi[i], hi[j]},
		)
	}
	return k.BuildSolid(tris)
}
