// Package features applies the optional parametric solids to the mold:
// anchor ribs unioned into the shell and hole cylinders subtracted from
// it. Every cutter is applied one at a time and failures are collected,
// never propagated: a single bad cutter must not abort the run.
package features

import (
	"github.com/banshee-data/moldforge/internal/config"
	"github.com/banshee-data/moldforge/internal/geom"
	"github.com/banshee-data/moldforge/internal/mesh"
	"github.com/banshee-data/moldforge/internal/monitoring"
)

// CutterResult records the outcome of one kernel request made on behalf of
// a feature cutter. Err is nil on success.
type CutterResult struct {
	Kind  string // "rib", "hole" or "remesh"
	Index int    // cutter ordinal within its kind
	Err   error
}

// OK reports whether the cutter was applied.
func (r CutterResult) OK() bool { return r.Err == nil }

// Applied counts the successful results in rs.
func Applied(rs []CutterResult) int {
	n := 0
	for _, r := range rs {
		if r.OK() {
			n++
		}
	}
	return n
}

// Engine drives feature cutters through a mesh kernel.
type Engine struct {
	Kernel mesh.Kernel
}

// NewEngine returns a feature engine over the given kernel.
func NewEngine(k mesh.Kernel) *Engine {
	return &Engine{Kernel: k}
}

// ApplyRibs lays p.GetRibCount() rectangular prisms evenly along the
// sampled X range, centred on the solid's Y midline, with their tops
// ribDrop below the solid's top, and unions each into the target. Ribs add
// material; they are anchors, not cuts.
func (e *Engine) ApplyRibs(target mesh.Solid, minX, maxX float64, p *config.Params) []CutterResult {
	count := p.GetRibCount()
	width := p.GetRibWidth()
	length := p.GetRibLength()
	height := p.GetRibHeight()

	bmin, bmax := target.Bounds()
	yMid := (bmin.Y + bmax.Y) / 2
	zTop := bmax.Z - p.GetRibDrop()

	results := make([]CutterResult, 0, count)
	for i := 0; i < count; i++ {
		// Rib centres at the midpoints of count equal X spans.
		cx := minX + (float64(i)+0.5)*(maxX-minX)/float64(count)
		lo := geom.Point3{X: cx - width/2, Y: yMid - length/2, Z: zTop - height}
		hi := geom.Point3{X: cx + width/2, Y: yMid + length/2, Z: zTop}

		res := CutterResult{Kind: "rib", Index: i}
		rib, err := e.Kernel.Box(lo, hi)
		if err == nil {
			err = e.Kernel.Union(target, rib)
		}
		if err != nil {
			res.Err = err
			monitoring.Logf("features: skipping rib %d: %v", i, err)
		}
		results = append(results, res)
	}
	return results
}

// ApplyHoles subtracts one cylinder per requested hole centre. Each
// cylinder has the configured radius, the solidification thickness as its
// height, its axis along Z, and its centre embedOffset + thickness/2 below
// the hole's Z coordinate so it stays inside the shell instead of
// protruding. Failed subtractions are skipped.
func (e *Engine) ApplyHoles(target mesh.Solid, centers []geom.Point3, thickness float64, p *config.Params) []CutterResult {
	radius := p.GetHoleRadius()
	embed := p.GetHoleEmbedOffset()
	segments := p.GetHoleSegments()

	results := make([]CutterResult, 0, len(centers))
	for i, c := range centers {
		center := geom.Point3{
			X: c.X,
			Y: c.Y,
			Z: c.Z - (embed + thickness/2),
		}

		res := CutterResult{Kind: "hole", Index: i}
		cyl, err := e.Kernel.Cylinder(center, radius, thickness, segments)
		if err == nil {
			err = e.Kernel.Difference(target, cyl)
		}
		if err != nil {
			res.Err = err
			monitoring.Logf("features: skipping hole %d at (%.4f,%.4f,%.4f): %v", i, c.X, c.Y, c.Z, err)
		}
		results = append(results, res)
	}
	return results
}

// Remesh requests a uniform voxel remesh when size is positive. A zero or
// negative size issues no kernel call at all. Remesh failure is reported
// but, like any cutter, never fatal.
func (e *Engine) Remesh(target mesh.Solid, size float64) []CutterResult {
	if size <= 0 {
		return nil
	}
	res := CutterResult{Kind: "remesh"}
	if err := e.Kernel.Remesh(target, size); err != nil {
		res.Err = err
		monitoring.Logf("features: remesh at %g skipped: %v", size, err)
	}
	return []CutterResult{res}
}
