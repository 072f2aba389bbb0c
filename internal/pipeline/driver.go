package pipeline

import (
	"math"

	"github.com/banshee-data/moldforge/internal/features"
	"github.com/banshee-data/moldforge/internal/fsutil"
	"github.com/banshee-data/moldforge/internal/geom"
	"github.com/banshee-data/moldforge/internal/loft"
	"github.com/banshee-data/moldforge/internal/mesh"
	"github.com/banshee-data/moldforge/internal/monitoring"
	"github.com/banshee-data/moldforge/internal/report"
)

// weldTol matches the vertex dedup quantum used when indexing triangle
// soup, so the kernel weld pass collapses the same near-duplicates.
const weldTol = 1e-6

// Result is what a run produced. On an ExportError the Result is still
// returned alongside the error: the stats sidecar was written before the
// export attempt.
type Result struct {
	JobID     string
	Overlay   string
	Solid     mesh.Solid
	Stats     *report.Stats
	Cutters   []features.CutterResult
	StatsPath string
	Scale     float64
	HoleCount int
}

// Driver runs the mold pipeline over an injected mesh kernel and
// filesystem.
type Driver struct {
	Kernel mesh.Kernel
	FS     fsutil.FileSystem
}

// New returns a Driver over the given kernel writing through fs.
func New(kernel mesh.Kernel, fs fsutil.FileSystem) *Driver {
	return &Driver{Kernel: kernel, FS: fs}
}

// Run executes one payload end to end and writes the solid to outputPath
// plus the stats sidecar next to it. Stage order is fixed: parse, sample,
// loft, stitch, solidify, ribs, remesh, stats, holes, export. The optional
// stages are skipped when their parameter is off; stats are persisted
// before holes are cut and before export is attempted.
func (d *Driver) Run(input []byte, outputPath string) (*Result, error) {
	payload, err := ParsePayload(input)
	if err != nil {
		return nil, err
	}
	p := payload.Params
	monitoring.Logf("pipeline: job=%s overlay=%q beardline=%d neckline=%d holes=%d",
		payload.JobID, payload.Overlay, len(payload.Beardline), len(payload.Neckline), len(payload.HoleCenters))

	beard := geom.Smooth(payload.Beardline, p.GetSmoothPasses())
	neck := geom.Smooth(payload.Neckline, p.GetSmoothPasses())

	sample, err := loft.SampleBasePoints(beard, p.GetLipSegments())
	if err != nil {
		return nil, invalidInput("contour sampling failed", err)
	}

	band := loft.LoftLip(sample.Points, loft.LipSpec{
		ArcSteps:    p.GetArcSteps(),
		MinRadius:   p.GetMinLipRadius(),
		MaxRadius:   p.GetMaxLipRadius(),
		TaperMult:   p.GetTaperMult(),
		ProfileBias: p.GetProfileBias(),
		PreLift:     p.GetPreLift(),
		CenterX:     sample.CenterX(),
	})

	surface := band.Triangles
	surface = append(surface, loft.Stitch(band.FirstColumn(), beard, neck, sample.TargetXs)...)
	monitoring.Logf("pipeline: job=%s surface tris=%d", payload.JobID, len(surface))

	depth := p.GetExtrudeDepth()
	shell := mesh.Solidify(surface, depth)

	// A build failure is a kernel fault, not bad input; let the
	// KernelOperationError through untouched.
	solid, err := d.Kernel.BuildSolid(shell)
	if err != nil {
		return nil, err
	}
	d.cleanup(payload.JobID, solid)

	result := &Result{
		JobID:     payload.JobID,
		Overlay:   payload.Overlay,
		Solid:     solid,
		StatsPath: report.SidecarPath(outputPath),
		Scale:     p.GetSTLScale(),
		HoleCount: len(payload.HoleCenters),
	}

	engine := features.NewEngine(d.Kernel)
	if p.GetAnchorRibs() {
		rs := engine.ApplyRibs(solid, sample.MinX, sample.MaxX, p)
		result.Cutters = append(result.Cutters, rs...)
		monitoring.Logf("pipeline: job=%s ribs applied=%d/%d", payload.JobID, features.Applied(rs), len(rs))
	}
	result.Cutters = append(result.Cutters, engine.Remesh(solid, p.GetVoxelSize())...)

	thickness := math.Abs(depth)
	result.Stats = report.Collect(solid, thickness, p)
	if err := report.Write(d.FS, outputPath, result.Stats); err != nil {
		monitoring.Logf("pipeline: job=%s stats write failed: %v", payload.JobID, err)
	}

	if len(payload.HoleCenters) > 0 {
		rs := engine.ApplyHoles(solid, payload.HoleCenters, thickness, p)
		result.Cutters = append(result.Cutters, rs...)
		monitoring.Logf("pipeline: job=%s holes applied=%d/%d", payload.JobID, features.Applied(rs), len(rs))
	}

	if err := d.Kernel.Export(solid, outputPath, result.Scale); err != nil {
		return result, &ExportError{Path: outputPath, Err: err}
	}
	monitoring.Logf("pipeline: job=%s exported %s scale=%g tris=%d", payload.JobID, outputPath, result.Scale, solid.NumTriangles())
	return result, nil
}

// cleanup runs the kernel hygiene passes after solid construction. Each
// pass is best-effort; a failed pass leaves the solid as-is.
func (d *Driver) cleanup(jobID string, solid mesh.Solid) {
	if err := d.Kernel.Weld(solid, weldTol); err != nil {
		monitoring.Logf("pipeline: job=%s weld skipped: %v", jobID, err)
	}
	if err := d.Kernel.FillHoles(solid); err != nil {
		monitoring.Logf("pipeline: job=%s hole fill skipped: %v", jobID, err)
	}
	if err := d.Kernel.OrientNormals(solid); err != nil {
		monitoring.Logf("pipeline: job=%s normal orientation skipped: %v", jobID, err)
	}
}
