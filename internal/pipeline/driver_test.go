package pipeline

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/moldforge/internal/fsutil"
	"github.com/banshee-data/moldforge/internal/geom"
	"github.com/banshee-data/moldforge/internal/mesh"
	"github.com/banshee-data/moldforge/internal/mesh/native"
	"github.com/banshee-data/moldforge/internal/monitoring"
)

func TestMain(m *testing.M) {
	monitoring.Mute()
	os.Exit(m.Run())
}

// straightLinePayload builds a payload whose beardline runs in n points
// from (-0.05, 0, 0) to (0.05, 0, 0.01).
func straightLinePayload(n int, extra string) []byte {
	out := []byte(`{"beardline": [`)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		if i > 0 {
			out = append(out, ',')
		}
		out = appendPoint(out, -0.05+0.1*t, 0, 0.01*t)
	}
	out = append(out, ']')
	if extra != "" {
		out = append(out, ',')
		out = append(out, extra...)
	}
	out = append(out, '}')
	return out
}

func appendPoint(dst []byte, x, y, z float64) []byte {
	dst = append(dst, `{"x": `...)
	dst = strconv.AppendFloat(dst, x, 'g', -1, 64)
	dst = append(dst, `, "y": `...)
	dst = strconv.AppendFloat(dst, y, 'g', -1, 64)
	dst = append(dst, `, "z": `...)
	dst = strconv.AppendFloat(dst, z, 'g', -1, 64)
	return append(dst, '}')
}

func TestRun_ScenarioStraightLine(t *testing.T) {
	kernel := native.New()
	memFS := fsutil.NewMemoryFileSystem()
	d := New(kernel, memFS)

	outPath := filepath.Join(t.TempDir(), "mold.stl")
	result, err := d.Run(straightLinePayload(100, ""), outPath)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Greater(t, result.Stats.Tris, 0)
	assert.Greater(t, result.Stats.Verts, 0)
	assert.InDelta(t, 0.10, result.Stats.DimM.X, 1e-9)
	assert.InDelta(t, result.Stats.DimM.X*1000, result.Stats.DimMM.X, 1e-9)
	assert.InDelta(t, result.Stats.DimM.Z*1000, result.Stats.DimMM.Z, 1e-9)
	assert.Equal(t, 1000.0, result.Scale)
	assert.Equal(t, 0.004, result.Stats.ThicknessM)

	// Sidecar was written through the injected filesystem.
	assert.True(t, memFS.Exists(result.StatsPath))

	// Export produced a binary STL of exactly 84 + 50 per triangle bytes.
	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Equal(t, int64(84+50*result.Solid.NumTriangles()), info.Size())
}

func TestRun_Idempotent(t *testing.T) {
	dir := t.TempDir()
	payload := straightLinePayload(100, `"jobID": "repeat"`)

	run := func(name string) *Result {
		d := New(native.New(), fsutil.NewMemoryFileSystem())
		result, err := d.Run(payload, filepath.Join(dir, name))
		require.NoError(t, err)
		return result
	}

	a := run("a.stl")
	b := run("b.stl")

	assert.Equal(t, a.Stats.Tris, b.Stats.Tris)
	assert.Equal(t, a.Stats.Verts, b.Stats.Verts)
	if diff := cmp.Diff(a.Solid.Vertices(), b.Solid.Vertices()); diff != "" {
		t.Errorf("vertex positions differ between runs (-a +b):\n%s", diff)
	}
}

func TestRun_InvalidInputBeforeAnyMeshWork(t *testing.T) {
	k := newSeqKernel()
	d := New(k, fsutil.NewMemoryFileSystem())

	_, err := d.Run([]byte(`{"neckline": [{"x": 0}]}`), "out.stl")
	var iie *InvalidInputError
	require.True(t, errors.As(err, &iie))
	assert.Empty(t, k.ops)
}

func TestRun_EmptyHolesIssuesNoDifference(t *testing.T) {
	k := newSeqKernel()
	d := New(k, fsutil.NewMemoryFileSystem())

	_, err := d.Run(straightLinePayload(20, ""), "out.stl")
	require.NoError(t, err)
	assert.Zero(t, k.count("difference"))
	assert.Zero(t, k.count("cylinder"))
}

func TestRun_VoxelZeroSkipsRemesh(t *testing.T) {
	k := newSeqKernel()
	d := New(k, fsutil.NewMemoryFileSystem())

	_, err := d.Run(straightLinePayload(20, `"params": {"voxelRemesh": 0}`), "out.stl")
	require.NoError(t, err)
	assert.Zero(t, k.count("remesh"))
}

func TestRun_RemeshRunsWhenConfigured(t *testing.T) {
	k := newSeqKernel()
	d := New(k, fsutil.NewMemoryFileSystem())

	_, err := d.Run(straightLinePayload(20, `"params": {"voxelRemesh": 0.001}`), "out.stl")
	require.NoError(t, err)
	assert.Equal(t, 1, k.count("remesh"))
}

func TestRun_RibsUnionPerRib(t *testing.T) {
	k := newSeqKernel()
	d := New(k, fsutil.NewMemoryFileSystem())

	_, err := d.Run(straightLinePayload(20, `"params": {"anchorRibs": true, "ribCount": 4}`), "out.stl")
	require.NoError(t, err)
	assert.Equal(t, 4, k.count("box"))
	assert.Equal(t, 4, k.count("union"))
}

func TestRun_StatsPersistBeforeHolesAndExport(t *testing.T) {
	memFS := fsutil.NewMemoryFileSystem()
	k := newSeqKernel()
	sidecar := "out.stl.stats.json"
	k.onDifference = func() error {
		assert.True(t, memFS.Exists(sidecar), "stats must be written before holes are cut")
		return nil
	}
	k.onExport = func() error {
		assert.True(t, memFS.Exists(sidecar), "stats must be written before export")
		return nil
	}
	d := New(k, memFS)

	payload := straightLinePayload(20, `"holeCenters": [{"x": 0, "y": 0, "z": 0.005}]`)
	_, err := d.Run(payload, "out.stl")
	require.NoError(t, err)
	assert.Equal(t, 1, k.count("difference"))
	assert.Equal(t, 1, k.count("export"))
}

func TestRun_OneOfTwoHoleCuttersFails(t *testing.T) {
	k := newSeqKernel()
	failed := false
	k.onDifference = func() error {
		if !failed {
			failed = true
			return mesh.OpErrorf("difference", "cutter rejected")
		}
		return nil
	}
	d := New(k, fsutil.NewMemoryFileSystem())

	payload := straightLinePayload(20,
		`"holeCenters": [{"x": -0.01, "z": 0.002}, {"x": 0.01, "z": 0.002}]`)
	result, err := d.Run(payload, "out.stl")
	require.NoError(t, err, "a failed cutter must not abort the run")

	holes := 0
	applied := 0
	for _, c := range result.Cutters {
		if c.Kind != "hole" {
			continue
		}
		holes++
		if c.OK() {
			applied++
		}
	}
	assert.Equal(t, 2, holes)
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, k.count("export"))
}

func TestRun_BuildFailureKeepsKernelErrorType(t *testing.T) {
	k := newSeqKernel()
	k.onBuild = func() error { return mesh.OpErrorf("build", "all triangles degenerate") }
	d := New(k, fsutil.NewMemoryFileSystem())

	_, err := d.Run(straightLinePayload(20, ""), "out.stl")

	var kerr *mesh.KernelOperationError
	require.True(t, errors.As(err, &kerr), "kernel build failures keep their type")
	var iie *InvalidInputError
	assert.False(t, errors.As(err, &iie), "a kernel fault is not an input error")
}

func TestRun_ExportFailureIsPartialSuccess(t *testing.T) {
	memFS := fsutil.NewMemoryFileSystem()
	k := newSeqKernel()
	k.onExport = func() error { return mesh.OpErrorf("export", "disk full") }
	d := New(k, memFS)

	result, err := d.Run(straightLinePayload(20, ""), "out.stl")

	var ee *ExportError
	require.True(t, errors.As(err, &ee))
	require.NotNil(t, result, "stats survive an export failure")
	assert.True(t, memFS.Exists(result.StatsPath))
	assert.NotNil(t, result.Stats)
}

func TestRun_StageOrder(t *testing.T) {
	k := newSeqKernel()
	d := New(k, fsutil.NewMemoryFileSystem())

	payload := straightLinePayload(20,
		`"params": {"anchorRibs": true, "ribCount": 1, "voxelRemesh": 0.001},
		 "holeCenters": [{"x": 0, "z": 0.002}]`)
	_, err := d.Run(payload, "out.stl")
	require.NoError(t, err)

	want := []string{
		"build", "weld", "fillholes", "orient",
		"box", "union", "remesh",
		"cylinder", "difference", "export",
	}
	assert.Equal(t, want, k.ops)
}

// seqKernel records kernel calls in order and lets tests hook the build,
// boolean and export operations.
type seqKernel struct {
	ops          []string
	onBuild      func() error
	onDifference func() error
	onExport     func() error
}

func newSeqKernel() *seqKernel { return &seqKernel{} }

func (k *seqKernel) count(op string) int {
	n := 0
	for _, o := range k.ops {
		if o == op {
			n++
		}
	}
	return n
}

type seqSolid struct {
	min, max geom.Point3
	tris     int
}

func (s *seqSolid) Vertices() []geom.Point3 { return []geom.Point3{s.min, s.max} }

func (s *seqSolid) NumTriangles() int { return s.tris }

func (s *seqSolid) Bounds() (geom.Point3, geom.Point3) { return s.min, s.max }

func (k *seqKernel) BuildSolid(tris []geom.Triangle) (mesh.Solid, error) {
	k.ops = append(k.ops, "build")
	if k.onBuild != nil {
		if err := k.onBuild(); err != nil {
			return nil, err
		}
	}
	s := &seqSolid{tris: len(tris)}
	if len(tris) > 0 {
		s.min = tris[0][0]
		s.max = tris[0][0]
		for _, tri := range tris {
			for _, p := range tri {
				s.min.X = math.Min(s.min.X, p.X)
				s.min.Y = math.Min(s.min.Y, p.Y)
				s.min.Z = math.Min(s.min.Z, p.Z)
				s.max.X = math.Max(s.max.X, p.X)
				s.max.Y = math.Max(s.max.Y, p.Y)
				s.max.Z = math.Max(s.max.Z, p.Z)
			}
		}
	}
	return s, nil
}

func (k *seqKernel) Weld(s mesh.Solid, tol float64) error {
	k.ops = append(k.ops, "weld")
	return nil
}

func (k *seqKernel) FillHoles(s mesh.Solid) error {
	k.ops = append(k.ops, "fillholes")
	return nil
}

func (k *seqKernel) OrientNormals(s mesh.Solid) error {
	k.ops = append(k.ops, "orient")
	return nil
}

func (k *seqKernel) TriangulatePolygon(loop []geom.Point3) ([]geom.Triangle, error) {
	k.ops = append(k.ops, "triangulate")
	return nil, nil
}

func (k *seqKernel) Union(target, cutter mesh.Solid) error {
	k.ops = append(k.ops, "union")
	return nil
}

func (k *seqKernel) Difference(target, cutter mesh.Solid) error {
	k.ops = append(k.ops, "difference")
	if k.onDifference != nil {
		return k.onDifference()
	}
	return nil
}

func (k *seqKernel) Remesh(s mesh.Solid, voxelSize float64) error {
	k.ops = append(k.ops, "remesh")
	return nil
}

func (k *seqKernel) Export(s mesh.Solid, path string, scale float64) error {
	k.ops = append(k.ops, "export")
	if k.onExport != nil {
		return k.onExport()
	}
	return nil
}

func (k *seqKernel) Box(min, max geom.Point3) (mesh.Solid, error) {
	k.ops = append(k.ops, "box")
	return &seqSolid{min: min, max: max, tris: 12}, nil
}

func (k *seqKernel) Cylinder(center geom.Point3, radius, height float64, segments int) (mesh.Solid, error) {
	k.ops = append(k.ops, "cylinder")
	return &seqSolid{tris: 4 * segments}, nil
}

var _ mesh.Kernel = (*seqKernel)(nil)
