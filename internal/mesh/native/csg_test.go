package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/moldforge/internal/geom"
)

func TestUnion_OverlappingBoxes(t *testing.T) {
	k := New()
	a, err := k.Box(geom.Point3{}, geom.Point3{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	b, err := k.Box(geom.Point3{X: 0.5, Y: 0.5, Z: 0.5}, geom.Point3{X: 1.5, Y: 1.5, Z: 1.5})
	require.NoError(t, err)

	require.NoError(t, k.Union(a, b))
	assert.Greater(t, a.NumTriangles(), 0)

	min, max := a.Bounds()
	assert.InDelta(t, 0.0, min.X, 1e-9)
	assert.InDelta(t, 1.5, max.X, 1e-9)
	assert.InDelta(t, 1.5, max.Z, 1e-9)
}

func TestUnion_MutatesTargetNotCutter(t *testing.T) {
	k := New()
	a, _ := k.Box(geom.Point3{}, geom.Point3{X: 1, Y: 1, Z: 1})
	b, _ := k.Box(geom.Point3{X: 2, Y: 0, Z: 0}, geom.Point3{X: 3, Y: 1, Z: 1})
	cutterTris := b.NumTriangles()

	require.NoError(t, k.Union(a, b))
	assert.Equal(t, cutterTris, b.NumTriangles(), "cutter must stay untouched")

	// Disjoint union spans both boxes.
	min, max := a.Bounds()
	assert.InDelta(t, 0.0, min.X, 1e-9)
	assert.InDelta(t, 3.0, max.X, 1e-9)
}

func TestDifference_CutsCylinderFromBox(t *testing.T) {
	k := New()
	box, err := k.Box(geom.Point3{X: -1, Y: -1, Z: -0.5}, geom.Point3{X: 1, Y: 1, Z: 0.5})
	require.NoError(t, err)
	before := box.NumTriangles()

	cyl, err := k.Cylinder(geom.Point3{}, 0.3, 2.0, 16)
	require.NoError(t, err)

	require.NoError(t, k.Difference(box, cyl))

	// Hole walls add geometry; the outer bounds do not change.
	assert.Greater(t, box.NumTriangles(), before)
	min, max := box.Bounds()
	assert.InDelta(t, -1.0, min.X, 1e-9)
	assert.InDelta(t, 1.0, max.X, 1e-9)
	assert.InDelta(t, 0.5, max.Z, 1e-9)
}

func TestDifference_DisjointCutterLeavesTargetIntact(t *testing.T) {
	k := New()
	box, _ := k.Box(geom.Point3{}, geom.Point3{X: 1, Y: 1, Z: 1})
	far, _ := k.Box(geom.Point3{X: 5}, geom.Point3{X: 6, Y: 1, Z: 1})

	require.NoError(t, k.Difference(box, far))

	min, max := box.Bounds()
	assert.InDelta(t, 0.0, min.X, 1e-9)
	assert.InDelta(t, 1.0, max.X, 1e-9)
}

func TestBoolean_Deterministic(t *testing.T) {
	k := New()
	run := func() ([]geom.Point3, int) {
		box, _ := k.Box(geom.Point3{X: -1, Y: -1, Z: -0.5}, geom.Point3{X: 1, Y: 1, Z: 0.5})
		cyl, _ := k.Cylinder(geom.Point3{}, 0.3, 2.0, 16)
		require.NoError(t, k.Difference(box, cyl))
		return box.Vertices(), box.NumTriangles()
	}
	v1, n1 := run()
	v2, n2 := run()
	assert.Equal(t, n1, n2)
	assert.Equal(t, v1, v2)
}

func TestBoolean_RejectsForeignSolids(t *testing.T) {
	k := New()
	box, _ := k.Box(geom.Point3{}, geom.Point3{X: 1, Y: 1, Z: 1})
	assert.Error(t, k.Union(box, fakeSolid{}))
	assert.Error(t, k.Difference(fakeSolid{}, box))
}

func TestSplitPolygon_SpanningTriangle(t *testing.T) {
	plane := csgPlane{n: geom.Point3{X: 1}, w: 0.5}
	poly := csgPolygon{
		verts: []geom.Point3{{X: 0}, {X: 1}, {X: 1, Y: 1}},
	}
	var ok bool
	poly.plane, ok = planeFromPoints(poly.verts[0], poly.verts[1], poly.verts[2])
	require.True(t, ok)

	var coF, coB, f, b []csgPolygon
	plane.splitPolygon(poly, &coF, &coB, &f, &b)

	require.Len(t, f, 1)
	require.Len(t, b, 1)
	assert.Empty(t, coF)
	assert.Empty(t, coB)

	// Split vertices land exactly on the plane.
	for _, p := range append(f[0].verts, b[0].verts...) {
		assert.LessOrEqual(t, -1e-9, p.X-0.0)
		assert.GreaterOrEqual(t, 1.0+1e-9, p.X)
	}
}
