package loft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/moldforge/internal/geom"
)

func TestStitch_BeardlineOnly(t *testing.T) {
	targetXs := []float64{0, 1, 2}
	first := []geom.Point3{
		{X: 0, Y: -0.01, Z: 0.01},
		{X: 1, Y: -0.01, Z: 0.01},
		{X: 2, Y: -0.01, Z: 0.01},
	}
	beard := geom.Polyline{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
	}

	tris := Stitch(first, beard, nil, targetXs)
	// Two cells, two triangles each, single strip.
	assert.Len(t, tris, 4)
}

func TestStitch_WithNeckline(t *testing.T) {
	targetXs := []float64{0, 1, 2}
	first := []geom.Point3{
		{X: 0, Y: -0.01, Z: 0.01},
		{X: 1, Y: -0.01, Z: 0.01},
		{X: 2, Y: -0.01, Z: 0.01},
	}
	beard := geom.Polyline{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
	}
	neck := geom.Polyline{
		{X: 0, Y: 0, Z: -0.05},
		{X: 2, Y: 0, Z: -0.05},
	}

	tris := Stitch(first, beard, neck, targetXs)
	// Both strips present: lip-to-beard and beard-to-neck.
	assert.Len(t, tris, 8)
}

func TestStitch_ResamplesAtTargetXs(t *testing.T) {
	// The beardline has more points than the target grid; the strip row
	// count follows the grid, not the raw contour.
	targetXs := []float64{0, 0.5, 1}
	first := []geom.Point3{
		{X: 0, Y: -1, Z: 0},
		{X: 0.5, Y: -1, Z: 0},
		{X: 1, Y: -1, Z: 0},
	}
	beard := make(geom.Polyline, 0, 11)
	for i := 0; i <= 10; i++ {
		beard = append(beard, geom.Point3{X: float64(i) / 10, Y: 0, Z: 0})
	}

	tris := Stitch(first, beard, nil, targetXs)
	require.Len(t, tris, 4)
}

func TestStitch_DegenerateRowsDropQuietly(t *testing.T) {
	// A first column identical to the resampled beardline produces only
	// degenerate cells: no triangles, no panic.
	targetXs := []float64{0, 1}
	pts := []geom.Point3{{X: 0}, {X: 1}}
	beard := geom.Polyline{{X: 0}, {X: 1}}

	tris := Stitch(pts, beard, nil, targetXs)
	assert.Empty(t, tris)
}
