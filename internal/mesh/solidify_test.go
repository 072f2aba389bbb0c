package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/moldforge/internal/geom"
)

// openGrid builds a flat nx x ny triangulated sheet in the XY plane. Its
// boundary is a single closed loop.
func openGrid(nx, ny int) []geom.Triangle {
	var tris []geom.Triangle
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			p00 := geom.Point3{X: float64(i), Y: float64(j)}
			p10 := geom.Point3{X: float64(i + 1), Y: float64(j)}
			p01 := geom.Point3{X: float64(i), Y: float64(j + 1)}
			p11 := geom.Point3{X: float64(i + 1), Y: float64(j + 1)}
			tris = append(tris,
				geom.Triangle{p00, p10, p01},
				geom.Triangle{p10, p11, p01},
			)
		}
	}
	return tris
}

func TestSolidify_ClosureInvariant(t *testing.T) {
	solid := Solidify(openGrid(3, 2), -0.5)

	m := FromTriangles(solid)
	for e, n := range m.EdgeUseCounts() {
		assert.Equal(t, 0, n%2, "edge %v has odd incidence %d", e, n)
	}
}

func TestSolidify_EveryEdgeSharedByExactlyTwo(t *testing.T) {
	solid := Solidify(openGrid(2, 2), 1.0)
	m := FromTriangles(solid)
	for e, n := range m.EdgeUseCounts() {
		assert.Equal(t, 2, n, "edge %v incidence", e)
	}
}

func TestSolidify_TriangleCount(t *testing.T) {
	front := openGrid(3, 3) // 18 triangles, 12 boundary edges
	solid := Solidify(front, -1)

	// front + back + 2 per boundary edge.
	require.Len(t, solid, 18+18+2*12)
}

func TestSolidify_BackCopyOffsetAndReversed(t *testing.T) {
	front := []geom.Triangle{{{X: 0}, {X: 1}, {Y: 1}}}
	depth := -0.25
	solid := Solidify(front, depth)
	require.GreaterOrEqual(t, len(solid), 2)

	// Second triangle is the mirrored back copy.
	back := solid[1]
	assert.InDelta(t, depth, back[0].Z, 1e-12)
	assert.InDelta(t, -1.0, back.Normal().Z*front[0].Normal().Z, 1e-9,
		"back copy must face the opposite way")
}

func TestSolidify_DepthSignPreserved(t *testing.T) {
	front := openGrid(1, 1)
	up := Solidify(front, 0.5)
	down := Solidify(front, -0.5)

	maxZ := func(tris []geom.Triangle) float64 {
		m := 0.0
		for _, tr := range tris {
			for _, p := range tr {
				if p.Z > m {
					m = p.Z
				}
			}
		}
		return m
	}
	assert.InDelta(t, 0.5, maxZ(up), 1e-12)
	assert.InDelta(t, 0.0, maxZ(down), 1e-12)
}
