// Package geom provides the vector, polyline and triangle primitives the
// mold pipeline is built on.
//
// Coordinates live in a fixed right-handed model space: X runs across the
// face (left-right), Y is depth (towards the back of the head), Z is
// vertical. All distances are metres until export scaling.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point3 is a position in model space. It aliases gonum's r3.Vec so callers
// can use the r3 vector helpers (Add, Sub, Scale, Cross, Norm) directly.
type Point3 = r3.Vec

// DegenerateAreaEps is the squared-area threshold below which a triangle is
// considered degenerate. Compared against squared cross-product magnitude,
// never against a true area.
const DegenerateAreaEps = 1e-18

// dedupQuantum is the coordinate rounding step used for vertex dedup keys.
const dedupQuantum = 1e-6

// VertexKey quantises a point to 1e-6 per axis for vertex deduplication.
// Two points closer than half a quantum on every axis map to the same key.
func VertexKey(p Point3) [3]int64 {
	return [3]int64{
		int64(math.Round(p.X / dedupQuantum)),
		int64(math.Round(p.Y / dedupQuantum)),
		int64(math.Round(p.Z / dedupQuantum)),
	}
}
