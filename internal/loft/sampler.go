// Package loft derives the lofted lip band from a scanned beardline and
// stitches it back onto the scan contours. It consumes geom primitives and
// produces raw triangle soup for the solidifier.
package loft

import (
	"errors"
	"math"

	"github.com/banshee-data/moldforge/internal/geom"
)

// ErrEmptyContour is returned when a sampler is handed an empty polyline.
// The pipeline driver reports this as invalid input before any mesh work.
var ErrEmptyContour = errors.New("contour has no points")

// BaseSample holds the evenly spaced lofting cross-section origins derived
// from the beardline, plus the X range they were sampled over.
type BaseSample struct {
	Points   []geom.Point3 // nearest beardline point per target X
	TargetXs []float64     // the evenly spaced X grid itself
	MinX     float64
	MaxX     float64
}

// CenterX returns the midpoint of the sampled X range, the taper centre.
func (s BaseSample) CenterX() float64 { return (s.MinX + s.MaxX) / 2 }

// SampleBasePoints divides the beardline's X range into count evenly spaced
// X values and picks, for each, the beardline point whose X is closest.
// Ties keep the first occurrence in input order. It always returns exactly
// count points for a non-empty beardline; duplicate picks are expected when
// the contour is sparse relative to count and are absorbed later by the
// degenerate-triangle filter.
func SampleBasePoints(beardline geom.Polyline, count int) (BaseSample, error) {
	if len(beardline) == 0 {
		return BaseSample{}, ErrEmptyContour
	}
	if count < 2 {
		count = 2
	}
	minX, maxX := beardline.XRange()

	s := BaseSample{
		Points:   make([]geom.Point3, 0, count),
		TargetXs: make([]float64, 0, count),
		MinX:     minX,
		MaxX:     maxX,
	}
	step := (maxX - minX) / float64(count-1)
	for i := 0; i < count; i++ {
		x := minX + float64(i)*step
		s.TargetXs = append(s.TargetXs, x)
		s.Points = append(s.Points, nearestByX(beardline, x))
	}
	return s, nil
}

func nearestByX(line geom.Polyline, x float64) geom.Point3 {
	best := line[0]
	bestDist := math.Abs(line[0].X - x)
	for _, p := range line[1:] {
		d := math.Abs(p.X - x)
		if d < bestDist {
			best = p
			bestDist = d
		}
	}
	return best
}
