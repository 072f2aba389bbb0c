package loft

import (
	"math"

	"github.com/banshee-data/moldforge/internal/geom"
)

// LipSpec parameterises the lofted lip band cross-section.
type LipSpec struct {
	ArcSteps    int     // ring positions per cross-section; rings carry ArcSteps+1 points
	MinRadius   float64 // taper floor (m)
	MaxRadius   float64 // taper ceiling (m)
	TaperMult   float64 // taper falloff per metre of distance from CenterX
	ProfileBias float64 // exponent warping the ring angle; >1 delays departure from flush
	PreLift     float64 // constant Z offset applied to every ring point (m)
	CenterX     float64 // midpoint of the sampled X range
}

// Band is the lofted lip surface: one ring per base point plus the
// triangulated quad strips between consecutive rings.
type Band struct {
	Rings     [][]geom.Point3
	Triangles []geom.Triangle
}

// FirstColumn returns the first ring position of every cross-section, the
// column the stitcher joins to the resampled beardline.
func (b Band) FirstColumn() []geom.Point3 {
	col := make([]geom.Point3, 0, len(b.Rings))
	for _, ring := range b.Rings {
		if len(ring) > 0 {
			col = append(col, ring[0])
		}
	}
	return col
}

// TaperRadius computes the per-X lip radius:
//
//	r(x) = minR + max(0, 1 - |x-centerX| * taperMult) * (maxR - minR)
//
// so the lip is fullest at the centre of the face and shrinks towards the
// ears, never below MinRadius.
func (s LipSpec) TaperRadius(x float64) float64 {
	falloff := 1 - math.Abs(x-s.CenterX)*s.TaperMult
	if falloff < 0 {
		falloff = 0
	}
	return s.MinRadius + falloff*(s.MaxRadius-s.MinRadius)
}

// ring computes the half-loop cross-section at one base point. Ring
// position j maps to a bias-warped angle and offsets the base point by
// (0, -r*(1-sin(angle)), preLift + r*cos(angle)): the profile starts near
// the base point and curls downward-and-back.
func (s LipSpec) ring(base geom.Point3) []geom.Point3 {
	r := s.TaperRadius(base.X)
	pts := make([]geom.Point3, 0, s.ArcSteps+1)
	for j := 0; j <= s.ArcSteps; j++ {
		angle := math.Pi * math.Pow(float64(j)/float64(s.ArcSteps), s.ProfileBias)
		pts = append(pts, geom.Point3{
			X: base.X,
			Y: base.Y - r*(1-math.Sin(angle)),
			Z: base.Z + s.PreLift + r*math.Cos(angle),
		})
	}
	return pts
}

// LoftLip builds the lip band over the sampled base points. Consecutive
// rings are joined two triangles per quad cell with the fixed diagonal
// split from geom.AppendStrip, which winds outward when base points run
// left to right.
func LoftLip(base []geom.Point3, spec LipSpec) Band {
	if spec.ArcSteps < 1 {
		spec.ArcSteps = 1
	}
	band := Band{Rings: make([][]geom.Point3, 0, len(base))}
	for _, p := range base {
		band.Rings = append(band.Rings, spec.ring(p))
	}
	for i := 0; i+1 < len(band.Rings); i++ {
		band.Triangles = geom.AppendStrip(band.Triangles, band.Rings[i], band.Rings[i+1])
	}
	return band
}
