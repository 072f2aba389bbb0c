package loft

import "github.com/banshee-data/moldforge/internal/geom"

// Stitch connects the lofted band to the scan contours. The beardline (and
// the neckline when present) is resampled at the same X grid the lip base
// points were sampled on, so every strip joins two equal-length rows:
// lip first column to beardline, then beardline to neckline. Returns the
// stitching triangles only; the band's own triangles are kept separate.
func Stitch(firstColumn []geom.Point3, beardline, neckline geom.Polyline, targetXs []float64) []geom.Triangle {
	beard := geom.ResampleByAxis(beardline, targetXs)

	var tris []geom.Triangle
	tris = geom.AppendStrip(tris, firstColumn, beard)

	if len(neckline) > 0 {
		neck := geom.ResampleByAxis(neckline, targetXs)
		tris = geom.AppendStrip(tris, beard, neck)
	}
	return tris
}
