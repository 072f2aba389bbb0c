package geom

import "sort"

// Polyline is an ordered point sequence. Order encodes the contour
// traversal direction and is preserved by Smooth.
type Polyline []Point3

// Smooth returns a copy of line with passes iterations of neighbour
// averaging applied: every interior point becomes the unweighted mean of
// itself and its two neighbours, endpoints stay fixed. Polylines with fewer
// than 3 points are returned unchanged (documented no-op, not an error).
// The input is never mutated.
func Smooth(line Polyline, passes int) Polyline {
	out := make(Polyline, len(line))
	copy(out, line)
	if len(line) < 3 || passes <= 0 {
		return out
	}
	for p := 0; p < passes; p++ {
		next := make(Polyline, len(out))
		copy(next, out)
		for i := 1; i < len(out)-1; i++ {
			next[i] = Point3{
				X: (out[i-1].X + out[i].X + out[i+1].X) / 3,
				Y: (out[i-1].Y + out[i].Y + out[i+1].Y) / 3,
				Z: (out[i-1].Z + out[i].Z + out[i+1].Z) / 3,
			}
		}
		out = next
	}
	return out
}

// XRange returns the minimum and maximum X over the polyline. Both values
// are zero for an empty polyline.
func (l Polyline) XRange() (minX, maxX float64) {
	if len(l) == 0 {
		return 0, 0
	}
	minX, maxX = l[0].X, l[0].X
	for _, p := range l[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
	}
	return minX, maxX
}

// ResampleByAxis returns one point per target X. Targets outside the
// polyline's X range clamp to the nearest endpoint of the X-sorted copy;
// targets inside are linearly interpolated between the two bracketing
// points. The polyline is sorted by X internally first, which silently
// reorders points with equal or near-equal X. That is the accepted policy
// for noisy scan contours, not a bug.
func ResampleByAxis(line Polyline, targetXs []float64) Polyline {
	if len(line) == 0 {
		return nil
	}
	sorted := make(Polyline, len(line))
	copy(sorted, line)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	out := make(Polyline, 0, len(targetXs))
	for _, x := range targetXs {
		out = append(out, sampleSorted(sorted, x))
	}
	return out
}

func sampleSorted(sorted Polyline, x float64) Point3 {
	if x <= sorted[0].X {
		return sorted[0]
	}
	last := sorted[len(sorted)-1]
	if x >= last.X {
		return last
	}
	// Binary search for the first point with X >= x.
	lo := sort.Search(len(sorted), func(i int) bool { return sorted[i].X >= x })
	if sorted[lo].X == x {
		return sorted[lo]
	}
	a, b := sorted[lo-1], sorted[lo]
	span := b.X - a.X
	if span <= 0 {
		return Point3{X: x, Y: a.Y, Z: a.Z}
	}
	t := (x - a.X) / span
	return Point3{
		X: x,
		Y: a.Y + t*(b.Y-a.Y),
		Z: a.Z + t*(b.Z-a.Z),
	}
}
