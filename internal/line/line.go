package line

import (
	"math"

	"github.com/golang/geo/r2"
)

// Dist returns the euclidean distance between two points.
func Dist(a, b r2.Point) float64 {
	return a.Sub(b).Norm()
}

// Densify inserts evenly spaced vertices along each segment of coords so
// that no segment is longer than maxSeg. Existing vertices are preserved
// exactly, including the endpoints.
func Densify(coords []r2.Point, maxSeg float64) []r2.Point {
	if maxSeg <= 0 || len(coords) < 2 {
		return coords
	}

	out := make([]r2.Point, 0, len(coords))
	for i := 1; i < len(coords); i++ {
		a, b := coords[i-1], coords[i]
		out = append(out, a)

		d := Dist(a, b)
		if d <= maxSeg {
			continue
		}

		n := int(math.Ceil(d / maxSeg))
		step := b.Sub(a).Mul(1 / float64(n))
		for k := 1; k < n; k++ {
			out = append(out, a.Add(step.Mul(float64(k))))
		}
	}

	return append(out, coords[len(coords)-1])
}

// Extrapolate returns a segment of the given length that starts at b and
// continues in the a->b direction. A degenerate direction (a == b within
// float noise) falls back to an eastward ray so the caller still gets a
// usable segment.
func Extrapolate(a, b r2.Point, length float64) [2]r2.Point {
	dir := b.Sub(a)
	n := dir.Norm()
	if n < 1e-12 {
		dir = r2.Point{X: 1, Y: 0}
		n = 1
	}
	return [2]r2.Point{b, b.Add(dir.Mul(length / n))}
}
