package voronoi

import (
	"github.com/golang/geo/r2"

	"github.com/davidce/momepy/internal/line"
)

// Region is a bounded cell of the diagram traced back to the owner of the
// seed that generated it.
type Region struct {
	Owner int
	Ring  []r2.Point
}

// Perimeter returns the closed length of the region ring.
func (r *Region) Perimeter() float64 {
	if len(r.Ring) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(r.Ring); i++ {
		total += line.Dist(r.Ring[i-1], r.Ring[i])
	}
	return total + line.Dist(r.Ring[len(r.Ring)-1], r.Ring[0])
}
