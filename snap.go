package momepy

import (
	"github.com/golang/geo/r2"
	geos "github.com/twpayne/go-geos"
	"go.uber.org/zap"

	"github.com/davidce/momepy/internal/line"
	"github.com/davidce/momepy/internal/sindex"
)

// SnapStreetNetwork extends dangling street endpoints until they meet
// another edge of the network or, failing that, the outer boundary of the
// tessellated area. An extension is discarded when the stretched line would
// cross a building footprint. The input streets are left untouched, the
// returned collection carries the same ids with possibly extended
// geometries.
//
// Edges are processed in input order in a single pass over a shared,
// mutated network: an extension committed to an earlier edge is visible to
// the exact intersection tests of later edges. The spatial index over the
// network is built once up front and deliberately not rebuilt as edges
// grow, so a later edge can miss an intersection that exists only on the
// extended portion of an earlier one. Callers needing a fixpoint can run
// the pass again over its own output.
func SnapStreetNetwork(cfg *SnapConfig, streets []*Street, buildings []*Building, cells []*Cell) ([]*Street, *SnapReport, error) {
	cfg = cfg.withDefaults()
	log := cfg.logger()

	network := make([]*Street, len(streets))
	for i, s := range streets {
		network[i] = &Street{ID: s.ID, NodeStart: s.NodeStart, NodeEnd: s.NodeEnd, Geom: s.Geom.Clone()}
	}

	netGeoms := make([]*geos.Geom, len(network))
	for i, s := range network {
		netGeoms[i] = s.Geom
	}
	bGeoms := make([]*geos.Geom, len(buildings))
	for i, b := range buildings {
		bGeoms[i] = b.Geom
	}
	cellGeoms := make([]*geos.Geom, len(cells))
	for i, c := range cells {
		cellGeoms[i] = c.Geom
	}

	var outer *geos.Geom
	if len(cellGeoms) > 0 {
		dissolved := unionAll(cellGeoms)
		outer = dissolved.Boundary()
		dissolved.Destroy()
	}

	sn := &snapper{
		cfg:       cfg,
		report:    &SnapReport{},
		network:   network,
		netIdx:    indexGeoms(netGeoms),
		buildings: buildings,
		bIdx:      indexGeoms(bGeoms),
		outer:     outer,
	}

	log.Info("snapping street network",
		zap.Int("edges", len(network)),
		zap.Float64("tolerance_street", cfg.ToleranceStreet),
		zap.Float64("tolerance_edge", cfg.ToleranceEdge))

	for i := range network {
		coords := lineCoords(network[i].Geom)
		if len(coords) < 2 {
			continue
		}

		first := sn.connected(i, coords[0])
		second := sn.connected(i, coords[len(coords)-1])

		switch {
		case first && second:
			sn.report.Unchanged++
		case first && !second:
			sn.extend(i, coords, false)
		case !first && second:
			sn.extend(i, reversed(coords), true)
		default:
			sn.extend(i, coords, false)
			// re-read, the first extension may have committed a vertex
			coords = lineCoords(network[i].Geom)
			sn.extend(i, reversed(coords), true)
		}
	}

	if outer != nil {
		outer.Destroy()
	}
	log.Info("snapping done",
		zap.Int("extended", sn.report.Extended),
		zap.Int("vetoed", sn.report.Vetoed),
		zap.Int("unchanged", sn.report.Unchanged))
	return network, sn.report, nil
}

// snapper holds the shared state of one snapping pass.
type snapper struct {
	cfg    *SnapConfig
	report *SnapReport

	network []*Street
	netIdx  *sindex.Index

	buildings []*Building
	bIdx      *sindex.Index

	// dissolved outer boundary of the tessellation, nil when no cells
	// were supplied
	outer *geos.Geom
}

// connected reports whether the endpoint touches any edge other than its
// own.
func (s *snapper) connected(self int, pt r2.Point) bool {
	point := newPoint(pt)
	defer point.Destroy()

	for _, j := range s.netIdx.Search(pt.X, pt.Y, pt.X, pt.Y) {
		if j == self {
			continue
		}
		if s.network[j].Geom.Intersects(point) {
			return true
		}
	}
	return false
}

// extend stretches the tail end of coords towards the nearest reachable
// edge, falling back to the outer tessellation boundary, and commits the
// result unless the extended line crosses a building. flip is set when the
// caller reversed the coords to work on the start end, the committed
// geometry is re-reversed so vertex order (and with it what NodeStart and
// NodeEnd point at) never changes.
func (s *snapper) extend(self int, coords []r2.Point, flip bool) {
	a, b, ok := tailPair(coords)
	if !ok {
		return
	}

	ray := line.Extrapolate(a, b, s.cfg.ToleranceStreet)
	hits := s.networkHits(self, ray)
	if len(hits) == 0 {
		ray = line.Extrapolate(a, b, s.cfg.ToleranceEdge)
		hits = s.edgeHits(ray)
	}
	if len(hits) == 0 {
		return
	}

	end := coords[len(coords)-1]
	best := hits[0]
	bestDist := line.Dist(best, end)
	for _, h := range hits[1:] {
		if d := line.Dist(h, end); d < bestDist {
			best, bestDist = h, d
		}
	}

	stretched := append(append([]r2.Point{}, coords...), best)
	if flip {
		stretched = reversed(stretched)
	}
	extended := newLine(stretched)
	if s.crossesBuilding(extended) {
		extended.Destroy()
		s.report.Vetoed++
		return
	}

	s.network[self].Geom.Destroy()
	s.network[self].Geom = extended
	s.report.Extended++
}

// tailPair picks the two vertices the extension ray is cast from: the last
// two, or the pair before them when the final segment is degenerate. A two
// point degenerate line cannot be extended.
func tailPair(coords []r2.Point) (a, b r2.Point, ok bool) {
	n := len(coords)
	if line.Dist(coords[n-2], coords[n-1]) <= degenerateSegment {
		if n < 3 {
			return a, b, false
		}
		return coords[n-3], coords[n-2], true
	}
	return coords[n-2], coords[n-1], true
}

// networkHits collects the exact intersection points between the ray and
// every indexed edge except self.
func (s *snapper) networkHits(self int, ray [2]r2.Point) []r2.Point {
	seg := newLine(ray[:])
	defer seg.Destroy()

	hits := []r2.Point{}
	for _, j := range searchGeom(s.netIdx, seg) {
		if j == self {
			continue
		}
		inter := s.network[j].Geom.Intersection(seg)
		hits = append(hits, pointHits(inter)...)
		inter.Destroy()
	}
	return hits
}

// edgeHits intersects the ray against the dissolved tessellation boundary.
func (s *snapper) edgeHits(ray [2]r2.Point) []r2.Point {
	if s.outer == nil {
		return nil
	}
	seg := newLine(ray[:])
	defer seg.Destroy()

	inter := s.outer.Intersection(seg)
	defer inter.Destroy()
	return pointHits(inter)
}

// pointHits extracts point coordinates from an intersection result,
// ignoring any non point component.
func pointHits(g *geos.Geom) []r2.Point {
	switch g.TypeID() {
	case geos.TypeIDPoint:
		return []r2.Point{{X: g.X(), Y: g.Y()}}
	case geos.TypeIDMultiPoint, geos.TypeIDGeometryCollection:
		out := []r2.Point{}
		for i := 0; i < g.NumGeometries(); i++ {
			out = append(out, pointHits(g.Geometry(i))...)
		}
		return out
	}
	return nil
}

// crossesBuilding reports whether the candidate line touches any building
// footprint.
func (s *snapper) crossesBuilding(candidate *geos.Geom) bool {
	for _, j := range searchGeom(s.bIdx, candidate) {
		if s.buildings[j].Geom.Intersects(candidate) {
			return true
		}
	}
	return false
}
