package momepy

import (
	"github.com/golang/geo/r2"
	geos "github.com/twpayne/go-geos"

	"github.com/davidce/momepy/internal/sindex"
)

// lineCoords returns the vertices of a linestring (or linear ring) geometry.
func lineCoords(g *geos.Geom) []r2.Point {
	raw := g.CoordSeq().ToCoords()
	out := make([]r2.Point, len(raw))
	for i, c := range raw {
		out[i] = r2.Point{X: c[0], Y: c[1]}
	}
	return out
}

// ringCoords returns the exterior ring vertices of a polygon.
func ringCoords(g *geos.Geom) []r2.Point {
	return lineCoords(g.ExteriorRing())
}

func rawCoords(pts []r2.Point) [][]float64 {
	out := make([][]float64, len(pts))
	for i, p := range pts {
		out[i] = []float64{p.X, p.Y}
	}
	return out
}

// closeRing appends the first point when the ring is open.
func closeRing(pts []r2.Point) []r2.Point {
	if len(pts) == 0 {
		return pts
	}
	if pts[0] == pts[len(pts)-1] {
		return pts
	}
	return append(append([]r2.Point{}, pts...), pts[0])
}

// newPoint builds a point geometry.
func newPoint(p r2.Point) *geos.Geom {
	return geos.NewPoint([]float64{p.X, p.Y})
}

// newLine builds a linestring geometry from points.
func newLine(pts []r2.Point) *geos.Geom {
	return geos.NewLineString(rawCoords(pts))
}

// newPolygon builds a polygon from an exterior ring and optional holes.
// Rings are closed on the caller's behalf.
func newPolygon(exterior []r2.Point, holes ...[]r2.Point) *geos.Geom {
	rings := make([][][]float64, 0, len(holes)+1)
	rings = append(rings, rawCoords(closeRing(exterior)))
	for _, h := range holes {
		rings = append(rings, rawCoords(closeRing(h)))
	}
	return geos.NewPolygon(rings)
}

// translate shifts a geometry by (dx, dy), rebuilding it vertex by vertex.
// Handles points, lines, polygons and multi part combinations of those.
func translate(g *geos.Geom, dx, dy float64) *geos.Geom {
	shift := func(pts []r2.Point) []r2.Point {
		out := make([]r2.Point, len(pts))
		for i, p := range pts {
			out[i] = r2.Point{X: p.X + dx, Y: p.Y + dy}
		}
		return out
	}

	switch g.TypeID() {
	case geos.TypeIDPoint:
		return geos.NewPoint([]float64{g.X() + dx, g.Y() + dy})
	case geos.TypeIDLineString, geos.TypeIDLinearRing:
		return newLine(shift(lineCoords(g)))
	case geos.TypeIDPolygon:
		holes := make([][]r2.Point, g.NumInteriorRings())
		for i := range holes {
			holes[i] = shift(lineCoords(g.InteriorRing(i)))
		}
		return newPolygon(shift(ringCoords(g)), holes...)
	default:
		parts := make([]*geos.Geom, g.NumGeometries())
		for i := range parts {
			parts[i] = translate(g.Geometry(i), dx, dy)
		}
		return geos.NewCollection(g.TypeID(), parts)
	}
}

// polygonParts explodes a geometry into its single part polygons. Non
// polygonal and empty components are dropped. Parts are cloned so they
// outlive the parent geometry.
func polygonParts(g *geos.Geom) []*geos.Geom {
	if g.IsEmpty() {
		return nil
	}
	switch g.TypeID() {
	case geos.TypeIDPolygon:
		return []*geos.Geom{g.Clone()}
	case geos.TypeIDMultiPolygon, geos.TypeIDGeometryCollection:
		out := []*geos.Geom{}
		for i := 0; i < g.NumGeometries(); i++ {
			out = append(out, polygonParts(g.Geometry(i))...)
		}
		return out
	}
	return nil
}

// largestPolygon returns the polygon part with the greatest area, or nil
// when the geometry has no polygonal component.
func largestPolygon(g *geos.Geom) *geos.Geom {
	var best *geos.Geom
	bestArea := -1.0
	for _, p := range polygonParts(g) {
		if a := p.Area(); a > bestArea {
			best, bestArea = p, a
		}
	}
	return best
}

// unionAll dissolves a set of geometries into one. The inputs stay owned
// by the caller. An empty input yields an empty geometry.
func unionAll(geoms []*geos.Geom) *geos.Geom {
	if len(geoms) == 1 {
		return geoms[0].Clone()
	}
	parts := make([]*geos.Geom, len(geoms))
	for i, g := range geoms {
		parts[i] = g.Clone() // the collection takes ownership of its members
	}
	coll := geos.NewCollection(geos.TypeIDGeometryCollection, parts)
	defer coll.Destroy()
	return coll.UnaryUnion()
}

// indexGeoms bulk-builds a spatial index keyed by position in geoms.
func indexGeoms(geoms []*geos.Geom) *sindex.Index {
	items := make([]sindex.Item, len(geoms))
	for i, g := range geoms {
		b := g.Bounds()
		items[i] = sindex.Item{ID: i, MinX: b.MinX, MinY: b.MinY, MaxX: b.MaxX, MaxY: b.MaxY}
	}
	return sindex.New(items)
}

// searchGeom queries idx with the bounding box of g.
func searchGeom(idx *sindex.Index, g *geos.Geom) []int {
	b := g.Bounds()
	return idx.Search(b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// reversed returns a copy of pts in the opposite order.
func reversed(pts []r2.Point) []r2.Point {
	out := make([]r2.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}
