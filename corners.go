package momepy

import (
	"github.com/golang/geo/r2"
	geos "github.com/twpayne/go-geos"

	"github.com/davidce/momepy/internal/line"
	"github.com/davidce/momepy/internal/sindex"
)

// cornerMove is one planned vertex relocation. Moves that merge the same
// pair of corners share a cluster id, which lets the rewrite pass collapse
// short vertex runs that now land on the same target.
type cornerMove struct {
	to      r2.Point
	cluster int
}

// runLimit bounds how far apart (in ring positions) two substitutions of
// the same cluster may be for the vertices between them to be dropped.
const runLimit = 5

// queenCorners merges nearly coincident triple point vertices: spots where
// three or more cells notionally meet at one corner but float noise in the
// seed placement split it into a cluster of 2-3 vertices. Experimental,
// it mutates cells in place and may produce an invalid ring on pathological
// input - validate the result independently.
func queenCorners(cells []*Cell, sensitivity float64) {
	geoms := make([]*geos.Geom, len(cells))
	for i, c := range cells {
		geoms[i] = c.Geom
	}
	idx := indexGeoms(geoms)

	// arena of planned moves plus an exact coordinate lookup into it.
	// The lookup is what lets a move planned while scanning one cell
	// also reposition the identical vertex on every neighbouring ring -
	// dissolved voronoi cells share vertex coordinates bit for bit.
	moves := []cornerMove{}
	lookup := map[r2.Point]int{}

	for _, c := range cells {
		if c.Geom.TypeID() != geos.TypeIDPolygon {
			continue
		}

		ring := openRing(ringCoords(c.Geom))
		corners := []r2.Point{}
		for _, pt := range ring {
			if countTouching(cells, idx, pt) > 2 {
				corners = append(corners, pt)
			}
		}

		pairs := [][2]r2.Point{}
		switch {
		case len(corners) > 2:
			for i := range corners {
				next := (i + 1) % len(corners)
				if line.Dist(corners[i], corners[next]) < sensitivity {
					pairs = append(pairs, [2]r2.Point{corners[i], corners[next]})
				}
			}
		case len(corners) == 2:
			d := line.Dist(corners[0], corners[1])
			if d > 0 && d < sensitivity {
				pairs = append(pairs, [2]r2.Point{corners[0], corners[1]})
			}
		}

		for _, p := range pairs {
			mid := r2.Point{X: (p[0].X + p[1].X) / 2, Y: (p[0].Y + p[1].Y) / 2}
			cluster := len(moves)
			moves = append(moves, cornerMove{to: mid, cluster: cluster})
			lookup[p[0]] = cluster
			lookup[p[1]] = cluster
		}
	}

	if len(moves) == 0 {
		return
	}

	for _, c := range cells {
		if c.Geom.TypeID() != geos.TypeIDPolygon {
			continue
		}
		rebuildRing(c, moves, lookup)
	}
}

// countTouching returns how many cells pass through pt, the cell owning the
// vertex included.
func countTouching(cells []*Cell, idx *sindex.Index, pt r2.Point) int {
	point := newPoint(pt)
	defer point.Destroy()

	touched := 0
	for _, j := range idx.Search(pt.X, pt.Y, pt.X, pt.Y) {
		if cells[j].Geom.Intersects(point) {
			touched++
		}
	}
	return touched
}

// rebuildRing substitutes moved vertices into the cell's exterior ring,
// drops short vertex runs between two substitutions of the same cluster
// and rebuilds the polygon. A self intersecting rebuild is resolved into
// its simple constituents, keeping the largest. Cells with holes are
// rebuilt with the holes untouched.
func rebuildRing(c *Cell, moves []cornerMove, lookup map[r2.Point]int) {
	ring := openRing(ringCoords(c.Geom))

	out := []r2.Point{}
	changed := false
	lastCluster := -1
	lastRingPos := -1
	lastOutPos := -1

	for i, v := range ring {
		cluster, ok := lookup[v]
		if !ok {
			out = append(out, v)
			continue
		}
		changed = true

		if cluster == lastCluster && i-lastRingPos < runLimit {
			// the vertices between two hits on the same target are now
			// redundant, truncate back to the previous hit
			out = out[:lastOutPos+1]
		} else {
			out = append(out, moves[cluster].to)
			lastOutPos = len(out) - 1
		}
		lastCluster = cluster
		lastRingPos = i
	}
	if !changed {
		return
	}
	out = dedupe(out)
	if len(out) < 3 {
		return
	}

	if c.Geom.NumInteriorRings() > 0 {
		holes := make([][]r2.Point, c.Geom.NumInteriorRings())
		for i := range holes {
			holes[i] = lineCoords(c.Geom.InteriorRing(i))
		}
		c.Geom.Destroy()
		c.Geom = newPolygon(out, holes...)
		return
	}

	rebuilt := newPolygon(out)
	if !rebuilt.IsValid() {
		fixed := rebuilt.MakeValid()
		rebuilt.Destroy()
		if p := largestPolygon(fixed); p != nil {
			fixed.Destroy()
			rebuilt = p
		} else {
			fixed.Destroy()
			return // nothing polygonal survived, keep the old ring
		}
	}
	c.Geom.Destroy()
	c.Geom = rebuilt
}

// openRing drops the closing vertex of a closed ring.
func openRing(pts []r2.Point) []r2.Point {
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		return pts[:len(pts)-1]
	}
	return pts
}

// dedupe collapses consecutive duplicate points, cyclically.
func dedupe(pts []r2.Point) []r2.Point {
	out := make([]r2.Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}
