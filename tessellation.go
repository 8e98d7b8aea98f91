package momepy

import (
	"sort"

	"github.com/golang/geo/r2"
	geos "github.com/twpayne/go-geos"
	"go.uber.org/zap"

	"github.com/davidce/momepy/internal/line"
	"github.com/davidce/momepy/internal/voronoi"
)

// Tessellation holds the morphological tessellation derived from building
// footprints: one cell per footprint approximating its share of the
// surrounding space, bounded by the study area limit.
type Tessellation struct {
	Cells  []*Cell
	Report *TessellationReport

	cfg   *TessellationConfig
	limit *geos.Geom
	log   *zap.Logger

	// recentering offset, all geometry is shifted near the origin before
	// the diagram is computed to improve numeric conditioning
	centreX float64
	centreY float64

	builder *voronoi.Builder
}

// NewTessellation generates the tessellation for the given buildings within
// the study area limit. Buildings are read only, ids must be unique.
// Recoverable data quality issues (collapsed footprints, multipart cells)
// land in the Report rather than aborting the run.
func NewTessellation(cfg *TessellationConfig, buildings []*Building, limit *geos.Geom) (*Tessellation, error) {
	if len(buildings) == 0 {
		return nil, ErrNoFootprints
	}
	if limit == nil {
		return nil, ErrNoLimit
	}

	cfg = cfg.withDefaults()
	t := &Tessellation{
		Report:  &TessellationReport{},
		cfg:     cfg,
		limit:   limit,
		log:     cfg.logger(),
		builder: voronoi.NewBuilder(),
	}
	return t, t.build(buildings)
}

// build runs the stages in order. Later stages rely on earlier ones, the
// order is significant.
func (t *Tessellation) build(buildings []*Building) error {
	t.centre(buildings)
	t.generateSeeds(buildings)
	t.hullSeeds()

	if t.builder.SiteCount() == 0 {
		// every footprint collapsed or was skipped
		return ErrNoFootprints
	}

	t.log.Info("computing voronoi diagram", zap.Int("seeds", t.builder.SiteCount()))
	t.partition()
	t.clip()

	if t.cfg.QueenCorners {
		t.log.Info("regularizing corners", zap.Float64("sensitivity", t.cfg.Sensitivity))
		queenCorners(t.Cells, t.cfg.Sensitivity)
	}

	t.check(buildings)
	return nil
}

// centre records the midpoint of the combined footprint bounds.
func (t *Tessellation) centre(buildings []*Building) {
	first := buildings[0].Geom.Bounds()
	minX, minY, maxX, maxY := first.MinX, first.MinY, first.MaxX, first.MaxY
	for _, b := range buildings[1:] {
		bb := b.Geom.Bounds()
		if bb.MinX < minX {
			minX = bb.MinX
		}
		if bb.MinY < minY {
			minY = bb.MinY
		}
		if bb.MaxX > maxX {
			maxX = bb.MaxX
		}
		if bb.MaxY > maxY {
			maxY = bb.MaxY
		}
	}
	t.centreX = (minX + maxX) / 2
	t.centreY = (minY + maxY) / 2
}

// generateSeeds erodes each recentred footprint inward, densifies the
// result and registers one seed per boundary vertex tagged with the owner
// id. Multi part erosion results each seed separately under the same owner,
// a building disconnected by the shrink offset legitimately yields several
// cell candidates that dissolve back into one cell later.
func (t *Tessellation) generateSeeds(buildings []*Building) {
	for _, b := range buildings {
		moved := translate(b.Geom, -t.centreX, -t.centreY)

		shrunk := moved
		if t.cfg.Shrink > 0 {
			shrunk = moved.Buffer(-t.cfg.Shrink, bufferSegments)
			moved.Destroy()
		}
		if shrunk.IsEmpty() {
			// the offset ate the whole footprint, the post check will
			// report the id as collapsed
			shrunk.Destroy()
			continue
		}

		parts := polygonParts(shrunk)
		if len(parts) == 0 {
			// non-empty but with no polygonal area at all, eg. a point or
			// line posing as a footprint
			t.Report.Skipped = append(t.Report.Skipped, b.ID)
			t.log.Warn("footprint has no polygonal area, skipping",
				zap.Int("id", b.ID),
				zap.Int("kind", int(shrunk.TypeID())),
				zap.Error(ErrInvalidGeometryKind))
			shrunk.Destroy()
			continue
		}

		for _, part := range parts {
			boundary := part.Boundary()
			switch boundary.TypeID() {
			case geos.TypeIDLineString, geos.TypeIDLinearRing:
				t.seedRing(lineCoords(boundary), b.ID)
			case geos.TypeIDMultiLineString:
				for i := 0; i < boundary.NumGeometries(); i++ {
					t.seedRing(lineCoords(boundary.Geometry(i)), b.ID)
				}
			}
			boundary.Destroy()
			part.Destroy()
		}
		shrunk.Destroy()
	}
}

// seedRing densifies a boundary ring and registers its vertices as seeds.
func (t *Tessellation) seedRing(coords []r2.Point, owner int) {
	dense := line.Densify(coords, t.cfg.Segment)
	if len(dense) > 1 && dense[0] == dense[len(dense)-1] {
		dense = dense[:len(dense)-1] // closing vertex duplicates the first
	}
	for _, p := range dense {
		t.builder.AddSite(p.X, p.Y, owner)
	}
}

// hullSeeds rings the recentred study area with sentinel seeds so that no
// real seed ends up with an unbounded cell.
func (t *Tessellation) hullSeeds() {
	moved := translate(t.limit, -t.centreX, -t.centreY)
	hull := moved.ConvexHull().Buffer(t.cfg.HullMargin, bufferSegments)
	moved.Destroy()

	ring := line.Densify(ringCoords(hull), t.cfg.HullSegment)
	hull.Destroy()
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	for _, p := range ring {
		t.builder.AddSite(p.X, p.Y, sentinelOwner)
	}
}

// partition computes the diagram, drops sentinel and blown up regions,
// dissolves the survivors by owner and translates the cells back into the
// input frame. Every owner with at least one surviving region yields
// exactly one cell.
func (t *Tessellation) partition() {
	byOwner := map[int][]*geos.Geom{}
	for _, region := range t.builder.Compute() {
		if region.Owner == sentinelOwner {
			continue
		}
		if region.Perimeter() > t.cfg.MaxPerimeter {
			// numerical blow up artifact
			continue
		}
		byOwner[region.Owner] = append(byOwner[region.Owner], newPolygon(region.Ring))
	}

	ids := make([]int, 0, len(byOwner))
	for id := range byOwner {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	t.Cells = make([]*Cell, 0, len(ids))
	for _, id := range ids {
		dissolved := unionAll(byOwner[id])
		t.Cells = append(t.Cells, &Cell{ID: id, Geom: translate(dissolved, t.centreX, t.centreY)})
		dissolved.Destroy()
		for _, g := range byOwner[id] {
			g.Destroy()
		}
	}
}

// clip cuts cells crossing the limit boundary back to the study area.
// Clipping every cell would be wasteful, so the limit boundary is densified
// into short chords and an index lookup per chord picks the minimal
// candidate set - the box query is a coarse filter, the intersects
// predicate the exact one. Cells fully outside the limit are left alone.
func (t *Tessellation) clip() {
	geoms := make([]*geos.Geom, len(t.Cells))
	for i, c := range t.Cells {
		geoms[i] = c.Geom
	}
	idx := indexGeoms(geoms)

	candidates := map[int]bool{}
	for _, chord := range t.limitChords() {
		seg := newLine(chord[:])
		for _, i := range searchGeom(idx, seg) {
			if candidates[i] {
				continue
			}
			if t.Cells[i].Geom.Intersects(seg) {
				candidates[i] = true
			}
		}
		seg.Destroy()
	}

	picked := make([]int, 0, len(candidates))
	for i := range candidates {
		picked = append(picked, i)
	}
	sort.Ints(picked)
	t.log.Info("clipping cells crossing the limit", zap.Int("candidates", len(picked)))

	for _, i := range picked {
		cell := t.Cells[i]
		inter := cell.Geom.Intersection(t.limit)

		switch inter.TypeID() {
		case geos.TypeIDPolygon:
			cell.Geom.Destroy()
			cell.Geom = inter
		case geos.TypeIDMultiPolygon, geos.TypeIDGeometryCollection:
			// smaller parts are clipping slivers, keep the dominant one
			if p := largestPolygon(inter); p != nil {
				cell.Geom.Destroy()
				cell.Geom = p
			}
			inter.Destroy()
		default:
			// degenerate result, leave the cell as generated
			inter.Destroy()
		}
	}
}

// limitChords densifies the limit boundary and splits it into individual
// segments.
func (t *Tessellation) limitChords() [][2]r2.Point {
	boundary := t.limit.Boundary()
	defer boundary.Destroy()

	chords := [][2]r2.Point{}
	add := func(coords []r2.Point) {
		dense := line.Densify(coords, t.cfg.ChordLength)
		for i := 1; i < len(dense); i++ {
			chords = append(chords, [2]r2.Point{dense[i-1], dense[i]})
		}
	}

	switch boundary.TypeID() {
	case geos.TypeIDLineString, geos.TypeIDLinearRing:
		add(lineCoords(boundary))
	case geos.TypeIDMultiLineString:
		for i := 0; i < boundary.NumGeometries(); i++ {
			add(lineCoords(boundary.Geometry(i)))
		}
	}
	return chords
}

// check compares output against input ids and flags surviving multi part
// cells. Both are warnings, not failures. Skipped footprints were already
// reported, they do not show up a second time as collapsed.
func (t *Tessellation) check(buildings []*Building) {
	skipped := map[int]bool{}
	for _, id := range t.Report.Skipped {
		skipped[id] = true
	}

	have := map[int]bool{}
	for _, c := range t.Cells {
		have[c.ID] = true
		if c.Geom.TypeID() == geos.TypeIDMultiPolygon {
			t.Report.Multipart = append(t.Report.Multipart, c.ID)
		}
	}
	for _, b := range buildings {
		if !have[b.ID] && !skipped[b.ID] {
			t.Report.Collapsed = append(t.Report.Collapsed, b.ID)
		}
	}

	if len(t.Report.Collapsed) > 0 {
		t.log.Warn("tessellation does not fully match buildings, some footprints collapsed during generation",
			zap.Ints("ids", t.Report.Collapsed))
	}
	if len(t.Report.Multipart) > 0 {
		t.log.Warn("tessellation contains multipart cells, the input footprints should be checked",
			zap.Ints("ids", t.Report.Multipart))
	}
}
