package momepy

import (
	"sort"

	geos "github.com/twpayne/go-geos"
	"go.uber.org/zap"
)

// Blocks carves the tessellation into street bounded blocks: buffered
// streets are subtracted from every cell and the resulting fragments are
// grouped into connected components, each component dissolving into one
// block. Buildings and cells are annotated in place with the id of the
// block containing them (cells inherit the id of their building through
// the shared unique id, not through a second spatial query). Block ids
// run 1..N, 0 marks an unattached element.
func Blocks(cfg *BlocksConfig, cells []*Cell, streets []*Street, buildings []*Building) ([]*Block, *BlocksReport, error) {
	cfg = cfg.withDefaults()
	log := cfg.logger()

	log.Info("buffering streets", zap.Int("streets", len(streets)), zap.Float64("width", cfg.StreetBuffer))
	buffered := make([]*geos.Geom, len(streets))
	for i, s := range streets {
		buffered[i] = s.Geom.Buffer(cfg.StreetBuffer, bufferSegments)
	}
	sIdx := indexGeoms(buffered)
	report := &BlocksReport{}

	// cell minus streets, exploded into anonymous single part fragments
	fragments := []*geos.Geom{}
	for _, c := range cells {
		near := []*geos.Geom{}
		for _, j := range searchGeom(sIdx, c.Geom) {
			near = append(near, buffered[j])
		}

		if len(near) == 0 {
			fragments = append(fragments, c.Geom.Clone())
			continue
		}

		streetsUnion := unionAll(near)
		diff := c.Geom.Difference(streetsUnion)
		streetsUnion.Destroy()

		parts := polygonParts(diff)
		if len(parts) == 0 {
			// the buffer swallowed the whole cell, nothing left to block
			report.Consumed = append(report.Consumed, c.ID)
		}
		fragments = append(fragments, parts...)
		diff.Destroy()
	}
	for _, b := range buffered {
		b.Destroy()
	}

	log.Info("grouping fragments", zap.Int("fragments", len(fragments)))
	blocks := assembleBlocks(cfg, fragments)
	for _, f := range fragments {
		f.Destroy()
	}

	report.Blocks = len(blocks)
	joinBlocks(blocks, buildings, cells, report)

	if len(report.Consumed) > 0 {
		log.Warn("some cells were fully consumed by the street buffer",
			zap.Ints("ids", report.Consumed))
	}
	if len(report.Unattached) > 0 {
		log.Warn("some buildings were not attached to any block",
			zap.Ints("ids", report.Unattached))
	}
	log.Info("blocks done", zap.Int("blocks", len(blocks)))
	return blocks, report, nil
}

// assembleBlocks groups fragments into connected components under queen
// contiguity (any shared boundary point makes two fragments neighbours),
// dissolves each component and post-processes the result into single part,
// sequentially numbered blocks with nested duplicates removed.
func assembleBlocks(cfg *BlocksConfig, fragments []*geos.Geom) []*Block {
	fIdx := indexGeoms(fragments)
	sets := newDSU(len(fragments))
	for i, f := range fragments {
		for _, j := range searchGeom(fIdx, f) {
			if j <= i {
				continue // pairs are symmetric, visit each once
			}
			if f.Intersects(fragments[j]) {
				sets.union(i, j)
			}
		}
	}

	// the partition into components does not depend on the order the
	// fragments were visited in, only the numbering below does
	groups := map[int][]*geos.Geom{}
	for i, f := range fragments {
		root := sets.find(i)
		groups[root] = append(groups[root], f)
	}
	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	blocks := []*Block{}
	for _, root := range roots {
		dissolved := unionAll(groups[root])
		// close sliver gaps the street subtraction left behind
		widened := dissolved.Buffer(cfg.SliverBuffer, bufferSegments)
		dissolved.Destroy()

		for _, p := range polygonParts(widened) {
			blocks = append(blocks, &Block{Geom: p})
		}
		widened.Destroy()
	}

	blocks = dropNested(blocks)
	for i, b := range blocks {
		b.ID = i + 1
	}
	return blocks
}

// dropNested removes any block fully contained within another, an artifact
// of dissolving overlapping re-buffered components.
func dropNested(blocks []*Block) []*Block {
	geoms := make([]*geos.Geom, len(blocks))
	for i, b := range blocks {
		geoms[i] = b.Geom
	}
	idx := indexGeoms(geoms)

	out := make([]*Block, 0, len(blocks))
	for i, b := range blocks {
		nested := false
		for _, j := range searchGeom(idx, b.Geom) {
			if j == i {
				continue
			}
			if b.Geom.Within(blocks[j].Geom) {
				nested = true
				break
			}
		}
		if nested {
			b.Geom.Destroy()
			continue
		}
		out = append(out, b)
	}
	return out
}

// joinBlocks attaches block ids to buildings via a representative interior
// point (lowest block id wins when the point sits exactly on a shared
// boundary) and propagates them to cells through the shared unique id.
func joinBlocks(blocks []*Block, buildings []*Building, cells []*Cell, report *BlocksReport) {
	geoms := make([]*geos.Geom, len(blocks))
	for i, b := range blocks {
		geoms[i] = b.Geom
	}
	idx := indexGeoms(geoms)

	byBuilding := map[int]int{}
	for _, bu := range buildings {
		pt := bu.Geom.PointOnSurface()

		candidates := searchGeom(idx, pt)
		sort.Ints(candidates) // deterministic first-match
		bu.BlockID = 0
		for _, j := range candidates {
			if blocks[j].Geom.Intersects(pt) {
				bu.BlockID = blocks[j].ID
				break
			}
		}
		pt.Destroy()

		if bu.BlockID == 0 {
			report.Unattached = append(report.Unattached, bu.ID)
		}
		byBuilding[bu.ID] = bu.BlockID
	}

	for _, c := range cells {
		c.BlockID = byBuilding[c.ID]
	}
}

// dsu is a disjoint set union over fragment indices - the explicit
// equivalent of repeatedly pulling unvisited neighbours of neighbours into
// a component.
type dsu struct {
	parent []int
	rank   []int
}

func newDSU(n int) *dsu {
	d := &dsu{parent: make([]int, n), rank: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
	}
	return d
}

func (d *dsu) find(i int) int {
	for d.parent[i] != i {
		d.parent[i] = d.parent[d.parent[i]] // path halving
		i = d.parent[i]
	}
	return i
}

func (d *dsu) union(a, b int) {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return
	}
	if d.rank[ra] < d.rank[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	if d.rank[ra] == d.rank[rb] {
		d.rank[ra]++
	}
}
