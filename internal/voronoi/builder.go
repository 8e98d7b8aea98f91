package voronoi

import (
	"math"

	"github.com/golang/geo/r2"
	engine "github.com/pzsz/voronoi"
)

// margin expands the engine's closing box beyond the extreme sites. Cells
// truncated against the box belong to the outermost ring of seeds, inner
// seeds are unaffected.
const margin = 100.0

// Builder accumulates (point, owner) seeds prior to computing the diagram.
type Builder struct {
	sites  []engine.Vertex
	owners map[[2]float64]int

	minX, minY float64
	maxX, maxY float64
}

// NewBuilder returns an empty diagram builder.
func NewBuilder() *Builder {
	return &Builder{
		sites:  []engine.Vertex{},
		owners: map[[2]float64]int{},
		minX:   math.Inf(1),
		minY:   math.Inf(1),
		maxX:   math.Inf(-1),
		maxY:   math.Inf(-1),
	}
}

// SiteCount returns how many seeds are currently registered.
func (b *Builder) SiteCount() int {
	return len(b.sites)
}

// AddSite registers a seed at (x, y) owned by the given id. Coincident
// seeds keep the first owner, the engine collapses them into one cell
// anyway.
func (b *Builder) AddSite(x, y float64, owner int) {
	key := [2]float64{x, y}
	if _, ok := b.owners[key]; ok {
		return
	}
	b.owners[key] = owner
	b.sites = append(b.sites, engine.Vertex{X: x, Y: y})

	b.minX = math.Min(b.minX, x)
	b.minY = math.Min(b.minY, y)
	b.maxX = math.Max(b.maxX, x)
	b.maxY = math.Max(b.maxY, y)
}

// Compute runs the diagram over all current seeds and converts every
// bounded cell into a Region. Cells the engine could not close (fewer than
// three edges) have no finite polygon and are dropped.
// Nb. there must be at least one seed set or this will panic.
func (b *Builder) Compute() []Region {
	if len(b.sites) == 0 {
		panic("voronoi diagram requires at least one seed")
	}

	bbox := engine.NewBBox(b.minX-margin, b.maxX+margin, b.minY-margin, b.maxY+margin)
	diagram := engine.ComputeDiagram(b.sites, bbox, true)

	out := make([]Region, 0, len(diagram.Cells))
	for _, cell := range diagram.Cells {
		owner, ok := b.owners[[2]float64{cell.Site.X, cell.Site.Y}]
		if !ok {
			continue
		}
		if len(cell.Halfedges) < 3 {
			continue
		}

		ring := make([]r2.Point, 0, len(cell.Halfedges))
		for _, he := range cell.Halfedges {
			p := he.GetStartpoint()
			ring = append(ring, r2.Point{X: p.X, Y: p.Y})
		}
		out = append(out, Region{Owner: owner, Ring: ring})
	}

	return out
}
