package sindex

import (
	"github.com/dhconnelly/rtreego"
)

// pad keeps degenerate extents (points, axis aligned segments) insertable,
// rtreego rejects rectangles with non-positive side lengths.
const pad = 1e-9

// Item is an axis aligned bounding box carrying an integer handle into
// whatever collection the caller is indexing.
type Item struct {
	ID                     int
	MinX, MinY, MaxX, MaxY float64
}

type entry struct {
	id   int
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial
func (e *entry) Bounds() rtreego.Rect {
	return e.rect
}

// Index is an R-tree over bounding boxes. The discipline is build once per
// stage: there is no removal, callers rebuild if the underlying geometries
// change.
type Index struct {
	tree *rtreego.Rtree
}

// New bulk-builds an index over the given items.
func New(items []Item) *Index {
	tree := rtreego.NewTree(2, 25, 50)
	for _, it := range items {
		tree.Insert(newEntry(it))
	}
	return &Index{tree: tree}
}

func newEntry(it Item) *entry {
	rect, err := rtreego.NewRect(
		rtreego.Point{it.MinX, it.MinY},
		[]float64{sideLength(it.MaxX - it.MinX), sideLength(it.MaxY - it.MinY)},
	)
	if err != nil {
		// side lengths are padded positive, NewRect cannot reject them
		panic(err)
	}
	return &entry{id: it.ID, rect: rect}
}

func sideLength(d float64) float64 {
	if d < pad {
		return pad
	}
	return d
}

// Search returns the handles of every item whose box intersects the query
// box. Order is unspecified.
func (i *Index) Search(minX, minY, maxX, maxY float64) []int {
	rect, err := rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{sideLength(maxX - minX), sideLength(maxY - minY)},
	)
	if err != nil {
		return nil
	}

	hits := i.tree.SearchIntersect(rect)
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*entry).id)
	}
	return out
}
