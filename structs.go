package momepy

import (
	geos "github.com/twpayne/go-geos"
)

// Building is a footprint polygon with a caller assigned unique id.
// Footprints are read only inputs, the pipeline never mutates their
// geometry. BlockID is filled in by Blocks (0 means unassigned).
type Building struct {
	ID      int
	Geom    *geos.Geom
	BlockID int
}

// Cell is one morphological tessellation cell: the polygon of land closer
// to its building than to any other. ID matches the generating building.
// BlockID is filled in by Blocks (0 means unassigned).
type Cell struct {
	ID      int
	Geom    *geos.Geom
	BlockID int
}

// Street is a network edge. NodeStart / NodeEnd reference Node ids. Its
// geometry may gain vertices during snapping.
type Street struct {
	ID        int
	NodeStart int
	NodeEnd   int
	Geom      *geos.Geom
}

// Node is a street network vertex referenced by Street endpoints.
type Node struct {
	ID   int
	Geom *geos.Geom
}

// Block is a maximal connected group of tessellation fragments separated
// from the rest by the street network, dissolved into one polygon.
type Block struct {
	ID   int
	Geom *geos.Geom
}

// TessellationReport summarises the recoverable conditions met while
// generating a tessellation. None of these abort the batch.
type TessellationReport struct {
	// Collapsed lists building ids that produced no cell - the shrink
	// offset ate all their area or every seed fell into a dropped region.
	Collapsed []int

	// Multipart lists cells that survived clipping as more than one
	// polygon, usually a sign of a self intersecting input footprint.
	Multipart []int

	// Skipped lists buildings whose boundary was not a line and which
	// therefore produced no seeds at all.
	Skipped []int
}

// SnapReport counts what happened to each processed street end.
type SnapReport struct {
	// Extended counts committed endpoint extensions.
	Extended int

	// Vetoed counts extensions discarded because the stretched line
	// crossed a building footprint.
	Vetoed int

	// Unchanged counts edges whose ends were already connected.
	Unchanged int
}

// BlocksReport summarises block assembly.
type BlocksReport struct {
	// Blocks is the number of blocks generated.
	Blocks int

	// Consumed lists cell ids the street buffer swallowed whole, leaving
	// no fragment to assemble into a block.
	Consumed []int

	// Unattached lists building ids whose interior point landed in no
	// block. Those buildings (and their cells) keep block id 0.
	Unattached []int
}
