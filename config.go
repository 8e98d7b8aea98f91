package momepy

import (
	"go.uber.org/zap"
)

// Tunables shared by more than one stage.
const (
	// quadrant segments used for every round buffer
	bufferSegments = 8

	// owner id tagged onto the hull seeds that close the diagram
	sentinelOwner = -1

	// a trailing segment shorter than this is treated as degenerate when
	// picking the two vertices an extension ray is cast from
	degenerateSegment = 0.001
)

// TessellationConfig holds settings for NewTessellation.
// The zero value is usable, every field has a default.
type TessellationConfig struct {
	// Shrink is the inward offset applied to each footprint before seeding,
	// it leaves a gap between cells of adjacent buildings. 0 disables the
	// offset entirely (adjacent cells will share edges). 0.4 is a sane
	// starting point for metric data.
	Shrink float64

	// Segment is the max distance between seeds along a footprint
	// boundary after densification.
	Segment float64 // default 0.5

	// HullMargin is how far beyond the study area the sentinel seed ring
	// is pushed so no real cell is left unbounded.
	HullMargin float64 // default 300

	// HullSegment densifies the sentinel ring.
	HullSegment float64 // default 20

	// MaxPerimeter drops diagram cells whose perimeter blew up due to
	// numeric error.
	MaxPerimeter float64 // default 1e6

	// ChordLength densifies the limit boundary when picking which cells
	// need clipping - only cells crossing the boundary are clipped.
	ChordLength float64 // default 100

	// QueenCorners enables the experimental pass that merges almost
	// coincident triple point vertices. May produce invalid polygons on
	// pathological input, validate the result if you turn it on.
	QueenCorners bool

	// Sensitivity is the max distance between two corner candidates for
	// them to be merged. Only used when QueenCorners is set.
	Sensitivity float64 // default 2

	// Logger receives stage progress and data quality warnings.
	// Nil means silent.
	Logger *zap.Logger
}

func (c *TessellationConfig) withDefaults() *TessellationConfig {
	out := TessellationConfig{}
	if c != nil {
		out = *c
	}
	if out.Segment <= 0 {
		out.Segment = 0.5
	}
	if out.HullMargin <= 0 {
		out.HullMargin = 300
	}
	if out.HullSegment <= 0 {
		out.HullSegment = 20
	}
	if out.MaxPerimeter <= 0 {
		out.MaxPerimeter = 1e6
	}
	if out.ChordLength <= 0 {
		out.ChordLength = 100
	}
	if out.Sensitivity <= 0 {
		out.Sensitivity = 2
	}
	return &out
}

func (c *TessellationConfig) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// SnapConfig holds settings for SnapStreetNetwork.
type SnapConfig struct {
	// ToleranceStreet is how far a dangling end may be stretched to reach
	// another edge of the network.
	ToleranceStreet float64 // default 20

	// ToleranceEdge is how far a dangling end may be stretched to reach
	// the outer boundary of the tessellated area, tried only when no
	// network edge is in reach.
	ToleranceEdge float64 // default 70

	// Logger receives stage progress. Nil means silent.
	Logger *zap.Logger
}

func (c *SnapConfig) withDefaults() *SnapConfig {
	out := SnapConfig{}
	if c != nil {
		out = *c
	}
	if out.ToleranceStreet <= 0 {
		out.ToleranceStreet = 20
	}
	if out.ToleranceEdge <= 0 {
		out.ToleranceEdge = 70
	}
	return &out
}

func (c *SnapConfig) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// BlocksConfig holds settings for Blocks.
type BlocksConfig struct {
	// StreetBuffer widens zero width street lines before they are
	// subtracted from cells, guaranteeing a clean polygonal difference.
	StreetBuffer float64 // default 0.1

	// SliverBuffer re-expands each dissolved block to close sliver gaps
	// left by the subtraction.
	SliverBuffer float64 // default 0.1

	// Logger receives stage progress and unattached building warnings.
	// Nil means silent.
	Logger *zap.Logger
}

func (c *BlocksConfig) withDefaults() *BlocksConfig {
	out := BlocksConfig{}
	if c != nil {
		out = *c
	}
	if out.StreetBuffer <= 0 {
		out.StreetBuffer = 0.1
	}
	if out.SliverBuffer <= 0 {
		out.SliverBuffer = 0.1
	}
	return &out
}

func (c *BlocksConfig) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
