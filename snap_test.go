package momepy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapExtendsToNetwork(t *testing.T) {
	streets := []*Street{
		{ID: 1, Geom: mustGeom(t, "LINESTRING(0 0,10 0)")},
		{ID: 2, Geom: mustGeom(t, "LINESTRING(12 -5,12 5)")},
	}

	snapped, report, err := SnapStreetNetwork(&SnapConfig{ToleranceStreet: 5, ToleranceEdge: 70}, streets, nil, nil)
	require.NoError(t, err)
	require.Len(t, snapped, 2)

	coords := lineCoords(snapped[0].Geom)
	require.Len(t, coords, 3)
	assert.InDelta(t, 12, coords[2].X, 1e-9)
	assert.InDelta(t, 0, coords[2].Y, 1e-9)

	// the crossing street had nothing in reach, it stays as it was
	assert.Len(t, lineCoords(snapped[1].Geom), 2)

	assert.Equal(t, 1, report.Extended)
	assert.Equal(t, 0, report.Vetoed)

	// inputs are cloned, not mutated
	assert.Len(t, lineCoords(streets[0].Geom), 2)
}

func TestSnapVetoedByBuilding(t *testing.T) {
	streets := []*Street{
		{ID: 1, Geom: mustGeom(t, "LINESTRING(0 0,10 0)")},
		{ID: 2, Geom: mustGeom(t, "LINESTRING(12 -5,12 5)")},
	}
	buildings := []*Building{
		{ID: 1, Geom: mustGeom(t, "POLYGON((10.5 -1,11.5 -1,11.5 1,10.5 1,10.5 -1))")},
	}

	snapped, report, err := SnapStreetNetwork(&SnapConfig{ToleranceStreet: 5, ToleranceEdge: 70}, streets, buildings, nil)
	require.NoError(t, err)

	assert.Len(t, lineCoords(snapped[0].Geom), 2)
	assert.Equal(t, 0, report.Extended)
	assert.Equal(t, 1, report.Vetoed)
}

func TestSnapFallsBackToTessellationEdge(t *testing.T) {
	streets := []*Street{
		{ID: 1, Geom: mustGeom(t, "LINESTRING(5 5,5 9)")},
	}
	cells := []*Cell{
		{ID: 1, Geom: mustGeom(t, squareWKT(0, 0, 10))},
	}

	snapped, report, err := SnapStreetNetwork(&SnapConfig{ToleranceStreet: 1, ToleranceEdge: 70}, streets, nil, cells)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Extended)

	// both ends reached the boundary, vertex order still runs south to
	// north like the input did
	coords := lineCoords(snapped[0].Geom)
	first, last := coords[0], coords[len(coords)-1]
	assert.InDelta(t, 5, first.X, 1e-9)
	assert.InDelta(t, 0, first.Y, 1e-9)
	assert.InDelta(t, 5, last.X, 1e-9)
	assert.InDelta(t, 10, last.Y, 1e-9)
}

func TestSnapExtendedStartKeepsOrientation(t *testing.T) {
	streets := []*Street{
		{ID: 1, NodeStart: 10, NodeEnd: 11, Geom: mustGeom(t, "LINESTRING(2 0,10 0)")},
		{ID: 2, Geom: mustGeom(t, "LINESTRING(10 -5,10 5)")},
		{ID: 3, Geom: mustGeom(t, "LINESTRING(0 -5,0 5)")},
	}

	snapped, report, err := SnapStreetNetwork(&SnapConfig{ToleranceStreet: 5, ToleranceEdge: 70}, streets, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Extended)

	// only the start end was dangling, extending it must not reverse the
	// line - the first vertex still belongs to NodeStart's side
	coords := lineCoords(snapped[0].Geom)
	require.Len(t, coords, 3)
	assert.InDelta(t, 0, coords[0].X, 1e-9)
	assert.InDelta(t, 0, coords[0].Y, 1e-9)
	assert.InDelta(t, 2, coords[1].X, 1e-9)
	assert.InDelta(t, 10, coords[2].X, 1e-9)
}

func TestSnapIndexNotRebuiltWithinPass(t *testing.T) {
	streets := []*Street{
		{ID: 1, Geom: mustGeom(t, "LINESTRING(0 0,5 0)")},
		{ID: 2, Geom: mustGeom(t, "LINESTRING(8 -5,8 5)")},
		{ID: 3, Geom: mustGeom(t, "LINESTRING(6 2,6 0.5)")},
	}

	snapped, report, err := SnapStreetNetwork(&SnapConfig{ToleranceStreet: 20, ToleranceEdge: 70}, streets, nil, nil)
	require.NoError(t, err)

	// the first edge reaches the vertical street
	coords := lineCoords(snapped[0].Geom)
	require.Len(t, coords, 3)
	assert.InDelta(t, 8, coords[2].X, 1e-9)
	assert.InDelta(t, 0, coords[2].Y, 1e-9)

	// the third edge points straight at the extension committed above, but
	// the index still holds the original extent so the hit is never tested
	assert.Len(t, lineCoords(snapped[2].Geom), 2)
	assert.Equal(t, 1, report.Extended)
}
