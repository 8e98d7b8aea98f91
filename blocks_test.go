package momepy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoCellRow(t *testing.T) ([]*Cell, []*Building) {
	t.Helper()
	cells := []*Cell{
		{ID: 1, Geom: mustGeom(t, squareWKT(0, 0, 10))},
		{ID: 2, Geom: mustGeom(t, "POLYGON((10 0,20 0,20 10,10 10,10 0))")},
	}
	buildings := []*Building{
		square(t, 1, 4, 4, 2),
		square(t, 2, 14, 4, 2),
	}
	return cells, buildings
}

func TestBlocksSplitByStreet(t *testing.T) {
	cells, buildings := twoCellRow(t)
	buildings = append(buildings, square(t, 3, 100, 100, 2)) // far outside
	streets := []*Street{
		{ID: 1, Geom: mustGeom(t, "LINESTRING(10 -1,10 11)")},
	}

	blocks, report, err := Blocks(&BlocksConfig{}, cells, streets, buildings)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, 2, report.Blocks)

	// the street cuts the row in two, one building per side
	assert.Equal(t, 1, buildings[0].BlockID)
	assert.Equal(t, 2, buildings[1].BlockID)

	// cells take the block of their building, never a fresh spatial guess
	assert.Equal(t, buildings[0].BlockID, cells[0].BlockID)
	assert.Equal(t, buildings[1].BlockID, cells[1].BlockID)

	// the stray building matched nothing
	assert.Equal(t, 0, buildings[2].BlockID)
	assert.Equal(t, []int{3}, report.Unattached)
}

func TestBlocksPartialStreetKeepsOneBlock(t *testing.T) {
	cells, buildings := twoCellRow(t)
	streets := []*Street{
		{ID: 1, Geom: mustGeom(t, "LINESTRING(10 -1,10 5)")},
	}

	blocks, report, err := Blocks(&BlocksConfig{}, cells, streets, buildings)
	require.NoError(t, err)

	// the street dead-ends inside the row, the fragments stay connected
	// above it
	require.Len(t, blocks, 1)
	assert.Equal(t, 1, report.Blocks)
	assert.Equal(t, 1, buildings[0].BlockID)
	assert.Equal(t, 1, buildings[1].BlockID)
	assert.Empty(t, report.Unattached)
}

func TestBlocksNoStreets(t *testing.T) {
	cells, buildings := twoCellRow(t)

	blocks, _, err := Blocks(&BlocksConfig{}, cells, nil, buildings)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, 1, buildings[0].BlockID)
	assert.Equal(t, 1, buildings[1].BlockID)
}

func TestBlocksCellConsumedByStreetBuffer(t *testing.T) {
	cells := []*Cell{
		{ID: 1, Geom: mustGeom(t, squareWKT(0, 0, 10))},
		// a sliver narrower than the street buffer
		{ID: 2, Geom: mustGeom(t, "POLYGON((10 0,10.05 0,10.05 10,10 10,10 0))")},
	}
	buildings := []*Building{square(t, 1, 4, 4, 2)}
	streets := []*Street{
		{ID: 1, Geom: mustGeom(t, "LINESTRING(10 -1,10 11)")},
	}

	blocks, report, err := Blocks(&BlocksConfig{StreetBuffer: 1}, cells, streets, buildings)
	require.NoError(t, err)

	// the swallowed sliver is reported, never minted as an empty block
	require.Len(t, blocks, 1)
	assert.Equal(t, 1, report.Blocks)
	assert.Equal(t, []int{2}, report.Consumed)
	for _, b := range blocks {
		assert.False(t, b.Geom.IsEmpty())
	}

	assert.Equal(t, 1, buildings[0].BlockID)
	assert.Equal(t, 1, cells[0].BlockID)
	assert.Equal(t, 0, cells[1].BlockID)
}

func TestBlocksInputOrderDoesNotChangeGrouping(t *testing.T) {
	cells, buildings := twoCellRow(t)
	streets := []*Street{
		{ID: 1, Geom: mustGeom(t, "LINESTRING(10 -1,10 11)")},
	}

	// reversed inputs must yield the same partition, only numbering may
	// differ
	reversedCells := []*Cell{cells[1], cells[0]}
	blocks, report, err := Blocks(&BlocksConfig{}, reversedCells, streets, buildings)
	require.NoError(t, err)

	assert.Len(t, blocks, 2)
	assert.Equal(t, 2, report.Blocks)
	assert.NotEqual(t, buildings[0].BlockID, buildings[1].BlockID)
	assert.NotZero(t, buildings[0].BlockID)
	assert.NotZero(t, buildings[1].BlockID)
}

func TestBlockIDsAreSequential(t *testing.T) {
	cells, buildings := twoCellRow(t)
	streets := []*Street{
		{ID: 1, Geom: mustGeom(t, "LINESTRING(10 -1,10 11)")},
	}

	blocks, _, err := Blocks(&BlocksConfig{}, cells, streets, buildings)
	require.NoError(t, err)
	for i, b := range blocks {
		assert.Equal(t, i+1, b.ID)
	}
}
