package momepy

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	geos "github.com/twpayne/go-geos"
)

func mustGeom(t *testing.T, wkt string) *geos.Geom {
	t.Helper()
	g, err := geos.NewGeomFromWKT(wkt)
	require.NoError(t, err)
	return g
}

func squareWKT(minX, minY, side float64) string {
	return fmt.Sprintf("POLYGON((%[1]f %[2]f,%[3]f %[2]f,%[3]f %[4]f,%[1]f %[4]f,%[1]f %[2]f))",
		minX, minY, minX+side, minY+side)
}

func square(t *testing.T, id int, minX, minY, side float64) *Building {
	t.Helper()
	return &Building{ID: id, Geom: mustGeom(t, squareWKT(minX, minY, side))}
}

func TestBufferedLimit(t *testing.T) {
	buildings := []*Building{
		square(t, 1, 0, 0, 10),
		square(t, 2, 100, 0, 10),
	}

	limit, err := BufferedLimit(buildings, 1)
	require.NoError(t, err)
	assert.Equal(t, geos.TypeIDMultiPolygon, limit.TypeID())

	// a buffer wide enough to bridge the gap dissolves into one polygon
	limit, err = BufferedLimit(buildings, 50)
	require.NoError(t, err)
	assert.Equal(t, geos.TypeIDPolygon, limit.TypeID())
}

func TestBufferedLimitNoFootprints(t *testing.T) {
	_, err := BufferedLimit(nil, 10)
	assert.ErrorIs(t, err, ErrNoFootprints)
}

func TestDebugRender(t *testing.T) {
	cells := []*Cell{{ID: 1, Geom: mustGeom(t, squareWKT(0, 0, 10))}}
	streets := []*Street{{ID: 1, Geom: mustGeom(t, "LINESTRING(0 5,10 5)")}}
	blocks := []*Block{{ID: 1, Geom: mustGeom(t, squareWKT(0, 0, 5))}}

	fpath := filepath.Join(t.TempDir(), "debug.png")
	require.NoError(t, DebugRender(fpath, cells, streets, blocks))

	info, err := os.Stat(fpath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestDebugRenderNothing(t *testing.T) {
	assert.Error(t, DebugRender(filepath.Join(t.TempDir(), "x.png"), nil, nil, nil))
}
