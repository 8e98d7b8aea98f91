package voronoi

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTwoSites(t *testing.T) {
	b := NewBuilder()
	b.AddSite(0, 0, 1)
	b.AddSite(10, 0, 2)
	require.Equal(t, 2, b.SiteCount())

	regions := b.Compute()
	require.Len(t, regions, 2)

	byOwner := map[int]Region{}
	for _, r := range regions {
		byOwner[r.Owner] = r
	}
	require.Contains(t, byOwner, 1)
	require.Contains(t, byOwner, 2)

	// the dividing edge is the perpendicular bisector at x = 5
	for _, p := range byOwner[1].Ring {
		assert.LessOrEqual(t, p.X, 5.0+1e-6)
	}
	for _, p := range byOwner[2].Ring {
		assert.GreaterOrEqual(t, p.X, 5.0-1e-6)
	}
}

func TestCoincidentSitesKeepFirstOwner(t *testing.T) {
	b := NewBuilder()
	b.AddSite(0, 0, 1)
	b.AddSite(0, 0, 2)
	assert.Equal(t, 1, b.SiteCount())

	b.AddSite(10, 10, 3)
	regions := b.Compute()
	owners := map[int]bool{}
	for _, r := range regions {
		owners[r.Owner] = true
	}
	assert.True(t, owners[1])
	assert.False(t, owners[2])
}

func TestRegionPerimeter(t *testing.T) {
	r := Region{Ring: []r2.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}}}
	assert.InDelta(t, 12.0, r.Perimeter(), 1e-9)
}

func TestComputeEmptyPanics(t *testing.T) {
	assert.Panics(t, func() { NewBuilder().Compute() })
}
