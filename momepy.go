// Package momepy derives spatial units of urban form from building
// footprints and a street network: a morphological tessellation that
// splits the study area into one cell per building, a snapping pass that
// closes small gaps in the street network, and street bounded blocks
// assembled from the tessellation.
//
// All geometry is planar and expressed in a projected coordinate system,
// distances and tolerances are in its linear unit. Geometries are GEOS
// backed, callers own what they pass in and what they get back.
//
// Nb. nothing here is safe for concurrent mutation, run each pipeline
// stage to completion before starting the next.
package momepy

import (
	geos "github.com/twpayne/go-geos"
)

// BufferedLimit builds a study area limit by dilating every footprint and
// dissolving the result. A quick stand-in when no administrative boundary
// is at hand - cells near the fringe will follow the buffer outline rather
// than any meaningful edge.
func BufferedLimit(buildings []*Building, buffer float64) (*geos.Geom, error) {
	if len(buildings) == 0 {
		return nil, ErrNoFootprints
	}

	dilated := make([]*geos.Geom, len(buildings))
	for i, b := range buildings {
		dilated[i] = b.Geom.Buffer(buffer, bufferSegments)
	}
	limit := unionAll(dilated)
	for _, g := range dilated {
		g.Destroy()
	}
	return limit, nil
}
