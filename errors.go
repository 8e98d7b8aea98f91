package momepy

import (
	"fmt"
)

var (
	// ErrInvalidGeometryKind implies a geometry of the wrong kind turned up
	// where another was required, eg. a footprint whose boundary is not a
	// line. Fatal to the entity that produced it, not to the batch.
	ErrInvalidGeometryKind = fmt.Errorf("geometry kind is not valid for this operation")

	// ErrNoFootprints implies a tessellation was requested over an empty
	// building collection.
	ErrNoFootprints = fmt.Errorf("tessellation requires at least one footprint")

	// ErrNoLimit implies a tessellation was requested without a study area.
	ErrNoLimit = fmt.Errorf("tessellation requires a study area limit")
)
