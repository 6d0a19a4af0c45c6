package mtl

import (
	"fmt"

	"github.com/espa-tools/espa-formatter/internal/espa"
	"github.com/paulmach/orb"
)

// computeBounds derives the geographic bounding box of a scene from
// its corner coordinates (lon, lat points).
func computeBounds(corners []orb.Point) ([4]float64, error) {
	var bounds [4]float64
	mp := orb.MultiPoint(corners)
	b := mp.Bound()
	if b.Min == b.Max {
		return bounds, fmt.Errorf("%w: scene corner coordinates are degenerate, cannot compute bounding box", espa.ErrValidation)
	}
	bounds[espa.West] = b.Min[0]
	bounds[espa.East] = b.Max[0]
	bounds[espa.North] = b.Max[1]
	bounds[espa.South] = b.Min[1]
	return bounds, nil
}
