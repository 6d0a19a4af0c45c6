package gtif

import (
	"fmt"
	"math"

	"github.com/espa-tools/espa-formatter/internal/espa"
)

// GCTP projection parameter array indices used by the native path.
const (
	psLongitudePole    = 4
	psTrueScaleLat     = 5
	psFalseEasting     = 6
	psFalseNorthing    = 7
	aeaStdParallel1    = 2
	aeaStdParallel2    = 3
	aeaCentralMeridian = 4
	aeaOriginLatitude  = 5
	aeaFalseEasting    = 6
	aeaFalseNorthing   = 7
)

// deg2DMS converts a degree angle to the packed DMS encoding used in
// GCTP projection parameter blocks: sign * (DDDMMMSSS.SS...), i.e.
// degrees*1e6 + minutes*1e3 + seconds.
func deg2DMS(deg float64) float64 {
	sign := 1.0
	if deg < 0 {
		sign = -1.0
		deg = -deg
	}
	d := math.Floor(deg)
	rem := (deg - d) * 60.0
	m := math.Floor(rem)
	s := (rem - m) * 60.0
	return sign * (d*1e6 + m*1e3 + s)
}

// dms2Deg decodes a packed DMS angle back to degrees.
func dms2Deg(dms float64) float64 {
	sign := 1.0
	if dms < 0 {
		sign = -1.0
		dms = -dms
	}
	d := math.Floor(dms / 1e6)
	dms -= d * 1e6
	m := math.Floor(dms / 1e3)
	s := dms - m*1e3
	return sign * (d + m/60.0 + s/3600.0)
}

// projParams is the projection definition handed to the native GeoTIFF
// writer. Internal projection codes coincide with the GCTP numbering,
// and angular parameters are carried in packed DMS form.
type projParams struct {
	code   espa.ProjectionType
	zone   int
	params [15]float64
}

// newProjParams validates the product projection for the native path
// and converts its degree-valued parameters to the DMS block encoding.
func newProjParams(p *espa.ProjInfo) (*projParams, error) {
	pp := &projParams{code: p.Type, zone: p.UTMZone}
	switch p.Type {
	case espa.ProjGeographic, espa.ProjUTM:
		// No angular parameters.
	case espa.ProjPS:
		pp.params[psLongitudePole] = deg2DMS(p.LongitudePole)
		pp.params[psTrueScaleLat] = deg2DMS(p.LatitudeTrueScale)
		pp.params[psFalseEasting] = p.FalseEasting
		pp.params[psFalseNorthing] = p.FalseNorthing
	case espa.ProjAlbers:
		pp.params[aeaStdParallel1] = deg2DMS(p.StandardParallel1)
		pp.params[aeaStdParallel2] = deg2DMS(p.StandardParallel2)
		pp.params[aeaCentralMeridian] = deg2DMS(p.CentralMeridian)
		pp.params[aeaOriginLatitude] = deg2DMS(p.OriginLatitude)
		pp.params[aeaFalseEasting] = p.FalseEasting
		pp.params[aeaFalseNorthing] = p.FalseNorthing
	default:
		return nil, fmt.Errorf("%w: projection %d is not supported for GeoTIFF output, only Geographic, UTM, Albers and Polar Stereographic",
			espa.ErrValidation, p.Type)
	}
	return pp, nil
}

// proj4 composes the spatial reference definition for the native
// library from the parameter block.
func (pp *projParams) proj4() string {
	switch pp.code {
	case espa.ProjGeographic:
		return "+proj=longlat +datum=WGS84 +no_defs"
	case espa.ProjUTM:
		if pp.zone < 0 {
			return fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", -pp.zone)
		}
		return fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", pp.zone)
	case espa.ProjPS:
		latTS := dms2Deg(pp.params[psTrueScaleLat])
		lat0 := 90.0
		if latTS < 0 {
			lat0 = -90.0
		}
		return fmt.Sprintf("+proj=stere +lat_0=%g +lat_ts=%g +lon_0=%g +x_0=%g +y_0=%g +datum=WGS84 +units=m +no_defs",
			lat0, latTS, dms2Deg(pp.params[psLongitudePole]),
			pp.params[psFalseEasting], pp.params[psFalseNorthing])
	case espa.ProjAlbers:
		return fmt.Sprintf("+proj=aea +lat_1=%g +lat_2=%g +lat_0=%g +lon_0=%g +x_0=%g +y_0=%g +datum=WGS84 +units=m +no_defs",
			dms2Deg(pp.params[aeaStdParallel1]), dms2Deg(pp.params[aeaStdParallel2]),
			dms2Deg(pp.params[aeaOriginLatitude]), dms2Deg(pp.params[aeaCentralMeridian]),
			pp.params[aeaFalseEasting], pp.params[aeaFalseNorthing])
	}
	return ""
}
