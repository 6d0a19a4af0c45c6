package gtif

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espa-tools/espa-formatter/internal/espa"
)

func TestDeg2DMSPacking(t *testing.T) {
	// -121.5 degrees is -121 deg 30 min 0 sec.
	assert.InDelta(t, -121030000.0, deg2DMS(-121.5), 1e-6)
	assert.InDelta(t, 45000000.0, deg2DMS(45.0), 1e-6)
	assert.InDelta(t, 0.0, deg2DMS(0.0), 1e-9)
}

func TestDMSRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 45.0, -121.5, 70.716667, -179.999, 29.03} {
		assert.InDelta(t, deg, dms2Deg(deg2DMS(deg)), 1e-9)
	}
}

func TestProj4Geographic(t *testing.T) {
	pp, err := newProjParams(&espa.ProjInfo{Type: espa.ProjGeographic})
	require.NoError(t, err)
	assert.Equal(t, "+proj=longlat +datum=WGS84 +no_defs", pp.proj4())
}

func TestProj4UTM(t *testing.T) {
	pp, err := newProjParams(&espa.ProjInfo{Type: espa.ProjUTM, UTMZone: 11})
	require.NoError(t, err)
	assert.Equal(t, "+proj=utm +zone=11 +datum=WGS84 +units=m +no_defs", pp.proj4())

	pp, err = newProjParams(&espa.ProjInfo{Type: espa.ProjUTM, UTMZone: -23})
	require.NoError(t, err)
	assert.Equal(t, "+proj=utm +zone=23 +south +datum=WGS84 +units=m +no_defs", pp.proj4())
}

func TestProj4PolarStereographic(t *testing.T) {
	pp, err := newProjParams(&espa.ProjInfo{
		Type:              espa.ProjPS,
		LongitudePole:     0,
		LatitudeTrueScale: -71,
		FalseEasting:      0,
		FalseNorthing:     0,
	})
	require.NoError(t, err)
	s := pp.proj4()
	assert.Contains(t, s, "+proj=stere")
	// Southern true-scale latitude puts the projection origin at the
	// south pole.
	assert.Contains(t, s, "+lat_0=-90")
	assert.Contains(t, s, "+lat_ts=-71")
}

func TestProj4Albers(t *testing.T) {
	pp, err := newProjParams(&espa.ProjInfo{
		Type:              espa.ProjAlbers,
		StandardParallel1: 29.5,
		StandardParallel2: 45.5,
		CentralMeridian:   -96,
		OriginLatitude:    23,
		FalseEasting:      0,
		FalseNorthing:     0,
	})
	require.NoError(t, err)
	s := pp.proj4()
	assert.Contains(t, s, "+proj=aea")
	assert.Contains(t, s, "+lat_1=29.5")
	assert.Contains(t, s, "+lat_2=45.5")
	assert.Contains(t, s, "+lat_0=23")
	assert.Contains(t, s, "+lon_0=-96")
}

func TestNewProjParamsUnsupported(t *testing.T) {
	_, err := newProjParams(&espa.ProjInfo{Type: espa.ProjectionType(99)})
	require.Error(t, err)
	assert.ErrorIs(t, err, espa.ErrValidation)
}

func TestSelectStrategy(t *testing.T) {
	g := &espa.Global{}
	g.Projection.Datum = "WGS84"
	assert.Equal(t, Native, SelectStrategy(g))

	g.Projection.Datum = "NAD83"
	assert.Equal(t, Fallback, SelectStrategy(g))

	g.Projection.Datum = ""
	assert.Equal(t, Fallback, SelectStrategy(g))
}

func TestBandOutputName(t *testing.T) {
	assert.Equal(t, "scene_b1.tif", BandOutputName("scene", "b1"))
	assert.Equal(t, "/out/scene_bqa_pixel.tif", BandOutputName("/out/scene", "bqa_pixel"))
	// Blank spaces in the band portion become underscores.
	assert.Equal(t, "scene_sr_band_1.tif", BandOutputName("scene", "sr band 1"))
}

func TestFallbackArgs(t *testing.T) {
	b := espa.NewBand()
	b.FillValue = 0
	args := fallbackArgs("in.img", "out.tif", &b)
	assert.Equal(t, []string{"-of", "GTiff", "-a_nodata", "0", "-co", "TFW=YES", "-q", "in.img", "out.tif"}, args)
}

func TestFallbackArgsNoFillValue(t *testing.T) {
	b := espa.NewBand()
	args := fallbackArgs("in.img", "out.tif", &b)
	assert.Equal(t, []string{"-of", "GTiff", "-co", "TFW=YES", "-q", "in.img", "out.tif"}, args)
}

func TestGodalDataType(t *testing.T) {
	for _, dt := range []espa.DataType{espa.UInt8, espa.Int16, espa.UInt16} {
		_, err := godalDataType(dt)
		assert.NoError(t, err, string(dt))
	}
	_, err := godalDataType(espa.Float64)
	require.Error(t, err)
	assert.ErrorIs(t, err, espa.ErrValidation)
}
