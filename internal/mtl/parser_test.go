package mtl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espa-tools/espa-formatter/internal/espa"
)

const testProductID = "LC08_L1TP_042034_20240815_20240822_02_T1"

// utmSceneMTL is a trimmed Collection 2 MTL with two reflective bands
// and the pixel quality band.
const utmSceneMTL = `GROUP = LANDSAT_METADATA_FILE
  GROUP = PRODUCT_CONTENTS
    LANDSAT_PRODUCT_ID = "LC08_L1TP_042034_20240815_20240822_02_T1"
    PROCESSING_LEVEL = "L1TP"
    FILE_NAME_BAND_1 = "LC08_L1TP_042034_20240815_20240822_02_T1_B1.TIF"
    FILE_NAME_BAND_4 = "LC08_L1TP_042034_20240815_20240822_02_T1_B4.TIF"
    FILE_NAME_QUALITY_L1_PIXEL = "LC08_L1TP_042034_20240815_20240822_02_T1_QA_PIXEL.TIF"
    FILE_NAME_METADATA_ODL = "LC08_L1TP_042034_20240815_20240822_02_T1_MTL.txt"
    DATA_TYPE_BAND_1 = "UINT16"
    DATA_TYPE_BAND_4 = "UINT16"
    DATA_TYPE_QUALITY_L1_PIXEL = "UINT16"
  END_GROUP = PRODUCT_CONTENTS
  GROUP = IMAGE_ATTRIBUTES
    SPACECRAFT_ID = "LANDSAT_8"
    SENSOR_ID = "OLI_TIRS"
    WRS_PATH = 42
    WRS_ROW = 34
    DATE_ACQUIRED = 2024-08-15
    SCENE_CENTER_TIME = "18:23:15.3551880Z"
    SUN_AZIMUTH = 127.51275445
    SUN_ELEVATION = 60.23874109
    EARTH_SUN_DISTANCE = 1.0124480
  END_GROUP = IMAGE_ATTRIBUTES
  GROUP = PROJECTION_ATTRIBUTES
    MAP_PROJECTION = "UTM"
    DATUM = "WGS84"
    UTM_ZONE = 11
    GRID_CELL_SIZE_REFLECTIVE = 30.00
    REFLECTIVE_LINES = 7801
    REFLECTIVE_SAMPLES = 7671
    CORNER_UL_LAT_PRODUCT = 38.52844
    CORNER_UL_LON_PRODUCT = -120.74117
    CORNER_UR_LAT_PRODUCT = 38.50168
    CORNER_UR_LON_PRODUCT = -118.09147
    CORNER_LL_LAT_PRODUCT = 36.43803
    CORNER_LL_LON_PRODUCT = -120.68264
    CORNER_LR_LAT_PRODUCT = 36.41407
    CORNER_LR_LON_PRODUCT = -118.11419
    CORNER_UL_PROJECTION_X_PRODUCT = 609600.000
    CORNER_UL_PROJECTION_Y_PRODUCT = 4265100.000
    CORNER_LR_PROJECTION_X_PRODUCT = 839700.000
    CORNER_LR_PROJECTION_Y_PRODUCT = 4031100.000
  END_GROUP = PROJECTION_ATTRIBUTES
  GROUP = LEVEL1_PROCESSING_RECORD
    PROCESSING_SOFTWARE_VERSION = "LPGS_16.4.0"
    DATE_PRODUCT_GENERATED = 2024-08-22T14:52:11Z
  END_GROUP = LEVEL1_PROCESSING_RECORD
  GROUP = LEVEL1_PROJECTION_PARAMETERS
    RESAMPLING_OPTION = "CUBIC_CONVOLUTION"
  END_GROUP = LEVEL1_PROJECTION_PARAMETERS
  GROUP = LEVEL1_MIN_MAX_PIXEL_VALUE
    QUANTIZE_CAL_MAX_BAND_1 = 65535
    QUANTIZE_CAL_MIN_BAND_1 = 1
    QUANTIZE_CAL_MAX_BAND_4 = 65535
    QUANTIZE_CAL_MIN_BAND_4 = 1
  END_GROUP = LEVEL1_MIN_MAX_PIXEL_VALUE
  GROUP = LEVEL1_RADIOMETRIC_RESCALING
    RADIANCE_MULT_BAND_1 = 1.2246E-02
    RADIANCE_MULT_BAND_4 = 9.8252E-03
    RADIANCE_ADD_BAND_1 = -61.22889
    RADIANCE_ADD_BAND_4 = -49.12622
    REFLECTANCE_MULT_BAND_1 = 2.0000E-05
    REFLECTANCE_MULT_BAND_4 = 2.0000E-05
    REFLECTANCE_ADD_BAND_1 = -0.100000
    REFLECTANCE_ADD_BAND_4 = -0.100000
  END_GROUP = LEVEL1_RADIOMETRIC_RESCALING
END_GROUP = LANDSAT_METADATA_FILE
END
`

func writeMTL(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), testProductID+"_MTL.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadMTLUTMScene(t *testing.T) {
	mtlFile := writeMTL(t, utmSceneMTL)
	dir := filepath.Dir(mtlFile)

	meta, vendorFiles, err := ReadMTL(mtlFile)
	require.NoError(t, err)

	g := &meta.Global
	assert.Equal(t, "LANDSAT_8", g.Satellite)
	assert.Equal(t, "OLI_TIRS", g.Instrument)
	assert.Equal(t, testProductID, g.ProductID)
	assert.Equal(t, "2024-08-15", g.AcquisitionDate)
	assert.Equal(t, 42, g.WRSPath)
	assert.Equal(t, 34, g.WRSRow)
	assert.InDelta(t, 90.0-60.23874109, g.SolarZenith, 1e-9)
	assert.InDelta(t, 127.51275445, g.SolarAzimuth, 1e-9)

	// Defaults not present in the MTL file.
	assert.Equal(t, 2, g.WRSSystem)
	assert.Equal(t, "USGS/EROS", g.DataProvider)
	assert.Equal(t, "degrees", g.SolarUnits)
	assert.Equal(t, 0.0, g.OrientationAngle)
	assert.Equal(t, mtlFile, g.LPGSMetadataFile)

	p := &g.Projection
	assert.Equal(t, espa.ProjUTM, p.Type)
	assert.Equal(t, "WGS84", p.Datum)
	assert.Equal(t, 11, p.UTMZone)
	assert.Equal(t, "meters", p.Units)
	assert.Equal(t, "CENTER", p.GridOrigin)
	assert.Equal(t, [2]float64{609600.0, 4265100.0}, p.ULCorner)

	// Bounds are the min/max over all four geographic corners.
	assert.InDelta(t, -120.74117, g.BoundingCoords[espa.West], 1e-9)
	assert.InDelta(t, -118.09147, g.BoundingCoords[espa.East], 1e-9)
	assert.InDelta(t, 38.52844, g.BoundingCoords[espa.North], 1e-9)
	assert.InDelta(t, 36.41407, g.BoundingCoords[espa.South], 1e-9)

	require.Len(t, meta.Bands, 3)
	require.Len(t, vendorFiles, 3)
	assert.Equal(t, "b1", meta.Bands[0].Name)
	assert.Equal(t, "b4", meta.Bands[1].Name)
	assert.Equal(t, "bqa_pixel", meta.Bands[2].Name)

	assert.Equal(t, filepath.Join(dir, testProductID+"_B1.TIF"), vendorFiles[0])
	assert.Equal(t, filepath.Join(dir, testProductID+"_QA_PIXEL.TIF"), vendorFiles[2])

	b1 := &meta.Bands[0]
	assert.Equal(t, "image", b1.Category)
	assert.Equal(t, espa.UInt16, b1.DataType)
	assert.Equal(t, 7801, b1.NLines)
	assert.Equal(t, 7671, b1.NSamps)
	assert.Equal(t, [2]float64{30, 30}, b1.PixelSize)
	assert.Equal(t, [2]float64{1, 65535}, b1.ValidRange)
	assert.InDelta(t, 1.2246e-02, b1.RadGain, 1e-12)
	assert.InDelta(t, -61.22889, b1.RadBias, 1e-9)
	assert.InDelta(t, 2.0e-05, b1.ReflGain, 1e-12)
	assert.Equal(t, int64(0), b1.FillValue)
	assert.Equal(t, "LC08DN", b1.ShortName)
	assert.Equal(t, "band 1 digital numbers", b1.LongName)
	assert.Equal(t, "cubic convolution", b1.ResampleMethod)
	assert.Equal(t, "L1TP", b1.Product)
	assert.Equal(t, "LPGS_16.4.0", b1.AppVersion)
	assert.Equal(t, testProductID+"_b1.img", b1.FileName)

	qa := &meta.Bands[2]
	assert.Equal(t, "qa", qa.Category)
	assert.Equal(t, "LC08PQA", qa.ShortName)
	assert.Equal(t, "quality/feature classification", qa.DataUnits)
	assert.Equal(t, [2]float64{0, 65535}, qa.ValidRange)
	require.Len(t, qa.BitmapDescription, 16)
	assert.Contains(t, qa.BitmapDescription[0], "Data Fill Flag")
	assert.Equal(t, float64(espa.FloatMetaFill), qa.RadGain)

	// File names are unique and derived from product id + band name.
	seen := map[string]bool{}
	for i := range meta.Bands {
		name := meta.Bands[i].FileName
		assert.False(t, seen[name], "duplicate file name %s", name)
		assert.True(t, strings.HasPrefix(name, testProductID+"_"))
		seen[name] = true
	}
}

func TestReadMTLMissingSpacecraftID(t *testing.T) {
	content := strings.Replace(utmSceneMTL,
		"    SPACECRAFT_ID = \"LANDSAT_8\"\n", "", 1)
	mtlFile := writeMTL(t, content)

	_, _, err := ReadMTL(mtlFile)
	require.Error(t, err)
	assert.ErrorIs(t, err, espa.ErrValidation)
	assert.Contains(t, err.Error(), "SPACECRAFT_ID")
}

func TestReadMTLUnknownFileNamesAreSkipped(t *testing.T) {
	mtlFile := writeMTL(t, utmSceneMTL)

	meta, _, err := ReadMTL(mtlFile)
	require.NoError(t, err)
	// FILE_NAME_METADATA_ODL carries no raster and produces no band.
	assert.Len(t, meta.Bands, 3)
}

func TestReadMTLBadSensorForSatellite(t *testing.T) {
	content := strings.Replace(utmSceneMTL, `SENSOR_ID = "OLI_TIRS"`, `SENSOR_ID = "TM"`, 1)
	_, _, err := ReadMTL(writeMTL(t, content))
	require.Error(t, err)
	assert.ErrorIs(t, err, espa.ErrValidation)
}

func TestReadMTLUnsupportedDatum(t *testing.T) {
	content := strings.Replace(utmSceneMTL, `DATUM = "WGS84"`, `DATUM = "NAD83"`, 1)
	_, _, err := ReadMTL(writeMTL(t, content))
	require.Error(t, err)
	assert.ErrorIs(t, err, espa.ErrValidation)
	assert.Contains(t, err.Error(), "datum")
}

func TestReadMTLUnsupportedProjection(t *testing.T) {
	content := strings.Replace(utmSceneMTL, `MAP_PROJECTION = "UTM"`, `MAP_PROJECTION = "SOM"`, 1)
	_, _, err := ReadMTL(writeMTL(t, content))
	require.Error(t, err)
	assert.ErrorIs(t, err, espa.ErrValidation)
}

func TestReadMTLUnsupportedDataType(t *testing.T) {
	content := strings.Replace(utmSceneMTL, `DATA_TYPE_BAND_4 = "UINT16"`, `DATA_TYPE_BAND_4 = "STRING"`, 1)
	_, _, err := ReadMTL(writeMTL(t, content))
	require.Error(t, err)
	assert.ErrorIs(t, err, espa.ErrValidation)
}

func TestReadMTLMissingFile(t *testing.T) {
	_, _, err := ReadMTL(filepath.Join(t.TempDir(), "missing_MTL.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, espa.ErrIO)
}

func TestNormalizeSatellite(t *testing.T) {
	for in, want := range map[string]string{
		"LANDSAT_4": "LANDSAT_4",
		"Landsat5":  "LANDSAT_5",
		"LANDSAT_7": "LANDSAT_7",
		"Landsat8":  "LANDSAT_8",
		"LANDSAT_9": "LANDSAT_9",
	} {
		got, err := normalizeSatellite(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := normalizeSatellite("LANDSAT_3")
	require.Error(t, err)
	assert.ErrorIs(t, err, espa.ErrValidation)
}
