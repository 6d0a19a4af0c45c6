package inventory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espa-tools/espa-formatter/internal/espa"
)

func writeTestMetadata(t *testing.T) string {
	t.Helper()
	m := espa.NewMetadata()
	m.Global.Satellite = "LANDSAT_8"
	m.Global.Instrument = "OLI_TIRS"
	m.Global.ProductID = "LC08_L1TP_042034_20240815_20240822_02_T1"
	m.Global.Projection.Type = espa.ProjUTM
	m.Global.Projection.Datum = "WGS84"
	m.Global.Projection.UTMZone = 11

	for _, name := range []string{"b1", "b4"} {
		b := espa.NewBand()
		b.Name = name
		b.Category = "image"
		b.DataType = espa.UInt16
		b.NLines = 100
		b.NSamps = 200
		b.PixelSize = [2]float64{30, 30}
		b.FillValue = 0
		b.ShortName = "LC08DN"
		b.FileName = m.Global.ProductID + "_" + name + ".img"
		m.Bands = append(m.Bands, b)
	}

	path := filepath.Join(t.TempDir(), "product.xml")
	require.NoError(t, espa.WriteMetadata(m, path))
	return path
}

func TestWriteCSV(t *testing.T) {
	xmlFile := writeTestMetadata(t)
	csvFile := filepath.Join(t.TempDir(), "bands.csv")

	require.NoError(t, WriteCSV(xmlFile, csvFile))

	data, err := os.ReadFile(csvFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "product_id")
	assert.Contains(t, lines[0], "name")
	assert.Contains(t, lines[0], "file_name")
	assert.Contains(t, lines[1], "b1")
	assert.Contains(t, lines[1], "UINT16")
	assert.Contains(t, lines[2], "b4")
}

func TestWriteCSVInvalidMetadata(t *testing.T) {
	xmlFile := filepath.Join(t.TempDir(), "broken.xml")
	require.NoError(t, os.WriteFile(xmlFile, []byte("<espa_metadata"), 0o644))

	err := WriteCSV(xmlFile, filepath.Join(t.TempDir(), "bands.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, espa.ErrValidation)
}
