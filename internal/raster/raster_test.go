package raster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espa-tools/espa-formatter/internal/espa"
)

func TestHdrPathFor(t *testing.T) {
	assert.Equal(t, "scene_b1.hdr", HdrPathFor("scene_b1.img"))
	assert.Equal(t, "/out/scene_b4.hdr", HdrPathFor("/out/scene_b4.img"))
}

func TestRawBinaryRoundTrip(t *testing.T) {
	dir := t.TempDir()

	t.Run("uint8", func(t *testing.T) {
		path := filepath.Join(dir, "u8.img")
		want := []uint8{0, 1, 127, 255, 12, 42}
		require.NoError(t, writeRawBinary(path, want))

		got, err := ReadRawBinary(path, espa.UInt8, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("int16", func(t *testing.T) {
		path := filepath.Join(dir, "i16.img")
		want := []int16{-3333, 0, 1, -1, 32767, -32768}
		require.NoError(t, writeRawBinary(path, want))

		got, err := ReadRawBinary(path, espa.Int16, 3, 2)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("uint16", func(t *testing.T) {
		path := filepath.Join(dir, "u16.img")
		want := []uint16{0, 1, 65535, 21824, 42, 7}
		require.NoError(t, writeRawBinary(path, want))

		got, err := ReadRawBinary(path, espa.UInt16, 1, 6)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestRawBinaryLittleEndianLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.img")
	require.NoError(t, writeRawBinary(path, []uint16{0x0102}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x01}, data)
}

func TestReadRawBinaryUnsupportedType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f32.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 16), 0o644))

	_, err := ReadRawBinary(path, espa.Float32, 2, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, espa.ErrValidation)
}

func TestReadRawBinaryTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 3), 0o644))

	_, err := ReadRawBinary(path, espa.UInt16, 2, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, espa.ErrIO)
}

func testBandAndGlobal() (*espa.Band, *espa.Global) {
	b := espa.NewBand()
	b.Name = "b1"
	b.ShortName = "LC08DN"
	b.DataType = espa.UInt16
	b.NLines = 100
	b.NSamps = 200
	b.PixelSize = [2]float64{30, 30}

	g := &espa.Global{}
	g.Projection.Type = espa.ProjUTM
	g.Projection.Datum = "WGS84"
	g.Projection.UTMZone = 11
	g.Projection.GridOrigin = "CENTER"
	g.Projection.ULCorner = [2]float64{609600.0, 4265100.0}
	return &b, g
}

func TestNewEnviHeaderUTM(t *testing.T) {
	b, g := testBandAndGlobal()

	hdr, err := NewEnviHeader(b, g)
	require.NoError(t, err)

	assert.Equal(t, 200, hdr.Samples)
	assert.Equal(t, 100, hdr.Lines)
	assert.Equal(t, 12, hdr.DataType)
	// Corner coords are pixel centers, the header wants the outer edge.
	assert.Contains(t, hdr.MapInfo, "609585.000000")
	assert.Contains(t, hdr.MapInfo, "4265115.000000")
	assert.Contains(t, hdr.MapInfo, "11, North")
	assert.Contains(t, hdr.MapInfo, "UTM")
}

func TestNewEnviHeaderSouthernZone(t *testing.T) {
	b, g := testBandAndGlobal()
	g.Projection.UTMZone = -23

	hdr, err := NewEnviHeader(b, g)
	require.NoError(t, err)
	assert.Contains(t, hdr.MapInfo, "23, South")
}

func TestNewEnviHeaderGeographic(t *testing.T) {
	b, g := testBandAndGlobal()
	g.Projection.Type = espa.ProjGeographic
	g.Projection.GridOrigin = "UL"

	hdr, err := NewEnviHeader(b, g)
	require.NoError(t, err)
	assert.Contains(t, hdr.MapInfo, "Geographic Lat/Lon")
	// No half-pixel shift when the grid origin is already the corner.
	assert.Contains(t, hdr.MapInfo, "609600.000000")
}

func TestNewEnviHeaderUnsupportedDataType(t *testing.T) {
	b, g := testBandAndGlobal()
	b.DataType = espa.DataType("STRING")

	_, err := NewEnviHeader(b, g)
	require.Error(t, err)
	assert.ErrorIs(t, err, espa.ErrValidation)
}

func TestWriteEnviHdr(t *testing.T) {
	b, g := testBandAndGlobal()
	hdr, err := NewEnviHeader(b, g)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "b1.hdr")
	require.NoError(t, WriteEnviHdr(path, hdr))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, len(content) > 0)
	assert.Contains(t, content, "ENVI\n")
	assert.Contains(t, content, "samples = 200\n")
	assert.Contains(t, content, "lines = 100\n")
	assert.Contains(t, content, "bands = 1\n")
	assert.Contains(t, content, "data type = 12\n")
	assert.Contains(t, content, "interleave = bsq\n")
	assert.Contains(t, content, "byte order = 0\n")
	assert.Contains(t, content, "map info = {UTM")
}

func TestEnviDataTypeCodes(t *testing.T) {
	for dt, want := range map[espa.DataType]int{
		espa.UInt8:   1,
		espa.Int16:   2,
		espa.Int32:   3,
		espa.Float32: 4,
		espa.Float64: 5,
		espa.UInt16:  12,
		espa.UInt32:  13,
	} {
		got, err := enviDataType(dt)
		require.NoError(t, err)
		assert.Equal(t, want, got, string(dt))
	}
}
