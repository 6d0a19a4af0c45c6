package raster

import (
	"fmt"
	"os"
	"strings"

	"github.com/espa-tools/espa-formatter/internal/espa"
)

// EnviHeader holds the fields written to the ENVI .hdr sidecar of a
// raw binary raster.
type EnviHeader struct {
	Description string
	Samples     int
	Lines       int
	DataType    int
	MapInfo     string
}

// enviDataType maps the band data type to the ENVI data type code.
func enviDataType(dt espa.DataType) (int, error) {
	switch dt {
	case espa.UInt8:
		return 1, nil
	case espa.Int16:
		return 2, nil
	case espa.Int32:
		return 3, nil
	case espa.Float32:
		return 4, nil
	case espa.Float64:
		return 5, nil
	case espa.UInt16:
		return 12, nil
	case espa.UInt32:
		return 13, nil
	}
	return 0, fmt.Errorf("%w: no ENVI data type for %s", espa.ErrValidation, dt)
}

// NewEnviHeader builds the header struct for one band from the band
// and global metadata.
func NewEnviHeader(b *espa.Band, g *espa.Global) (*EnviHeader, error) {
	dtype, err := enviDataType(b.DataType)
	if err != nil {
		return nil, err
	}

	// The MTL corner coordinates reference the center of the pixel;
	// ENVI map info wants the outer edge of the UL pixel.
	ulx := g.Projection.ULCorner[0]
	uly := g.Projection.ULCorner[1]
	if g.Projection.GridOrigin == "CENTER" {
		ulx -= b.PixelSize[0] / 2.0
		uly += b.PixelSize[1] / 2.0
	}

	var mapInfo string
	switch g.Projection.Type {
	case espa.ProjUTM:
		hemisphere := "North"
		zone := g.Projection.UTMZone
		if zone < 0 {
			hemisphere = "South"
			zone = -zone
		}
		mapInfo = fmt.Sprintf("{UTM, 1.000, 1.000, %f, %f, %f, %f, %d, %s, WGS-84, units=Meters}",
			ulx, uly, b.PixelSize[0], b.PixelSize[1], zone, hemisphere)
	case espa.ProjGeographic:
		mapInfo = fmt.Sprintf("{Geographic Lat/Lon, 1.000, 1.000, %f, %f, %f, %f, WGS-84, units=Degrees}",
			ulx, uly, b.PixelSize[0], b.PixelSize[1])
	case espa.ProjPS:
		mapInfo = fmt.Sprintf("{Polar Stereographic, 1.000, 1.000, %f, %f, %f, %f, WGS-84, units=Meters}",
			ulx, uly, b.PixelSize[0], b.PixelSize[1])
	case espa.ProjAlbers:
		mapInfo = fmt.Sprintf("{Albers Conical Equal Area, 1.000, 1.000, %f, %f, %f, %f, WGS-84, units=Meters}",
			ulx, uly, b.PixelSize[0], b.PixelSize[1])
	default:
		return nil, fmt.Errorf("%w: unsupported projection for ENVI header", espa.ErrValidation)
	}

	return &EnviHeader{
		Description: fmt.Sprintf("%s band %s", b.ShortName, b.Name),
		Samples:     b.NSamps,
		Lines:       b.NLines,
		DataType:    dtype,
		MapInfo:     mapInfo,
	}, nil
}

// WriteEnviHdr writes the header to the given .hdr path.
func WriteEnviHdr(path string, hdr *EnviHeader) error {
	var sb strings.Builder
	sb.WriteString("ENVI\n")
	fmt.Fprintf(&sb, "description = {%s}\n", hdr.Description)
	fmt.Fprintf(&sb, "samples = %d\n", hdr.Samples)
	fmt.Fprintf(&sb, "lines = %d\n", hdr.Lines)
	sb.WriteString("bands = 1\n")
	sb.WriteString("header offset = 0\n")
	sb.WriteString("file type = ENVI Standard\n")
	fmt.Fprintf(&sb, "data type = %d\n", hdr.DataType)
	sb.WriteString("interleave = bsq\n")
	sb.WriteString("byte order = 0\n")
	fmt.Fprintf(&sb, "map info = %s\n", hdr.MapInfo)

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("%w: writing the ENVI header file %s: %v", espa.ErrIO, path, err)
	}
	return nil
}
