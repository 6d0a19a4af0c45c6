package raster

import (
	"fmt"

	"github.com/airbusgeo/godal"
	"github.com/espa-tools/espa-formatter/internal/espa"
)

// ConvertGTIFToImg converts one LPGS GeoTIFF band to the flat raw
// binary format and writes the band's ENVI header sidecar. The band
// metadata's file name already encodes the raw binary target.
//
// The TIFF is read a scanline at a time into one whole-image buffer,
// then written in a single operation. Only uint8, int16 and uint16
// sources are supported.
func ConvertGTIFToImg(gtifFile string, b *espa.Band, g *espa.Global) error {
	ds, err := godal.Open(gtifFile)
	if err != nil {
		return fmt.Errorf("%w: opening the LPGS GeoTIFF file %s: %v", espa.ErrIO, gtifFile, err)
	}
	defer ds.Close()

	bands := ds.Bands()
	if len(bands) == 0 {
		return fmt.Errorf("%w: no raster bands in %s", espa.ErrValidation, gtifFile)
	}
	src := bands[0]

	switch b.DataType {
	case espa.UInt8:
		buf := make([]uint8, b.NLines*b.NSamps)
		if err := readScanlines(src, gtifFile, buf, b.NLines, b.NSamps); err != nil {
			return err
		}
		if err := writeRawBinary(b.FileName, buf); err != nil {
			return err
		}
	case espa.Int16:
		buf := make([]int16, b.NLines*b.NSamps)
		if err := readScanlines(src, gtifFile, buf, b.NLines, b.NSamps); err != nil {
			return err
		}
		if err := writeRawBinary(b.FileName, buf); err != nil {
			return err
		}
	case espa.UInt16:
		buf := make([]uint16, b.NLines*b.NSamps)
		if err := readScanlines(src, gtifFile, buf, b.NLines, b.NSamps); err != nil {
			return err
		}
		if err := writeRawBinary(b.FileName, buf); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unsupported data type %s, currently only uint8, int16 and uint16 are supported",
			espa.ErrValidation, b.DataType)
	}

	hdr, err := NewEnviHeader(b, g)
	if err != nil {
		return err
	}
	return WriteEnviHdr(HdrPathFor(b.FileName), hdr)
}

// readScanlines fills a whole-image row-major buffer one line at a
// time. Reading line by line then writing the image at once is
// markedly faster than alternating single-line reads and writes.
func readScanlines[T uint8 | int16 | uint16](src godal.Band, path string, buf []T, nlines, nsamps int) error {
	for line := 0; line < nlines; line++ {
		row := buf[line*nsamps : (line+1)*nsamps]
		if err := src.Read(0, line, row, nsamps, 1); err != nil {
			return fmt.Errorf("%w: reading line %d from the TIFF file %s: %v", espa.ErrIO, line, path, err)
		}
	}
	return nil
}
