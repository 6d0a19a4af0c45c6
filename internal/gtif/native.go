package gtif

import (
	"fmt"

	"github.com/airbusgeo/godal"
	"github.com/espa-tools/espa-formatter/internal/espa"
	"github.com/espa-tools/espa-formatter/internal/raster"
)

func godalDataType(dt espa.DataType) (godal.DataType, error) {
	switch dt {
	case espa.UInt8:
		return godal.Byte, nil
	case espa.Int16:
		return godal.Int16, nil
	case espa.UInt16:
		return godal.UInt16, nil
	}
	return godal.Unknown, fmt.Errorf("%w: unsupported data type %s for GeoTIFF output", espa.ErrValidation, dt)
}

// convertNative copies one raw binary band into a new GeoTIFF with an
// embedded georeference, using the native raster library. The product
// datum must be WGS84 and the grid origin CENTER.
func convertNative(imgFile string, b *espa.Band, g *espa.Global, gtifFile string) error {
	if g.Projection.GridOrigin != "CENTER" {
		return fmt.Errorf("%w: grid origin %q not supported, expecting CENTER", espa.ErrValidation, g.Projection.GridOrigin)
	}
	pp, err := newProjParams(&g.Projection)
	if err != nil {
		return err
	}
	dtype, err := godalDataType(b.DataType)
	if err != nil {
		return err
	}

	buf, err := raster.ReadRawBinary(imgFile, b.DataType, b.NLines, b.NSamps)
	if err != nil {
		return err
	}

	ds, err := godal.Create(godal.GTiff, gtifFile, 1, dtype, b.NSamps, b.NLines)
	if err != nil {
		return fmt.Errorf("%w: creating the GeoTIFF file %s: %v", espa.ErrIO, gtifFile, err)
	}
	defer ds.Close()

	sr, err := godal.NewSpatialRefFromProj4(pp.proj4())
	if err != nil {
		return fmt.Errorf("%w: building the spatial reference for %s: %v", espa.ErrValidation, gtifFile, err)
	}
	defer sr.Close()
	if err := ds.SetSpatialRef(sr); err != nil {
		return fmt.Errorf("%w: setting the spatial reference on %s: %v", espa.ErrIO, gtifFile, err)
	}

	// Corner coordinates reference pixel centers; the geotransform
	// wants the outer edge of the UL pixel.
	ulx := g.Projection.ULCorner[0] - b.PixelSize[0]/2.0
	uly := g.Projection.ULCorner[1] + b.PixelSize[1]/2.0
	gt := [6]float64{ulx, b.PixelSize[0], 0, uly, 0, -b.PixelSize[1]}
	if err := ds.SetGeoTransform(gt); err != nil {
		return fmt.Errorf("%w: setting the geotransform on %s: %v", espa.ErrIO, gtifFile, err)
	}

	band := ds.Bands()[0]
	if b.FillValue != espa.IntMetaFill {
		if err := band.SetNoData(float64(b.FillValue)); err != nil {
			return fmt.Errorf("%w: setting the nodata value on %s: %v", espa.ErrIO, gtifFile, err)
		}
	}
	if err := band.Write(0, 0, buf, b.NSamps, b.NLines); err != nil {
		return fmt.Errorf("%w: writing image data to %s: %v", espa.ErrIO, gtifFile, err)
	}
	if err := ds.Close(); err != nil {
		return fmt.Errorf("%w: closing the GeoTIFF file %s: %v", espa.ErrIO, gtifFile, err)
	}
	return nil
}
