package gtif

import (
	"fmt"
	"os"
	"strings"

	"github.com/espa-tools/espa-formatter/internal/espa"
	"github.com/espa-tools/espa-formatter/internal/raster"
)

// Strategy selects how raw binary bands are converted to GeoTIFF. It
// is chosen once per product, before the band loop.
type Strategy int

const (
	// Native uses the raster library directly and embeds the
	// georeference in the GeoTIFF.
	Native Strategy = iota
	// Fallback shells out to gdal_translate and produces a world file
	// next to the GeoTIFF.
	Fallback
)

// SelectStrategy picks the conversion strategy for a product by its
// datum: the native path only handles WGS84.
func SelectStrategy(g *espa.Global) Strategy {
	if g.Projection.Datum == "WGS84" {
		return Native
	}
	return Fallback
}

// BandOutputName composes the output GeoTIFF name for one band,
// replacing any blank spaces in the band portion with underscores.
func BandOutputName(base, bandName string) string {
	return fmt.Sprintf("%s_%s.tif", base, strings.ReplaceAll(bandName, " ", "_"))
}

// ConvertBand converts one band from raw binary to GeoTIFF using the
// selected strategy.
func ConvertBand(strategy Strategy, imgFile string, b *espa.Band, g *espa.Global, gtifFile string) error {
	switch strategy {
	case Native:
		return convertNative(imgFile, b, g, gtifFile)
	case Fallback:
		return convertFallback(imgFile, b, gtifFile)
	}
	return fmt.Errorf("%w: unknown conversion strategy %d", espa.ErrValidation, strategy)
}

// RemoveSource deletes a band's raw binary raster and its companion
// ENVI header. Unlike the aux side file these are expected to exist;
// failure to remove either indicates a prior inconsistency and is a
// hard error.
func RemoveSource(imgFile string) error {
	fmt.Printf("  Removing %s\n", imgFile)
	if err := os.Remove(imgFile); err != nil {
		return fmt.Errorf("%w: deleting source file %s: %v", espa.ErrIO, imgFile, err)
	}
	hdrFile := raster.HdrPathFor(imgFile)
	fmt.Printf("  Removing %s\n", hdrFile)
	if err := os.Remove(hdrFile); err != nil {
		return fmt.Errorf("%w: deleting source file %s: %v", espa.ErrIO, hdrFile, err)
	}
	return nil
}
