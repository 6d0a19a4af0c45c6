package gtif

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/espa-tools/espa-formatter/internal/espa"
	"github.com/espa-tools/espa-formatter/internal/properties"
)

// fallbackArgs builds the gdal_translate argument list for one band.
// The nodata flag is only passed when the band declares a fill value.
func fallbackArgs(imgFile, gtifFile string, b *espa.Band) []string {
	args := []string{"-of", "GTiff"}
	if b.FillValue != espa.IntMetaFill {
		args = append(args, "-a_nodata", strconv.FormatInt(b.FillValue, 10))
	}
	args = append(args, "-co", "TFW=YES", "-q", imgFile, gtifFile)
	return args
}

// convertFallback shells out to gdal_translate to convert one raw
// binary band (ENVI format) to GeoTIFF with an ESRI world file. Used
// when the product datum rules out the native path.
func convertFallback(imgFile string, b *espa.Band, gtifFile string) error {
	cmd := exec.Command(properties.GdalTranslatePath(), fallbackArgs(imgFile, gtifFile, b)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: running %s: %v", espa.ErrSubprocess, cmd.String(), err)
	}

	// The tool leaves a {name}.tif.aux.xml side file that just
	// clutters the results. Its removal is best-effort.
	os.Remove(gtifFile + ".aux.xml")
	return nil
}
