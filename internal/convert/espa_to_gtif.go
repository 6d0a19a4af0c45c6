package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/espa-tools/espa-formatter/internal/espa"
	"github.com/espa-tools/espa-formatter/internal/gtif"
)

// ESPAToGTIF converts an internal-format product to per-band GeoTIFF
// files named <gtifBase>_<band>.tif. The conversion strategy is picked
// once for the whole product from its datum. With delSrc each source
// raster pair is deleted after its band converts, and the source
// metadata file itself is deleted once every band succeeded. A fresh
// metadata file <gtifBase>_gtif.xml referencing the GeoTIFF outputs is
// written last; nothing is serialized if any band fails.
func ESPAToGTIF(xmlFile, gtifBase string, delSrc bool) error {
	if err := espa.ValidateMetadataFile(xmlFile); err != nil {
		return err
	}
	meta, err := espa.ParseMetadata(xmlFile)
	if err != nil {
		return err
	}

	sourceDir := ""
	if strings.ContainsAny(xmlFile, `/\`) {
		sourceDir = filepath.Dir(xmlFile)
	}

	strategy := gtif.SelectStrategy(&meta.Global)

	bar := progressbar.Default(int64(len(meta.Bands)), "Converting bands")
	for i := range meta.Bands {
		b := &meta.Bands[i]
		imgFile := b.FileName
		if sourceDir != "" {
			imgFile = filepath.Join(sourceDir, b.FileName)
		}
		gtifFile := gtif.BandOutputName(gtifBase, b.Name)

		fmt.Printf("  Band %d: %s to %s\n", i+1, imgFile, gtifFile)
		if err := gtif.ConvertBand(strategy, imgFile, b, &meta.Global, gtifFile); err != nil {
			return err
		}
		if delSrc {
			if err := gtif.RemoveSource(imgFile); err != nil {
				return err
			}
		}
		b.FileName = gtifFile
		bar.Add(1)
	}

	if delSrc {
		fmt.Printf("  Removing %s\n", xmlFile)
		if err := os.Remove(xmlFile); err != nil {
			return fmt.Errorf("%w: deleting source file %s: %v", espa.ErrIO, xmlFile, err)
		}
	}

	outXML := gtifBase + "_gtif.xml"
	if err := espa.WriteMetadata(meta, outXML); err != nil {
		return err
	}
	return nil
}
