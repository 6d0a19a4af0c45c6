package convert

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/espa-tools/espa-formatter/internal/espa"
	"github.com/espa-tools/espa-formatter/internal/mtl"
	"github.com/espa-tools/espa-formatter/internal/raster"
)

// LPGSToESPA converts an LPGS level-1 product to the internal raw
// binary format: the MTL file is parsed into the metadata model, the
// model is serialized and validated as xmlFile, then every vendor
// GeoTIFF band is transcoded to a flat .img raster with an ENVI header
// sidecar. With srSTOnly the band sequence is first reduced to the
// bands surface reflectance and temperature processing consume. With
// delSrc each vendor raster is deleted once handled, skipped or not.
func LPGSToESPA(mtlFile, xmlFile string, delSrc, srSTOnly bool) error {
	meta, vendorFiles, err := mtl.ReadMTL(mtlFile)
	if err != nil {
		return err
	}

	// skip runs in vendor order; before subsetting the band sequence
	// aligns 1:1 with the vendor file list.
	skip := make([]bool, len(vendorFiles))
	if srSTOnly {
		subsetBands(meta, skip)
	}

	if err := espa.WriteMetadata(meta, xmlFile); err != nil {
		return err
	}
	if err := espa.ValidateMetadataFile(xmlFile); err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(vendorFiles)), "Converting bands")
	out := 0
	for i, vendorFile := range vendorFiles {
		if !skip[i] {
			b := &meta.Bands[out]
			fmt.Printf("  Band %d: %s to %s\n", out+1, vendorFile, b.FileName)
			if err := raster.ConvertGTIFToImg(vendorFile, b, &meta.Global); err != nil {
				return err
			}
			out++
		}
		if delSrc {
			fmt.Printf("  Removing %s\n", vendorFile)
			if err := os.Remove(vendorFile); err != nil {
				return fmt.Errorf("%w: deleting source file %s: %v", espa.ErrIO, vendorFile, err)
			}
		}
		bar.Add(1)
	}
	return nil
}

// subsetBands builds a new band sequence without the excluded bands and
// flags their vendor indices so the transcoding loop passes them over.
// The vendor file list itself stays fully indexed.
func subsetBands(m *espa.Metadata, skip []bool) {
	kept := make([]espa.Band, 0, len(m.Bands))
	for i := range m.Bands {
		if mtl.SubsetExcluded(m.Bands[i].Name) {
			skip[i] = true
			continue
		}
		kept = append(kept, m.Bands[i])
	}
	m.Bands = kept
}
