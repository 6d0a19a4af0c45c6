package inventory

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/espa-tools/espa-formatter/internal/espa"
)

// BandRow is one line of the band inventory export.
type BandRow struct {
	ProductID  string  `csv:"product_id"`
	Name       string  `csv:"name"`
	Category   string  `csv:"category"`
	DataType   string  `csv:"data_type"`
	NLines     int     `csv:"nlines"`
	NSamps     int     `csv:"nsamps"`
	PixelSizeX float64 `csv:"pixel_size_x"`
	PixelSizeY float64 `csv:"pixel_size_y"`
	FillValue  int64   `csv:"fill_value"`
	ShortName  string  `csv:"short_name"`
	FileName   string  `csv:"file_name"`
}

// WriteCSV exports the band inventory of a product metadata file as
// CSV, one row per band in band order.
func WriteCSV(xmlFile, csvFile string) error {
	if err := espa.ValidateMetadataFile(xmlFile); err != nil {
		return err
	}
	meta, err := espa.ParseMetadata(xmlFile)
	if err != nil {
		return err
	}

	rows := make([]BandRow, 0, len(meta.Bands))
	for i := range meta.Bands {
		b := &meta.Bands[i]
		rows = append(rows, BandRow{
			ProductID:  meta.Global.ProductID,
			Name:       b.Name,
			Category:   b.Category,
			DataType:   string(b.DataType),
			NLines:     b.NLines,
			NSamps:     b.NSamps,
			PixelSizeX: b.PixelSize[0],
			PixelSizeY: b.PixelSize[1],
			FillValue:  b.FillValue,
			ShortName:  b.ShortName,
			FileName:   b.FileName,
		})
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("%w: creating inventory file %s: %v", espa.ErrIO, csvFile, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("%w: writing inventory file %s: %v", espa.ErrIO, csvFile, err)
	}
	fmt.Printf("Band inventory written to %s (%d bands)\n", csvFile, len(rows))
	return nil
}
