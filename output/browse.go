package output

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/espa-tools/espa-formatter/internal/espa"
	"github.com/espa-tools/espa-formatter/internal/raster"
)

// CreateBrowseImage renders a grayscale quicklook PNG from one raw
// binary band. Pixel values are linearly stretched between the band
// minimum and maximum of the non-fill pixels; fill pixels render
// black.
func CreateBrowseImage(b *espa.Band, sourceDir, outputPath string) error {
	imgFile := b.FileName
	if sourceDir != "" {
		imgFile = filepath.Join(sourceDir, b.FileName)
	}

	buf, err := raster.ReadRawBinary(imgFile, b.DataType, b.NLines, b.NSamps)
	if err != nil {
		return err
	}

	pixels := make([]float64, b.NLines*b.NSamps)
	switch data := buf.(type) {
	case []uint8:
		for i, v := range data {
			pixels[i] = float64(v)
		}
	case []int16:
		for i, v := range data {
			pixels[i] = float64(v)
		}
	case []uint16:
		for i, v := range data {
			pixels[i] = float64(v)
		}
	default:
		return fmt.Errorf("%w: band %s: unsupported data type %s for browse generation",
			espa.ErrValidation, b.Name, b.DataType)
	}

	fill := float64(b.FillValue)
	hasFill := b.FillValue != espa.IntMetaFill

	min, max, found := pixelRange(pixels, fill, hasFill)
	if !found {
		return fmt.Errorf("%w: band %s: no valid pixels to render", espa.ErrValidation, b.Name)
	}
	scale := 0.0
	if max > min {
		scale = 255.0 / (max - min)
	}

	gray := image.NewGray(image.Rect(0, 0, b.NSamps, b.NLines))
	for y := 0; y < b.NLines; y++ {
		for x := 0; x < b.NSamps; x++ {
			v := pixels[y*b.NSamps+x]
			if hasFill && v == fill {
				continue
			}
			gray.Pix[y*gray.Stride+x] = uint8((v - min) * scale)
		}
	}

	dc := gg.NewContextForImage(gray)
	if err := dc.SavePNG(outputPath); err != nil {
		return fmt.Errorf("%w: writing browse image %s: %v", espa.ErrIO, outputPath, err)
	}

	fmt.Printf("Browse image saved to: %s\n", outputPath)
	fmt.Printf("Image dimensions: %dx%d\n", b.NSamps, b.NLines)
	return nil
}

// pixelRange finds the minimum and maximum of the non-fill pixels.
func pixelRange(pixels []float64, fill float64, hasFill bool) (min, max float64, found bool) {
	for _, v := range pixels {
		if hasFill && v == fill {
			continue
		}
		if !found {
			min, max, found = v, v, true
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, found
}
