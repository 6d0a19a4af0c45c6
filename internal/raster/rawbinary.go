package raster

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/espa-tools/espa-formatter/internal/espa"
)

// HdrPathFor returns the companion ENVI header path for a raw binary
// raster, replacing the final extension with .hdr.
func HdrPathFor(imgPath string) string {
	return strings.TrimSuffix(imgPath, filepath.Ext(imgPath)) + ".hdr"
}

// writeRawBinary dumps a whole image buffer to the flat binary raster
// target in one operation. The buffer must be []uint8, []int16 or
// []uint16.
func writeRawBinary(path string, buf interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: opening the output raw binary file %s: %v", espa.ErrIO, path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	switch data := buf.(type) {
	case []uint8:
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("%w: writing image to the raw binary file %s: %v", espa.ErrIO, path, err)
		}
	case []int16, []uint16:
		if err := binary.Write(w, binary.LittleEndian, data); err != nil {
			return fmt.Errorf("%w: writing image to the raw binary file %s: %v", espa.ErrIO, path, err)
		}
	default:
		return fmt.Errorf("%w: unsupported raw binary buffer type %T", espa.ErrValidation, buf)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: writing image to the raw binary file %s: %v", espa.ErrIO, path, err)
	}
	return nil
}

// ReadRawBinary reads a whole flat binary raster into a typed buffer
// sized lines x samps of the given data type.
func ReadRawBinary(path string, dt espa.DataType, lines, samps int) (interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening the raw binary file %s: %v", espa.ErrIO, path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	n := lines * samps
	switch dt {
	case espa.UInt8:
		buf := make([]uint8, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%w: reading the raw binary file %s: %v", espa.ErrIO, path, err)
		}
		return buf, nil
	case espa.Int16:
		buf := make([]int16, n)
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("%w: reading the raw binary file %s: %v", espa.ErrIO, path, err)
		}
		return buf, nil
	case espa.UInt16:
		buf := make([]uint16, n)
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("%w: reading the raw binary file %s: %v", espa.ErrIO, path, err)
		}
		return buf, nil
	}
	return nil, fmt.Errorf("%w: unsupported data type %s, currently only uint8, int16 and uint16 are supported", espa.ErrValidation, dt)
}
