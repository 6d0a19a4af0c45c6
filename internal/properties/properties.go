package properties

import "os"

// GdalTranslatePath returns the external raster-translation binary,
// overridable through the environment for non-standard installs.
func GdalTranslatePath() string {
	if path := os.Getenv("GDAL_TRANSLATE_PATH"); path != "" {
		return path
	}
	return "gdal_translate"
}

// OutputDir returns the directory converted products are written to
// when no explicit output base is given.
func OutputDir() string {
	if dir := os.Getenv("ESPA_OUTPUT_DIR"); dir != "" {
		return dir
	}
	return "."
}
