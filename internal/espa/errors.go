package espa

import "errors"

// Error kinds surfaced by the conversion pipeline. Wrapped with %w so
// callers can classify failures with errors.Is.
var (
	// ErrValidation marks malformed or unsupported metadata: bad
	// satellite/instrument pair, unsupported projection, datum or data
	// type, grid origin not CENTER, band id not found.
	ErrValidation = errors.New("metadata validation failed")

	// ErrIO marks an open/read/write/delete failure on a raster,
	// header or metadata file.
	ErrIO = errors.New("file i/o failed")

	// ErrSubprocess marks an external raster-translation tool that
	// failed to launch or returned failure.
	ErrSubprocess = errors.New("external tool failed")
)
