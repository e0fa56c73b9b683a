package md2book

import "errors"

// Sentinel errors for build operations.
var (
	ErrNilConfig        = errors.New("config cannot be nil")
	ErrUnsafeOutputDir  = errors.New("output directory must not contain the book root")
	ErrOutputDir        = errors.New("failed to prepare output directory")
	ErrNoSources        = errors.New("no source files for language")
	ErrSourceRead       = errors.New("failed to read source file")
	ErrWriteDocument    = errors.New("failed to write generated document")
	ErrMoveOutput       = errors.New("failed to move output")
)
