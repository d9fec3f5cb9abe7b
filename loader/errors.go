package loader

import (
	"errors"
	"fmt"
)

var (
	ErrTooLarge      = errors.New("source file too large")
	ErrMaxDepth      = errors.New("max import depth exceeded")
	ErrInvalidImport = errors.New("invalid import path")
)

// LoadError is a failure to resolve, read or follow a file.  Syntax errors
// are not LoadErrors; they live in the parsed file's diagnostics.
type LoadError struct {
	Path         string
	ImportedFrom string
	Err          error
}

func (e *LoadError) Error() string {
	if e.ImportedFrom == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s (imported from %s): %v", e.Path, e.ImportedFrom, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
