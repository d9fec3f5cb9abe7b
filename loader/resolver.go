package loader

import (
	"fmt"
	"path/filepath"
)

// SourceExt is appended to import paths written without an extension.
const SourceExt = ".fer"

// FSResolver implements FileResolver on top of a FileSystem.  Relative
// imports are resolved against the directory of the importing file.
type FSResolver struct {
	FS FileSystem

	// Abs makes canonical paths absolute.  Only meaningful for the local
	// disk.
	Abs bool
}

// NewDefaultFileResolver creates a resolver for the local filesystem.
func NewDefaultFileResolver() *FSResolver {
	return &FSResolver{FS: NewLocalFS(""), Abs: true}
}

// NewFSResolver creates a resolver over fs with paths kept as written.
func NewFSResolver(fs FileSystem) *FSResolver {
	return &FSResolver{FS: fs}
}

// Resolve turns importPath into a canonical path.  When FS holds
// libraries, an import naming one ("std/io") is looked up there and keeps
// its library relative path; root files are always project files.
func (r *FSResolver) Resolve(importerPath, importPath string) (string, error) {
	if importPath == "" {
		return "", fmt.Errorf("empty import path")
	}
	resolvedPath := importPath
	if filepath.Ext(resolvedPath) == "" {
		resolvedPath += SourceExt
	}
	libs, hasLibs := r.FS.(Libraries)
	inLibrary := func(path string) bool {
		return hasLibs && importerPath != "" && libs.IsLibraryPath(path)
	}

	if importerPath != "" && !filepath.IsAbs(resolvedPath) && !inLibrary(resolvedPath) {
		resolvedPath = filepath.Join(filepath.Dir(importerPath), resolvedPath)
	}
	canonicalPath := filepath.Clean(resolvedPath)
	switch {
	case inLibrary(canonicalPath):
	case inLibrary(importerPath):
		return "", fmt.Errorf("import '%s' leaves the library of %s", importPath, importerPath)
	case r.Abs:
		abs, err := filepath.Abs(canonicalPath)
		if err != nil {
			return "", fmt.Errorf("could not get absolute path for '%s': %w", resolvedPath, err)
		}
		canonicalPath = abs
	}
	if !r.FS.Exists(canonicalPath) {
		return "", fmt.Errorf("file not found: %s (resolved from '%s')", canonicalPath, importPath)
	}
	return canonicalPath, nil
}

func (r *FSResolver) Size(canonicalPath string) (int64, error) {
	return r.FS.Size(canonicalPath)
}

func (r *FSResolver) ReadFile(canonicalPath string) ([]byte, error) {
	return r.FS.ReadFile(canonicalPath)
}
