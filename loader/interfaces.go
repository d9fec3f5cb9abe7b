package loader

// FileSystem abstracts where source files come from (local disk, memory,
// or named libraries on top of either).
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Exists(path string) bool

	// Size returns the size in bytes of the file at path.
	Size(path string) (int64, error)
}

// Libraries is implemented by file systems that hold named libraries.
// Imports of library paths are not joined onto the importing file's
// directory.
type Libraries interface {
	IsLibraryPath(path string) bool
}

// FileResolver maps an import path, as written in an import declaration,
// to the canonical path of a file and reads it.
type FileResolver interface {
	// Resolve takes the canonical path of the importing file (empty for a
	// root file) and the path from the import statement.  The returned
	// canonical path is used for dedup and must be stable.
	Resolve(importerPath, importPath string) (canonicalPath string, err error)

	// Size and ReadFile take a path returned by Resolve.
	Size(canonicalPath string) (int64, error)
	ReadFile(canonicalPath string) ([]byte, error)
}
