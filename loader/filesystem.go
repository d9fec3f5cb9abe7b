package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// LibraryFS serves named libraries next to the project's own files.  A
// path whose first segment names a mounted library ("std/io.fer") is read
// from that library with the name stripped; every other path goes to the
// project file system.
type LibraryFS struct {
	mu      sync.RWMutex
	libs    map[string]FileSystem
	project FileSystem
}

func NewLibraryFS(project FileSystem) *LibraryFS {
	return &LibraryFS{libs: map[string]FileSystem{}, project: project}
}

// Mount makes the library called name available from lib.  Mounting the
// same name again replaces the library.
func (l *LibraryFS) Mount(name string, lib FileSystem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.libs[name] = lib
}

// IsLibraryPath reports whether path lives in a mounted library.
func (l *LibraryFS) IsLibraryPath(path string) bool {
	_, _, ok := l.library(path)
	return ok
}

func (l *LibraryFS) library(path string) (FileSystem, string, bool) {
	if filepath.IsAbs(path) {
		return nil, "", false
	}
	name, rest, found := strings.Cut(filepath.ToSlash(path), "/")
	if !found || rest == "" {
		return nil, "", false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	lib, ok := l.libs[name]
	return lib, filepath.FromSlash(rest), ok
}

func (l *LibraryFS) route(path string) (FileSystem, string) {
	if lib, rest, ok := l.library(path); ok {
		return lib, rest
	}
	return l.project, path
}

func (l *LibraryFS) ReadFile(path string) ([]byte, error) {
	lib, p := l.route(path)
	return lib.ReadFile(p)
}

func (l *LibraryFS) Size(path string) (int64, error) {
	lib, p := l.route(path)
	return lib.Size(p)
}

func (l *LibraryFS) Exists(path string) bool {
	lib, p := l.route(path)
	return lib.Exists(p)
}

// LocalFS implements FileSystem using the local disk
type LocalFS struct {
	basePath string
}

func NewLocalFS(basePath string) *LocalFS {
	return &LocalFS{basePath: basePath}
}

func (l *LocalFS) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.basePath, path)
}

func (l *LocalFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(l.resolvePath(path))
}

func (l *LocalFS) Size(path string) (int64, error) {
	info, err := os.Stat(l.resolvePath(path))
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", path)
	}
	return info.Size(), nil
}

func (l *LocalFS) Exists(path string) bool {
	info, err := os.Stat(l.resolvePath(path))
	return err == nil && !info.IsDir()
}

// MemoryFS serves a fixed set of sources held in memory, keyed by path.
// It is never written after construction so concurrent reads need no lock.
type MemoryFS struct {
	files map[string][]byte
}

func NewMemoryFS(files map[string]string) *MemoryFS {
	m := &MemoryFS{files: make(map[string][]byte, len(files))}
	for path, src := range files {
		m.files[path] = []byte(src)
	}
	return m
}

func (m *MemoryFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return slices.Clone(data), nil
}

func (m *MemoryFS) Size(path string) (int64, error) {
	data, ok := m.files[path]
	if !ok {
		return 0, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return int64(len(data)), nil
}

func (m *MemoryFS) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}
