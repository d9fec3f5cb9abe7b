package loader

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/panyam/ferret/parser"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxBytes caps the size of a single source file.
const DefaultMaxBytes = 4 << 20

type Options struct {
	// MaxBytes is the largest file that will be parsed.  0 means
	// DefaultMaxBytes, a negative value disables the cap.
	MaxBytes int64

	// Workers bounds how many files are parsed at once.  0 means one per
	// CPU.
	Workers int

	// MaxDepth limits import recursion: 0 means no limit, 1 means the root
	// only, 2 the root and its direct imports and so on.
	MaxDepth int

	Logger *slog.Logger
}

// Result is the outcome of loading one file.
type Result struct {
	// Canonical path, or the path as given when it could not be resolved.
	Path string

	// File is nil when Err is set.
	File *parser.File
	Err  error

	// Depth is 0 for root files and n for files reached through n imports.
	Depth int

	// Imports holds the canonical paths this file's imports resolved to.
	Imports []string
}

// HasErrors reports whether the file failed to load or has diagnostics.
func (r *Result) HasErrors() bool {
	return r.Err != nil || (r.File != nil && r.File.HasErrors())
}

// LoadResult holds every file reached from a root file.
type LoadResult struct {
	Root *Result

	// All files loaded, keyed by canonical path.
	Files map[string]*Result

	// Canonical paths in the order they were loaded, level by level.
	Order []string

	// Resolution, size and depth errors.  Syntax errors are in each file's
	// diagnostics.
	Errors []error
}

func (lr *LoadResult) add(r *Result) {
	if r.Err != nil {
		lr.Errors = append(lr.Errors, r.Err)
		return
	}
	lr.Files[r.Path] = r
	lr.Order = append(lr.Order, r.Path)
}

// Loader reads and parses source files, following imports when asked to.
// A Loader holds no per-load state and may be used concurrently.
type Loader struct {
	resolver FileResolver
	opts     Options
	logger   *slog.Logger
}

// NewLoader creates a loader.  A nil resolver means the local filesystem.
func NewLoader(resolver FileResolver, opts Options) *Loader {
	if resolver == nil {
		resolver = NewDefaultFileResolver()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{resolver: resolver, opts: opts, logger: logger}
}

func (l *Loader) workers() int {
	if l.opts.Workers > 0 {
		return l.opts.Workers
	}
	return runtime.NumCPU()
}

func (l *Loader) maxBytes() int64 {
	if l.opts.MaxBytes == 0 {
		return DefaultMaxBytes
	}
	return l.opts.MaxBytes
}

// ParseFiles parses each path independently and in parallel, without
// following imports.  Results are in the order of paths.  The error is
// only set when ctx is cancelled; per-file failures are in each Result.
func (l *Loader) ParseFiles(ctx context.Context, paths ...string) ([]*Result, error) {
	results := make([]*Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = l.load("", path, 0)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// LoadRoot parses rootPath and then every file reachable through its
// imports.  Each level of imports is parsed in parallel.  Files are loaded
// once no matter how often they are imported, so import cycles end
// naturally.
func (l *Loader) LoadRoot(ctx context.Context, rootPath string) (*LoadResult, error) {
	res := &LoadResult{Files: make(map[string]*Result)}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	root := l.load("", rootPath, 0)
	res.Root = root
	res.add(root)
	if root.Err != nil {
		return res, nil
	}

	queued := map[string]bool{root.Path: true}
	level := []*Result{root}
	for depth := 1; len(level) > 0; depth++ {
		var next []pendingFile
		for _, r := range level {
			for _, imp := range ImportsOf(r.File) {
				if imp.Err != nil {
					res.Errors = append(res.Errors, &LoadError{Path: imp.Path, ImportedFrom: r.Path, Err: imp.Err})
					continue
				}
				canonical, err := l.resolver.Resolve(r.Path, imp.Path)
				if err != nil {
					res.Errors = append(res.Errors, &LoadError{Path: imp.Path, ImportedFrom: r.Path, Err: err})
					continue
				}
				r.Imports = append(r.Imports, canonical)
				if queued[canonical] {
					continue
				}
				queued[canonical] = true
				if l.opts.MaxDepth > 0 && depth >= l.opts.MaxDepth {
					err := fmt.Errorf("%w (%d)", ErrMaxDepth, l.opts.MaxDepth)
					res.Errors = append(res.Errors, &LoadError{Path: canonical, ImportedFrom: r.Path, Err: err})
					continue
				}
				next = append(next, pendingFile{path: canonical, importer: r.Path})
			}
		}

		parsed, err := l.parseAll(ctx, next, depth)
		if err != nil {
			return res, err
		}
		level = nil
		for _, r := range parsed {
			res.add(r)
			if r.Err == nil {
				level = append(level, r)
			}
		}
		l.logger.Debug("loaded import level", "root", root.Path, "depth", depth, "files", len(parsed))
	}
	return res, nil
}

type pendingFile struct {
	path     string
	importer string
}

func (l *Loader) parseAll(ctx context.Context, pending []pendingFile, depth int) ([]*Result, error) {
	results := make([]*Result, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers())
	for i, pf := range pending {
		i, pf := i, pf
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = l.parseCanonical(pf.path, pf.importer, depth)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// load resolves path and parses it.
func (l *Loader) load(importer, path string, depth int) *Result {
	canonical, err := l.resolver.Resolve(importer, path)
	if err != nil {
		return &Result{Path: path, Depth: depth, Err: &LoadError{Path: path, ImportedFrom: importer, Err: err}}
	}
	return l.parseCanonical(canonical, importer, depth)
}

func (l *Loader) parseCanonical(path, importer string, depth int) *Result {
	result := &Result{Path: path, Depth: depth}
	fail := func(err error) *Result {
		result.Err = &LoadError{Path: path, ImportedFrom: importer, Err: err}
		l.logger.Debug("could not load file", "path", path, "error", err)
		return result
	}

	size, err := l.resolver.Size(path)
	if err != nil {
		return fail(err)
	}
	if limit := l.maxBytes(); limit > 0 && size > limit {
		return fail(fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTooLarge, size, limit))
	}
	src, err := l.resolver.ReadFile(path)
	if err != nil {
		return fail(err)
	}

	result.File = parser.Parse(path, src)
	l.logger.Debug("parsed file",
		"path", path,
		"bytes", len(src),
		"diagnostics", len(result.File.Diagnostics),
		"aborted", result.File.Aborted)
	return result
}
