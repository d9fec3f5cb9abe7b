package loader

import (
	"fmt"

	"github.com/panyam/ferret/cst"
	"github.com/panyam/ferret/parser"
)

// Import is one import declaration of a parsed file.
type Import struct {
	// Unquoted path, or the literal text when it could not be unquoted.
	Path  string
	Alias string
	Node  *cst.Node
	Err   error
}

// ImportsOf returns the well formed top level imports of f.  Imports that
// failed to parse are ERROR nodes and are skipped.
func ImportsOf(f *parser.File) (out []Import) {
	if f == nil || f.Root == nil {
		return nil
	}
	for _, stmt := range f.Root.NamedChildren() {
		if stmt.Kind() != cst.KindImportDeclaration {
			continue
		}
		lit := stmt.ChildByFieldName("path")
		if lit == nil {
			continue
		}
		imp := Import{Node: stmt}
		if alias := stmt.ChildByFieldName("alias"); alias != nil {
			imp.Alias = alias.Text()
		}
		path, err := parser.UnquoteString(lit.Text())
		if err != nil {
			imp.Path = lit.Text()
			imp.Err = fmt.Errorf("%w %s: %v", ErrInvalidImport, lit.Text(), err)
		} else {
			imp.Path = path
		}
		out = append(out, imp)
	}
	return
}

// ImportPaths returns the unquoted paths of the valid imports of f.
func ImportPaths(f *parser.File) (out []string) {
	for _, imp := range ImportsOf(f) {
		if imp.Err == nil {
			out = append(out, imp.Path)
		}
	}
	return
}

// CountDiagnostics adds up the diagnostics of every parsed result.
func CountDiagnostics(results []*Result) (n int) {
	for _, r := range results {
		if r != nil && r.File != nil {
			n += len(r.File.Diagnostics)
		}
	}
	return
}
