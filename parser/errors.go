package parser

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/panyam/ferret/cst"
	gfn "github.com/panyam/goutils/fn"
)

type DiagnosticKind int

const (
	LexicalError DiagnosticKind = iota
	SyntaxError
	StructuralAmbiguityError
)

func (k DiagnosticKind) String() string {
	switch k {
	case LexicalError:
		return "lexical error"
	case SyntaxError:
		return "syntax error"
	case StructuralAmbiguityError:
		return "structural ambiguity"
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// Diagnostic is a positioned error found while lexing or parsing.
type Diagnostic struct {
	Kind     DiagnosticKind
	Filename string
	Span     cst.Span
	Message  string
}

func (d *Diagnostic) Error() string {
	if d.Filename == "" {
		return fmt.Sprintf("%d:%d: %s: %s", d.Span.Start.Line, d.Span.Start.Column, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Filename, d.Span.Start.Line, d.Span.Start.Column, d.Kind, d.Message)
}

// ErrorList is a list of diagnostics.  The zero value is an empty list
// ready to use.
type ErrorList []*Diagnostic

// Sort orders the list by source position, keeping the insertion order of
// diagnostics at the same offset.
func (l ErrorList) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Span.Start.Offset < l[j].Span.Start.Offset
	})
}

// OfKind returns the diagnostics of the given kind.
func (l ErrorList) OfKind(kind DiagnosticKind) (out ErrorList) {
	for _, d := range l {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return
}

// Strings renders every diagnostic.
func (l ErrorList) Strings() []string {
	return gfn.Map([]*Diagnostic(l), func(d *Diagnostic) string { return d.Error() })
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns nil for an empty list and the list itself otherwise.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// ErrorCollector gathers diagnostics up to an optional cap.
type ErrorCollector struct {
	Errors    ErrorList
	MaxErrors int // 0 means no cap

	// Truncated is set once a diagnostic was dropped because of MaxErrors.
	Truncated bool
}

func (c *ErrorCollector) HasErrors() bool {
	return len(c.Errors) > 0
}

// Add records a diagnostic and reports whether it was kept.
func (c *ErrorCollector) Add(d *Diagnostic) bool {
	if c.MaxErrors > 0 && len(c.Errors) >= c.MaxErrors {
		c.Truncated = true
		return false
	}
	c.Errors = append(c.Errors, d)
	return true
}

// AddAll records several diagnostics.
func (c *ErrorCollector) AddAll(diags ...*Diagnostic) {
	for _, d := range diags {
		c.Add(d)
	}
}

// PrintErrors writes one diagnostic per line.
func (c *ErrorCollector) PrintErrors(w io.Writer) {
	if len(c.Errors) == 0 {
		return
	}
	fmt.Fprintln(w, strings.Join(c.Errors.Strings(), "\n"))
	if c.Truncated {
		fmt.Fprintf(w, "too many errors, only the first %d shown\n", c.MaxErrors)
	}
}
