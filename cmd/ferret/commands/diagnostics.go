package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/panyam/ferret/parser"
)

// printDiagnostics writes each diagnostic of f followed by its source line
// and a caret under the column.
func printDiagnostics(w io.Writer, f *parser.File) {
	if len(f.Diagnostics) == 0 {
		return
	}
	lines := strings.Split(string(f.Source), "\n")
	for _, d := range f.Diagnostics {
		printDiagnostic(w, d, lines)
	}
}

func printDiagnostic(w io.Writer, d *parser.Diagnostic, lines []string) {
	kind := color.RedString(d.Kind.String())
	if d.Kind == parser.StructuralAmbiguityError {
		kind = color.YellowString(d.Kind.String())
	}
	pos := d.Span.Start
	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", color.New(color.Bold).Sprint(d.Filename), pos.Line, pos.Column, kind, d.Message)

	if pos.Line < 1 || pos.Line > len(lines) {
		return
	}
	src := strings.TrimRight(lines[pos.Line-1], "\r")
	fmt.Fprintf(w, "    %s\n", src)
	fmt.Fprintf(w, "    %s%s\n", caretPadding(src, pos.Column), color.GreenString("^"))
}

// caretPadding returns the blanks that line a caret up under column col
// (counted in runes) of line, keeping tabs so the alignment survives.
func caretPadding(line string, col int) string {
	var sb strings.Builder
	n := 0
	for _, ch := range line {
		if n >= col-1 {
			break
		}
		if ch == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
		n++
	}
	return sb.String()
}
