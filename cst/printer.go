package cst

import (
	"fmt"
	"strconv"
	"strings"
)

// CodePrinter is a small indentation aware text sink used by the tree
// printers.
type CodePrinter interface {
	Indent(n int)
	Unindent(n int)
	Print(str string)
	Printf(format string, args ...any)
	Println(str string)
	String() string
}

func WithIndent(n int, cp CodePrinter, block func(cp CodePrinter)) {
	cp.Indent(n)
	defer cp.Unindent(n)
	block(cp)
}

type codePrinter struct {
	indent  int
	atStart bool
	builder strings.Builder
}

func NewCodePrinter() CodePrinter {
	return &codePrinter{atStart: true}
}

func (c *codePrinter) Indent(n int) {
	c.indent += n
}

func (c *codePrinter) Unindent(n int) {
	c.indent -= n
	if c.indent < 0 {
		c.indent = 0
	}
}

// Print writes str, prefixing every new line with the current indent.
func (c *codePrinter) Print(str string) {
	for len(str) > 0 {
		if c.atStart {
			c.builder.WriteString(strings.Repeat("  ", c.indent))
			c.atStart = false
		}
		idx := strings.IndexByte(str, '\n')
		if idx < 0 {
			c.builder.WriteString(str)
			return
		}
		c.builder.WriteString(str[:idx+1])
		c.atStart = true
		str = str[idx+1:]
	}
}

func (c *codePrinter) Println(str string) {
	c.Print(str + "\n")
}

func (c *codePrinter) Printf(format string, args ...any) {
	c.Print(fmt.Sprintf(format, args...))
}

func (c *codePrinter) String() string {
	return c.builder.String()
}

// Dump renders the whole tree, one node per line, with field names, leaf
// text and spans:
//
//	source_file 1:1-1:7
//	  expression_statement 1:1-1:7
//	    binary_expression 1:1-1:6
//	      left: integer_literal "1" 1:1-1:2
func Dump(n *Node) string {
	cp := NewCodePrinter()
	dumpNode(cp, "", n)
	return cp.String()
}

func dumpNode(cp CodePrinter, field string, n *Node) {
	if field != "" {
		cp.Print(field + ": ")
	}
	if n.leaf {
		if n.named {
			cp.Printf("%s %s %s\n", n.kind, strconv.Quote(n.text), n.span)
		} else {
			cp.Printf("%s %s\n", strconv.Quote(n.text), n.span)
		}
		return
	}
	cp.Printf("%s %s\n", n.kind, n.span)
	WithIndent(1, cp, func(cp CodePrinter) {
		for i, c := range n.children {
			dumpNode(cp, n.fields[i], c)
		}
	})
}
