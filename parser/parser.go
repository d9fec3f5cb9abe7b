package parser

import (
	"strings"

	"github.com/panyam/ferret/cst"
)

// File is the result of parsing one source buffer.
type File struct {
	Name   string
	Source []byte
	Root   *cst.Node

	// Every token of the buffer in order, trivia and ILLEGAL included.
	Tokens []Token

	// Lexical and syntax diagnostics sorted by position.
	Diagnostics ErrorList

	// Aborted is set when an unterminated string or comment ended the parse
	// early.  The rest of the input is then a single ERROR node.
	Aborted bool
}

// Parse tokenizes and parses src.  It always returns a well formed tree;
// problems are reported in File.Diagnostics.
func Parse(name string, src []byte) *File {
	p := NewLLParser(NewLexer(name, src))
	root := p.ParseSourceFile()
	return p.file(src, root)
}

// ParseString is Parse for string input.
func ParseString(name, src string) *File {
	return Parse(name, []byte(src))
}

func (p *LLParser) file(src []byte, root *cst.Node) *File {
	diags := append(ErrorList(nil), p.lexer.Diagnostics()...)
	diags = append(diags, p.Errors.Errors...)
	diags.Sort()
	return &File{
		Name:        p.name,
		Source:      src,
		Root:        root,
		Tokens:      p.tokens,
		Diagnostics: diags,
		Aborted:     p.aborted,
	}
}

func (f *File) HasErrors() bool {
	return len(f.Diagnostics) > 0
}

// Err returns the diagnostics as an error, or nil when there are none.
func (f *File) Err() error {
	return f.Diagnostics.Err()
}

// Reconstruct concatenates the text of every token which gives back the
// source byte for byte, whether or not it parsed cleanly.
func (f *File) Reconstruct() string {
	var sb strings.Builder
	sb.Grow(len(f.Source))
	for _, tok := range f.Tokens {
		sb.WriteString(tok.Text)
	}
	return sb.String()
}

// Comments returns the comment tokens of the file.
func (f *File) Comments() (out []Token) {
	for _, tok := range f.Tokens {
		if tok.Kind == LINE_COMMENT || tok.Kind == BLOCK_COMMENT {
			out = append(out, tok)
		}
	}
	return
}

// Trivia returns whitespace and comments in the form cst.Reconstruct
// expects.
func (f *File) Trivia() (out []cst.Trivia) {
	for _, tok := range f.Tokens {
		if tok.IsTrivia() {
			out = append(out, cst.Trivia{Text: tok.Text, Span: tok.Span})
		}
	}
	return
}

// Text returns the source covered by n.
func (f *File) Text(n *cst.Node) string {
	if n.IsLeaf() {
		return n.Text()
	}
	return string(n.Span().Slice(f.Source))
}
