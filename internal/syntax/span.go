// Package syntax implements the lexer, parser and abstract syntax tree for
// the Pomsky pattern language. It turns source text into an AST annotated
// with byte-offset spans, collecting as many parse errors as possible
// instead of stopping at the first one.
package syntax

import "github.com/pomsky-go/pomsky/internal/diagnose"

// Span locates a token or AST node in the source text.
type Span = diagnose.Span

// NewSpan returns the span [start, end).
func NewSpan(start, end int) Span {
	return diagnose.NewSpan(start, end)
}

// EmptySpan returns the zero-width span used for synthesized nodes.
func EmptySpan() Span {
	return diagnose.EmptySpan()
}
