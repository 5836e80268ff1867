package compiler

import "github.com/pomsky-go/pomsky/internal/diagnose"

// Span locates a node in the source text.
type Span = diagnose.Span
