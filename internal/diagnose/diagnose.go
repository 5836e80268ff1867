// Package diagnose defines the diagnostics reported during compilation:
// errors and warnings with stable codes, source spans and optional help
// messages. Diagnostics are plain values. The parser and the validator
// keep going after an error and report further problems; name
// resolution stops at its first error.
package diagnose

import (
	"fmt"
	"sort"
)

// Severity distinguishes errors from warnings.
type Severity uint8

const (
	// SeverityError means compilation failed and no output is produced.
	SeverityError Severity = iota
	// SeverityWarning means the output may not behave as intended.
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Kind groups diagnostics into categories that can be suppressed together.
type Kind uint8

const (
	// KindSyntax covers lexer and parser diagnostics.
	KindSyntax Kind = iota
	// KindResolve covers name resolution and semantic diagnostics.
	KindResolve
	// KindUnsupported covers features the target flavor cannot express.
	KindUnsupported
	// KindDeprecated covers syntax that still works but is discouraged.
	KindDeprecated
	// KindCompat covers warnings about behavior differences between
	// flavors.
	KindCompat
	// KindLimits covers configured resource limits being exceeded.
	KindLimits
)

var kindNames = [...]string{
	KindSyntax:      "syntax",
	KindResolve:     "resolve",
	KindUnsupported: "unsupported",
	KindDeprecated:  "deprecated",
	KindCompat:      "compat",
	KindLimits:      "limits",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindFromName maps a category name, as used by `-W` flags, back to its
// Kind. The second result is false for unknown names.
func KindFromName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Code is a stable identifier of the form P####. Codes never change
// meaning between releases, so tooling may match on them.
type Code uint16

// The full code space. Gaps are codes retired before this implementation.
const (
	CodeUnknownToken      Code = 1   // unrecognized token
	CodeRegexGroupSyntax  Code = 2   // regex `(?...)` group syntax
	CodeRegexBackslash    Code = 3   // regex backslash escape
	CodeUnclosedString    Code = 4   // string missing closing quote
	CodeUnexpectedToken   Code = 100 // parser found the wrong token
	CodeReservedWord      Code = 101 // keyword used as a name
	CodeIdentTooLong      Code = 103 // group or variable name too long
	CodeRangeNotIncreasing Code = 104 // range bounds not ascending
	CodeDeprecatedSyntax  Code = 105 // deprecated construct
	CodeIllegalNegation   Code = 106 // `!` before a non-negatable item
	CodeInvalidEscape     Code = 108 // invalid escape in a string
	CodeInvalidCodePoint  Code = 109 // code point out of range or malformed
	CodeInvalidNumber     Code = 110 // number too large or malformed
	CodeBoundsNotAscending Code = 111 // `{4,2}` style repetition
	CodeRepetitionChain   Code = 112 // two directly nested repetitions
	CodeDescendingClassRange Code = 115 // `['z'-'a']`
	CodeUnknownShorthand  Code = 116 // unknown name inside `[...]`
	CodeIllegalClassNegation Code = 117 // negation of a non-negatable class item
	CodeDuplicateLet      Code = 300 // two let bindings with one name
	CodeUnsupported       Code = 301 // feature missing from the flavor
	CodeUnsupportedSyntax Code = 302 // construct disabled by allowed features
	CodeHugeReference     Code = 303 // reference index above 99
	CodeUnknownReference  Code = 304 // reference to a missing group
	CodeDuplicateGroupName Code = 305 // two groups with one name
	CodeEmptyClass        Code = 306 // `[]`
	CodeNegatedEmptyClass Code = 307 // `![]`
	CodeCaptureInLet      Code = 308 // capturing group inside a let binding
	CodeReferenceInLet    Code = 309 // reference inside a let binding
	CodeUnknownVariable   Code = 310 // use of an undeclared variable
	CodeRecursiveVariable Code = 311 // variable that references itself
	CodeRangeTooBig       Code = 312 // range exceeds the digit limit
	CodeRecursionLimit    Code = 313 // parser or resolver nesting too deep
	CodeInfiniteRecursion Code = 314 // expansion that cannot terminate
	CodeCompat            Code = 400 // compatibility warning
)

func (c Code) String() string {
	return fmt.Sprintf("P%04d", uint16(c))
}

// Diagnostic is one error or warning with its location in the source.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Code     Code
	Message  string
	// Help suggests a fix. Empty when there is no suggestion.
	Help string
	Span Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s at %s: %s", d.Severity, d.Code, d.Span, d.Message)
}

// Error makes an error diagnostic.
func Error(kind Kind, code Code, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Kind:     kind,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// Warning makes a warning diagnostic.
func Warning(kind Kind, code Code, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Kind:     kind,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// WithHelp returns a copy of d with the help message set.
func (d Diagnostic) WithHelp(format string, args ...any) Diagnostic {
	d.Help = fmt.Sprintf(format, args...)
	return d
}

// Sort orders diagnostics by span start, then span end, then severity
// with errors first. The sort is stable so equal diagnostics keep their
// reporting order.
func Sort(diagnostics []Diagnostic) {
	sort.SliceStable(diagnostics, func(i, j int) bool {
		a, b := diagnostics[i], diagnostics[j]
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		if a.Span.End != b.Span.End {
			return a.Span.End < b.Span.End
		}
		return a.Severity < b.Severity
	})
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diagnostics []Diagnostic) bool {
	for _, d := range diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Suppress removes warnings whose Kind is in the suppressed set. Errors
// are never suppressed.
func Suppress(diagnostics []Diagnostic, suppressed map[Kind]bool) []Diagnostic {
	if len(suppressed) == 0 {
		return diagnostics
	}
	kept := diagnostics[:0]
	for _, d := range diagnostics {
		if d.Severity == SeverityWarning && suppressed[d.Kind] {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}
