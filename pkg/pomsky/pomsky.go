// Package pomsky compiles the Pomsky pattern language into regular
// expressions for eight regex flavors. Compilation never executes the
// resulting regex; the output is text for the target engine.
package pomsky

import (
	"fmt"

	"github.com/pomsky-go/pomsky/internal/compiler"
	"github.com/pomsky-go/pomsky/internal/diagnose"
	"github.com/pomsky-go/pomsky/internal/syntax"
)

const (
	// DefaultParserDepth is the default nesting limit for expressions.
	DefaultParserDepth = 127
	// MaxParserDepth is the hard ceiling for the nesting limit.
	MaxParserDepth = 255
)

// Options configures the compilation process.
type Options struct {
	// Flavor is the target regex flavor: pcre, python, java, js, dotnet,
	// ruby, rust or re2. Empty selects pcre.
	Flavor string

	// Allowed restricts the language features the input may use, as a
	// comma-separated list (e.g. "named-groups,references"). Empty
	// allows all features.
	Allowed string

	// MaxRangeSize is the largest number of digits a `range` expression
	// may span. 0 selects the default of 6; the ceiling is 12.
	MaxRangeSize int

	// MaxParserDepth bounds how deeply expressions may nest. 0 selects
	// the default of 127; the ceiling is 255.
	MaxParserDepth int

	// NoWarnings suppresses warning categories by name ("deprecated",
	// "compat"), or all warnings with "all".
	NoWarnings []string

	// Verbose enables compilation tracing on stderr.
	Verbose bool
}

// Validate checks if the options are valid.
func (o Options) Validate() error {
	if o.Flavor != "" {
		if _, ok := compiler.FlavorFromName(o.Flavor); !ok {
			return fmt.Errorf("unknown flavor %q (expected one of %v)", o.Flavor, compiler.FlavorNames())
		}
	}
	if o.Allowed != "" {
		if _, unknown := compiler.ParseFeatures(o.Allowed); unknown != "" {
			return fmt.Errorf("unknown feature %q", unknown)
		}
	}
	if o.MaxRangeSize < 0 || o.MaxRangeSize > compiler.MaxRangeSize {
		return fmt.Errorf("max range size %d out of range [0, %d]", o.MaxRangeSize, compiler.MaxRangeSize)
	}
	if o.MaxParserDepth < 0 || o.MaxParserDepth > MaxParserDepth {
		return fmt.Errorf("max parser depth %d out of range [0, %d]", o.MaxParserDepth, MaxParserDepth)
	}
	for _, name := range o.NoWarnings {
		if name == "all" {
			continue
		}
		if _, ok := diagnose.KindFromName(name); !ok {
			return fmt.Errorf("unknown warning category %q", name)
		}
	}
	return nil
}

func (o Options) compilerOptions() compiler.Options {
	opts := compiler.DefaultOptions()
	if o.Flavor != "" {
		opts.Flavor, _ = compiler.FlavorFromName(o.Flavor)
	}
	if o.Allowed != "" {
		opts.Allowed, _ = compiler.ParseFeatures(o.Allowed)
	}
	if o.MaxRangeSize != 0 {
		opts.MaxRangeSize = o.MaxRangeSize
	}
	opts.Verbose = o.Verbose
	return opts
}

func (o Options) parserDepth() int {
	if o.MaxParserDepth == 0 {
		return DefaultParserDepth
	}
	return o.MaxParserDepth
}

func (o Options) suppressed() map[diagnose.Kind]bool {
	if len(o.NoWarnings) == 0 {
		return nil
	}
	kinds := map[diagnose.Kind]bool{}
	for _, name := range o.NoWarnings {
		if name == "all" {
			kinds[diagnose.KindDeprecated] = true
			kinds[diagnose.KindCompat] = true
			continue
		}
		if k, ok := diagnose.KindFromName(name); ok {
			kinds[k] = true
		}
	}
	return kinds
}

// Diagnostic is one error or warning produced during compilation, with
// byte offsets into the source.
type Diagnostic struct {
	Severity string
	Kind     string
	Code     string
	Message  string
	Help     string
	Start    int
	End      int
}

// IsError reports whether the diagnostic prevented compilation.
func (d Diagnostic) IsError() bool { return d.Severity == "error" }

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
}

func convertDiagnostics(diagnostics []diagnose.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, len(diagnostics))
	for i, d := range diagnostics {
		out[i] = Diagnostic{
			Severity: d.Severity.String(),
			Kind:     d.Kind.String(),
			Code:     d.Code.String(),
			Message:  d.Message,
			Help:     d.Help,
			Start:    d.Span.Start,
			End:      d.Span.End,
		}
	}
	return out
}

// Compile translates a Pomsky expression into regex text for the flavor
// selected in opts. The output is empty when the diagnostics contain an
// error. The returned error only reports invalid options; problems in
// the source are diagnostics.
func Compile(source string, opts Options) (string, []Diagnostic, error) {
	if err := opts.Validate(); err != nil {
		return "", nil, fmt.Errorf("invalid options: %w", err)
	}

	rule, diagnostics := syntax.Parse(source, opts.parserDepth())
	if diagnose.HasErrors(diagnostics) {
		diagnose.Sort(diagnostics)
		return "", convertDiagnostics(diagnose.Suppress(diagnostics, opts.suppressed())), nil
	}

	out, compileDiagnostics := compiler.Compile(rule, opts.compilerOptions())
	diagnostics = append(diagnostics, compileDiagnostics...)
	diagnose.Sort(diagnostics)
	diagnostics = diagnose.Suppress(diagnostics, opts.suppressed())
	if diagnose.HasErrors(diagnostics) {
		return "", convertDiagnostics(diagnostics), nil
	}
	return out, convertDiagnostics(diagnostics), nil
}

// Parse checks a Pomsky expression for syntax errors without compiling
// it. The diagnostics are sorted by source position.
func Parse(source string) []Diagnostic {
	_, diagnostics := syntax.Parse(source, DefaultParserDepth)
	diagnose.Sort(diagnostics)
	return convertDiagnostics(diagnostics)
}
