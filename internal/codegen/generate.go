package codegen

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/pomsky-go/pomsky/pkg/pomsky"
)

// Pattern is one Pomsky expression to embed in the generated file.
type Pattern struct {
	// Name is the exported identifier prefix for the generated
	// declarations.
	Name string
	// Source is the Pomsky expression.
	Source string
}

// Config configures code generation.
type Config struct {
	// Package is the Go package name for the generated code.
	Package string
	// OutputFile is the path where generated code will be written.
	OutputFile string
	// Patterns are the expressions to compile and embed.
	Patterns []Pattern
	// Options configures the pattern compilation. The flavor must stay
	// re2, since the generated code targets Go's regexp package.
	Options pomsky.Options
	// Verbose enables compilation tracing on stderr.
	Verbose bool
}

// Validate checks if the config is valid.
func (c Config) Validate() error {
	if c.Package == "" {
		return fmt.Errorf("package cannot be empty")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if len(c.Patterns) == 0 {
		return fmt.Errorf("no patterns given")
	}
	if c.Options.Flavor != "" && c.Options.Flavor != "re2" {
		return fmt.Errorf("generated code uses Go's regexp package, which requires the re2 flavor")
	}
	seen := map[string]bool{}
	for _, p := range c.Patterns {
		if !IsIdentifier(p.Name) {
			return fmt.Errorf("pattern name %q is not a valid Go identifier", p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("pattern name %q used twice", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Generator emits one Go source file binding compiled patterns to
// regexp.MustCompile'd package variables.
type Generator struct {
	config Config
	file   *jen.File
}

// New creates a new generator instance.
func New(config Config) *Generator {
	return &Generator{
		config: config,
		file:   jen.NewFile(config.Package),
	}
}

// Generate compiles all patterns, generates the Go code and writes it to
// the output file.
func (g *Generator) Generate() error {
	if err := g.config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	opts := g.config.Options
	opts.Flavor = "re2"
	opts.Verbose = g.config.Verbose

	g.file.Comment("Code generated by pomsky-gen. DO NOT EDIT.")
	g.file.Line()

	for _, p := range g.config.Patterns {
		out, diagnostics, err := pomsky.Compile(p.Source, opts)
		if err != nil {
			return fmt.Errorf("compiling %s: %w", p.Name, err)
		}
		if err := firstError(diagnostics); err != nil {
			return fmt.Errorf("compiling %s: %w", p.Name, err)
		}

		name := UpperFirst(p.Name)
		g.file.Commentf("%sPattern is the regex compiled from `%s`.", name, strings.ReplaceAll(p.Source, "\n", " "))
		g.file.Const().Id(name + "Pattern").Op("=").Lit(out)
		g.file.Var().Id(name).Op("=").Qual("regexp", "MustCompile").Call(jen.Id(name + "Pattern"))
		g.file.Line()
	}

	if err := g.file.Save(g.config.OutputFile); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

func firstError(diagnostics []pomsky.Diagnostic) error {
	for _, d := range diagnostics {
		if d.IsError() {
			return fmt.Errorf("%s: %s", d.Code, d.Message)
		}
	}
	return nil
}
