// Command pomsky-gen compiles Pomsky expressions at build time and
// writes a Go source file with the results bound to regexp.MustCompile'd
// package variables.
//
// Usage:
//
//	pomsky-gen -out patterns_gen.go -package mypkg -p 'Ip=range "0"-"255"' -p 'Word=disable unicode; [word]+'
//	pomsky-gen -out patterns_gen.go -package mypkg -path patterns.pomsky
//
// A patterns file holds one `Name = expression` pair per line; blank
// lines and lines starting with # are skipped.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pomsky-go/pomsky/internal/codegen"
)

type patternFlags []codegen.Pattern

func (p *patternFlags) String() string {
	names := make([]string, len(*p))
	for i, pat := range *p {
		names[i] = pat.Name
	}
	return strings.Join(names, ", ")
}

func (p *patternFlags) Set(value string) error {
	name, source, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("expected Name=expression, got %q", value)
	}
	*p = append(*p, codegen.Pattern{Name: strings.TrimSpace(name), Source: strings.TrimSpace(source)})
	return nil
}

func main() {
	var (
		out      = flag.String("out", "", "Output file for the generated Go code (required)")
		pkg      = flag.String("package", "", "Package name for the generated code (required)")
		path     = flag.String("path", "", "Read Name = expression pairs from a file")
		allowed  = flag.String("allowed", "", "Comma-separated list of allowed features (default: all)")
		verbose  = flag.Bool("verbose", false, "Print compilation tracing to stderr")
		patterns patternFlags
	)
	flag.Var(&patterns, "p", "A Name=expression pair; repeatable")
	flag.Parse()

	if *path != "" {
		fromFile, err := readPatterns(*path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		patterns = append(patterns, fromFile...)
	}

	config := codegen.Config{
		Package:    *pkg,
		OutputFile: *out,
		Patterns:   patterns,
		Verbose:    *verbose,
	}
	config.Options.Allowed = *allowed

	if err := codegen.New(config).Generate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s (%d patterns)\n", *out, len(patterns))
}

func readPatterns(path string) ([]codegen.Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading patterns: %w", err)
	}
	defer f.Close()

	var patterns []codegen.Pattern
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, source, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%s:%d: expected Name = expression", path, lineno)
		}
		patterns = append(patterns, codegen.Pattern{Name: strings.TrimSpace(name), Source: strings.TrimSpace(source)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading patterns: %w", err)
	}
	return patterns, nil
}
