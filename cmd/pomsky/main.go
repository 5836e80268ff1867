// Command pomsky compiles Pomsky expressions into regular expressions.
//
// Usage:
//
//	pomsky [flags] [pattern]
//	pomsky -path pattern.pomsky
//	pomsky -interactive
//
// Without a pattern argument or -path, the pattern is read from stdin.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/pomsky-go/pomsky/pkg/pomsky"
)

const historyFile = ".pomsky_history"

// arrayFlags collects repeated flag values.
type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, ", ")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

func main() {
	var (
		flavor         = flag.String("flavor", "pcre", "Target regex flavor (pcre, python, java, js, dotnet, ruby, rust, re2)")
		allowed        = flag.String("allowed", "", "Comma-separated list of allowed features (default: all)")
		maxRangeSize   = flag.Int("max-range-size", 0, "Maximum number of digits in a range expression (default 6)")
		maxParserDepth = flag.Int("max-parser-depth", 0, "Maximum nesting depth of expressions (default 127)")
		maxDiagnostics = flag.Int("max-diagnostics", 8, "Maximum number of diagnostics to print")
		path           = flag.String("path", "", "Read the pattern from a file instead of the arguments")
		interactive    = flag.Bool("interactive", false, "Start an interactive session")
		verbose        = flag.Bool("verbose", false, "Print compilation tracing to stderr")
		noWarnings     arrayFlags
	)
	flag.Var(&noWarnings, "W", "Suppress a warning category (deprecated, compat, or all); repeatable")
	flag.Parse()

	opts := pomsky.Options{
		Flavor:         *flavor,
		Allowed:        *allowed,
		MaxRangeSize:   *maxRangeSize,
		MaxParserDepth: *maxParserDepth,
		NoWarnings:     noWarnings,
		Verbose:        *verbose,
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if *interactive {
		os.Exit(repl(opts))
	}

	source, err := readSource(*path, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	out, diagnostics, err := pomsky.Compile(source, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	failed := printDiagnostics(os.Stderr, source, diagnostics, *maxDiagnostics)
	if failed {
		os.Exit(1)
	}
	fmt.Println(out)
}

func readSource(path string, args []string) (string, error) {
	switch {
	case path != "" && len(args) > 0:
		return "", fmt.Errorf("cannot combine -path with a pattern argument")
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading pattern: %w", err)
		}
		return string(data), nil
	case len(args) == 1:
		return args[0], nil
	case len(args) > 1:
		return "", fmt.Errorf("expected a single pattern argument, got %d", len(args))
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// printDiagnostics writes up to max diagnostics with their source excerpt
// and reports whether any of them is an error.
func printDiagnostics(w io.Writer, source string, diagnostics []pomsky.Diagnostic, max int) bool {
	failed := false
	for i, d := range diagnostics {
		if d.IsError() {
			failed = true
		}
		if i >= max {
			fmt.Fprintf(w, "... and %d more\n", len(diagnostics)-max)
			break
		}
		fmt.Fprintf(w, "%s %s: %s\n", d.Severity, d.Code, d.Message)
		if excerpt := sourceExcerpt(source, d.Start, d.End); excerpt != "" {
			fmt.Fprintf(w, "  | %s\n", excerpt)
		}
		if d.Help != "" {
			fmt.Fprintf(w, "  help: %s\n", d.Help)
		}
	}
	return failed
}

func sourceExcerpt(source string, start, end int) string {
	if start < 0 || end > len(source) || start >= end {
		return ""
	}
	excerpt := source[start:end]
	if len(excerpt) > 60 {
		excerpt = excerpt[:60] + "..."
	}
	return strings.ReplaceAll(excerpt, "\n", " ")
}

func repl(opts pomsky.Options) int {
	fmt.Printf("pomsky interactive mode (flavor: %s). Type :help for commands.\n", opts.Flavor)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt("pomsky> ")
		if err == io.EOF {
			fmt.Println()
			return 0
		}
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(input, ":") {
			if quit := replCommand(&opts, input); quit {
				return 0
			}
			continue
		}

		out, diagnostics, err := pomsky.Compile(input, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if failed := printDiagnostics(os.Stderr, input, diagnostics, 8); failed {
			continue
		}
		fmt.Println(out)
	}
}

// replCommand handles a `:` command and reports whether to quit.
func replCommand(opts *pomsky.Options, input string) bool {
	cmd, arg, _ := strings.Cut(input, " ")
	switch cmd {
	case ":quit", ":q":
		return true
	case ":flavor":
		if arg == "" {
			fmt.Printf("current flavor: %s\n", opts.Flavor)
			return false
		}
		trial := *opts
		trial.Flavor = strings.TrimSpace(arg)
		if err := trial.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return false
		}
		*opts = trial
		fmt.Printf("flavor set to %s\n", opts.Flavor)
	case ":help":
		fmt.Println("  :flavor [name]  show or switch the target flavor")
		fmt.Println("  :quit           exit")
	default:
		fmt.Printf("unknown command %s. Type :help for commands.\n", cmd)
	}
	return false
}
