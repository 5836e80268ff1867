package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pomsky-go/pomsky/pkg/pomsky"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Package:    "patterns",
		OutputFile: "patterns_gen.go",
		Patterns:   []Pattern{{Name: "Ip", Source: "range '0'-'255'"}},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() returned error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty package", func(c *Config) { c.Package = "" }, "package cannot be empty"},
		{"empty output", func(c *Config) { c.OutputFile = "" }, "output file cannot be empty"},
		{"no patterns", func(c *Config) { c.Patterns = nil }, "no patterns given"},
		{"wrong flavor", func(c *Config) { c.Options.Flavor = "pcre" }, "re2 flavor"},
		{
			"invalid name",
			func(c *Config) { c.Patterns = []Pattern{{Name: "kebab-case", Source: "'a'"}} },
			"not a valid Go identifier",
		},
		{
			"duplicate name",
			func(c *Config) {
				c.Patterns = []Pattern{{Name: "Ip", Source: "'a'"}, {Name: "Ip", Source: "'b'"}}
			},
			"used twice",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)
			err := config.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "patterns_gen.go")
	config := Config{
		Package:    "patterns",
		OutputFile: out,
		Patterns: []Pattern{
			{Name: "Octet", Source: "range '0'-'255'"},
			{Name: "word", Source: "disable unicode; [word]+"},
		},
	}

	if err := New(config).Generate(); err != nil {
		t.Fatalf("Generate() returned error: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	code := string(raw)

	for _, want := range []string{
		"package patterns",
		"Code generated by pomsky-gen. DO NOT EDIT.",
		`const OctetPattern = "`,
		"var Octet = regexp.MustCompile(OctetPattern)",
		"const WordPattern = ",
		"var Word = regexp.MustCompile(WordPattern)",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated code is missing %q:\n%s", want, code)
		}
	}
}

func TestGenerateRejectsBadPattern(t *testing.T) {
	config := Config{
		Package:    "patterns",
		OutputFile: filepath.Join(t.TempDir(), "patterns_gen.go"),
		Patterns:   []Pattern{{Name: "Bad", Source: "[foo]"}},
	}

	err := New(config).Generate()
	if err == nil || !strings.Contains(err.Error(), "P0116") {
		t.Errorf("Generate() = %v, want P0116 error", err)
	}
}

func TestGenerateRejectsNonRe2Constructs(t *testing.T) {
	config := Config{
		Package:    "patterns",
		OutputFile: filepath.Join(t.TempDir(), "patterns_gen.go"),
		Patterns:   []Pattern{{Name: "Backref", Source: ":('a') ::1"}},
		Options:    pomsky.Options{Allowed: ""},
	}

	err := New(config).Generate()
	if err == nil || !strings.Contains(err.Error(), "P0301") {
		t.Errorf("Generate() = %v, want P0301 error", err)
	}
}
