package diagnose

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCodeString(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{CodeUnknownToken, "P0001"},
		{CodeUnexpectedToken, "P0100"},
		{CodeDescendingClassRange, "P0115"},
		{CodeDuplicateLet, "P0300"},
		{CodeInfiniteRecursion, "P0314"},
		{CodeCompat, "P0400"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("Code(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestKindFromName(t *testing.T) {
	for _, name := range []string{"syntax", "resolve", "unsupported", "deprecated", "compat", "limits"} {
		kind, ok := KindFromName(name)
		if !ok {
			t.Errorf("KindFromName(%q) not found", name)
			continue
		}
		if kind.String() != name {
			t.Errorf("KindFromName(%q).String() = %q", name, kind.String())
		}
	}
	if _, ok := KindFromName("nonsense"); ok {
		t.Error("KindFromName accepted an unknown name")
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Error(KindResolve, CodeUnknownVariable, NewSpan(4, 7), "variable `%s` is not defined", "foo")
	want := "error P0310 at 4..7: variable `foo` is not defined"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestWithHelp(t *testing.T) {
	d := Warning(KindDeprecated, CodeDeprecatedSyntax, NewSpan(0, 2), "this syntax is deprecated").
		WithHelp("use `%s` instead", "[word]")
	if d.Help != "use `[word]` instead" {
		t.Errorf("Help = %q", d.Help)
	}
	if d.Severity != SeverityWarning {
		t.Errorf("Severity = %v, want warning", d.Severity)
	}
}

func TestSort(t *testing.T) {
	diagnostics := []Diagnostic{
		Warning(KindCompat, CodeCompat, NewSpan(5, 9), "third"),
		Error(KindSyntax, CodeUnexpectedToken, NewSpan(5, 9), "second"),
		Error(KindSyntax, CodeUnknownToken, NewSpan(0, 3), "first"),
		Error(KindResolve, CodeUnknownReference, NewSpan(5, 12), "fourth"),
	}
	Sort(diagnostics)

	var got []string
	for _, d := range diagnostics {
		got = append(got, d.Message)
	}
	want := []string{"first", "second", "third", "fourth"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sort order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortStable(t *testing.T) {
	diagnostics := []Diagnostic{
		Error(KindSyntax, CodeUnknownToken, NewSpan(1, 2), "a"),
		Error(KindSyntax, CodeUnknownToken, NewSpan(1, 2), "b"),
	}
	Sort(diagnostics)
	if diagnostics[0].Message != "a" || diagnostics[1].Message != "b" {
		t.Errorf("equal diagnostics reordered: %v", diagnostics)
	}
}

func TestHasErrors(t *testing.T) {
	if HasErrors(nil) {
		t.Error("HasErrors(nil) = true")
	}
	warnings := []Diagnostic{Warning(KindCompat, CodeCompat, EmptySpan(), "w")}
	if HasErrors(warnings) {
		t.Error("HasErrors on warnings only = true")
	}
	mixed := append(warnings, Error(KindSyntax, CodeUnknownToken, EmptySpan(), "e"))
	if !HasErrors(mixed) {
		t.Error("HasErrors missed an error")
	}
}

func TestSuppress(t *testing.T) {
	diagnostics := []Diagnostic{
		Error(KindDeprecated, CodeDeprecatedSyntax, NewSpan(0, 1), "kept error"),
		Warning(KindDeprecated, CodeDeprecatedSyntax, NewSpan(1, 2), "dropped"),
		Warning(KindCompat, CodeCompat, NewSpan(2, 3), "kept warning"),
	}

	kept := Suppress(diagnostics, map[Kind]bool{KindDeprecated: true})
	var got []string
	for _, d := range kept {
		got = append(got, d.Message)
	}
	want := []string{"kept error", "kept warning"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Suppress mismatch (-want +got):\n%s", diff)
	}
}

func TestSuppressEmptySet(t *testing.T) {
	diagnostics := []Diagnostic{
		Warning(KindCompat, CodeCompat, EmptySpan(), "w"),
	}
	if got := Suppress(diagnostics, nil); len(got) != 1 {
		t.Errorf("Suppress with empty set dropped diagnostics: %v", got)
	}
}

func TestSpanJoin(t *testing.T) {
	tests := []struct {
		a, b, want Span
	}{
		{NewSpan(2, 5), NewSpan(7, 9), NewSpan(2, 9)},
		{NewSpan(7, 9), NewSpan(2, 5), NewSpan(2, 9)},
		{NewSpan(2, 5), EmptySpan(), NewSpan(2, 5)},
		{EmptySpan(), NewSpan(2, 5), NewSpan(2, 5)},
		{NewSpan(2, 9), NewSpan(3, 5), NewSpan(2, 9)},
	}
	for _, tt := range tests {
		if got := tt.a.Join(tt.b); got != tt.want {
			t.Errorf("%v.Join(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSpanText(t *testing.T) {
	source := "let x = 'foo';"
	if got := NewSpan(4, 5).Text(source); got != "x" {
		t.Errorf("Text = %q, want %q", got, "x")
	}
	if got := NewSpan(0, 100).Text(source); got != "" {
		t.Errorf("out-of-bounds Text = %q, want empty", got)
	}
	if got := EmptySpan().Text(source); got != "" {
		t.Errorf("empty span Text = %q, want empty", got)
	}
}
