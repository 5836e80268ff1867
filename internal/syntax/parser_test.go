package syntax

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/pomsky-go/pomsky/internal/diagnose"
)

func parseOK(t *testing.T, source string) Rule {
	t.Helper()
	rule, diagnostics := Parse(source, 0)
	if diagnose.HasErrors(diagnostics) {
		t.Fatalf("Parse(%q) failed: %v", source, diagnostics)
	}
	if rule == nil {
		t.Fatalf("Parse(%q) returned nil rule without errors", source)
	}
	return rule
}

func parseErr(t *testing.T, source string) []diagnose.Diagnostic {
	t.Helper()
	rule, diagnostics := Parse(source, 0)
	if !diagnose.HasErrors(diagnostics) {
		t.Fatalf("Parse(%q) succeeded, want errors", source)
	}
	if rule != nil {
		t.Fatalf("Parse(%q) returned a rule alongside errors", source)
	}
	return diagnostics
}

func TestParseLiteral(t *testing.T) {
	lit, ok := parseOK(t, `'hello'`).(Literal)
	assert.Assert(t, ok)
	assert.Equal(t, lit.Content, "hello")
	assert.Equal(t, lit.Span, NewSpan(0, 7))

	lit, ok = parseOK(t, `"a\"b\\c"`).(Literal)
	assert.Assert(t, ok)
	assert.Equal(t, lit.Content, `a"b\c`)
}

func TestParseSequence(t *testing.T) {
	group, ok := parseOK(t, `'a' 'b' 'c'`).(Group)
	assert.Assert(t, ok)
	assert.Equal(t, group.Kind, GroupImplicit)
	assert.Equal(t, len(group.Parts), 3)

	// a single expression is not wrapped
	_, ok = parseOK(t, `'a'`).(Literal)
	assert.Assert(t, ok)
}

func TestParseAlternation(t *testing.T) {
	alt, ok := parseOK(t, `'a' | 'b' 'c' | 'd'`).(Alternation)
	assert.Assert(t, ok)
	assert.Equal(t, len(alt.Alts), 3)

	// a leading pipe is allowed
	_, ok = parseOK(t, `| 'a'`).(Literal)
	assert.Assert(t, ok)

	// empty input matches the empty string
	empty, ok := parseOK(t, ``).(Alternation)
	assert.Assert(t, ok)
	assert.Equal(t, len(empty.Alts), 0)
}

func TestParseIntersection(t *testing.T) {
	inter, ok := parseOK(t, `[w] & [d] & [s]`).(Intersection)
	assert.Assert(t, ok)
	assert.Equal(t, len(inter.Rules), 3)
}

func TestParseGroups(t *testing.T) {
	group, ok := parseOK(t, `('a')`).(Group)
	assert.Assert(t, ok)
	assert.Equal(t, group.Kind, GroupNormal)

	group, ok = parseOK(t, `:('a')`).(Group)
	assert.Assert(t, ok)
	assert.Equal(t, group.Kind, GroupCapturing)
	assert.Equal(t, group.Name, "")

	group, ok = parseOK(t, `:year('a')`).(Group)
	assert.Assert(t, ok)
	assert.Equal(t, group.Kind, GroupCapturing)
	assert.Equal(t, group.Name, "year")

	group, ok = parseOK(t, `atomic('a')`).(Group)
	assert.Assert(t, ok)
	assert.Equal(t, group.Kind, GroupAtomic)
}

func TestParseRepetition(t *testing.T) {
	tests := []struct {
		source     string
		lower      uint32
		upper      int64 // -1 for unbounded
		quantifier Quantifier
	}{
		{`'a'*`, 0, -1, QuantifierDefault},
		{`'a'+`, 1, -1, QuantifierDefault},
		{`'a'?`, 0, 1, QuantifierDefault},
		{`'a'{3}`, 3, 3, QuantifierDefault},
		{`'a'{2,}`, 2, -1, QuantifierDefault},
		{`'a'{,5}`, 0, 5, QuantifierDefault},
		{`'a'{2,5}`, 2, 5, QuantifierDefault},
		{`'a'+ lazy`, 1, -1, QuantifierLazy},
		{`'a'* greedy`, 0, -1, QuantifierGreedy},
	}

	for _, tt := range tests {
		rep, ok := parseOK(t, tt.source).(*Repetition)
		if !ok {
			t.Errorf("Parse(%q) is not a repetition", tt.source)
			continue
		}
		if rep.Lower != tt.lower {
			t.Errorf("Parse(%q).Lower = %d, want %d", tt.source, rep.Lower, tt.lower)
		}
		if tt.upper < 0 {
			if rep.Upper != nil {
				t.Errorf("Parse(%q).Upper = %d, want unbounded", tt.source, *rep.Upper)
			}
		} else if rep.Upper == nil || int64(*rep.Upper) != tt.upper {
			t.Errorf("Parse(%q).Upper = %v, want %d", tt.source, rep.Upper, tt.upper)
		}
		if rep.Quantifier != tt.quantifier {
			t.Errorf("Parse(%q).Quantifier = %v, want %v", tt.source, rep.Quantifier, tt.quantifier)
		}
	}
}

func TestParseBoundaries(t *testing.T) {
	tests := []struct {
		source string
		kind   BoundaryKind
	}{
		{`^`, BoundaryStart},
		{`$`, BoundaryEnd},
		{`%`, BoundaryWord},
		{`!%`, BoundaryNotWord},
		{`<`, BoundaryWordStart},
		{`>`, BoundaryWordEnd},
	}
	for _, tt := range tests {
		b, ok := parseOK(t, tt.source).(Boundary)
		if !ok {
			t.Errorf("Parse(%q) is not a boundary", tt.source)
			continue
		}
		if b.Kind != tt.kind {
			t.Errorf("Parse(%q).Kind = %v, want %v", tt.source, b.Kind, tt.kind)
		}
	}
}

func TestParseDeprecatedAnchors(t *testing.T) {
	tests := []struct {
		source string
		kind   BoundaryKind
	}{
		{`<%`, BoundaryStart},
		{`%>`, BoundaryEnd},
	}
	for _, tt := range tests {
		rule, diagnostics := Parse(tt.source, 0)
		if diagnose.HasErrors(diagnostics) {
			t.Fatalf("Parse(%q) failed: %v", tt.source, diagnostics)
		}
		b, ok := rule.(Boundary)
		if !ok || b.Kind != tt.kind {
			t.Errorf("Parse(%q) = %#v, want boundary %v", tt.source, rule, tt.kind)
		}
		if len(diagnostics) != 1 || diagnostics[0].Code != diagnose.CodeDeprecatedSyntax ||
			diagnostics[0].Severity != diagnose.SeverityWarning {
			t.Errorf("Parse(%q) diagnostics = %v, want one deprecation warning", tt.source, diagnostics)
		}
	}

	// with whitespace between, these are two separate boundaries
	group, ok := parseOK(t, `< %`).(Group)
	assert.Assert(t, ok)
	assert.Equal(t, len(group.Parts), 2)
}

func TestParseLookaround(t *testing.T) {
	tests := []struct {
		source string
		kind   LookaroundKind
	}{
		{`>> 'a'`, LookAhead},
		{`!>> 'a'`, LookAheadNegative},
		{`<< 'a'`, LookBehind},
		{`!<< 'a'`, LookBehindNegative},
	}
	for _, tt := range tests {
		l, ok := parseOK(t, tt.source).(*Lookaround)
		if !ok {
			t.Errorf("Parse(%q) is not a lookaround", tt.source)
			continue
		}
		if l.Kind != tt.kind {
			t.Errorf("Parse(%q).Kind = %v, want %v", tt.source, l.Kind, tt.kind)
		}
	}
}

func TestParseReference(t *testing.T) {
	ref, ok := parseOK(t, `::3`).(Reference)
	assert.Assert(t, ok)
	assert.Equal(t, ref.Target, RefNumber)
	assert.Equal(t, ref.Number, int32(3))

	ref, ok = parseOK(t, `::year`).(Reference)
	assert.Assert(t, ok)
	assert.Equal(t, ref.Target, RefNamed)
	assert.Equal(t, ref.Name, "year")

	ref, ok = parseOK(t, `::+2`).(Reference)
	assert.Assert(t, ok)
	assert.Equal(t, ref.Target, RefRelative)
	assert.Equal(t, ref.Number, int32(2))

	ref, ok = parseOK(t, `::-1`).(Reference)
	assert.Assert(t, ok)
	assert.Equal(t, ref.Target, RefRelative)
	assert.Equal(t, ref.Number, int32(-1))
}

func TestParseCharSet(t *testing.T) {
	set, ok := parseOK(t, `['ac' 'd']`).(CharSet)
	assert.Assert(t, ok)
	assert.DeepEqual(t, set.Items, []ClassItem{
		ClassChar{Char: 'a'}, ClassChar{Char: 'c'}, ClassChar{Char: 'd'},
	})

	set, ok = parseOK(t, `['a'-'f']`).(CharSet)
	assert.Assert(t, ok)
	assert.DeepEqual(t, set.Items, []ClassItem{ClassRange{First: 'a', Last: 'f'}})

	set, ok = parseOK(t, `[n t U+2B]`).(CharSet)
	assert.Assert(t, ok)
	assert.DeepEqual(t, set.Items, []ClassItem{
		ClassChar{Char: '\n'}, ClassChar{Char: '\t'}, ClassChar{Char: '+'},
	})

	set, ok = parseOK(t, `!['a']`).(CharSet)
	assert.Assert(t, ok)
	assert.Assert(t, set.Negated)

	set, ok = parseOK(t, `[!w]`).(CharSet)
	assert.Assert(t, ok)
	named, ok := set.Items[0].(ClassNamed)
	assert.Assert(t, ok)
	assert.Assert(t, named.Negative)
}

func TestParseRange(t *testing.T) {
	r, ok := parseOK(t, `range '0'-'255'`).(Range)
	assert.Assert(t, ok)
	assert.DeepEqual(t, r.Start, []uint8{0})
	assert.DeepEqual(t, r.End, []uint8{2, 5, 5})
	assert.Equal(t, r.Radix, uint8(10))

	r, ok = parseOK(t, `range '0'-'ff' base 16`).(Range)
	assert.Assert(t, ok)
	assert.DeepEqual(t, r.End, []uint8{15, 15})
	assert.Equal(t, r.Radix, uint8(16))
}

func TestParseStatements(t *testing.T) {
	se, ok := parseOK(t, `enable lazy; 'a'`).(*StmtExpr)
	assert.Assert(t, ok)
	mode, ok := se.Stmt.(ModeStmt)
	assert.Assert(t, ok)
	assert.Equal(t, mode.Setting, SettingLazy)
	assert.Assert(t, mode.Enable)

	se, ok = parseOK(t, `disable unicode; 'a'`).(*StmtExpr)
	assert.Assert(t, ok)
	mode, ok = se.Stmt.(ModeStmt)
	assert.Assert(t, ok)
	assert.Equal(t, mode.Setting, SettingUnicode)
	assert.Assert(t, !mode.Enable)

	se, ok = parseOK(t, `let x = 'a' | 'b'; x x`).(*StmtExpr)
	assert.Assert(t, ok)
	let, ok := se.Stmt.(LetStmt)
	assert.Assert(t, ok)
	assert.Equal(t, let.Name, "x")
	_, ok = let.Rule.(Alternation)
	assert.Assert(t, ok)

	se, ok = parseOK(t, "test { match '12'; } 'a'").(*StmtExpr)
	assert.Assert(t, ok)
	test, ok := se.Stmt.(TestStmt)
	assert.Assert(t, ok)
	assert.Equal(t, test.Content, "match '12';")
}

func TestParseVariableUse(t *testing.T) {
	v, ok := parseOK(t, `x`).(Variable)
	assert.Assert(t, ok)
	assert.Equal(t, v.Name, "x")
}

func TestParseRegexLiteral(t *testing.T) {
	r, ok := parseOK(t, `regex "[\\d]"`).(Regex)
	assert.Assert(t, ok)
	assert.Equal(t, r.Content, `[\d]`)
}

func TestParseRecursion(t *testing.T) {
	_, ok := parseOK(t, `recursion`).(Recursion)
	assert.Assert(t, ok)
}

func TestParseCodePointRule(t *testing.T) {
	set, ok := parseOK(t, `U+41`).(CharSet)
	assert.Assert(t, ok)
	assert.DeepEqual(t, set.Items, []ClassItem{ClassChar{Char: 'A'}})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   diagnose.Code
	}{
		{"empty alternative", `'a' |`, diagnose.CodeUnexpectedToken},
		{"leftover tokens", `'a' )`, diagnose.CodeUnexpectedToken},
		{"negated literal", `!'a'`, diagnose.CodeIllegalNegation},
		{"double negation", `!!['a']`, diagnose.CodeIllegalNegation},
		{"empty class", `[]`, diagnose.CodeEmptyClass},
		{"negated empty class", `![]`, diagnose.CodeNegatedEmptyClass},
		{"caret negation", `[^'a']`, diagnose.CodeIllegalClassNegation},
		{"descending class range", `['z'-'a']`, diagnose.CodeDescendingClassRange},
		{"multi-char range bound", `['ab'-'c']`, diagnose.CodeUnexpectedToken},
		{"unknown shorthand", `[foo]`, diagnose.CodeUnknownShorthand},
		{"descending repetition", `'a'{4,2}`, diagnose.CodeBoundsNotAscending},
		{"repetition chain plus", `'a'++`, diagnose.CodeRepetitionChain},
		{"repetition chain question", `'a'+?`, diagnose.CodeRepetitionChain},
		{"repetition chain braces", `'a'{2}{3}`, diagnose.CodeRepetitionChain},
		{"repetition too large", `'a'{70000}`, diagnose.CodeInvalidNumber},
		{"bare reference", `::`, diagnose.CodeUnexpectedToken},
		{"descending range", `range '9'-'1'`, diagnose.CodeRangeNotIncreasing},
		{"longer start than end", `range '100'-'99'`, diagnose.CodeRangeNotIncreasing},
		{"range digits out of base", `range '0'-'z'`, diagnose.CodeInvalidNumber},
		{"base too small", `range '0'-'1' base 1`, diagnose.CodeInvalidNumber},
		{"base too large", `range '0'-'1' base 40`, diagnose.CodeInvalidNumber},
		{"reserved variable name", `let range = 'a'; 'b'`, diagnose.CodeReservedWord},
		{"reserved group name", `:base('a')`, diagnose.CodeReservedWord},
		{"group name starts with digit", `:1a('x')`, diagnose.CodeUnexpectedToken},
		{"duplicate let", `let x = 'a'; let x = 'b'; x`, diagnose.CodeDuplicateLet},
		{"missing let keyword", `x = 'a'`, diagnose.CodeUnexpectedToken},
		{"bare keyword", `greedy`, diagnose.CodeReservedWord},
		{"mode without setting", `enable foo; 'a'`, diagnose.CodeUnexpectedToken},
		{"nested test block", `(test { a } 'a')`, diagnose.CodeUnsupportedSyntax},
		{"unterminated test block", `test { 'a'`, diagnose.CodeUnexpectedToken},
		{"invalid escape", `"a\nb"`, diagnose.CodeInvalidEscape},
		{"surrogate code point", `U+D800`, diagnose.CodeInvalidCodePoint},
		{"code point too large", `U+110000`, diagnose.CodeInvalidCodePoint},
		{"regex group syntax", `(?:'a')`, diagnose.CodeRegexGroupSyntax},
		{"regex backslash", `\d`, diagnose.CodeRegexBackslash},
		{"unclosed string", `'abc`, diagnose.CodeUnclosedString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diagnostics := parseErr(t, tt.source)
			for _, d := range diagnostics {
				if d.Code == tt.code {
					return
				}
			}
			t.Errorf("Parse(%q) = %v, want code %s", tt.source, diagnostics, tt.code)
		})
	}
}

func TestParseVariableNameTooLong(t *testing.T) {
	source := "let " + strings.Repeat("x", 129) + " = 'a'; 'b'"
	diagnostics := parseErr(t, source)
	assert.Equal(t, diagnostics[0].Code, diagnose.CodeIdentTooLong)
}

func TestParseRecursionLimit(t *testing.T) {
	source := strings.Repeat("(", 10) + "'a'" + strings.Repeat(")", 10)
	if _, diagnostics := Parse(source, 64); diagnose.HasErrors(diagnostics) {
		t.Fatalf("nesting below the limit failed: %v", diagnostics)
	}

	rule, diagnostics := Parse(source, 5)
	if rule != nil || !diagnose.HasErrors(diagnostics) {
		t.Fatal("nesting above the limit succeeded")
	}
	assert.Equal(t, diagnostics[0].Code, diagnose.CodeRecursionLimit)
}

func TestParseCollectsMultipleErrors(t *testing.T) {
	_, diagnostics := Parse(`'a'++ | ['z'-'a'] | 'c'{4,2}`, 0)
	if len(diagnostics) < 3 {
		t.Fatalf("got %d diagnostics, want at least 3: %v", len(diagnostics), diagnostics)
	}
	codes := map[diagnose.Code]bool{}
	for _, d := range diagnostics {
		codes[d.Code] = true
	}
	for _, code := range []diagnose.Code{
		diagnose.CodeRepetitionChain,
		diagnose.CodeDescendingClassRange,
		diagnose.CodeBoundsNotAscending,
	} {
		if !codes[code] {
			t.Errorf("missing code %s in %v", code, diagnostics)
		}
	}
}

func TestParseSpans(t *testing.T) {
	source := `'ab' :x('cd')`
	group, ok := parseOK(t, source).(Group)
	assert.Assert(t, ok)
	assert.Equal(t, group.Span, NewSpan(0, len(source)))
	assert.Equal(t, group.Parts[0].RuleSpan().Text(source), `'ab'`)
	assert.Equal(t, group.Parts[1].RuleSpan().Text(source), `:x('cd')`)
}
