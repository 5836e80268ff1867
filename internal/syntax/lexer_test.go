package syntax

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tokenKinds(source string) []TokenKind {
	var kinds []TokenKind
	for _, tok := range Tokenize(source) {
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		source string
		want   []TokenKind
	}{
		{``, []TokenKind{TEOF}},
		{`'hello'`, []TokenKind{TString, TEOF}},
		{`"dou'ble"`, []TokenKind{TString, TEOF}},
		{`'a' 'b'`, []TokenKind{TString, TString, TEOF}},
		{`:name('x')`, []TokenKind{TColon, TIdent, TOpenParen, TString, TCloseParen, TEOF}},
		{`'a'{2,5}`, []TokenKind{TString, TOpenBrace, TNumber, TComma, TNumber, TCloseBrace, TEOF}},
		{`::1 ::name`, []TokenKind{TDoubleColon, TNumber, TDoubleColon, TIdent, TEOF}},
		{`>> 'a' << 'b'`, []TokenKind{TLookAhead, TString, TLookBehind, TString, TEOF}},
		{`< 'a' >`, []TokenKind{TAngleLeft, TString, TAngleRight, TEOF}},
		{`^ % $`, []TokenKind{TCaret, TPercent, TDollar, TEOF}},
		{`['a'-'z']`, []TokenKind{TOpenBracket, TString, TDash, TString, TCloseBracket, TEOF}},
		{`[w] & [d]`, []TokenKind{TOpenBracket, TIdent, TCloseBracket, TAmpersand, TOpenBracket, TIdent, TCloseBracket, TEOF}},
		{`U+1F60A`, []TokenKind{TCodePoint, TEOF}},
		{`U + FF`, []TokenKind{TCodePoint, TEOF}},
		{`let x = 'a';`, []TokenKind{TIdent, TIdent, TEquals, TString, TSemicolon, TEOF}},
		{`!>> 'a'`, []TokenKind{TNot, TLookAhead, TString, TEOF}},
		{`.`, []TokenKind{TDot, TEOF}},
		{`'a'* 'b'+ 'c'?`, []TokenKind{TString, TStar, TString, TPlus, TString, TQuestion, TEOF}},
		{`'a' | 'b'`, []TokenKind{TString, TPipe, TString, TEOF}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, tokenKinds(tt.source)); diff != "" {
			t.Errorf("Tokenize(%q) kinds mismatch (-want +got):\n%s", tt.source, diff)
		}
	}
}

func TestTokenizeComments(t *testing.T) {
	source := "# leading comment\n'a' # trailing\n# another\n'b'"
	want := []TokenKind{TString, TString, TEOF}
	if diff := cmp.Diff(want, tokenKinds(source)); diff != "" {
		t.Errorf("comment skipping mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeSpans(t *testing.T) {
	source := `'ab' 'cd'`
	tokens := Tokenize(source)
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}
	if got := tokens[0].Span.Text(source); got != `'ab'` {
		t.Errorf("first span text = %q", got)
	}
	if got := tokens[1].Span.Text(source); got != `'cd'` {
		t.Errorf("second span text = %q", got)
	}
	eof := tokens[2]
	if eof.Kind != TEOF || eof.Span.Start != len(source) || !eof.Span.IsEmpty() {
		t.Errorf("EOF token = %+v", eof)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		source string
		help   HelpMsg
	}{
		{`'unclosed`, HelpUnclosedString},
		{`"unclosed`, HelpUnclosedString},
		{`007`, HelpLeadingZero},
		{`U+XYZ`, HelpInvalidCodePoint},
		{`(?:`, HelpGroupNonCapturing},
		{`(?=`, HelpGroupLookahead},
		{`(?!`, HelpGroupLookaheadNeg},
		{`(?<=`, HelpGroupLookbehind},
		{`(?<!`, HelpGroupLookbehindNeg},
		{`(?<name>`, HelpGroupNamed},
		{`(?P<name>`, HelpGroupNamed},
		{`(?>`, HelpGroupAtomic},
		{`(?(`, HelpGroupConditional},
		{`(?|`, HelpGroupBranchReset},
		{`(?P=name)`, HelpGroupPcreBackreference},
		{`(?&name`, HelpGroupSubroutineCall},
		{`(?# comment)`, HelpGroupComment},
		{`(?i)`, HelpGroupOther},
		{`\d`, HelpBackslash},
		{`\u00FF`, HelpBackslashU4},
		{`\xFF`, HelpBackslashX2},
		{`\u{1F60A}`, HelpBackslashUnicode},
		{`\p{Greek}`, HelpBackslashProperty},
		{`\k<name>`, HelpBackslashGK},
		{`\g{1}`, HelpBackslashGK},
		{`@`, HelpNone},
	}

	for _, tt := range tests {
		tokens := Tokenize(tt.source)
		if tokens[0].Kind != TError {
			t.Errorf("Tokenize(%q)[0].Kind = %v, want TError", tt.source, tokens[0].Kind)
			continue
		}
		if tokens[0].Help != tt.help {
			t.Errorf("Tokenize(%q)[0].Help = %v, want %v", tt.source, tokens[0].Help, tt.help)
		}
	}
}

func TestBackslashHelp(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`\b`, "Word boundaries are written as `%` in Pomsky"},
		{`\d`, "The digit shorthand is written as `[digit]` or `[d]` in Pomsky"},
		{`\W`, "The negated word shorthand is written as `[!word]` in Pomsky"},
		{`\A`, "The start of the string is written as `^` in Pomsky"},
		{`\z`, "The end of the string is written as `$` in Pomsky"},
		{`\X`, "A grapheme cluster is matched with `Grapheme` in Pomsky"},
		{`\q`, "Escapes are not needed in Pomsky, because strings are quoted"},
	}

	for _, tt := range tests {
		tokens := Tokenize(tt.source)
		if tokens[0].Kind != TError {
			t.Fatalf("Tokenize(%q)[0].Kind = %v, want TError", tt.source, tokens[0].Kind)
		}
		got := tokens[0].Help.Help(tt.source)
		if got != tt.want {
			t.Errorf("Help for %q = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestIsReservedWord(t *testing.T) {
	for _, word := range []string{"U", "let", "lazy", "greedy", "range", "base", "atomic", "enable", "disable", "if", "else", "recursion", "regex", "test", "call"} {
		if !IsReservedWord(word) {
			t.Errorf("IsReservedWord(%q) = false", word)
		}
	}
	for _, word := range []string{"word", "x", "Greek", "unicode", "Let"} {
		if IsReservedWord(word) {
			t.Errorf("IsReservedWord(%q) = true", word)
		}
	}
}
