package syntax

// Rule is a node of the abstract syntax tree. All implementations carry
// the span of source text they were parsed from.
type Rule interface {
	// RuleSpan returns the source location of the node.
	RuleSpan() Span
	rule()
}

// Literal is a quoted string, matched verbatim.
type Literal struct {
	Content string
	Span    Span
}

// CharSet is a set of characters in brackets, e.g. `['a'-'f' word U+2B]`.
// A negated set matches any single character not in the set.
type CharSet struct {
	Items   []ClassItem
	Negated bool
	Span    Span
}

// ClassItem is one element of a CharSet: a single character, a range, or
// a named class.
type ClassItem interface {
	classItem()
}

// ClassChar is a single code point in a character set.
type ClassChar struct {
	Char rune
}

// ClassRange is an inclusive range of code points.
type ClassRange struct {
	First rune
	Last  rune
}

// ClassNamed is a shorthand (`word`), Unicode category, script, block or
// binary property. Negative items subtract everything the name matches.
type ClassNamed struct {
	Name     NamedClass
	Negative bool
	Span     Span
}

func (ClassChar) classItem()  {}
func (ClassRange) classItem() {}
func (ClassNamed) classItem() {}

// GroupKind distinguishes the group syntaxes.
type GroupKind uint8

const (
	// GroupNormal is plain parentheses with no effect on matching.
	GroupNormal GroupKind = iota
	// GroupImplicit wraps a sequence of expressions without parentheses
	// in the source.
	GroupImplicit
	// GroupCapturing is `:(...)` or `:name(...)`.
	GroupCapturing
	// GroupAtomic is `atomic(...)`.
	GroupAtomic
)

// Group is a sequence of rules, possibly capturing or atomic.
type Group struct {
	Parts []Rule
	Kind  GroupKind
	// Name is the capture name, or "" for unnamed captures and
	// non-capturing groups.
	Name string
	Span Span
}

// Alternation is two or more alternatives separated by `|`.
type Alternation struct {
	Alts []Rule
	Span Span
}

// Intersection is two or more operands separated by `&`. All operands
// must match the same text.
type Intersection struct {
	Rules []Rule
	Span  Span
}

// Quantifier controls backtracking behavior of a repetition.
type Quantifier uint8

const (
	// QuantifierDefault follows the ambient mode, greedy unless
	// `enable lazy;` is active.
	QuantifierDefault Quantifier = iota
	// QuantifierGreedy is the explicit `greedy` keyword.
	QuantifierGreedy
	// QuantifierLazy is the explicit `lazy` keyword.
	QuantifierLazy
)

// Repetition repeats its content. Upper is nil when unbounded.
type Repetition struct {
	Rule       Rule
	Lower      uint32
	Upper      *uint32
	Quantifier Quantifier
	Span       Span
}

// BoundaryKind is the kind of anchor or word boundary.
type BoundaryKind uint8

const (
	// BoundaryStart is `^`.
	BoundaryStart BoundaryKind = iota
	// BoundaryEnd is `$`.
	BoundaryEnd
	// BoundaryWord is `%`.
	BoundaryWord
	// BoundaryNotWord is `!%`.
	BoundaryNotWord
	// BoundaryWordStart is `<`.
	BoundaryWordStart
	// BoundaryWordEnd is `>`.
	BoundaryWordEnd
)

// Boundary is a zero-width assertion.
type Boundary struct {
	Kind BoundaryKind
	Span Span
}

// LookaroundKind is the kind of lookaround assertion.
type LookaroundKind uint8

const (
	// LookAhead is `>>`.
	LookAhead LookaroundKind = iota
	// LookAheadNegative is `!>>`.
	LookAheadNegative
	// LookBehind is `<<`.
	LookBehind
	// LookBehindNegative is `!<<`.
	LookBehindNegative
)

// Lookaround asserts that its content matches (or doesn't) at the
// current position without consuming input.
type Lookaround struct {
	Kind LookaroundKind
	Rule Rule
	Span Span
}

// RefTarget says how a reference names its group.
type RefTarget uint8

const (
	// RefNamed is `::name`.
	RefNamed RefTarget = iota
	// RefNumber is `::3`.
	RefNumber
	// RefRelative is `::-1` or `::+1`, counted from the reference site.
	RefRelative
)

// Reference is a backreference (or forward reference) to a capturing
// group.
type Reference struct {
	Target RefTarget
	Name   string
	Number int32
	Span   Span
}

// Range matches numbers from Start to End, both given as digit slices in
// the given radix. The bounds are inclusive.
type Range struct {
	Start []uint8
	End   []uint8
	Radix uint8
	Span  Span
}

// Variable is the usage site of a let binding or built-in variable.
type Variable struct {
	Name string
	Span Span
}

// Dot is `.`, matching any character except line breaks.
type Dot struct {
	Span Span
}

// Regex is an inline regex literal, `regex "..."`, passed through to the
// output without escaping.
type Regex struct {
	Content string
	Span    Span
}

// Recursion is the `recursion` keyword, matching the whole pattern
// recursively.
type Recursion struct {
	Span Span
}

// StmtExpr attaches a statement to the expression it scopes over.
type StmtExpr struct {
	Stmt Stmt
	Rule Rule
	Span Span
}

// Stmt is a statement before an expression: a mode modifier, a let
// binding or a test block.
type Stmt interface {
	stmt()
}

// Setting is a boolean mode toggled by `enable`/`disable`.
type Setting uint8

const (
	// SettingLazy flips the default quantifier to lazy.
	SettingLazy Setting = iota
	// SettingUnicode controls whether `%` and shorthands are
	// Unicode-aware. It is on by default.
	SettingUnicode
)

// ModeStmt is `enable lazy;`, `disable unicode;` and friends.
type ModeStmt struct {
	Setting Setting
	Enable  bool
	Span    Span
}

// LetStmt is `let name = expression;`.
type LetStmt struct {
	Name     string
	Rule     Rule
	NameSpan Span
	Span     Span
}

// TestStmt is a `test { ... }` block. The content is kept verbatim for
// external runners; compilation only checks that the block is balanced
// and at the top level.
type TestStmt struct {
	Content string
	Span    Span
}

func (ModeStmt) stmt() {}
func (LetStmt) stmt()  {}
func (TestStmt) stmt() {}

func (r Literal) RuleSpan() Span      { return r.Span }
func (r CharSet) RuleSpan() Span      { return r.Span }
func (r Group) RuleSpan() Span        { return r.Span }
func (r Alternation) RuleSpan() Span  { return r.Span }
func (r Intersection) RuleSpan() Span { return r.Span }
func (r *Repetition) RuleSpan() Span  { return r.Span }
func (r Boundary) RuleSpan() Span     { return r.Span }
func (r *Lookaround) RuleSpan() Span  { return r.Span }
func (r Reference) RuleSpan() Span    { return r.Span }
func (r Range) RuleSpan() Span        { return r.Span }
func (r Variable) RuleSpan() Span     { return r.Span }
func (r Dot) RuleSpan() Span          { return r.Span }
func (r Regex) RuleSpan() Span        { return r.Span }
func (r Recursion) RuleSpan() Span    { return r.Span }
func (r *StmtExpr) RuleSpan() Span    { return r.Span }

func (Literal) rule()      {}
func (CharSet) rule()      {}
func (Group) rule()        {}
func (Alternation) rule()  {}
func (Intersection) rule() {}
func (*Repetition) rule()  {}
func (Boundary) rule()     {}
func (*Lookaround) rule()  {}
func (Reference) rule()    {}
func (Range) rule()        {}
func (Variable) rule()     {}
func (Dot) rule()          {}
func (Regex) rule()        {}
func (Recursion) rule()    {}
func (*StmtExpr) rule()    {}
