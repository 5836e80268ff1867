package compiler

// The intermediate form produced by resolution. It is deliberately close
// to regex text: all flavor decisions that affect structure have already
// been made, and emission is a single walk. Nodes that the optimizer
// rewrites in place are pointers; everything else is a value.

type regex interface {
	// emit writes the node to the output.
	emit(e *emitter)
	// needsParensInSequence reports whether the node must be wrapped in
	// a non-capturing group when concatenated with siblings.
	needsParensInSequence() bool
	// needsParensBeforeRepetition reports whether the node must be
	// wrapped before a quantifier can apply to it.
	needsParensBeforeRepetition(f Flavor) bool
	// resultIsEmpty reports whether the node always matches the empty
	// string and produces no output.
	resultIsEmpty() bool
	// isAssertion reports whether the node is zero-width.
	isAssertion() bool
	// terminates reports whether matching the node can finish. Only
	// recursion can fail to, by re-entering itself before consuming
	// input.
	terminates() bool
}

// reLiteral matches its content verbatim, escaped as needed.
type reLiteral struct {
	content string
}

// reUnescaped is an inline regex, copied into the output as written.
type reUnescaped struct {
	content string
}

// classRange is an inclusive range of code points. A single character is
// a range with lo == hi.
type classRange struct {
	lo, hi rune
}

// classProp is a shorthand or Unicode property inside a character set,
// already converted for the target flavor.
type classProp struct {
	negative bool
	kind     propKind
	name     string
}

// propKind says how a classProp is written.
type propKind uint8

const (
	// propShorthand is written as a backslash escape: \w, \d, \s, \h, \v.
	propShorthand propKind = iota
	// propCategory is a general category, \p{L} or \pL.
	propCategory
	// propScript is a script name, \p{Greek}.
	propScript
	// propBlock is a block name, \p{InBasic_Latin}.
	propBlock
	// propBinary is a binary property, \p{Alphabetic}.
	propBinary
)

// reCharSet is `[...]` or a single shorthand.
type reCharSet struct {
	negative bool
	ranges   []classRange
	props    []classProp
}

// reCompoundCharSet is an intersection of character sets, emitted with
// the `&&` syntax supported by Java, Ruby and PCRE-style engines.
type reCompoundCharSet struct {
	sets []reCharSet
}

// reGrapheme is `\X`.
type reGrapheme struct{}

// reDot is `.`.
type reDot struct{}

// reGroupKind distinguishes the group forms that survive to emission.
type reGroupKind uint8

const (
	// groupNone emits no delimiters unless parenthesization demands it.
	groupNone reGroupKind = iota
	// groupCapture is `(...)`.
	groupCapture
	// groupNamed is a named capturing group.
	groupNamed
	// groupAtomic is `(?>...)`.
	groupAtomic
)

// reGroup is a sequence of parts, optionally capturing or atomic.
type reGroup struct {
	parts []regex
	kind  reGroupKind
	name  string
}

// reAlternation is `a|b|c`.
type reAlternation struct {
	alts []regex
}

// quantKind says how a repetition backtracks.
type quantKind uint8

const (
	quantGreedy quantKind = iota
	quantLazy
)

// reRepetition repeats its content between lower and upper times. A nil
// upper bound means unbounded.
type reRepetition struct {
	content regex
	lower   uint32
	upper   *uint32
	quant   quantKind
}

// boundKind is the boundary assertion to emit.
type boundKind uint8

const (
	boundStart boundKind = iota
	boundEnd
	boundWord
	boundNotWord
	boundWordStart
	boundWordEnd
)

// reBoundary is a zero-width anchor or word boundary.
type reBoundary struct {
	kind boundKind
}

// lookKind distinguishes the four lookaround forms.
type lookKind uint8

const (
	lookAhead lookKind = iota
	lookAheadNegative
	lookBehind
	lookBehindNegative
)

// reLookaround wraps content in a lookahead or lookbehind.
type reLookaround struct {
	kind    lookKind
	content regex
}

// reReference is a backreference, by name when name is non-empty and by
// absolute group number otherwise.
type reReference struct {
	name   string
	number int
}

// reRecursion is `(?R)`, matching the whole pattern recursively.
type reRecursion struct{}

func (reLiteral) needsParensInSequence() bool         { return false }
func (reUnescaped) needsParensInSequence() bool       { return false }
func (reCharSet) needsParensInSequence() bool         { return false }
func (reCompoundCharSet) needsParensInSequence() bool { return false }
func (reGrapheme) needsParensInSequence() bool        { return false }
func (reDot) needsParensInSequence() bool             { return false }
func (reGroup) needsParensInSequence() bool           { return false }
func (reAlternation) needsParensInSequence() bool     { return true }
func (*reRepetition) needsParensInSequence() bool     { return false }
func (reBoundary) needsParensInSequence() bool        { return false }
func (*reLookaround) needsParensInSequence() bool     { return false }
func (reReference) needsParensInSequence() bool       { return false }
func (reRecursion) needsParensInSequence() bool       { return false }

func (l reLiteral) needsParensBeforeRepetition(Flavor) bool {
	runes := []rune(l.content)
	return len(runes) != 1
}
func (reUnescaped) needsParensBeforeRepetition(Flavor) bool       { return true }
func (reCharSet) needsParensBeforeRepetition(Flavor) bool         { return false }
func (reCompoundCharSet) needsParensBeforeRepetition(Flavor) bool { return false }
func (reGrapheme) needsParensBeforeRepetition(Flavor) bool        { return false }
func (reDot) needsParensBeforeRepetition(Flavor) bool             { return false }

func (g reGroup) needsParensBeforeRepetition(f Flavor) bool {
	if g.kind != groupNone {
		return false
	}
	if len(g.parts) == 1 {
		return g.parts[0].needsParensBeforeRepetition(f)
	}
	return true
}

func (reAlternation) needsParensBeforeRepetition(Flavor) bool { return true }
func (*reRepetition) needsParensBeforeRepetition(Flavor) bool { return true }
func (reBoundary) needsParensBeforeRepetition(Flavor) bool    { return true }

// JavaScript rejects a quantified lookaround in unicode mode.
func (*reLookaround) needsParensBeforeRepetition(f Flavor) bool { return f == FlavorJavaScript }

func (reReference) needsParensBeforeRepetition(Flavor) bool { return false }
func (reRecursion) needsParensBeforeRepetition(Flavor) bool { return false }

func (l reLiteral) resultIsEmpty() bool { return l.content == "" }
func (u reUnescaped) resultIsEmpty() bool {
	return u.content == ""
}
func (reCharSet) resultIsEmpty() bool         { return false }
func (reCompoundCharSet) resultIsEmpty() bool { return false }
func (reGrapheme) resultIsEmpty() bool        { return false }
func (reDot) resultIsEmpty() bool             { return false }

func (g reGroup) resultIsEmpty() bool {
	if g.kind != groupNone {
		return false
	}
	for _, p := range g.parts {
		if !p.resultIsEmpty() {
			return false
		}
	}
	return true
}

func (reAlternation) resultIsEmpty() bool { return false }

func (r *reRepetition) resultIsEmpty() bool { return r.content.resultIsEmpty() }

func (reBoundary) resultIsEmpty() bool    { return false }
func (*reLookaround) resultIsEmpty() bool { return false }
func (reReference) resultIsEmpty() bool   { return false }
func (reRecursion) resultIsEmpty() bool   { return false }

func (reLiteral) isAssertion() bool         { return false }
func (reUnescaped) isAssertion() bool       { return false }
func (reCharSet) isAssertion() bool         { return false }
func (reCompoundCharSet) isAssertion() bool { return false }
func (reGrapheme) isAssertion() bool        { return false }
func (reDot) isAssertion() bool             { return false }

func (g reGroup) isAssertion() bool {
	if g.kind != groupNone {
		return false
	}
	var nonEmpty regex
	for _, p := range g.parts {
		if p.resultIsEmpty() {
			continue
		}
		if nonEmpty != nil {
			return false
		}
		nonEmpty = p
	}
	return nonEmpty != nil && nonEmpty.isAssertion()
}

func (a reAlternation) isAssertion() bool {
	for _, alt := range a.alts {
		if alt.isAssertion() {
			return true
		}
	}
	return false
}

func (*reRepetition) isAssertion() bool  { return false }
func (reBoundary) isAssertion() bool     { return true }
func (*reLookaround) isAssertion() bool  { return true }
func (reReference) isAssertion() bool    { return false }
func (reRecursion) isAssertion() bool    { return false }

func (reLiteral) terminates() bool         { return true }
func (reUnescaped) terminates() bool       { return true }
func (reCharSet) terminates() bool         { return true }
func (reCompoundCharSet) terminates() bool { return true }
func (reGrapheme) terminates() bool        { return true }
func (reDot) terminates() bool             { return true }

func (g reGroup) terminates() bool {
	for _, p := range g.parts {
		if !p.terminates() {
			return false
		}
	}
	return true
}

func (a reAlternation) terminates() bool {
	for _, alt := range a.alts {
		if alt.terminates() {
			return true
		}
	}
	return false
}

// A repetition that may match zero times terminates even if its content
// does not.
func (r *reRepetition) terminates() bool {
	return r.lower == 0 || r.content.terminates()
}

func (reBoundary) terminates() bool      { return true }
func (l *reLookaround) terminates() bool { return l.content.terminates() }
func (reReference) terminates() bool     { return true }
func (reRecursion) terminates() bool     { return false }
