package compiler

import (
	"github.com/pomsky-go/pomsky/internal/diagnose"
	"github.com/pomsky-go/pomsky/internal/syntax"
)

// The resolver lowers the AST into the regex IR. It expands variables,
// assigns group numbers, resolves references against the collected
// groups, applies the active modes and makes the remaining
// flavor-specific decisions. Resolution is fail-fast: the first error
// aborts the walk, since later errors would mostly be noise caused by
// the first.

type binding struct {
	name string
	rule syntax.Rule
	// lazy and ascii snapshot the modes at the binding's declaration,
	// so a variable behaves the same wherever it is used.
	lazy  bool
	ascii bool
}

type resolver struct {
	opts        Options
	groups      groupData
	diagnostics *[]diagnose.Diagnostic
	log         *Logger

	// nextIndex is the number the next capturing group receives.
	nextIndex int
	lazy      bool
	ascii     bool

	vars     []binding
	inFlight map[string]bool
	depth    int

	inLookbehind  bool
	recursionUsed bool
	// astralWarned dedupes the JavaScript `u` flag warning.
	astralWarned bool
}

func newResolver(opts Options, groups groupData, diagnostics *[]diagnose.Diagnostic, log *Logger) *resolver {
	return &resolver{
		opts:        opts,
		groups:      groups,
		diagnostics: diagnostics,
		log:         log,
		nextIndex:   1,
		inFlight:    map[string]bool{},
	}
}

func (r *resolver) fail(d diagnose.Diagnostic) bool {
	*r.diagnostics = append(*r.diagnostics, d)
	return false
}

// unsupported reports a flavor limitation. The subject carries its own
// verb, e.g. "Backreferences aren't supported".
func (r *resolver) unsupported(what string, span Span) bool {
	return r.fail(diagnose.Error(diagnose.KindUnsupported, diagnose.CodeUnsupported, span,
		"%s in the %s flavor", what, r.opts.Flavor.Display()))
}

func (r *resolver) resolve(rule syntax.Rule) (regex, bool) {
	switch n := rule.(type) {
	case syntax.Literal:
		return reLiteral{content: n.Content}, true
	case syntax.Regex:
		return reUnescaped{content: n.Content}, true
	case syntax.Dot:
		return reDot{}, true
	case syntax.CharSet:
		return r.charSet(n)
	case syntax.Group:
		return r.group(n)
	case syntax.Alternation:
		return r.alternation(n)
	case syntax.Intersection:
		return r.intersection(n)
	case *syntax.Repetition:
		return r.repetition(n)
	case syntax.Boundary:
		return r.boundary(n)
	case *syntax.Lookaround:
		return r.lookaround(n)
	case syntax.Reference:
		return r.reference(n)
	case syntax.Range:
		return r.numberRange(n)
	case syntax.Variable:
		return r.variable(n)
	case syntax.Recursion:
		r.recursionUsed = true
		return reRecursion{}, true
	case *syntax.StmtExpr:
		return r.stmtExpr(n)
	}
	return nil, r.fail(diagnose.Error(diagnose.KindResolve, diagnose.CodeUnexpectedToken, rule.RuleSpan(),
		"Unexpected expression"))
}

func (r *resolver) group(g syntax.Group) (regex, bool) {
	out := reGroup{kind: groupNone, name: g.Name}
	switch g.Kind {
	case syntax.GroupAtomic:
		out.kind = groupAtomic
	case syntax.GroupCapturing:
		if g.Name != "" {
			out.kind = groupNamed
		} else {
			out.kind = groupCapture
		}
		r.nextIndex++
	}
	out.parts = make([]regex, 0, len(g.Parts))
	for _, part := range g.Parts {
		p, ok := r.resolve(part)
		if !ok {
			return nil, false
		}
		out.parts = append(out.parts, p)
	}
	return out, true
}

func (r *resolver) alternation(a syntax.Alternation) (regex, bool) {
	out := reAlternation{alts: make([]regex, 0, len(a.Alts))}
	for _, alt := range a.Alts {
		c, ok := r.resolve(alt)
		if !ok {
			return nil, false
		}
		out.alts = append(out.alts, c)
	}
	return out, true
}

func (r *resolver) repetition(rep *syntax.Repetition) (regex, bool) {
	content, ok := r.resolve(rep.Rule)
	if !ok {
		return nil, false
	}
	quant := quantGreedy
	switch rep.Quantifier {
	case syntax.QuantifierLazy:
		quant = quantLazy
	case syntax.QuantifierDefault:
		if r.lazy {
			quant = quantLazy
		}
	}
	return &reRepetition{content: content, lower: rep.Lower, upper: rep.Upper, quant: quant}, true
}

func (r *resolver) boundary(b syntax.Boundary) (regex, bool) {
	kind := boundStart
	word := false
	switch b.Kind {
	case syntax.BoundaryStart:
		kind = boundStart
	case syntax.BoundaryEnd:
		kind = boundEnd
	case syntax.BoundaryWord:
		kind, word = boundWord, true
	case syntax.BoundaryNotWord:
		kind, word = boundNotWord, true
	case syntax.BoundaryWordStart:
		kind, word = boundWordStart, true
	case syntax.BoundaryWordEnd:
		kind, word = boundWordEnd, true
	}
	if word {
		if r.opts.Flavor == FlavorJavaScript && !r.ascii {
			return nil, r.fail(diagnose.Error(diagnose.KindUnsupported, diagnose.CodeUnsupported, b.Span,
				"Word boundaries aren't Unicode aware in JavaScript").
				WithHelp("Add `disable unicode;` to use ASCII word boundaries"))
		}
		if r.opts.Flavor == FlavorRuby && r.inLookbehind {
			return nil, r.unsupported("A word boundary inside a lookbehind isn't supported", b.Span)
		}
	}
	return reBoundary{kind: kind}, true
}

func (r *resolver) lookaround(l *syntax.Lookaround) (regex, bool) {
	kind := lookAhead
	switch l.Kind {
	case syntax.LookAhead:
		kind = lookAhead
	case syntax.LookAheadNegative:
		kind = lookAheadNegative
	case syntax.LookBehind:
		kind = lookBehind
	case syntax.LookBehindNegative:
		kind = lookBehindNegative
	}

	behind := kind == lookBehind || kind == lookBehindNegative
	if !behind && r.inLookbehind && r.opts.Flavor == FlavorRuby {
		return nil, r.unsupported("A lookahead inside a lookbehind isn't supported", l.Span)
	}

	wasBehind := r.inLookbehind
	if behind {
		r.inLookbehind = true
	}
	content, ok := r.resolve(l.Rule)
	r.inLookbehind = wasBehind
	if !ok {
		return nil, false
	}

	if behind && !r.checkLookbehind(content, l.Span) {
		return nil, false
	}
	return &reLookaround{kind: kind, content: content}, true
}

// checkLookbehind enforces the length restrictions engines place on
// lookbehind: Python requires a constant length, PCRE and Java a known
// upper bound.
func (r *resolver) checkLookbehind(content regex, span Span) bool {
	switch r.opts.Flavor {
	case FlavorPython:
		if _, ok := constantLength(content); !ok {
			return r.fail(diagnose.Error(diagnose.KindUnsupported, diagnose.CodeUnsupported, span,
				"Variable-length lookbehind isn't supported in the Python flavor"))
		}
	case FlavorPCRE, FlavorJava:
		if !boundedLength(content) {
			return r.fail(diagnose.Error(diagnose.KindUnsupported, diagnose.CodeUnsupported, span,
				"Unbounded lookbehind isn't supported in the %s flavor", r.opts.Flavor.Display()))
		}
	}
	return true
}

// constantLength returns the number of characters the node always
// matches. The second result is false when the length varies or cannot
// be determined.
func constantLength(re regex) (int, bool) {
	switch n := re.(type) {
	case reLiteral:
		return len([]rune(n.content)), true
	case reCharSet, reCompoundCharSet, reDot:
		return 1, true
	case reBoundary:
		return 0, true
	case *reLookaround:
		return 0, true
	case reGroup:
		total := 0
		for _, p := range n.parts {
			l, ok := constantLength(p)
			if !ok {
				return 0, false
			}
			total += l
		}
		return total, true
	case reAlternation:
		first, ok := constantLength(n.alts[0])
		if !ok {
			return 0, false
		}
		for _, alt := range n.alts[1:] {
			l, ok := constantLength(alt)
			if !ok || l != first {
				return 0, false
			}
		}
		return first, true
	case *reRepetition:
		if n.upper == nil || n.lower != *n.upper {
			return 0, false
		}
		l, ok := constantLength(n.content)
		return l * int(n.lower), ok
	}
	return 0, false
}

// boundedLength reports whether the node matches a bounded number of
// characters.
func boundedLength(re regex) bool {
	switch n := re.(type) {
	case reGrapheme, reRecursion:
		return false
	case reGroup:
		for _, p := range n.parts {
			if !boundedLength(p) {
				return false
			}
		}
	case reAlternation:
		for _, alt := range n.alts {
			if !boundedLength(alt) {
				return false
			}
		}
	case *reRepetition:
		return n.upper != nil && boundedLength(n.content)
	case *reLookaround:
		return boundedLength(n.content)
	}
	return true
}

func (r *resolver) reference(ref syntax.Reference) (regex, bool) {
	if r.opts.Flavor == FlavorRust || r.opts.Flavor == FlavorRE2 {
		return nil, r.unsupported("Backreferences aren't supported", ref.Span)
	}

	var target int
	forward := false
	switch ref.Target {
	case syntax.RefNamed:
		info, ok := r.groups.names[ref.Name]
		if !ok {
			return nil, r.fail(diagnose.Error(diagnose.KindResolve, diagnose.CodeUnknownReference, ref.Span,
				"Reference to unknown group with the name `%s`", ref.Name))
		}
		target = info.index
		forward = target >= r.nextIndex
	case syntax.RefNumber:
		n := int(ref.Number)
		if n > maxReferenceNumber {
			return nil, r.fail(diagnose.Error(diagnose.KindResolve, diagnose.CodeHugeReference, ref.Span,
				"Group references this large aren't supported"))
		}
		if n == 0 || n > r.groups.count {
			return nil, r.fail(diagnose.Error(diagnose.KindResolve, diagnose.CodeUnknownReference, ref.Span,
				"Reference to unknown group. There is no group number %d", n))
		}
		target = n
		forward = target >= r.nextIndex
	case syntax.RefRelative:
		n := int(ref.Number)
		if n == 0 {
			return nil, r.fail(diagnose.Error(diagnose.KindResolve, diagnose.CodeUnknownReference, ref.Span,
				"Relative references can't be 0").
				WithHelp("Use `::-1` to refer to the previous group"))
		}
		if n < 0 {
			target = n + r.nextIndex
		} else {
			target = n + r.nextIndex - 1
			forward = true
		}
		if target < 1 || target > r.groups.count {
			return nil, r.fail(diagnose.Error(diagnose.KindResolve, diagnose.CodeUnknownReference, ref.Span,
				"Reference to unknown group. There is no group number %d", target))
		}
	}

	if forward && (r.opts.Flavor == FlavorJavaScript || r.opts.Flavor == FlavorPython) {
		return nil, r.unsupported("Forward references aren't supported", ref.Span)
	}

	// Ruby can't mix named groups with numbered references, so a
	// reference to a named group always uses the name.
	if r.opts.Flavor == FlavorRuby {
		if name, ok := r.groups.byIndex[target]; ok {
			return reReference{name: name}, true
		}
		if r.groups.named > 0 {
			return nil, r.fail(diagnose.Error(diagnose.KindUnsupported, diagnose.CodeUnsupported, ref.Span,
				"Numbered references aren't supported in Ruby when named groups are used").
				WithHelp("Refer to the group by its name instead"))
		}
	}
	return reReference{number: target}, true
}

func (r *resolver) variable(v syntax.Variable) (regex, bool) {
	if r.inFlight[v.Name] {
		return nil, r.fail(diagnose.Error(diagnose.KindResolve, diagnose.CodeRecursiveVariable, v.Span,
			"Variable `%s` is referenced recursively", v.Name).
			WithHelp("Variables can't expand themselves. Use `recursion` to match a pattern recursively"))
	}
	for i := len(r.vars) - 1; i >= 0; i-- {
		b := r.vars[i]
		if b.name != v.Name {
			continue
		}
		if r.depth >= maxRecursionDepth {
			return nil, r.fail(diagnose.Error(diagnose.KindLimits, diagnose.CodeRecursionLimit, v.Span,
				"Expression is too deeply nested"))
		}
		r.depth++
		r.inFlight[v.Name] = true
		savedLazy, savedASCII := r.lazy, r.ascii
		r.lazy, r.ascii = b.lazy, b.ascii
		re, ok := r.resolve(b.rule)
		r.lazy, r.ascii = savedLazy, savedASCII
		delete(r.inFlight, v.Name)
		r.depth--
		return re, ok
	}
	return r.builtin(v)
}

// builtin expands the pre-declared variables.
func (r *resolver) builtin(v syntax.Variable) (regex, bool) {
	switch v.Name {
	case "Start":
		return reBoundary{kind: boundStart}, true
	case "End":
		return reBoundary{kind: boundEnd}, true
	case "Grapheme", "G":
		switch r.opts.Flavor {
		case FlavorPCRE, FlavorJava, FlavorRuby:
			return reGrapheme{}, true
		}
		return nil, r.unsupported("`Grapheme` isn't supported", v.Span)
	case "Codepoint", "C":
		return reCharSet{props: []classProp{
			{kind: propShorthand, name: "s"},
			{negative: true, kind: propShorthand, name: "s"},
		}}, true
	}
	return nil, r.fail(diagnose.Error(diagnose.KindResolve, diagnose.CodeUnknownVariable, v.Span,
		"Variable `%s` doesn't exist", v.Name))
}

func (r *resolver) stmtExpr(se *syntax.StmtExpr) (regex, bool) {
	switch st := se.Stmt.(type) {
	case syntax.ModeStmt:
		switch st.Setting {
		case syntax.SettingLazy:
			saved := r.lazy
			r.lazy = st.Enable
			re, ok := r.resolve(se.Rule)
			r.lazy = saved
			return re, ok
		default:
			saved := r.ascii
			r.ascii = !st.Enable
			re, ok := r.resolve(se.Rule)
			r.ascii = saved
			return re, ok
		}
	case syntax.LetStmt:
		for _, b := range r.vars {
			if b.name == st.Name {
				return nil, r.fail(diagnose.Error(diagnose.KindResolve, diagnose.CodeDuplicateLet, st.NameSpan,
					"Variable `%s` is declared twice", st.Name))
			}
		}
		r.vars = append(r.vars, binding{name: st.Name, rule: st.Rule, lazy: r.lazy, ascii: r.ascii})
		re, ok := r.resolve(se.Rule)
		r.vars = r.vars[:len(r.vars)-1]
		return re, ok
	case syntax.TestStmt:
		// test blocks are for external runners and don't affect the regex
		return r.resolve(se.Rule)
	}
	return r.resolve(se.Rule)
}
