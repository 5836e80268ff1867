package compiler

// The optimizer shrinks the IR without changing what it matches. It
// removes empty parts and redundant groups, turns alternations of
// single characters into character sets, factors out common prefixes,
// and folds nested repetitions. Optimization runs after resolution so
// it never sees flavor-invalid constructs.

// matchCount says how many characters a node matches at least: nothing,
// exactly one, or possibly more. Parents remove nodes that match
// nothing.
type matchCount uint8

const (
	countZero matchCount = iota
	countOne
	countMany
)

func (c matchCount) add(other matchCount) matchCount {
	switch {
	case c == countZero && other == countZero:
		return countZero
	case c == countZero || other == countZero:
		if c == countOne || other == countOne {
			return countOne
		}
		return countMany
	}
	return countMany
}

func optimize(re regex) (regex, matchCount) {
	switch n := re.(type) {
	case reLiteral:
		switch len([]rune(n.content)) {
		case 0:
			return n, countZero
		case 1:
			return n, countOne
		}
		return n, countMany
	case reGroup:
		return optimizeGroup(n)
	case reAlternation:
		return optimizeAlternation(n)
	case *reRepetition:
		return optimizeRepetition(n)
	case *reLookaround:
		content, _ := optimize(n.content)
		return &reLookaround{kind: n.kind, content: content}, countOne
	case reUnescaped:
		return n, countMany
	}
	return re, countOne
}

func optimizeGroup(g reGroup) (regex, matchCount) {
	count := countZero
	kept := make([]regex, 0, len(g.parts))
	for _, part := range g.parts {
		opt, c := optimize(part)
		count = count.add(c)
		if c != countZero {
			kept = append(kept, opt)
		}
	}
	g.parts = kept

	if len(g.parts) == 1 && g.kind == groupNone {
		// raw regex keeps its wrapping group, since its content is not
		// under our control
		if _, raw := g.parts[0].(reUnescaped); !raw {
			return g.parts[0], count
		}
	}

	switch {
	case g.kind == groupCapture || g.kind == groupNamed:
		return g, countOne
	case len(g.parts) == 0:
		return g, countZero
	}
	return g, count
}

func optimizeAlternation(a reAlternation) (regex, matchCount) {
	// an empty alternative means the whole alternation is optional;
	// leading empties prefer the empty match, so the repetition is lazy
	if len(a.alts) > 0 {
		if lit, ok := a.alts[0].(reLiteral); ok && lit.content == "" {
			rest := reAlternation{alts: a.alts[1:]}
			return optimize(&reRepetition{content: rest, lower: 0, upper: newUpper(1), quant: quantLazy})
		}
		if lit, ok := a.alts[len(a.alts)-1].(reLiteral); ok && lit.content == "" {
			rest := reAlternation{alts: a.alts[:len(a.alts)-1]}
			return optimize(&reRepetition{content: rest, lower: 0, upper: newUpper(1), quant: quantGreedy})
		}
	}

	alts := make([]regex, len(a.alts))
	for i, alt := range a.alts {
		alts[i], _ = optimize(alt)
	}

	merged := false
	alts = reduceAdjacent(alts, func(lhs, rhs regex) (regex, bool) {
		if fused, ok := fuseSingleChars(lhs, rhs); ok {
			return fused, true
		}
		if grouped, ok := mergeCommonPrefix(lhs, rhs); ok {
			merged = true
			return grouped, true
		}
		return lhs, false
	})

	if merged {
		for i, alt := range alts {
			alts[i], _ = optimize(alt)
		}
	}

	if len(alts) == 1 {
		return optimize(alts[0])
	}
	return reAlternation{alts: alts}, countOne
}

func newUpper(n uint32) *uint32 { return &n }

func optimizeRepetition(r *reRepetition) (regex, matchCount) {
	if r.lower == 1 && r.upper != nil && *r.upper == 1 {
		return optimize(r.content)
	}

	content, c := optimize(r.content)
	switch c {
	case countZero:
		return content, countZero
	case countOne:
		if inner, ok := content.(*reRepetition); ok && inner.quant == r.quant {
			if lower, upper, ok := reduceRepetitions(r, inner); ok {
				return &reRepetition{content: inner.content, lower: lower, upper: upper, quant: r.quant}, countOne
			}
		}
	}
	return &reRepetition{content: content, lower: r.lower, upper: r.upper, quant: r.quant}, countOne
}

// reduceRepetitions folds directly nested repetitions into one where
// the combined bounds are exact.
func reduceRepetitions(outer, inner *reRepetition) (uint32, *uint32, bool) {
	atMostOnce := func(r *reRepetition) bool { return r.lower <= 1 }
	isOptional := func(r *reRepetition) bool {
		return r.lower == 0 && r.upper != nil && *r.upper == 1
	}

	switch {
	case atMostOnce(outer) && atMostOnce(inner) && (outer.upper == nil || inner.upper == nil):
		return min(outer.lower, inner.lower), nil, true
	case atMostOnce(outer) && outer.upper != nil && isOptional(inner):
		return 0, newUpper(*outer.upper), true
	case isOptional(outer) && atMostOnce(inner) && inner.upper != nil:
		return 0, newUpper(*inner.upper), true
	case outer.upper == nil && inner.upper == nil:
		if n, ok := mulRepetitions(outer.lower, inner.lower); ok {
			return n, nil, true
		}
	case outer.upper != nil && inner.upper != nil &&
		outer.lower == *outer.upper && inner.lower == *inner.upper:
		if n, ok := mulRepetitions(outer.lower, inner.lower); ok {
			return n, newUpper(n), true
		}
	case atMostOnce(outer) && atMostOnce(inner):
		if n, ok := mulRepetitions(*outer.upper, *inner.upper); ok {
			return min(outer.lower, inner.lower), newUpper(n), true
		}
	}
	return 0, nil, false
}

// mulRepetitions multiplies bounds, refusing results some engines can't
// represent.
func mulRepetitions(a, b uint32) (uint32, bool) {
	res := a * b
	if a != 0 && res/a != b {
		return 0, false
	}
	if res > maxRepetitionCount {
		return 0, false
	}
	return res, true
}

// reduceAdjacent merges neighboring elements with the reducer. A true
// result means the pair was merged into the returned element.
func reduceAdjacent(parts []regex, reducer func(lhs, rhs regex) (regex, bool)) []regex {
	i := 0
	for i < len(parts)-1 {
		merged, ok := reducer(parts[i], parts[i+1])
		if ok {
			parts[i] = merged
			parts = append(parts[:i+1], parts[i+2:]...)
		} else {
			i++
		}
	}
	return parts
}

// singleCharNode reports whether the node matches exactly one character
// and can be folded into a character set.
func singleCharNode(re regex) bool {
	switch n := re.(type) {
	case reLiteral:
		return len([]rune(n.content)) == 1
	case reCharSet:
		return true
	}
	return false
}

// fuseSingleChars merges two single-character alternatives into one
// character set.
func fuseSingleChars(lhs, rhs regex) (regex, bool) {
	if !singleCharNode(lhs) || !singleCharNode(rhs) {
		return nil, false
	}
	switch l := lhs.(type) {
	case reLiteral:
		switch r := rhs.(type) {
		case reLiteral:
			if l.content == r.content {
				return l, true
			}
			set := reCharSet{}
			set.addChar([]rune(l.content)[0])
			set.addChar([]rune(r.content)[0])
			set.normalize()
			return set, true
		case reCharSet:
			if r.negative {
				return nil, false
			}
			r.addChar([]rune(l.content)[0])
			r.normalize()
			return r, true
		}
	case reCharSet:
		if l.negative {
			return nil, false
		}
		switch r := rhs.(type) {
		case reLiteral:
			l.addChar([]rune(r.content)[0])
			l.normalize()
			return l, true
		case reCharSet:
			if r.negative {
				return nil, false
			}
			l.union(r)
			return l, true
		}
	}
	return nil, false
}

// charPrefix is the first character-matching element of an alternative,
// used to factor out common prefixes.
type charPrefix struct {
	kind prefixKind
	char rune
	set  reCharSet
}

type prefixKind uint8

const (
	prefixNone prefixKind = iota
	prefixDot
	prefixChar
	prefixSet
)

func (p charPrefix) equal(other charPrefix) bool {
	if p.kind != other.kind {
		return false
	}
	switch p.kind {
	case prefixChar:
		return p.char == other.char
	case prefixSet:
		return charSetEqual(p.set, other.set)
	}
	return true
}

func charSetEqual(a, b reCharSet) bool {
	if a.negative != b.negative || len(a.ranges) != len(b.ranges) || len(a.props) != len(b.props) {
		return false
	}
	for i, r := range a.ranges {
		if r != b.ranges[i] {
			return false
		}
	}
	for i, p := range a.props {
		if p != b.props[i] {
			return false
		}
	}
	return true
}

func prefixOf(re regex) charPrefix {
	switch n := re.(type) {
	case reLiteral:
		runes := []rune(n.content)
		if len(runes) > 0 {
			return charPrefix{kind: prefixChar, char: runes[0]}
		}
	case reCharSet:
		return charPrefix{kind: prefixSet, set: n}
	case reDot:
		return charPrefix{kind: prefixDot}
	case reGroup:
		if n.kind == groupNone && len(n.parts) > 0 {
			return prefixOf(n.parts[0])
		}
	}
	return charPrefix{}
}

func removePrefix(re regex) regex {
	switch n := re.(type) {
	case reLiteral:
		runes := []rune(n.content)
		return reLiteral{content: string(runes[1:])}
	case reCharSet, reDot:
		return reLiteral{}
	case reGroup:
		if len(n.parts) > 0 {
			parts := append([]regex{}, n.parts...)
			parts[0] = removePrefix(parts[0])
			if lit, ok := parts[0].(reLiteral); ok && lit.content == "" {
				parts = parts[1:]
				if len(parts) == 1 {
					return parts[0]
				}
			}
			n.parts = parts
			return n
		}
	}
	return re
}

// mergeCommonPrefix rewrites `ab|ac` as `a(?:b|c)`. When the left side
// is already such a factored alternation, the right side joins it.
func mergeCommonPrefix(lhs, rhs regex) (regex, bool) {
	p1 := prefixOf(lhs)
	p2 := prefixOf(rhs)
	if p1.kind == prefixNone || !p1.equal(p2) {
		return nil, false
	}

	var prefix regex
	switch p1.kind {
	case prefixDot:
		prefix = reDot{}
	case prefixChar:
		prefix = reLiteral{content: string(p1.char)}
	case prefixSet:
		prefix = p1.set
	}

	lhs = removePrefix(lhs)
	rhs = removePrefix(rhs)

	var parts []regex
	if alt, ok := lhs.(reAlternation); ok {
		alt.alts = append(alt.alts, rhs)
		parts = []regex{prefix, alt}
	} else {
		parts = []regex{prefix, reAlternation{alts: []regex{lhs, rhs}}}
	}
	return reGroup{kind: groupNone, parts: parts}, true
}
