package compiler

import (
	"github.com/pomsky-go/pomsky/internal/diagnose"
	"github.com/pomsky-go/pomsky/internal/syntax"
)

func (r *resolver) charSet(cs syntax.CharSet) (regex, bool) {
	set := reCharSet{negative: cs.Negated}
	only := len(cs.Items) == 1
	for _, item := range cs.Items {
		switch it := item.(type) {
		case syntax.ClassChar:
			set.addChar(it.Char)
		case syntax.ClassRange:
			set.addRange(it.First, it.Last)
		case syntax.ClassNamed:
			if d := addNamedClass(&set, it.Name, it.Negative, only, r.opts.Flavor, r.ascii, it.Span); d != nil {
				return nil, r.fail(*d)
			}
		}
	}
	set.normalize()

	// A set with one positive character is the character itself, so it
	// fuses with neighboring literals.
	if c, ok := set.singleChar(); ok {
		return reLiteral{content: string(c)}, true
	}

	// .NET regexes operate on UTF-16 code units. A character above the
	// BMP is two units, which only works outside a character set.
	if r.opts.Flavor == FlavorDotNet {
		for _, rg := range set.ranges {
			if rg.hi > 0xFFFF {
				return nil, r.fail(diagnose.Error(diagnose.KindUnsupported, diagnose.CodeUnsupported, cs.Span,
					"Code points above U+FFFF aren't supported in .NET character sets"))
			}
		}
	}
	if r.opts.Flavor == FlavorJavaScript && !r.astralWarned {
		for _, rg := range set.ranges {
			if rg.hi > 0xFFFF {
				r.astralWarned = true
				*r.diagnostics = append(*r.diagnostics, diagnose.Warning(
					diagnose.KindCompat, diagnose.CodeCompat, cs.Span,
					"Code points above U+FFFF require the `u` flag in JavaScript"))
				break
			}
		}
	}
	return set, true
}

// intersection folds `&` operands. Plain range sets are intersected
// right away; anything involving properties or negation is kept as a
// compound set using the engine's `&&` syntax. All-negative operands
// are instead merged into one negated union, which every flavor can
// express.
func (r *resolver) intersection(in syntax.Intersection) (regex, bool) {
	sets := make([]reCharSet, 0, len(in.Rules))
	allNegative := true
	for _, item := range in.Rules {
		re, ok := r.resolve(item)
		if !ok {
			return nil, false
		}
		set, ok := asCharSet(re)
		if !ok {
			return nil, r.fail(diagnose.Error(diagnose.KindResolve, diagnose.CodeUnsupportedSyntax, item.RuleSpan(),
				"Only character sets can be intersected"))
		}
		if !set.negative {
			allNegative = false
		}
		sets = append(sets, set)
	}

	if allNegative {
		merged := reCharSet{negative: true}
		for i := range sets {
			sets[i].negative = false
			merged.union(sets[i])
		}
		return merged, true
	}

	folded := sets[:1]
	for _, set := range sets[1:] {
		last := &folded[len(folded)-1]
		if isect, ok := intersectRanges(*last, set); ok {
			if len(isect.ranges) == 0 {
				return nil, r.fail(diagnose.Error(diagnose.KindResolve, diagnose.CodeEmptyClass, in.RuleSpan(),
					"This intersection doesn't match any character"))
			}
			*last = isect
			continue
		}
		folded = append(folded, set)
	}

	if len(folded) == 1 {
		if c, ok := folded[0].singleChar(); ok {
			return reLiteral{content: string(c)}, true
		}
		return folded[0], true
	}
	return reCompoundCharSet{sets: folded}, true
}

// asCharSet widens the charset-like IR forms back into a set. Single
// characters were flattened to literals during resolution.
func asCharSet(re regex) (reCharSet, bool) {
	switch n := re.(type) {
	case reCharSet:
		return n, true
	case reLiteral:
		runes := []rune(n.content)
		if len(runes) == 1 {
			set := reCharSet{}
			set.addChar(runes[0])
			return set, true
		}
	}
	return reCharSet{}, false
}
