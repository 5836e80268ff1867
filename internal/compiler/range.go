package compiler

import (
	"errors"

	"github.com/pomsky-go/pomsky/internal/diagnose"
	"github.com/pomsky-go/pomsky/internal/syntax"
)

// Number ranges expand into alternations of digit classes that match
// exactly the numbers between the two bounds. The expansion works digit
// by digit: at each position the bounds' leading digits split the digit
// space into up to five alternatives (below the smaller bound digit, the
// bound digits themselves, between them, and above the larger one), and
// the remaining digits are expanded recursively. Adjacent alternatives
// whose tails are equal are merged by widening the leading class, and
// runs of equal rules become repetitions, which keeps the output
// compact. The result is built in a small digit-rule form first and
// converted to the regex IR at the end.

type rangeRuleKind uint8

const (
	rangeEmpty rangeRuleKind = iota
	rangeClass
	rangeRepeat
	rangeAlt
)

type rangeRule struct {
	kind     rangeRuleKind
	lo, hi   uint8
	inner    *rangeRule
	min, max int
	alts     [][]rangeRule
}

func rangeClassRule(lo, hi uint8) rangeRule {
	return rangeRule{kind: rangeClass, lo: lo, hi: hi}
}

func (r rangeRule) equal(other rangeRule) bool {
	if r.kind != other.kind {
		return false
	}
	switch r.kind {
	case rangeClass:
		return r.lo == other.lo && r.hi == other.hi
	case rangeRepeat:
		return r.min == other.min && r.max == other.max && r.inner.equal(*other.inner)
	case rangeAlt:
		if len(r.alts) != len(other.alts) {
			return false
		}
		for i, alt := range r.alts {
			if len(alt) != len(other.alts[i]) {
				return false
			}
			for j, rule := range alt {
				if !rule.equal(other.alts[i][j]) {
					return false
				}
			}
		}
	}
	return true
}

func (r rangeRule) repeat(min, max int) rangeRule {
	if max == 0 {
		return rangeRule{kind: rangeEmpty}
	}
	if min == 1 && max == 1 {
		return r
	}
	inner := r
	return rangeRule{kind: rangeRepeat, inner: &inner, min: min, max: max}
}

func (r rangeRule) optional() rangeRule {
	if r.kind == rangeRepeat && r.min <= 1 {
		r.min = 0
		return r
	}
	return r.repeat(0, 1)
}

var errRangeExpansion = errors.New("range expansion failed")

func repeatDigit(digit uint8, n int) []uint8 {
	out := make([]uint8, n)
	for i := range out {
		out[i] = digit
	}
	return out
}

// expandRange builds the digit rule for all numbers between the digit
// slices a and b. The level is 0 at the first digit, where a leading
// zero is only allowed when the lower bound itself is zero.
func expandRange(a, b []uint8, level int, radix uint8) (rangeRule, error) {
	hiDigit := radix - 1
	loDigit := uint8(0)
	if level == 0 {
		loDigit = 1
	}

	switch {
	case len(a) == 0 && len(b) == 0:
		return rangeRule{kind: rangeEmpty}, nil
	case len(b) == 0:
		return rangeRule{}, errRangeExpansion
	case len(a) == 0:
		inner, err := expandRange([]uint8{0}, b, level+1, radix)
		if err != nil {
			return rangeRule{}, err
		}
		return inner.optional(), nil
	case len(a) == 1 && len(b) == 1:
		return rangeClassRule(a[0], b[0]), nil
	}

	ax, aRest := a[0], a[1:]
	bx, bRest := b[0], b[1:]
	lo, hi := min(ax, bx), max(ax, bx)

	var alternatives [][]rangeRule
	push := func(rules ...rangeRule) {
		alternatives = append(alternatives, rules)
	}

	if lo > loDigit && len(aRest) < len(bRest) {
		push(
			rangeClassRule(loDigit, lo-1),
			rangeClassRule(0, hiDigit).repeat(len(aRest)+1, len(bRest)),
		)
	}

	switch {
	case ax == bx:
		rest, err := expandRange(aRest, bRest, level+1, radix)
		if err != nil {
			return rangeRule{}, err
		}
		push(rangeClassRule(ax, bx), rest)
	case ax < bx:
		if level == 0 && ax == 0 && len(aRest) == 0 {
			// zero has no second digit, so it is added on its own
			push(rangeClassRule(0, 0))
		} else {
			rest, err := expandRange(aRest, repeatDigit(hiDigit, len(bRest)), level+1, radix)
			if err != nil {
				return rangeRule{}, err
			}
			push(rangeClassRule(lo, lo), rest)
		}
		if hi-lo >= 2 {
			push(
				rangeClassRule(lo+1, hi-1),
				rangeClassRule(0, hiDigit).repeat(len(aRest), len(bRest)),
			)
		}
		rest, err := expandRange(repeatDigit(0, len(aRest)), bRest, level+1, radix)
		if err != nil {
			return rangeRule{}, err
		}
		push(rangeClassRule(hi, hi), rest)
	default:
		rest, err := expandRange(repeatDigit(0, len(a)), bRest, level+1, radix)
		if err != nil {
			return rangeRule{}, err
		}
		push(rangeClassRule(lo, lo), rest)
		if hi-lo >= 2 && len(aRest)+2 <= len(bRest) {
			push(
				rangeClassRule(lo+1, hi-1),
				rangeClassRule(0, hiDigit).repeat(len(aRest)+1, len(bRest)-1),
			)
		}
		rest, err = expandRange(aRest, repeatDigit(hiDigit, len(bRest)-1), level+1, radix)
		if err != nil {
			return rangeRule{}, err
		}
		push(rangeClassRule(hi, hi), rest)
	}

	if hi < hiDigit && len(aRest) < len(bRest) {
		push(
			rangeClassRule(hi+1, hiDigit),
			rangeClassRule(0, hiDigit).repeat(len(aRest), len(bRest)-1),
		)
	}

	return mergeAlternatives(alternatives), nil
}

// normalizePair rewrites a two-element alternative into its canonical
// form: equal elements become a repetition, an element followed by a
// repetition of itself extends the repetition, and a trailing empty
// rule is dropped. Normalization makes equal alternatives structurally
// equal so they can merge.
func normalizePair(rules []rangeRule) []rangeRule {
	if len(rules) != 2 {
		return rules
	}
	first, second := rules[0], rules[1]
	switch {
	case first.equal(second):
		return []rangeRule{first.repeat(2, 2)}
	case second.kind == rangeRepeat && second.inner.equal(first):
		return []rangeRule{first.repeat(second.min+1, second.max+1)}
	case second.kind == rangeEmpty:
		return rules[:1]
	}
	return rules
}

// mergeAlternatives merges adjacent alternatives with equal tails by
// widening the leading digit class. The classes are known to be
// consecutive because of how the alternatives are constructed.
func mergeAlternatives(alternatives [][]rangeRule) rangeRule {
	var acc [][]rangeRule
	for _, rules := range alternatives {
		rules = normalizePair(rules)
		if len(acc) > 0 {
			last := acc[len(acc)-1]
			if len(last) == 2 && last[0].kind == rangeClass &&
				len(rules) == 2 && rules[0].kind == rangeClass &&
				last[1].equal(rules[1]) {
				last[0].hi = rules[0].hi
				acc[len(acc)-1] = normalizePair(last)
				continue
			}
		}
		acc = append(acc, rules)
	}

	if len(acc) == 1 && len(acc[0]) == 1 {
		return acc[0][0]
	}
	return rangeRule{kind: rangeAlt, alts: acc}
}

// toRegex converts the digit rules into the regex IR. Digits above 9
// match both letter cases.
func (r rangeRule) toRegex() regex {
	switch r.kind {
	case rangeEmpty:
		return reLiteral{}
	case rangeClass:
		return digitClassRegex(r.lo, r.hi)
	case rangeRepeat:
		upper := uint32(r.max)
		return &reRepetition{
			content: r.inner.toRegex(),
			lower:   uint32(r.min),
			upper:   &upper,
			quant:   quantGreedy,
		}
	default:
		alts := make([]regex, 0, len(r.alts))
		for _, alt := range r.alts {
			parts := make([]regex, 0, len(alt))
			for _, rule := range alt {
				parts = append(parts, rule.toRegex())
			}
			alts = append(alts, reGroup{kind: groupNone, parts: parts})
		}
		return reAlternation{alts: alts}
	}
}

func digitClassRegex(a, b uint8) regex {
	set := reCharSet{}
	switch {
	case a == b && a <= 9:
		return reLiteral{content: string(rune('0' + a))}
	case b <= 9:
		set.addRange(rune('0'+a), rune('0'+b))
	case a == b:
		set.addChar(rune('a' + a - 10))
		set.addChar(rune('A' + a - 10))
	case a >= 10:
		set.addRange(rune('a'+a-10), rune('a'+b-10))
		set.addRange(rune('A'+a-10), rune('A'+b-10))
	case a == 9 && b == 10:
		set.addChar('9')
		set.addChar('a')
		set.addChar('A')
	case b == 10:
		set.addRange(rune('0'+a), '9')
		set.addChar('a')
		set.addChar('A')
	case a == 9:
		set.addChar('9')
		set.addRange('a', rune('a'+b-10))
		set.addRange('A', rune('A'+b-10))
	default:
		set.addRange(rune('0'+a), '9')
		set.addRange('a', rune('a'+b-10))
		set.addRange('A', rune('A'+b-10))
	}
	return set
}

func (r *resolver) numberRange(rg syntax.Range) (regex, bool) {
	rule, err := expandRange(rg.Start, rg.End, 0, rg.Radix)
	if err != nil {
		return nil, r.fail(diagnose.Error(diagnose.KindResolve, diagnose.CodeInvalidNumber, rg.Span,
			"Expanding the range yielded an unexpected error"))
	}
	return rule.toRegex(), true
}
