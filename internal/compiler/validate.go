package compiler

import (
	"github.com/pomsky-go/pomsky/internal/diagnose"
	"github.com/pomsky-go/pomsky/internal/syntax"
)

// The validator checks the AST against the allowed feature set and the
// structural limits of the target flavor before resolution starts. It
// accumulates diagnostics instead of stopping, so a single run reports
// every violation.

// re2MaxRepetition is the largest repetition bound RE2 accepts.
const re2MaxRepetition = 1000

type validator struct {
	opts        Options
	diagnostics *[]diagnose.Diagnostic
}

func validate(rule syntax.Rule, opts Options, diagnostics *[]diagnose.Diagnostic) {
	v := &validator{opts: opts, diagnostics: diagnostics}
	v.walk(rule)
}

func (v *validator) report(d diagnose.Diagnostic) {
	*v.diagnostics = append(*v.diagnostics, d)
}

// requireFeature reports an error when feat is outside the allowed set.
func (v *validator) requireFeature(feat FeatureSet, span Span) {
	if v.opts.Allowed.Has(feat) {
		return
	}
	v.report(diagnose.Error(diagnose.KindUnsupported, diagnose.CodeUnsupportedSyntax, span,
		"`%s` isn't allowed in this compilation", featureName(feat)).
		WithHelp("Add `%s` to the allowed features", featureName(feat)))
}

// requireFlavor reports an error when the target flavor lacks what.
func (v *validator) requireFlavor(what string, supported bool, span Span) {
	if supported {
		return
	}
	v.report(diagnose.Error(diagnose.KindUnsupported, diagnose.CodeUnsupported, span,
		"%s isn't supported in the %s flavor", what, v.opts.Flavor.Display()))
}

func (v *validator) walk(rule syntax.Rule) {
	switch r := rule.(type) {
	case syntax.Group:
		v.group(r)
		for _, part := range r.Parts {
			v.walk(part)
		}
	case syntax.Alternation:
		for _, alt := range r.Alts {
			v.walk(alt)
		}
	case syntax.Intersection:
		v.requireFeature(FeatIntersection, r.RuleSpan())
		v.requireFlavor("Intersection",
			v.opts.Flavor != FlavorDotNet && v.opts.Flavor != FlavorPython && v.opts.Flavor != FlavorRE2,
			r.RuleSpan())
		for _, item := range r.Rules {
			v.walk(item)
		}
	case *syntax.Repetition:
		if v.opts.Flavor == FlavorRE2 && r.Upper != nil && *r.Upper > re2MaxRepetition {
			v.report(diagnose.Error(diagnose.KindUnsupported, diagnose.CodeUnsupported, r.Span,
				"RE2 only supports repetitions up to %d", re2MaxRepetition))
		}
		v.walk(r.Rule)
	case syntax.Boundary:
		v.requireFeature(FeatBoundaries, r.Span)
	case *syntax.Lookaround:
		switch r.Kind {
		case syntax.LookAhead, syntax.LookAheadNegative:
			v.requireFeature(FeatLookahead, r.Span)
		default:
			v.requireFeature(FeatLookbehind, r.Span)
		}
		v.requireFlavor("Lookaround",
			v.opts.Flavor != FlavorRust && v.opts.Flavor != FlavorRE2, r.Span)
		v.walk(r.Rule)
	case syntax.Reference:
		v.requireFeature(FeatReferences, r.Span)
	case syntax.Range:
		v.requireFeature(FeatRanges, r.Span)
		if len(r.End) > v.opts.MaxRangeSize {
			v.report(diagnose.Error(diagnose.KindLimits, diagnose.CodeRangeTooBig, r.Span,
				"Range is too big: it may contain at most %d digits", v.opts.MaxRangeSize).
				WithHelp("Increase the limit with `--max-range-size` if the regex size is acceptable"))
		}
	case syntax.Regex:
		v.requireFeature(FeatRegexes, r.Span)
	case syntax.Recursion:
		v.requireFeature(FeatRecursion, r.Span)
		v.requireFlavor("Recursion",
			v.opts.Flavor == FlavorPCRE || v.opts.Flavor == FlavorRuby, r.Span)
	case syntax.Dot:
		v.requireFeature(FeatDot, r.Span)
	case *syntax.StmtExpr:
		v.stmt(r.Stmt)
		v.walk(r.Rule)
	}
}

func (v *validator) group(g syntax.Group) {
	switch g.Kind {
	case syntax.GroupAtomic:
		v.requireFeature(FeatAtomicGroups, g.Span)
		v.requireFlavor("Atomic groups",
			v.opts.Flavor != FlavorJavaScript && v.opts.Flavor != FlavorRust && v.opts.Flavor != FlavorRE2,
			g.Span)
	case syntax.GroupCapturing:
		if g.Name != "" {
			v.requireFeature(FeatNamedGroups, g.Span)
		} else {
			v.requireFeature(FeatNumberedGroups, g.Span)
		}
	}
}

func (v *validator) stmt(s syntax.Stmt) {
	switch st := s.(type) {
	case syntax.ModeStmt:
		// `disable lazy` and `enable unicode` restore the defaults and
		// are always allowed.
		if st.Setting == syntax.SettingLazy && st.Enable {
			v.requireFeature(FeatLazyMode, st.Span)
		}
		if st.Setting == syntax.SettingUnicode && !st.Enable {
			v.requireFeature(FeatAsciiMode, st.Span)
		}
	case syntax.LetStmt:
		v.requireFeature(FeatVariables, st.Span)
		v.walk(st.Rule)
	}
}
