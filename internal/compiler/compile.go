package compiler

import (
	"github.com/pomsky-go/pomsky/internal/diagnose"
	"github.com/pomsky-go/pomsky/internal/syntax"
)

// Compile turns a parsed rule into regex text for the flavor in opts.
// The compilation proceeds in stages: validation checks the rule against
// the allowed features and the flavor's capabilities, group collection
// numbers all capturing groups, resolution lowers the AST into the
// regex IR, and the optimizer shrinks the IR before it is emitted.
// Validation collects all its findings; resolution stops at the first
// error. The returned diagnostics are sorted by source position.
func Compile(rule syntax.Rule, opts Options) (string, []diagnose.Diagnostic) {
	var diagnostics []diagnose.Diagnostic
	log := NewLogger(opts.Verbose)

	log.Section("validate")
	validate(rule, opts, &diagnostics)

	log.Section("groups")
	groups := collectGroups(rule, &diagnostics)
	log.Log("found %d capturing groups (%d named, %d numbered)", groups.count, groups.named, groups.numbered)

	if diagnose.HasErrors(diagnostics) {
		diagnose.Sort(diagnostics)
		return "", diagnostics
	}

	log.Section("resolve")
	r := newResolver(opts, groups, &diagnostics, log)
	re, ok := r.resolve(rule)
	if !ok {
		diagnose.Sort(diagnostics)
		return "", diagnostics
	}

	if r.recursionUsed && !re.terminates() {
		diagnostics = append(diagnostics, diagnose.Error(diagnose.KindResolve, diagnose.CodeInfiniteRecursion, rule.RuleSpan(),
			"Recursion without a terminating branch would match an infinitely long string").
			WithHelp("Add an alternative that doesn't recurse, e.g. `('' | 'a' (?R))`"))
		diagnose.Sort(diagnostics)
		return "", diagnostics
	}

	log.Section("optimize")
	re, _ = optimize(re)

	log.Section("emit")
	out := emit(re, opts.Flavor)
	log.Log("emitted %d bytes", len(out))

	diagnose.Sort(diagnostics)
	return out, diagnostics
}
