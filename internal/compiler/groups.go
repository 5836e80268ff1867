package compiler

import (
	"github.com/pomsky-go/pomsky/internal/diagnose"
	"github.com/pomsky-go/pomsky/internal/syntax"
)

// Capturing groups are numbered by position in the source, counting
// named and unnamed groups alike. The collector walks the AST once
// before resolution so that references can be checked against the final
// numbering, including forward references.

type groupInfo struct {
	// fromNamed is true when the group was declared with a name.
	fromNamed bool
	// index is the absolute group number, starting at 1.
	index int
}

type groupData struct {
	names map[string]groupInfo
	// byIndex maps a group number back to its name, for flavors that
	// must refer to named groups by name.
	byIndex  map[int]string
	count    int
	named    int
	numbered int
}

type groupCollector struct {
	data groupData
	// letDepth is non-zero inside a `let` body, where captures and
	// references are rejected because inlining would duplicate them.
	letDepth    int
	diagnostics *[]diagnose.Diagnostic
}

// collectGroups numbers all capturing groups in rule and reports
// duplicate names and captures inside variable bindings.
func collectGroups(rule syntax.Rule, diagnostics *[]diagnose.Diagnostic) groupData {
	c := &groupCollector{
		data:        groupData{names: map[string]groupInfo{}, byIndex: map[int]string{}},
		diagnostics: diagnostics,
	}
	c.walk(rule)
	return c.data
}

func (c *groupCollector) report(d diagnose.Diagnostic) {
	*c.diagnostics = append(*c.diagnostics, d)
}

func (c *groupCollector) walk(rule syntax.Rule) {
	switch r := rule.(type) {
	case syntax.Group:
		c.group(r)
		for _, part := range r.Parts {
			c.walk(part)
		}
	case syntax.Alternation:
		for _, alt := range r.Alts {
			c.walk(alt)
		}
	case syntax.Intersection:
		for _, item := range r.Rules {
			c.walk(item)
		}
	case *syntax.Repetition:
		c.walk(r.Rule)
	case *syntax.Lookaround:
		c.walk(r.Rule)
	case syntax.Reference:
		if c.letDepth > 0 {
			c.report(diagnose.Error(diagnose.KindResolve, diagnose.CodeReferenceInLet, r.Span,
				"References can't be used inside `let` bindings").
				WithHelp("A variable can be used several times, so its references would be ambiguous"))
		}
	case *syntax.StmtExpr:
		if let, ok := r.Stmt.(syntax.LetStmt); ok {
			c.letDepth++
			c.walk(let.Rule)
			c.letDepth--
		}
		c.walk(r.Rule)
	}
}

func (c *groupCollector) group(g syntax.Group) {
	switch g.Kind {
	case syntax.GroupCapturing:
		if c.letDepth > 0 {
			c.report(diagnose.Error(diagnose.KindResolve, diagnose.CodeCaptureInLet, g.Span,
				"Capturing groups can't be used inside `let` bindings").
				WithHelp("A variable can be used several times, so its group numbers would be ambiguous"))
			return
		}
		c.data.count++
		if g.Name == "" {
			c.data.numbered++
			return
		}
		c.data.named++
		if _, dup := c.data.names[g.Name]; dup {
			c.report(diagnose.Error(diagnose.KindResolve, diagnose.CodeDuplicateGroupName, g.Span,
				"Group name `%s` used twice", g.Name).
				WithHelp("Give this group a different name"))
			return
		}
		c.data.names[g.Name] = groupInfo{fromNamed: true, index: c.data.count}
		c.data.byIndex[c.data.count] = g.Name
	}
}
