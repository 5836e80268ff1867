package compiler

import (
	"github.com/pomsky-go/pomsky/internal/diagnose"
	"github.com/pomsky-go/pomsky/internal/syntax"
)

// Flavor-specific lowering of named character classes. The parser only
// checks that a name exists; which flavor can express it, and how, is
// decided here. Classes a flavor lacks natively are rewritten into
// equivalent ranges or properties where a faithful rewrite exists, and
// rejected otherwise.

func unsupportedClass(name string, f Flavor, span Span) *diagnose.Diagnostic {
	d := diagnose.Error(diagnose.KindUnsupported, diagnose.CodeUnsupported, span,
		"`%s` isn't supported in the %s flavor", name, f.Display())
	return &d
}

func unsupportedNegation(name string, f Flavor, span Span) *diagnose.Diagnostic {
	d := diagnose.Error(diagnose.KindUnsupported, diagnose.CodeUnsupported, span,
		"`!%s` isn't supported in the %s flavor", name, f.Display())
	return &d
}

// javaBinaryProperties are the binary properties java.util.regex can
// match with the `Is` prefix.
var javaBinaryProperties = map[string]bool{
	"Alphabetic": true, "Assigned": true, "Hex_Digit": true,
	"Lowercase": true, "Uppercase": true, "White_Space": true,
	"Noncharacter_Code_Point": true,
}

// jsWordPolyfill is what `\w` matches, spelled out in properties for
// engines whose `\w` is ASCII-only in unicode mode.
var jsWordPolyfill = []classProp{
	{kind: propBinary, name: "Alphabetic"},
	{kind: propCategory, name: "M"},
	{kind: propCategory, name: "Nd"},
	{kind: propCategory, name: "Pc"},
}

// re2SpaceExtras are the Unicode white space characters outside `\s` in
// RE2's ASCII interpretation.
var re2SpaceExtras = []classRange{
	{0x0B, 0x0B}, {0x85, 0x85}, {0xA0, 0xA0}, {0x1680, 0x1680},
	{0x2000, 0x200A}, {0x2028, 0x2029}, {0x202F, 0x202F},
	{0x205F, 0x205F}, {0x3000, 0x3000}, {0xFEFF, 0xFEFF},
}

// addNamedClass lowers one named class into set. The only flag is true
// when the name is the sole item of the source character set; that
// allows a negated polyfill to flip the negation of the whole set
// instead of failing.
func addNamedClass(set *reCharSet, name syntax.NamedClass, negative, only bool, f Flavor, ascii bool, span Span) *diagnose.Diagnostic {
	switch name.Kind {
	case syntax.ClassWord, syntax.ClassDigit, syntax.ClassSpace,
		syntax.ClassHorizSpace, syntax.ClassVertSpace:
		if ascii {
			return addASCIIShorthand(set, name, negative, f, span)
		}
		return addShorthand(set, name, negative, only, f, span)
	case syntax.ClassCategory:
		if ascii {
			return asciiModeClass(span)
		}
		return addCategory(set, name.Name, negative, f, span)
	case syntax.ClassScript:
		if ascii {
			return asciiModeClass(span)
		}
		return addScript(set, name.Name, negative, f, span)
	case syntax.ClassBlock:
		if ascii {
			return asciiModeClass(span)
		}
		return addBlock(set, name.Name, negative, f, span)
	default:
		if ascii {
			return asciiModeClass(span)
		}
		return addBinaryProperty(set, name.Name, negative, f, span)
	}
}

func asciiModeClass(span Span) *diagnose.Diagnostic {
	d := diagnose.Error(diagnose.KindUnsupported, diagnose.CodeUnsupported, span,
		"Unicode properties can't be used after `disable unicode`").
		WithHelp("Remove `disable unicode`, or replace the property with explicit ranges")
	return &d
}

func addShorthand(set *reCharSet, name syntax.NamedClass, negative, only bool, f Flavor, span Span) *diagnose.Diagnostic {
	// polyfill adds items that only express the positive class. A
	// negated single-item set can still be expressed by negating the
	// set itself.
	polyfill := func(add func()) *diagnose.Diagnostic {
		if negative {
			if !only {
				return unsupportedNegation(name.Name, f, span)
			}
			set.negative = !set.negative
		}
		add()
		return nil
	}

	switch name.Kind {
	case syntax.ClassWord:
		switch f {
		case FlavorJavaScript:
			return polyfill(func() {
				for _, p := range jsWordPolyfill {
					set.addProp(p)
				}
			})
		case FlavorRE2:
			return unsupportedClass("word", f, span)
		}
		set.addProp(classProp{negative: negative, kind: propShorthand, name: "w"})
	case syntax.ClassDigit:
		if f == FlavorJavaScript || f == FlavorRE2 {
			set.addProp(classProp{negative: negative, kind: propCategory, name: "Nd"})
			return nil
		}
		set.addProp(classProp{negative: negative, kind: propShorthand, name: "d"})
	case syntax.ClassSpace:
		if f == FlavorRE2 {
			return polyfill(func() {
				set.addProp(classProp{kind: propShorthand, name: "s"})
				set.ranges = append(set.ranges, re2SpaceExtras...)
			})
		}
		set.addProp(classProp{negative: negative, kind: propShorthand, name: "s"})
	case syntax.ClassHorizSpace:
		// the parser rejects `!horiz_space` and `!vert_space` already
		switch f {
		case FlavorPCRE, FlavorJava:
			set.addProp(classProp{kind: propShorthand, name: "h"})
		case FlavorPython:
			return unsupportedClass("horiz_space", f, span)
		default:
			set.addChar('\t')
			set.addProp(classProp{kind: propCategory, name: "Zs"})
		}
	case syntax.ClassVertSpace:
		switch f {
		case FlavorPCRE, FlavorJava:
			set.addProp(classProp{kind: propShorthand, name: "v"})
		default:
			set.addRange(0x0A, 0x0D)
			set.addChar(0x85)
			set.addChar(0x2028)
			set.addChar(0x2029)
		}
	}
	return nil
}

// addASCIIShorthand handles shorthands after `disable unicode`. Engines
// whose shorthands are ASCII already keep them; everything else becomes
// explicit ranges, which cannot be negated item-wise.
func addASCIIShorthand(set *reCharSet, name syntax.NamedClass, negative bool, f Flavor, span Span) *diagnose.Diagnostic {
	native := func() bool {
		switch name.Kind {
		case syntax.ClassWord, syntax.ClassDigit:
			return f == FlavorJavaScript || f == FlavorRE2
		case syntax.ClassSpace:
			return f == FlavorRE2
		}
		return false
	}()
	if negative && !native {
		return unsupportedNegation(name.Name, f, span)
	}

	switch name.Kind {
	case syntax.ClassWord:
		if native {
			set.addProp(classProp{negative: negative, kind: propShorthand, name: "w"})
			return nil
		}
		set.addRange('0', '9')
		set.addRange('a', 'z')
		set.addRange('A', 'Z')
		set.addChar('_')
	case syntax.ClassDigit:
		if native {
			set.addProp(classProp{negative: negative, kind: propShorthand, name: "d"})
			return nil
		}
		set.addRange('0', '9')
	case syntax.ClassSpace:
		if native {
			set.addProp(classProp{negative: negative, kind: propShorthand, name: "s"})
			return nil
		}
		set.addChar(' ')
		set.addRange(0x09, 0x0D)
	case syntax.ClassHorizSpace:
		set.addChar('\t')
		set.addChar(' ')
	case syntax.ClassVertSpace:
		set.addRange(0x0A, 0x0D)
	}
	return nil
}

func addCategory(set *reCharSet, abbrev string, negative bool, f Flavor, span Span) *diagnose.Diagnostic {
	switch {
	case f == FlavorPython:
		return unsupportedClass("Unicode categories", f, span)
	case f == FlavorRust && abbrev == "Cs":
		return unsupportedClass("the `Surrogate` category", f, span)
	case (f == FlavorDotNet || f == FlavorRE2) && abbrev == "LC":
		return unsupportedClass("the `Cased_Letter` category", f, span)
	}
	set.addProp(classProp{negative: negative, kind: propCategory, name: abbrev})
	return nil
}

func addScript(set *reCharSet, name string, negative bool, f Flavor, span Span) *diagnose.Diagnostic {
	switch f {
	case FlavorPython:
		return unsupportedClass("Unicode scripts", f, span)
	case FlavorDotNet:
		return unsupportedClass("Unicode scripts", f, span)
	}
	set.addProp(classProp{negative: negative, kind: propScript, name: name})
	return nil
}

func addBlock(set *reCharSet, name string, negative bool, f Flavor, span Span) *diagnose.Diagnostic {
	switch f {
	case FlavorDotNet, FlavorJava, FlavorRuby:
		set.addProp(classProp{negative: negative, kind: propBlock, name: name})
		return nil
	}
	return unsupportedClass("Unicode blocks", f, span)
}

func addBinaryProperty(set *reCharSet, name string, negative bool, f Flavor, span Span) *diagnose.Diagnostic {
	switch f {
	case FlavorJavaScript, FlavorRust, FlavorPCRE, FlavorRuby:
	case FlavorJava:
		if !javaBinaryProperties[name] {
			return unsupportedClass("the `"+name+"` property", f, span)
		}
	default:
		return unsupportedClass("Unicode properties", f, span)
	}
	set.addProp(classProp{negative: negative, kind: propBinary, name: name})
	return nil
}
