package compiler

import (
	"fmt"
	"strings"
	"unicode"
)

// The emitter turns the optimized IR into regex text. All remaining
// flavor differences are purely syntactic: group prefixes, property
// spellings, boundary polyfills and escaping rules.

type emitter struct {
	buf    strings.Builder
	flavor Flavor
	// pending holds a numbered reference that is only written once the
	// next character is known: a following digit would extend the group
	// number, so the reference gets a non-capturing wrapper then.
	pending string
}

func emit(re regex, flavor Flavor) string {
	e := &emitter{flavor: flavor}
	re.emit(e)
	e.flushPending(0)
	return e.buf.String()
}

func (e *emitter) flushPending(next byte) {
	if e.pending == "" {
		return
	}
	if next >= '0' && next <= '9' {
		e.buf.WriteString("(?:")
		e.buf.WriteString(e.pending)
		e.buf.WriteByte(')')
	} else {
		e.buf.WriteString(e.pending)
	}
	e.pending = ""
}

func (e *emitter) str(s string) {
	if s == "" {
		return
	}
	e.flushPending(s[0])
	e.buf.WriteString(s)
}

func (e *emitter) char(c byte) {
	e.flushPending(c)
	e.buf.WriteByte(c)
}

func (e *emitter) rune(c rune) {
	var first byte
	if c < 0x80 {
		first = byte(c)
	}
	e.flushPending(first)
	e.buf.WriteRune(c)
}

func (e *emitter) printf(f string, a ...any) {
	e.str(fmt.Sprintf(f, a...))
}

// escapeChar writes a character, escaping anything that is neither
// alphanumeric nor printable ASCII. Metacharacters are handled by the
// callers, since the rules differ inside and outside character sets.
func (e *emitter) escapeChar(c rune) {
	switch c {
	case '\n':
		e.str(`\n`)
	case '\r':
		e.str(`\r`)
	case '\t':
		e.str(`\t`)
	case 0x07:
		e.str(`\a`)
	case 0x0C:
		e.str(`\f`)
	case ' ':
		e.char(' ')
	default:
		switch {
		case c < 0x80:
			if c > 0x20 && c < 0x7F {
				e.rune(c)
			} else {
				e.printf(`\x%02X`, c)
			}
		case isAlphanumeric(c) && c <= 0xFFFF:
			e.rune(c)
		case c <= 0xFF:
			e.printf(`\x%02X`, c)
		case c <= 0xFFFF && e.flavor != FlavorPCRE:
			e.printf(`\u%04X`, c)
		case e.flavor == FlavorPCRE:
			e.printf(`\x{%X}`, c)
		default:
			e.printf(`\u{%X}`, c)
		}
	}
}

func isAlphanumeric(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c)
}

// escapeCharOutsideClass additionally escapes the metacharacters that
// are special outside a character set.
func (e *emitter) escapeCharOutsideClass(c rune) {
	switch c {
	case '\\', '[', '{', '}', '(', ')', '.', '+', '*', '?', '|', '^', '$':
		e.char('\\')
		e.rune(c)
	default:
		e.escapeChar(c)
	}
}

// escapeCharInClass escapes the metacharacters that are special inside
// a character set. `&` and `|` only need escaping in flavors with set
// intersection syntax.
func (e *emitter) escapeCharInClass(c rune) {
	switch c {
	case '\\', '-', '[', ']', '^':
		e.char('\\')
		e.rune(c)
	case '&', '|':
		if e.flavor != FlavorJavaScript {
			e.char('\\')
		}
		e.rune(c)
	default:
		e.escapeChar(c)
	}
}

func (l reLiteral) emit(e *emitter) {
	// line breaks are normalized, so \r and \r\n match like \n
	runes := []rune(l.content)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\r' {
			e.escapeCharOutsideClass('\n')
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			continue
		}
		e.escapeCharOutsideClass(runes[i])
	}
}

func (u reUnescaped) emit(e *emitter) {
	e.str(u.content)
}

func (s reCharSet) emit(e *emitter) {
	s.emitIn(e, false)
}

func (s reCharSet) emitIn(e *emitter, insideCompound bool) {
	if len(s.ranges)+len(s.props) == 1 {
		if len(s.ranges) == 1 {
			if r := s.ranges[0]; r.lo == r.hi && !s.negative {
				e.escapeCharOutsideClass(r.lo)
				return
			}
		} else {
			p := s.props[0]
			if p.kind == propShorthand {
				if sh, ok := shorthandEscape(p.name, p.negative != s.negative); ok {
					e.str(sh)
					return
				}
			} else {
				e.emitProperty(p, p.negative != s.negative)
				return
			}
		}
	}

	if s.negative {
		e.str("[^")
	} else if !insideCompound {
		e.char('[')
	}

	for _, p := range s.props {
		if p.kind == propShorthand {
			if sh, ok := shorthandEscape(p.name, p.negative); ok {
				e.str(sh)
			}
			continue
		}
		e.emitProperty(p, p.negative)
	}
	for _, r := range s.ranges {
		e.escapeCharInClass(r.lo)
		if r.lo != r.hi {
			if r.lo+1 < r.hi {
				e.char('-')
			}
			e.escapeCharInClass(r.hi)
		}
	}

	if s.negative || !insideCompound {
		e.char(']')
	}
}

// shorthandEscape returns the escape sequence for a shorthand class.
// Horizontal and vertical space have no negated form.
func shorthandEscape(name string, negative bool) (string, bool) {
	switch name {
	case "w":
		if negative {
			return `\W`, true
		}
		return `\w`, true
	case "d":
		if negative {
			return `\D`, true
		}
		return `\d`, true
	case "s":
		if negative {
			return `\S`, true
		}
		return `\s`, true
	case "h":
		if negative {
			return "", false
		}
		return `\h`, true
	case "v":
		if negative {
			return "", false
		}
		return `\v`, true
	}
	return "", false
}

// emitProperty writes a Unicode property. The one-letter general
// categories can omit the braces in some flavors.
func (e *emitter) emitProperty(p classProp, negative bool) {
	single := p.kind == propCategory && len(p.name) == 1
	switch e.flavor {
	case FlavorJava, FlavorPCRE, FlavorRust, FlavorRuby:
	default:
		single = false
	}

	if negative {
		e.str(`\P`)
	} else {
		e.str(`\p`)
	}
	if !single {
		e.char('{')
	}

	switch p.kind {
	case propCategory:
		// Rust resolves two-letter names as scripts first, so these
		// two need the explicit general-category prefix
		if e.flavor == FlavorRust && (p.name == "LC" || p.name == "Sc") {
			e.str("gc=")
		}
		e.str(p.name)
	case propScript:
		if e.flavor == FlavorJavaScript || e.flavor == FlavorJava {
			e.str("sc=")
		}
		e.str(p.name)
	case propBlock:
		switch e.flavor {
		case FlavorDotNet:
			e.str("Is")
			e.str(strings.ReplaceAll(strings.ReplaceAll(p.name, "_And_", "_and_"), "_", ""))
		default:
			e.str("In")
			e.str(p.name)
		}
	case propBinary:
		if e.flavor == FlavorJava {
			e.str("Is")
		}
		e.str(p.name)
	}

	if !single {
		e.char('}')
	}
}

func (c reCompoundCharSet) emit(e *emitter) {
	e.char('[')
	for i, set := range c.sets {
		if i > 0 {
			e.str("&&")
		}
		set.emitIn(e, true)
	}
	e.char(']')
}

func (reGrapheme) emit(e *emitter) { e.str(`\X`) }
func (reDot) emit(e *emitter)      { e.char('.') }

func (g reGroup) emit(e *emitter) {
	switch g.kind {
	case groupNamed:
		switch e.flavor {
		case FlavorPython, FlavorPCRE, FlavorRust:
			e.str("(?P<")
		default:
			e.str("(?<")
		}
		e.str(g.name)
		e.char('>')
		for _, part := range g.parts {
			part.emit(e)
		}
		e.char(')')
	case groupCapture:
		e.char('(')
		for _, part := range g.parts {
			part.emit(e)
		}
		e.char(')')
	case groupAtomic:
		e.str("(?>")
		for _, part := range g.parts {
			part.emit(e)
		}
		e.char(')')
	default:
		for _, part := range g.parts {
			parens := len(g.parts) > 1 && part.needsParensInSequence()
			if !parens && len(g.parts) == 1 {
				_, parens = part.(reUnescaped)
			}
			if parens {
				e.str("(?:")
			}
			part.emit(e)
			if parens {
				e.char(')')
			}
		}
	}
}

func (a reAlternation) emit(e *emitter) {
	for i, alt := range a.alts {
		if i > 0 {
			e.char('|')
		}
		alt.emit(e)
	}
}

func (r *reRepetition) emit(e *emitter) {
	if lit, ok := r.content.(reLiteral); ok && lit.content == "" {
		return
	}

	if r.content.needsParensBeforeRepetition(e.flavor) {
		e.str("(?:")
		r.content.emit(e)
		e.char(')')
	} else {
		r.content.emit(e)
	}

	omitLazy := false
	switch {
	case r.lower == 1 && r.upper != nil && *r.upper == 1:
		return
	case r.lower == 0 && r.upper != nil && *r.upper == 1:
		e.char('?')
	case r.lower == 0 && r.upper == nil:
		e.char('*')
	case r.lower == 1 && r.upper == nil:
		e.char('+')
	case r.upper == nil:
		e.printf("{%d,}", r.lower)
	case r.lower == *r.upper:
		e.printf("{%d}", r.lower)
		omitLazy = true
	case r.lower == 0:
		e.printf("{0,%d}", *r.upper)
	default:
		e.printf("{%d,%d}", r.lower, *r.upper)
	}

	if r.quant == quantLazy && !omitLazy {
		e.char('?')
	}
}

func (b reBoundary) emit(e *emitter) {
	switch b.kind {
	case boundStart:
		e.char('^')
	case boundEnd:
		e.char('$')
	case boundWord:
		e.str(`\b`)
	case boundNotWord:
		e.str(`\B`)
	case boundWordStart:
		switch e.flavor {
		case FlavorPCRE:
			e.str("[[:<:]]")
		case FlavorRust:
			e.str(`\<`)
		default:
			e.str(`(?<!\w)(?=\w)`)
		}
	case boundWordEnd:
		switch e.flavor {
		case FlavorPCRE:
			e.str("[[:>:]]")
		case FlavorRust:
			e.str(`\>`)
		default:
			e.str(`(?<=\w)(?!\w)`)
		}
	}
}

func (l *reLookaround) emit(e *emitter) {
	switch l.kind {
	case lookAhead:
		e.str("(?=")
	case lookAheadNegative:
		e.str("(?!")
	case lookBehind:
		e.str("(?<=")
	default:
		e.str("(?<!")
	}
	l.content.emit(e)
	e.char(')')
}

func (r reReference) emit(e *emitter) {
	if r.name != "" {
		e.printf(`\k<%s>`, r.name)
		return
	}
	e.flushPending(0)
	e.pending = fmt.Sprintf(`\%d`, r.number)
}

func (reRecursion) emit(e *emitter) { e.str("(?R)") }
