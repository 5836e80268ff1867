package syntax

// NamedClassKind says what a name inside `[...]` refers to.
type NamedClassKind uint8

const (
	// ClassWord is `word` or `w`, equivalent to `\w`.
	ClassWord NamedClassKind = iota
	// ClassDigit is `digit` or `d`, equivalent to `\d`.
	ClassDigit
	// ClassSpace is `space` or `s`, equivalent to `\s`.
	ClassSpace
	// ClassHorizSpace is `horiz_space` or `h`.
	ClassHorizSpace
	// ClassVertSpace is `vert_space` or `v`.
	ClassVertSpace
	// ClassCategory is a Unicode general category such as `Letter`.
	ClassCategory
	// ClassScript is a Unicode script such as `Greek`.
	ClassScript
	// ClassBlock is a Unicode block such as `InBasic_Latin`.
	ClassBlock
	// ClassProperty is a Unicode binary property such as `Alphabetic`.
	ClassProperty
)

func (k NamedClassKind) String() string {
	switch k {
	case ClassWord, ClassDigit, ClassSpace, ClassHorizSpace, ClassVertSpace:
		return "shorthand"
	case ClassCategory:
		return "category"
	case ClassScript:
		return "script"
	case ClassBlock:
		return "block"
	}
	return "property"
}

// NamedClass is a resolved class name. For Unicode kinds, Name holds the
// canonical form emitted into the regex: the category abbreviation, the
// script or block name, or the property name.
type NamedClass struct {
	Kind NamedClassKind
	Name string
}

// ClassNameError says why a name in a character set was rejected.
type ClassNameError struct {
	// Unknown is true when the name is not recognized at all.
	Unknown bool
	// Negation is true when the name exists but cannot be negated.
	Negation bool
	Name     string
}

var shorthands = map[string]NamedClassKind{
	"word": ClassWord, "w": ClassWord,
	"digit": ClassDigit, "d": ClassDigit,
	"space": ClassSpace, "s": ClassSpace,
	"horiz_space": ClassHorizSpace, "h": ClassHorizSpace,
	"vert_space": ClassVertSpace, "v": ClassVertSpace,
}

// asciiClasses expand to plain ranges for maximum compatibility.
var asciiClasses = map[string][]ClassItem{
	"ascii": {ClassRange{0, 0x7F}},
	"ascii_alpha": {
		ClassRange{'a', 'z'}, ClassRange{'A', 'Z'},
	},
	"ascii_alnum": {
		ClassRange{'0', '9'}, ClassRange{'a', 'z'}, ClassRange{'A', 'Z'},
	},
	"ascii_blank": {ClassChar{' '}, ClassChar{'\t'}},
	"ascii_cntrl": {ClassRange{0, 0x1F}, ClassChar{0x7F}},
	"ascii_digit": {ClassRange{'0', '9'}},
	"ascii_graph": {ClassRange{'!', '~'}},
	"ascii_lower": {ClassRange{'a', 'z'}},
	"ascii_print": {ClassRange{' ', '~'}},
	"ascii_punct": {
		ClassRange{'!', '/'}, ClassRange{':', '@'},
		ClassRange{'[', '`'}, ClassRange{'{', '~'},
	},
	"ascii_space": {ClassRange{'\t', '\r'}, ClassChar{' '}},
	"ascii_upper": {ClassRange{'A', 'Z'}},
	"ascii_word": {
		ClassRange{'0', '9'}, ClassRange{'a', 'z'},
		ClassRange{'A', 'Z'}, ClassChar{'_'},
	},
	"ascii_xdigit": {
		ClassRange{'0', '9'}, ClassRange{'a', 'f'}, ClassRange{'A', 'F'},
	},
}

// categories maps general category names, long and abbreviated, to the
// abbreviation emitted into the regex.
var categories = map[string]string{
	"Letter": "L", "L": "L",
	"Cased_Letter": "LC", "LC": "LC",
	"Uppercase_Letter": "Lu", "Lu": "Lu",
	"Lowercase_Letter": "Ll", "Ll": "Ll",
	"Titlecase_Letter": "Lt", "Lt": "Lt",
	"Modifier_Letter": "Lm", "Lm": "Lm",
	"Other_Letter": "Lo", "Lo": "Lo",
	"Mark": "M", "M": "M",
	"Nonspacing_Mark": "Mn", "Mn": "Mn",
	"Spacing_Mark": "Mc", "Mc": "Mc",
	"Enclosing_Mark": "Me", "Me": "Me",
	"Number": "N", "N": "N",
	"Decimal_Number": "Nd", "Nd": "Nd",
	"Letter_Number": "Nl", "Nl": "Nl",
	"Other_Number": "No", "No": "No",
	"Punctuation": "P", "P": "P",
	"Connector_Punctuation": "Pc", "Pc": "Pc",
	"Dash_Punctuation": "Pd", "Pd": "Pd",
	"Open_Punctuation": "Ps", "Ps": "Ps",
	"Close_Punctuation": "Pe", "Pe": "Pe",
	"Initial_Punctuation": "Pi", "Pi": "Pi",
	"Final_Punctuation": "Pf", "Pf": "Pf",
	"Other_Punctuation": "Po", "Po": "Po",
	"Symbol": "S", "S": "S",
	"Math_Symbol": "Sm", "Sm": "Sm",
	"Currency_Symbol": "Sc", "Sc": "Sc",
	"Modifier_Symbol": "Sk", "Sk": "Sk",
	"Other_Symbol": "So", "So": "So",
	"Separator": "Z", "Z": "Z",
	"Space_Separator": "Zs", "Zs": "Zs",
	"Line_Separator": "Zl", "Zl": "Zl",
	"Paragraph_Separator": "Zp", "Zp": "Zp",
	"Other": "C", "C": "C",
	"Control": "Cc", "Cc": "Cc",
	"Format": "Cf", "Cf": "Cf",
	"Surrogate": "Cs", "Cs": "Cs",
	"Private_Use": "Co", "Co": "Co",
	"Unassigned": "Cn", "Cn": "Cn",
}

var scripts = map[string]bool{
	"Adlam": true, "Arabic": true, "Armenian": true, "Balinese": true,
	"Bengali": true, "Bopomofo": true, "Braille": true, "Cherokee": true,
	"Common": true, "Coptic": true, "Cyrillic": true, "Devanagari": true,
	"Ethiopic": true, "Georgian": true, "Glagolitic": true, "Gothic": true,
	"Greek": true, "Gujarati": true, "Gurmukhi": true, "Han": true,
	"Hangul": true, "Hebrew": true, "Hiragana": true, "Inherited": true,
	"Javanese": true, "Kannada": true, "Katakana": true, "Khmer": true,
	"Lao": true, "Latin": true, "Malayalam": true, "Mongolian": true,
	"Myanmar": true, "Ogham": true, "Oriya": true, "Runic": true,
	"Sinhala": true, "Syriac": true, "Tagalog": true, "Tamil": true,
	"Telugu": true, "Thaana": true, "Thai": true, "Tibetan": true,
	"Yi": true,
}

// blocks are written with the `In` prefix in Pomsky. The stored name is
// the block without the prefix.
var blocks = map[string]bool{
	"Basic_Latin": true, "Latin_1_Supplement": true,
	"Latin_Extended_A": true, "Latin_Extended_B": true,
	"IPA_Extensions": true, "Greek_and_Coptic": true, "Cyrillic": true,
	"Cyrillic_Supplement": true, "Armenian": true, "Hebrew": true,
	"Arabic": true, "Devanagari": true, "Bengali": true, "Tamil": true,
	"Thai": true, "Lao": true, "Tibetan": true, "Georgian": true,
	"Hangul_Jamo": true, "Ethiopic": true, "Cherokee": true,
	"Mongolian": true, "General_Punctuation": true,
	"Currency_Symbols": true, "Arrows": true,
	"Mathematical_Operators": true, "Box_Drawing": true,
	"Hiragana": true, "Katakana": true, "Bopomofo": true,
	"CJK_Unified_Ideographs": true, "Hangul_Syllables": true,
	"Emoticons": true,
}

var properties = map[string]bool{
	"Alphabetic": true, "White_Space": true, "Uppercase": true,
	"Lowercase": true, "Cased": true, "Math": true, "Dash": true,
	"Quotation_Mark": true, "Terminal_Punctuation": true,
	"Hex_Digit": true, "ASCII_Hex_Digit": true,
	"ID_Start": true, "ID_Continue": true,
	"XID_Start": true, "XID_Continue": true,
	"Grapheme_Base": true, "Grapheme_Extend": true,
	"Default_Ignorable_Code_Point": true,
	"Noncharacter_Code_Point": true, "Assigned": true,
	"Emoji": true, "Emoji_Presentation": true, "Emoji_Modifier": true,
	"Emoji_Component": true,
}

// LookupClassName resolves a name inside a character set. ASCII classes
// expand to ranges; everything else becomes a single ClassNamed item.
func LookupClassName(name string, negative bool, span Span) ([]ClassItem, *ClassNameError) {
	if kind, ok := shorthands[name]; ok {
		if negative && (kind == ClassHorizSpace || kind == ClassVertSpace) {
			return nil, &ClassNameError{Negation: true, Name: name}
		}
		return []ClassItem{ClassNamed{
			Name:     NamedClass{Kind: kind, Name: name},
			Negative: negative,
			Span:     span,
		}}, nil
	}

	if items, ok := asciiClasses[name]; ok {
		if negative {
			return nil, &ClassNameError{Negation: true, Name: name}
		}
		return items, nil
	}

	named := func(kind NamedClassKind, canonical string) []ClassItem {
		return []ClassItem{ClassNamed{
			Name:     NamedClass{Kind: kind, Name: canonical},
			Negative: negative,
			Span:     span,
		}}
	}

	if abbrev, ok := categories[name]; ok {
		return named(ClassCategory, abbrev), nil
	}
	if scripts[name] {
		return named(ClassScript, name), nil
	}
	if len(name) > 2 && name[:2] == "In" && blocks[name[2:]] {
		return named(ClassBlock, name[2:]), nil
	}
	if properties[name] {
		return named(ClassProperty, name), nil
	}

	return nil, &ClassNameError{Unknown: true, Name: name}
}
