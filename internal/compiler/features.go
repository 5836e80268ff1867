package compiler

import "strings"

// FeatureSet is a bit set of language features that a compilation may
// use. Features outside the set produce an error with a different code
// than features the flavor itself lacks, so callers can tell policy
// restrictions apart from dialect limits.
type FeatureSet uint16

const (
	// FeatAsciiMode is `disable unicode`.
	FeatAsciiMode FeatureSet = 1 << iota
	// FeatAtomicGroups is `atomic(...)`.
	FeatAtomicGroups
	// FeatBoundaries is `^ $ % !%` and the word-edge boundaries.
	FeatBoundaries
	// FeatDot is `.`.
	FeatDot
	// FeatGrapheme is `Grapheme`.
	FeatGrapheme
	// FeatIntersection is `&` between character sets.
	FeatIntersection
	// FeatLazyMode is `enable lazy`.
	FeatLazyMode
	// FeatLookahead is `>>` and `!>>`.
	FeatLookahead
	// FeatLookbehind is `<<` and `!<<`.
	FeatLookbehind
	// FeatNamedGroups is `:name(...)`.
	FeatNamedGroups
	// FeatNumberedGroups is `:(...)`.
	FeatNumberedGroups
	// FeatRanges is `range 'a'-'b'`.
	FeatRanges
	// FeatRecursion is `recursion`.
	FeatRecursion
	// FeatReferences is `::name` and friends.
	FeatReferences
	// FeatRegexes is `regex '...'`.
	FeatRegexes
	// FeatVariables is `let name = ...;`.
	FeatVariables
)

// AllFeatures enables everything; it is the default.
const AllFeatures FeatureSet = 1<<16 - 1

var featureNames = map[string]FeatureSet{
	"ascii-mode":      FeatAsciiMode,
	"atomic-groups":   FeatAtomicGroups,
	"boundaries":      FeatBoundaries,
	"dot":             FeatDot,
	"grapheme":        FeatGrapheme,
	"intersection":    FeatIntersection,
	"lazy-mode":       FeatLazyMode,
	"lookahead":       FeatLookahead,
	"lookbehind":      FeatLookbehind,
	"named-groups":    FeatNamedGroups,
	"numbered-groups": FeatNumberedGroups,
	"ranges":          FeatRanges,
	"recursion":       FeatRecursion,
	"references":      FeatReferences,
	"regexes":         FeatRegexes,
	"variables":       FeatVariables,
}

// Has reports whether every feature in want is enabled.
func (s FeatureSet) Has(want FeatureSet) bool {
	return s&want == want
}

// ParseFeatures turns a comma-separated list of feature names into a
// set. An empty list means all features. The second result names the
// first unknown feature, or is empty on success.
func ParseFeatures(list string) (FeatureSet, string) {
	if strings.TrimSpace(list) == "" {
		return AllFeatures, ""
	}
	var set FeatureSet
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		bit, ok := featureNames[name]
		if !ok {
			return 0, name
		}
		set |= bit
	}
	return set, ""
}

// featureName returns the CLI name of a single feature bit.
func featureName(bit FeatureSet) string {
	for name, b := range featureNames {
		if b == bit {
			return name
		}
	}
	return "unknown"
}
