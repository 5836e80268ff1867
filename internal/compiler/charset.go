package compiler

import "sort"

// Character set construction. Ranges are kept sorted and merged so that
// emission and optimization can treat the slice as canonical.

func (s *reCharSet) addChar(c rune) {
	s.ranges = append(s.ranges, classRange{c, c})
}

func (s *reCharSet) addRange(lo, hi rune) {
	s.ranges = append(s.ranges, classRange{lo, hi})
}

func (s *reCharSet) addProp(p classProp) {
	for _, have := range s.props {
		if have == p {
			return
		}
	}
	s.props = append(s.props, p)
}

// normalize sorts the ranges and merges overlapping or adjacent ones.
func (s *reCharSet) normalize() {
	if len(s.ranges) < 2 {
		return
	}
	sort.Slice(s.ranges, func(i, j int) bool {
		a, b := s.ranges[i], s.ranges[j]
		if a.lo != b.lo {
			return a.lo < b.lo
		}
		return a.hi < b.hi
	})
	merged := s.ranges[:1]
	for _, r := range s.ranges[1:] {
		last := &merged[len(merged)-1]
		if r.lo <= last.hi+1 {
			if r.hi > last.hi {
				last.hi = r.hi
			}
			continue
		}
		merged = append(merged, r)
	}
	s.ranges = merged
}

// singleChar returns the only character the set matches, if the set is
// one non-negated range of length one with no properties.
func (s reCharSet) singleChar() (rune, bool) {
	if s.negative || len(s.props) > 0 || len(s.ranges) != 1 {
		return 0, false
	}
	if r := s.ranges[0]; r.lo == r.hi {
		return r.lo, true
	}
	return 0, false
}

// singleProp returns the only property in the set, if the set consists
// of exactly one property and no ranges.
func (s reCharSet) singleProp() (classProp, bool) {
	if len(s.ranges) > 0 || len(s.props) != 1 {
		return classProp{}, false
	}
	return s.props[0], true
}

// union adds all items of other into s. Both sets must be non-negated.
func (s *reCharSet) union(other reCharSet) {
	s.ranges = append(s.ranges, other.ranges...)
	for _, p := range other.props {
		s.addProp(p)
	}
	s.normalize()
}

// intersectRanges computes the intersection of two normalized, prop-free
// sets. The second result is false when either set has properties or a
// negation, in which case the intersection cannot be computed here.
func intersectRanges(a, b reCharSet) (reCharSet, bool) {
	if a.negative || b.negative || len(a.props) > 0 || len(b.props) > 0 {
		return reCharSet{}, false
	}
	var out reCharSet
	i, j := 0, 0
	for i < len(a.ranges) && j < len(b.ranges) {
		ra, rb := a.ranges[i], b.ranges[j]
		lo := max(ra.lo, rb.lo)
		hi := min(ra.hi, rb.hi)
		if lo <= hi {
			out.ranges = append(out.ranges, classRange{lo, hi})
		}
		if ra.hi < rb.hi {
			i++
		} else {
			j++
		}
	}
	return out, true
}
