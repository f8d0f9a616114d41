// Package span holds the primitive predicates every pass is checked with.
//
// Offsets are UTF-16 code units. Text converts between the Go byte offsets that
// regexp and tokenizers report and the code-unit offsets that spans carry.
package span

import "github.com/pbaille/clozer/internal/domain"

// InBounds reports whether 0 <= s.Start < s.End <= n.
func InBounds(s domain.Span, n int) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= n
}

// Exact reports whether the text under s equals expected, code unit for code unit.
func Exact(t *Text, s domain.Span, expected string) bool {
	if !InBounds(s, t.Len()) {
		return false
	}
	return t.Slice(s.Start, s.End) == expected
}

// Overlap reports whether two half-open intervals intersect.
func Overlap(a, b domain.Span) bool {
	return !(a.End <= b.Start || b.End <= a.Start)
}

// Contains reports whether inner lies within outer.
func Contains(outer, inner domain.Span) bool {
	return inner.Start >= outer.Start && inner.End <= outer.End
}

// Owner returns the index of the sentence containing s, or -1.
func Owner(sents []domain.Span, s domain.Span) int {
	for i, sent := range sents {
		if Contains(sent, s) {
			return i
		}
	}
	return -1
}
