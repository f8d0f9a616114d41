package span

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pbaille/clozer/internal/domain"
)

// Text is an immutable UTF-16 view of a string.
type Text struct {
	src   string
	units []uint16
	// byteAt[i] is the byte offset where code unit i begins; the low half of a
	// surrogate pair shares its rune's offset. byteAt[len(units)] == len(src).
	byteAt []int
}

// NewText builds the UTF-16 view of s.
func NewText(s string) *Text {
	t := &Text{
		src:    s,
		units:  make([]uint16, 0, len(s)),
		byteAt: make([]int, 0, len(s)+1),
	}
	for i, r := range s {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(s[i:])
			if size == 1 {
				// Invalid byte: keep one code unit per byte so offsets stay monotonic.
				t.units = append(t.units, uint16(utf8.RuneError))
				t.byteAt = append(t.byteAt, i)
				continue
			}
		}
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			t.units = append(t.units, uint16(r1), uint16(r2))
			t.byteAt = append(t.byteAt, i, i)
			continue
		}
		t.units = append(t.units, uint16(r))
		t.byteAt = append(t.byteAt, i)
	}
	t.byteAt = append(t.byteAt, len(s))
	return t
}

// String returns the source string.
func (t *Text) String() string {
	return t.src
}

// Len returns the length in UTF-16 code units.
func (t *Text) Len() int {
	return len(t.units)
}

// Slice decodes units [start, end). Out-of-range bounds are clamped; a cut
// through a surrogate pair decodes to U+FFFD.
func (t *Text) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(t.units) {
		end = len(t.units)
	}
	if start >= end {
		return ""
	}
	return string(utf16.Decode(t.units[start:end]))
}

// SpanText returns the text under s.
func (t *Text) SpanText(s domain.Span) string {
	return t.Slice(s.Start, s.End)
}

// UnitOffset converts a byte offset to a UTF-16 offset. A byte offset inside a
// rune maps to that rune's first code unit.
func (t *Text) UnitOffset(byteOff int) int {
	if byteOff <= 0 {
		return 0
	}
	if byteOff >= len(t.src) {
		return len(t.units)
	}
	i := sort.SearchInts(t.byteAt, byteOff)
	if t.byteAt[i] != byteOff {
		i--
	}
	// step back to the first unit of a surrogate pair
	for i > 0 && t.byteAt[i-1] == t.byteAt[i] {
		i--
	}
	return i
}

// ByteOffset converts a UTF-16 offset to a byte offset.
func (t *Text) ByteOffset(unit int) int {
	if unit <= 0 {
		return 0
	}
	if unit >= len(t.units) {
		return len(t.src)
	}
	return t.byteAt[unit]
}

// FromBytes converts a byte range to a span.
func (t *Text) FromBytes(start, end int) domain.Span {
	return domain.Span{Start: t.UnitOffset(start), End: t.UnitOffset(end)}
}
