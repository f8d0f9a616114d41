// Package segment splits a passage into sentence spans.
//
// The engine only depends on the Segmenter contract: spans are UTF-16 offsets,
// non-overlapping, strictly increasing, trimmed of surrounding whitespace, and
// identical for identical input. Rules is the default implementation.
package segment

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pbaille/clozer/internal/domain"
	"github.com/pbaille/clozer/internal/span"
)

// Segmenter returns the ordered sentence spans of text.
type Segmenter interface {
	Segment(text string, lang domain.Lang) ([]domain.Span, error)
}

// Func adapts a plain function to Segmenter.
type Func func(text string, lang domain.Lang) ([]domain.Span, error)

// Segment calls f.
func (f Func) Segment(text string, lang domain.Lang) ([]domain.Span, error) {
	return f(text, lang)
}

// Rules is a punctuation and abbreviation driven segmenter for en, ja and zh.
type Rules struct{}

// Default returns the rule-based segmenter.
func Default() Segmenter {
	return Rules{}
}

var enAbbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true, "sr": true, "jr": true,
	"st": true, "vs": true, "etc": true, "e.g": true, "i.e": true, "u.s": true, "u.k": true,
	"fig": true, "approx": true, "dept": true, "inc": true, "ltd": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true, "jul": true,
	"aug": true, "sep": true, "sept": true, "oct": true, "nov": true, "dec": true,
}

// closers may trail a terminator and still belong to the sentence.
const closers = `"')]}’”」』）】`

// Segment implements Segmenter.
func (Rules) Segment(text string, lang domain.Lang) ([]domain.Span, error) {
	var bounds [][2]int
	switch lang {
	case domain.English:
		bounds = splitEnglish(text)
	case domain.Japanese, domain.Chinese:
		bounds = splitCJK(text)
	default:
		return nil, fmt.Errorf("segment %q: %w", lang, domain.ErrUnsupportedLanguage)
	}

	t := span.NewText(text)
	sents := make([]domain.Span, 0, len(bounds))
	for _, b := range bounds {
		start, end := trim(text, b[0], b[1])
		if start >= end {
			continue
		}
		sents = append(sents, t.FromBytes(start, end))
	}
	return sents, nil
}

// splitEnglish returns byte ranges ending after each terminator run.
func splitEnglish(text string) [][2]int {
	var out [][2]int
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == '\n' && i+size < len(text) && text[i+size] == '\n':
			// blank line closes a paragraph
			out = append(out, [2]int{start, i})
			start = i + size
		case r == '.' || r == '!' || r == '?':
			end := absorbTerminators(text, i+size)
			if endsSentence(text, start, i, end, r) {
				out = append(out, [2]int{start, end})
				start = end
				i = end
				continue
			}
		}
		i += size
	}
	if start < len(text) {
		out = append(out, [2]int{start, len(text)})
	}
	return out
}

// absorbTerminators extends past repeated terminators and closing quotes.
func absorbTerminators(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == '.' || r == '!' || r == '?' || strings.ContainsRune(closers, r) {
			i += size
			continue
		}
		break
	}
	return i
}

func endsSentence(text string, start, at, end int, term rune) bool {
	if end < len(text) {
		next, _ := utf8.DecodeRuneInString(text[end:])
		if !unicode.IsSpace(next) {
			// 3.14, e.g.x, U.S.A
			return false
		}
	}
	if term != '.' {
		return true
	}
	word := lastWord(text[start:at])
	if word == "" {
		return true
	}
	lower := strings.ToLower(word)
	if enAbbreviations[lower] {
		return false
	}
	// "No. 5" abbreviates number; "the answer was no." ends a sentence
	if lower == "no" && nextIsDigit(text[end:]) {
		return false
	}
	// single capital initial: "J. R. Smith"
	if r, size := utf8.DecodeRuneInString(word); size == len(word) && unicode.IsUpper(r) {
		return false
	}
	return true
}

func nextIsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		return unicode.IsDigit(r)
	}
	return false
}

// lastWord returns the trailing run of letters and inner dots before a terminator.
func lastWord(s string) string {
	i := len(s)
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:i])
		if !unicode.IsLetter(r) && r != '.' {
			break
		}
		i -= size
	}
	return strings.Trim(s[i:], ".")
}

func isCJKTerminator(r rune) bool {
	switch r {
	case '。', '！', '？', '!', '?', '．', '\n':
		return true
	}
	return false
}

func splitCJK(text string) [][2]int {
	var out [][2]int
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if !isCJKTerminator(r) {
			continue
		}
		for i < len(text) {
			next, n := utf8.DecodeRuneInString(text[i:])
			if (isCJKTerminator(next) && next != '\n') || strings.ContainsRune(closers, next) {
				i += n
				continue
			}
			break
		}
		out = append(out, [2]int{start, i})
		start = i
	}
	if start < len(text) {
		out = append(out, [2]int{start, len(text)})
	}
	return out
}

// trim narrows a byte range to exclude surrounding whitespace (including U+3000).
func trim(text string, start, end int) (int, int) {
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	return start, end
}
