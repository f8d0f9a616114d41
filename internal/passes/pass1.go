// Package passes generates candidate answer keys and cloze blanks from a passage.
//
// Generators are pure functions of their input. They report best-effort
// candidates; the validate package decides what survives.
package passes

import (
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/pbaille/clozer/internal/domain"
	"github.com/pbaille/clozer/internal/span"
)

type match struct {
	start, end int // bytes
	tag        string
}

// Pass1 finds discourse connectives and temporal expressions.
func Pass1(text string, lang domain.Lang) ([]domain.Pass1Entry, error) {
	matchers, ok := pass1Matchers[lang]
	if !ok {
		return nil, fmt.Errorf("pass1 %q: %w", lang, domain.ErrUnsupportedLanguage)
	}

	var found []match
	for _, m := range matchers {
		for _, loc := range m.re.FindAllStringIndex(text, -1) {
			if m.clauseInitial && !atClauseStart(text, loc[0]) {
				continue
			}
			found = append(found, match{start: loc[0], end: loc[1], tag: m.tag})
		}
	}

	// leftmost-longest, then first matcher wins on identical ranges
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].start != found[j].start {
			return found[i].start < found[j].start
		}
		return found[i].end > found[j].end
	})

	t := span.NewText(text)
	entries := make([]domain.Pass1Entry, 0, len(found))
	lastEnd := -1
	for _, m := range found {
		if m.start < lastEnd {
			continue
		}
		lastEnd = m.end
		entries = append(entries, domain.Pass1Entry{
			Span:    t.FromBytes(m.start, m.end),
			Surface: text[m.start:m.end],
			Tag:     m.tag,
		})
	}
	return entries, nil
}

func atClauseStart(text string, at int) bool {
	if at == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:at])
	switch prev {
	case '。', '、', '！', '？', '「', '『', '（', '，', '!', '?':
		return true
	}
	return unicode.IsSpace(prev)
}
