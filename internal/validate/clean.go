package validate

import (
	"sort"

	"github.com/pbaille/clozer/internal/domain"
	"github.com/pbaille/clozer/internal/span"
)

// Cloze defaults applied to accepted blanks.
const (
	DefaultHint = "blank"
	DefaultType = "collocation"
)

// CleanPass1 keeps markers whose span is in bounds, whose surface matches the
// text exactly and whose tag is known. Input order is preserved.
func CleanPass1(t *span.Text, in []domain.Pass1Entry) []domain.Pass1Entry {
	out := make([]domain.Pass1Entry, 0, len(in))
	for _, e := range in {
		if e.Tag != domain.TagConnective && e.Tag != domain.TagTime {
			continue
		}
		if !span.Exact(t, e.Span, e.Surface) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CleanPass2 keeps antecedents that sit in the pronoun's sentence and end at or
// before it, nearest first, at most max of them. Entries left without
// antecedents are dropped.
func CleanPass2(t *span.Text, sents []domain.Span, in []domain.Pass2Entry, max int) []domain.Pass2Entry {
	n := t.Len()
	out := make([]domain.Pass2Entry, 0, len(in))
	for _, e := range in {
		if !span.InBounds(e.Pron, n) {
			continue
		}
		owner := span.Owner(sents, e.Pron)
		if owner < 0 {
			continue
		}
		sent := sents[owner]

		seen := make(map[domain.Span]bool, len(e.Antecedents))
		ants := make([]domain.Span, 0, len(e.Antecedents))
		for _, a := range e.Antecedents {
			if !span.InBounds(a, n) || !span.Contains(sent, a) || a.End > e.Pron.Start {
				continue
			}
			if seen[a] {
				continue
			}
			seen[a] = true
			ants = append(ants, a)
		}
		if len(ants) == 0 {
			continue
		}
		sort.SliceStable(ants, func(i, j int) bool {
			if ants[i].End != ants[j].End {
				return ants[i].End > ants[j].End
			}
			return ants[i].Start > ants[j].Start
		})
		if len(ants) > max {
			ants = ants[:max]
		}
		out = append(out, domain.Pass2Entry{Pron: e.Pron, Antecedents: ants})
	}
	return out
}

// CleanPass3 keeps triples that sit in one sentence, read s <= v <= o by start,
// and do not overlap. A failing triple is dropped whole.
func CleanPass3(t *span.Text, sents []domain.Span, in []domain.Pass3Entry) []domain.Pass3Entry {
	n := t.Len()
	out := make([]domain.Pass3Entry, 0, len(in))
	for _, e := range in {
		if !span.InBounds(e.S, n) || !span.InBounds(e.V, n) || !span.InBounds(e.O, n) {
			continue
		}
		if !(e.S.Start <= e.V.Start && e.V.Start <= e.O.Start) {
			continue
		}
		if span.Overlap(e.S, e.V) || span.Overlap(e.V, e.O) || span.Overlap(e.S, e.O) {
			continue
		}
		owner := span.Owner(sents, e.S)
		if owner < 0 || !span.Contains(sents[owner], e.V) || !span.Contains(sents[owner], e.O) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CleanCloze accepts blanks greedily by start offset: the earliest-starting
// blank wins any overlap, blanks must sit inside one sentence, and each
// sentence takes at most quota blanks.
func CleanCloze(t *span.Text, sents []domain.Span, in []domain.ClozeEntry, quota int) []domain.ClozeEntry {
	cands := append([]domain.ClozeEntry(nil), in...)
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Start < cands[j].Start })

	out := make([]domain.ClozeEntry, 0, len(cands))
	perSentence := make(map[int]int)
	for _, c := range cands {
		s := c.Span()
		if !span.Exact(t, s, c.Answer) {
			continue
		}
		if overlapsAny(out, s) {
			continue
		}
		owner := span.Owner(sents, s)
		if owner < 0 {
			continue
		}
		if perSentence[owner] >= quota {
			continue
		}
		perSentence[owner]++

		if c.Hint == "" {
			c.Hint = DefaultHint
		}
		if c.Type == "" {
			c.Type = DefaultType
		}
		out = append(out, domain.ClozeEntry{Start: c.Start, End: c.End, Answer: c.Answer, Hint: c.Hint, Type: c.Type})
	}
	return out
}

func overlapsAny(accepted []domain.ClozeEntry, s domain.Span) bool {
	for _, a := range accepted {
		if span.Overlap(a.Span(), s) {
			return true
		}
	}
	return false
}
