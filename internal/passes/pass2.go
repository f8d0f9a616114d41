package passes

import (
	"sort"
	"strings"

	"github.com/pbaille/clozer/internal/domain"
	"github.com/pbaille/clozer/internal/span"
	"github.com/pbaille/clozer/internal/tagger"
)

// maxAntecedentCandidates bounds what the generator proposes per pronoun.
const maxAntecedentCandidates = 5

// Pass2 links each anaphoric pronoun to preceding noun chunks from its own
// sentence and the one before it, nearest first.
func Pass2(text string, lang domain.Lang, sents []domain.Span) ([]domain.Pass2Entry, error) {
	tokens, err := tagger.Tag(text, lang)
	if err != nil {
		return nil, err
	}
	words := anaphors[lang]

	var referents []tagger.Chunk
	for _, c := range tagger.Chunks(tokens) {
		if c.Kind == tagger.NounChunk && !c.Pronoun {
			referents = append(referents, c)
		}
	}

	entries := make([]domain.Pass2Entry, 0)
	for _, tok := range tokens {
		if !words[strings.ToLower(tok.Text)] {
			continue
		}
		owner := span.Owner(sents, tok.Span)
		if owner < 0 {
			continue
		}

		var cands []domain.Span
		for _, r := range referents {
			if r.Span.End > tok.Span.Start {
				continue
			}
			ro := span.Owner(sents, r.Span)
			if ro != owner && ro != owner-1 {
				continue
			}
			cands = append(cands, r.Span)
		}
		if len(cands) == 0 {
			continue
		}
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].End > cands[j].End })
		if len(cands) > maxAntecedentCandidates {
			cands = cands[:maxAntecedentCandidates]
		}
		entries = append(entries, domain.Pass2Entry{Pron: tok.Span, Antecedents: cands})
	}
	return entries, nil
}
