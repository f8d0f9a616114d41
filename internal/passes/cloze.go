package passes

import (
	"errors"
	"fmt"

	"github.com/pbaille/clozer/internal/domain"
	"github.com/pbaille/clozer/internal/span"
	"github.com/pbaille/clozer/internal/tagger"
)

// ErrUnknownTier is returned for a cloze tier other than short or long.
var ErrUnknownTier = errors.New("unknown cloze tier")

// Cloze types.
const (
	TypeCollocation = "collocation"
	TypeVocab       = "vocab"
	TypeGrammar     = "grammar"
	TypeConnective  = "connective"
)

// MakeCloze proposes blanks for one tier. Short blanks content words or
// verb-object collocations in every other sentence; long proposes one blank
// per sentence and prefers function words.
func MakeCloze(text string, lang domain.Lang, tier domain.Tier, sents []domain.Span) ([]domain.ClozeEntry, error) {
	if tier != domain.TierShort && tier != domain.TierLong {
		return nil, fmt.Errorf("make cloze %q: %w", tier, ErrUnknownTier)
	}
	tokens, err := tagger.Tag(text, lang)
	if err != nil {
		return nil, err
	}
	t := span.NewText(text)

	entries := make([]domain.ClozeEntry, 0, len(sents))
	for i, sent := range sents {
		toks := tagger.Within(tokens, sent)
		if len(toks) == 0 {
			continue
		}
		var (
			s        domain.Span
			hint, ty string
			ok       bool
		)
		switch tier {
		case domain.TierShort:
			if i%2 != 0 {
				continue
			}
			s, hint, ty, ok = contentBlank(lang, toks)
		case domain.TierLong:
			s, hint, ty, ok = functionBlank(toks)
			if !ok {
				s, hint, ty, ok = contentBlank(lang, toks)
			}
		}
		if !ok {
			continue
		}
		entries = append(entries, domain.ClozeEntry{
			Start:  s.Start,
			End:    s.End,
			Answer: t.SpanText(s),
			Hint:   hint,
			Type:   ty,
		})
	}
	return entries, nil
}

// contentBlank prefers a verb-object collocation, then the longest noun chunk.
func contentBlank(lang domain.Lang, toks []tagger.Token) (domain.Span, string, string, bool) {
	chunks := tagger.Chunks(toks)
	for i := 0; i+1 < len(chunks); i++ {
		if lang == domain.Japanese {
			// NP を VG
			if i+2 < len(chunks) && chunks[i].Kind == tagger.NounChunk && !chunks[i].Pronoun &&
				particle(chunks[i+1], "を") && chunks[i+2].Kind == tagger.VerbChunk {
				return domain.Span{Start: chunks[i].Span.Start, End: chunks[i+2].Span.End}, "object + verb", TypeCollocation, true
			}
			continue
		}
		if chunks[i].Kind == tagger.VerbChunk && chunks[i+1].Kind == tagger.NounChunk && !chunks[i+1].Pronoun {
			return domain.Span{Start: chunks[i].Span.Start, End: chunks[i+1].Span.End}, "verb + object", TypeCollocation, true
		}
	}

	best := -1
	for i, c := range chunks {
		if c.Kind != tagger.NounChunk || c.Pronoun {
			continue
		}
		if best == -1 || c.Span.Len() > chunks[best].Span.Len() {
			best = i
		}
	}
	if best == -1 {
		return domain.Span{}, "", "", false
	}
	return chunks[best].Span, chunks[best].Head.POS.String(), TypeVocab, true
}

// functionBlank picks the first closed-class word.
func functionBlank(toks []tagger.Token) (domain.Span, string, string, bool) {
	for _, tok := range toks {
		switch tok.POS {
		case tagger.Conj:
			return tok.Span, tok.POS.String(), TypeConnective, true
		case tagger.Prep, tagger.Particle, tagger.Aux:
			return tok.Span, tok.POS.String(), TypeGrammar, true
		}
	}
	return domain.Span{}, "", "", false
}
