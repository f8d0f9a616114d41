package passes

import (
	"github.com/pbaille/clozer/internal/domain"
	"github.com/pbaille/clozer/internal/tagger"
)

// Pass3 finds subject-verb-object triples per sentence.
//
// English and Chinese read NP [Adv] VG NP. Japanese marks roles with particles
// (NP が/は ... VG ... NP を); its verb-final clauses only yield a triple when the
// surface order is subject, verb, object.
func Pass3(text string, lang domain.Lang, sents []domain.Span) ([]domain.Pass3Entry, error) {
	tokens, err := tagger.Tag(text, lang)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Pass3Entry, 0)
	for _, sent := range sents {
		chunks := tagger.Chunks(tagger.Within(tokens, sent))
		if lang == domain.Japanese {
			entries = append(entries, japaneseTriples(chunks)...)
			continue
		}
		entries = append(entries, svoTriples(chunks)...)
	}
	return entries, nil
}

func isAdv(c tagger.Chunk) bool {
	return c.Kind == tagger.Single && c.Head.POS == tagger.Adv
}

func svoTriples(chunks []tagger.Chunk) []domain.Pass3Entry {
	var out []domain.Pass3Entry
	for i := 0; i < len(chunks); i++ {
		if chunks[i].Kind != tagger.NounChunk {
			continue
		}
		j := i + 1
		for j < len(chunks) && isAdv(chunks[j]) {
			j++
		}
		if j+1 >= len(chunks) || chunks[j].Kind != tagger.VerbChunk {
			continue
		}
		obj := chunks[j+1]
		if obj.Kind != tagger.NounChunk {
			continue
		}
		out = append(out, domain.Pass3Entry{S: chunks[i].Span, V: chunks[j].Span, O: obj.Span})
		// the object may open the next clause
		i = j
	}
	return out
}

func particle(c tagger.Chunk, surfaces ...string) bool {
	if c.Kind != tagger.Single || c.Head.POS != tagger.Particle {
		return false
	}
	for _, s := range surfaces {
		if c.Head.Text == s {
			return true
		}
	}
	return false
}

func japaneseTriples(chunks []tagger.Chunk) []domain.Pass3Entry {
	var out []domain.Pass3Entry
	for i := 0; i+1 < len(chunks); i++ {
		if chunks[i].Kind != tagger.NounChunk || !particle(chunks[i+1], "が", "は") {
			continue
		}
		subj := chunks[i]
		for j := i + 2; j < len(chunks); j++ {
			if chunks[j].Kind != tagger.VerbChunk {
				continue
			}
			for k := j + 1; k+1 < len(chunks); k++ {
				if chunks[k].Kind == tagger.NounChunk && particle(chunks[k+1], "を") {
					out = append(out, domain.Pass3Entry{S: subj.Span, V: chunks[j].Span, O: chunks[k].Span})
					break
				}
			}
			break
		}
	}
	return out
}
