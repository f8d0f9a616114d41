// Package tagger assigns coarse parts of speech to passage tokens and groups
// them into noun and verb chunks.
//
// English uses a lexicon baseline refined by contextual rules, Japanese uses the
// kagome morphological analyzer with the IPA dictionary, and Chinese uses
// forward maximum matching over a built-in lexicon. All spans are UTF-16
// offsets into the original text.
package tagger

import (
	"fmt"

	"github.com/pbaille/clozer/internal/domain"
)

// POS is a coarse part-of-speech tag.
type POS int

const (
	Other POS = iota
	Noun
	ProperNoun
	Pronoun
	Verb
	Aux
	Adj
	Adv
	Det
	Prep
	Conj
	Particle
	Num
	Punct
)

var posNames = map[POS]string{
	Other:      "other",
	Noun:       "noun",
	ProperNoun: "proper noun",
	Pronoun:    "pronoun",
	Verb:       "verb",
	Aux:        "auxiliary",
	Adj:        "adjective",
	Adv:        "adverb",
	Det:        "determiner",
	Prep:       "preposition",
	Conj:       "conjunction",
	Particle:   "particle",
	Num:        "number",
	Punct:      "punctuation",
}

func (p POS) String() string {
	if name, ok := posNames[p]; ok {
		return name
	}
	return "other"
}

// IsNominal reports whether p can head a noun chunk.
func (p POS) IsNominal() bool {
	return p == Noun || p == ProperNoun || p == Num
}

// IsFunction reports whether p is a closed-class function word.
func (p POS) IsFunction() bool {
	switch p {
	case Aux, Det, Prep, Conj, Particle:
		return true
	}
	return false
}

// Token is a tagged word.
type Token struct {
	Text string
	POS  POS
	Span domain.Span
}

// Tag tokenizes and tags text.
func Tag(text string, lang domain.Lang) ([]Token, error) {
	switch lang {
	case domain.English:
		return tagEnglish(text), nil
	case domain.Japanese:
		return tagJapanese(text)
	case domain.Chinese:
		return tagChinese(text), nil
	}
	return nil, fmt.Errorf("tag %q: %w", lang, domain.ErrUnsupportedLanguage)
}

// Within returns the tokens lying entirely inside s, in order.
func Within(tokens []Token, s domain.Span) []Token {
	var out []Token
	for _, tok := range tokens {
		if tok.Span.Start >= s.Start && tok.Span.End <= s.End {
			out = append(out, tok)
		}
	}
	return out
}
