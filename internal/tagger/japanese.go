package tagger

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/pbaille/clozer/internal/span"
)

var (
	jaOnce      sync.Once
	jaTokenizer *tokenizer.Tokenizer
	jaInitErr   error
)

func japaneseTokenizer() (*tokenizer.Tokenizer, error) {
	jaOnce.Do(func() {
		jaTokenizer, jaInitErr = tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
		if jaInitErr != nil {
			jaInitErr = fmt.Errorf("init kagome tokenizer: %w", jaInitErr)
		}
	})
	return jaTokenizer, jaInitErr
}

func tagJapanese(text string) ([]Token, error) {
	tk, err := japaneseTokenizer()
	if err != nil {
		return nil, err
	}
	t := span.NewText(text)

	ktoks := tk.Tokenize(text)
	tokens := make([]Token, 0, len(ktoks))
	cursor := 0
	for _, kt := range ktoks {
		if kt.Surface == "" {
			continue
		}
		// Locate the surface from the running cursor so offsets never depend on
		// the analyzer's own position bookkeeping.
		idx := strings.Index(text[cursor:], kt.Surface)
		if idx < 0 {
			continue
		}
		start := cursor + idx
		end := start + len(kt.Surface)
		cursor = end
		if strings.TrimSpace(kt.Surface) == "" {
			continue
		}
		tokens = append(tokens, Token{
			Text: kt.Surface,
			POS:  mapIPA(kt.POS()),
			Span: t.FromBytes(start, end),
		})
	}
	return tokens, nil
}

// mapIPA folds an IPA dictionary POS path into the coarse tag set.
func mapIPA(pos []string) POS {
	if len(pos) == 0 {
		return Other
	}
	sub := ""
	if len(pos) > 1 {
		sub = pos[1]
	}
	switch pos[0] {
	case "名詞":
		switch sub {
		case "代名詞":
			return Pronoun
		case "固有名詞":
			return ProperNoun
		case "数":
			return Num
		case "非自立", "接尾":
			return Particle
		}
		return Noun
	case "動詞":
		if sub == "非自立" || sub == "接尾" {
			return Aux
		}
		return Verb
	case "助動詞":
		return Aux
	case "助詞":
		return Particle
	case "接続詞":
		return Conj
	case "副詞":
		return Adv
	case "形容詞", "形容動詞":
		return Adj
	case "連体詞", "接頭詞":
		return Det
	case "記号":
		return Punct
	}
	return Other
}
