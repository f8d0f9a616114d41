package tagger

import "github.com/pbaille/clozer/internal/domain"

// ChunkKind distinguishes phrase chunks.
type ChunkKind int

const (
	// Single is any token that did not join a phrase.
	Single ChunkKind = iota
	NounChunk
	VerbChunk
)

func (k ChunkKind) String() string {
	switch k {
	case NounChunk:
		return "NP"
	case VerbChunk:
		return "VG"
	}
	return "TOK"
}

// Chunk is a run of tokens [From, To) forming a phrase.
type Chunk struct {
	Kind    ChunkKind
	Span    domain.Span
	From    int
	To      int
	Head    Token
	Pronoun bool
}

// Chunks groups tokens into noun chunks (Det? Adj* Nominal+, or a lone
// pronoun) and verb groups ((Aux|Verb) (Aux|Verb|Adv before a verb)*).
// Every token belongs to exactly one chunk, so chunks never overlap.
func Chunks(tokens []Token) []Chunk {
	chunks := make([]Chunk, 0, len(tokens))
	for i := 0; i < len(tokens); {
		if c, ok := nounChunk(tokens, i); ok {
			chunks = append(chunks, c)
			i = c.To
			continue
		}
		if c, ok := verbChunk(tokens, i); ok {
			chunks = append(chunks, c)
			i = c.To
			continue
		}
		chunks = append(chunks, makeChunk(Single, tokens, i, i+1, i))
		i++
	}
	return chunks
}

func makeChunk(kind ChunkKind, tokens []Token, from, to, head int) Chunk {
	return Chunk{
		Kind: kind,
		Span: domain.Span{Start: tokens[from].Span.Start, End: tokens[to-1].Span.End},
		From: from,
		To:   to,
		Head: tokens[head],
	}
}

func nounChunk(tokens []Token, start int) (Chunk, bool) {
	if tokens[start].POS == Pronoun {
		c := makeChunk(NounChunk, tokens, start, start+1, start)
		c.Pronoun = true
		return c, true
	}
	i := start
	if tokens[i].POS == Det {
		i++
	}
	for i < len(tokens) && tokens[i].POS == Adj {
		i++
	}
	nounStart := i
	for i < len(tokens) && tokens[i].POS.IsNominal() {
		i++
	}
	if i == nounStart {
		return Chunk{}, false
	}
	return makeChunk(NounChunk, tokens, start, i, i-1), true
}

func verbChunk(tokens []Token, start int) (Chunk, bool) {
	pos := tokens[start].POS
	if pos != Aux && pos != Verb {
		return Chunk{}, false
	}
	head := -1
	if pos == Verb {
		head = start
	}
	i := start + 1
	for i < len(tokens) {
		switch tokens[i].POS {
		case Verb:
			head = i
			i++
			continue
		case Aux:
			i++
			continue
		case Adv:
			if i+1 < len(tokens) && (tokens[i+1].POS == Verb || tokens[i+1].POS == Aux) {
				i++
				continue
			}
		}
		break
	}
	if head == -1 {
		// copula or bare auxiliary
		head = start
	}
	return makeChunk(VerbChunk, tokens, start, i, head), true
}
