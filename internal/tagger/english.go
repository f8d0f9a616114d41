package tagger

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pbaille/clozer/internal/span"
)

var enLexicon = map[string]POS{}

func init() {
	add := func(pos POS, words string) {
		for _, w := range strings.Fields(words) {
			enLexicon[w] = pos
		}
	}
	add(Det, "a an the every each some any no another either neither")
	add(Pronoun, `i me you he him she her it we us they them
		mine yours hers ours theirs myself yourself himself herself itself ourselves themselves
		this that these those his its their my your our someone something everyone everything nobody nothing`)
	add(Prep, `in on at to from with by for of about into onto over under after before during through
		between without within near across around behind since until toward towards upon against among beside beyond`)
	add(Conj, "and or but because so although though while if unless whereas than nor yet")
	add(Aux, `am is are was were be been being have has had do does did will would can could should may might must shall
		don't doesn't didn't can't won't isn't aren't wasn't weren't couldn't wouldn't shouldn't haven't hasn't hadn't
		i'm you're he's she's it's we're they're i've we've they've i'll you'll he'll she'll we'll they'll`)
	add(Adv, `very really also often always never not too quite just still already soon here there now then
		yesterday today tomorrow tonight again almost even ever sometimes usually however therefore moreover
		furthermore meanwhile finally instead otherwise later early together away back only`)
	add(Adj, `good bad big small new old happy sad beautiful long short great little young hot cold warm cool
		many much few red blue green white black large tiny important different same easy hard difficult
		interesting favorite famous busy quiet loud early late kind nice delicious expensive cheap full empty`)
	add(Verb, `go goes went gone going love loves loved like likes liked eat eats ate eaten see sees saw seen
		make makes made take takes took taken get gets got buy buys bought read reads write writes wrote written
		visit visits visited play plays played watch watches watched study studies studied want wants wanted
		need needs needed know knows knew known think thinks thought say says said tell tells told give gives gave given
		find finds found meet meets met bring brings brought open opens opened call calls called help helps helped
		leave leaves left lose loses lost keep keeps kept build builds built use uses used drink drinks drank
		run runs ran speak speaks spoke teach teaches taught learn learns learned talk talks talked walk walks walked
		cook cooks cooked clean cleans cleaned finish finishes finished start starts started begin begins began
		show shows showed ask asks asked carry carries carried send sends sent sell sells sold catch catches caught
		win wins won own owns owned live lives lived work works worked come comes came feel feels felt become became
		put puts sit sits sat stand stands stood hear hears heard enjoy enjoys enjoyed wait waits waited travel travels traveled
		arrive arrives arrived return returns returned move moves moved grow grows grew`)
}

// tokenizeEnglish splits text into word and punctuation byte ranges.
func tokenizeEnglish(text string) [][2]int {
	ranges := make([][2]int, 0, len(text)/5)
	start := -1
	for i, r := range text {
		inWord := unicode.IsLetter(r) || unicode.IsDigit(r) ||
			(start != -1 && (r == '\'' || r == '’' || r == '-'))
		if inWord {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			ranges = append(ranges, [2]int{start, i})
			start = -1
		}
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			ranges = append(ranges, [2]int{i, i + utf8.RuneLen(r)})
		}
	}
	if start != -1 {
		ranges = append(ranges, [2]int{start, len(text)})
	}
	return ranges
}

func tagEnglish(text string) []Token {
	t := span.NewText(text)
	ranges := tokenizeEnglish(text)
	tokens := make([]Token, len(ranges))
	known := make([]bool, len(ranges))

	for i, r := range ranges {
		word := text[r[0]:r[1]]
		tokens[i] = Token{Text: word, Span: t.FromBytes(r[0], r[1])}
		first, _ := utf8.DecodeRuneInString(word)
		lower := strings.ToLower(strings.ReplaceAll(word, "’", "'"))
		switch {
		case unicode.IsPunct(first) || unicode.IsSymbol(first):
			tokens[i].POS = Punct
			known[i] = true
		case unicode.IsDigit(first):
			tokens[i].POS = Num
			known[i] = true
		default:
			if pos, ok := enLexicon[lower]; ok {
				tokens[i].POS = pos
				known[i] = true
			}
		}
	}

	for i := range tokens {
		if known[i] {
			continue
		}
		tokens[i].POS = guessEnglish(tokens, i)
	}

	// Possessives and demonstratives in front of a nominal act as determiners.
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].POS != Pronoun {
			continue
		}
		switch strings.ToLower(tokens[i].Text) {
		case "his", "her", "its", "their", "my", "your", "our", "this", "that", "these", "those":
			next := tokens[i+1].POS
			if next.IsNominal() || next == Adj {
				tokens[i].POS = Det
			}
		}
	}
	return tokens
}

// guessEnglish tags an out-of-lexicon word from its shape and left context.
func guessEnglish(tokens []Token, i int) POS {
	word := tokens[i].Text
	lower := strings.ToLower(word)
	first, _ := utf8.DecodeRuneInString(word)

	prev := Punct
	if i > 0 {
		prev = tokens[i-1].POS
	}

	switch {
	case unicode.IsUpper(first):
		return ProperNoun
	case strings.HasSuffix(lower, "'s"):
		return Noun
	case len(lower) > 3 && strings.HasSuffix(lower, "ly"):
		return Adv
	case prev == Det || prev == Adj || prev == Num:
		return Noun
	case prev == Aux && (strings.HasSuffix(lower, "ing") || strings.HasSuffix(lower, "ed")):
		return Verb
	case (prev == Pronoun || prev == Noun || prev == ProperNoun) &&
		(strings.HasSuffix(lower, "ed") || strings.HasSuffix(lower, "s")):
		return Verb
	case prev == Prep:
		return Noun
	case strings.HasSuffix(lower, "ed"):
		return Verb
	}
	return Noun
}
