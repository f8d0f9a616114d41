package tagger

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pbaille/clozer/internal/span"
)

var (
	zhLexicon = map[string]POS{}
	zhMaxLen  = 1
)

func init() {
	add := func(pos POS, words string) {
		for _, w := range strings.Fields(words) {
			zhLexicon[w] = pos
			if n := utf8.RuneCountInString(w); n > zhMaxLen {
				zhMaxLen = n
			}
		}
	}
	add(Pronoun, "我 你 您 他 她 它 我们 你们 他们 她们 它们 咱们 这 那 这个 那个 这些 那些 这里 那里 这儿 那儿 自己 大家")
	add(Verb, `是 有 去 来 喜欢 爱 看 看见 吃 喝 买 卖 学习 学 写 读 说 做 想 要 知道 认识 住 工作 打 开 见 带 给 找 用
		参观 访问 回 到 回到 离开 需要 觉得 开始 完成 帮助 告诉 听 坐 走 跑 玩 送 拿 穿 等 教 问 叫 变成 喜爱 准备 参加 发现 看到 听到 得到`)
	add(Aux, "了 过 着 会 能 可以 应该 必须 想要 得")
	add(Particle, "的 地 吗 呢 吧 啊 呀 个 本 只 张 件 位 条 次 种")
	add(Prep, "在 从 对 跟 把 被 向 往 为 为了 比 关于 除了 通过")
	add(Conj, "和 与 及 但是 但 因此 所以 因为 而且 然后 不过 虽然 可是 于是 另外 总之 或者 还是 如果 即使 并且 而")
	add(Adv, `很 都 也 不 没 没有 已经 还 就 才 非常 太 最 又 再 一起 经常 常常 总是 刚 马上 真
		昨天 今天 明天 上周 下周 去年 今年 明年 现在 早上 晚上 上午 下午 以前 以后 后来`)
	add(Adj, "好 美丽 漂亮 快乐 高兴 重要 有名 有趣 好吃 便宜 贵")
}

func isHan(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

// tagChinese segments by forward maximum matching; unmatched Han runs become nouns.
func tagChinese(text string) []Token {
	t := span.NewText(text)
	var tokens []Token
	emit := func(start, end int, pos POS) {
		if start >= end {
			return
		}
		tokens = append(tokens, Token{Text: text[start:end], POS: pos, Span: t.FromBytes(start, end)})
	}

	unknown := -1
	flush := func(at int) {
		if unknown != -1 {
			emit(unknown, at, Noun)
			unknown = -1
		}
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case isHan(r):
			if word, pos, ok := longestMatch(text[i:]); ok {
				flush(i)
				emit(i, i+len(word), pos)
				i += len(word)
				continue
			}
			if unknown == -1 {
				unknown = i
			}
			i += size
		case unicode.IsDigit(r) || unicode.IsLetter(r):
			flush(i)
			j := i
			for j < len(text) {
				r2, n := utf8.DecodeRuneInString(text[j:])
				if isHan(r2) || !(unicode.IsDigit(r2) || unicode.IsLetter(r2)) {
					break
				}
				j += n
			}
			pos := ProperNoun
			if unicode.IsDigit(r) {
				pos = Num
			}
			emit(i, j, pos)
			i = j
		case unicode.IsSpace(r):
			flush(i)
			i += size
		default:
			flush(i)
			emit(i, i+size, Punct)
			i += size
		}
	}
	flush(len(text))
	return tokens
}

func longestMatch(s string) (string, POS, bool) {
	// collect rune boundaries up to zhMaxLen
	ends := make([]int, 0, zhMaxLen)
	for i, r := range s {
		if len(ends) == zhMaxLen || !isHan(r) {
			break
		}
		ends = append(ends, i+utf8.RuneLen(r))
	}
	for k := len(ends) - 1; k >= 0; k-- {
		if pos, ok := zhLexicon[s[:ends[k]]]; ok {
			return s[:ends[k]], pos, true
		}
	}
	return "", Other, false
}
