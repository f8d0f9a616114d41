package passes

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pbaille/clozer/internal/domain"
)

var enConnectives = []string{
	"however", "therefore", "because", "although", "though", "moreover", "furthermore",
	"meanwhile", "then", "finally", "so", "but", "instead", "otherwise", "consequently",
	"nevertheless", "besides", "thus", "hence", "afterwards",
	"for example", "for instance", "in addition", "as a result", "on the other hand",
	"after that", "in contrast", "even so", "in fact", "first of all", "at last",
}

var enTimeWords = []string{
	"yesterday", "today", "tomorrow", "tonight", "now", "later", "soon", "recently",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"january", "february", "march", "april", "june", "july", "august",
	"september", "october", "november", "december",
	"in the morning", "in the afternoon", "in the evening", "at night", "at noon",
	"every day", "every week", "the day before yesterday", "the day after tomorrow",
}

var enTimePatterns = []string{
	`\b(?:last|next|this) (?:week|month|year|morning|afternoon|evening|night|weekend|summer|winter|spring|autumn)\b`,
	`\b\d{1,2}:\d{2}\b`,
	`\b\d{1,2} o'clock\b`,
	`\bin \d{4}\b`,
	`\b\d+ (?:days?|weeks?|months?|years?) ago\b`,
}

var jaConnectives = []string{
	"しかし", "それで", "だから", "そして", "それから", "ところが", "つまり", "なぜなら",
	"でも", "さらに", "また", "一方", "けれども", "それに", "すると", "したがって", "ところで", "例えば",
}

var jaTimeWords = []string{
	"昨日", "今日", "明日", "今朝", "毎日", "先週", "来週", "今週", "去年", "今年", "来年",
	"先月", "来月", "今月", "今晩", "今夜", "毎朝", "毎晩", "早朝", "深夜", "昼間", "夜中",
	"午前", "午後", "最近", "週末",
}

var jaTimePatterns = []string{
	`[0-9０-９]+時(?:半|[0-9０-９]+分)?`,
	`[0-9０-９]+月[0-9０-９]+日`,
	`[0-9０-９]+年(?:前|後)?`,
	`[0-9０-９]+分`,
	`[月火水木金土日]曜日`,
}

var zhConnectives = []string{
	"但是", "因此", "所以", "因为", "而且", "然后", "不过", "虽然", "可是", "于是", "另外",
	"总之", "并且", "或者", "例如", "比如", "后来", "首先", "最后", "同时",
}

var zhTimeWords = []string{
	"昨天", "今天", "明天", "前天", "后天", "上周", "下周", "这周", "去年", "今年", "明年",
	"现在", "早上", "晚上", "上午", "下午", "中午", "周末", "以前", "以后", "刚才",
}

var zhTimePatterns = []string{
	`[0-9零一二两三四五六七八九十]+点(?:半|钟|[0-9零一二三四五六七八九十]+分)?`,
	`[0-9一二三四五六七八九十]+月[0-9一二三四五六七八九十]+[日号]`,
	`[0-9]+年`,
	`星期[一二三四五六日天]`,
	`周[一二三四五六日]`,
}

// anaphors lists pronouns that refer back to something in the passage.
var anaphors = map[domain.Lang]map[string]bool{
	domain.English: set(`he him his himself she her hers herself it its itself
		they them their theirs themselves this that these those`),
	domain.Japanese: set("彼 彼女 彼ら 彼女ら それ これ あれ そこ ここ あそこ そいつ"),
	domain.Chinese:  set("他 她 它 他们 她们 它们 这 那 这个 那个 这些 那些 这里 那里"),
}

func set(words string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		out[w] = true
	}
	return out
}

// alternation builds a longest-first regexp alternation of literal words.
func alternation(words []string) string {
	sorted := append([]string(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

type matcher struct {
	tag string
	re  *regexp.Regexp
	// clauseInitial restricts matches to the start of a clause.
	clauseInitial bool
}

var pass1Matchers = map[domain.Lang][]matcher{
	domain.English: {
		{tag: domain.TagConnective, re: regexp.MustCompile(`(?i)\b(?:` + alternation(enConnectives) + `)\b`)},
		{tag: domain.TagTime, re: regexp.MustCompile(`(?i)\b(?:` + alternation(enTimeWords) + `)\b`)},
		{tag: domain.TagTime, re: regexp.MustCompile(`(?i)` + strings.Join(enTimePatterns, "|"))},
	},
	domain.Japanese: {
		{tag: domain.TagConnective, re: regexp.MustCompile(alternation(jaConnectives)), clauseInitial: true},
		{tag: domain.TagTime, re: regexp.MustCompile(alternation(jaTimeWords))},
		{tag: domain.TagTime, re: regexp.MustCompile(strings.Join(jaTimePatterns, "|"))},
	},
	domain.Chinese: {
		{tag: domain.TagConnective, re: regexp.MustCompile(alternation(zhConnectives))},
		{tag: domain.TagTime, re: regexp.MustCompile(alternation(zhTimeWords))},
		{tag: domain.TagTime, re: regexp.MustCompile(strings.Join(zhTimePatterns, "|"))},
	},
}
