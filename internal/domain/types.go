package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Span is a half-open [Start, End) interval of UTF-16 code units into a text.
type Span struct {
	Start int
	End   int
}

// invalidSpan is what a malformed JSON span decodes to; it never passes a bounds check.
var invalidSpan = Span{Start: -1, End: -1}

// MarshalJSON encodes a span as a two-element array.
func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Start, s.End})
}

// UnmarshalJSON accepts [start, end] or {"start":..,"end":..}. Any other shape
// yields an invalid span instead of an error so one bad candidate cannot reject
// a whole request.
func (s *Span) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var pair []int
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) == 2 {
			*s = Span{Start: pair[0], End: pair[1]}
			return nil
		}
		*s = invalidSpan
		return nil
	}

	var obj struct {
		Start *int `json:"start"`
		End   *int `json:"end"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Start != nil && obj.End != nil {
		*s = Span{Start: *obj.Start, End: *obj.End}
		return nil
	}

	*s = invalidSpan
	return nil
}

// Len returns the number of code units covered.
func (s Span) Len() int {
	return s.End - s.Start
}

// Pass1 tags.
const (
	TagConnective = "connective"
	TagTime       = "time"
)

// Pass1Entry marks a discourse connective or temporal expression.
type Pass1Entry struct {
	Span    Span   `json:"span"`
	Surface string `json:"surface"`
	Tag     string `json:"tag"`
}

// Pass2Entry links a pronoun to its antecedent candidates, nearest first.
type Pass2Entry struct {
	Pron        Span   `json:"pron"`
	Antecedents []Span `json:"antecedents"`
}

// Pass3Entry is a subject-verb-object triple inside one sentence.
type Pass3Entry struct {
	S Span `json:"s"`
	V Span `json:"v"`
	O Span `json:"o"`
}

// ClozeEntry is a single fill-in-the-blank item.
type ClozeEntry struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Answer string `json:"answer"`
	Hint   string `json:"hint"`
	Type   string `json:"type"`
}

// Span returns the blanked interval.
func (c ClozeEntry) Span() Span {
	return Span{Start: c.Start, End: c.End}
}

// Keys holds the three answer-key passes.
type Keys struct {
	Pass1 []Pass1Entry `json:"pass1"`
	Pass2 []Pass2Entry `json:"pass2"`
	Pass3 []Pass3Entry `json:"pass3"`
}

// Candidates is the raw, untrusted output of a generator or a language model.
type Candidates struct {
	Keys       Keys         `json:"keys"`
	ClozeShort []ClozeEntry `json:"cloze_short"`
	ClozeLong  []ClozeEntry `json:"cloze_long"`
}

// Report carries diagnostic counts from a validation run. It never gates behavior.
type Report struct {
	Len        int `json:"len"`
	Sentences  int `json:"sentences"`
	Pass1      int `json:"pass1"`
	Pass2      int `json:"pass2"`
	Pass3      int `json:"pass3"`
	ClozeShort int `json:"cloze_short"`
	ClozeLong  int `json:"cloze_long"`
}

// Result is the cleaned output of a validation run.
type Result struct {
	Keys       Keys         `json:"keys"`
	ClozeShort []ClozeEntry `json:"cloze_short"`
	ClozeLong  []ClozeEntry `json:"cloze_long"`
	Report     Report       `json:"report"`
}

// Candidates returns the result in candidate form, for re-validation.
func (r Result) Candidates() Candidates {
	return Candidates{Keys: r.Keys, ClozeShort: r.ClozeShort, ClozeLong: r.ClozeLong}
}

// Draft sources.
const (
	SourceAI     = "ai"
	SourceManual = "manual"
	SourceURL    = "url"
)

// Draft is a persisted passage with its validated exercise material.
type Draft struct {
	ID         string       `json:"id"`
	Lang       Lang         `json:"lang"`
	Level      int          `json:"level,omitempty"`
	Title      string       `json:"title,omitempty"`
	Source     string       `json:"source"`
	Text       string       `json:"text"`
	Keys       Keys         `json:"keys"`
	ClozeShort []ClozeEntry `json:"cloze_short"`
	ClozeLong  []ClozeEntry `json:"cloze_long"`
	Report     Report       `json:"validator_report"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Apply copies a validation result onto the draft.
func (d *Draft) Apply(r Result) {
	d.Keys = r.Keys
	d.ClozeShort = r.ClozeShort
	d.ClozeLong = r.ClozeLong
	d.Report = r.Report
}
