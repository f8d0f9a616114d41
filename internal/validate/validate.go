// Package validate is the single gate every pass and cloze set goes through
// before it is stored or shown to a learner.
//
// Candidates are untrusted: anything that breaks an invariant is dropped, never
// repaired. Validation is a pure function of (text, lang, candidates); the
// sentence list is computed once per run and handed to every cleaner.
package validate

import (
	"fmt"

	"github.com/pbaille/clozer/internal/domain"
	"github.com/pbaille/clozer/internal/segment"
	"github.com/pbaille/clozer/internal/span"
)

// Defaults for Options.
const (
	DefaultClozePerSentence = 1
	DefaultMaxAntecedents   = 3
)

// Options tunes the quotas. Zero values select the defaults.
type Options struct {
	ClozePerSentence int
	MaxAntecedents   int
}

func (o Options) withDefaults() Options {
	if o.ClozePerSentence <= 0 {
		o.ClozePerSentence = DefaultClozePerSentence
	}
	if o.MaxAntecedents <= 0 {
		o.MaxAntecedents = DefaultMaxAntecedents
	}
	return o
}

// Validator cleans candidate sets against a text.
type Validator struct {
	seg  segment.Segmenter
	opts Options
}

// New creates a Validator. A nil segmenter selects the rule-based default.
func New(seg segment.Segmenter, opts Options) *Validator {
	if seg == nil {
		seg = segment.Default()
	}
	return &Validator{seg: seg, opts: opts.withDefaults()}
}

// Segmenter returns the segmenter the validator splits sentences with.
func (v *Validator) Segmenter() segment.Segmenter {
	return v.seg
}

// Run validates with the default segmenter and quotas.
func Run(text string, lang domain.Lang, c domain.Candidates) (domain.Result, error) {
	return New(nil, Options{}).Validate(text, lang, c)
}

// Validate cleans every pass and both cloze tiers. It only fails when the
// sentence boundaries cannot be computed.
func (v *Validator) Validate(text string, lang domain.Lang, c domain.Candidates) (domain.Result, error) {
	if !lang.Supported() {
		return domain.Result{}, fmt.Errorf("validate %q: %w", lang, domain.ErrUnsupportedLanguage)
	}
	sents, err := v.seg.Segment(text, lang)
	if err != nil {
		return domain.Result{}, fmt.Errorf("segment sentences: %w", err)
	}

	t := span.NewText(text)
	res := domain.Result{
		Keys: domain.Keys{
			Pass1: CleanPass1(t, c.Keys.Pass1),
			Pass2: CleanPass2(t, sents, c.Keys.Pass2, v.opts.MaxAntecedents),
			Pass3: CleanPass3(t, sents, c.Keys.Pass3),
		},
		ClozeShort: CleanCloze(t, sents, c.ClozeShort, v.opts.ClozePerSentence),
		ClozeLong:  CleanCloze(t, sents, c.ClozeLong, v.opts.ClozePerSentence),
	}
	res.Report = domain.Report{
		Len:        t.Len(),
		Sentences:  len(sents),
		Pass1:      len(res.Keys.Pass1),
		Pass2:      len(res.Keys.Pass2),
		Pass3:      len(res.Keys.Pass3),
		ClozeShort: len(res.ClozeShort),
		ClozeLong:  len(res.ClozeLong),
	}
	return res, nil
}
