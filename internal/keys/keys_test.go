package keys

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/pbaille/clozer/internal/domain"
	"github.com/pbaille/clozer/internal/segment"
	"github.com/pbaille/clozer/internal/span"
	"github.com/pbaille/clozer/internal/validate"
)

var samples = []struct {
	lang domain.Lang
	text string
}{
	{domain.English, "Tom bought a new bicycle yesterday. However, he rides it slowly. Then his sister took the bike to the park."},
	{domain.Japanese, "昨日、彼は東京に行った。しかし、彼女は本を読んだ。"},
	{domain.Chinese, "小明昨天去了北京，他很喜欢那里。因此我们明天见面。"},
}

func TestBuildInvariants(t *testing.T) {
	for _, s := range samples {
		t.Run(string(s.lang), func(t *testing.T) {
			res, err := Build(context.Background(), s.text, s.lang, nil)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			txt := span.NewText(s.text)
			if res.Report.Len != txt.Len() {
				t.Errorf("report len = %d, want %d", res.Report.Len, txt.Len())
			}
			for _, e := range res.Keys.Pass1 {
				if !span.Exact(txt, e.Span, e.Surface) {
					t.Errorf("pass1 %+v not exact", e)
				}
			}
			for _, e := range res.Keys.Pass2 {
				if len(e.Antecedents) == 0 || len(e.Antecedents) > validate.DefaultMaxAntecedents {
					t.Errorf("pass2 %+v has %d antecedents", e, len(e.Antecedents))
				}
				for _, a := range e.Antecedents {
					if a.End > e.Pron.Start {
						t.Errorf("pass2 antecedent %v follows %v", a, e.Pron)
					}
				}
			}
			for _, e := range res.Keys.Pass3 {
				if e.S.Start > e.V.Start || e.V.Start > e.O.Start || span.Overlap(e.S, e.V) || span.Overlap(e.V, e.O) {
					t.Errorf("pass3 %+v out of order or overlapping", e)
				}
			}
			for _, tier := range [][]domain.ClozeEntry{res.ClozeShort, res.ClozeLong} {
				for i, e := range tier {
					if !span.Exact(txt, e.Span(), e.Answer) {
						t.Errorf("cloze %+v not exact", e)
					}
					for _, o := range tier[:i] {
						if span.Overlap(o.Span(), e.Span()) {
							t.Errorf("cloze %+v overlaps %+v", e, o)
						}
					}
				}
			}
		})
	}
}

func TestGeneratorsNeedNoRepair(t *testing.T) {
	text := samples[0].text
	c, err := Generate(context.Background(), text, domain.English, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	res, err := validate.Run(text, domain.English, c)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !reflect.DeepEqual(res.Keys.Pass1, c.Keys.Pass1) {
		t.Errorf("validator dropped generated pass1 entries:\n%+v\n%+v", c.Keys.Pass1, res.Keys.Pass1)
	}
	if len(res.Keys.Pass1) == 0 {
		t.Error("expected pass1 markers")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	for _, s := range samples {
		a, err := Build(context.Background(), s.text, s.lang, nil)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		b, err := Build(context.Background(), s.text, s.lang, nil)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: results differ", s.lang)
		}
	}
}

func TestGenerateUnsupported(t *testing.T) {
	_, err := Generate(context.Background(), "Hola.", domain.Lang("es"), nil)
	if !errors.Is(err, domain.ErrUnsupportedLanguage) {
		t.Errorf("err = %v, want ErrUnsupportedLanguage", err)
	}
}

func TestBuildUsesValidatorSegmenter(t *testing.T) {
	calls := 0
	whole := segment.Func(func(text string, lang domain.Lang) ([]domain.Span, error) {
		calls++
		// one sentence for the whole passage
		return []domain.Span{{Start: 0, End: span.NewText(text).Len()}}, nil
	})
	v := validate.New(whole, validate.Options{})

	text := "Tom bought a bike. He rides it."
	res, err := Build(context.Background(), text, domain.English, v)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if calls != 2 {
		t.Errorf("custom segmenter called %d times, want once for generation and once for validation", calls)
	}
	if res.Report.Sentences != 1 {
		t.Errorf("sentences = %d, want 1", res.Report.Sentences)
	}
}
