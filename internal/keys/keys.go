// Package keys runs every generator over a passage and validates the result.
package keys

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pbaille/clozer/internal/domain"
	"github.com/pbaille/clozer/internal/passes"
	"github.com/pbaille/clozer/internal/segment"
	"github.com/pbaille/clozer/internal/validate"
)

// Generate runs Pass1, Pass2, Pass3 and both cloze tiers concurrently. The
// generators share one sentence list. The output is raw candidates.
func Generate(ctx context.Context, text string, lang domain.Lang, seg segment.Segmenter) (domain.Candidates, error) {
	if seg == nil {
		seg = segment.Default()
	}
	sents, err := seg.Segment(text, lang)
	if err != nil {
		return domain.Candidates{}, fmt.Errorf("segment sentences: %w", err)
	}

	var c domain.Candidates
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		c.Keys.Pass1, err = passes.Pass1(text, lang)
		return wrap("pass1", err)
	})
	g.Go(func() (err error) {
		if err = ctx.Err(); err != nil {
			return err
		}
		c.Keys.Pass2, err = passes.Pass2(text, lang, sents)
		return wrap("pass2", err)
	})
	g.Go(func() (err error) {
		if err = ctx.Err(); err != nil {
			return err
		}
		c.Keys.Pass3, err = passes.Pass3(text, lang, sents)
		return wrap("pass3", err)
	})
	g.Go(func() (err error) {
		if err = ctx.Err(); err != nil {
			return err
		}
		c.ClozeShort, err = passes.MakeCloze(text, lang, domain.TierShort, sents)
		return wrap("cloze short", err)
	})
	g.Go(func() (err error) {
		if err = ctx.Err(); err != nil {
			return err
		}
		c.ClozeLong, err = passes.MakeCloze(text, lang, domain.TierLong, sents)
		return wrap("cloze long", err)
	})
	if err := g.Wait(); err != nil {
		return domain.Candidates{}, err
	}
	return c, nil
}

// Build generates candidates and runs them through v. Both steps use v's
// segmenter.
func Build(ctx context.Context, text string, lang domain.Lang, v *validate.Validator) (domain.Result, error) {
	if v == nil {
		v = validate.New(nil, validate.Options{})
	}
	c, err := Generate(ctx, text, lang, v.Segmenter())
	if err != nil {
		return domain.Result{}, err
	}
	return v.Validate(text, lang, c)
}

func wrap(stage string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", stage, err)
}
