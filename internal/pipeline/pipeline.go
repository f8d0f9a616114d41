// Package pipeline creates, re-validates and stores drafts. Every path into the
// store goes through the same validator, so AI drafts, manual drafts and edited
// drafts agree on what is valid.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pbaille/clozer/internal/domain"
	"github.com/pbaille/clozer/internal/drafter"
	"github.com/pbaille/clozer/internal/fetcher"
	"github.com/pbaille/clozer/internal/keys"
	"github.com/pbaille/clozer/internal/logging"
	"github.com/pbaille/clozer/internal/store"
	"github.com/pbaille/clozer/internal/validate"
)

var (
	// ErrEmptyText is returned when there is no passage to work on.
	ErrEmptyText = errors.New("text is required")
	// ErrNoDrafter is returned for AI drafts when no model is configured.
	ErrNoDrafter = errors.New("ai drafting is not configured")
)

// Service runs the draft pipelines.
type Service struct {
	store     store.Store
	validator *validate.Validator
	drafter   *drafter.Drafter
	log       *logging.Logger
	fetch     func(ctx context.Context, url string) (*fetcher.Page, error)
}

// New creates a Service. The drafter may be nil when no model is configured.
func New(st store.Store, v *validate.Validator, d *drafter.Drafter, log *logging.Logger) *Service {
	if v == nil {
		v = validate.New(nil, validate.Options{})
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Service{store: st, validator: v, drafter: d, log: log, fetch: fetcher.Fetch}
}

// ManualInput is an admin-submitted passage, given inline or by URL.
type ManualInput struct {
	Lang  domain.Lang
	Level int
	Title string
	Text  string
	URL   string
}

// CreateAIDraft asks the model for a passage and candidates, validates them and
// stores the draft.
func (s *Service) CreateAIDraft(ctx context.Context, req drafter.Request) (*domain.Draft, error) {
	if s.drafter == nil {
		return nil, ErrNoDrafter
	}
	res, err := s.drafter.Draft(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("draft passage: %w", err)
	}

	cleaned, err := s.validator.Validate(res.Text, req.Lang, res.Candidates)
	if err != nil {
		return nil, fmt.Errorf("validate draft: %w", err)
	}

	d := &domain.Draft{
		Lang:   req.Lang,
		Level:  req.Level,
		Title:  res.Title,
		Source: domain.SourceAI,
		Text:   res.Text,
	}
	d.Apply(cleaned)
	if err := s.store.SaveDraft(ctx, d); err != nil {
		return nil, err
	}
	s.logReport("ai draft created", d, res.Candidates)
	return d, nil
}

// CreateManualDraft runs the rule-based generators over submitted text (or the
// text of a fetched page), validates the candidates and stores the draft.
func (s *Service) CreateManualDraft(ctx context.Context, in ManualInput) (*domain.Draft, error) {
	if !in.Lang.Supported() {
		return nil, fmt.Errorf("manual draft %q: %w", in.Lang, domain.ErrUnsupportedLanguage)
	}

	source := domain.SourceManual
	if strings.TrimSpace(in.Text) == "" && strings.TrimSpace(in.URL) != "" {
		page, err := s.fetch(ctx, in.URL)
		if err != nil {
			return nil, fmt.Errorf("fetch passage: %w", err)
		}
		in.Text = page.Text
		if in.Title == "" {
			in.Title = page.Title
		}
		source = domain.SourceURL
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrEmptyText
	}

	cands, err := keys.Generate(ctx, in.Text, in.Lang, s.validator.Segmenter())
	if err != nil {
		return nil, fmt.Errorf("generate keys: %w", err)
	}
	cleaned, err := s.validator.Validate(in.Text, in.Lang, cands)
	if err != nil {
		return nil, fmt.Errorf("validate draft: %w", err)
	}

	d := &domain.Draft{
		Lang:   in.Lang,
		Level:  in.Level,
		Title:  in.Title,
		Source: source,
		Text:   in.Text,
	}
	d.Apply(cleaned)
	if err := s.store.SaveDraft(ctx, d); err != nil {
		return nil, err
	}
	s.logReport("manual draft created", d, cands)
	return d, nil
}

// RevalidateDraft re-runs the validator over a stored draft, typically after
// manual edits, and persists the cleaned arrays.
func (s *Service) RevalidateDraft(ctx context.Context, idOrPrefix string) (*domain.Draft, error) {
	d, err := s.store.FindDraft(ctx, idOrPrefix)
	if err != nil {
		return nil, err
	}
	before := domain.Candidates{Keys: d.Keys, ClozeShort: d.ClozeShort, ClozeLong: d.ClozeLong}

	cleaned, err := s.validator.Validate(d.Text, d.Lang, before)
	if err != nil {
		return nil, fmt.Errorf("validate draft %s: %w", d.ID, err)
	}
	d.Apply(cleaned)
	if err := s.store.UpdateDraft(ctx, d); err != nil {
		return nil, err
	}
	s.logReport("draft revalidated", d, before)
	return d, nil
}

// Validate cleans candidates without touching the store.
func (s *Service) Validate(text string, lang domain.Lang, c domain.Candidates) (domain.Result, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Result{}, ErrEmptyText
	}
	return s.validator.Validate(text, lang, c)
}

// Generate returns raw, unvalidated candidates for text.
func (s *Service) Generate(ctx context.Context, text string, lang domain.Lang) (domain.Candidates, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Candidates{}, ErrEmptyText
	}
	return keys.Generate(ctx, text, lang, s.validator.Segmenter())
}

// GetDraft resolves a draft id or unique prefix.
func (s *Service) GetDraft(ctx context.Context, idOrPrefix string) (*domain.Draft, error) {
	return s.store.FindDraft(ctx, idOrPrefix)
}

// ListDrafts returns recent drafts.
func (s *Service) ListDrafts(ctx context.Context, limit, offset int) ([]domain.Draft, error) {
	return s.store.ListDrafts(ctx, limit, offset)
}

func (s *Service) logReport(msg string, d *domain.Draft, raw domain.Candidates) {
	r := d.Report
	s.log.Info(msg,
		"draft_id", d.ID,
		"lang", d.Lang,
		"source", d.Source,
		"len", r.Len,
		"sentences", r.Sentences,
		"pass1", fmt.Sprintf("%d/%d", r.Pass1, len(raw.Keys.Pass1)),
		"pass2", fmt.Sprintf("%d/%d", r.Pass2, len(raw.Keys.Pass2)),
		"pass3", fmt.Sprintf("%d/%d", r.Pass3, len(raw.Keys.Pass3)),
		"cloze_short", fmt.Sprintf("%d/%d", r.ClozeShort, len(raw.ClozeShort)),
		"cloze_long", fmt.Sprintf("%d/%d", r.ClozeLong, len(raw.ClozeLong)),
	)
}
