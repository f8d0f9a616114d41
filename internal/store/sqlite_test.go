package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pbaille/clozer/internal/domain"
)

func openTestStore(t *testing.T) Store {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "clozer.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDraft() *domain.Draft {
	return &domain.Draft{
		Lang:   domain.English,
		Level:  3,
		Title:  "Tokyo",
		Source: domain.SourceManual,
		Text:   "I went to Tokyo. She loves it there.",
		Keys: domain.Keys{
			Pass1: []domain.Pass1Entry{},
			Pass2: []domain.Pass2Entry{{Pron: domain.Span{Start: 27, End: 29}, Antecedents: []domain.Span{{Start: 21, End: 26}}}},
			Pass3: []domain.Pass3Entry{{S: domain.Span{Start: 0, End: 1}, V: domain.Span{Start: 2, End: 6}, O: domain.Span{Start: 10, End: 15}}},
		},
		ClozeShort: []domain.ClozeEntry{{Start: 10, End: 15, Answer: "Tokyo", Hint: "noun", Type: "vocab"}},
		ClozeLong:  []domain.ClozeEntry{},
		Report:     domain.Report{Len: 36, Sentences: 2, Pass2: 1, Pass3: 1, ClozeShort: 1},
	}
}

func TestSaveAndGetDraft(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	d := sampleDraft()
	if err := s.SaveDraft(ctx, d); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if d.ID == "" || d.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamps, got %+v", d)
	}

	got, err := s.GetDraft(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if got.Text != d.Text || got.Lang != d.Lang || got.Level != 3 || got.Source != domain.SourceManual {
		t.Errorf("got %+v", got)
	}
	if !reflect.DeepEqual(got.Keys, d.Keys) {
		t.Errorf("keys = %+v, want %+v", got.Keys, d.Keys)
	}
	if !reflect.DeepEqual(got.ClozeShort, d.ClozeShort) || len(got.ClozeLong) != 0 {
		t.Errorf("cloze = %+v / %+v", got.ClozeShort, got.ClozeLong)
	}
	if got.Report != d.Report {
		t.Errorf("report = %+v, want %+v", got.Report, d.Report)
	}
	if !got.CreatedAt.Equal(d.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, d.CreatedAt)
	}
}

func TestNilSlicesStoredAsEmpty(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	d := &domain.Draft{Lang: domain.Chinese, Source: domain.SourceAI, Text: "我很好。"}
	if err := s.SaveDraft(ctx, d); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	got, err := s.GetDraft(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if got.Keys.Pass1 == nil || got.ClozeShort == nil || got.ClozeLong == nil {
		t.Errorf("expected empty, non-nil slices: %+v", got)
	}
}

func TestGetDraftNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetDraft(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateDraft(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	d := sampleDraft()
	if err := s.SaveDraft(ctx, d); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	d.ClozeShort = nil
	d.Report.ClozeShort = 0
	d.Title = "Edited"
	if err := s.UpdateDraft(ctx, d); err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}
	got, err := s.GetDraft(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if got.Title != "Edited" || len(got.ClozeShort) != 0 || got.Report.ClozeShort != 0 {
		t.Errorf("update not persisted: %+v", got)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Errorf("updated_at %v before created_at %v", got.UpdatedAt, got.CreatedAt)
	}

	missing := sampleDraft()
	missing.ID = "nope"
	if err := s.UpdateDraft(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFindDraftByPrefix(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	d := sampleDraft()
	if err := s.SaveDraft(ctx, d); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	got, err := s.FindDraft(ctx, d.ID[:8])
	if err != nil {
		t.Fatalf("FindDraft: %v", err)
	}
	if got.ID != d.ID {
		t.Errorf("id = %s, want %s", got.ID, d.ID)
	}

	tests := []struct {
		name   string
		prefix string
	}{
		{"empty", ""},
		{"wildcard", "%"},
		{"unknown", "zzzz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.FindDraft(ctx, tt.prefix); !errors.Is(err, ErrNotFound) {
				t.Errorf("FindDraft(%q) err = %v, want ErrNotFound", tt.prefix, err)
			}
		})
	}
}

func TestListDrafts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for i := 0; i < 3; i++ {
		if err := s.SaveDraft(ctx, sampleDraft()); err != nil {
			t.Fatalf("SaveDraft: %v", err)
		}
	}
	all, err := s.ListDrafts(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListDrafts: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d drafts, want 3", len(all))
	}
	page, err := s.ListDrafts(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListDrafts: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("got %d drafts on second page, want 1", len(page))
	}
}

func TestRebind(t *testing.T) {
	pg := &sqlStore{dialect: dialectPostgres}
	if got := pg.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Errorf("postgres rebind = %q", got)
	}
	lite := &sqlStore{dialect: dialectSQLite}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("sqlite rebind = %q", got)
	}
}
