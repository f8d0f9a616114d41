// Package store persists drafts and their validated exercise material.
//
// SQLite and Postgres share one database/sql implementation; they differ in
// driver, placeholder syntax and schema.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pbaille/clozer/internal/domain"
)

var (
	// ErrNotFound is returned when no draft matches an id or prefix.
	ErrNotFound = errors.New("draft not found")
	// ErrAmbiguous is returned when an id prefix matches several drafts.
	ErrAmbiguous = errors.New("draft id prefix is ambiguous")
)

// Store is the draft repository used by the pipelines and the API.
type Store interface {
	SaveDraft(ctx context.Context, d *domain.Draft) error
	GetDraft(ctx context.Context, id string) (*domain.Draft, error)
	FindDraft(ctx context.Context, prefix string) (*domain.Draft, error)
	ListDrafts(ctx context.Context, limit, offset int) ([]domain.Draft, error)
	UpdateDraft(ctx context.Context, d *domain.Draft) error
	Close() error
}

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// sqlStore implements Store on database/sql.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

func newSQLStore(ctx context.Context, db *sql.DB, d dialect, schema string) (*sqlStore, error) {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}
	return &sqlStore{db: db, dialect: d}, nil
}

// Close closes the database connection
func (s *sqlStore) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders for Postgres.
func (s *sqlStore) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

const draftColumns = "id, lang, level, title, source, body, keys, cloze_short, cloze_long, report, created_at, updated_at"

// SaveDraft inserts d, assigning its id and timestamps.
func (s *sqlStore) SaveDraft(ctx context.Context, d *domain.Draft) error {
	payload, err := encodeDraft(d)
	if err != nil {
		return err
	}
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err = s.db.ExecContext(ctx, s.rebind(
		"INSERT INTO drafts ("+draftColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		id, string(d.Lang), d.Level, d.Title, d.Source, d.Text,
		payload.keys, payload.clozeShort, payload.clozeLong, payload.report, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert draft: %w", err)
	}

	d.ID = id
	d.CreatedAt = now
	d.UpdatedAt = now
	return nil
}

// UpdateDraft rewrites the editable fields of an existing draft.
func (s *sqlStore) UpdateDraft(ctx context.Context, d *domain.Draft) error {
	payload, err := encodeDraft(d)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE drafts SET lang = ?, level = ?, title = ?, source = ?, body = ?,
		 keys = ?, cloze_short = ?, cloze_long = ?, report = ?, updated_at = ?
		 WHERE id = ?`),
		string(d.Lang), d.Level, d.Title, d.Source, d.Text,
		payload.keys, payload.clozeShort, payload.clozeLong, payload.report, now, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update draft %s: %w", d.ID, ErrNotFound)
	}
	d.UpdatedAt = now
	return nil
}

// GetDraft retrieves a draft by its full id.
func (s *sqlStore) GetDraft(ctx context.Context, id string) (*domain.Draft, error) {
	row := s.db.QueryRowContext(ctx, s.rebind("SELECT "+draftColumns+" FROM drafts WHERE id = ?"), id)
	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get draft %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return d, nil
}

// FindDraft resolves a unique id prefix, as printed by the list command.
func (s *sqlStore) FindDraft(ctx context.Context, prefix string) (*domain.Draft, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || strings.ContainsAny(prefix, `%_\`) {
		return nil, fmt.Errorf("find draft %q: %w", prefix, ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT "+draftColumns+" FROM drafts WHERE id LIKE ? ORDER BY created_at DESC LIMIT 2"),
		prefix+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("find draft: %w", err)
	}
	defer rows.Close()

	drafts, err := scanDrafts(rows)
	if err != nil {
		return nil, err
	}
	switch len(drafts) {
	case 0:
		return nil, fmt.Errorf("find draft %q: %w", prefix, ErrNotFound)
	case 1:
		return &drafts[0], nil
	}
	// an exact id always wins over longer ids sharing it as a prefix
	for i := range drafts {
		if drafts[i].ID == prefix {
			return &drafts[i], nil
		}
	}
	return nil, fmt.Errorf("find draft %q: %w", prefix, ErrAmbiguous)
}

// ListDrafts returns recent drafts with pagination
func (s *sqlStore) ListDrafts(ctx context.Context, limit, offset int) ([]domain.Draft, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT "+draftColumns+" FROM drafts ORDER BY created_at DESC, id LIMIT ? OFFSET ?"),
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	return scanDrafts(rows)
}

type draftPayload struct {
	keys, clozeShort, clozeLong, report string
}

func encodeDraft(d *domain.Draft) (draftPayload, error) {
	var p draftPayload
	for _, f := range []struct {
		dst *string
		v   any
	}{
		{&p.keys, nonNilKeys(d.Keys)},
		{&p.clozeShort, nonNil(d.ClozeShort)},
		{&p.clozeLong, nonNil(d.ClozeLong)},
		{&p.report, d.Report},
	} {
		b, err := json.Marshal(f.v)
		if err != nil {
			return p, fmt.Errorf("encode draft: %w", err)
		}
		*f.dst = string(b)
	}
	return p, nil
}

func nonNil(c []domain.ClozeEntry) []domain.ClozeEntry {
	if c == nil {
		return []domain.ClozeEntry{}
	}
	return c
}

func nonNilKeys(k domain.Keys) domain.Keys {
	if k.Pass1 == nil {
		k.Pass1 = []domain.Pass1Entry{}
	}
	if k.Pass2 == nil {
		k.Pass2 = []domain.Pass2Entry{}
	}
	if k.Pass3 == nil {
		k.Pass3 = []domain.Pass3Entry{}
	}
	return k
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(row scanner) (*domain.Draft, error) {
	var (
		d                                   domain.Draft
		lang                                string
		keys, clozeShort, clozeLong, report string
	)
	err := row.Scan(&d.ID, &lang, &d.Level, &d.Title, &d.Source, &d.Text,
		&keys, &clozeShort, &clozeLong, &report, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Lang = domain.Lang(lang)

	for _, f := range []struct {
		name string
		src  string
		dst  any
	}{
		{"keys", keys, &d.Keys},
		{"cloze_short", clozeShort, &d.ClozeShort},
		{"cloze_long", clozeLong, &d.ClozeLong},
		{"report", report, &d.Report},
	} {
		if err := json.Unmarshal([]byte(f.src), f.dst); err != nil {
			return nil, fmt.Errorf("decode %s of draft %s: %w", f.name, d.ID, err)
		}
	}
	return &d, nil
}

func scanDrafts(rows *sql.Rows) ([]domain.Draft, error) {
	var drafts []domain.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		drafts = append(drafts, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan drafts: %w", err)
	}
	return drafts, nil
}
