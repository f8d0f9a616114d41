package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var sqliteSchema string

// OpenSQLite opens (and creates if needed) a SQLite draft database.
func OpenSQLite(dbPath string) (Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one writer keeps sqlite from returning SQLITE_BUSY under the API server
	db.SetMaxOpenConns(1)

	s, err := newSQLStore(context.Background(), db, dialectSQLite, sqliteSchema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
