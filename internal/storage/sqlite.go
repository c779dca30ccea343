// Package storage provides the ephemeral SQLite query layer over the
// canonical bibliography. The .bib file remains the source of truth; the
// database is a disposable index rebuilt from it.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bulbulia/pubkit/internal/bibtex"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

const selectEntryFields = `key, entry_type, title, author, year, doi, file, fields_json`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			entry_type TEXT NOT NULL,
			title TEXT,
			author TEXT,
			year INTEGER,
			doi TEXT,
			file TEXT,
			fields_json TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_entries_doi ON entries(doi) WHERE doi IS NOT NULL AND doi != '';

		CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
			key, title, author, year
		);
	`
	_, err := db.Exec(schema)
	return err
}

// RebuildFromBib clears the database and rebuilds it from the canonical
// bibliography file. Returns the number of entries indexed.
func (d *DB) RebuildFromBib(bibPath string) (int, error) {
	entries, _, err := bibtex.ReadFile(bibPath)
	if err != nil {
		return 0, err
	}

	if _, err := d.db.Exec("DELETE FROM entries"); err != nil {
		return 0, fmt.Errorf("clearing entries table: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM entries_fts"); err != nil {
		return 0, fmt.Errorf("clearing entries_fts table: %w", err)
	}

	entryStmt, err := d.db.Prepare(`
		INSERT INTO entries (key, entry_type, title, author, year, doi, file, fields_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing entries insert: %w", err)
	}
	defer entryStmt.Close()

	ftsStmt, err := d.db.Prepare(`
		INSERT INTO entries_fts (key, title, author, year)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, e := range entries {
		fieldsJSON, err := json.Marshal(e.Fields)
		if err != nil {
			return 0, fmt.Errorf("marshaling fields for %s: %w", e.Key, err)
		}

		_, err = entryStmt.Exec(
			e.Key, e.Type,
			nullable(e.Fields["title"]), nullable(e.Fields["author"]),
			e.Year(), nullable(bibtex.NormalizeDOI(e.Fields["doi"])),
			nullable(e.Fields["file"]), string(fieldsJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting entry %s: %w", e.Key, err)
		}

		_, err = ftsStmt.Exec(e.Key, e.Fields["title"], e.Fields["author"], e.Fields["year"])
		if err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", e.Key, err)
		}
	}

	return len(entries), nil
}

// GetByKey retrieves an entry by its citation key, or nil if absent.
func (d *DB) GetByKey(key string) (*bibtex.Entry, error) {
	row := d.db.QueryRow(`SELECT `+selectEntryFields+` FROM entries WHERE key = ?`, key)
	return scanEntry(row)
}

// Search performs a full-text search over keys, titles, authors, and years.
func (d *DB) Search(query string, limit int) ([]bibtex.Entry, error) {
	ftsQuery := prepareFTSQuery(query)

	rows, err := d.db.Query(`
		SELECT `+selectEntryFields+`
		FROM entries
		WHERE key IN (SELECT key FROM entries_fts WHERE entries_fts MATCH ?)
		ORDER BY year DESC, key
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListAll returns all entries in canonical order, optionally limited.
func (d *DB) ListAll(limit int) ([]bibtex.Entry, error) {
	query := `SELECT ` + selectEntryFields + ` FROM entries ORDER BY year DESC, key`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Count returns the total number of indexed entries.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (*bibtex.Entry, error) {
	var e bibtex.Entry
	var title, authorField, doi, file sql.NullString
	var year sql.NullInt64
	var fieldsJSON string

	err := s.Scan(&e.Key, &e.Type, &title, &authorField, &year, &doi, &file, &fieldsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(fieldsJSON), &e.Fields); err != nil {
		return nil, fmt.Errorf("parsing fields for %s: %w", e.Key, err)
	}
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]bibtex.Entry, error) {
	var entries []bibtex.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If the query contains FTS5 syntax characters, quote the whole thing
	// as a phrase.
	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
