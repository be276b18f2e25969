// Package store persists the import history in a SQLite database so
// watch mode and --history can tell which sets changed since the last
// run.
package store

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "imports.db"

// ImportRecord describes one imported study set.
type ImportRecord struct {
	SetID       int64
	URL         string
	Title       string
	TermCount   int
	ContentHash string
	Format      string
	OutputFile  string
	FetchedAt   time.Time
}

// Store manages the import history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the import history database at
// outputDir/imports.db and creates the schema if it does not exist.
func Open(outputDir string) (*Store, error) {
	dbPath := filepath.Join(outputDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS imports (
			set_id INTEGER PRIMARY KEY,
			url TEXT NOT NULL,
			title TEXT,
			term_count INTEGER,
			content_hash TEXT,
			format TEXT,
			output_file TEXT,
			fetched_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_imports_fetched_at ON imports(fetched_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}

// RecordImport inserts or updates the record for a set. Re-importing a
// set overwrites its previous row.
func (s *Store) RecordImport(rec ImportRecord) error {
	if rec.FetchedAt.IsZero() {
		rec.FetchedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO imports (set_id, url, title, term_count, content_hash, format, output_file, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(set_id) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			term_count = excluded.term_count,
			content_hash = excluded.content_hash,
			format = excluded.format,
			output_file = excluded.output_file,
			fetched_at = excluded.fetched_at`,
		rec.SetID, rec.URL, rec.Title, rec.TermCount, rec.ContentHash,
		rec.Format, rec.OutputFile, rec.FetchedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording import for set %d: %w", rec.SetID, err)
	}

	return nil
}

// GetImport returns the record for a set, or nil when the set has not
// been imported yet.
func (s *Store) GetImport(setID int64) (*ImportRecord, error) {
	row := s.db.QueryRow(
		`SELECT set_id, url, title, term_count, content_hash, format, output_file, fetched_at
		 FROM imports WHERE set_id = ?`, setID)

	rec, err := scanImport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading import for set %d: %w", setID, err)
	}

	return rec, nil
}

// ListImports returns up to limit records, newest first. A limit of 0
// or less returns all records.
func (s *Store) ListImports(limit int) ([]ImportRecord, error) {
	query := `SELECT set_id, url, title, term_count, content_hash, format, output_file, fetched_at
		 FROM imports ORDER BY fetched_at DESC, set_id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing imports: %w", err)
	}
	defer rows.Close()

	var records []ImportRecord
	for rows.Next() {
		rec, err := scanImport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning import row: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating imports: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanImport(row rowScanner) (*ImportRecord, error) {
	var rec ImportRecord
	var fetchedAt string

	err := row.Scan(&rec.SetID, &rec.URL, &rec.Title, &rec.TermCount,
		&rec.ContentHash, &rec.Format, &rec.OutputFile, &fetchedAt)
	if err != nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
		rec.FetchedAt = t
	}

	return &rec, nil
}
