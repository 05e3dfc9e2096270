// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the harvest index: which papers have already
// been processed and where their bundles live.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-figures/pkg/types"
)

const (
	indexDir = ".index"
	dbFile   = "harvest.db"
)

// Record is one harvested paper in the index.
type Record struct {
	ID          string
	Title       string
	SourceURL   string
	OutputDir   string
	ImageCount  int
	HarvestedAt time.Time
}

// Store manages the harvest index SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the index database under root/.index/harvest.db
// and ensures the schema exists.
func Open(root string) (*Store, error) {
	dir := filepath.Join(root, indexDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
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
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS harvests (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		source_url TEXT,
		output_dir TEXT NOT NULL,
		image_count INTEGER NOT NULL,
		harvested_at TEXT NOT NULL
	)`)
	return err
}

// Put inserts or replaces the record for a paper. Re-harvesting with
// --force overwrites the previous entry.
func (s *Store) Put(rec Record) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO harvests (id, title, source_url, output_dir, image_count, harvested_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.SourceURL, rec.OutputDir, rec.ImageCount,
		rec.HarvestedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording harvest %s: %w", rec.ID, err)
	}
	return nil
}

// Lookup returns the record for id, or found=false when the paper has not
// been harvested.
func (s *Store) Lookup(id string) (Record, bool, error) {
	row := s.db.QueryRow(
		`SELECT id, title, source_url, output_dir, image_count, harvested_at
		 FROM harvests WHERE id = ?`, id)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("looking up %s: %w", id, err)
	}
	return rec, true, nil
}

// List returns all records, most recent first.
func (s *Store) List() ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT id, title, source_url, output_dir, image_count, harvested_at
		 FROM harvests ORDER BY harvested_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing harvests: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning harvest row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(scan func(dest ...any) error) (Record, error) {
	var rec Record
	var harvestedAt string
	if err := scan(&rec.ID, &rec.Title, &rec.SourceURL, &rec.OutputDir, &rec.ImageCount, &harvestedAt); err != nil {
		return Record{}, err
	}
	if t, err := time.Parse(time.RFC3339, harvestedAt); err == nil {
		rec.HarvestedAt = t
	}
	return rec, nil
}

// FromBundle builds an index record from a finished bundle.
func FromBundle(ref types.PaperReference, bundle types.OutputBundle) Record {
	return Record{
		ID:          ref.ID,
		Title:       bundle.Title,
		SourceURL:   ref.SourceURL,
		OutputDir:   bundle.Dir,
		ImageCount:  len(bundle.ImagePaths),
		HarvestedAt: time.Now().UTC(),
	}
}
