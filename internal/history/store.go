// Copyright Jordan Morrow, 2026. All rights reserved.

// Package history records which repositories headlined past editions so the
// scorer can penalize repeats within a sliding window of recent days.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// dateFormat is the canonical edition-date key.
const dateFormat = "2006-01-02"

// Store manages the edition archive SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the archive database at dbPath, creating the
// schema if it does not exist.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening archive database: %w", err)
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
		`CREATE TABLE IF NOT EXISTS edition_repos (
			date TEXT NOT NULL,
			full_name TEXT NOT NULL,
			PRIMARY KEY (date, full_name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_edition_repos_date ON edition_repos(date)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores the headliner names for one edition date. Rerunning the same
// date replaces that date's rows, so a regenerated edition does not
// accumulate stale names.
func (s *Store) Record(ctx context.Context, date time.Time, fullNames []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	day := date.Format(dateFormat)
	if _, err := tx.ExecContext(ctx, `DELETE FROM edition_repos WHERE date = ?`, day); err != nil {
		return fmt.Errorf("clearing edition date: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO edition_repos (date, full_name) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, name := range fullNames {
		if _, err := stmt.ExecContext(ctx, day, name); err != nil {
			return fmt.Errorf("recording %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// PenaltySet returns the headliner names from the lastN most recent edition
// dates strictly before the given date. Names in the set score a flat
// repeat-headline penalty.
func (s *Store) PenaltySet(ctx context.Context, date time.Time, lastN int) (map[string]bool, error) {
	if lastN <= 0 {
		return map[string]bool{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT full_name FROM edition_repos
		 WHERE date IN (
			SELECT DISTINCT date FROM edition_repos
			WHERE date < ? ORDER BY date DESC LIMIT ?
		 )`,
		date.Format(dateFormat), lastN,
	)
	if err != nil {
		return nil, fmt.Errorf("querying penalty set: %w", err)
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning penalty row: %w", err)
		}
		set[name] = true
	}
	return set, rows.Err()
}

// Dates returns all recorded edition dates, newest first.
func (s *Store) Dates(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT date FROM edition_repos ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying edition dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning date row: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
