package sticky

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS sticky_defaults (
	form       TEXT NOT NULL,
	field      TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (form, field)
)`

// SQLite stores defaults in a single sticky_defaults table.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// NewSQLite opens dsn with the pure-Go sqlite driver and ensures the table
// exists. Use ":memory:" for a throwaway database.
func NewSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("sticky: sqlite dsn is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sticky: open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sticky: migrate sqlite: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, form, field string) (string, bool, error) {
	if err := checkKey(form, field); err != nil {
		return "", false, err
	}
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM sticky_defaults WHERE form = ? AND field = ?`,
		strings.TrimSpace(form), strings.TrimSpace(field),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sticky: get %s: %w", Key(form, field), err)
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, form, field, value string) error {
	if err := checkKey(form, field); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sticky_defaults (form, field, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (form, field) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		strings.TrimSpace(form), strings.TrimSpace(field), value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("sticky: set %s: %w", Key(form, field), err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, form, field string) error {
	if err := checkKey(form, field); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sticky_defaults WHERE form = ? AND field = ?`,
		strings.TrimSpace(form), strings.TrimSpace(field),
	)
	if err != nil {
		return fmt.Errorf("sticky: delete %s: %w", Key(form, field), err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
