package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/its-jojoo/otterclip/internal/core"
)

// CurrentSchemaVersion is the latest schema version.
const CurrentSchemaVersion = 1

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single writer connection keeps replace-all saves serialized.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	_ = os.Chmod(path, 0o600)
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version;`).Scan(&version); err != nil {
		return fmt.Errorf("failed to get user_version: %w", err)
	}

	if version < 1 {
		_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS items (
  id             TEXT PRIMARY KEY,
  position       INTEGER NOT NULL,
  kind           TEXT NOT NULL,
  original_text  TEXT,
  sanitized_text TEXT,
  image          BLOB,
  image_size     INTEGER NOT NULL DEFAULT 0,
  fingerprint    TEXT NOT NULL DEFAULT '',
  created_at     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_position ON items(position);
`)
		if err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version=%d", CurrentSchemaVersion)); err != nil {
			return fmt.Errorf("failed to set user_version: %w", err)
		}
	}
	return nil
}

// Save replaces the stored history in one transaction.
func (s *Store) Save(ctx context.Context, items []core.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO items(id, position, kind, original_text, sanitized_text, image, image_size, fingerprint, created_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, it := range items {
		var sanitized sql.NullString
		if it.SanitizedText != nil {
			sanitized = sql.NullString{String: *it.SanitizedText, Valid: true}
		}
		var original sql.NullString
		if it.Kind == core.KindText {
			original = sql.NullString{String: it.OriginalText, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			it.ID, i, string(it.Kind), original, sanitized, it.Image, it.ImageSize,
			it.Fingerprint, it.CreatedAt.UnixMilli(),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) Load(ctx context.Context) ([]core.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, kind, original_text, sanitized_text, image, image_size, fingerprint, created_at
FROM items
ORDER BY position ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Item
	for rows.Next() {
		var (
			it        core.Item
			kind      string
			original  sql.NullString
			sanitized sql.NullString
			image     []byte
			createdAt int64
		)
		if err := rows.Scan(&it.ID, &kind, &original, &sanitized, &image, &it.ImageSize, &it.Fingerprint, &createdAt); err != nil {
			return nil, err
		}
		it.Kind = core.Kind(kind)
		it.OriginalText = original.String
		if sanitized.Valid {
			v := sanitized.String
			it.SanitizedText = &v
		}
		if len(image) > 0 {
			it.Image = image
		}
		it.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) Erase(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM items`)
	return err
}

// Count returns the number of stored items.
func (s *Store) Count(ctx context.Context) (int, error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM items`)
	var n int
	return n, row.Scan(&n)
}
