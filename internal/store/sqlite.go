package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLite stores settings documents in a SQLite table.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the settings database at the given path.
func OpenSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load returns the document stored for userID.
func (s *SQLite) Load(ctx context.Context, userID string) (Record, error) {
	var (
		document  string
		updatedAt string
	)
	rec := Record{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		"SELECT document, revision, updated_at FROM user_settings WHERE user_id = ?", userID,
	).Scan(&document, &rec.Revision, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("loading settings for %s: %w", userID, err)
	}

	rec.Document = []byte(document)
	rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("parsing updated_at for %s: %w", userID, err)
	}
	return rec, nil
}

// Save replaces the document stored for userID and assigns a new revision.
func (s *SQLite) Save(ctx context.Context, userID string, document []byte) (Record, error) {
	rec := Record{
		UserID:    userID,
		Document:  append([]byte(nil), document...),
		Revision:  uuid.NewString(),
		UpdatedAt: s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO user_settings
		(user_id, document, revision, updated_at)
		VALUES (?, ?, ?, ?)`,
		rec.UserID, string(rec.Document), rec.Revision, rec.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("saving settings for %s: %w", userID, err)
	}
	return rec, nil
}

// Delete removes the document stored for userID. Deleting a missing
// document is not an error.
func (s *SQLite) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM user_settings WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("deleting settings for %s: %w", userID, err)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM user_settings").Scan(&n)
	return n, err
}
