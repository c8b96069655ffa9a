package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/upseller/upseller/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// tokenRepo persists the calendar OAuth token blob in SQLite.
// A single row keyed by provider; saving replaces any previous token.
type tokenRepo struct {
	db *sql.DB
}

const tokenProvider = "google"

// NewTokenRepo creates a SQLite-backed token repository
func NewTokenRepo(dbPath string) (repo.TokenRepo, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS oauth_tokens (
			provider TEXT PRIMARY KEY,
			blob BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &tokenRepo{db: db}, nil
}

// Save stores the serialized token, replacing any previous one
func (r *tokenRepo) Save(ctx context.Context, blob []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO oauth_tokens (provider, blob, updated_at)
		VALUES (?, ?, ?)
	`, tokenProvider, blob, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Load returns the stored token, or nil if none exists
func (r *tokenRepo) Load(ctx context.Context) ([]byte, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT blob FROM oauth_tokens WHERE provider = ?
	`, tokenProvider)

	var blob []byte
	err := row.Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	return blob, nil
}

// Delete drops the stored token
func (r *tokenRepo) Delete(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM oauth_tokens WHERE provider = ?`, tokenProvider)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
