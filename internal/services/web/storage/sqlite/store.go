// Package sqlite stores web sessions in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/userdirectory/internal/platform/storage/sqlitemigrate"
	webstorage "github.com/louisbranch/userdirectory/internal/services/web/storage"
	"github.com/louisbranch/userdirectory/internal/services/web/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

var _ webstorage.SessionStore = (*Store)(nil)

// Store provides SQLite-backed session persistence.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens and migrates a session SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveSession upserts a session and prunes expired rows. Updating an existing
// session keeps its original created_at.
func (s *Store) SaveSession(ctx context.Context, session webstorage.Session) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	session.ID = strings.TrimSpace(session.ID)
	if session.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(session.AccessToken) == "" {
		return fmt.Errorf("access token is required")
	}
	if session.ExpiresAt.IsZero() {
		return fmt.Errorf("session expiry is required")
	}

	now := s.now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = now
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save session: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM web_sessions WHERE expires_at <= ?`, timeToUnixMillis(now)); err != nil {
		return fmt.Errorf("prune expired sessions: %w", err)
	}
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO web_sessions (session_id, access_token, email, created_at, updated_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		    access_token = excluded.access_token,
		    email = excluded.email,
		    updated_at = excluded.updated_at,
		    expires_at = excluded.expires_at`,
		session.ID,
		session.AccessToken,
		strings.TrimSpace(session.Email),
		timeToUnixMillis(session.CreatedAt),
		timeToUnixMillis(session.UpdatedAt),
		timeToUnixMillis(session.ExpiresAt),
	); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save session: %w", err)
	}
	return nil
}

// LoadSession returns the session for id, or storage.ErrNotFound when the row
// is missing or expired.
func (s *Store) LoadSession(ctx context.Context, id string) (webstorage.Session, error) {
	if s == nil || s.sqlDB == nil {
		return webstorage.Session{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return webstorage.Session{}, webstorage.ErrNotFound
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT session_id, access_token, email, created_at, updated_at, expires_at
		 FROM web_sessions
		 WHERE session_id = ? AND expires_at > ?`,
		id,
		timeToUnixMillis(s.now().UTC()),
	)

	var session webstorage.Session
	var createdAt, updatedAt, expiresAt int64
	if err := row.Scan(&session.ID, &session.AccessToken, &session.Email, &createdAt, &updatedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webstorage.Session{}, webstorage.ErrNotFound
		}
		return webstorage.Session{}, fmt.Errorf("load session: %w", err)
	}
	session.CreatedAt = unixMillisToTime(createdAt)
	session.UpdatedAt = unixMillisToTime(updatedAt)
	session.ExpiresAt = unixMillisToTime(expiresAt)
	return session, nil
}

// DeleteSession removes a session by id. Deleting a missing id succeeds.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("session id is required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM web_sessions WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}
