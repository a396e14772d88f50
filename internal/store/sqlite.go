package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ashureev/shsh-demos/internal/domain"
	"github.com/ashureev/shsh-demos/internal/shared"
	_ "modernc.org/sqlite"
)

const (
	writeMaxRetries = 3
	writeBaseDelay  = 50 * time.Millisecond
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	writeMu sync.Mutex // serializes writers to keep SQLITE_BUSY rare
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS app_state (
		user_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		app TEXT NOT NULL,
		data TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (user_id, session_id, app)
	);
	CREATE INDEX IF NOT EXISTS idx_app_state_updated ON app_state(updated_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// GetState retrieves the document stored for a session and app.
func (s *SQLiteStore) GetState(ctx context.Context, key domain.SessionKey, app string) ([]byte, error) {
	query := `SELECT data FROM app_state WHERE user_id = ? AND session_id = ? AND app = ?`

	var data string
	err := s.db.QueryRowContext(ctx, query, key.UserID, key.SessionID, app).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan app state: %w", err)
	}
	return []byte(data), nil
}

// SaveState creates or replaces the document for a session and app.
func (s *SQLiteStore) SaveState(ctx context.Context, key domain.SessionKey, app string, data []byte) error {
	query := `
	INSERT INTO app_state (user_id, session_id, app, data, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id, session_id, app) DO UPDATE SET
		data = excluded.data,
		updated_at = excluded.updated_at`

	now := time.Now().Unix()
	return s.execWithRetry(ctx, "upsert app state", query,
		key.UserID, key.SessionID, app, string(data), now, now)
}

// DeleteState removes the document for a session and app.
func (s *SQLiteStore) DeleteState(ctx context.Context, key domain.SessionKey, app string) error {
	query := `DELETE FROM app_state WHERE user_id = ? AND session_id = ? AND app = ?`
	return s.execWithRetry(ctx, "delete app state", query, key.UserID, key.SessionID, app)
}

// DeleteSession removes every app document of a session.
func (s *SQLiteStore) DeleteSession(ctx context.Context, key domain.SessionKey) error {
	query := `DELETE FROM app_state WHERE user_id = ? AND session_id = ?`
	return s.execWithRetry(ctx, "delete session", query, key.UserID, key.SessionID)
}

// ExpiredSessions lists sessions whose newest document is older than ttl.
func (s *SQLiteStore) ExpiredSessions(ctx context.Context, ttl time.Duration) ([]domain.SessionInfo, error) {
	threshold := time.Now().Add(-ttl).Unix()
	query := `
		SELECT user_id, session_id, MAX(updated_at) AS last_update
		FROM app_state
		GROUP BY user_id, session_id
		HAVING last_update < ?`

	rows, err := s.db.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("query expired sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close expired sessions rows", "error", closeErr)
		}
	}()

	var sessions []domain.SessionInfo
	for rows.Next() {
		var info domain.SessionInfo
		var updatedAt int64
		if err := rows.Scan(&info.Key.UserID, &info.Key.SessionID, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan expired session row: %w", err)
		}
		info.UpdatedAt = time.Unix(updatedAt, 0)
		sessions = append(sessions, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expired sessions: %w", err)
	}

	return sessions, nil
}

// PurgeAll removes all stored state.
func (s *SQLiteStore) PurgeAll(ctx context.Context) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM app_state`)
	if err != nil {
		return 0, fmt.Errorf("purge app state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge rows affected: %w", err)
	}
	return n, nil
}

// execWithRetry runs a write, retrying with exponential backoff on
// SQLITE_BUSY / "database is locked".
func (s *SQLiteStore) execWithRetry(ctx context.Context, op, query string, args ...any) error {
	var err error
	for i := 0; i < writeMaxRetries; i++ {
		err = s.execOnce(ctx, query, args...)
		if err == nil {
			return nil
		}
		if !shared.IsSQLiteConflictError(err) || i == writeMaxRetries-1 {
			break
		}

		delay := writeBaseDelay * time.Duration(1<<i) // 50ms, 100ms, 200ms
		slog.Debug("SQLite write busy, retrying", "op", op, "attempt", i+1, "delay", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *SQLiteStore) execOnce(ctx context.Context, query string, args ...any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}
