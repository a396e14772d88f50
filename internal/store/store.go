// Package store provides session-state persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/shsh-demos/internal/domain"
)

// Repository persists one JSON document per (session, app).
type Repository interface {
	// GetState returns the stored document, or nil if there is none.
	GetState(ctx context.Context, key domain.SessionKey, app string) ([]byte, error)

	// SaveState creates or replaces the document and marks the session active.
	SaveState(ctx context.Context, key domain.SessionKey, app string, data []byte) error

	// DeleteState removes one app's document.
	DeleteState(ctx context.Context, key domain.SessionKey, app string) error

	// DeleteSession removes every document of a session.
	DeleteSession(ctx context.Context, key domain.SessionKey) error

	// ExpiredSessions lists sessions with no write for longer than ttl.
	ExpiredSessions(ctx context.Context, ttl time.Duration) ([]domain.SessionInfo, error)

	// PurgeAll removes all state and returns the number of documents removed.
	PurgeAll(ctx context.Context) (int64, error)

	// Ping verifies backend connectivity.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}
