package state

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashureev/shsh-demos/internal/domain"
	"github.com/ashureev/shsh-demos/internal/store"
)

const ttlWorkerInterval = 5 * time.Minute

// CleanupCallback is called for every session the TTL worker expires.
type CleanupCallback func(key domain.SessionKey)

// PurgeOnStart removes state left over from a previous run.
func PurgeOnStart(ctx context.Context, repo store.Repository) error {
	n, err := repo.PurgeAll(ctx)
	if err != nil {
		return err
	}
	slog.Info("Purged previous session state", "documents", n)
	return nil
}

// StartTTLWorker runs a background goroutine that periodically deletes
// sessions idle for longer than ttl.
func StartTTLWorker(ctx context.Context, repo store.Repository, ttl time.Duration, onCleanup CleanupCallback) {
	ticker := time.NewTicker(ttlWorkerInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("TTL worker started", "interval", ttlWorkerInterval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				cleanupExpiredSessions(ctx, repo, ttl, onCleanup)
			case <-ctx.Done():
				slog.Info("TTL worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func cleanupExpiredSessions(ctx context.Context, repo store.Repository, ttl time.Duration, onCleanup CleanupCallback) int {
	expired, err := repo.ExpiredSessions(ctx, ttl)
	if err != nil {
		slog.Error("TTL worker failed to get expired sessions", "error", err)
		return 0
	}
	if len(expired) == 0 {
		return 0
	}

	slog.Info("TTL worker found expired sessions", "count", len(expired))

	cleaned := 0
	for _, info := range expired {
		if onCleanup != nil {
			onCleanup(info.Key)
		}
		if err := repo.DeleteSession(ctx, info.Key); err != nil {
			slog.Warn("TTL worker failed to delete session",
				"error", err,
				"user_id", info.Key.UserID,
				"session_id", info.Key.SessionID)
			continue
		}
		cleaned++
	}

	slog.Info("TTL worker cleanup completed", "cleaned", cleaned)
	return cleaned
}
