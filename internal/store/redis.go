package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ashureev/shsh-demos/internal/domain"
)

const redisKeyPrefix = "demos:"

// RedisStore implements Repository using Redis. Every document carries the
// session TTL, refreshed on each save, so Redis expires idle sessions itself.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to redisURL and verifies the connection.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func (r *RedisStore) stateKey(key domain.SessionKey, app string) string {
	return redisKeyPrefix + "state:" + key.String() + ":" + app
}

// appsKey names the set of apps that hold a document for the session.
func (r *RedisStore) appsKey(key domain.SessionKey) string {
	return redisKeyPrefix + "apps:" + key.String()
}

// Ping verifies redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("close redis: %w", err)
	}
	return nil
}

// GetState retrieves the document stored for a session and app.
func (r *RedisStore) GetState(ctx context.Context, key domain.SessionKey, app string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.stateKey(key, app)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get app state: %w", err)
	}
	return data, nil
}

// SaveState stores the document and refreshes the TTL of every document in
// the session, so a session expires as a whole once it goes idle.
func (r *RedisStore) SaveState(ctx context.Context, key domain.SessionKey, app string, data []byte) error {
	apps, err := r.client.SMembers(ctx, r.appsKey(key)).Result()
	if err != nil {
		return fmt.Errorf("list session apps: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.stateKey(key, app), data, r.ttl)
	for _, other := range apps {
		if other != app {
			pipe.Expire(ctx, r.stateKey(key, other), r.ttl)
		}
	}
	pipe.SAdd(ctx, r.appsKey(key), app)
	pipe.Expire(ctx, r.appsKey(key), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save app state: %w", err)
	}
	return nil
}

// DeleteState removes the document for a session and app.
func (r *RedisStore) DeleteState(ctx context.Context, key domain.SessionKey, app string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.stateKey(key, app))
	pipe.SRem(ctx, r.appsKey(key), app)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete app state: %w", err)
	}
	return nil
}

// DeleteSession removes every app document of a session.
func (r *RedisStore) DeleteSession(ctx context.Context, key domain.SessionKey) error {
	apps, err := r.client.SMembers(ctx, r.appsKey(key)).Result()
	if err != nil {
		return fmt.Errorf("list session apps: %w", err)
	}

	keys := make([]string, 0, len(apps)+1)
	for _, app := range apps {
		keys = append(keys, r.stateKey(key, app))
	}
	keys = append(keys, r.appsKey(key))

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ExpiredSessions always returns nil: redis drops idle keys on its own.
func (r *RedisStore) ExpiredSessions(_ context.Context, _ time.Duration) ([]domain.SessionInfo, error) {
	return nil, nil
}

// PurgeAll removes every key under the store prefix and returns how many
// state documents were removed.
func (r *RedisStore) PurgeAll(ctx context.Context) (int64, error) {
	var removed int64
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, redisKeyPrefix+"*", 200).Result()
		if err != nil {
			return removed, fmt.Errorf("scan state keys: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return removed, fmt.Errorf("purge state keys: %w", err)
			}
			for _, k := range keys {
				if strings.HasPrefix(k, redisKeyPrefix+"state:") {
					removed++
				}
			}
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
