// Package state loads and saves the typed per-session documents of the demo
// apps on top of a store.Repository.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/ashureev/shsh-demos/internal/domain"
	"github.com/ashureev/shsh-demos/internal/store"
)

// Store couples a repository with the per-document lock table.
type Store struct {
	repo  store.Repository
	locks *Locker
}

// New creates a Store over repo.
func New(repo store.Repository) *Store {
	return &Store{repo: repo, locks: NewLocker()}
}

// Repository returns the underlying repository.
func (s *Store) Repository() store.Repository {
	return s.repo
}

// Load decodes the app document of a session. A session with no document
// yet gets init().
func Load[T any](ctx context.Context, s *Store, key domain.SessionKey, app string, init func() T) (T, error) {
	data, err := s.repo.GetState(ctx, key, app)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("load %s state: %w", app, err)
	}
	if data == nil {
		return init(), nil
	}

	v := init()
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s state: %w", app, err)
	}
	return v, nil
}

// Save encodes and stores the app document of a session.
func Save[T any](ctx context.Context, s *Store, key domain.SessionKey, app string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s state: %w", app, err)
	}
	if err := s.repo.SaveState(ctx, key, app, data); err != nil {
		return fmt.Errorf("save %s state: %w", app, err)
	}
	return nil
}

// Update runs fn on the session's document under the document lock and
// saves the result. If fn fails nothing is saved and its error is returned
// unwrapped.
func Update[T any](ctx context.Context, s *Store, key domain.SessionKey, app string, init func() T, fn func(*T) error) (T, error) {
	unlock := s.locks.Lock(key.String() + "/" + app)
	defer unlock()

	v, err := Load(ctx, s, key, app, init)
	if err != nil {
		return v, err
	}
	if err := fn(&v); err != nil {
		return v, err
	}
	if err := Save(ctx, s, key, app, v); err != nil {
		return v, err
	}
	return v, nil
}

// Reset drops the app document so the next Load starts from init.
func (s *Store) Reset(ctx context.Context, key domain.SessionKey, app string) error {
	unlock := s.locks.Lock(key.String() + "/" + app)
	defer unlock()

	if err := s.repo.DeleteState(ctx, key, app); err != nil {
		return fmt.Errorf("reset %s state: %w", app, err)
	}
	return nil
}

// ResetSession drops every document of the session. It holds the lock of
// each named app while deleting, so an in-flight Update cannot save its
// document back afterwards.
func (s *Store) ResetSession(ctx context.Context, key domain.SessionKey, apps ...string) error {
	apps = slices.Compact(slices.Sorted(slices.Values(apps)))
	for _, app := range apps {
		unlock := s.locks.Lock(key.String() + "/" + app)
		defer unlock()
	}

	if err := s.repo.DeleteSession(ctx, key); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}
