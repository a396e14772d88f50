package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/shsh-demos/internal/domain"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "nested", "demos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_SaveAndGet(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	key := domain.SessionKey{UserID: "anon_1", SessionID: "default"}

	got, err := s.GetState(ctx, key, "todo")
	require.NoError(t, err)
	assert.Nil(t, got, "missing documents read as nil")

	require.NoError(t, s.SaveState(ctx, key, "todo", []byte(`{"next_id":1}`)))
	require.NoError(t, s.SaveState(ctx, key, "todo", []byte(`{"next_id":2}`)))

	got, err = s.GetState(ctx, key, "todo")
	require.NoError(t, err)
	assert.JSONEq(t, `{"next_id":2}`, string(got))

	other, err := s.GetState(ctx, domain.SessionKey{UserID: "anon_1", SessionID: "tab2"}, "todo")
	require.NoError(t, err)
	assert.Nil(t, other, "sessions are isolated")
}

func TestSQLite_DeleteStateAndSession(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	key := domain.SessionKey{UserID: "anon_1", SessionID: "default"}

	require.NoError(t, s.SaveState(ctx, key, "chat", []byte(`{}`)))
	require.NoError(t, s.SaveState(ctx, key, "quiz", []byte(`{}`)))

	require.NoError(t, s.DeleteState(ctx, key, "chat"))
	got, err := s.GetState(ctx, key, "chat")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.DeleteSession(ctx, key))
	got, err = s.GetState(ctx, key, "quiz")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_ExpiredSessions(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	a := domain.SessionKey{UserID: "anon_a", SessionID: "default"}
	b := domain.SessionKey{UserID: "anon_b", SessionID: "default"}

	require.NoError(t, s.SaveState(ctx, a, "chat", []byte(`{}`)))
	require.NoError(t, s.SaveState(ctx, a, "todo", []byte(`{}`)))
	require.NoError(t, s.SaveState(ctx, b, "chat", []byte(`{}`)))

	fresh, err := s.ExpiredSessions(ctx, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, fresh)

	// A negative TTL puts the threshold in the future, so everything is idle.
	expired, err := s.ExpiredSessions(ctx, -time.Hour)
	require.NoError(t, err)
	require.Len(t, expired, 2, "one entry per session, not per document")

	keys := []domain.SessionKey{expired[0].Key, expired[1].Key}
	assert.ElementsMatch(t, []domain.SessionKey{a, b}, keys)
}

func TestSQLite_PurgeAll(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	key := domain.SessionKey{UserID: "anon_1", SessionID: "default"}

	require.NoError(t, s.SaveState(ctx, key, "chat", []byte(`{}`)))
	require.NoError(t, s.SaveState(ctx, key, "todo", []byte(`{}`)))

	n, err := s.PurgeAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, s.Ping(ctx))
}
