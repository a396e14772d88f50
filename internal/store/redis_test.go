package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/shsh-demos/internal/domain"
)

func newTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedis(context.Background(), "redis://"+mr.Addr()+"/0", time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedis_SaveGetAndExpire(t *testing.T) {
	s, mr := newTestRedis(t)
	ctx := context.Background()
	key := domain.SessionKey{UserID: "anon_1", SessionID: "default"}

	got, err := s.GetState(ctx, key, "quiz")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.SaveState(ctx, key, "quiz", []byte(`{"score":3}`)))
	got, err = s.GetState(ctx, key, "quiz")
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":3}`, string(got))
	assert.Equal(t, time.Minute, mr.TTL("demos:state:anon_1:default:quiz"))

	mr.FastForward(2 * time.Minute)
	got, err = s.GetState(ctx, key, "quiz")
	require.NoError(t, err)
	assert.Nil(t, got, "idle documents expire")

	expired, err := s.ExpiredSessions(ctx, time.Minute)
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestRedis_SaveRefreshesWholeSession(t *testing.T) {
	s, mr := newTestRedis(t)
	ctx := context.Background()
	key := domain.SessionKey{UserID: "anon_1", SessionID: "default"}

	require.NoError(t, s.SaveState(ctx, key, "quiz", []byte(`{"score":1}`)))
	mr.FastForward(40 * time.Second)
	require.NoError(t, s.SaveState(ctx, key, "chat", []byte(`{}`)))
	mr.FastForward(30 * time.Second)

	got, err := s.GetState(ctx, key, "quiz")
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":1}`, string(got), "activity in one app keeps the others alive")
	assert.Equal(t, 30*time.Second, mr.TTL("demos:state:anon_1:default:quiz"))

	mr.FastForward(31 * time.Second)
	for _, app := range []string{"quiz", "chat"} {
		got, err = s.GetState(ctx, key, app)
		require.NoError(t, err)
		assert.Nil(t, got, app)
	}
}

func TestRedis_DeleteSession(t *testing.T) {
	s, mr := newTestRedis(t)
	ctx := context.Background()
	key := domain.SessionKey{UserID: "anon_1", SessionID: "default"}
	other := domain.SessionKey{UserID: "anon_1", SessionID: "default:2"}

	require.NoError(t, s.SaveState(ctx, key, "chat", []byte(`{}`)))
	require.NoError(t, s.SaveState(ctx, key, "todo", []byte(`{}`)))
	require.NoError(t, s.SaveState(ctx, other, "chat", []byte(`{}`)))

	require.NoError(t, s.DeleteSession(ctx, key))

	assert.False(t, mr.Exists("demos:state:anon_1:default:chat"))
	assert.False(t, mr.Exists("demos:state:anon_1:default:todo"))
	assert.True(t, mr.Exists("demos:state:anon_1:default:2:chat"), "prefix-sharing sessions survive")
}

func TestRedis_DeleteStateAndPurge(t *testing.T) {
	s, mr := newTestRedis(t)
	ctx := context.Background()
	key := domain.SessionKey{UserID: "anon_1", SessionID: "default"}

	require.NoError(t, s.SaveState(ctx, key, "chat", []byte(`{}`)))
	require.NoError(t, s.SaveState(ctx, key, "todo", []byte(`{}`)))
	require.NoError(t, s.DeleteState(ctx, key, "chat"))
	assert.False(t, mr.Exists("demos:state:anon_1:default:chat"))

	require.NoError(t, mr.Set("unrelated", "kept"))

	n, err := s.PurgeAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.False(t, mr.Exists("demos:apps:anon_1:default"))
	assert.True(t, mr.Exists("unrelated"))
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "not a url", time.Minute)
	require.Error(t, err)
}
