package todo

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/shsh-demos/internal/domain"
)

func newTestList() *List {
	return &List{now: func() time.Time { return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC) }}
}

func TestAdd(t *testing.T) {
	l := newTestList()
	st := NewState()

	item, err := l.Add(&st, "  Finish homework  ", High)
	require.NoError(t, err)
	assert.Equal(t, Item{ID: 1, Task: "Finish homework", Priority: High, CreatedAt: "2025-06-01 09:30"}, item)

	item, err = l.Add(&st, "Read", "")
	require.NoError(t, err)
	assert.Equal(t, 2, item.ID)
	assert.Equal(t, Medium, item.Priority)

	_, err = l.Add(&st, "   ", Low)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = l.Add(&st, "x", "Urgent")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, st.Pending, 2)
}

func TestComplete_MovesExactlyOne(t *testing.T) {
	l := newTestList()
	st := NewState()
	for _, task := range []string{"a", "b", "c"} {
		_, err := l.Add(&st, task, Low)
		require.NoError(t, err)
	}
	before := st.Pending[1]

	require.NoError(t, l.Complete(&st, before.ID))

	assert.Len(t, st.Pending, 2)
	require.Len(t, st.Completed, 1)
	got := st.Completed[0]
	assert.Equal(t, before.ID, got.ID)
	assert.Equal(t, before.Task, got.Task)
	assert.Equal(t, before.Priority, got.Priority)
	assert.Equal(t, before.CreatedAt, got.CreatedAt)
	assert.Equal(t, "2025-06-01 09:30", got.CompletedAt)

	require.ErrorIs(t, l.Complete(&st, before.ID), domain.ErrNotFound, "completed items cannot complete twice")
}

func TestDeleteAndClear(t *testing.T) {
	l := newTestList()
	st := NewState()
	a, _ := l.Add(&st, "a", Low)
	_, _ = l.Add(&st, "b", Low)

	require.NoError(t, l.Delete(&st, a.ID))
	require.ErrorIs(t, l.Delete(&st, 99), domain.ErrNotFound)
	assert.Len(t, st.Pending, 1)

	l.Clear(&st)
	assert.Equal(t, 0, st.Stats().Total)

	c, _ := l.Add(&st, "c", Low)
	assert.Equal(t, 3, c.ID, "ids are never reused")
}

func TestRenderAndStats(t *testing.T) {
	l := newTestList()
	st := NewState()
	for i := range 12 {
		it, err := l.Add(&st, fmt.Sprintf("task %d", i), Low)
		require.NoError(t, err)
		require.NoError(t, l.Complete(&st, it.ID))
	}
	_, _ = l.Add(&st, "open", High)

	v := st.Render()
	require.Len(t, v.Completed, 10)
	assert.Equal(t, "task 11", v.Completed[0].Task)
	assert.Equal(t, "task 2", v.Completed[9].Task)
	assert.Len(t, v.Pending, 1)

	assert.Equal(t, 13, v.Stats.Total)
	assert.Equal(t, 1, v.Stats.Pending)
	assert.Equal(t, 12, v.Stats.Done)
	assert.InDelta(t, 92.307, v.Stats.CompletionRate, 0.001)
}
