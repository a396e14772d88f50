// Package todo implements the to-do list: pending and completed items with
// priorities.
package todo

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ashureev/shsh-demos/internal/domain"
)

// App is the state document name.
const App = "todo"

// Priorities.
const (
	Low    = "Low"
	Medium = "Medium"
	High   = "High"
)

const (
	timeLayout     = "2006-01-02 15:04"
	completedLimit = 10
)

// Item is one task.
type Item struct {
	ID          int    `json:"id"`
	Task        string `json:"task"`
	Priority    string `json:"priority"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// State is the to-do session document.
type State struct {
	NextID    int    `json:"next_id"`
	Pending   []Item `json:"pending"`
	Completed []Item `json:"completed"`
}

// Stats summarise the list.
type Stats struct {
	Total          int     `json:"total"`
	Pending        int     `json:"pending"`
	Done           int     `json:"done"`
	CompletionRate float64 `json:"completion_rate"`
}

// View is what the to-do page renders.
type View struct {
	Pending   []Item `json:"pending"`
	Completed []Item `json:"completed"`
	Stats     Stats  `json:"stats"`
}

// List mutates a State using a clock.
type List struct {
	now func() time.Time
}

// NewList returns a List using the wall clock.
func NewList() *List {
	return &List{now: time.Now}
}

// NewState returns an empty list.
func NewState() State {
	return State{NextID: 1, Pending: []Item{}, Completed: []Item{}}
}

// Add appends a pending task. The task is trimmed and must not be empty;
// an empty priority means Medium.
func (l *List) Add(st *State, task, priority string) (Item, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return Item{}, fmt.Errorf("%w: please enter a task description", domain.ErrInvalidInput)
	}
	if priority == "" {
		priority = Medium
	}
	if !slices.Contains([]string{Low, Medium, High}, priority) {
		return Item{}, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidInput, priority)
	}
	if st.NextID < 1 {
		st.NextID = 1
	}

	item := Item{
		ID:        st.NextID,
		Task:      task,
		Priority:  priority,
		CreatedAt: l.now().Format(timeLayout),
	}
	st.NextID++
	st.Pending = append(st.Pending, item)
	return item, nil
}

// Complete moves the pending item id to the completed list.
func (l *List) Complete(st *State, id int) error {
	i := slices.IndexFunc(st.Pending, func(it Item) bool { return it.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: no pending task %d", domain.ErrNotFound, id)
	}
	item := st.Pending[i]
	item.CompletedAt = l.now().Format(timeLayout)
	st.Pending = slices.Delete(st.Pending, i, i+1)
	st.Completed = append(st.Completed, item)
	return nil
}

// Delete removes the pending item id.
func (l *List) Delete(st *State, id int) error {
	i := slices.IndexFunc(st.Pending, func(it Item) bool { return it.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: no pending task %d", domain.ErrNotFound, id)
	}
	st.Pending = slices.Delete(st.Pending, i, i+1)
	return nil
}

// Clear removes every item. IDs keep counting up.
func (l *List) Clear(st *State) {
	st.Pending = []Item{}
	st.Completed = []Item{}
}

// Stats computes the totals.
func (st *State) Stats() Stats {
	s := Stats{Pending: len(st.Pending), Done: len(st.Completed)}
	s.Total = s.Pending + s.Done
	if s.Total > 0 {
		s.CompletionRate = float64(s.Done) / float64(s.Total) * 100
	}
	return s
}

// Render shows all pending items and the last ten completed, newest first.
func (st *State) Render() View {
	start := max(len(st.Completed)-completedLimit, 0)
	done := make([]Item, 0, len(st.Completed)-start)
	for i := len(st.Completed) - 1; i >= start; i-- {
		done = append(done, st.Completed[i])
	}
	pending := st.Pending
	if pending == nil {
		pending = []Item{}
	}
	return View{Pending: pending, Completed: done, Stats: st.Stats()}
}
