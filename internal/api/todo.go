package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/shsh-demos/internal/domain"
	"github.com/ashureev/shsh-demos/internal/todo"
)

// GetTodo returns the pending and completed tasks with stats.
func (h *Handler) GetTodo(w http.ResponseWriter, r *http.Request) {
	if st, ok := load(w, r, h.State, todo.App, todo.NewState); ok {
		JSON(w, http.StatusOK, st.Render())
	}
}

// AddTodo adds a pending task.
func (h *Handler) AddTodo(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Task     string `json:"task"`
		Priority string `json:"priority"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	h.todoAction(w, r, http.StatusCreated, func(st *todo.State) error {
		_, err := h.Todo.Add(st, in.Task, in.Priority)
		return err
	})
}

// CompleteTodo moves a pending task to the completed list.
func (h *Handler) CompleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.todoAction(w, r, http.StatusOK, func(st *todo.State) error {
		return h.Todo.Complete(st, id)
	})
}

// DeleteTodo removes a pending task.
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.todoAction(w, r, http.StatusOK, func(st *todo.State) error {
		return h.Todo.Delete(st, id)
	})
}

// ClearTodo removes every task.
func (h *Handler) ClearTodo(w http.ResponseWriter, r *http.Request) {
	h.todoAction(w, r, http.StatusOK, func(st *todo.State) error {
		h.Todo.Clear(st)
		return nil
	})
}

func (h *Handler) todoAction(w http.ResponseWriter, r *http.Request, status int, fn func(*todo.State) error) {
	if st, ok := mutate(w, r, h.State, todo.App, todo.NewState, fn); ok {
		JSON(w, status, st.Render())
	}
}

func todoID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, fmt.Errorf("%w: task id must be a number", domain.ErrInvalidInput)
	}
	return id, nil
}
