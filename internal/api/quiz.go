package api

import (
	"net/http"

	"github.com/ashureev/shsh-demos/internal/quiz"
)

// GetQuiz starts the quiz if needed and returns the current view.
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	h.quizAction(w, r, func(*quiz.State) error { return nil })
}

// ConfigureQuiz changes difficulty or operation for the next question.
func (h *Handler) ConfigureQuiz(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Difficulty string `json:"difficulty"`
		Operation  string `json:"operation"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	h.quizAction(w, r, func(st *quiz.State) error {
		return h.Quiz.Configure(st, in.Difficulty, in.Operation)
	})
}

// SubmitAnswer grades the answer and moves to the next question.
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Answer *int `json:"answer"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if in.Answer == nil {
		writeError(w, r, requiredField("answer"))
		return
	}
	h.quizAction(w, r, func(st *quiz.State) error {
		h.Quiz.Submit(st, *in.Answer)
		return nil
	})
}

// NextQuestion dismisses the last result.
func (h *Handler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	h.quizAction(w, r, func(st *quiz.State) error {
		h.Quiz.Next(st)
		return nil
	})
}

// ResetQuiz restarts the quiz with the current settings.
func (h *Handler) ResetQuiz(w http.ResponseWriter, r *http.Request) {
	h.quizAction(w, r, func(st *quiz.State) error {
		h.Quiz.Reset(st)
		return nil
	})
}

// quizAction runs fn and then makes sure a question is on screen, the way
// every page load of the quiz does.
func (h *Handler) quizAction(w http.ResponseWriter, r *http.Request, fn func(*quiz.State) error) {
	st, ok := mutate(w, r, h.State, quiz.App, quiz.NewState, func(st *quiz.State) error {
		if err := fn(st); err != nil {
			return err
		}
		h.Quiz.Start(st)
		return nil
	})
	if ok {
		JSON(w, http.StatusOK, h.Quiz.Render(&st))
	}
}
