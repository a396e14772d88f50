// Package quiz implements the timed mental arithmetic quiz.
package quiz

import (
	"fmt"
	"time"

	"github.com/ashureev/shsh-demos/internal/domain"
)

// App is the state document name.
const App = "quiz"

const historyView = 10

// Result is the outcome of one answered question.
type Result struct {
	Question      string  `json:"question"`
	UserAnswer    int     `json:"user_answer"`
	CorrectAnswer int     `json:"correct_answer"`
	Correct       bool    `json:"correct"`
	TimeTaken     float64 `json:"time_taken"`
}

// State is the quiz session document.
type State struct {
	Difficulty      string    `json:"difficulty"`
	Operation       string    `json:"operation"`
	Score           int       `json:"score"`
	Total           int       `json:"total"`
	Correct         int       `json:"correct"`
	Wrong           int       `json:"wrong"`
	Current         *Question `json:"current,omitempty"`
	TimePerQuestion []float64 `json:"time_per_question"`
	TotalTime       float64   `json:"total_time"`
	StartTime       time.Time `json:"start_time"`
	QuestionStart   time.Time `json:"question_start"`
	LastResult      *Result   `json:"last_result,omitempty"`
	History         []Result  `json:"history"`
}

// Stats are the derived performance figures.
type Stats struct {
	Accuracy        float64 `json:"accuracy"`
	AvgTime         float64 `json:"avg_time"`
	QuestionsPerMin float64 `json:"questions_per_min"`
	ScorePerSecond  float64 `json:"score_per_second"`
	ScorePerMinute  float64 `json:"score_per_minute"`
	ElapsedSeconds  float64 `json:"elapsed_seconds"`
	Elapsed         string  `json:"elapsed"`
}

// QuestionView is the current question without its answer.
type QuestionView struct {
	Text      string `json:"text"`
	Symbol    string `json:"symbol"`
	Operation string `json:"operation"`
}

// View is what the quiz page renders.
type View struct {
	Difficulty string        `json:"difficulty"`
	Operation  string        `json:"operation"`
	Score      int           `json:"score"`
	Total      int           `json:"total"`
	Correct    int           `json:"correct"`
	Wrong      int           `json:"wrong"`
	Question   *QuestionView `json:"question,omitempty"`
	LastResult *Result       `json:"last_result,omitempty"`
	Stats      Stats         `json:"stats"`
	History    []Result      `json:"history"`
}

// Service runs quiz interactions.
type Service struct {
	gen *Generator
	now func() time.Time
}

// NewService creates a quiz Service drawing from gen.
func NewService(gen *Generator) *Service {
	return &Service{gen: gen, now: time.Now}
}

// NewState returns the initial document.
func NewState() State {
	return State{
		Difficulty:      Easy,
		Operation:       AllOperations,
		TimePerQuestion: []float64{},
		History:         []Result{},
	}
}

// Start stamps the start time and draws the first question if needed.
// Every interaction calls it first.
func (s *Service) Start(st *State) {
	now := s.now()
	if st.StartTime.IsZero() {
		st.StartTime = now
	}
	if st.Current == nil {
		q := s.gen.Next(st.Difficulty, st.Operation)
		st.Current = &q
		if st.QuestionStart.IsZero() {
			st.QuestionStart = now
		}
	}
}

// Configure changes the settings used for the next question.
func (s *Service) Configure(st *State, difficulty, operation string) error {
	if difficulty != "" {
		if !ValidDifficulty(difficulty) {
			return fmt.Errorf("%w: unknown difficulty %q", domain.ErrInvalidInput, difficulty)
		}
		st.Difficulty = difficulty
	}
	if operation != "" {
		if !ValidOperation(operation) {
			return fmt.Errorf("%w: unknown operation %q", domain.ErrInvalidInput, operation)
		}
		st.Operation = operation
	}
	return nil
}

// Submit grades answer against the current question, records it and
// draws the next question.
func (s *Service) Submit(st *State, answer int) {
	s.Start(st)
	now := s.now()

	taken := 0.0
	if !st.QuestionStart.IsZero() {
		taken = now.Sub(st.QuestionStart).Seconds()
		st.TimePerQuestion = append(st.TimePerQuestion, taken)
		st.TotalTime += taken
	}

	q := *st.Current
	st.Total++
	correct := answer == q.Answer
	if correct {
		st.Correct++
		st.Score++
	} else {
		st.Wrong++
	}

	res := Result{
		Question:      q.Text,
		UserAnswer:    answer,
		CorrectAnswer: q.Answer,
		Correct:       correct,
		TimeTaken:     taken,
	}
	st.LastResult = &res
	st.History = append(st.History, res)

	next := s.gen.Next(st.Difficulty, st.Operation)
	st.Current = &next
	st.QuestionStart = now
}

// Next dismisses the last result.
func (s *Service) Next(st *State) {
	st.LastResult = nil
}

// Reset restores the initial state, keeping the chosen settings.
func (s *Service) Reset(st *State) {
	difficulty, operation := st.Difficulty, st.Operation
	*st = NewState()
	st.Difficulty, st.Operation = difficulty, operation
}

// Stats computes the performance figures at now.
func (st *State) Stats(now time.Time) Stats {
	var out Stats
	if st.Total > 0 {
		out.Accuracy = float64(st.Correct) / float64(st.Total) * 100
	}
	if n := len(st.TimePerQuestion); n > 0 {
		sum := 0.0
		for _, t := range st.TimePerQuestion {
			sum += t
		}
		out.AvgTime = sum / float64(n)
	}
	if st.TotalTime > 0 {
		out.QuestionsPerMin = float64(st.Total) / st.TotalTime * 60
		out.ScorePerSecond = float64(st.Correct) / st.TotalTime
	}
	if !st.StartTime.IsZero() {
		out.ElapsedSeconds = now.Sub(st.StartTime).Seconds()
	}
	if out.ElapsedSeconds > 0 {
		out.ScorePerMinute = float64(st.Correct) / out.ElapsedSeconds * 60
	}
	out.Elapsed = FormatElapsed(out.ElapsedSeconds)
	return out
}

// FormatElapsed renders seconds as mm:ss.
func FormatElapsed(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// RecentHistory returns up to the last ten results, newest first.
func (st *State) RecentHistory() []Result {
	start := max(len(st.History)-historyView, 0)
	out := make([]Result, 0, len(st.History)-start)
	for i := len(st.History) - 1; i >= start; i-- {
		out = append(out, st.History[i])
	}
	return out
}

// Render builds the page view at the service clock.
func (s *Service) Render(st *State) View {
	v := View{
		Difficulty: st.Difficulty,
		Operation:  st.Operation,
		Score:      st.Score,
		Total:      st.Total,
		Correct:    st.Correct,
		Wrong:      st.Wrong,
		LastResult: st.LastResult,
		Stats:      st.Stats(s.now()),
		History:    st.RecentHistory(),
	}
	if st.Current != nil {
		v.Question = &QuestionView{Text: st.Current.Text, Symbol: st.Current.Symbol, Operation: st.Current.Operation}
	}
	return v
}
