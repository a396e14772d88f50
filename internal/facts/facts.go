// Package facts implements the bilingual fact generator.
package facts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ashureev/shsh-demos/internal/catalog"
	"github.com/ashureev/shsh-demos/internal/domain"
	"github.com/ashureev/shsh-demos/internal/llm"
)

// App is the state document name.
const App = "facts"

const (
	// RandomCategory asks for a fact on any topic.
	RandomCategory = "Random"

	timestampLayout = "2006-01-02 15:04:05"

	labelEnglish = "English:"
	labelChinese = "Traditional Chinese:"

	systemPrompt = "You are a knowledgeable fact generator. Provide interesting, accurate, and engaging facts in both English and Traditional Chinese. Keep responses concise and factual. Always format your response with 'English:' and 'Traditional Chinese:' labels."

	promptFormat = " Make it concise (1-2 sentences) and engaging. Provide the fact in BOTH English and Traditional Chinese. Format your response as:\n\nEnglish: [fact in English]\nTraditional Chinese: [fact in Traditional Chinese]"
)

// Fact is one generated fact card.
type Fact struct {
	ID        string `json:"id"`
	TextEN    string `json:"text_en"`
	TextZHTW  string `json:"text_zh_tw"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
}

// State is the fact collection, oldest first.
type State struct {
	Category  string `json:"category"`
	Model     string `json:"model"`
	Facts     []Fact `json:"facts"`
	LastError string `json:"last_error,omitempty"`
}

// NumberedFact is a fact with its 1-based position in the collection.
type NumberedFact struct {
	Number int `json:"number"`
	Fact
}

// View is the rendered collection: newest first.
type View struct {
	Category  string         `json:"category"`
	Model     string         `json:"model"`
	Total     int            `json:"total"`
	Facts     []NumberedFact `json:"facts"`
	LastError string         `json:"last_error,omitempty"`
}

// Service runs the fact generator.
type Service struct {
	llm     llm.Completer
	catalog *catalog.Catalog
	now     func() time.Time
}

// NewService creates a facts Service.
func NewService(c llm.Completer, cat *catalog.Catalog) *Service {
	return &Service{llm: c, catalog: cat, now: time.Now}
}

// NewState returns an empty collection with the default choices.
func (s *Service) NewState() State {
	return State{Category: RandomCategory, Model: s.catalog.DefaultModel(), Facts: []Fact{}}
}

// Select changes the category and/or model. Empty values are left alone.
func (s *Service) Select(st *State, category, model string) error {
	if category != "" {
		if !s.catalog.HasFactCategory(category) {
			return fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
		}
		st.Category = category
	}
	if model != "" {
		if !s.catalog.HasModel(model) {
			return fmt.Errorf("%w: unknown model %q", domain.ErrInvalidInput, model)
		}
		st.Model = model
	}
	return nil
}

// Generate asks for one fact in the current category and appends it.
// A failed call leaves the collection alone and sets LastError.
func (s *Service) Generate(ctx context.Context, st *State) {
	text, err := s.llm.Complete(ctx, llm.Request{
		Model: st.Model,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: systemPrompt},
			{Role: domain.RoleUser, Content: Prompt(st.Category)},
		},
	})
	if err != nil {
		slog.Warn("Fact generation failed", "category", st.Category, "model", st.Model, "error", err)
		st.LastError = "Error generating fact: " + err.Error()
		return
	}

	en, zh := ParseBilingual(text)
	st.Facts = append(st.Facts, Fact{
		ID:        uuid.NewString(),
		TextEN:    en,
		TextZHTW:  zh,
		Category:  st.Category,
		Timestamp: s.now().Format(timestampLayout),
	})
	st.LastError = ""
}

// Clear empties the collection.
func (s *Service) Clear(st *State) {
	st.Facts = []Fact{}
	st.LastError = ""
}

// Prompt is the user prompt for category.
func Prompt(category string) string {
	if category == "" || category == RandomCategory {
		return "Generate a fascinating, true, and interesting random fact." + promptFormat
	}
	return fmt.Sprintf("Generate a fascinating, true, and interesting fact about %s.", strings.ToLower(category)) + promptFormat
}

// ParseBilingual splits a labelled answer into its English and Traditional
// Chinese parts. Unlabelled text is taken as English.
func ParseBilingual(text string) (en, zh string) {
	text = strings.TrimSpace(text)
	hasEN := strings.Contains(text, labelEnglish)
	hasZH := strings.Contains(text, labelChinese)

	switch {
	case hasEN && hasZH:
		parts := strings.SplitN(text, labelChinese, 2)
		return strings.TrimSpace(strings.ReplaceAll(parts[0], labelEnglish, "")), strings.TrimSpace(parts[1])
	case hasEN:
		return strings.TrimSpace(strings.ReplaceAll(text, labelEnglish, "")), ""
	case hasZH:
		return "", strings.TrimSpace(strings.ReplaceAll(text, labelChinese, ""))
	default:
		return text, ""
	}
}

// Render lists the collection newest first with 1-based numbers.
func (st State) Render() View {
	out := make([]NumberedFact, 0, len(st.Facts))
	for i := len(st.Facts) - 1; i >= 0; i-- {
		out = append(out, NumberedFact{Number: i + 1, Fact: st.Facts[i]})
	}
	return View{
		Category:  st.Category,
		Model:     st.Model,
		Total:     len(st.Facts),
		Facts:     out,
		LastError: st.LastError,
	}
}
