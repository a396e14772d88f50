// Package recipe implements the Cantonese recipe generator with an optional
// illustration from the image model.
package recipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ashureev/shsh-demos/internal/catalog"
	"github.com/ashureev/shsh-demos/internal/domain"
	"github.com/ashureev/shsh-demos/internal/llm"
)

// App is the state document name.
const App = "recipe"

const (
	textModel  = "gemini-2.5-pro"
	imageModel = "Qwen-Image"
)

var imageOptions = map[string]any{"aspect": "3:2", "quality": "high"}

var errNoImageURL = errors.New("no image URL in response")

// Preferences are the six optional form answers.
type Preferences struct {
	Mood        string `json:"mood"`
	Color       string `json:"color"`
	TimeOfDay   string `json:"time_of_day"`
	Ingredients string `json:"ingredients"`
	Memory      string `json:"memory"`
	Cuisine     string `json:"cuisine"`
}

// State keeps the last generated recipe.
type State struct {
	Title       string       `json:"title,omitempty"`
	Recipe      string       `json:"recipe,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	ImageError  string       `json:"image_error,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// Service runs the recipe generator.
type Service struct {
	llm     llm.Completer
	catalog *catalog.Catalog
}

// NewService creates a recipe Service.
func NewService(c llm.Completer, cat *catalog.Catalog) *Service {
	return &Service{llm: c, catalog: cat}
}

// NewState returns the empty document.
func NewState() State {
	return State{}
}

// Validate checks the select answers against the catalog.
func (s *Service) Validate(p Preferences) error {
	opts := s.catalog.Recipe
	check := func(field, v string, allowed []string) error {
		if v != "" && !slices.Contains(allowed, v) {
			return fmt.Errorf("%w: unknown %s %q", domain.ErrInvalidInput, field, v)
		}
		return nil
	}
	return errors.Join(
		check("mood", p.Mood, opts.Moods),
		check("color", p.Color, opts.Colors),
		check("time of day", p.TimeOfDay, opts.Times),
	)
}

// Generate writes a recipe for p and tries to illustrate it. An image
// failure keeps the recipe; a recipe failure keeps the previous one and
// sets Error.
func (s *Service) Generate(ctx context.Context, st *State, p Preferences) {
	text, err := s.llm.Complete(ctx, llm.Request{
		Model: textModel,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: systemPrompt},
			{Role: domain.RoleUser, Content: UserPrompt(p)},
		},
	})
	if err != nil {
		slog.Warn("Recipe generation failed", "error", err)
		st.Error = "生成食譜時出錯：" + err.Error()
		return
	}

	title := Title(text)
	url, imgErr := s.illustrate(ctx, title, text, p)

	*st = State{
		Title:       title,
		Recipe:      text,
		ImageURL:    url,
		Preferences: &p,
	}
	if imgErr != nil {
		slog.Info("Recipe image unavailable", "title", title, "error", imgErr)
		st.ImageError = "圖片生成不可用：" + truncateRunes(imgErr.Error(), 150)
	}
}

// illustrate asks for an image prompt, renders it, and retries once with a
// plain English prompt if rendering fails.
func (s *Service) illustrate(ctx context.Context, title, recipe string, p Preferences) (string, error) {
	prompt, err := s.llm.Complete(ctx, llm.Request{
		Model:    textModel,
		Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: ImagePromptRequest(title, recipe, p)}},
	})
	if err != nil {
		return "", err
	}

	url, err := s.renderImage(ctx, strings.TrimSpace(prompt))
	if err == nil {
		return url, nil
	}
	slog.Debug("Image model failed, retrying with fallback prompt", "error", err)

	url, err = s.renderImage(ctx, FallbackImagePrompt(title, p.Color))
	if err != nil {
		return "", fmt.Errorf("Qwen-Image generation failed: %w", err)
	}
	return url, nil
}

func (s *Service) renderImage(ctx context.Context, prompt string) (string, error) {
	out, err := s.llm.Complete(ctx, llm.Request{
		Model:    imageModel,
		Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: prompt}},
		Extra:    imageOptions,
	})
	if err != nil {
		return "", err
	}
	url := llm.ExtractURL(out)
	if url == "" {
		return "", errNoImageURL
	}
	return url, nil
}
