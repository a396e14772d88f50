// Package tutorial runs the step-by-step completion API walkthrough.
package tutorial

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/ashureev/shsh-demos/internal/domain"
	"github.com/ashureev/shsh-demos/internal/llm"
)

const (
	chatModel       = "gpt-3.5-turbo"
	imageModel      = "Qwen-Image"
	friendlyTeacher = "You are a friendly teacher who explains concepts simply"
	question        = "What is artificial intelligence?"
)

// Demo is one walkthrough step.
type Demo struct {
	Name  string
	Title string
	req   llm.Request
}

// Demos lists the steps in order.
var Demos = []Demo{
	{
		Name:  "simple",
		Title: "Simple chat",
		req: llm.Request{Model: chatModel, Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: question},
		}},
	},
	{
		Name:  "system",
		Title: "With system prompt",
		req: llm.Request{Model: chatModel, Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: friendlyTeacher},
			{Role: domain.RoleUser, Content: question},
		}},
	},
	{
		Name:  "conversation",
		Title: "Storing conversations",
		req: llm.Request{Model: chatModel, Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: friendlyTeacher},
			{Role: domain.RoleUser, Content: question},
			{Role: domain.RoleAssistant, Content: "AI is like teaching computers to think and learn!"},
			{Role: domain.RoleUser, Content: "Can you give me an example?"},
		}},
	},
	{
		Name:  "image",
		Title: "Image generation",
		req: llm.Request{
			Model:    imageModel,
			Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: "A robot making pancakes"}},
			Extra:    map[string]any{"aspect": "3:2", "quality": "high"},
		},
	},
}

// Lookup finds a demo by name.
func Lookup(name string) (Demo, bool) {
	i := slices.IndexFunc(Demos, func(d Demo) bool { return d.Name == name })
	if i < 0 {
		return Demo{}, false
	}
	return Demos[i], true
}

// Names lists the demo names.
func Names() []string {
	out := make([]string, len(Demos))
	for i, d := range Demos {
		out[i] = d.Name
	}
	return out
}

// Run sends each demo's request and prints the answer under a heading.
// It stops at the first failed call.
func Run(ctx context.Context, c llm.Completer, w io.Writer, demos ...Demo) error {
	for i, d := range demos {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		out, err := c.Complete(ctx, d.req)
		if err != nil {
			return fmt.Errorf("%s: %w", d.Name, err)
		}
		if d.req.Model == imageModel {
			if url := llm.ExtractURL(out); url != "" {
				out = url
			}
		}
		if _, err := fmt.Fprintf(w, "== %s ==\n%s\n", d.Title, out); err != nil {
			return err
		}
	}
	return nil
}
