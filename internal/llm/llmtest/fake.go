// Package llmtest provides a scripted llm.Completer for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/ashureev/shsh-demos/internal/llm"
)

// Response is one scripted answer.
type Response struct {
	Text string
	Err  error
}

// Fake replays Responses in order and records every request. Once the
// script runs out it keeps returning the last entry.
type Fake struct {
	mu        sync.Mutex
	responses []Response
	requests  []llm.Request
}

// New returns a Fake that answers with responses in order.
func New(responses ...Response) *Fake {
	return &Fake{responses: responses}
}

// Text returns a Fake that always answers text.
func Text(text string) *Fake {
	return New(Response{Text: text})
}

// Complete implements llm.Completer.
func (f *Fake) Complete(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := len(f.requests)
	f.requests = append(f.requests, req)
	if len(f.responses) == 0 {
		return "", nil
	}
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	r := f.responses[idx]
	return r.Text, r.Err
}

// Requests returns a copy of the recorded requests.
func (f *Fake) Requests() []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.Request(nil), f.requests...)
}
