// Package genai is the narrow contract to the hosted generative-AI service:
// text generation for chat replies, voice-navigator handoffs, and quest
// suggestions. The state core never depends on more than this surface.
package genai

import "context"

// Request carries one text-generation call.
type Request struct {
	System      string  // system framing for the mentor or task
	Prompt      string  // user-visible prompt text
	Temperature float64 // 0 uses the provider default
	MaxTokens   int     // 0 uses the provider default
}

// Client generates text. Implementations are safe for concurrent use.
// All calls are expected to be issued from fire-and-forget goroutines; the
// store never blocks a state transition on one.
type Client interface {
	GenerateText(ctx context.Context, req Request) (string, error)
}

// Func adapts a plain function to Client, mainly for tests.
type Func func(ctx context.Context, req Request) (string, error)

// GenerateText implements Client.
func (f Func) GenerateText(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
