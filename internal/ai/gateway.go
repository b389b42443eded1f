// Package ai provides a provider-agnostic gateway to generative
// completion APIs. The boundary is deliberately narrow: one prompt in,
// one free-text response out — no streaming, no multi-turn state.
package ai

import "context"

// Request is the input to a completion call.
type Request struct {
	System      string  `json:"system,omitempty"`
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// Response is the output of a completion call.
type Response struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// TotalTokens returns the sum of input and output tokens.
func (r Response) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}

// Provider is the interface all completion providers must implement.
type Provider interface {
	Complete(ctx context.Context, req Request) (Response, error)
	HealthCheck(ctx context.Context) error
}
