package ai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jgalan247/schemeofLearning/internal/ai"
)

func TestMockProvider_Complete(t *testing.T) {
	mock := ai.NewMockProvider("test response")

	resp, err := mock.Complete(context.Background(), ai.Request{Prompt: "Hello"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "test response" {
		t.Errorf("Content = %q, want %q", resp.Content, "test response")
	}
	if resp.Model != "mock" {
		t.Errorf("Model = %q, want %q", resp.Model, "mock")
	}
	if mock.LastRequest == nil || mock.LastRequest.Prompt != "Hello" {
		t.Error("LastRequest not captured")
	}
}

func TestMockProvider_Error(t *testing.T) {
	mock := &ai.MockProvider{Err: errors.New("quota exceeded")}

	if _, err := mock.Complete(context.Background(), ai.Request{Prompt: "x"}); err == nil {
		t.Error("Complete() should propagate the configured error")
	}
	if err := mock.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() should propagate the configured error")
	}
}

func TestResponse_TotalTokens(t *testing.T) {
	resp := ai.Response{InputTokens: 100, OutputTokens: 50}
	if got := resp.TotalTokens(); got != 150 {
		t.Errorf("TotalTokens() = %d, want 150", got)
	}
}
