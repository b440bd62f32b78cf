package ai

import (
	"context"
	"fmt"
	"time"

	"ai-mentor-platform/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*NoopAIAdapter)(nil)

// NoopAIAdapter implements adapter.AIServiceAdapter for local/demo mode.
// Replies are deterministic so the dashboard stays usable with no API key.
type NoopAIAdapter struct{}

func NewNoopAIAdapter() *NoopAIAdapter {
	return &NoopAIAdapter{}
}

func (a *NoopAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{"noop-mentor-model"}, nil
}

func (a *NoopAIAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{
		Name:        "noop-mentor-model",
		Description: "Deterministic offline mentor model",
		MaxTokens:   1024,
		Supports:    []string{"text"},
	}, nil
}

func (a *NoopAIAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	n := 0
	for _, m := range messages {
		n += len(m.Content) / 4 // rough chars-per-token estimate
	}
	return n, nil
}

func (a *NoopAIAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := a.ChatWithUsage(ctx, model, messages)
	return reply, err
}

func (a *NoopAIAdapter) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	// Simulate slight processing time and respect ctx.
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return "", adapter.Usage{}, ctx.Err()
	}
	if len(messages) == 0 {
		return "", adapter.Usage{}, nil
	}
	last := messages[len(messages)-1]
	reply := fmt.Sprintf("Noted. You said: %q — keep showing up; consistency beats intensity.", trim(last.Content, 80))
	return reply, adapter.Usage{PromptTokens: len(last.Content) / 4, CompletionTokens: 20, TotalTokens: len(last.Content)/4 + 20}, nil
}

func trim(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
