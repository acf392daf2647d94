package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// StubClient implements scripts.Enhancer with deterministic output for development.
type StubClient struct {
	logger *slog.Logger
}

// NewStubClient returns a stubbed LLM client.
func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger}
}

// Enhance prefixes a fixed hook and closes with a call to action, keeping
// every original word in order.
func (s *StubClient) Enhance(ctx context.Context, script string) (string, error) {
	body := strings.Join(strings.Fields(script), " ")
	if body == "" {
		return "", fmt.Errorf("script required")
	}

	s.logger.Debug("stub LLM enhanced script", slog.Int("words", len(strings.Fields(body))))

	return fmt.Sprintf("Stop scrolling. This changes everything. %s Now go make it happen!", body), nil
}
