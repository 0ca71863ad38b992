package simulation

import (
	"context"
)

// MockLLMClient is a test double returning a canned response.
type MockLLMClient struct {
	Response   string
	Err        error
	LastPrompt string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.LastPrompt = prompt
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
