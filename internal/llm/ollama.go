package llm

import (
	"context"
	"fmt"

	"github.com/XiaoConstantine/dspy-go/pkg/core"
	"github.com/XiaoConstantine/dspy-go/pkg/llms"
)

// OllamaClient talks to Ollama through its native API via dspy-go. Most
// deployments should prefer the "ollama" provider, which routes through the
// OpenAI-compatible endpoint; this client exists for servers running with
// the compatibility layer disabled.
type OllamaClient struct {
	llm *llms.OllamaLLM
}

func NewOllamaClient(modelName string, baseURL string) (*OllamaClient, error) {
	opts := []llms.OllamaOption{
		llms.WithBaseURL(baseURL),
	}

	ollamaLLM, err := llms.NewOllamaLLM(core.ModelID(modelName), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama llm: %w", err)
	}

	return &OllamaClient{llm: ollamaLLM}, nil
}

func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := c.llm.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return response.Content, nil
}
