package llm

import (
	"context"
)

// LLMClient is the boundary to the external completion provider. The core
// only ever sees the returned text (or the error); prompt construction and
// response parsing live with the callers.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
