// Package extraction wraps the external LLM that turns free-form text into
// structured graph material. The core never does language understanding
// itself; it consumes this package's already-parsed output.
package extraction

import (
	"context"
	"fmt"

	"github.com/kineticlabs/kinetic/internal/core/common"
	"github.com/kineticlabs/kinetic/internal/core/model"
	"github.com/kineticlabs/kinetic/internal/llm"
)

const defaultPrompt = `You are an organizational intelligence extractor for a knowledge graph engine. Analyze the provided text (meeting transcript, email, or communication) and extract structured information.

Return ONLY a valid JSON object with this exact structure:
{
  "nodes": [
    { "label": "Entity Name", "type": "Person|Project|Decision", "metadata": { "role": "...", "context": "..." } }
  ],
  "edges": [
    { "source": "Source Label", "target": "Target Label", "relation_type": "depends_on|manages|decided|sponsors|reports_to|leads|builds|reviews|blocks|enables|impacts" }
  ],
  "decisions": [
    { "statement": "Clear statement of the decision", "source": "Who made or communicated it" }
  ]
}

Rules:
- "type" must be exactly one of: "Person", "Project", "Decision"
- Extract all people/stakeholders as Person nodes (include role in metadata)
- Extract all projects, initiatives, or workstreams as Project nodes
- Extract all decisions, conclusions, or commitments as Decision nodes
- Identify relationships/dependencies between entities as edges
- Use the "relation_type" values listed above, picking the most accurate one
- For decisions, extract the core statement and who proposed/decided it
- Be thorough but avoid duplicates
- Do NOT wrap the JSON in markdown code fences, return raw JSON only

Analyze this text and extract organizational entities and relationships:

%s`

type Extractor struct {
	LLM    llm.LLMClient
	Prompt string
}

// NewExtractor builds an extractor. An empty prompt selects the default
// template; overrides must contain exactly one %s for the input text.
func NewExtractor(llmClient llm.LLMClient, prompt string) *Extractor {
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &Extractor{
		LLM:    llmClient,
		Prompt: prompt,
	}
}

// Extract runs one extraction call and validates the top-level shape, so
// the merge pipeline never sees a malformed result.
func (e *Extractor) Extract(ctx context.Context, text string) (*model.ExtractionResult, error) {
	prompt := fmt.Sprintf(e.Prompt, text)

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate extraction: %w", err)
	}

	result, err := common.ParseJSON[model.ExtractionResult](response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extraction: %w", err)
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}

	return &result, nil
}
