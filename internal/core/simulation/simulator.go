// Package simulation is the "what-if" engine: it hands a hypothetical
// decision plus the current graph to the LLM and returns which nodes break,
// which become orphaned, and who has to be consulted.
package simulation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kineticlabs/kinetic/internal/core/common"
	"github.com/kineticlabs/kinetic/internal/core/model"
	"github.com/kineticlabs/kinetic/internal/llm"
)

const defaultPrompt = `You are a strategic simulation engine for an organizational knowledge graph. You analyze hypothetical decisions and determine their impact on the organizational graph.

You will receive:
1. The current knowledge graph (nodes and edges)
2. A hypothetical decision

Your job:
- Identify which nodes would be "broken" (directly impacted/invalidated by this decision)
- Identify which nodes would be "orphaned" (lose their primary connections and become isolated)
- Generate a "Deconfliction Memo" listing every stakeholder who MUST be consulted before this decision is made official

Return ONLY a valid JSON object with this exact structure:
{
  "brokenNodeIds": ["id1", "id2"],
  "orphanedNodeIds": ["id3"],
  "deconflictionMemo": {
    "stakeholders": [
      { "name": "Person Name", "reason": "Why they must be consulted" }
    ],
    "summary": "A 2-3 sentence executive summary of the ripple effects",
    "riskLevel": "low|medium|high|critical"
  }
}

Rules:
- brokenNodeIds: nodes directly invalidated, blocked, or contradicted by the decision
- orphanedNodeIds: nodes that lose their key connections and become stranded
- Only include node IDs that actually exist in the provided graph
- stakeholders: every Person node who is connected to broken/orphaned nodes, they NEED to know
- riskLevel: based on how many nodes are affected and how central they are
- Be thorough but precise, do not flag nodes that are genuinely unaffected
- Do NOT wrap the JSON in markdown code fences, return raw JSON only

CURRENT KNOWLEDGE GRAPH:
%s

HYPOTHETICAL DECISION:
"%s"

Analyze the blast radius of this decision on the graph.`

type Simulator struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewSimulator(llmClient llm.LLMClient, prompt string) *Simulator {
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &Simulator{
		LLM:    llmClient,
		Prompt: prompt,
	}
}

// Simulate runs one what-if assessment. The returned id lists are filtered
// down to ids that exist in the supplied node set; the provider is not
// trusted to only reference real nodes.
func (s *Simulator) Simulate(ctx context.Context, hypothetical string, nodes []model.SimNode, edges []model.SimEdge) (*model.SimulationResult, error) {
	graphContext, err := json.MarshalIndent(map[string]interface{}{
		"nodes": nodes,
		"edges": edges,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize graph context: %w", err)
	}

	prompt := fmt.Sprintf(s.Prompt, string(graphContext), hypothetical)

	response, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate simulation: %w", err)
	}

	result, err := common.ParseJSON[model.SimulationResult](response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse simulation: %w", err)
	}

	validIDs := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		validIDs[n.ID] = true
	}
	result.BrokenNodeIDs = filterIDs(result.BrokenNodeIDs, validIDs)
	result.OrphanedNodeIDs = filterIDs(result.OrphanedNodeIDs, validIDs)

	return &result, nil
}

func filterIDs(ids []string, valid map[string]bool) []string {
	filtered := make([]string, 0, len(ids))
	for _, id := range ids {
		if valid[id] {
			filtered = append(filtered, id)
		}
	}
	return filtered
}
