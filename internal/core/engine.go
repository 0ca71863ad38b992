// Package core wires the store, auditor and blast-radius calculator into
// the ingestion pipeline that turns one extraction result into persisted
// graph mutations.
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kineticlabs/kinetic/internal/config"
	"github.com/kineticlabs/kinetic/internal/core/audit"
	"github.com/kineticlabs/kinetic/internal/core/blast"
	"github.com/kineticlabs/kinetic/internal/core/extraction"
	"github.com/kineticlabs/kinetic/internal/core/model"
	"github.com/kineticlabs/kinetic/internal/core/simulation"
	"github.com/kineticlabs/kinetic/internal/llm"
	"github.com/kineticlabs/kinetic/internal/store"
)

type Engine struct {
	Store     *store.Store
	Extractor *extraction.Extractor
	Simulator *simulation.Simulator
}

func NewEngine(st *store.Store, llmClient llm.LLMClient, prompts config.Prompts) *Engine {
	return &Engine{
		Store:     st,
		Extractor: extraction.NewExtractor(llmClient, prompts.Extraction),
		Simulator: simulation.NewSimulator(llmClient, prompts.Simulation),
	}
}

// MergeResult reports what one ingestion did. The caller (UI or API layer)
// decides how to surface it; the core triggers no notifications itself.
type MergeResult struct {
	NodesCreated int                    `json:"nodesCreated"`
	EdgesCreated int                    `json:"edgesCreated"`
	AddedNodeIDs []string               `json:"addedNodeIds"`
	Conflicts    []model.ConflictTicket `json:"conflicts"`
	BlastSummary string                 `json:"blastSummary,omitempty"`
}

// ProcessText runs the full pipeline: external extraction, then merge.
func (e *Engine) ProcessText(ctx context.Context, text string) (*MergeResult, error) {
	result, err := e.Extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	return e.Merge(result)
}

// Merge turns one extraction result into persisted graph mutations. The
// step order is load-bearing: the auditor runs before the blast-radius
// calculation, and the blast radius runs against the post-merge graph so
// the traversal sees the new connections. Shape validation happens before
// any store write; a malformed result mutates nothing.
func (e *Engine) Merge(extracted *model.ExtractionResult) (*MergeResult, error) {
	if err := extracted.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	createdNodes := make([]model.KnowledgeNode, 0, len(extracted.Nodes))
	for _, n := range extracted.Nodes {
		metadata := n.Metadata
		if metadata == nil {
			metadata = map[string]interface{}{}
		}
		createdNodes = append(createdNodes, model.KnowledgeNode{
			ID:        "node-" + uuid.New().String(),
			Label:     n.Label,
			Type:      n.Type,
			Metadata:  metadata,
			Status:    model.StatusConfirmed,
			CreatedAt: now,
		})
	}

	// Label resolution covers persisted and new nodes; new nodes win on a
	// label collision because they are added after.
	labelToID := make(map[string]string)
	for _, n := range e.Store.Nodes() {
		labelToID[strings.ToLower(n.Label)] = n.ID
	}
	for _, n := range createdNodes {
		labelToID[strings.ToLower(n.Label)] = n.ID
	}

	createdEdges := make([]model.KnowledgeEdge, 0, len(extracted.Edges))
	for _, ex := range extracted.Edges {
		sourceID := labelToID[strings.ToLower(ex.Source)]
		targetID := labelToID[strings.ToLower(ex.Target)]
		if sourceID == "" || targetID == "" {
			// Unresolvable label: drop the edge, not an error.
			continue
		}
		createdEdges = append(createdEdges, model.KnowledgeEdge{
			ID:           "edge-" + uuid.New().String(),
			SourceID:     sourceID,
			TargetID:     targetID,
			RelationType: ex.RelationType,
		})
	}

	if _, err := e.Store.AddNodes(createdNodes); err != nil {
		return nil, fmt.Errorf("failed to persist nodes: %w", err)
	}
	if _, err := e.Store.AddEdges(createdEdges); err != nil {
		return nil, fmt.Errorf("failed to persist edges: %w", err)
	}

	addedIDs := make([]string, 0, len(createdNodes))
	for _, n := range createdNodes {
		addedIDs = append(addedIDs, n.ID)
	}

	result := &MergeResult{
		NodesCreated: len(createdNodes),
		EdgesCreated: len(createdEdges),
		AddedNodeIDs: addedIDs,
		Conflicts:    []model.ConflictTicket{},
	}

	if len(extracted.Decisions) > 0 {
		auditRes := audit.Decisions(extracted.Decisions, e.Store.TruthLedger())

		if _, err := e.Store.AddTruthEntries(auditRes.Entries); err != nil {
			return nil, fmt.Errorf("failed to persist ledger entries: %w", err)
		}

		if len(auditRes.Conflicts) > 0 {
			if _, err := e.Store.AddConflicts(auditRes.Conflicts); err != nil {
				return nil, fmt.Errorf("failed to persist conflicts: %w", err)
			}
			if err := e.Store.MarkNodesContested(auditRes.ContestedNodeLabels); err != nil {
				return nil, fmt.Errorf("failed to mark contested nodes: %w", err)
			}
			result.Conflicts = auditRes.Conflicts
		}

		blastRes := blast.Calculate(addedIDs, e.Store.Nodes(), e.Store.Edges())
		if len(blastRes.AffectedNodes) > 0 {
			result.BlastSummary = blastRes.Summary
		}
	}

	return result, nil
}

// Simulate assesses a hypothetical decision against the current graph.
func (e *Engine) Simulate(ctx context.Context, hypothetical string) (*model.SimulationResult, error) {
	nodes := e.Store.Nodes()
	edges := e.Store.Edges()

	simNodes := make([]model.SimNode, 0, len(nodes))
	for _, n := range nodes {
		simNodes = append(simNodes, model.SimNode{
			ID:          n.ID,
			Name:        n.Label,
			Type:        string(n.Type),
			Group:       strings.ToLower(string(n.Type)),
			Description: metadataString(n.Metadata, "context"),
		})
	}

	simEdges := make([]model.SimEdge, 0, len(edges))
	for _, edge := range edges {
		simEdges = append(simEdges, model.SimEdge{
			Source:   edge.SourceID,
			Target:   edge.TargetID,
			Label:    edge.RelationType,
			Strength: 1,
		})
	}

	return e.Simulator.Simulate(ctx, hypothetical, simNodes, simEdges)
}

func metadataString(metadata map[string]interface{}, key string) string {
	if v, ok := metadata[key].(string); ok {
		return v
	}
	return ""
}
