package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kineticlabs/kinetic/internal/config"
	"github.com/kineticlabs/kinetic/internal/core/model"
	"github.com/kineticlabs/kinetic/internal/store"
)

func newTestEngine(llm *MockLLM) *Engine {
	return NewEngine(store.New(store.NewMemoryKV()), llm, config.Prompts{})
}

func TestProcessText_MergesNodesAndResolvedEdges(t *testing.T) {
	mockLLM := &MockLLM{Response: `{
		"nodes": [
			{"label": "Alice", "type": "Person"},
			{"label": "Project X", "type": "Project"}
		],
		"edges": [
			{"source": "Alice", "target": "Project X", "relation_type": "leads"}
		],
		"decisions": []
	}`}
	e := newTestEngine(mockLLM)

	result, err := e.ProcessText(context.Background(), "Alice leads Project X.")
	require.NoError(t, err)

	assert.Equal(t, 2, result.NodesCreated)
	assert.Equal(t, 1, result.EdgesCreated)
	assert.Len(t, result.AddedNodeIDs, 2)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.BlastSummary)

	nodes := e.Store.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, model.StatusConfirmed, nodes[0].Status)

	edges := e.Store.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, nodes[0].ID, edges[0].SourceID)
	assert.Equal(t, nodes[1].ID, edges[0].TargetID)
	assert.Equal(t, "leads", edges[0].RelationType)

	assert.Empty(t, e.Store.TruthLedger())
	assert.Empty(t, e.Store.Conflicts())
}

func TestMerge_DropsUnresolvableEdges(t *testing.T) {
	e := newTestEngine(&MockLLM{})

	result, err := e.Merge(&model.ExtractionResult{
		Nodes: []model.ExtractedNode{{Label: "Alice", Type: model.NodePerson}},
		Edges: []model.ExtractedEdge{
			{Source: "Alice", Target: "Ghost Project", RelationType: "leads"},
		},
		Decisions: []model.ExtractedDecision{},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.NodesCreated)
	assert.Equal(t, 0, result.EdgesCreated)
	assert.Empty(t, e.Store.Edges())
}

func TestMerge_ResolvesEdgesAgainstPersistedNodes(t *testing.T) {
	e := newTestEngine(&MockLLM{})

	_, err := e.Merge(&model.ExtractionResult{
		Nodes:     []model.ExtractedNode{{Label: "Alice", Type: model.NodePerson}},
		Edges:     []model.ExtractedEdge{},
		Decisions: []model.ExtractedDecision{},
	})
	require.NoError(t, err)
	aliceID := e.Store.Nodes()[0].ID

	// Second batch references Alice by label only.
	result, err := e.Merge(&model.ExtractionResult{
		Nodes: []model.ExtractedNode{{Label: "Project X", Type: model.NodeProject}},
		Edges: []model.ExtractedEdge{
			{Source: "alice", Target: "Project X", RelationType: "leads"},
		},
		Decisions: []model.ExtractedDecision{},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.EdgesCreated)
	edges := e.Store.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, aliceID, edges[0].SourceID)
}

func TestMerge_MalformedExtractionWritesNothing(t *testing.T) {
	e := newTestEngine(&MockLLM{})

	_, err := e.Merge(&model.ExtractionResult{Nodes: nil, Edges: nil})

	assert.Error(t, err)
	assert.Empty(t, e.Store.Nodes())
	assert.Empty(t, e.Store.Edges())
}

func TestMerge_DedupAgainstStore(t *testing.T) {
	e := newTestEngine(&MockLLM{})

	batch := &model.ExtractionResult{
		Nodes:     []model.ExtractedNode{{Label: "Alice", Type: model.NodePerson}},
		Edges:     []model.ExtractedEdge{},
		Decisions: []model.ExtractedDecision{},
	}
	_, err := e.Merge(batch)
	require.NoError(t, err)
	_, err = e.Merge(batch)
	require.NoError(t, err)

	assert.Len(t, e.Store.Nodes(), 1)
}

func TestMerge_ConflictPipeline(t *testing.T) {
	e := newTestEngine(&MockLLM{})

	// First ingestion establishes the graph and a confirmed decision.
	_, err := e.Merge(&model.ExtractionResult{
		Nodes: []model.ExtractedNode{
			{Label: "Alice", Type: model.NodePerson},
			{Label: "Project X", Type: model.NodeProject},
		},
		Edges: []model.ExtractedEdge{
			{Source: "Alice", Target: "Project X", RelationType: "leads"},
		},
		Decisions: []model.ExtractedDecision{
			{Statement: "Launch date is May 15 2026", Source: "Alice"},
		},
	})
	require.NoError(t, err)

	ledger := e.Store.TruthLedger()
	require.Len(t, ledger, 1)
	assert.Equal(t, model.LedgerConfirmed, ledger[0].Status)

	// Second ingestion contradicts the launch date.
	result, err := e.Merge(&model.ExtractionResult{
		Nodes: []model.ExtractedNode{{Label: "Bob", Type: model.NodePerson}},
		Edges: []model.ExtractedEdge{
			{Source: "Bob", Target: "Project X", RelationType: "manages"},
		},
		Decisions: []model.ExtractedDecision{
			{Statement: "Launch date is June 1 2026", Source: "Bob"},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "Launch date is May 15 2026", result.Conflicts[0].ExistingStatement)
	assert.Equal(t, ledger[0].ID, result.Conflicts[0].NodeID)

	ledger = e.Store.TruthLedger()
	require.Len(t, ledger, 2)
	assert.Equal(t, model.LedgerConflicting, ledger[1].Status)

	require.Len(t, e.Store.Conflicts(), 1)

	// Bob asserted the conflicting decision, so his node is contested.
	for _, n := range e.Store.Nodes() {
		if n.Label == "Bob" {
			assert.Equal(t, model.StatusContested, n.Status)
		} else {
			assert.Equal(t, model.StatusConfirmed, n.Status)
		}
	}

	// Blast radius ran against the post-merge graph: Bob reaches Project X
	// in one hop and Alice in two.
	assert.Equal(t, "Blast radius: 2 nodes affected. Need-to-know: Alice. Impacted projects: Project X.", result.BlastSummary)
}

func TestSimulate_UsesPersistedGraph(t *testing.T) {
	mockLLM := &MockLLM{ResponseQueue: []string{
		`{"nodes": [{"label": "Alice", "type": "Person"}, {"label": "Project X", "type": "Project"}],
		  "edges": [{"source": "Alice", "target": "Project X", "relation_type": "leads"}],
		  "decisions": []}`,
		`{"brokenNodeIds": ["__replaced__"], "orphanedNodeIds": [],
		  "deconflictionMemo": {"stakeholders": [{"name": "Alice", "reason": "Leads Project X"}], "summary": "Project X work stops.", "riskLevel": "medium"}}`,
	}}
	e := newTestEngine(mockLLM)

	_, err := e.ProcessText(context.Background(), "Alice leads Project X.")
	require.NoError(t, err)

	// The mock names an id that does not exist; the result comes back
	// filtered to real ids only.
	result, err := e.Simulate(context.Background(), "We cancel Project X")
	require.NoError(t, err)

	assert.Empty(t, result.BrokenNodeIDs)
	assert.Equal(t, model.RiskMedium, result.DeconflictionMemo.RiskLevel)
	require.Len(t, result.DeconflictionMemo.Stakeholders, 1)
}
