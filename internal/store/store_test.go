package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kineticlabs/kinetic/internal/core/model"
)

func newTestStore() *Store {
	return New(NewMemoryKV())
}

func node(id, label string, typ model.NodeType) model.KnowledgeNode {
	return model.KnowledgeNode{
		ID:        id,
		Label:     label,
		Type:      typ,
		Metadata:  map[string]interface{}{},
		Status:    model.StatusConfirmed,
		CreatedAt: time.Now().UTC(),
	}
}

func TestAddNodes_DedupByLabelCaseInsensitive(t *testing.T) {
	s := newTestStore()

	merged, err := s.AddNodes([]model.KnowledgeNode{node("n1", "Alice", model.NodePerson)})
	require.NoError(t, err)
	assert.Len(t, merged, 1)

	// Same label, different casing: dropped, not merged.
	merged, err = s.AddNodes([]model.KnowledgeNode{node("n2", "ALICE", model.NodePerson)})
	require.NoError(t, err)
	assert.Len(t, merged, 1)
	assert.Equal(t, "n1", merged[0].ID)
}

func TestAddNodes_Idempotent(t *testing.T) {
	s := newTestStore()
	batch := []model.KnowledgeNode{
		node("n1", "Alice", model.NodePerson),
		node("n2", "Project X", model.NodeProject),
	}

	first, err := s.AddNodes(batch)
	require.NoError(t, err)
	second, err := s.AddNodes(batch)
	require.NoError(t, err)

	assert.Len(t, second, len(first))
}

func TestAddNodes_NoDedupWithinBatch(t *testing.T) {
	s := newTestStore()

	// Dedup is only against persisted state, not within the new batch.
	merged, err := s.AddNodes([]model.KnowledgeNode{
		node("n1", "Alice", model.NodePerson),
		node("n2", "alice", model.NodePerson),
	})
	require.NoError(t, err)
	assert.Len(t, merged, 2)
}

func TestAddEdges_DedupByTuple(t *testing.T) {
	s := newTestStore()

	edge := model.KnowledgeEdge{ID: "e1", SourceID: "a", TargetID: "b", RelationType: "manages"}
	merged, err := s.AddEdges([]model.KnowledgeEdge{edge})
	require.NoError(t, err)
	assert.Len(t, merged, 1)

	dup := model.KnowledgeEdge{ID: "e2", SourceID: "a", TargetID: "b", RelationType: "manages"}
	merged, err = s.AddEdges([]model.KnowledgeEdge{dup})
	require.NoError(t, err)
	assert.Len(t, merged, 1)
	assert.Equal(t, "e1", merged[0].ID)
}

func TestAddEdges_DirectionMatters(t *testing.T) {
	s := newTestStore()

	_, err := s.AddEdges([]model.KnowledgeEdge{
		{ID: "e1", SourceID: "a", TargetID: "b", RelationType: "manages"},
	})
	require.NoError(t, err)

	merged, err := s.AddEdges([]model.KnowledgeEdge{
		{ID: "e2", SourceID: "b", TargetID: "a", RelationType: "manages"},
	})
	require.NoError(t, err)
	assert.Len(t, merged, 2)
}

func TestTruthLedgerAndConflicts_PureAppend(t *testing.T) {
	s := newTestStore()

	entry := model.TruthLedgerEntry{ID: "t1", Statement: "Launch May 15", Version: 1, Status: model.LedgerConfirmed}
	_, err := s.AddTruthEntries([]model.TruthLedgerEntry{entry})
	require.NoError(t, err)
	merged, err := s.AddTruthEntries([]model.TruthLedgerEntry{entry})
	require.NoError(t, err)
	assert.Len(t, merged, 2)

	ticket := model.ConflictTicket{ID: "c1", ExistingStatement: "a", NewStatement: "b", NodeID: "t1"}
	_, err = s.AddConflicts([]model.ConflictTicket{ticket})
	require.NoError(t, err)
	conflicts, err := s.AddConflicts([]model.ConflictTicket{ticket})
	require.NoError(t, err)
	assert.Len(t, conflicts, 2)
}

func TestMarkNodesContested(t *testing.T) {
	s := newTestStore()

	_, err := s.AddNodes([]model.KnowledgeNode{
		node("n1", "Alice", model.NodePerson),
		node("n2", "Bob", model.NodePerson),
	})
	require.NoError(t, err)

	require.NoError(t, s.MarkNodesContested([]string{"ALICE"}))

	nodes := s.Nodes()
	require.Len(t, nodes, 2)
	for _, n := range nodes {
		if n.ID == "n1" {
			assert.Equal(t, model.StatusContested, n.Status)
		} else {
			assert.Equal(t, model.StatusConfirmed, n.Status)
		}
	}
}

func TestReads_SoftFailOnCorruptBlob(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(keyNodes, []byte("{not json")))
	require.NoError(t, kv.Set(keyEdges, []byte("42")))

	s := New(kv)
	assert.Empty(t, s.Nodes())
	assert.Empty(t, s.Edges())
	assert.Empty(t, s.TruthLedger())
	assert.Empty(t, s.Conflicts())

	// A corrupt blob does not poison subsequent writes.
	merged, err := s.AddNodes([]model.KnowledgeNode{node("n1", "Alice", model.NodePerson)})
	require.NoError(t, err)
	assert.Len(t, merged, 1)
}

func TestAPIKeyRoundTrip(t *testing.T) {
	s := newTestStore()
	assert.Equal(t, "", s.APIKey())
	require.NoError(t, s.SaveAPIKey("sk-test"))
	assert.Equal(t, "sk-test", s.APIKey())
}

func TestSQLiteKVRoundTrip(t *testing.T) {
	kv, err := NewSQLiteKV(t.TempDir() + "/kinetic.db")
	require.NoError(t, err)
	defer kv.Close()

	missing, err := kv.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, kv.Set("k", []byte(`["a"]`)))
	require.NoError(t, kv.Set("k", []byte(`["a","b"]`)))

	got, err := kv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, string(got))
}
