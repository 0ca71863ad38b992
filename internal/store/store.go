// Package store owns the canonical persisted copies of nodes, edges, truth
// ledger entries and conflict tickets. All mutations go through its add/mark
// operations; other components only ever receive copies.
package store

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/kineticlabs/kinetic/internal/core/model"
)

const (
	keyNodes       = "kinetic_nodes"
	keyEdges       = "kinetic_edges"
	keyTruthLedger = "kinetic_truth_ledger"
	keyConflicts   = "kinetic_conflicts"
	keyAPIKey      = "kinetic_api_key"
)

// Store provides read/merge/write access to the graph. The dedup logic is
// read-modify-write, so a mutex serializes writers; the original design
// assumed a single caller but the HTTP layer serves requests concurrently.
type Store struct {
	mu sync.Mutex
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) Close() error {
	return s.kv.Close()
}

// load reads and parses one collection. Missing or corrupt blobs fall back
// to an empty slice; reads never fail.
func load[T any](kv KV, key string) []T {
	raw, err := kv.Get(key)
	if err != nil || len(raw) == 0 {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return []T{}
	}
	return out
}

func save(kv KV, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return kv.Set(key, raw)
}

func (s *Store) Nodes() []model.KnowledgeNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[model.KnowledgeNode](s.kv, keyNodes)
}

func (s *Store) Edges() []model.KnowledgeEdge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[model.KnowledgeEdge](s.kv, keyEdges)
}

func (s *Store) TruthLedger() []model.TruthLedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[model.TruthLedgerEntry](s.kv, keyTruthLedger)
}

func (s *Store) Conflicts() []model.ConflictTicket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[model.ConflictTicket](s.kv, keyConflicts)
}

// AddNodes appends the given nodes, dropping any whose label already exists
// case-insensitively among persisted nodes. New nodes are not dedup'd
// against each other. Returns the full merged list.
func (s *Store) AddNodes(newNodes []model.KnowledgeNode) ([]model.KnowledgeNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := load[model.KnowledgeNode](s.kv, keyNodes)
	seen := make(map[string]bool, len(existing))
	for _, n := range existing {
		seen[strings.ToLower(n.Label)] = true
	}

	merged := existing
	for _, n := range newNodes {
		if seen[strings.ToLower(n.Label)] {
			continue
		}
		merged = append(merged, n)
	}

	if err := save(s.kv, keyNodes, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// AddEdges appends the given edges, dropping duplicates of the
// (source, target, relation) tuple. Direction matters: the reverse edge is
// a distinct tuple. Returns the full merged list.
func (s *Store) AddEdges(newEdges []model.KnowledgeEdge) ([]model.KnowledgeEdge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := load[model.KnowledgeEdge](s.kv, keyEdges)
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.DedupKey()] = true
	}

	merged := existing
	for _, e := range newEdges {
		if seen[e.DedupKey()] {
			continue
		}
		merged = append(merged, e)
	}

	if err := save(s.kv, keyEdges, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// AddTruthEntries appends ledger entries. The ledger is append-only, no dedup.
func (s *Store) AddTruthEntries(entries []model.TruthLedgerEntry) ([]model.TruthLedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := append(load[model.TruthLedgerEntry](s.kv, keyTruthLedger), entries...)
	if err := save(s.kv, keyTruthLedger, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// AddConflicts appends conflict tickets. Append-only, no dedup.
func (s *Store) AddConflicts(tickets []model.ConflictTicket) ([]model.ConflictTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := append(load[model.ConflictTicket](s.kv, keyConflicts), tickets...)
	if err := save(s.kv, keyConflicts, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// MarkNodesContested flips status to contested for every persisted node
// whose label matches one of the given labels, case-insensitively.
func (s *Store) MarkNodesContested(labels []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	labelSet := make(map[string]bool, len(labels))
	for _, l := range labels {
		labelSet[strings.ToLower(l)] = true
	}

	nodes := load[model.KnowledgeNode](s.kv, keyNodes)
	for i := range nodes {
		if labelSet[strings.ToLower(nodes[i].Label)] {
			nodes[i].Status = model.StatusContested
		}
	}
	return save(s.kv, keyNodes, nodes)
}

func (s *Store) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := s.kv.Get(keyAPIKey)
	if err != nil {
		return ""
	}
	return string(raw)
}

func (s *Store) SaveAPIKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Set(keyAPIKey, []byte(key))
}
