package model

import "time"

// NodeType classifies what a graph node represents.
type NodeType string

const (
	NodePerson   NodeType = "Person"
	NodeProject  NodeType = "Project"
	NodeDecision NodeType = "Decision"
)

// NodeStatus tracks whether the facts around a node are currently trusted.
type NodeStatus string

const (
	StatusConfirmed NodeStatus = "confirmed"
	StatusContested NodeStatus = "contested"
)

// KnowledgeNode is an entity in the organizational graph.
// Label is the dedup key: unique case-insensitively within a store.
// Nodes are never deleted; the auditor may flip Status to contested.
type KnowledgeNode struct {
	ID        string                 `json:"id"`
	Label     string                 `json:"label"`
	Type      NodeType               `json:"type"`
	Metadata  map[string]interface{} `json:"metadata"`
	Status    NodeStatus             `json:"status,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}
