package model

import "fmt"

// ExtractedNode is an entity as returned by the extraction provider,
// before it has been assigned an id.
type ExtractedNode struct {
	Label    string                 `json:"label"`
	Type     NodeType               `json:"type"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ExtractedEdge references nodes by display label; the merge pipeline
// resolves labels to ids and silently drops edges that fail to resolve.
type ExtractedEdge struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	RelationType string `json:"relation_type"`
}

// ExtractedDecision is a decision statement plus who asserted it.
type ExtractedDecision struct {
	Statement string `json:"statement"`
	Source    string `json:"source"`
}

// ExtractionResult is the full structured output of one extraction call.
type ExtractionResult struct {
	Nodes     []ExtractedNode     `json:"nodes"`
	Edges     []ExtractedEdge     `json:"edges"`
	Decisions []ExtractedDecision `json:"decisions"`
}

// Validate checks the top-level shape before the merge pipeline touches the
// store. Nil node/edge lists mean the provider returned the wrong shape;
// an empty decisions list is fine.
func (r *ExtractionResult) Validate() error {
	if r.Nodes == nil || r.Edges == nil {
		return fmt.Errorf("invalid extraction format: missing nodes or edges")
	}
	return nil
}
