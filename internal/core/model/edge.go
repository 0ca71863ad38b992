package model

// RelationTypes is the vocabulary the extractor is prompted to use.
// It is a suggestion, not an enforced enum: edges carry whatever relation
// string the extractor returned.
var RelationTypes = []string{
	"depends_on", "manages", "decided", "sponsors", "reports_to",
	"leads", "builds", "reviews", "blocks", "enables", "impacts",
}

// KnowledgeEdge is a directed, labeled relationship between two nodes.
// Uniqueness is on the (SourceID, TargetID, RelationType) tuple, so the
// same relation in the opposite direction is a distinct edge.
// Edges are never updated, only added.
type KnowledgeEdge struct {
	ID           string `json:"id"`
	SourceID     string `json:"source_id"`
	TargetID     string `json:"target_id"`
	RelationType string `json:"relation_type"`
}

// DedupKey returns the tuple the store dedups edges on.
func (e KnowledgeEdge) DedupKey() string {
	return e.SourceID + "|" + e.TargetID + "|" + e.RelationType
}
