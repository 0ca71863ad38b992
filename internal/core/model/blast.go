package model

// BlastRadiusResult is the transient outcome of a blast-radius traversal.
// It is surfaced to the caller and never persisted.
type BlastRadiusResult struct {
	AffectedNodes []KnowledgeNode `json:"affectedNodes"`
	Summary       string          `json:"summary"`
}
