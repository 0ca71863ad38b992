package model

// RiskLevel grades how dangerous a hypothetical decision looks.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// SimNode is the graph-node shape handed to the simulation provider.
type SimNode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Group       string `json:"group,omitempty"`
	Description string `json:"description,omitempty"`
}

// SimEdge is the graph-edge shape handed to the simulation provider.
type SimEdge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Label    string  `json:"label"`
	Strength float64 `json:"strength,omitempty"`
}

// Stakeholder names a person who must be consulted before a hypothetical
// decision is made official.
type Stakeholder struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// DeconflictionMemo summarizes the ripple effects of a hypothetical decision.
type DeconflictionMemo struct {
	Stakeholders []Stakeholder `json:"stakeholders"`
	Summary      string        `json:"summary"`
	RiskLevel    RiskLevel     `json:"riskLevel"`
}

// SimulationResult is the provider's assessment of a hypothetical decision.
// The caller filters both id lists down to ids that exist in the supplied
// node set; the provider may hallucinate.
type SimulationResult struct {
	BrokenNodeIDs     []string          `json:"brokenNodeIds"`
	OrphanedNodeIDs   []string          `json:"orphanedNodeIds"`
	DeconflictionMemo DeconflictionMemo `json:"deconflictionMemo"`
}
