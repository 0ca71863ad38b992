package model

import "time"

// LedgerStatus marks a decision statement as standing or disputed.
type LedgerStatus string

const (
	LedgerConfirmed   LedgerStatus = "Confirmed"
	LedgerConflicting LedgerStatus = "Conflicting"
)

// TruthLedgerEntry records one decision statement. The ledger is append-only;
// entries are never mutated or deleted. Version is always 1; statement
// superseding was never built on top of it.
type TruthLedgerEntry struct {
	ID         string       `json:"id"`
	Statement  string       `json:"statement"`
	Version    int          `json:"version"`
	Status     LedgerStatus `json:"status"`
	SourceLink string       `json:"source_link"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// ConflictTicket pairs a new decision statement with a prior confirmed entry
// it appears to contradict. Purely informational; it never blocks writes.
// NodeID references the pre-existing ledger entry.
type ConflictTicket struct {
	ID                string    `json:"id"`
	ExistingStatement string    `json:"existingStatement"`
	NewStatement      string    `json:"newStatement"`
	NodeID            string    `json:"nodeId"`
	CreatedAt         time.Time `json:"createdAt"`
}
