// Package audit searches the truth ledger for contradictions. Keyword
// overlap stands in for semantic comparison and leans toward recall: a
// false conflict is a ticket someone closes, a missed one is a bad launch
// date nobody caught.
package audit

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kineticlabs/kinetic/internal/core/model"
)

// Result is everything one audit batch produced. Entries holds every new
// ledger entry regardless of status; ContestedNodeLabels carries the sources
// of conflicting decisions so the store can flag matching nodes.
type Result struct {
	Entries             []model.TruthLedgerEntry
	Conflicts           []model.ConflictTicket
	ContestedNodeLabels []string
}

var wordSplit = regexp.MustCompile(`\W+`)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "shall": true, "can": true, "to": true,
	"of": true, "in": true, "for": true, "on": true, "with": true,
	"at": true, "by": true, "from": true, "as": true, "into": true,
	"through": true, "during": true, "before": true, "after": true,
	"and": true, "but": true, "or": true, "nor": true, "not": true,
	"so": true, "yet": true, "both": true, "either": true, "neither": true,
	"each": true, "every": true, "all": true, "any": true, "few": true,
	"more": true, "most": true, "other": true, "some": true, "such": true,
	"no": true, "only": true, "own": true, "same": true, "than": true,
	"too": true, "very": true, "just": true, "that": true, "this": true,
	"it": true, "its": true, "we": true, "they": true, "them": true,
	"their": true, "our": true, "your": true, "my": true, "his": true,
	"her": true,
}

// Decisions compares each new decision against the confirmed ledger. Two
// statements are a topic match when they share at least two non-stopword
// keywords; an identical statement (case-insensitive) is a restatement, not
// a contradiction. Every topic match yields one ticket, and the decision is
// recorded as Conflicting; otherwise it is recorded as Confirmed. Total
// function: always returns a Result, even for empty input.
func Decisions(newDecisions []model.ExtractedDecision, ledger []model.TruthLedgerEntry) Result {
	res := Result{
		Entries:             []model.TruthLedgerEntry{},
		Conflicts:           []model.ConflictTicket{},
		ContestedNodeLabels: []string{},
	}

	now := time.Now().UTC()
	for _, decision := range newDecisions {
		statement := strings.ToLower(decision.Statement)

		var matched []model.TruthLedgerEntry
		for _, entry := range ledger {
			if entry.Status != model.LedgerConfirmed {
				continue
			}
			existing := strings.ToLower(entry.Statement)
			if existing == statement {
				continue
			}
			if len(sharedKeywords(existing, statement)) >= 2 {
				matched = append(matched, entry)
			}
		}

		status := model.LedgerConfirmed
		if len(matched) > 0 {
			status = model.LedgerConflicting
			for _, existing := range matched {
				res.Conflicts = append(res.Conflicts, model.ConflictTicket{
					ID:                "conflict-" + uuid.New().String(),
					ExistingStatement: existing.Statement,
					NewStatement:      decision.Statement,
					NodeID:            existing.ID,
					CreatedAt:         now,
				})
				res.ContestedNodeLabels = append(res.ContestedNodeLabels, decision.Source)
			}
		}

		res.Entries = append(res.Entries, model.TruthLedgerEntry{
			ID:         "truth-" + uuid.New().String(),
			Statement:  decision.Statement,
			Version:    1,
			Status:     status,
			SourceLink: decision.Source,
			CreatedAt:  now,
		})
	}

	return res
}

// sharedKeywords tokenizes both statements on non-word boundaries, drops
// tokens of length <= 2 and stop words, and intersects the remainder.
func sharedKeywords(a, b string) []string {
	inB := make(map[string]bool)
	for _, w := range wordSplit.Split(b, -1) {
		if len(w) > 2 && !stopWords[w] {
			inB[w] = true
		}
	}

	var shared []string
	seen := make(map[string]bool)
	for _, w := range wordSplit.Split(a, -1) {
		if len(w) > 2 && !stopWords[w] && inB[w] && !seen[w] {
			shared = append(shared, w)
			seen[w] = true
		}
	}
	return shared
}
