package models

import (
	"time"

	"github.com/google/uuid"
)

// Verdict is a fact checker's ruling on a claim. At most one verdict exists
// per claim; a claim reopened by moderator override may receive a replacement
// verdict (latest wins).
type Verdict struct {
	ID            uuid.UUID      `json:"id"`
	ClaimID       uuid.UUID      `json:"claim_id"`
	FactCheckerID uuid.UUID      `json:"fact_checker_id"`
	Outcome       VerdictOutcome `json:"outcome"`
	Reasoning     string         `json:"reasoning"`
	CreatedAt     time.Time      `json:"created_at"`
}

// VerdictStats aggregates a checker's verdicts within a timeframe.
type VerdictStats struct {
	Total     int                    `json:"total"`
	ByOutcome map[VerdictOutcome]int `json:"by_outcome"`
}
