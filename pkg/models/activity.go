package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityAction identifies the event recorded by an activity entry.
type ActivityAction string

const (
	ActivityAssigned            ActivityAction = "assigned"
	ActivityReassigned          ActivityAction = "reassigned"
	ActivityVerdictRecorded     ActivityAction = "verdict_recorded"
	ActivityStatusOverridden    ActivityAction = "status_overridden"
	ActivityApplicationApproved ActivityAction = "application_approved"
	ActivityApplicationRejected ActivityAction = "application_rejected"
	ActivityClaimDeleted        ActivityAction = "claim_deleted"
)

// Activity is an append-only log entry tying a fact checker action to a
// claim. Entries are never mutated after creation; workload and performance
// aggregates are derived views over them. ClaimID is nil for profile-level
// events (application approval and rejection).
type Activity struct {
	ID            int64          `json:"id"`
	FactCheckerID uuid.UUID      `json:"fact_checker_id"`
	ClaimID       *uuid.UUID     `json:"claim_id,omitempty"`
	Action        ActivityAction `json:"action"`
	Note          string         `json:"note,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
