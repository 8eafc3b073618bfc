package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationStatus is the review state of a fact-checker application.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// FactChecker is a reviewer profile. A user account has at most one profile,
// and only approved, active checkers may receive assignments.
type FactChecker struct {
	ID                 uuid.UUID          `json:"id"`
	UserID             string             `json:"user_id"`
	ExpertiseAreas     []string           `json:"expertise_areas"`
	AdditionalInfo     *string            `json:"additional_info,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	IsActive           bool               `json:"is_active"`
	JoinedAt           time.Time          `json:"joined_at"`
}

// Eligible reports whether the checker may receive claim assignments.
func (f *FactChecker) Eligible() bool {
	return f.VerificationStatus == VerificationApproved && f.IsActive
}

// Workload summarizes a fact checker's current and recent load.
type Workload struct {
	PendingCount             int     `json:"pending_count"`
	CompletedLast7Days       int     `json:"completed_last_7_days"`
	AverageResolutionSeconds float64 `json:"average_resolution_seconds"`
}

// LeaderboardEntry ranks a fact checker by verdict output within a timeframe.
// Ties on verdict count break by ascending average resolution time.
type LeaderboardEntry struct {
	FactCheckerID            uuid.UUID `json:"fact_checker_id"`
	UserID                   string    `json:"user_id"`
	VerdictCount             int       `json:"verdict_count"`
	AverageResolutionSeconds float64   `json:"average_resolution_seconds"`
	Rank                     int       `json:"rank"`
}
