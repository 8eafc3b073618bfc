// Package models contains domain types for factlens-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ClaimStatus is the lifecycle state of a claim.
type ClaimStatus string

const (
	StatusPending      ClaimStatus = "pending"
	StatusHumanReview  ClaimStatus = "human_review"
	StatusVerified     ClaimStatus = "verified"
	StatusFalse        ClaimStatus = "false"
	StatusMisleading   ClaimStatus = "misleading"
	StatusNeedsContext ClaimStatus = "needs_context"
)

// Claim categories. Submissions outside this set are rejected.
const (
	CategoryPolitics      = "politics"
	CategoryHealth        = "health"
	CategoryScience       = "science"
	CategoryTechnology    = "technology"
	CategoryBusiness      = "business"
	CategoryEntertainment = "entertainment"
	CategorySports        = "sports"
	CategorySociety       = "society"
)

var validCategories = map[string]bool{
	CategoryPolitics:      true,
	CategoryHealth:        true,
	CategoryScience:       true,
	CategoryTechnology:    true,
	CategoryBusiness:      true,
	CategoryEntertainment: true,
	CategorySports:        true,
	CategorySociety:       true,
}

// IsValidCategory reports whether category is in the allowed set.
func IsValidCategory(category string) bool {
	return validCategories[category]
}

// Claim represents a factual assertion submitted for verification.
type Claim struct {
	ID                    uuid.UUID   `json:"id"`
	Title                 string      `json:"title"`
	Description           string      `json:"description"`
	Category              string      `json:"category"`
	SubmitterID           string      `json:"submitter_id"`
	VideoURL              string      `json:"video_url,omitempty"`
	SourceURL             string      `json:"source_url,omitempty"`
	Status                ClaimStatus `json:"status"`
	AssignedFactCheckerID *uuid.UUID  `json:"assigned_fact_checker_id,omitempty"`
	IsTrending            bool        `json:"is_trending"`
	SubmittedAt           time.Time   `json:"submitted_at"`
	AssignedAt            *time.Time  `json:"assigned_at,omitempty"`
	VerdictAt             *time.Time  `json:"verdict_at,omitempty"`
	DeletedAt             *time.Time  `json:"-"`
}

// IsValidStatus reports whether s is a known claim status.
func IsValidStatus(s ClaimStatus) bool {
	switch s {
	case StatusPending, StatusHumanReview, StatusVerified, StatusFalse,
		StatusMisleading, StatusNeedsContext:
		return true
	}
	return false
}

// IsTerminal reports whether s is a verdict-bearing status. No transition
// leaves a terminal status except an explicit moderator override.
func (s ClaimStatus) IsTerminal() bool {
	switch s {
	case StatusVerified, StatusFalse, StatusMisleading, StatusNeedsContext:
		return true
	}
	return false
}

// CanAssign reports whether a claim in status s may be assigned to a fact
// checker. Assignment from human_review is a reassignment and is permitted.
func (s ClaimStatus) CanAssign() bool {
	return s == StatusPending || s == StatusHumanReview
}

// CanRecordVerdict reports whether a verdict may be recorded against a claim
// in status s. Recording a verdict is the only path out of human_review.
func (s ClaimStatus) CanRecordVerdict() bool {
	return s == StatusHumanReview
}

// CanOverrideTo reports whether a moderator override from s to target is
// legal. The only override is terminal back to human_review, which reopens
// the claim for a fresh verdict.
func (s ClaimStatus) CanOverrideTo(target ClaimStatus) bool {
	return s.IsTerminal() && target == StatusHumanReview
}

// VerdictOutcome is the outcome of a fact check and doubles as the terminal
// claim status it produces.
type VerdictOutcome string

const (
	OutcomeVerified     VerdictOutcome = "verified"
	OutcomeFalse        VerdictOutcome = "false"
	OutcomeMisleading   VerdictOutcome = "misleading"
	OutcomeNeedsContext VerdictOutcome = "needs_context"
)

// IsValidOutcome reports whether o is a known verdict outcome.
func IsValidOutcome(o VerdictOutcome) bool {
	switch o {
	case OutcomeVerified, OutcomeFalse, OutcomeMisleading, OutcomeNeedsContext:
		return true
	}
	return false
}

// Status returns the terminal claim status produced by outcome o.
func (o VerdictOutcome) Status() ClaimStatus {
	return ClaimStatus(o)
}

// NewClaimInput carries validated submission fields for a new claim.
type NewClaimInput struct {
	Title       string
	Description string
	Category    string
	SubmitterID string
	VideoURL    string
	SourceURL   string
}

// UpdateClaimInput carries editable claim fields. Empty fields are left
// unchanged.
type UpdateClaimInput struct {
	Title       string
	Description string
	VideoURL    string
	SourceURL   string
}

// ClaimFilter narrows a claim listing. Zero values mean "no filter".
type ClaimFilter struct {
	Status        ClaimStatus
	Category      string
	FactCheckerID uuid.UUID
	Page          int
	Limit         int
}

// Pagination describes the page of results returned by a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}
