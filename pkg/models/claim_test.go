package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimStatus_IsTerminal(t *testing.T) {
	terminal := []ClaimStatus{StatusVerified, StatusFalse, StatusMisleading, StatusNeedsContext}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "expected %s to be terminal", s)
	}

	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusHumanReview.IsTerminal())
}

func TestClaimStatus_CanAssign(t *testing.T) {
	assert.True(t, StatusPending.CanAssign())
	// Reassignment of an in-review claim is permitted.
	assert.True(t, StatusHumanReview.CanAssign())

	for _, s := range []ClaimStatus{StatusVerified, StatusFalse, StatusMisleading, StatusNeedsContext} {
		assert.False(t, s.CanAssign(), "terminal status %s must not accept assignment", s)
	}
}

func TestClaimStatus_CanRecordVerdict(t *testing.T) {
	assert.True(t, StatusHumanReview.CanRecordVerdict())

	for _, s := range []ClaimStatus{StatusPending, StatusVerified, StatusFalse, StatusMisleading, StatusNeedsContext} {
		assert.False(t, s.CanRecordVerdict(), "status %s must not accept a verdict", s)
	}
}

func TestClaimStatus_CanOverrideTo(t *testing.T) {
	// The only override is terminal back to human_review.
	for _, s := range []ClaimStatus{StatusVerified, StatusFalse, StatusMisleading, StatusNeedsContext} {
		assert.True(t, s.CanOverrideTo(StatusHumanReview))
		assert.False(t, s.CanOverrideTo(StatusPending))
		assert.False(t, s.CanOverrideTo(StatusFalse))
	}

	assert.False(t, StatusPending.CanOverrideTo(StatusHumanReview))
	assert.False(t, StatusHumanReview.CanOverrideTo(StatusHumanReview))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []ClaimStatus{StatusPending, StatusHumanReview, StatusVerified, StatusFalse, StatusMisleading, StatusNeedsContext} {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus("deleted"))
	assert.False(t, IsValidStatus(""))
}

func TestIsValidCategory(t *testing.T) {
	assert.True(t, IsValidCategory(CategoryPolitics))
	assert.True(t, IsValidCategory(CategoryHealth))
	assert.False(t, IsValidCategory("Politics"))
	assert.False(t, IsValidCategory(""))
}

func TestVerdictOutcome_Status(t *testing.T) {
	cases := map[VerdictOutcome]ClaimStatus{
		OutcomeVerified:     StatusVerified,
		OutcomeFalse:        StatusFalse,
		OutcomeMisleading:   StatusMisleading,
		OutcomeNeedsContext: StatusNeedsContext,
	}
	for outcome, status := range cases {
		assert.Equal(t, status, outcome.Status())
		assert.True(t, outcome.Status().IsTerminal())
	}

	assert.False(t, IsValidOutcome("pending"))
	assert.True(t, IsValidOutcome(OutcomeFalse))
}

func TestFactChecker_Eligible(t *testing.T) {
	checker := &FactChecker{VerificationStatus: VerificationApproved, IsActive: true}
	assert.True(t, checker.Eligible())

	checker.IsActive = false
	assert.False(t, checker.Eligible())

	checker.IsActive = true
	checker.VerificationStatus = VerificationPending
	assert.False(t, checker.Eligible())

	checker.VerificationStatus = VerificationRejected
	assert.False(t, checker.Eligible())
}
