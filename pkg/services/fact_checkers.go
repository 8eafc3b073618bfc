package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/factlens-inc/factlens-engine/pkg/apperrors"
	"github.com/factlens-inc/factlens-engine/pkg/auth"
	"github.com/factlens-inc/factlens-engine/pkg/models"
	"github.com/factlens-inc/factlens-engine/pkg/repositories"
)

const workloadWindow = 7 * 24 * time.Hour

// FactCheckerService defines the interface for fact checker operations.
type FactCheckerService interface {
	Apply(ctx context.Context, userID string, expertiseAreas []string, additionalInfo string) (*models.FactChecker, error)
	Approve(ctx context.Context, factCheckerID uuid.UUID, actor auth.Actor) error
	Reject(ctx context.Context, factCheckerID uuid.UUID, actor auth.Actor) error
	Assign(ctx context.Context, claimID, factCheckerID uuid.UUID, actor auth.Actor) (*models.Claim, error)
	SetActive(ctx context.Context, factCheckerID uuid.UUID, active bool, actor auth.Actor) error
	Workload(ctx context.Context, factCheckerID uuid.UUID) (*models.Workload, error)
	GetByUserID(ctx context.Context, userID string) (*models.FactChecker, error)
}

// factCheckerService implements FactCheckerService.
type factCheckerService struct {
	checkerRepo  repositories.FactCheckerRepository
	claimRepo    repositories.ClaimRepository
	verdictRepo  repositories.VerdictRepository
	activityRepo repositories.ActivityRepository
	logger       *zap.Logger
}

// NewFactCheckerService creates a new fact checker service with dependencies.
func NewFactCheckerService(
	checkerRepo repositories.FactCheckerRepository,
	claimRepo repositories.ClaimRepository,
	verdictRepo repositories.VerdictRepository,
	activityRepo repositories.ActivityRepository,
	logger *zap.Logger,
) FactCheckerService {
	return &factCheckerService{
		checkerRepo:  checkerRepo,
		claimRepo:    claimRepo,
		verdictRepo:  verdictRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// Apply creates a fact checker profile in pending verification status.
// Returns ErrConflict if the user already has a profile.
func (s *factCheckerService) Apply(ctx context.Context, userID string, expertiseAreas []string, additionalInfo string) (*models.FactChecker, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user_id", "must not be empty")
	}
	if len(expertiseAreas) == 0 {
		return nil, apperrors.NewValidationError("expertise_areas", "must not be empty")
	}
	for _, area := range expertiseAreas {
		if !models.IsValidCategory(area) {
			return nil, apperrors.NewValidationError("expertise_areas", fmt.Sprintf("unknown category %q", area))
		}
	}

	checker := &models.FactChecker{
		UserID:         userID,
		ExpertiseAreas: expertiseAreas,
		IsActive:       true,
	}
	if additionalInfo != "" {
		checker.AdditionalInfo = &additionalInfo
	}
	if err := s.checkerRepo.Create(ctx, checker); err != nil {
		return nil, err
	}

	s.logger.Info("Fact checker application received",
		zap.String("fact_checker_id", checker.ID.String()),
		zap.String("user_id", userID))
	return checker, nil
}

// Approve marks an application approved. Moderators only.
func (s *factCheckerService) Approve(ctx context.Context, factCheckerID uuid.UUID, actor auth.Actor) error {
	return s.review(ctx, factCheckerID, models.VerificationApproved, models.ActivityApplicationApproved, actor)
}

// Reject marks an application rejected. Moderators only.
func (s *factCheckerService) Reject(ctx context.Context, factCheckerID uuid.UUID, actor auth.Actor) error {
	return s.review(ctx, factCheckerID, models.VerificationRejected, models.ActivityApplicationRejected, actor)
}

func (s *factCheckerService) review(ctx context.Context, factCheckerID uuid.UUID, status models.VerificationStatus, action models.ActivityAction, actor auth.Actor) error {
	if !actor.IsModerator() {
		return apperrors.ErrForbidden
	}

	if err := s.checkerRepo.UpdateVerificationStatus(ctx, factCheckerID, status); err != nil {
		return err
	}

	if err := s.activityRepo.Append(ctx, &models.Activity{
		FactCheckerID: factCheckerID,
		Action:        action,
		Note:          "by " + actor.UserID,
	}); err != nil {
		// The status change stands; the audit gap is only logged.
		s.logger.Error("Failed to log application review", zap.Error(err))
	}

	s.logger.Info("Fact checker application reviewed",
		zap.String("fact_checker_id", factCheckerID.String()),
		zap.String("status", string(status)),
		zap.String("actor_id", actor.UserID))
	return nil
}

// Assign binds an eligible fact checker to a claim. Assigning a claim
// already in human_review to a different checker is a reassignment and is
// logged as such.
func (s *factCheckerService) Assign(ctx context.Context, claimID, factCheckerID uuid.UUID, actor auth.Actor) (*models.Claim, error) {
	checker, err := s.checkerRepo.Get(ctx, factCheckerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrIneligible
		}
		return nil, err
	}
	if !checker.Eligible() {
		return nil, apperrors.ErrIneligible
	}

	claim, err := s.claimRepo.Get(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if !claim.Status.CanAssign() {
		return nil, apperrors.ErrIllegalTransition
	}

	action := models.ActivityAssigned
	if claim.Status == models.StatusHumanReview {
		action = models.ActivityReassigned
	}

	updated, err := s.claimRepo.Assign(ctx, claimID, factCheckerID, claim.Status, action)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Claim assigned",
		zap.String("claim_id", claimID.String()),
		zap.String("fact_checker_id", factCheckerID.String()),
		zap.String("action", string(action)),
		zap.String("actor_id", actor.UserID))
	return updated, nil
}

// SetActive toggles a checker's availability. Only the checker themself or a
// moderator may change it. An inactive checker keeps their assignments but
// receives no new ones.
func (s *factCheckerService) SetActive(ctx context.Context, factCheckerID uuid.UUID, active bool, actor auth.Actor) error {
	checker, err := s.checkerRepo.Get(ctx, factCheckerID)
	if err != nil {
		return err
	}
	if checker.UserID != actor.UserID && !actor.IsModerator() {
		return apperrors.ErrForbidden
	}

	if err := s.checkerRepo.SetActive(ctx, factCheckerID, active); err != nil {
		return err
	}

	s.logger.Info("Fact checker availability changed",
		zap.String("fact_checker_id", factCheckerID.String()),
		zap.Bool("active", active),
		zap.String("actor_id", actor.UserID))
	return nil
}

// Workload reports a checker's open assignments and recent throughput.
// pending_count is computed from the same claims table a list query reads,
// so the aggregate cannot drift from its source.
func (s *factCheckerService) Workload(ctx context.Context, factCheckerID uuid.UUID) (*models.Workload, error) {
	if _, err := s.checkerRepo.Get(ctx, factCheckerID); err != nil {
		return nil, err
	}

	pending, err := s.claimRepo.CountAssigned(ctx, factCheckerID, models.StatusHumanReview)
	if err != nil {
		return nil, err
	}

	completed, avgSeconds, err := s.verdictRepo.ResolutionStats(ctx, factCheckerID, time.Now().Add(-workloadWindow))
	if err != nil {
		return nil, err
	}

	return &models.Workload{
		PendingCount:             pending,
		CompletedLast7Days:       completed,
		AverageResolutionSeconds: avgSeconds,
	}, nil
}

// GetByUserID retrieves the profile for a user account.
func (s *factCheckerService) GetByUserID(ctx context.Context, userID string) (*models.FactChecker, error) {
	return s.checkerRepo.GetByUserID(ctx, userID)
}

// Ensure factCheckerService implements FactCheckerService at compile time.
var _ FactCheckerService = (*factCheckerService)(nil)
