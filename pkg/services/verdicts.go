package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/factlens-inc/factlens-engine/pkg/apperrors"
	"github.com/factlens-inc/factlens-engine/pkg/auth"
	"github.com/factlens-inc/factlens-engine/pkg/models"
	"github.com/factlens-inc/factlens-engine/pkg/repositories"
)

const defaultLeaderboardLimit = 10

// Timeframe bounds a stats or leaderboard query.
type Timeframe string

const (
	TimeframeDay   Timeframe = "24h"
	TimeframeWeek  Timeframe = "7d"
	TimeframeMonth Timeframe = "30d"
	TimeframeAll   Timeframe = "all"
)

// Since resolves the timeframe to its window start. The all-time window
// starts at the zero time.
func (t Timeframe) Since(now time.Time) (time.Time, error) {
	switch t {
	case TimeframeDay:
		return now.Add(-24 * time.Hour), nil
	case TimeframeWeek:
		return now.Add(-7 * 24 * time.Hour), nil
	case TimeframeMonth:
		return now.Add(-30 * 24 * time.Hour), nil
	case TimeframeAll, "":
		return time.Time{}, nil
	}
	return time.Time{}, apperrors.NewValidationError("timeframe", fmt.Sprintf("unknown timeframe %q", t))
}

// VerdictService defines the interface for verdict operations.
type VerdictService interface {
	Record(ctx context.Context, claimID uuid.UUID, outcome models.VerdictOutcome, reasoning string, actor auth.Actor) (*models.Verdict, *models.Claim, error)
	Stats(ctx context.Context, factCheckerID uuid.UUID, timeframe Timeframe) (*models.VerdictStats, error)
	Leaderboard(ctx context.Context, timeframe Timeframe, limit int) ([]*models.LeaderboardEntry, error)
}

// verdictService implements VerdictService.
type verdictService struct {
	verdictRepo repositories.VerdictRepository
	checkerRepo repositories.FactCheckerRepository
	logger      *zap.Logger
}

// NewVerdictService creates a new verdict service with dependencies.
func NewVerdictService(
	verdictRepo repositories.VerdictRepository,
	checkerRepo repositories.FactCheckerRepository,
	logger *zap.Logger,
) VerdictService {
	return &verdictService{
		verdictRepo: verdictRepo,
		checkerRepo: checkerRepo,
		logger:      logger,
	}
}

// Record rules on a claim. The actor must hold an approved fact checker
// profile and be the claim's assignee; the claim must be in human_review.
// Verdict insert, claim transition, verdict_at, and the activity entry
// commit as one unit in the repository.
func (s *verdictService) Record(ctx context.Context, claimID uuid.UUID, outcome models.VerdictOutcome, reasoning string, actor auth.Actor) (*models.Verdict, *models.Claim, error) {
	if !models.IsValidOutcome(outcome) {
		return nil, nil, apperrors.NewValidationError("outcome", fmt.Sprintf("unknown outcome %q", outcome))
	}
	if strings.TrimSpace(reasoning) == "" {
		return nil, nil, apperrors.NewValidationError("reasoning", "must not be empty")
	}

	checker, err := s.checkerRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.ErrForbidden
		}
		return nil, nil, err
	}
	if checker.VerificationStatus != models.VerificationApproved {
		return nil, nil, apperrors.ErrForbidden
	}

	verdict := &models.Verdict{
		ClaimID:       claimID,
		FactCheckerID: checker.ID,
		Outcome:       outcome,
		Reasoning:     strings.TrimSpace(reasoning),
	}
	claim, err := s.verdictRepo.Record(ctx, verdict)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Verdict recorded",
		zap.String("claim_id", claimID.String()),
		zap.String("fact_checker_id", checker.ID.String()),
		zap.String("outcome", string(outcome)))
	return verdict, claim, nil
}

// Stats aggregates a checker's verdicts by outcome within the timeframe.
func (s *verdictService) Stats(ctx context.Context, factCheckerID uuid.UUID, timeframe Timeframe) (*models.VerdictStats, error) {
	since, err := timeframe.Since(time.Now())
	if err != nil {
		return nil, err
	}
	if _, err := s.checkerRepo.Get(ctx, factCheckerID); err != nil {
		return nil, err
	}
	return s.verdictRepo.Stats(ctx, factCheckerID, since)
}

// Leaderboard ranks fact checkers within the timeframe. It is recomputed on
// every call rather than cached.
func (s *verdictService) Leaderboard(ctx context.Context, timeframe Timeframe, limit int) ([]*models.LeaderboardEntry, error) {
	since, err := timeframe.Since(time.Now())
	if err != nil {
		return nil, err
	}
	if limit < 1 || limit > maxPageLimit {
		limit = defaultLeaderboardLimit
	}
	return s.verdictRepo.Leaderboard(ctx, since, limit)
}

// Ensure verdictService implements VerdictService at compile time.
var _ VerdictService = (*verdictService)(nil)
