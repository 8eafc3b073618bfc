// Package services implements the domain logic of factlens-engine on top of
// the repositories. Services own input validation and authorization
// decisions; repositories own the guarded write paths.
package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/factlens-inc/factlens-engine/pkg/apperrors"
	"github.com/factlens-inc/factlens-engine/pkg/auth"
	"github.com/factlens-inc/factlens-engine/pkg/models"
	"github.com/factlens-inc/factlens-engine/pkg/repositories"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ClaimService defines the interface for claim lifecycle operations.
type ClaimService interface {
	Submit(ctx context.Context, input models.NewClaimInput) (*models.Claim, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Claim, error)
	List(ctx context.Context, filter models.ClaimFilter) ([]*models.Claim, *models.Pagination, error)
	Update(ctx context.Context, id uuid.UUID, input models.UpdateClaimInput, actor auth.Actor) (*models.Claim, error)
	OverrideStatus(ctx context.Context, id uuid.UUID, newStatus models.ClaimStatus, note string, actor auth.Actor) (*models.Claim, error)
	Delete(ctx context.Context, id uuid.UUID, actor auth.Actor) error
	Trending(ctx context.Context, limit int) ([]*models.Claim, error)
}

// claimService implements ClaimService.
type claimService struct {
	claimRepo repositories.ClaimRepository
	trending  *TrendingTracker
	logger    *zap.Logger
}

// NewClaimService creates a new claim service with dependencies. The
// trending tracker may be nil, which disables view tracking.
func NewClaimService(claimRepo repositories.ClaimRepository, trending *TrendingTracker, logger *zap.Logger) ClaimService {
	return &claimService{
		claimRepo: claimRepo,
		trending:  trending,
		logger:    logger,
	}
}

// Submit validates and stores a new claim in pending status.
func (s *claimService) Submit(ctx context.Context, input models.NewClaimInput) (*models.Claim, error) {
	if err := validateNewClaim(&input); err != nil {
		return nil, err
	}

	claim := &models.Claim{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		SubmitterID: input.SubmitterID,
		VideoURL:    input.VideoURL,
		SourceURL:   input.SourceURL,
	}
	if err := s.claimRepo.Create(ctx, claim); err != nil {
		return nil, err
	}

	s.logger.Info("Claim submitted",
		zap.String("claim_id", claim.ID.String()),
		zap.String("category", claim.Category),
		zap.String("submitter_id", claim.SubmitterID))
	return claim, nil
}

func validateNewClaim(input *models.NewClaimInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return apperrors.NewValidationError("title", "must not be empty")
	}
	if strings.TrimSpace(input.Description) == "" {
		return apperrors.NewValidationError("description", "must not be empty")
	}
	if !models.IsValidCategory(input.Category) {
		return apperrors.NewValidationError("category", fmt.Sprintf("unknown category %q", input.Category))
	}
	if input.SubmitterID == "" {
		return apperrors.NewValidationError("submitter_id", "must not be empty")
	}
	if err := validateOptionalURL("video_url", input.VideoURL); err != nil {
		return err
	}
	return validateOptionalURL("source_url", input.SourceURL)
}

func validateOptionalURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.NewValidationError(field, "must be an http(s) URL")
	}
	return nil
}

// Get retrieves a claim and records the view for trending when enabled.
func (s *claimService) Get(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	claim, err := s.claimRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.trending != nil {
		s.trending.RecordView(ctx, claim.ID)
		claim.IsTrending = s.trending.IsTrending(ctx, claim.ID)
	}
	return claim, nil
}

// List returns a filtered, paginated view of claims, newest first.
func (s *claimService) List(ctx context.Context, filter models.ClaimFilter) ([]*models.Claim, *models.Pagination, error) {
	if filter.Status != "" && !models.IsValidStatus(filter.Status) {
		return nil, nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", filter.Status))
	}
	if filter.Category != "" && !models.IsValidCategory(filter.Category) {
		return nil, nil, apperrors.NewValidationError("category", fmt.Sprintf("unknown category %q", filter.Category))
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	claims, total, err := s.claimRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	if s.trending != nil {
		for _, claim := range claims {
			claim.IsTrending = s.trending.IsTrending(ctx, claim.ID)
		}
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	pagination := &models.Pagination{
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
	return claims, pagination, nil
}

// Update edits a pending claim. Only the submitter or a moderator may edit,
// and only while the claim has not entered review.
func (s *claimService) Update(ctx context.Context, id uuid.UUID, input models.UpdateClaimInput, actor auth.Actor) (*models.Claim, error) {
	claim, err := s.claimRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if claim.SubmitterID != actor.UserID && !actor.IsModerator() {
		return nil, apperrors.ErrForbidden
	}
	if claim.Status != models.StatusPending {
		return nil, apperrors.ErrIllegalTransition
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		claim.Title = title
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		claim.Description = desc
	}
	if input.VideoURL != "" {
		if err := validateOptionalURL("video_url", input.VideoURL); err != nil {
			return nil, err
		}
		claim.VideoURL = input.VideoURL
	}
	if input.SourceURL != "" {
		if err := validateOptionalURL("source_url", input.SourceURL); err != nil {
			return nil, err
		}
		claim.SourceURL = input.SourceURL
	}

	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

// OverrideStatus is the moderator escape hatch out of a terminal status.
// The only legal override is terminal back to human_review; assignment and
// verdict recording own every other transition.
func (s *claimService) OverrideStatus(ctx context.Context, id uuid.UUID, newStatus models.ClaimStatus, note string, actor auth.Actor) (*models.Claim, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", newStatus))
	}
	if !actor.IsModerator() {
		return nil, apperrors.ErrForbidden
	}

	claim, err := s.claimRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !claim.Status.CanOverrideTo(newStatus) {
		return nil, apperrors.ErrIllegalTransition
	}

	updated, err := s.claimRepo.OverrideToReview(ctx, id, claim.Status, note)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Claim status overridden",
		zap.String("claim_id", id.String()),
		zap.String("from", string(claim.Status)),
		zap.String("to", string(newStatus)),
		zap.String("actor_id", actor.UserID))
	return updated, nil
}

// Delete soft-deletes a claim. Moderators only; the record is retained for
// audit.
func (s *claimService) Delete(ctx context.Context, id uuid.UUID, actor auth.Actor) error {
	if !actor.IsModerator() {
		return apperrors.ErrForbidden
	}

	if err := s.claimRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Claim deleted",
		zap.String("claim_id", id.String()),
		zap.String("actor_id", actor.UserID))
	return nil
}

// Trending returns the most-viewed recent claims. Empty when trending is
// disabled.
func (s *claimService) Trending(ctx context.Context, limit int) ([]*models.Claim, error) {
	if s.trending == nil {
		return nil, nil
	}
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	ids, err := s.trending.TopClaims(ctx, limit)
	if err != nil {
		return nil, err
	}
	claims, err := s.claimRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Preserve the view-count ordering from the tracker.
	byID := make(map[uuid.UUID]*models.Claim, len(claims))
	for _, claim := range claims {
		claim.IsTrending = true
		byID[claim.ID] = claim
	}
	ordered := make([]*models.Claim, 0, len(claims))
	for _, id := range ids {
		if claim, ok := byID[id]; ok {
			ordered = append(ordered, claim)
		}
	}
	return ordered, nil
}

// Ensure claimService implements ClaimService at compile time.
var _ ClaimService = (*claimService)(nil)
