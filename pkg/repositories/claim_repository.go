// Package repositories implements PostgreSQL data access for factlens-engine.
// All claim status mutation goes through the guarded write paths here; a
// guard failure (zero rows affected) means a concurrent writer won and maps
// to apperrors.ErrIllegalTransition.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/factlens-inc/factlens-engine/pkg/apperrors"
	"github.com/factlens-inc/factlens-engine/pkg/database"
	"github.com/factlens-inc/factlens-engine/pkg/models"
)

// ClaimRepository defines the interface for claim data access.
type ClaimRepository interface {
	Create(ctx context.Context, claim *models.Claim) error
	Get(ctx context.Context, id uuid.UUID) (*models.Claim, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Claim, error)
	List(ctx context.Context, filter models.ClaimFilter) ([]*models.Claim, int64, error)
	Update(ctx context.Context, claim *models.Claim) error
	Assign(ctx context.Context, claimID, factCheckerID uuid.UUID, expected models.ClaimStatus, action models.ActivityAction) (*models.Claim, error)
	OverrideToReview(ctx context.Context, claimID uuid.UUID, expected models.ClaimStatus, actorNote string) (*models.Claim, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	CountAssigned(ctx context.Context, factCheckerID uuid.UUID, status models.ClaimStatus) (int, error)
}

// claimRepository implements ClaimRepository using PostgreSQL.
type claimRepository struct {
	db *database.DB
}

// NewClaimRepository creates a new claim repository.
func NewClaimRepository(db *database.DB) ClaimRepository {
	return &claimRepository{db: db}
}

const claimColumns = `id, title, description, category, submitter_id,
	COALESCE(video_url, ''), COALESCE(source_url, ''), status,
	assigned_fact_checker_id, submitted_at, assigned_at, verdict_at, deleted_at`

func scanClaim(row pgx.Row) (*models.Claim, error) {
	var claim models.Claim
	err := row.Scan(
		&claim.ID,
		&claim.Title,
		&claim.Description,
		&claim.Category,
		&claim.SubmitterID,
		&claim.VideoURL,
		&claim.SourceURL,
		&claim.Status,
		&claim.AssignedFactCheckerID,
		&claim.SubmittedAt,
		&claim.AssignedAt,
		&claim.VerdictAt,
		&claim.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan claim: %w", err)
	}
	return &claim, nil
}

// Create inserts a new claim in pending status.
func (r *claimRepository) Create(ctx context.Context, claim *models.Claim) error {
	if claim.ID == uuid.Nil {
		claim.ID = uuid.New()
	}
	if claim.SubmittedAt.IsZero() {
		claim.SubmittedAt = time.Now()
	}
	claim.Status = models.StatusPending

	query := `
		INSERT INTO claims (id, title, description, category, submitter_id, video_url, source_url, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9)`

	_, err := r.db.Exec(ctx, query,
		claim.ID,
		claim.Title,
		claim.Description,
		claim.Category,
		claim.SubmitterID,
		claim.VideoURL,
		claim.SourceURL,
		claim.Status,
		claim.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create claim: %w", err)
	}
	return nil
}

// Get retrieves a claim by ID. Soft-deleted claims are not found.
func (r *claimRepository) Get(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1 AND deleted_at IS NULL`
	return scanClaim(r.db.QueryRow(ctx, query, id))
}

// GetByIDs retrieves the non-deleted claims among ids, in no particular order.
func (r *claimRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Claim, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = ANY($1) AND deleted_at IS NULL`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query claims by ids: %w", err)
	}
	defer rows.Close()

	return collectClaims(rows)
}

func collectClaims(rows pgx.Rows) ([]*models.Claim, error) {
	var claims []*models.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read claim rows: %w", err)
	}
	return claims, nil
}

// List returns a filtered page of claims ordered by submitted_at descending,
// together with the total count matching the filter.
func (r *claimRepository) List(ctx context.Context, filter models.ClaimFilter) ([]*models.Claim, int64, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.FactCheckerID != uuid.Nil {
		args = append(args, filter.FactCheckerID)
		conditions = append(conditions, fmt.Sprintf("assigned_fact_checker_id = $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM claims WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count claims: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM claims WHERE %s ORDER BY submitted_at DESC LIMIT $%d OFFSET $%d`,
		claimColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	claims, err := collectClaims(rows)
	if err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}

// Update writes the editable fields of a claim.
func (r *claimRepository) Update(ctx context.Context, claim *models.Claim) error {
	query := `
		UPDATE claims
		SET title = $2, description = $3, video_url = NULLIF($4, ''), source_url = NULLIF($5, '')
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, claim.ID, claim.Title, claim.Description, claim.VideoURL, claim.SourceURL)
	if err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Assign binds a fact checker to a claim and moves it to human_review,
// guarded on the expected current status. The assignment and its activity
// entry commit together; a lost race returns ErrIllegalTransition.
func (r *claimRepository) Assign(ctx context.Context, claimID, factCheckerID uuid.UUID, expected models.ClaimStatus, action models.ActivityAction) (*models.Claim, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE claims
		SET status = $3, assigned_fact_checker_id = $4, assigned_at = $5
		WHERE id = $1 AND status = $2 AND deleted_at IS NULL
		RETURNING ` + claimColumns

	claim, err := scanClaim(tx.QueryRow(ctx, query, claimID, expected, models.StatusHumanReview, factCheckerID, time.Now()))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Either the claim is gone or its status changed underneath us.
			return nil, r.disambiguateGuardFailure(ctx, claimID)
		}
		return nil, err
	}

	if err := insertActivity(ctx, tx, &models.Activity{
		FactCheckerID: factCheckerID,
		ClaimID:       &claimID,
		Action:        action,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit assignment: %w", err)
	}
	return claim, nil
}

// OverrideToReview reopens a terminal claim for review, guarded on the
// expected terminal status. The verdict timestamp is cleared so the claim
// again satisfies "verdict_at set iff terminal".
func (r *claimRepository) OverrideToReview(ctx context.Context, claimID uuid.UUID, expected models.ClaimStatus, actorNote string) (*models.Claim, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE claims
		SET status = $3, verdict_at = NULL
		WHERE id = $1 AND status = $2 AND deleted_at IS NULL
		RETURNING ` + claimColumns

	claim, err := scanClaim(tx.QueryRow(ctx, query, claimID, expected, models.StatusHumanReview))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, r.disambiguateGuardFailure(ctx, claimID)
		}
		return nil, err
	}

	if claim.AssignedFactCheckerID != nil {
		if err := insertActivity(ctx, tx, &models.Activity{
			FactCheckerID: *claim.AssignedFactCheckerID,
			ClaimID:       &claimID,
			Action:        models.ActivityStatusOverridden,
			Note:          actorNote,
		}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit override: %w", err)
	}
	return claim, nil
}

// SoftDelete marks a claim deleted. The record is retained for audit, and a
// claim pulled out from under an assigned checker leaves an activity entry.
func (r *claimRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE claims SET deleted_at = $2
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING assigned_fact_checker_id`

	var assignee *uuid.UUID
	if err := tx.QueryRow(ctx, query, id, time.Now()).Scan(&assignee); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to soft-delete claim: %w", err)
	}

	if assignee != nil {
		if err := insertActivity(ctx, tx, &models.Activity{
			FactCheckerID: *assignee,
			ClaimID:       &id,
			Action:        models.ActivityClaimDeleted,
		}); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// CountAssigned counts non-deleted claims in the given status assigned to the
// fact checker.
func (r *claimRepository) CountAssigned(ctx context.Context, factCheckerID uuid.UUID, status models.ClaimStatus) (int, error) {
	query := `
		SELECT COUNT(*) FROM claims
		WHERE assigned_fact_checker_id = $1 AND status = $2 AND deleted_at IS NULL`

	var count int
	if err := r.db.QueryRow(ctx, query, factCheckerID, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assigned claims: %w", err)
	}
	return count, nil
}

// disambiguateGuardFailure distinguishes a missing claim from a status-guard
// conflict after a guarded UPDATE matched zero rows.
func (r *claimRepository) disambiguateGuardFailure(ctx context.Context, claimID uuid.UUID) error {
	if _, err := r.Get(ctx, claimID); err != nil {
		return err
	}
	return apperrors.ErrIllegalTransition
}

// insertActivity appends a fact checker activity entry using the given
// querier so it can join an enclosing transaction.
func insertActivity(ctx context.Context, q database.Querier, activity *models.Activity) error {
	query := `
		INSERT INTO fact_checker_activity (fact_checker_id, claim_id, action, note, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	_, err := q.Exec(ctx, query,
		activity.FactCheckerID,
		activity.ClaimID,
		activity.Action,
		activity.Note,
		activity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// Ensure claimRepository implements ClaimRepository at compile time.
var _ ClaimRepository = (*claimRepository)(nil)
