package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/factlens-inc/factlens-engine/pkg/apperrors"
	"github.com/factlens-inc/factlens-engine/pkg/database"
	"github.com/factlens-inc/factlens-engine/pkg/models"
)

// VerdictRepository defines the interface for verdict data access and the
// derived performance aggregates over the ledger.
type VerdictRepository interface {
	// Record atomically stores the verdict, transitions the claim from
	// human_review to the verdict's outcome, sets verdict_at, and appends
	// the activity entry. Partial application is never observable: a failed
	// status guard rolls the whole unit back with ErrIllegalTransition.
	Record(ctx context.Context, verdict *models.Verdict) (*models.Claim, error)
	GetByClaim(ctx context.Context, claimID uuid.UUID) (*models.Verdict, error)
	Stats(ctx context.Context, factCheckerID uuid.UUID, since time.Time) (*models.VerdictStats, error)
	ResolutionStats(ctx context.Context, factCheckerID uuid.UUID, since time.Time) (completed int, avgSeconds float64, err error)
	Leaderboard(ctx context.Context, since time.Time, limit int) ([]*models.LeaderboardEntry, error)
}

// verdictRepository implements VerdictRepository using PostgreSQL.
type verdictRepository struct {
	db *database.DB
}

// NewVerdictRepository creates a new verdict repository.
func NewVerdictRepository(db *database.DB) VerdictRepository {
	return &verdictRepository{db: db}
}

// Record performs the verdict unit of work in a single transaction.
//
// The claim transition is guarded on both the current status and the
// assigned fact checker, so two concurrent submissions against the same
// claim cannot both succeed: the loser's guard matches zero rows and the
// transaction is rolled back.
func (r *verdictRepository) Record(ctx context.Context, verdict *models.Verdict) (*models.Claim, error) {
	if verdict.ID == uuid.Nil {
		verdict.ID = uuid.New()
	}
	if verdict.CreatedAt.IsZero() {
		verdict.CreatedAt = time.Now()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	claimQuery := `
		UPDATE claims
		SET status = $4, verdict_at = $5
		WHERE id = $1 AND status = $2 AND assigned_fact_checker_id = $3 AND deleted_at IS NULL
		RETURNING ` + claimColumns

	claim, err := scanClaim(tx.QueryRow(ctx, claimQuery,
		verdict.ClaimID,
		models.StatusHumanReview,
		verdict.FactCheckerID,
		verdict.Outcome.Status(),
		verdict.CreatedAt,
	))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, r.classifyRecordFailure(ctx, verdict.ClaimID, verdict.FactCheckerID)
		}
		return nil, err
	}

	// A claim reopened by moderator override may be re-ruled; the unique
	// claim_id constraint keeps at most one verdict and the latest wins.
	verdictQuery := `
		INSERT INTO verdicts (id, claim_id, fact_checker_id, outcome, reasoning, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (claim_id) DO UPDATE
		SET fact_checker_id = EXCLUDED.fact_checker_id,
		    outcome = EXCLUDED.outcome,
		    reasoning = EXCLUDED.reasoning,
		    created_at = EXCLUDED.created_at
		RETURNING id`

	if err := tx.QueryRow(ctx, verdictQuery,
		verdict.ID,
		verdict.ClaimID,
		verdict.FactCheckerID,
		verdict.Outcome,
		verdict.Reasoning,
		verdict.CreatedAt,
	).Scan(&verdict.ID); err != nil {
		return nil, fmt.Errorf("failed to store verdict: %w", err)
	}

	if err := insertActivity(ctx, tx, &models.Activity{
		FactCheckerID: verdict.FactCheckerID,
		ClaimID:       &verdict.ClaimID,
		Action:        models.ActivityVerdictRecorded,
		CreatedAt:     verdict.CreatedAt,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit verdict: %w", err)
	}
	return claim, nil
}

// classifyRecordFailure turns a zero-row guard result into the precise
// error: missing claim, claim assigned to someone else, or wrong status.
func (r *verdictRepository) classifyRecordFailure(ctx context.Context, claimID, factCheckerID uuid.UUID) error {
	var status models.ClaimStatus
	var assignee *uuid.UUID
	query := `SELECT status, assigned_fact_checker_id FROM claims WHERE id = $1 AND deleted_at IS NULL`
	err := r.db.QueryRow(ctx, query, claimID).Scan(&status, &assignee)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to inspect claim: %w", err)
	}
	if status == models.StatusHumanReview && (assignee == nil || *assignee != factCheckerID) {
		return apperrors.ErrForbidden
	}
	return apperrors.ErrIllegalTransition
}

// GetByClaim retrieves the verdict for a claim, if any.
func (r *verdictRepository) GetByClaim(ctx context.Context, claimID uuid.UUID) (*models.Verdict, error) {
	query := `
		SELECT id, claim_id, fact_checker_id, outcome, reasoning, created_at
		FROM verdicts WHERE claim_id = $1`

	var verdict models.Verdict
	err := r.db.QueryRow(ctx, query, claimID).Scan(
		&verdict.ID,
		&verdict.ClaimID,
		&verdict.FactCheckerID,
		&verdict.Outcome,
		&verdict.Reasoning,
		&verdict.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get verdict: %w", err)
	}
	return &verdict, nil
}

// Stats aggregates a checker's verdicts by outcome since the given time.
// A zero since means all time.
func (r *verdictRepository) Stats(ctx context.Context, factCheckerID uuid.UUID, since time.Time) (*models.VerdictStats, error) {
	query := `
		SELECT outcome, COUNT(*)
		FROM verdicts
		WHERE fact_checker_id = $1 AND created_at >= $2
		GROUP BY outcome`

	rows, err := r.db.Query(ctx, query, factCheckerID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query verdict stats: %w", err)
	}
	defer rows.Close()

	stats := &models.VerdictStats{ByOutcome: make(map[models.VerdictOutcome]int)}
	for rows.Next() {
		var outcome models.VerdictOutcome
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("failed to scan verdict stats: %w", err)
		}
		stats.ByOutcome[outcome] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read verdict stats: %w", err)
	}
	return stats, nil
}

// ResolutionStats returns how many claims the checker resolved since the
// given time and the average assignment-to-verdict duration in seconds.
func (r *verdictRepository) ResolutionStats(ctx context.Context, factCheckerID uuid.UUID, since time.Time) (int, float64, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(AVG(EXTRACT(EPOCH FROM (c.verdict_at - c.assigned_at))), 0)
		FROM verdicts v
		JOIN claims c ON c.id = v.claim_id
		WHERE v.fact_checker_id = $1 AND v.created_at >= $2 AND c.verdict_at IS NOT NULL`

	var completed int
	var avgSeconds float64
	if err := r.db.QueryRow(ctx, query, factCheckerID, since).Scan(&completed, &avgSeconds); err != nil {
		return 0, 0, fmt.Errorf("failed to query resolution stats: %w", err)
	}
	return completed, avgSeconds, nil
}

// Leaderboard ranks fact checkers by verdict count since the given time,
// ties broken by ascending average resolution time. Computed on demand so it
// is never stale.
func (r *verdictRepository) Leaderboard(ctx context.Context, since time.Time, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT v.fact_checker_id, f.user_id, COUNT(*) AS verdict_count,
		       COALESCE(AVG(EXTRACT(EPOCH FROM (c.verdict_at - c.assigned_at))), 0) AS avg_resolution
		FROM verdicts v
		JOIN fact_checkers f ON f.id = v.fact_checker_id
		JOIN claims c ON c.id = v.claim_id
		WHERE v.created_at >= $1
		GROUP BY v.fact_checker_id, f.user_id
		ORDER BY verdict_count DESC, avg_resolution ASC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.FactCheckerID, &entry.UserID, &entry.VerdictCount, &entry.AverageResolutionSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entry.Rank = len(entries) + 1
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard rows: %w", err)
	}
	return entries, nil
}

// Ensure verdictRepository implements VerdictRepository at compile time.
var _ VerdictRepository = (*verdictRepository)(nil)
