package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/factlens-inc/factlens-engine/pkg/database"
	"github.com/factlens-inc/factlens-engine/pkg/models"
)

// ActivityRepository defines the interface for the append-only activity log.
// Entries are only ever inserted and read; there is no update or delete path.
type ActivityRepository interface {
	Append(ctx context.Context, activity *models.Activity) error
	ListByFactChecker(ctx context.Context, factCheckerID uuid.UUID, limit int) ([]*models.Activity, error)
}

// activityRepository implements ActivityRepository using PostgreSQL.
type activityRepository struct {
	db *database.DB
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db *database.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Append inserts an activity entry.
func (r *activityRepository) Append(ctx context.Context, activity *models.Activity) error {
	return insertActivity(ctx, r.db, activity)
}

// ListByFactChecker returns a checker's most recent activity entries.
func (r *activityRepository) ListByFactChecker(ctx context.Context, factCheckerID uuid.UUID, limit int) ([]*models.Activity, error) {
	query := `
		SELECT id, fact_checker_id, claim_id, action, COALESCE(note, ''), created_at
		FROM fact_checker_activity
		WHERE fact_checker_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, factCheckerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	var entries []*models.Activity
	for rows.Next() {
		var entry models.Activity
		if err := rows.Scan(&entry.ID, &entry.FactCheckerID, &entry.ClaimID, &entry.Action, &entry.Note, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activity rows: %w", err)
	}
	return entries, nil
}

// Ensure activityRepository implements ActivityRepository at compile time.
var _ ActivityRepository = (*activityRepository)(nil)
