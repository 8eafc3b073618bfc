package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/factlens-inc/factlens-engine/pkg/apperrors"
	"github.com/factlens-inc/factlens-engine/pkg/database"
	"github.com/factlens-inc/factlens-engine/pkg/models"
)

// FactCheckerRepository defines the interface for fact checker data access.
type FactCheckerRepository interface {
	Create(ctx context.Context, checker *models.FactChecker) error
	Get(ctx context.Context, id uuid.UUID) (*models.FactChecker, error)
	GetByUserID(ctx context.Context, userID string) (*models.FactChecker, error)
	UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status models.VerificationStatus) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// factCheckerRepository implements FactCheckerRepository using PostgreSQL.
type factCheckerRepository struct {
	db *database.DB
}

// NewFactCheckerRepository creates a new fact checker repository.
func NewFactCheckerRepository(db *database.DB) FactCheckerRepository {
	return &factCheckerRepository{db: db}
}

const factCheckerColumns = `id, user_id, expertise_areas, additional_info, verification_status, is_active, joined_at`

func scanFactChecker(row pgx.Row) (*models.FactChecker, error) {
	var checker models.FactChecker
	err := row.Scan(
		&checker.ID,
		&checker.UserID,
		&checker.ExpertiseAreas,
		&checker.AdditionalInfo,
		&checker.VerificationStatus,
		&checker.IsActive,
		&checker.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan fact checker: %w", err)
	}
	return &checker, nil
}

// Create inserts a new fact checker profile in pending verification status.
// The unique constraint on user_id enforces at most one profile per user;
// a duplicate application returns ErrConflict.
func (r *factCheckerRepository) Create(ctx context.Context, checker *models.FactChecker) error {
	if checker.ID == uuid.Nil {
		checker.ID = uuid.New()
	}
	if checker.JoinedAt.IsZero() {
		checker.JoinedAt = time.Now()
	}
	if checker.VerificationStatus == "" {
		checker.VerificationStatus = models.VerificationPending
	}

	query := `
		INSERT INTO fact_checkers (id, user_id, expertise_areas, additional_info, verification_status, is_active, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		checker.ID,
		checker.UserID,
		checker.ExpertiseAreas,
		checker.AdditionalInfo,
		checker.VerificationStatus,
		checker.IsActive,
		checker.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create fact checker: %w", err)
	}
	return nil
}

// Get retrieves a fact checker by ID.
func (r *factCheckerRepository) Get(ctx context.Context, id uuid.UUID) (*models.FactChecker, error) {
	query := `SELECT ` + factCheckerColumns + ` FROM fact_checkers WHERE id = $1`
	return scanFactChecker(r.db.QueryRow(ctx, query, id))
}

// GetByUserID retrieves the fact checker profile for a user account.
func (r *factCheckerRepository) GetByUserID(ctx context.Context, userID string) (*models.FactChecker, error) {
	query := `SELECT ` + factCheckerColumns + ` FROM fact_checkers WHERE user_id = $1`
	return scanFactChecker(r.db.QueryRow(ctx, query, userID))
}

// UpdateVerificationStatus transitions an application to approved or rejected.
func (r *factCheckerRepository) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status models.VerificationStatus) error {
	query := `UPDATE fact_checkers SET verification_status = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update verification status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetActive toggles a fact checker's availability flag.
func (r *factCheckerRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE fact_checkers SET is_active = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to update active flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Ensure factCheckerRepository implements FactCheckerRepository at compile time.
var _ FactCheckerRepository = (*factCheckerRepository)(nil)
