package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/dealflow/internal/database"
	"github.com/yourusername/dealflow/internal/models"
)

const reviewColumns = `id, user_id, week_start, shipped_outside_building, progress,
	       wins, losses, reflections, next_week_priorities, created_at, updated_at`

// PostgresReviewRepository implements ReviewRepository for PostgreSQL
type PostgresReviewRepository struct {
	db *database.DB
}

// NewPostgresReviewRepository creates a new weekly review repository
func NewPostgresReviewRepository(db *database.DB) ReviewRepository {
	return &PostgresReviewRepository{db: db}
}

// GetByUserAndWeek retrieves the review for an exact week start date.
// A review saved for an adjacent week is never returned; absence is
// models.ErrNotFound, which callers treat as "no review yet".
func (r *PostgresReviewRepository) GetByUserAndWeek(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*models.WeeklyReview, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM weekly_reviews
		WHERE user_id = $1 AND week_start = $2
	`, reviewColumns)

	review := &models.WeeklyReview{}
	err := r.db.GetPool().QueryRow(ctx, query, userID, weekStart).Scan(
		&review.ID, &review.UserID, &review.WeekStart, &review.ShippedOutsideBuilding,
		&review.Progress, &review.Wins, &review.Losses, &review.Reflections,
		&review.NextWeekPriorities, &review.CreatedAt, &review.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly review: %w", err)
	}

	return review, nil
}

// Upsert saves a review, enforcing one record per (user, week start)
// through the table's unique constraint. Returns whether a new row was
// created rather than an existing one updated.
func (r *PostgresReviewRepository) Upsert(ctx context.Context, review *models.WeeklyReview) (bool, error) {
	query := `
		INSERT INTO weekly_reviews (id, user_id, week_start, shipped_outside_building,
			progress, wins, losses, reflections, next_week_priorities)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, week_start) DO UPDATE SET
			shipped_outside_building = EXCLUDED.shipped_outside_building,
			progress = EXCLUDED.progress,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			reflections = EXCLUDED.reflections,
			next_week_priorities = EXCLUDED.next_week_priorities,
			updated_at = NOW()
		RETURNING (xmax = 0)
	`

	var created bool
	err := r.db.GetPool().QueryRow(ctx, query,
		review.ID, review.UserID, review.WeekStart, review.ShippedOutsideBuilding,
		review.Progress, review.Wins, review.Losses, review.Reflections,
		review.NextWeekPriorities,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("failed to upsert weekly review: %w", err)
	}

	return created, nil
}
