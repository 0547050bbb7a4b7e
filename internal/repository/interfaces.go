package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/dealflow/internal/listing"
	"github.com/yourusername/dealflow/internal/models"
)

// DealRepository defines the interface for deal data access. List
// returns a pre-sorted, pre-paged window plus the total count, so
// callers never hold the full record set.
type DealRepository interface {
	Create(ctx context.Context, deal *models.Deal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Deal, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Deal, error)
	List(ctx context.Context, ownerID uuid.UUID, query listing.Query) ([]*models.Deal, int, error)
	Update(ctx context.Context, deal *models.Deal) error
	SetDeckURL(ctx context.Context, id uuid.UUID, url string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PositionRepository defines the interface for portfolio position data
// access. Positions are created by deal conversion elsewhere and are
// never deleted here; the only mutation is the explicit health update.
type PositionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.PortfolioPosition, error)
	GetAll(ctx context.Context) ([]*models.PortfolioPosition, error)
	UpdateHealth(ctx context.Context, id uuid.UUID, update models.HealthUpdate, updatedAt time.Time) error
}

// ReviewRepository defines the interface for weekly review data access.
// Lookup is exact-match on the week start date, never a range scan.
type ReviewRepository interface {
	GetByUserAndWeek(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*models.WeeklyReview, error)
	Upsert(ctx context.Context, review *models.WeeklyReview) (created bool, err error)
}
