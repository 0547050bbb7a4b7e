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

const errScanPosition = "failed to scan position: %w"

const positionColumns = `id, company_name, sector, status, monthly_revenue, monthly_burn,
	       runway_months, health_status, current_valuation, metrics_updated_at,
	       created_at, updated_at`

// PostgresPositionRepository implements PositionRepository for PostgreSQL
type PostgresPositionRepository struct {
	db *database.DB
}

// NewPostgresPositionRepository creates a new position repository
func NewPostgresPositionRepository(db *database.DB) PositionRepository {
	return &PostgresPositionRepository{db: db}
}

// GetByID retrieves a position by ID
func (r *PostgresPositionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PortfolioPosition, error) {
	query := fmt.Sprintf(`SELECT %s FROM portfolio_positions WHERE id = $1`, positionColumns)

	position := &models.PortfolioPosition{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(scanPositionTargets(position)...)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	position.NormalizeEnums()

	return position, nil
}

// GetAll retrieves every portfolio position ordered by company name
func (r *PostgresPositionRepository) GetAll(ctx context.Context) ([]*models.PortfolioPosition, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM portfolio_positions
		ORDER BY company_name ASC
	`, positionColumns)

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []*models.PortfolioPosition
	for rows.Next() {
		position := &models.PortfolioPosition{}
		if err := rows.Scan(scanPositionTargets(position)...); err != nil {
			return nil, fmt.Errorf(errScanPosition, err)
		}
		position.NormalizeEnums()
		positions = append(positions, position)
	}

	return positions, rows.Err()
}

// UpdateHealth applies a health check's revised figures. The metrics
// timestamp always comes from the caller's clock at update time, never
// from the payload.
func (r *PostgresPositionRepository) UpdateHealth(ctx context.Context, id uuid.UUID, update models.HealthUpdate, updatedAt time.Time) error {
	query := `
		UPDATE portfolio_positions SET
			monthly_revenue = $2, monthly_burn = $3, runway_months = $4,
			current_valuation = $5, health_status = $6,
			metrics_updated_at = $7, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		id, update.MonthlyRevenue, update.MonthlyBurn, update.RunwayMonths,
		update.CurrentValuation, update.HealthStatus, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update position health: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanPositionTargets(p *models.PortfolioPosition) []interface{} {
	return []interface{}{
		&p.ID, &p.CompanyName, &p.Sector, &p.Status, &p.MonthlyRevenue,
		&p.MonthlyBurn, &p.RunwayMonths, &p.HealthStatus, &p.CurrentValuation,
		&p.MetricsUpdatedAt, &p.CreatedAt, &p.UpdatedAt,
	}
}
