package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/dealflow/internal/database"
	"github.com/yourusername/dealflow/internal/listing"
	"github.com/yourusername/dealflow/internal/models"
)

const errScanDeal = "failed to scan deal: %w"

const dealColumns = `id, company_name, sector, stage, valuation_usd, equity_pct,
	       founder_name, outcome, vision_alignment, founder_execution, founder_sales,
	       iteration_speed, ai_score, warmth_score, failure_modes, exit_potential,
	       deck_url, created_by, created_at, updated_at`

// sortColumnSQL whitelists ORDER BY targets. The query column enum is
// closed, but the map keeps raw request strings out of the SQL even if
// a caller bypasses ParseSortColumn.
var sortColumnSQL = map[listing.SortColumn]string{
	listing.SortByCompanyName: "company_name",
	listing.SortBySector:      "sector",
	listing.SortByStage:       "stage",
	listing.SortByAIScore:     "ai_score",
	listing.SortByValuation:   "valuation_usd",
	listing.SortByCreatedAt:   "created_at",
	listing.SortByOutcome:     "outcome",
}

// PostgresDealRepository implements DealRepository for PostgreSQL
type PostgresDealRepository struct {
	db *database.DB
}

// NewPostgresDealRepository creates a new deal repository
func NewPostgresDealRepository(db *database.DB) DealRepository {
	return &PostgresDealRepository{db: db}
}

// Create inserts a new deal
func (r *PostgresDealRepository) Create(ctx context.Context, deal *models.Deal) error {
	query := `
		INSERT INTO deals (id, company_name, sector, stage, valuation_usd, equity_pct,
			founder_name, outcome, vision_alignment, founder_execution, founder_sales,
			iteration_speed, ai_score, warmth_score, failure_modes, exit_potential,
			deck_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		deal.ID, deal.CompanyName, deal.Sector, deal.Stage, deal.ValuationUSD, deal.EquityPct,
		deal.FounderName, deal.Outcome, deal.VisionAlignment, deal.FounderExecution,
		deal.FounderSales, deal.IterationSpeed, deal.AIScore, deal.WarmthScore,
		deal.FailureModes, deal.ExitPotential, deal.DeckURL, deal.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}

	return nil
}

// GetByID retrieves a deal by ID
func (r *PostgresDealRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	query := fmt.Sprintf(`SELECT %s FROM deals WHERE id = $1`, dealColumns)

	deal := &models.Deal{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(scanDealTargets(deal)...)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}
	deal.NormalizeEnums()

	return deal, nil
}

// GetByIDs retrieves a comparison set of deals, preserving the order of
// the requested IDs.
func (r *PostgresDealRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Deal, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM deals WHERE id = ANY($1)`, dealColumns)

	rows, err := r.db.GetPool().Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query deals by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*models.Deal, len(ids))
	for rows.Next() {
		deal := &models.Deal{}
		if err := rows.Scan(scanDealTargets(deal)...); err != nil {
			return nil, fmt.Errorf(errScanDeal, err)
		}
		deal.NormalizeEnums()
		byID[deal.ID] = deal
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	deals := make([]*models.Deal, 0, len(ids))
	for _, id := range ids {
		if deal, ok := byID[id]; ok {
			deals = append(deals, deal)
		}
	}
	return deals, nil
}

// List returns one page of an owner's deals in the requested order,
// plus the total count across all pages.
func (r *PostgresDealRepository) List(ctx context.Context, ownerID uuid.UUID, q listing.Query) ([]*models.Deal, int, error) {
	column, ok := sortColumnSQL[q.Column]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", models.ErrUnknownSortColumn, q.Column)
	}
	direction := "ASC"
	if q.Direction == listing.Descending {
		direction = "DESC"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM deals WHERE created_by = $1`
	if err := r.db.GetPool().QueryRow(ctx, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count deals: %w", err)
	}

	// NULLS LAST keeps unscored deals at the bottom in both directions
	query := fmt.Sprintf(`
		SELECT %s
		FROM deals
		WHERE created_by = $1
		ORDER BY %s %s NULLS LAST, id ASC
		LIMIT $2 OFFSET $3
	`, dealColumns, column, direction)

	rows, err := r.db.GetPool().Query(ctx, query, ownerID, q.PageSize, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query deals: %w", err)
	}
	defer rows.Close()

	var deals []*models.Deal
	for rows.Next() {
		deal := &models.Deal{}
		if err := rows.Scan(scanDealTargets(deal)...); err != nil {
			return nil, 0, fmt.Errorf(errScanDeal, err)
		}
		deal.NormalizeEnums()
		deals = append(deals, deal)
	}

	return deals, total, rows.Err()
}

// Update updates an existing deal
func (r *PostgresDealRepository) Update(ctx context.Context, deal *models.Deal) error {
	query := `
		UPDATE deals SET
			company_name = $2, sector = $3, stage = $4, valuation_usd = $5,
			equity_pct = $6, founder_name = $7, outcome = $8, vision_alignment = $9,
			founder_execution = $10, founder_sales = $11, iteration_speed = $12,
			ai_score = $13, warmth_score = $14, failure_modes = $15,
			exit_potential = $16, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		deal.ID, deal.CompanyName, deal.Sector, deal.Stage, deal.ValuationUSD,
		deal.EquityPct, deal.FounderName, deal.Outcome, deal.VisionAlignment,
		deal.FounderExecution, deal.FounderSales, deal.IterationSpeed,
		deal.AIScore, deal.WarmthScore, deal.FailureModes, deal.ExitPotential,
	)
	if err != nil {
		return fmt.Errorf("failed to update deal: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// SetDeckURL records the public URL of an uploaded pitch deck
func (r *PostgresDealRepository) SetDeckURL(ctx context.Context, id uuid.UUID, url string) error {
	query := `UPDATE deals SET deck_url = $2, updated_at = NOW() WHERE id = $1`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, url)
	if err != nil {
		return fmt.Errorf("failed to set deck url: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete deletes a deal
func (r *PostgresDealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM deals WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanDealTargets(deal *models.Deal) []interface{} {
	return []interface{}{
		&deal.ID, &deal.CompanyName, &deal.Sector, &deal.Stage, &deal.ValuationUSD,
		&deal.EquityPct, &deal.FounderName, &deal.Outcome, &deal.VisionAlignment,
		&deal.FounderExecution, &deal.FounderSales, &deal.IterationSpeed,
		&deal.AIScore, &deal.WarmthScore, &deal.FailureModes, &deal.ExitPotential,
		&deal.DeckURL, &deal.CreatedBy, &deal.CreatedAt, &deal.UpdatedAt,
	}
}
