package evaluate

import (
	"strconv"

	"github.com/yourusername/dealflow/internal/models"
)

// Runway severity thresholds in months
const (
	runwayRiskMax    = 3.0
	runwayCautionMax = 6.0
)

// HealthSummary aggregates severity counts across a position set
type HealthSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
}

// PositionHealth is the classified view of a single position
type PositionHealth struct {
	Status       models.HealthStatus `json:"status"`
	StatusTier   Tier                `json:"status_tier"`
	RunwayTier   Tier                `json:"runway_tier"`
	RunwayLabel  string              `json:"runway_label"`
	RevenueLabel string              `json:"revenue_label"`
	BurnLabel    string              `json:"burn_label"`
}

// ClassifyPosition classifies a position's stored health status and
// figures for display. The status is the stored enum parsed through its
// closed set, never derived from the runway or burn numbers; those get
// their own independent severity coloring.
func ClassifyPosition(p *models.PortfolioPosition) PositionHealth {
	status := models.ParseHealthStatus(string(p.HealthStatus))

	var statusTier Tier
	switch status {
	case models.HealthStatusCritical:
		statusTier = TierRisk
	case models.HealthStatusWarning:
		statusTier = TierCaution
	case models.HealthStatusHealthy:
		statusTier = TierGood
	default:
		// unrecognised store values are surfaced as unknown, not guessed at
		status = models.HealthStatusUnknown
		statusTier = TierNeutral
	}

	return PositionHealth{
		Status:       status,
		StatusTier:   statusTier,
		RunwayTier:   RunwayTier(p.RunwayMonths),
		RunwayLabel:  formatMonths(p.RunwayMonths),
		RevenueLabel: FormatCurrency(p.MonthlyRevenue),
		BurnLabel:    FormatCurrency(p.MonthlyBurn),
	}
}

// RunwayTier classifies remaining runway: three months or less is risk,
// four to six is caution, anything longer is neutral.
func RunwayTier(months *float64) Tier {
	if months == nil {
		return TierNeutral
	}
	switch {
	case *months <= runwayRiskMax:
		return TierRisk
	case *months <= runwayCautionMax:
		return TierCaution
	default:
		return TierNeutral
	}
}

// SummarizeHealth counts positions whose stored status is exactly
// critical or exactly warning. Unknown statuses count toward neither.
func SummarizeHealth(positions []*models.PortfolioPosition) HealthSummary {
	summary := HealthSummary{Total: len(positions)}
	for _, p := range positions {
		switch p.EffectiveHealth() {
		case models.HealthStatusCritical:
			summary.Critical++
		case models.HealthStatusWarning:
			summary.Warning++
		}
	}
	return summary
}

func formatMonths(months *float64) string {
	if months == nil {
		return EmDash
	}
	return strconv.FormatFloat(*months, 'f', -1, 64) + " mo"
}
