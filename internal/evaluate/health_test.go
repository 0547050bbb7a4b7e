package evaluate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/dealflow/internal/models"
)

func position(status models.HealthStatus) *models.PortfolioPosition {
	return &models.PortfolioPosition{CompanyName: "Acme", HealthStatus: status}
}

func TestSummarizeHealth(t *testing.T) {
	positions := []*models.PortfolioPosition{
		position(models.HealthStatusCritical),
		position(models.HealthStatusWarning),
		position(models.HealthStatusWarning),
		position(models.HealthStatusHealthy),
	}

	summary := SummarizeHealth(positions)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Critical)
	assert.Equal(t, 2, summary.Warning)
}

func TestSummarizeHealthIgnoresUnknown(t *testing.T) {
	positions := []*models.PortfolioPosition{
		position(models.HealthStatusUnknown),
		position(""),
	}

	summary := SummarizeHealth(positions)
	assert.Equal(t, 0, summary.Critical)
	assert.Equal(t, 0, summary.Warning)
}

func TestRunwayTier(t *testing.T) {
	assert.Equal(t, TierNeutral, RunwayTier(nil))
	assert.Equal(t, TierRisk, RunwayTier(f(3)))
	assert.Equal(t, TierRisk, RunwayTier(f(1.5)))
	assert.Equal(t, TierCaution, RunwayTier(f(4)))
	assert.Equal(t, TierCaution, RunwayTier(f(6)))
	assert.Equal(t, TierNeutral, RunwayTier(f(6.1)))
}

func TestClassifyPositionPassThrough(t *testing.T) {
	p := position(models.HealthStatusCritical)
	// plenty of runway must not soften a stored critical status
	p.RunwayMonths = f(24)

	health := ClassifyPosition(p)
	assert.Equal(t, models.HealthStatusCritical, health.Status)
	assert.Equal(t, TierRisk, health.StatusTier)
	assert.Equal(t, TierNeutral, health.RunwayTier)
}

func TestClassifyPositionDefaultsToHealthy(t *testing.T) {
	p := position("")
	health := ClassifyPosition(p)
	assert.Equal(t, models.HealthStatusHealthy, health.Status)
	assert.Equal(t, TierGood, health.StatusTier)
}

func TestClassifyPositionUnrecognisedStatus(t *testing.T) {
	p := position("thriving")
	health := ClassifyPosition(p)
	assert.Equal(t, models.HealthStatusUnknown, health.Status)
	assert.Equal(t, TierNeutral, health.StatusTier)
}

func TestClassifyPositionLabels(t *testing.T) {
	p := position(models.HealthStatusWarning)
	p.MonthlyRevenue = f(45_000)
	p.RunwayMonths = f(5)

	health := ClassifyPosition(p)
	assert.Equal(t, "$45K", health.RevenueLabel)
	assert.Equal(t, "—", health.BurnLabel)
	assert.Equal(t, "5 mo", health.RunwayLabel)
}
