package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// HealthStatus represents the tri-state severity classification of a position
type HealthStatus string

const (
	HealthStatusHealthy  HealthStatus = "healthy"
	HealthStatusWarning  HealthStatus = "warning"
	HealthStatusCritical HealthStatus = "critical"
	HealthStatusUnknown  HealthStatus = "unknown"
)

// PositionStatus represents the lifecycle status of a portfolio position
type PositionStatus string

const (
	PositionStatusActive     PositionStatus = "active"
	PositionStatusExited     PositionStatus = "exited"
	PositionStatusWrittenOff PositionStatus = "written_off"
	PositionStatusUnknown    PositionStatus = "unknown"
)

// ParseHealthStatus maps a stored health status string to a HealthStatus.
// An empty value defaults to healthy; unrecognised values become
// HealthStatusUnknown for the caller to surface.
func ParseHealthStatus(s string) HealthStatus {
	switch HealthStatus(strings.ToLower(s)) {
	case HealthStatusHealthy, HealthStatusWarning, HealthStatusCritical:
		return HealthStatus(strings.ToLower(s))
	case "":
		return HealthStatusHealthy
	default:
		return HealthStatusUnknown
	}
}

// ParsePositionStatus maps a stored lifecycle status string to a PositionStatus
func ParsePositionStatus(s string) PositionStatus {
	switch PositionStatus(strings.ToLower(s)) {
	case PositionStatusActive, PositionStatusExited, PositionStatusWrittenOff:
		return PositionStatus(strings.ToLower(s))
	default:
		return PositionStatusUnknown
	}
}

// PortfolioPosition represents an active investment being monitored
type PortfolioPosition struct {
	ID               uuid.UUID      `db:"id" json:"id" validate:"required"`
	CompanyName      string         `db:"company_name" json:"company_name" validate:"required,min=1,max=255"`
	Sector           *string        `db:"sector" json:"sector"`
	Status           PositionStatus `db:"status" json:"status"`
	MonthlyRevenue   *float64       `db:"monthly_revenue" json:"monthly_revenue" validate:"omitempty,gte=0"`
	MonthlyBurn      *float64       `db:"monthly_burn" json:"monthly_burn" validate:"omitempty,gte=0"`
	RunwayMonths     *float64       `db:"runway_months" json:"runway_months" validate:"omitempty,gte=0"`
	HealthStatus     HealthStatus   `db:"health_status" json:"health_status"`
	CurrentValuation *float64       `db:"current_valuation" json:"current_valuation" validate:"omitempty,gte=0"`
	MetricsUpdatedAt *time.Time     `db:"metrics_updated_at" json:"metrics_updated_at"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// NormalizeEnums coerces the enum-typed fields through their parsers so
// unrecognised store values surface as the Unknown variants.
func (p *PortfolioPosition) NormalizeEnums() {
	p.Status = ParsePositionStatus(string(p.Status))
	p.HealthStatus = ParseHealthStatus(string(p.HealthStatus))
}

// EffectiveHealth returns the stored health status, defaulting to healthy
// when the field was never set.
func (p *PortfolioPosition) EffectiveHealth() HealthStatus {
	if p.HealthStatus == "" {
		return HealthStatusHealthy
	}
	return p.HealthStatus
}

// HealthUpdate carries the fields revised by a portfolio health check.
// The update timestamp is stamped by the service, never by the caller.
type HealthUpdate struct {
	MonthlyRevenue   *float64     `json:"monthly_revenue" validate:"omitempty,gte=0"`
	MonthlyBurn      *float64     `json:"monthly_burn" validate:"omitempty,gte=0"`
	RunwayMonths     *float64     `json:"runway_months" validate:"omitempty,gte=0"`
	CurrentValuation *float64     `json:"current_valuation" validate:"omitempty,gte=0"`
	HealthStatus     HealthStatus `json:"health_status" validate:"required,oneof=healthy warning critical"`
}
