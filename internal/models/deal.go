package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DealStage represents the lifecycle position of a deal
type DealStage string

const (
	DealStageReview     DealStage = "review"
	DealStageEvaluating DealStage = "evaluating"
	DealStagePassed     DealStage = "passed"
	DealStageTermSheet  DealStage = "term_sheet"
	DealStageClosed     DealStage = "closed"
	DealStageRejected   DealStage = "rejected"
	DealStageUnknown    DealStage = "unknown"
)

// DealOutcome represents the retrospective classification of a deal
type DealOutcome string

const (
	DealOutcomePending DealOutcome = "pending"
	DealOutcomeWin     DealOutcome = "win"
	DealOutcomeMiss    DealOutcome = "miss"
	DealOutcomeRegret  DealOutcome = "regret"
	DealOutcomeNoise   DealOutcome = "noise"
	DealOutcomeUnknown DealOutcome = "unknown"
)

// ParseDealStage maps a stored stage string to a DealStage. Values the
// store hands back that we do not recognise become DealStageUnknown
// rather than an error, so a bad row never takes down a listing.
func ParseDealStage(s string) DealStage {
	switch DealStage(strings.ToLower(s)) {
	case DealStageReview, DealStageEvaluating, DealStagePassed,
		DealStageTermSheet, DealStageClosed, DealStageRejected:
		return DealStage(strings.ToLower(s))
	default:
		return DealStageUnknown
	}
}

// ParseDealOutcome maps a stored outcome string to a DealOutcome,
// with the same unknown-value handling as ParseDealStage.
func ParseDealOutcome(s string) DealOutcome {
	switch DealOutcome(strings.ToLower(s)) {
	case DealOutcomePending, DealOutcomeWin, DealOutcomeMiss,
		DealOutcomeRegret, DealOutcomeNoise:
		return DealOutcome(strings.ToLower(s))
	default:
		return DealOutcomeUnknown
	}
}

// Deal represents a tracked investment opportunity
type Deal struct {
	ID               uuid.UUID   `db:"id" json:"id" validate:"required"`
	CompanyName      string      `db:"company_name" json:"company_name" validate:"required,min=1,max=255"`
	Sector           *string     `db:"sector" json:"sector"`
	Stage            DealStage   `db:"stage" json:"stage" validate:"required"`
	ValuationUSD     *float64    `db:"valuation_usd" json:"valuation_usd" validate:"omitempty,gte=0"`
	EquityPct        *float64    `db:"equity_pct" json:"equity_pct" validate:"omitempty,gte=0,lte=100"`
	FounderName      *string     `db:"founder_name" json:"founder_name"`
	Outcome          DealOutcome `db:"outcome" json:"outcome"`
	VisionAlignment  *float64    `db:"vision_alignment" json:"vision_alignment"`
	FounderExecution *float64    `db:"founder_execution" json:"founder_execution"`
	FounderSales     *float64    `db:"founder_sales" json:"founder_sales"`
	IterationSpeed   *float64    `db:"iteration_speed" json:"iteration_speed"`
	AIScore          *float64    `db:"ai_score" json:"ai_score"`
	WarmthScore      *float64    `db:"warmth_score" json:"warmth_score"`
	FailureModes     string      `db:"failure_modes" json:"failure_modes"`
	ExitPotential    string      `db:"exit_potential" json:"exit_potential"`
	DeckURL          *string     `db:"deck_url" json:"deck_url"`
	CreatedBy        uuid.UUID   `db:"created_by" json:"created_by" validate:"required"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

// NormalizeEnums coerces the enum-typed fields through their parsers.
// Runs after every store scan and on every inbound payload, so a value
// outside the closed sets surfaces as the Unknown variant instead of
// leaking through verbatim. An empty outcome stays the zero value for
// the caller to default.
func (d *Deal) NormalizeEnums() {
	d.Stage = ParseDealStage(string(d.Stage))
	if d.Outcome != "" {
		d.Outcome = ParseDealOutcome(string(d.Outcome))
	}
}

// Validate performs basic validation on the deal
func (d *Deal) Validate() error {
	if strings.TrimSpace(d.CompanyName) == "" {
		return ErrCompanyNameRequired
	}
	return nil
}

// IsDecided checks whether the deal has reached a terminal stage
func (d *Deal) IsDecided() bool {
	switch d.Stage {
	case DealStagePassed, DealStageClosed, DealStageRejected:
		return true
	default:
		return false
	}
}

// FailureModeLines splits the newline-delimited failure modes field into
// its non-empty lines, preserving order.
func (d *Deal) FailureModeLines() []string {
	if d.FailureModes == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(d.FailureModes, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
