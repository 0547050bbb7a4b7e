package evaluate

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/dealflow/internal/models"
)

// Metric identifies one scored axis of the side-by-side comparison
type Metric string

const (
	MetricAIScore          Metric = "ai_score"
	MetricVisionAlignment  Metric = "vision_alignment"
	MetricFounderExecution Metric = "founder_execution"
	MetricFounderSales     Metric = "founder_sales"
	MetricIterationSpeed   Metric = "iteration_speed"
)

// metricSpec pins each metric's display name, scale cap, and extractor.
// All current metrics are higher-is-better.
type metricSpec struct {
	metric  Metric
	label   string
	max     float64
	extract func(*models.Deal) *float64
}

var comparisonMetrics = []metricSpec{
	{MetricAIScore, "AI Score", 100, func(d *models.Deal) *float64 { return d.AIScore }},
	{MetricVisionAlignment, "Vision Alignment", 5, func(d *models.Deal) *float64 { return d.VisionAlignment }},
	{MetricFounderExecution, "Founder Execution", 5, func(d *models.Deal) *float64 { return d.FounderExecution }},
	{MetricFounderSales, "Sales Ability", 5, func(d *models.Deal) *float64 { return d.FounderSales }},
	{MetricIterationSpeed, "Iteration Speed", 5, func(d *models.Deal) *float64 { return d.IterationSpeed }},
}

// maxFailureModeLines caps how many failure-mode lines the comparison
// table shows per deal.
const maxFailureModeLines = 3

// ComparisonCell is one deal's rendering of one metric
type ComparisonCell struct {
	DealID      uuid.UUID `json:"deal_id"`
	Value       *float64  `json:"value"`
	Display     string    `json:"display"`
	Best        bool      `json:"best"`
	FillPercent float64   `json:"fill_percent"`
}

// ComparisonRow is one metric across every compared deal
type ComparisonRow struct {
	Metric Metric           `json:"metric"`
	Label  string           `json:"label"`
	Max    float64          `json:"max"`
	Cells  []ComparisonCell `json:"cells"`
}

// ComparisonColumn carries the per-deal header and free-text fields
type ComparisonColumn struct {
	DealID         uuid.UUID        `json:"deal_id"`
	CompanyName    string           `json:"company_name"`
	Stage          models.DealStage `json:"stage"`
	ValuationLabel string           `json:"valuation_label"`
	FailureModes   []string         `json:"failure_modes"`
	ExitPotential  string           `json:"exit_potential"`
}

// Comparison is the full side-by-side table for a selected deal set
type Comparison struct {
	Columns []ComparisonColumn `json:"columns"`
	Rows    []ComparisonRow    `json:"rows"`
}

// Compare builds the side-by-side comparison table for an ordered deal
// set. Zero or one deals produce a degenerate table rather than an
// error. Per metric, every deal tying the best value is flagged Best;
// absent values render the dash placeholder and are never treated as
// zero.
func Compare(deals []*models.Deal) Comparison {
	cmp := Comparison{
		Columns: make([]ComparisonColumn, 0, len(deals)),
		Rows:    make([]ComparisonRow, 0, len(comparisonMetrics)),
	}

	for _, d := range deals {
		lines := d.FailureModeLines()
		if len(lines) > maxFailureModeLines {
			lines = lines[:maxFailureModeLines]
		}
		cmp.Columns = append(cmp.Columns, ComparisonColumn{
			DealID:         d.ID,
			CompanyName:    d.CompanyName,
			Stage:          d.Stage,
			ValuationLabel: FormatCurrency(d.ValuationUSD),
			FailureModes:   lines,
			ExitPotential:  d.ExitPotential,
		})
	}

	for _, spec := range comparisonMetrics {
		values := make([]*float64, len(deals))
		for i, d := range deals {
			values[i] = spec.extract(d)
		}

		best, ok := BestValue(values, true)

		row := ComparisonRow{
			Metric: spec.metric,
			Label:  spec.label,
			Max:    spec.max,
			Cells:  make([]ComparisonCell, len(deals)),
		}
		for i, d := range deals {
			row.Cells[i] = ComparisonCell{
				DealID:      d.ID,
				Value:       values[i],
				Display:     displayScore(values[i]),
				Best:        IsBest(values[i], best, ok),
				FillPercent: fillPercent(values[i], spec.max),
			}
		}
		cmp.Rows = append(cmp.Rows, row)
	}

	return cmp
}

func displayScore(v *float64) string {
	if v == nil {
		return EmDash
	}
	return fmt.Sprintf("%g", *v)
}

// fillPercent normalizes a metric value for its progress bar, clamped
// to [0, 100]. The raw value rides along in the cell so out-of-range
// stored data remains inspectable.
func fillPercent(v *float64, max float64) float64 {
	if v == nil || max == 0 {
		return 0
	}
	return ClampPercent(*v / max * 100)
}
