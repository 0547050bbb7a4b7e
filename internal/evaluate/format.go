// Package evaluate implements the scoring, ranking, and threshold
// classification rules behind the deal dashboard: currency and score
// formatting, best-of-N selection, relationship warmth tiers, portfolio
// health classification, and side-by-side deal comparison.
package evaluate

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EmDash is the placeholder rendered wherever a value is absent.
// A missing value and a zero are distinct: zero valuations also render
// as the dash because a $0 valuation is never meaningful data here.
const EmDash = "—"

// Tier represents a severity bucket for score coloring
type Tier string

const (
	TierNeutral Tier = "neutral"
	TierGood    Tier = "good"
	TierCaution Tier = "caution"
	TierRisk    Tier = "risk"
)

// Score tier thresholds. Fixed constants, not configurable.
const (
	scoreGoodMin    = 70.0
	scoreCautionMin = 50.0
)

// FormatCurrency renders a nullable USD amount compactly: billions and
// millions with one decimal, thousands and units rounded to integers.
func FormatCurrency(amount *float64) string {
	if amount == nil || *amount == 0 {
		return EmDash
	}

	d := decimal.NewFromFloat(*amount)
	switch {
	case d.GreaterThanOrEqual(decimal.NewFromInt(1_000_000_000)):
		return fmt.Sprintf("$%sB", d.DivRound(decimal.NewFromInt(1_000_000_000), 1).StringFixed(1))
	case d.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		return fmt.Sprintf("$%sM", d.DivRound(decimal.NewFromInt(1_000_000), 1).StringFixed(1))
	case d.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		return fmt.Sprintf("$%sK", d.DivRound(decimal.NewFromInt(1_000), 0))
	default:
		return fmt.Sprintf("$%s", d.Round(0))
	}
}

// ScoreTier classifies a nullable 0-100 score into a severity tier
func ScoreTier(score *float64) Tier {
	if score == nil {
		return TierNeutral
	}
	switch {
	case *score >= scoreGoodMin:
		return TierGood
	case *score >= scoreCautionMin:
		return TierCaution
	default:
		return TierRisk
	}
}

// BestValue selects the best value from a nil-permissive sequence.
// Nils are filtered out first; an all-nil or empty input yields ok=false,
// which is a normal outcome, not an error. Direction defaults to
// higher-is-better; pass higherBetter=false to select the minimum.
func BestValue(values []*float64, higherBetter bool) (best float64, ok bool) {
	for _, v := range values {
		if v == nil {
			continue
		}
		if !ok {
			best = *v
			ok = true
			continue
		}
		if higherBetter && *v > best {
			best = *v
		}
		if !higherBetter && *v < best {
			best = *v
		}
	}
	return best, ok
}

// IsBest reports whether a value ties the best of its set. Every entry
// equal to the best value is flagged, so several rows can carry a Best
// badge at once.
func IsBest(v *float64, best float64, ok bool) bool {
	return ok && v != nil && *v == best
}

// ClampPercent bounds a percentage to [0, 100] for rendering. Stored
// values outside their documented domain are preserved upstream; only
// the visual fill is clamped.
func ClampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
