package evaluate

import "fmt"

// WarmthTier labels the strength of the relationship with a deal's principals
type WarmthTier string

const (
	WarmthHot  WarmthTier = "HOT"
	WarmthWarm WarmthTier = "WARM"
	WarmthCold WarmthTier = "COLD"
)

// Warmth thresholds on the 0-10 score domain
const (
	warmthHotMin  = 7.0
	warmthWarmMin = 4.0

	// warmthNeutral is substituted when no score has been computed yet
	warmthNeutral = 5.0
)

// WarmthWeights documents how the upstream pipeline weights the inputs
// to the warmth score. Presentational metadata only; the score arrives
// already computed and nothing here recomputes it.
var WarmthWeights = map[string]int{
	"recency":   40,
	"frequency": 30,
	"quality":   30,
}

// Warmth is the classified form of a relationship warmth score
type Warmth struct {
	Score       float64    `json:"score"`
	Display     string     `json:"display"`
	Tier        WarmthTier `json:"tier"`
	FillPercent float64    `json:"fill_percent"`
}

// ClassifyWarmth maps a nullable 0-10 warmth score to its tier. A nil
// score is treated as neutral warmth (5.0), never as an error. The fill
// percentage is score*10, clamped to [0, 100] at render time; the raw
// score is kept unclamped so out-of-range stored data stays visible.
func ClassifyWarmth(score *float64) Warmth {
	s := warmthNeutral
	if score != nil {
		s = *score
	}

	tier := WarmthCold
	switch {
	case s >= warmthHotMin:
		tier = WarmthHot
	case s >= warmthWarmMin:
		tier = WarmthWarm
	}

	return Warmth{
		Score:       s,
		Display:     fmt.Sprintf("%.1f", s),
		Tier:        tier,
		FillPercent: ClampPercent(s * 10),
	}
}
