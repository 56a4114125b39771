package analysis

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// #region z-multiplier

// ZMultiplier maps a confidence level in (0, 1) to the two-sided
// standard-normal quantile: 0.80→1.28, 0.90→1.645, 0.95→1.96, 0.99→2.58.
// The mapping is monotonically increasing in confidence.
func ZMultiplier(confidence float64) float64 {
	if confidence <= 0 || confidence >= 1 {
		return math.NaN()
	}
	return stats.StdNormal.InvCDF(0.5 + confidence/2)
}

// #endregion

// #region significance

// IsSignificant reports whether the difference between two aggregates
// exceeds measurement noise at the configured confidence level.
//
// Margins are absolute (z * std_dev), never relative to the mean: a mean
// of zero is legitimate for latency-advantage metrics and must not
// divide anything. Under PolicyNonOverlap the gap has to clear the sum
// of both margins; under PolicyRelaxedRatio it has to clear
// RelaxedRatioFactor of that sum, tolerating some interval overlap.
//
// Degenerate inputs (NaN anywhere) fail open: the comparison is treated
// as significant and the classifier downgrades it to a boundary
// candidate rather than this test aborting the condition.
func IsSignificant(a, b Aggregate, cfg Config) bool {
	z := ZMultiplier(cfg.Confidence)

	gap := math.Abs(a.Mean - b.Mean)
	combined := z*a.StdDev + z*b.StdDev

	if math.IsNaN(gap) || math.IsNaN(combined) {
		return true
	}

	threshold := combined
	if cfg.Policy == PolicyRelaxedRatio {
		threshold = cfg.RelaxedRatioFactor * combined
	}
	return gap > threshold
}

// #endregion
