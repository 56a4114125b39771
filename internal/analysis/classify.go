package analysis

import "math"

// #region relative-diff

// RelativeDiffPct is the signed difference of the candidate aggregate
// against the baseline, as a percentage of the baseline magnitude:
//
//	(candidate.mean - baseline.mean) / |baseline.mean| * 100
//
// Fixed sign convention: positive means the candidate measured higher.
// For lower-is-better metrics the caller pre-negates both means, so a
// positive result always reads "candidate is better". The denominator
// uses the baseline's magnitude so pre-negation flips only the sign,
// not the scale. A zero baseline with a non-zero candidate yields ±Inf,
// which the decision table treats as far outside the close band.
func RelativeDiffPct(candidate, baseline Aggregate) float64 {
	diff := candidate.Mean - baseline.Mean
	if baseline.Mean == 0 {
		if diff == 0 {
			return 0
		}
		return math.Inf(int(math.Copysign(1, diff)))
	}
	return diff / math.Abs(baseline.Mean) * 100
}

// #endregion

// #region classify

// Classify turns a significance verdict and the signed relative
// difference into a boundary decision. candidate is the normally
// inferior variant, baseline the normally superior one; both aggregates
// must already be advantage-signed (positive diff = candidate better).
//
// Decision table:
//   - not significant            → not_significant, no superior variant
//   - |diff| <= threshold        → close_performance (inclusive tie-break)
//   - diff > 0 (candidate wins)  → performance_crossover
//   - diff < 0 (baseline wins)   → stable_superior
func Classify(candidate, baseline Aggregate, significant bool, cfg Config) Classification {
	rel := RelativeDiffPct(candidate, baseline)

	if !significant {
		return Classification{Boundary: BoundaryNone, RelativeDiffPct: rel}
	}

	superior := cfg.Baseline
	if rel > 0 {
		superior = cfg.Candidate
	}

	if math.Abs(rel) <= cfg.CrossoverThresholdPct {
		return Classification{
			Boundary:        BoundaryClose,
			Superior:        superior,
			RelativeDiffPct: rel,
		}
	}

	boundary := BoundaryStable
	if rel > 0 {
		boundary = BoundaryCrossover
	}
	return Classification{
		Boundary:        boundary,
		Superior:        superior,
		RelativeDiffPct: rel,
	}
}

// #endregion
