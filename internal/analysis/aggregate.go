package analysis

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// #region summarize

// Summarize reduces a filtered sample batch to its point estimate.
// totalCount is the size of the batch before outlier filtering and must
// be threaded through by the caller. Pure function of its input.
func Summarize(filtered []float64, totalCount int) Aggregate {
	if len(filtered) == 0 {
		return Aggregate{TotalCount: totalCount}
	}

	samp := stats.Sample{Xs: filtered}
	mean := samp.Mean()

	// Population deviation, matching the filter's scale. stats.Sample
	// exposes the n-1 estimator only, so the sum of squares is done here.
	var sumSq float64
	for _, s := range filtered {
		d := s - mean
		sumSq += d * d
	}

	return Aggregate{
		Mean:       mean,
		StdDev:     math.Sqrt(sumSq / float64(len(filtered))),
		ValidCount: len(filtered),
		TotalCount: totalCount,
	}
}

// #endregion
