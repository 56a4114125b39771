package analysis

import "math"

// #region filter

// FilterOutliers drops samples further than k standard deviations from
// the mean of the full, unfiltered input. Mean and deviation are
// computed once over the original batch; the filter is deliberately
// single-pass, not iterative.
//
// If fewer than minValid samples survive, the original batch is
// returned unchanged (fallback=true). A short noisy batch is still more
// informative than an empty one, and this keeps valid_count >= 1 for
// every non-empty input. Passing an empty batch is a caller error;
// the filter returns it as-is.
func FilterOutliers(samples []float64, k float64, minValid int) (kept []float64, fallback bool) {
	if len(samples) == 0 {
		return samples, false
	}
	if minValid < 1 {
		minValid = 1
	}

	mean, std := meanStd(samples)
	bound := k * std

	kept = make([]float64, 0, len(samples))
	for _, s := range samples {
		if math.Abs(s-mean) <= bound {
			kept = append(kept, s)
		}
	}

	if len(kept) < minValid {
		return samples, true
	}
	return kept, false
}

// #endregion

// #region mean-std

// meanStd computes the arithmetic mean and population standard
// deviation of samples. Population (not n-1) deviation keeps the filter
// and the significance margins on the same scale.
func meanStd(samples []float64) (mean, std float64) {
	n := float64(len(samples))
	if n == 0 {
		return 0, 0
	}
	for _, s := range samples {
		mean += s
	}
	mean /= n

	var sumSq float64
	for _, s := range samples {
		d := s - mean
		sumSq += d * d
	}
	return mean, math.Sqrt(sumSq / n)
}

// #endregion
