package analysis

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		filtered  []float64
		total     int
		wantMean  float64
		wantStd   float64
		wantValid int
	}{
		// Textbook population deviation: mean 5, std exactly 2.
		{"known-population-std", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 8, 5, 2, 8},
		{"single-sample", []float64{42}, 1, 42, 0, 1},
		{"post-filter-counts", []float64{50, 52, 51, 49}, 5, 50.5, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := Summarize(tt.filtered, tt.total)
			if math.Abs(agg.Mean-tt.wantMean) > 1e-9 {
				t.Errorf("mean: got %f, want %f", agg.Mean, tt.wantMean)
			}
			if tt.wantStd > 0 && math.Abs(agg.StdDev-tt.wantStd) > 1e-9 {
				t.Errorf("std: got %f, want %f", agg.StdDev, tt.wantStd)
			}
			if agg.ValidCount != tt.wantValid {
				t.Errorf("valid: got %d, want %d", agg.ValidCount, tt.wantValid)
			}
			if agg.TotalCount != tt.total {
				t.Errorf("total: got %d, want %d", agg.TotalCount, tt.total)
			}
			if agg.ValidCount > agg.TotalCount {
				t.Errorf("valid %d exceeds total %d", agg.ValidCount, agg.TotalCount)
			}
		})
	}
}

func TestSummarize_Empty(t *testing.T) {
	agg := Summarize(nil, 3)
	if agg.ValidCount != 0 || agg.TotalCount != 3 {
		t.Errorf("got %+v, want zero valid with total 3", agg)
	}
}

// Outlier filtering followed by aggregation shifts the estimate to the
// bulk of the data: [50,52,300,51,49] must land near 50.5, not 100.4.
func TestFilterThenSummarize(t *testing.T) {
	samples := []float64{50, 52, 300, 51, 49}

	kept, fallback := FilterOutliers(samples, 1.5, 1)
	if fallback {
		t.Fatal("unexpected fallback")
	}
	agg := Summarize(kept, len(samples))

	if math.Abs(agg.Mean-50.5) > 1e-9 {
		t.Errorf("mean: got %f, want 50.5", agg.Mean)
	}
	if agg.ValidCount != 4 || agg.TotalCount != 5 {
		t.Errorf("counts: got %d/%d, want 4/5", agg.ValidCount, agg.TotalCount)
	}
}
