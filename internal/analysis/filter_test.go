package analysis

import (
	"math"
	"testing"
)

func TestFilterOutliers(t *testing.T) {
	tests := []struct {
		name     string
		samples  []float64
		k        float64
		minValid int
		wantKept []float64
		wantFall bool
	}{
		{
			"no-outliers",
			[]float64{100, 102, 98, 101, 99},
			2, 1,
			[]float64{100, 102, 98, 101, 99},
			false,
		},
		{
			"single-spike-removed",
			[]float64{50, 52, 300, 51, 49},
			1.5, 1,
			[]float64{50, 52, 51, 49},
			false,
		},
		{
			"identical-samples-all-kept",
			[]float64{75, 75, 75},
			2, 1,
			[]float64{75, 75, 75},
			false,
		},
		{
			"fallback-below-minimum",
			[]float64{1, 2, 3},
			0, 2, // k=0 keeps only exact-mean samples, leaving 1 < 2
			[]float64{1, 2, 3},
			true,
		},
		{
			"single-sample",
			[]float64{42},
			2, 1,
			[]float64{42},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, fallback := FilterOutliers(tt.samples, tt.k, tt.minValid)
			if fallback != tt.wantFall {
				t.Errorf("fallback: got %v, want %v", fallback, tt.wantFall)
			}
			if len(kept) != len(tt.wantKept) {
				t.Fatalf("kept: got %v, want %v", kept, tt.wantKept)
			}
			for i := range kept {
				if kept[i] != tt.wantKept[i] {
					t.Errorf("kept[%d]: got %f, want %f", i, kept[i], tt.wantKept[i])
				}
			}
		})
	}
}

// Every retained sample sits within k deviations of the original mean
// unless the fallback fired.
func TestFilterOutliers_Bound(t *testing.T) {
	samples := []float64{10, 12, 9, 11, 40, 10, 8, 55, 11, 10}
	k := 1.2

	kept, fallback := FilterOutliers(samples, k, 1)
	if fallback {
		t.Fatal("unexpected fallback")
	}
	if len(kept) == len(samples) {
		t.Fatal("expected at least one rejection")
	}

	mean, std := meanStd(samples)
	for _, s := range kept {
		if math.Abs(s-mean) > k*std {
			t.Errorf("kept sample %f outside %f-sigma bound", s, k)
		}
	}
}

// valid_count >= 1 whenever total_count >= 1, for any k.
func TestFilterOutliers_FallbackGuarantee(t *testing.T) {
	inputs := [][]float64{
		{1},
		{1, 1000},
		{5, 5, 5, 900},
		{-3, 0, 3},
	}
	for _, samples := range inputs {
		for _, k := range []float64{0, 0.5, 1, 2, 3} {
			kept, _ := FilterOutliers(samples, k, 1)
			if len(kept) < 1 {
				t.Errorf("samples=%v k=%f: kept set is empty", samples, k)
			}
		}
	}
}

func TestFilterOutliers_Deterministic(t *testing.T) {
	samples := []float64{50, 52, 300, 51, 49}

	first, fb1 := FilterOutliers(samples, 1.5, 1)
	second, fb2 := FilterOutliers(samples, 1.5, 1)
	if fb1 != fb2 || len(first) != len(second) {
		t.Fatalf("non-deterministic filter: %v vs %v", first, second)
	}

	a1 := Summarize(first, len(samples))
	a2 := Summarize(second, len(samples))
	if a1 != a2 {
		t.Errorf("non-deterministic aggregate: %+v vs %+v", a1, a2)
	}
}
