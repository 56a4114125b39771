package registry

import (
	"testing"

	"github.com/rintaras/protocol-comparison/analyzer/internal/analysis"
	"github.com/rintaras/protocol-comparison/analyzer/internal/measure"
)

func comparison(delay int, loss, bw float64, boundary analysis.BoundaryType) analysis.Comparison {
	return analysis.Comparison{
		Condition: measure.ConditionKey{DelayMs: delay, LossPct: loss, BandwidthMbps: bw},
		Metric:    measure.MetricThroughput,
		Boundary:  boundary,
	}
}

func TestRecordAndGet(t *testing.T) {
	r := New()
	c := comparison(50, 1, 10, analysis.BoundaryClose)

	r.Record(c)
	got, ok := r.Get(c.Condition, c.Metric)
	if !ok {
		t.Fatal("expected recorded comparison")
	}
	if got.Boundary != analysis.BoundaryClose {
		t.Errorf("boundary: got %q, want %q", got.Boundary, analysis.BoundaryClose)
	}

	if _, ok := r.Get(measure.ConditionKey{DelayMs: 999}, measure.MetricThroughput); ok {
		t.Error("expected miss for unrecorded condition")
	}
	if _, ok := r.Get(c.Condition, measure.MetricLatency); ok {
		t.Error("expected miss for unrecorded metric")
	}
}

// Re-running a condition's metric replaces its prior result.
func TestRecord_LastWriteWins(t *testing.T) {
	r := New()
	r.Record(comparison(50, 1, 10, analysis.BoundaryClose))
	r.Record(comparison(50, 1, 10, analysis.BoundaryCrossover))

	if r.Len() != 1 {
		t.Fatalf("len: got %d, want 1", r.Len())
	}
	got, _ := r.Get(measure.ConditionKey{DelayMs: 50, LossPct: 1, BandwidthMbps: 10}, measure.MetricThroughput)
	if got.Boundary != analysis.BoundaryCrossover {
		t.Errorf("boundary: got %q, want %q", got.Boundary, analysis.BoundaryCrossover)
	}
}

// One condition carries one comparison per metric: recording latency
// must not displace the throughput result.
func TestRecord_PerMetric(t *testing.T) {
	r := New()
	cond := measure.ConditionKey{DelayMs: 50, LossPct: 1, BandwidthMbps: 10}

	r.Record(analysis.Comparison{Condition: cond, Metric: measure.MetricThroughput, Boundary: analysis.BoundaryClose})
	r.Record(analysis.Comparison{Condition: cond, Metric: measure.MetricLatency, Boundary: analysis.BoundaryCrossover})

	if r.Len() != 2 {
		t.Fatalf("len: got %d, want 2", r.Len())
	}
	tp, ok := r.Get(cond, measure.MetricThroughput)
	if !ok || tp.Boundary != analysis.BoundaryClose {
		t.Errorf("throughput: got %q ok=%v, want %q", tp.Boundary, ok, analysis.BoundaryClose)
	}
	lat, ok := r.Get(cond, measure.MetricLatency)
	if !ok || lat.Boundary != analysis.BoundaryCrossover {
		t.Errorf("latency: got %q ok=%v, want %q", lat.Boundary, ok, analysis.BoundaryCrossover)
	}
}

// All() orders ascending by (delay, loss, bandwidth), then metric,
// regardless of insertion order.
func TestAll_Sorted(t *testing.T) {
	r := New()
	r.Record(comparison(100, 0, 0, analysis.BoundaryStable))
	r.Record(comparison(50, 2, 0, analysis.BoundaryClose))
	r.Record(analysis.Comparison{
		Condition: measure.ConditionKey{DelayMs: 50, LossPct: 1, BandwidthMbps: 10},
		Metric:    measure.MetricThroughput,
	})
	r.Record(analysis.Comparison{
		Condition: measure.ConditionKey{DelayMs: 50, LossPct: 1, BandwidthMbps: 10},
		Metric:    measure.MetricLatency,
	})
	r.Record(comparison(50, 1, 5, analysis.BoundaryNone))

	all := r.All()
	want := []struct {
		cond   measure.ConditionKey
		metric measure.Metric
	}{
		{measure.ConditionKey{DelayMs: 50, LossPct: 1, BandwidthMbps: 5}, measure.MetricThroughput},
		{measure.ConditionKey{DelayMs: 50, LossPct: 1, BandwidthMbps: 10}, measure.MetricLatency},
		{measure.ConditionKey{DelayMs: 50, LossPct: 1, BandwidthMbps: 10}, measure.MetricThroughput},
		{measure.ConditionKey{DelayMs: 50, LossPct: 2, BandwidthMbps: 0}, measure.MetricThroughput},
		{measure.ConditionKey{DelayMs: 100, LossPct: 0, BandwidthMbps: 0}, measure.MetricThroughput},
	}

	if len(all) != len(want) {
		t.Fatalf("len: got %d, want %d", len(all), len(want))
	}
	for i, c := range all {
		if c.Condition != want[i].cond || c.Metric != want[i].metric {
			t.Errorf("all[%d]: got %v/%s, want %v/%s", i, c.Condition, c.Metric, want[i].cond, want[i].metric)
		}
	}
}
