package registry

import (
	"sort"

	"github.com/rintaras/protocol-comparison/analyzer/internal/analysis"
	"github.com/rintaras/protocol-comparison/analyzer/internal/measure"
)

// #region registry

// key identifies one comparison: a condition is analyzed once per metric.
type key struct {
	cond   measure.ConditionKey
	metric measure.Metric
}

// Registry accumulates classified comparisons across all tested
// conditions, keyed by (condition, metric). Writes are last-write-wins:
// re-running a condition's metric replaces its prior result. The
// pipeline writes sequentially (one condition can be active at a time
// on the shared network emulator), so no locking is needed here.
type Registry struct {
	results map[key]analysis.Comparison
}

// New returns an empty registry for one analysis run.
func New() *Registry {
	return &Registry{results: make(map[key]analysis.Comparison)}
}

// #endregion

// #region record

// Record inserts or overwrites the comparison for its condition and metric.
func (r *Registry) Record(result analysis.Comparison) {
	r.results[key{result.Condition, result.Metric}] = result
}

// #endregion

// #region access

// Get returns the comparison for a condition's metric, if recorded.
func (r *Registry) Get(cond measure.ConditionKey, metric measure.Metric) (analysis.Comparison, bool) {
	c, ok := r.results[key{cond, metric}]
	return c, ok
}

// Len returns the number of recorded comparisons.
func (r *Registry) Len() int {
	return len(r.results)
}

// All returns every comparison ordered ascending by
// (delay, loss, bandwidth), then by metric, so downstream report output
// is deterministic.
func (r *Registry) All() []analysis.Comparison {
	out := make([]analysis.Comparison, 0, len(r.results))
	for _, c := range r.results {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Condition != out[j].Condition {
			return out[i].Condition.Less(out[j].Condition)
		}
		return out[i].Metric < out[j].Metric
	})
	return out
}

// #endregion
