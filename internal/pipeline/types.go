package pipeline

import "github.com/rintaras/protocol-comparison/analyzer/internal/measure"

// #region round

// Round bundles the complete raw sample batches collected for one
// condition: one batch per variant, same metric. The pipeline only ever
// sees finished rounds — trials for a condition must all complete while
// that condition is applied to the shared emulator, so there is no
// partial or streaming aggregation.
type Round struct {
	Condition measure.ConditionKey
	Metric    measure.Metric
	Candidate []float64 // raw samples for the normally-inferior variant
	Baseline  []float64 // raw samples for the normally-superior variant
}

// #endregion

// #region skip

// SkipReason categorizes why a condition produced no comparison.
type SkipReason string

const (
	// SkipEmptySamples: a variant's batch exists but holds zero samples.
	SkipEmptySamples SkipReason = "empty_sample_set"
	// SkipMissingCounterpart: one variant was never measured at all.
	SkipMissingCounterpart SkipReason = "missing_counterpart"
)

// Skip records a condition excluded from the registry. Skips are local
// to their condition and never abort the run; the full list is retained
// on the summary for the reporting layer's "insufficient data" section.
type Skip struct {
	Condition measure.ConditionKey `json:"condition"`
	Metric    measure.Metric       `json:"metric"`
	Variant   measure.Variant      `json:"variant"` // the side that lacked data
	Reason    SkipReason           `json:"reason"`
}

// #endregion

// #region summary

// Summary aggregates one run's outcomes per boundary category.
type Summary struct {
	Conditions     int
	Analyzed       int
	NotSignificant int
	Close          int
	Crossovers     int
	Stable         int
	Skips          []Skip
}

// #endregion
