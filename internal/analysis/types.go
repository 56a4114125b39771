package analysis

import "github.com/rintaras/protocol-comparison/analyzer/internal/measure"

// #region boundary-type

// BoundaryType classifies the outcome of one condition's comparison.
type BoundaryType string

const (
	// BoundaryNone: the measured difference is within noise.
	BoundaryNone BoundaryType = "not_significant"
	// BoundaryClose: significant but within the crossover threshold.
	BoundaryClose BoundaryType = "close_performance"
	// BoundaryCrossover: the normally-inferior candidate is superior.
	BoundaryCrossover BoundaryType = "performance_crossover"
	// BoundaryStable: the normally-superior baseline stays ahead.
	BoundaryStable BoundaryType = "stable_superior"
)

// #endregion

// #region significance-policy

// SignificancePolicy names the decision rule used by the significance test.
type SignificancePolicy string

const (
	// PolicyNonOverlap declares significance only when the two
	// confidence intervals do not overlap at all.
	PolicyNonOverlap SignificancePolicy = "non_overlap"
	// PolicyRelaxedRatio declares significance when the gap exceeds a
	// configured fraction of the combined margins, so some interval
	// overlap is tolerated.
	PolicyRelaxedRatio SignificancePolicy = "relaxed_ratio"
)

// #endregion

// #region config

// Config parameterizes the whole aggregation and classification pipeline.
// The same algorithm runs at different strictness levels depending on the
// study; everything tunable lives here instead of being hard-coded per run.
type Config struct {
	OutlierK              float64            `json:"outlier_k"`               // k-sigma rejection bound
	MinValidSamples       int                `json:"min_valid_samples"`       // filter falls back below this
	Confidence            float64            `json:"confidence"`              // e.g. 0.95
	Policy                SignificancePolicy `json:"significance_policy"`     // decision rule
	RelaxedRatioFactor    float64            `json:"relaxed_ratio_factor"`    // fraction of combined margin, relaxed_ratio only
	CrossoverThresholdPct float64            `json:"crossover_threshold_pct"` // close-performance band
	Baseline              measure.Variant    `json:"baseline"`                // normally superior reference
	Candidate             measure.Variant    `json:"candidate"`               // normally inferior challenger
}

// DefaultConfig returns the parameters used for the standard
// HTTP/2 vs HTTP/3 boundary study.
func DefaultConfig() Config {
	return Config{
		OutlierK:              2.0,
		MinValidSamples:       1,
		Confidence:            0.95,
		Policy:                PolicyNonOverlap,
		RelaxedRatioFactor:    0.5,
		CrossoverThresholdPct: 5.0,
		Baseline:              measure.VariantHTTP2,
		Candidate:             measure.VariantHTTP3,
	}
}

// WithDefaults fills zero-valued fields from DefaultConfig, leaving the
// fields a partial config did set untouched. Recorded fixtures often
// pin only the parameters a study cares about.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.OutlierK == 0 {
		c.OutlierK = def.OutlierK
	}
	if c.MinValidSamples == 0 {
		c.MinValidSamples = def.MinValidSamples
	}
	if c.Confidence == 0 {
		c.Confidence = def.Confidence
	}
	if c.Policy == "" {
		c.Policy = def.Policy
	}
	if c.RelaxedRatioFactor == 0 {
		c.RelaxedRatioFactor = def.RelaxedRatioFactor
	}
	if c.CrossoverThresholdPct == 0 {
		c.CrossoverThresholdPct = def.CrossoverThresholdPct
	}
	if c.Baseline == "" {
		c.Baseline = def.Baseline
	}
	if c.Candidate == "" {
		c.Candidate = def.Candidate
	}
	return c
}

// #endregion

// #region aggregate

// Aggregate is the point estimate derived from one filtered sample batch.
// Invariants: ValidCount >= 1 whenever the input batch was non-empty,
// and ValidCount <= TotalCount.
type Aggregate struct {
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"` // population standard deviation
	ValidCount int     `json:"valid_count"`
	TotalCount int     `json:"total_count"`
}

// #endregion

// #region classification

// Classification is the boundary decision for one condition.
type Classification struct {
	Boundary        BoundaryType
	Superior        measure.Variant // empty for not_significant
	RelativeDiffPct float64         // positive means the candidate is better
}

// #endregion

// #region comparison

// Comparison is the full per-condition record handed to downstream
// consumers: both aggregates (in the metric's natural sign), the
// significance verdict, and the boundary classification. Created once
// per condition after both variants' aggregates exist; immutable.
type Comparison struct {
	Condition measure.ConditionKey `json:"condition"`
	Metric    measure.Metric       `json:"metric"`
	Candidate Aggregate            `json:"candidate"`
	Baseline  Aggregate            `json:"baseline"`

	RelativeDiffPct float64         `json:"relative_diff_pct"`
	Significant     bool            `json:"significant"`
	Boundary        BoundaryType    `json:"boundary_type"`
	Superior        measure.Variant `json:"superior_variant,omitempty"`
}

// #endregion
