package measure

import "fmt"

// #region variant

// Variant identifies one of the two protocol implementations under comparison.
type Variant string

const (
	VariantHTTP2 Variant = "http2"
	VariantHTTP3 Variant = "http3"
)

// #endregion

// #region metric

// Metric names the scalar quantity a sample measures.
type Metric string

const (
	MetricThroughput Metric = "throughput" // req/s, higher is better
	MetricLatency    Metric = "latency"    // ms, lower is better
)

// LowerIsBetter reports whether smaller values of the metric indicate
// better performance.
func (m Metric) LowerIsBetter() bool {
	return m == MetricLatency
}

// #endregion

// #region condition-key

// ConditionKey identifies one emulated network scenario. Equality is
// exact numeric match; the zero bandwidth means "unlimited", matching
// the tc configuration the collectors apply.
type ConditionKey struct {
	DelayMs       int     `json:"delay_ms"`
	LossPct       float64 `json:"loss_pct"`
	BandwidthMbps float64 `json:"bandwidth_mbps"`
}

// Less orders conditions ascending by (delay, loss, bandwidth) for
// deterministic report output.
func (c ConditionKey) Less(other ConditionKey) bool {
	if c.DelayMs != other.DelayMs {
		return c.DelayMs < other.DelayMs
	}
	if c.LossPct != other.LossPct {
		return c.LossPct < other.LossPct
	}
	return c.BandwidthMbps < other.BandwidthMbps
}

func (c ConditionKey) String() string {
	return fmt.Sprintf("%dms/%.1f%%/%.1fMbps", c.DelayMs, c.LossPct, c.BandwidthMbps)
}

// #endregion

// #region sample-batch

// SampleBatch holds the raw trial samples collected for one
// (variant, condition, metric) tuple. Batches grow only by append
// during a measurement round and are never mutated afterward; a new
// round produces a new batch.
type SampleBatch struct {
	Variant   Variant      `json:"variant"`
	Condition ConditionKey `json:"condition"`
	Metric    Metric       `json:"metric"`
	Samples   []float64    `json:"samples"`
}

// #endregion
