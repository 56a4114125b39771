package store

import (
	"time"

	"github.com/rintaras/protocol-comparison/analyzer/internal/analysis"
	"github.com/rintaras/protocol-comparison/analyzer/internal/measure"
	"github.com/rintaras/protocol-comparison/analyzer/internal/pipeline"
)

// #region run-record

// RunRecord is one persisted analysis run: the configuration it ran
// with, every classified comparison, the raw sample batches (so the run
// can be re-analyzed or exported as a fixture), and the skipped
// conditions.
type RunRecord struct {
	RunID       string
	Description string
	Config      analysis.Config
	CreatedAt   time.Time

	Comparisons []analysis.Comparison
	Batches     []measure.SampleBatch
	Skips       []pipeline.Skip
}

// #endregion

// #region run-meta

// RunMeta is the listing row for a stored run.
type RunMeta struct {
	RunID       string
	Description string
	CreatedAt   time.Time
	Comparisons int
	Skips       int
}

// #endregion

// #region decision-entry

// DecisionEntry is one provenance row: which decision the pipeline took
// for a condition and why. Skips and fallbacks land here so the
// reporting layer can list conditions with insufficient data.
type DecisionEntry struct {
	RunID     string
	Condition string
	Decision  string // boundary type or "skipped"
	Reason    string
	CreatedAt time.Time
}

// #endregion
