package pipeline

import (
	"log"

	"github.com/rintaras/protocol-comparison/analyzer/internal/analysis"
	"github.com/rintaras/protocol-comparison/analyzer/internal/measure"
	"github.com/rintaras/protocol-comparison/analyzer/internal/registry"
)

// #region pipeline-struct

// Pipeline runs the measurement-aggregation and boundary-classification
// chain for one analysis run: outlier filter → aggregate per variant →
// significance test → boundary classification → registry. It performs
// no I/O and no benchmarking; rounds arrive already collected from the
// external executor.
type Pipeline struct {
	cfg      analysis.Config
	registry *registry.Registry
}

// New creates a pipeline with an empty registry.
func New(cfg analysis.Config) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		registry: registry.New(),
	}
}

// Registry exposes the accumulated comparisons.
func (p *Pipeline) Registry() *registry.Registry {
	return p.registry
}

// #endregion

// #region run

// Run processes every round sequentially and returns the run summary.
func (p *Pipeline) Run(rounds []Round) Summary {
	sum := Summary{Conditions: len(rounds)}

	for _, r := range rounds {
		result, skip := p.ProcessRound(r)
		if skip != nil {
			sum.Skips = append(sum.Skips, *skip)
			continue
		}

		sum.Analyzed++
		switch result.Boundary {
		case analysis.BoundaryNone:
			sum.NotSignificant++
		case analysis.BoundaryClose:
			sum.Close++
		case analysis.BoundaryCrossover:
			sum.Crossovers++
		case analysis.BoundaryStable:
			sum.Stable++
		}
	}

	log.Printf("[PIPE] run complete: %d conditions, %d analyzed, %d crossover, %d close, %d stable, %d skipped",
		sum.Conditions, sum.Analyzed, sum.Crossovers, sum.Close, sum.Stable, len(sum.Skips))
	return sum
}

// #endregion

// #region process-round

// ProcessRound classifies a single condition. A nil skip means the
// comparison was recorded in the registry; otherwise the condition is
// excluded and the skip explains which side lacked data.
func (p *Pipeline) ProcessRound(r Round) (analysis.Comparison, *Skip) {
	if skip := p.checkUsable(r); skip != nil {
		log.Printf("[PIPE] condition=%s metric=%s skipped: %s (%s)",
			r.Condition, r.Metric, skip.Reason, skip.Variant)
		return analysis.Comparison{}, skip
	}

	cand := p.filterAndSummarize(r, p.cfg.Candidate, r.Candidate)
	base := p.filterAndSummarize(r, p.cfg.Baseline, r.Baseline)

	// Advantage-signed copies for the decision stages: for lower-is-better
	// metrics the means are negated so a positive relative difference
	// always reads "candidate is better". The stored aggregates keep the
	// metric's natural sign.
	candAdv, baseAdv := cand, base
	if r.Metric.LowerIsBetter() {
		candAdv.Mean = -candAdv.Mean
		baseAdv.Mean = -baseAdv.Mean
	}

	significant := analysis.IsSignificant(candAdv, baseAdv, p.cfg)
	cls := analysis.Classify(candAdv, baseAdv, significant, p.cfg)

	result := analysis.Comparison{
		Condition:       r.Condition,
		Metric:          r.Metric,
		Candidate:       cand,
		Baseline:        base,
		RelativeDiffPct: cls.RelativeDiffPct,
		Significant:     significant,
		Boundary:        cls.Boundary,
		Superior:        cls.Superior,
	}
	p.registry.Record(result)

	log.Printf("[PIPE] condition=%s metric=%s diff=%+.1f%% significant=%v → %s",
		r.Condition, r.Metric, cls.RelativeDiffPct, significant, cls.Boundary)
	return result, nil
}

// #endregion

// #region helpers

// checkUsable applies the per-condition error taxonomy: a nil batch
// means the variant was never measured (missing counterpart), an empty
// one means every trial failed (empty sample set).
func (p *Pipeline) checkUsable(r Round) *Skip {
	for _, side := range []struct {
		variant measure.Variant
		samples []float64
	}{
		{p.cfg.Candidate, r.Candidate},
		{p.cfg.Baseline, r.Baseline},
	} {
		if side.samples == nil {
			return &Skip{Condition: r.Condition, Metric: r.Metric, Variant: side.variant, Reason: SkipMissingCounterpart}
		}
		if len(side.samples) == 0 {
			return &Skip{Condition: r.Condition, Metric: r.Metric, Variant: side.variant, Reason: SkipEmptySamples}
		}
	}
	return nil
}

func (p *Pipeline) filterAndSummarize(r Round, variant measure.Variant, samples []float64) analysis.Aggregate {
	kept, fallback := analysis.FilterOutliers(samples, p.cfg.OutlierK, p.cfg.MinValidSamples)
	if fallback {
		log.Printf("[PIPE] condition=%s variant=%s: outlier filter left fewer than %d samples, using unfiltered batch",
			r.Condition, variant, p.cfg.MinValidSamples)
	} else if len(kept) < len(samples) {
		log.Printf("[PIPE] condition=%s variant=%s: rejected %d of %d samples as outliers",
			r.Condition, variant, len(samples)-len(kept), len(samples))
	}
	return analysis.Summarize(kept, len(samples))
}

// #endregion
