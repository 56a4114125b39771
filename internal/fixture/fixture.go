package fixture

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rintaras/protocol-comparison/analyzer/internal/analysis"
	"github.com/rintaras/protocol-comparison/analyzer/internal/measure"
	"github.com/rintaras/protocol-comparison/analyzer/internal/pipeline"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a recorded measurement
// run: the pipeline configuration, one round per condition, and
// (optionally) the boundary types a replay is expected to reproduce.
type Fixture struct {
	Description     string            `json:"description"`
	Config          analysis.Config   `json:"config"`
	Rounds          []FixtureRound    `json:"rounds"`
	ExpectedResults []FixtureExpected `json:"expected_results,omitempty"`
}

// FixtureRound mirrors pipeline.Round with JSON tags. An absent samples
// array decodes to nil and replays as a missing counterpart, exactly as
// the live pipeline would see it.
type FixtureRound struct {
	Condition measure.ConditionKey `json:"condition"`
	Metric    measure.Metric       `json:"metric"`
	Candidate []float64            `json:"candidate_samples"`
	Baseline  []float64            `json:"baseline_samples"`
}

// FixtureExpected captures the expected classification for one
// condition's metric.
type FixtureExpected struct {
	Condition measure.ConditionKey  `json:"condition"`
	Metric    measure.Metric        `json:"metric"`
	Boundary  analysis.BoundaryType `json:"boundary_type"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// WriteFixture serializes a fixture to disk, indented for hand-editing.
func WriteFixture(f *Fixture, path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ToRound converts a fixture round to a domain Round.
func (fr *FixtureRound) ToRound() pipeline.Round {
	return pipeline.Round{
		Condition: fr.Condition,
		Metric:    fr.Metric,
		Candidate: fr.Candidate,
		Baseline:  fr.Baseline,
	}
}

// ToRounds converts all fixture rounds.
func (f *Fixture) ToRounds() []pipeline.Round {
	rounds := make([]pipeline.Round, len(f.Rounds))
	for i := range f.Rounds {
		rounds[i] = f.Rounds[i].ToRound()
	}
	return rounds
}

// #endregion fixture-loader

// #region expectation-check

// Divergence pairs one expected classification with what a replay produced.
type Divergence struct {
	Condition measure.ConditionKey
	Metric    measure.Metric
	Expected  analysis.BoundaryType
	Got       analysis.BoundaryType // "skipped" when no comparison was recorded
}

// expectedKey matches the registry's identity: one comparison per
// condition and metric.
type expectedKey struct {
	cond   measure.ConditionKey
	metric measure.Metric
}

// CheckExpected compares replayed comparisons against the fixture's
// expected results, keyed by (condition, metric). Conditions missing
// from results report "skipped".
func (f *Fixture) CheckExpected(results []analysis.Comparison) []Divergence {
	byKey := make(map[expectedKey]analysis.Comparison, len(results))
	for _, c := range results {
		byKey[expectedKey{c.Condition, c.Metric}] = c
	}

	var divergences []Divergence
	for _, exp := range f.ExpectedResults {
		got, ok := byKey[expectedKey{exp.Condition, exp.Metric}]
		if !ok {
			if exp.Boundary != "skipped" {
				divergences = append(divergences, Divergence{
					Condition: exp.Condition,
					Metric:    exp.Metric,
					Expected:  exp.Boundary,
					Got:       "skipped",
				})
			}
			continue
		}
		if got.Boundary != exp.Boundary {
			divergences = append(divergences, Divergence{
				Condition: exp.Condition,
				Metric:    exp.Metric,
				Expected:  exp.Boundary,
				Got:       got.Boundary,
			})
		}
	}
	return divergences
}

// #endregion expectation-check
