package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rintaras/protocol-comparison/analyzer/internal/analysis"
	"github.com/rintaras/protocol-comparison/analyzer/internal/fixture"
	"github.com/rintaras/protocol-comparison/analyzer/internal/measure"
	"github.com/rintaras/protocol-comparison/analyzer/internal/pipeline"
	"github.com/rintaras/protocol-comparison/analyzer/internal/store"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to recorded measurement fixture JSON")
	dbPath := flag.String("db", envOr("ANALYZER_DB", ""), "optional SQLite path to persist the run")
	desc := flag.String("desc", "", "run description stored alongside results")
	jsonOut := flag.Bool("json", false, "output comparisons as JSON instead of a table")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze --fixture path/to/rounds.json [--db results.db] [--desc text] [--json]")
		os.Exit(2)
	}

	os.Exit(run(*fixturePath, *dbPath, *desc, *jsonOut))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion main

// #region run

func run(fixturePath, dbPath, desc string, jsonOut bool) int {
	f, err := fixture.LoadFixture(fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	cfg := f.Config.WithDefaults()

	rounds := f.ToRounds()
	pipe := pipeline.New(cfg)
	summary := pipe.Run(rounds)
	results := pipe.Registry().All()

	if jsonOut {
		if err := printJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	} else {
		printResults(results, summary)
	}

	if dbPath != "" {
		runID, err := persist(dbPath, desc, cfg, rounds, results, summary)
		if err != nil {
			fmt.Fprintf(os.Stderr, "persist: %v\n", err)
			return 1
		}
		fmt.Printf("\nSaved run %s to %s\n", runID, dbPath)
	}

	if len(f.ExpectedResults) > 0 {
		if diverged := checkExpected(f, results); diverged {
			return 1
		}
	}
	return 0
}

// #endregion run

// #region persist

func persist(dbPath, desc string, cfg analysis.Config, rounds []pipeline.Round, results []analysis.Comparison, summary pipeline.Summary) (string, error) {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	rec := store.RunRecord{
		Description: desc,
		Config:      cfg,
		Comparisons: results,
		Batches:     collectBatches(cfg, rounds),
		Skips:       summary.Skips,
	}
	runID, err := st.SaveRun(rec)
	if err != nil {
		return "", err
	}

	// Journal one decision per condition so the skip/boundary provenance
	// survives next to the results.
	for _, c := range results {
		if err := st.LogDecision(store.DecisionEntry{
			RunID:     runID,
			Condition: c.Condition.String(),
			Decision:  string(c.Boundary),
			Reason:    fmt.Sprintf("diff=%+.1f%% significant=%v", c.RelativeDiffPct, c.Significant),
		}); err != nil {
			return "", err
		}
	}
	for _, sk := range summary.Skips {
		if err := st.LogDecision(store.DecisionEntry{
			RunID:     runID,
			Condition: sk.Condition.String(),
			Decision:  "skipped",
			Reason:    fmt.Sprintf("%s (%s)", sk.Reason, sk.Variant),
		}); err != nil {
			return "", err
		}
	}
	return runID, nil
}

// collectBatches flattens rounds into per-variant raw batches for storage.
func collectBatches(cfg analysis.Config, rounds []pipeline.Round) []measure.SampleBatch {
	var batches []measure.SampleBatch
	for _, r := range rounds {
		if r.Candidate != nil {
			batches = append(batches, measure.SampleBatch{
				Variant: cfg.Candidate, Condition: r.Condition, Metric: r.Metric, Samples: r.Candidate,
			})
		}
		if r.Baseline != nil {
			batches = append(batches, measure.SampleBatch{
				Variant: cfg.Baseline, Condition: r.Condition, Metric: r.Metric, Samples: r.Baseline,
			})
		}
	}
	return batches
}

// #endregion persist

// #region output

func printResults(results []analysis.Comparison, summary pipeline.Summary) {
	fmt.Printf("%-22s  %-11s  %10s  %10s  %8s  %-5s  %-21s  %s\n",
		"Condition", "Metric", "Candidate", "Baseline", "Diff", "Sig", "Boundary", "Superior")
	fmt.Printf("%-22s+-%-11s+-%10s+-%10s+-%8s+-%-5s+-%-21s+-%s\n",
		"----------------------", "-----------", "----------", "----------",
		"--------", "-----", "---------------------", "--------")

	for _, c := range results {
		superior := "—"
		if c.Superior != "" {
			superior = string(c.Superior)
		}
		fmt.Printf("%-22s  %-11s  %10.1f  %10.1f  %+7.1f%%  %-5v  %-21s  %s\n",
			c.Condition, c.Metric, c.Candidate.Mean, c.Baseline.Mean,
			c.RelativeDiffPct, c.Significant, c.Boundary, superior)
	}

	if len(summary.Skips) > 0 {
		fmt.Printf("\nSkipped conditions:\n")
		for _, sk := range summary.Skips {
			fmt.Printf("  %-22s  %s (%s)\n", sk.Condition, sk.Reason, sk.Variant)
		}
	}

	fmt.Printf("\nSummary: %d conditions, %d analyzed, %d crossover, %d close, %d stable, %d not significant, %d skipped\n",
		summary.Conditions, summary.Analyzed, summary.Crossovers, summary.Close,
		summary.Stable, summary.NotSignificant, len(summary.Skips))
}

// checkExpected prints the expected-vs-replayed table and reports divergence.
func checkExpected(f *fixture.Fixture, results []analysis.Comparison) bool {
	divergences := f.CheckExpected(results)

	fmt.Printf("\nExpected results: %d checked, %d diverge\n", len(f.ExpectedResults), len(divergences))
	for _, d := range divergences {
		fmt.Printf("  %-22s  %-11s  expected %-21s  got %s\n", d.Condition, d.Metric, d.Expected, d.Got)
	}
	return len(divergences) > 0
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// #endregion output
