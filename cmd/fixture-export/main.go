package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/rintaras/protocol-comparison/analyzer/internal/fixture"
	"github.com/rintaras/protocol-comparison/analyzer/internal/measure"
	"github.com/rintaras/protocol-comparison/analyzer/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to results database")
	runID := flag.String("run", "", "run to export (default: most recent)")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/results.db --out path/to/fixture.json [--run id]")
		os.Exit(2)
	}

	if err := run(*dbPath, *runID, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

func run(dbPath, runID, outPath string) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	if runID == "" {
		runID, err = st.LatestRunID()
		if err != nil {
			return err
		}
	}

	rec, err := st.GetRun(runID)
	if err != nil {
		return err
	}
	if len(rec.Batches) == 0 {
		return fmt.Errorf("run %s has no stored sample batches", runID)
	}

	f := buildFixture(rec)
	if err := fixture.WriteFixture(f, outPath); err != nil {
		return err
	}

	fmt.Printf("Wrote fixture to %s (%d rounds, %d expected results)\n",
		outPath, len(f.Rounds), len(f.ExpectedResults))
	return nil
}

// #endregion export

// #region build

// roundKey groups batches back into per-condition rounds.
type roundKey struct {
	condition measure.ConditionKey
	metric    measure.Metric
}

func buildFixture(rec store.RunRecord) *fixture.Fixture {
	grouped := make(map[roundKey]*fixture.FixtureRound)
	var order []roundKey

	for _, b := range rec.Batches {
		key := roundKey{b.Condition, b.Metric}
		fr, ok := grouped[key]
		if !ok {
			fr = &fixture.FixtureRound{Condition: b.Condition, Metric: b.Metric}
			grouped[key] = fr
			order = append(order, key)
		}
		switch b.Variant {
		case rec.Config.Candidate:
			fr.Candidate = b.Samples
		case rec.Config.Baseline:
			fr.Baseline = b.Samples
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].condition != order[j].condition {
			return order[i].condition.Less(order[j].condition)
		}
		return order[i].metric < order[j].metric
	})

	rounds := make([]fixture.FixtureRound, len(order))
	for i, key := range order {
		rounds[i] = *grouped[key]
	}

	expected := make([]fixture.FixtureExpected, len(rec.Comparisons))
	for i, c := range rec.Comparisons {
		expected[i] = fixture.FixtureExpected{
			Condition: c.Condition,
			Metric:    c.Metric,
			Boundary:  c.Boundary,
		}
	}

	return &fixture.Fixture{
		Description:     fmt.Sprintf("Export of run %s: %d rounds with observed classifications", rec.RunID, len(rounds)),
		Config:          rec.Config,
		Rounds:          rounds,
		ExpectedResults: expected,
	}
}

// #endregion build
