package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rintaras/protocol-comparison/analyzer/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", envOr("ANALYZER_DB", ""), "path to results database")
	runID := flag.String("run", "", "show single run detail (default: list runs)")
	last := flag.Int("last", 20, "show N most recent runs in list mode")
	decisions := flag.Bool("decisions", false, "include the decision journal in detail mode")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/results.db [--run id] [--last N] [--decisions] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if *runID != "" {
		err = runDetailMode(st, *runID, *decisions, *jsonOut)
	} else {
		err = runListMode(st, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type runRow struct {
	RunID       string `json:"run_id"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	Comparisons int    `json:"comparisons"`
	Skips       int    `json:"skips"`
}

func runListMode(st *store.Store, last int, jsonOut bool) error {
	metas, err := st.ListRuns(last)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	rows := make([]runRow, len(metas))
	for i, m := range metas {
		rows[i] = runRow{
			RunID:       m.RunID,
			Description: m.Description,
			CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
			Comparisons: m.Comparisons,
			Skips:       m.Skips,
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-12s  %-20s  %11s  %6s  %s\n", "Run", "Created", "Comparisons", "Skips", "Description")
	fmt.Printf("%-12s+-%-20s+-%11s+-%6s+-%s\n",
		"------------", "--------------------", "-----------", "------", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-12s  %-20s  %11d  %6d  %s\n",
			shortID(r.RunID), r.CreatedAt, r.Comparisons, r.Skips, r.Description)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(st *store.Store, runID string, decisions, jsonOut bool) error {
	rec, err := st.GetRun(runID)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(rec)
	}

	fmt.Printf("Run:         %s\n", rec.RunID)
	fmt.Printf("Created:     %s\n", rec.CreatedAt.Format("2006-01-02T15:04:05Z"))
	if rec.Description != "" {
		fmt.Printf("Description: %s\n", rec.Description)
	}
	fmt.Printf("Config:      k=%.1f confidence=%.2f policy=%s threshold=%.1f%%\n",
		rec.Config.OutlierK, rec.Config.Confidence, rec.Config.Policy, rec.Config.CrossoverThresholdPct)

	fmt.Printf("\n%-22s  %-11s  %10s  %10s  %8s  %-21s  %s\n",
		"Condition", "Metric", "Candidate", "Baseline", "Diff", "Boundary", "Superior")
	for _, c := range rec.Comparisons {
		superior := "—"
		if c.Superior != "" {
			superior = string(c.Superior)
		}
		fmt.Printf("%-22s  %-11s  %10.1f  %10.1f  %+7.1f%%  %-21s  %s\n",
			c.Condition, c.Metric, c.Candidate.Mean, c.Baseline.Mean,
			c.RelativeDiffPct, c.Boundary, superior)
	}

	if len(rec.Skips) > 0 {
		fmt.Printf("\nSkipped conditions:\n")
		for _, sk := range rec.Skips {
			fmt.Printf("  %-22s  %s (%s)\n", sk.Condition, sk.Reason, sk.Variant)
		}
	}

	if decisions {
		entries, err := st.ListDecisions(runID)
		if err != nil {
			return err
		}
		fmt.Printf("\nDecision journal:\n")
		for _, e := range entries {
			fmt.Printf("  %-22s  %-21s  %s\n", e.Condition, e.Decision, e.Reason)
		}
	}
	return nil
}

// #endregion detail-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion output
