package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rintaras/protocol-comparison/analyzer/internal/analysis"
	"github.com/rintaras/protocol-comparison/analyzer/internal/measure"
	"github.com/rintaras/protocol-comparison/analyzer/internal/pipeline"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	run_id       TEXT PRIMARY KEY,
	description  TEXT,
	config_json  TEXT NOT NULL,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS comparisons (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id            TEXT NOT NULL,
	delay_ms          INTEGER NOT NULL,
	loss_pct          REAL NOT NULL,
	bandwidth_mbps    REAL NOT NULL,
	metric            TEXT NOT NULL,
	cand_mean         REAL NOT NULL,
	cand_std          REAL NOT NULL,
	cand_valid        INTEGER NOT NULL,
	cand_total        INTEGER NOT NULL,
	base_mean         REAL NOT NULL,
	base_std          REAL NOT NULL,
	base_valid        INTEGER NOT NULL,
	base_total        INTEGER NOT NULL,
	relative_diff_pct REAL NOT NULL,
	significant       INTEGER NOT NULL,
	boundary_type     TEXT NOT NULL,
	superior          TEXT,
	FOREIGN KEY (run_id) REFERENCES analysis_runs(run_id)
);

CREATE TABLE IF NOT EXISTS sample_batches (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id         TEXT NOT NULL,
	delay_ms       INTEGER NOT NULL,
	loss_pct       REAL NOT NULL,
	bandwidth_mbps REAL NOT NULL,
	metric         TEXT NOT NULL,
	variant        TEXT NOT NULL,
	samples_json   TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES analysis_runs(run_id)
);

CREATE TABLE IF NOT EXISTS skipped_conditions (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id         TEXT NOT NULL,
	delay_ms       INTEGER NOT NULL,
	loss_pct       REAL NOT NULL,
	bandwidth_mbps REAL NOT NULL,
	metric         TEXT NOT NULL,
	variant        TEXT NOT NULL,
	reason         TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES analysis_runs(run_id)
);

CREATE TABLE IF NOT EXISTS decision_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	condition   TEXT NOT NULL,
	decision    TEXT NOT NULL,
	reason      TEXT,
	created_at  TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES analysis_runs(run_id)
);

CREATE INDEX IF NOT EXISTS idx_comparisons_run
ON comparisons(run_id, delay_ms, loss_pct, bandwidth_mbps);
`

// #endregion schema

// #region store-struct
// Store persists analysis runs in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region save-run
// SaveRun persists a complete run atomically. A missing RunID or
// CreatedAt is filled in. Returns the run ID.
func (s *Store) SaveRun(rec RunRecord) (string, error) {
	if rec.RunID == "" {
		rec.RunID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	cfgJSON, err := json.Marshal(rec.Config)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO analysis_runs (run_id, description, config_json, created_at)
		 VALUES (?, ?, ?, ?)`,
		rec.RunID, nullIfEmpty(rec.Description), string(cfgJSON),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, c := range rec.Comparisons {
		significant := 0
		if c.Significant {
			significant = 1
		}
		_, err = tx.Exec(
			`INSERT INTO comparisons
			 (run_id, delay_ms, loss_pct, bandwidth_mbps, metric,
			  cand_mean, cand_std, cand_valid, cand_total,
			  base_mean, base_std, base_valid, base_total,
			  relative_diff_pct, significant, boundary_type, superior)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.RunID, c.Condition.DelayMs, c.Condition.LossPct, c.Condition.BandwidthMbps,
			string(c.Metric),
			c.Candidate.Mean, c.Candidate.StdDev, c.Candidate.ValidCount, c.Candidate.TotalCount,
			c.Baseline.Mean, c.Baseline.StdDev, c.Baseline.ValidCount, c.Baseline.TotalCount,
			c.RelativeDiffPct, significant, string(c.Boundary), nullIfEmpty(string(c.Superior)),
		)
		if err != nil {
			return "", fmt.Errorf("insert comparison %s: %w", c.Condition, err)
		}
	}

	for _, b := range rec.Batches {
		samplesJSON, err := json.Marshal(b.Samples)
		if err != nil {
			return "", fmt.Errorf("marshal samples: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO sample_batches (run_id, delay_ms, loss_pct, bandwidth_mbps, metric, variant, samples_json)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.RunID, b.Condition.DelayMs, b.Condition.LossPct, b.Condition.BandwidthMbps,
			string(b.Metric), string(b.Variant), string(samplesJSON),
		)
		if err != nil {
			return "", fmt.Errorf("insert batch %s/%s: %w", b.Condition, b.Variant, err)
		}
	}

	for _, sk := range rec.Skips {
		_, err = tx.Exec(
			`INSERT INTO skipped_conditions (run_id, delay_ms, loss_pct, bandwidth_mbps, metric, variant, reason)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.RunID, sk.Condition.DelayMs, sk.Condition.LossPct, sk.Condition.BandwidthMbps,
			string(sk.Metric), string(sk.Variant), string(sk.Reason),
		)
		if err != nil {
			return "", fmt.Errorf("insert skip %s: %w", sk.Condition, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return rec.RunID, nil
}

// #endregion save-run

// #region get-run
// GetRun loads a full run by ID.
func (s *Store) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord
	var desc sql.NullString
	var cfgJSON, createdStr string

	err := s.db.QueryRow(
		`SELECT run_id, description, config_json, created_at FROM analysis_runs WHERE run_id = ?`,
		runID,
	).Scan(&rec.RunID, &desc, &cfgJSON, &createdStr)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	if desc.Valid {
		rec.Description = desc.String
	}
	if err := json.Unmarshal([]byte(cfgJSON), &rec.Config); err != nil {
		return RunRecord{}, fmt.Errorf("unmarshal config: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)

	if rec.Comparisons, err = s.loadComparisons(runID); err != nil {
		return RunRecord{}, err
	}
	if rec.Batches, err = s.loadBatches(runID); err != nil {
		return RunRecord{}, err
	}
	if rec.Skips, err = s.loadSkips(runID); err != nil {
		return RunRecord{}, err
	}
	return rec, nil
}

// LatestRunID returns the most recently created run.
func (s *Store) LatestRunID() (string, error) {
	var runID string
	err := s.db.QueryRow(
		`SELECT run_id FROM analysis_runs ORDER BY created_at DESC LIMIT 1`,
	).Scan(&runID)
	if err != nil {
		return "", fmt.Errorf("latest run: %w", err)
	}
	return runID, nil
}

// #endregion get-run

// #region list-runs
// ListRuns returns metadata for the most recent runs.
func (s *Store) ListRuns(limit int) ([]RunMeta, error) {
	rows, err := s.db.Query(
		`SELECT r.run_id, r.description, r.created_at,
		        (SELECT COUNT(*) FROM comparisons c WHERE c.run_id = r.run_id),
		        (SELECT COUNT(*) FROM skipped_conditions sk WHERE sk.run_id = r.run_id)
		 FROM analysis_runs r ORDER BY r.created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var metas []RunMeta
	for rows.Next() {
		var m RunMeta
		var desc sql.NullString
		var createdStr string
		if err := rows.Scan(&m.RunID, &desc, &createdStr, &m.Comparisons, &m.Skips); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if desc.Valid {
			m.Description = desc.String
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// #endregion list-runs

// #region loaders

func (s *Store) loadComparisons(runID string) ([]analysis.Comparison, error) {
	rows, err := s.db.Query(
		`SELECT delay_ms, loss_pct, bandwidth_mbps, metric,
		        cand_mean, cand_std, cand_valid, cand_total,
		        base_mean, base_std, base_valid, base_total,
		        relative_diff_pct, significant, boundary_type, superior
		 FROM comparisons WHERE run_id = ?
		 ORDER BY delay_ms, loss_pct, bandwidth_mbps, metric`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load comparisons: %w", err)
	}
	defer rows.Close()

	var out []analysis.Comparison
	for rows.Next() {
		var c analysis.Comparison
		var metric, boundary string
		var superior sql.NullString
		var significant int
		err := rows.Scan(
			&c.Condition.DelayMs, &c.Condition.LossPct, &c.Condition.BandwidthMbps, &metric,
			&c.Candidate.Mean, &c.Candidate.StdDev, &c.Candidate.ValidCount, &c.Candidate.TotalCount,
			&c.Baseline.Mean, &c.Baseline.StdDev, &c.Baseline.ValidCount, &c.Baseline.TotalCount,
			&c.RelativeDiffPct, &significant, &boundary, &superior,
		)
		if err != nil {
			return nil, fmt.Errorf("scan comparison: %w", err)
		}
		c.Metric = measure.Metric(metric)
		c.Significant = significant == 1
		c.Boundary = analysis.BoundaryType(boundary)
		if superior.Valid {
			c.Superior = measure.Variant(superior.String)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) loadBatches(runID string) ([]measure.SampleBatch, error) {
	rows, err := s.db.Query(
		`SELECT delay_ms, loss_pct, bandwidth_mbps, metric, variant, samples_json
		 FROM sample_batches WHERE run_id = ?
		 ORDER BY delay_ms, loss_pct, bandwidth_mbps, metric, variant`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load batches: %w", err)
	}
	defer rows.Close()

	var out []measure.SampleBatch
	for rows.Next() {
		var b measure.SampleBatch
		var metric, variant, samplesJSON string
		err := rows.Scan(
			&b.Condition.DelayMs, &b.Condition.LossPct, &b.Condition.BandwidthMbps,
			&metric, &variant, &samplesJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.Metric = measure.Metric(metric)
		b.Variant = measure.Variant(variant)
		if err := json.Unmarshal([]byte(samplesJSON), &b.Samples); err != nil {
			return nil, fmt.Errorf("unmarshal samples: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) loadSkips(runID string) ([]pipeline.Skip, error) {
	rows, err := s.db.Query(
		`SELECT delay_ms, loss_pct, bandwidth_mbps, metric, variant, reason
		 FROM skipped_conditions WHERE run_id = ?
		 ORDER BY delay_ms, loss_pct, bandwidth_mbps`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load skips: %w", err)
	}
	defer rows.Close()

	var out []pipeline.Skip
	for rows.Next() {
		var sk pipeline.Skip
		var metric, variant, reason string
		err := rows.Scan(
			&sk.Condition.DelayMs, &sk.Condition.LossPct, &sk.Condition.BandwidthMbps,
			&metric, &variant, &reason,
		)
		if err != nil {
			return nil, fmt.Errorf("scan skip: %w", err)
		}
		sk.Metric = measure.Metric(metric)
		sk.Variant = measure.Variant(variant)
		sk.Reason = pipeline.SkipReason(reason)
		out = append(out, sk)
	}
	return out, rows.Err()
}

// #endregion loaders

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
