package store

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-decision
// LogDecision writes a provenance entry to the decision_log table.
func (s *Store) LogDecision(entry DecisionEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO decision_log (run_id, condition, decision, reason, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.Condition,
		entry.Decision,
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}

// #endregion log-decision

// #region list-decisions
// ListDecisions returns a run's provenance entries in insertion order.
func (s *Store) ListDecisions(runID string) ([]DecisionEntry, error) {
	rows, err := s.db.Query(
		`SELECT run_id, condition, decision, reason, created_at
		 FROM decision_log WHERE run_id = ? ORDER BY id ASC`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var out []DecisionEntry
	for rows.Next() {
		var e DecisionEntry
		var reason sql.NullString
		var createdStr string
		if err := rows.Scan(&e.RunID, &e.Condition, &e.Decision, &reason, &createdStr); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		if reason.Valid {
			e.Reason = reason.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion list-decisions
