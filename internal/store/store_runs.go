package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// StartRun records the beginning of a pipeline run.
func (s *Store) StartRun(ctx context.Context, runID string) (*Run, error) {
	if runID == "" {
		return nil, errors.New("run id is required")
	}
	now := time.Now().UTC()

	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO pipeline_runs (run_id, started_at, status) VALUES (?, ?, ?)`,
		runID,
		now.Format(time.RFC3339Nano),
		RunStatusRunning,
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	return s.GetRun(ctx, runID)
}

// FinishRun marks a run complete or failed and records its counters.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	if run.RunID == "" {
		return errors.New("run id is required")
	}
	now := time.Now().UTC()
	run.FinishedAt = &now

	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE pipeline_runs
         SET finished_at = ?, status = ?, item_count = ?, signal_count = ?,
             fallback_used = ?, error = ?
         WHERE run_id = ?`,
		nullableTime(run.FinishedAt),
		run.Status,
		run.ItemCount,
		run.SignalCount,
		boolToInt(run.FallbackUsed),
		nullableString(run.Error),
		run.RunID,
	); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// GetRun fetches a run record by its identifier.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM pipeline_runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM pipeline_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recently started run, or nil when none exist.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}
