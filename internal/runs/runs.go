package runs

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusRunning = "running"
	StatusPassed  = "passed"
	StatusFailed  = "failed"
)

// Run is one journal entry: a single pipeline invocation with its outcome
// counts.
type Run struct {
	ID           string
	Command      string
	SceneFilter  []string
	Status       string
	ErrorCount   int
	WarningCount int
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// Begin records the start of a pipeline invocation and returns its id, which
// doubles as the correlation id on every log line of the run.
func (s *Store) Begin(ctx context.Context, command string, sceneFilter []string) (string, error) {
	id := uuid.NewString()
	err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, command, scene_filter, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, command, strings.Join(sceneFilter, ","), StatusRunning,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("record run start: %w", err)
	}
	return id, nil
}

// Finish closes a run with its outcome and issue counts.
func (s *Store) Finish(ctx context.Context, id, status string, errorCount, warningCount int) error {
	err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, error_count = ?, warning_count = ?, finished_at = ? WHERE id = ?`,
		status, errorCount, warningCount, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}
	return nil
}

// Recent returns the newest runs, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, scene_filter, status, error_count, warning_count, started_at, finished_at
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run        Run
			filter     string
			startedAt  string
			finishedAt sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Command, &filter, &run.Status,
			&run.ErrorCount, &run.WarningCount, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if filter != "" {
			run.SceneFilter = strings.Split(filter, ",")
		}
		if run.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
			return nil, fmt.Errorf("parse run start time: %w", err)
		}
		if finishedAt.Valid {
			t, err := time.Parse(time.RFC3339, finishedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse run finish time: %w", err)
			}
			run.FinishedAt = &t
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
