package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecordRun stores a finished load cycle. An empty ID is filled with a new
// UUID, which is returned.
func (s *Store) RecordRun(r LoadRun) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO load_runs (id, started_at, duration_ms, departments, activities, projects, todos, empty_sheets, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UTC().Format(time.RFC3339Nano), r.Duration.Milliseconds(),
		r.Departments, r.Activities, r.Projects, r.Todos,
		strings.Join(r.EmptySheets, ","), r.Error,
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return r.ID, nil
}

// ListRuns returns the most recent runs first. limit <= 0 means no limit.
func (s *Store) ListRuns(limit int) ([]LoadRun, error) {
	query := `SELECT id, started_at, duration_ms, departments, activities, projects, todos, empty_sheets, error
		FROM load_runs ORDER BY started_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []LoadRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LastSuccessfulRun returns the newest run without an error, or nil.
func (s *Store) LastSuccessfulRun() (*LoadRun, error) {
	row := s.db.QueryRow(
		`SELECT id, started_at, duration_ms, departments, activities, projects, todos, empty_sheets, error
		 FROM load_runs WHERE error = '' ORDER BY started_at DESC LIMIT 1`,
	)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last run: %w", err)
	}
	return &r, nil
}

// PruneRuns keeps the newest keep runs and deletes the rest.
func (s *Store) PruneRuns(keep int) error {
	_, err := s.db.Exec(
		`DELETE FROM load_runs WHERE id NOT IN (
			SELECT id FROM load_runs ORDER BY started_at DESC LIMIT ?
		)`, keep,
	)
	if err != nil {
		return fmt.Errorf("prune runs: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (LoadRun, error) {
	var r LoadRun
	var startedAt, empty string
	var durationMS int64
	err := sc.Scan(&r.ID, &startedAt, &durationMS, &r.Departments, &r.Activities,
		&r.Projects, &r.Todos, &empty, &r.Error)
	if err != nil {
		return r, err
	}
	r.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	r.Duration = time.Duration(durationMS) * time.Millisecond
	if empty != "" {
		r.EmptySheets = strings.Split(empty, ",")
	}
	return r, nil
}
