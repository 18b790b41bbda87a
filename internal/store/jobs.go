package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"coursehub-engine/internal/domain"
)

// CreateJob opens a new ingestion job record in pending state.
func (s *Store) CreateJob(ctx context.Context, source string) (string, error) {
	id := uuid.NewString()
	_, err := s.Pool.ExecContext(ctx, `
INSERT INTO ingestion_jobs (id, source, status, started_at)
VALUES (?, ?, ?, ?);`,
		id, source, domain.JobPending, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateJob(ctx context.Context, id string, upd domain.JobUpdate) error {
	var sets []string
	var args []any

	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.CoursesFound != nil {
		sets = append(sets, "courses_found = ?")
		args = append(args, *upd.CoursesFound)
	}
	if upd.CoursesUpdated != nil {
		sets = append(sets, "courses_updated = ?")
		args = append(args, *upd.CoursesUpdated)
	}
	if upd.SetErrors {
		sets = append(sets, "errors = ?")
		if len(upd.Errors) == 0 {
			args = append(args, nil)
		} else {
			b, _ := json.Marshal(upd.Errors)
			args = append(args, string(b))
		}
	}
	if upd.CompletedAt != nil {
		sets = append(sets, "completed_at = ?")
		args = append(args, upd.CompletedAt.UTC().Format(time.RFC3339Nano))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	_, err := s.Pool.ExecContext(ctx,
		`UPDATE ingestion_jobs SET `+strings.Join(sets, ", ")+` WHERE id = ?;`, args...)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func (s *Store) GetJob(ctx context.Context, id string) (domain.IngestionJob, error) {
	row := s.Pool.QueryRowContext(ctx, `
SELECT id, source, status, courses_found, courses_updated, errors, started_at, completed_at
FROM ingestion_jobs WHERE id = ?;`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.IngestionJob{}, ErrNotFound
	}
	return job, err
}

// ListJobs returns recent jobs, newest first. The core never deletes them;
// retention is an operator concern.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]domain.IngestionJob, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.QueryContext(ctx, `
SELECT id, source, status, courses_found, courses_updated, errors, started_at, completed_at
FROM ingestion_jobs ORDER BY started_at DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.IngestionJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func scanJob(r rowScanner) (domain.IngestionJob, error) {
	var job domain.IngestionJob
	var errsJSON sql.NullString
	var started string
	var completed sql.NullString

	err := r.Scan(&job.ID, &job.Source, &job.Status,
		&job.CoursesFound, &job.CoursesUpdated, &errsJSON, &started, &completed)
	if err != nil {
		return job, err
	}
	job.StartedAt = parseTime(started)
	if completed.Valid {
		t := parseTime(completed.String)
		job.CompletedAt = &t
	}
	if errsJSON.Valid {
		_ = json.Unmarshal([]byte(errsJSON.String), &job.Errors)
	}
	return job, nil
}
