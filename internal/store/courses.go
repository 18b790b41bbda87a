package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"coursehub-engine/internal/domain"
)

var ErrNotFound = errors.New("not found")

const courseColumns = `
id, title, description, provider, provider_ref, category, skill_area,
duration_hours, price_before_subsidy, price_after_subsidy, subsidy_percentage,
available_seats, total_seats, start_date, end_date, registration_deadline,
frequency, mode, location, prerequisites, learning_outcomes, source_url,
last_updated, created_at`

// CreateOrUpdateCourse persists a normalized record as a single atomic
// upsert keyed on (provider, title, source_url). Re-observed courses are
// updated in place; their id and created_at survive. Returns the stored id
// and whether a new row was created.
func (s *Store) CreateOrUpdateCourse(ctx context.Context, rec domain.CourseRecord) (id string, created bool, err error) {
	stamp := rec.LastUpdated
	if stamp.IsZero() {
		stamp = time.Now()
	}
	stampStr := stamp.UTC().Format(time.RFC3339Nano)

	newID := rec.ID
	if newID == "" {
		newID = uuid.NewString()
	}
	prereqB, _ := json.Marshal(emptyAsList(rec.Prerequisites))
	outcomesB, _ := json.Marshal(emptyAsList(rec.LearningOutcomes))

	var createdAt string
	err = s.Pool.QueryRowContext(ctx, `
INSERT INTO courses (
  id, title, description, provider, provider_ref, category, skill_area,
  duration_hours, price_before_subsidy, price_after_subsidy, subsidy_percentage,
  available_seats, total_seats, start_date, end_date, registration_deadline,
  frequency, mode, location, prerequisites, learning_outcomes, source_url,
  last_updated, created_at
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(provider, title, source_url) DO UPDATE SET
  description = excluded.description,
  provider_ref = excluded.provider_ref,
  category = excluded.category,
  skill_area = excluded.skill_area,
  duration_hours = excluded.duration_hours,
  price_before_subsidy = excluded.price_before_subsidy,
  price_after_subsidy = excluded.price_after_subsidy,
  subsidy_percentage = excluded.subsidy_percentage,
  available_seats = excluded.available_seats,
  total_seats = excluded.total_seats,
  start_date = excluded.start_date,
  end_date = excluded.end_date,
  registration_deadline = excluded.registration_deadline,
  frequency = excluded.frequency,
  mode = excluded.mode,
  location = excluded.location,
  prerequisites = excluded.prerequisites,
  learning_outcomes = excluded.learning_outcomes,
  last_updated = excluded.last_updated
RETURNING id, created_at;`,
		newID, rec.Title, rec.Description, rec.Provider, rec.ProviderRef,
		rec.Category, rec.SkillArea, rec.DurationHours,
		rec.PriceBeforeSubsidy, rec.PriceAfterSubsidy, rec.SubsidyPercentage,
		rec.AvailableSeats, rec.TotalSeats,
		fmtTime(rec.StartDate), fmtTime(rec.EndDate), fmtTime(rec.RegistrationDeadline),
		rec.Frequency, rec.Mode, rec.Location,
		string(prereqB), string(outcomesB), rec.SourceURL,
		stampStr, stampStr,
	).Scan(&id, &createdAt)
	if err != nil {
		return "", false, fmt.Errorf("upsert course: %w", err)
	}
	// A fresh insert carries the created_at we just passed in.
	return id, createdAt == stampStr, nil
}

func (s *Store) FindCourseByID(ctx context.Context, id string) (domain.CourseRecord, error) {
	row := s.Pool.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ?;`, id)
	rec, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CourseRecord{}, ErrNotFound
	}
	return rec, err
}

// DistinctValues enumerates the known values of a filterable column.
// The column name is whitelisted, never interpolated from input.
func (s *Store) DistinctValues(ctx context.Context, field string) ([]string, error) {
	col := map[string]string{
		"category":   "category",
		"skill_area": "skill_area",
		"provider":   "provider",
	}[field]
	if col == "" {
		return nil, fmt.Errorf("distinct: unknown field %q", field)
	}

	rows, err := s.Pool.QueryContext(ctx, fmt.Sprintf(
		`SELECT DISTINCT %s FROM courses WHERE %s != '' ORDER BY %s;`, col, col, col))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(r rowScanner) (domain.CourseRecord, error) {
	var rec domain.CourseRecord
	var start, end, deadline, updated, created string
	var prereqJSON, outcomesJSON string

	err := r.Scan(
		&rec.ID, &rec.Title, &rec.Description, &rec.Provider, &rec.ProviderRef,
		&rec.Category, &rec.SkillArea, &rec.DurationHours,
		&rec.PriceBeforeSubsidy, &rec.PriceAfterSubsidy, &rec.SubsidyPercentage,
		&rec.AvailableSeats, &rec.TotalSeats,
		&start, &end, &deadline,
		&rec.Frequency, &rec.Mode, &rec.Location,
		&prereqJSON, &outcomesJSON, &rec.SourceURL,
		&updated, &created,
	)
	if err != nil {
		return rec, err
	}
	rec.StartDate = parseTime(start)
	rec.EndDate = parseTime(end)
	rec.RegistrationDeadline = parseTime(deadline)
	rec.LastUpdated = parseTime(updated)
	rec.CreatedAt = parseTime(created)
	_ = json.Unmarshal([]byte(prereqJSON), &rec.Prerequisites)
	_ = json.Unmarshal([]byte(outcomesJSON), &rec.LearningOutcomes)
	return rec, nil
}

// fmtTime keeps date columns at second precision so RFC3339 strings compare
// lexicographically; audit stamps (last_updated/created_at) keep nanos.
func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// emptyAsList keeps JSON columns as [] rather than null.
func emptyAsList(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
