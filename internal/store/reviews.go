package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AddReview records one rating for a course. Review CRUD proper lives
// outside the engine; this exists because ratings feed the rating sort key.
func (s *Store) AddReview(ctx context.Context, courseID string, rating int, comment string) (string, error) {
	if rating < 1 || rating > 5 {
		return "", fmt.Errorf("add review: rating %d out of range", rating)
	}
	id := uuid.NewString()
	_, err := s.Pool.ExecContext(ctx, `
INSERT INTO reviews (id, course_id, rating, comment, created_at)
VALUES (?, ?, ?, ?, ?);`,
		id, courseID, rating, comment, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("add review: %w", err)
	}
	return id, nil
}

// UpsertSavedCourse is the atomic save bookmark: one row per (user, course),
// re-saving just refreshes the timestamp. Save counts feed the popularity
// sort key.
func (s *Store) UpsertSavedCourse(ctx context.Context, userID, courseID string) error {
	_, err := s.Pool.ExecContext(ctx, `
INSERT INTO saved_courses (id, user_id, course_id, saved_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(user_id, course_id) DO UPDATE SET saved_at = excluded.saved_at;`,
		uuid.NewString(), userID, courseID, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save course: %w", err)
	}
	return nil
}

func (s *Store) RemoveSavedCourse(ctx context.Context, userID, courseID string) error {
	_, err := s.Pool.ExecContext(ctx,
		`DELETE FROM saved_courses WHERE user_id = ? AND course_id = ?;`, userID, courseID)
	return err
}
