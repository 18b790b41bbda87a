package domain

import "time"

// Ingestion job states. pending -> running -> completed|failed; terminal
// states are final, a job is only ever re-run as a new job.
const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// IngestionJob tracks one execution of a source adapter. Item-level failures
// accumulate in Errors without changing a completed status; only a run-level
// failure (adapter produced nothing) flips the job to failed.
type IngestionJob struct {
	ID             string     `json:"id"`
	Source         string     `json:"source"`
	Status         string     `json:"status"`
	CoursesFound   int        `json:"coursesFound"`
	CoursesUpdated int        `json:"coursesUpdated"`
	Errors         []string   `json:"errors,omitempty"`
	StartedAt      time.Time  `json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// JobUpdate is a partial update to a job record; nil fields are left
// untouched. Errors needs the flag because nil is also a meaningful value
// (no errors at all).
type JobUpdate struct {
	Status         *string
	CoursesFound   *int
	CoursesUpdated *int
	Errors         []string
	SetErrors      bool
	CompletedAt    *time.Time
}
