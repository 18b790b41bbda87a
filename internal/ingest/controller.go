// Package ingest orchestrates ingestion runs: it drives source adapters,
// normalizes what they emit, persists records, and keeps the per-run job
// record honest. Failures never escape this package as panics or errors to
// the scheduler; they end up in job state and logs.
package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"coursehub-engine/internal/domain"
	"coursehub-engine/internal/events"
	"coursehub-engine/internal/normalize"
	"coursehub-engine/internal/scrape/types"
)

// CatalogStore is the write side of the catalog the controller needs.
type CatalogStore interface {
	CreateOrUpdateCourse(ctx context.Context, rec domain.CourseRecord) (id string, created bool, err error)
}

// JobStore persists job lifecycle state. The controller is the only writer
// of any job it creates.
type JobStore interface {
	CreateJob(ctx context.Context, source string) (string, error)
	UpdateJob(ctx context.Context, id string, upd domain.JobUpdate) error
	GetJob(ctx context.Context, id string) (domain.IngestionJob, error)
}

type Controller struct {
	Catalog CatalogStore
	Jobs    JobStore
	Hub     *events.Hub // optional

	// Adapters in run order for RunAll.
	Adapters []types.Adapter

	// Pause between sources in RunAll, bounding simultaneous load on
	// external sites and the local store.
	InterSourcePause time.Duration
}

// RunSource executes one ingestion run for the named source. Item-level
// failures are recorded on the job and skipped; only an adapter that can't
// produce anything at all fails the job. The returned error is reserved for
// an unknown source name or job bookkeeping going wrong; a failed run is a
// normal result, not an error.
func (c *Controller) RunSource(ctx context.Context, name string) (domain.IngestionJob, error) {
	adapter := c.adapter(name)
	if adapter == nil {
		return domain.IngestionJob{}, fmt.Errorf("ingest: unknown source %q", name)
	}

	jobID, err := c.Jobs.CreateJob(ctx, name)
	if err != nil {
		return domain.IngestionJob{}, fmt.Errorf("ingest: create job: %w", err)
	}
	c.setStatus(ctx, jobID, domain.JobRunning)

	var (
		found    int
		updated  int
		itemErrs []string
	)

	now := time.Now().UTC()
	runErr := adapter.Fetch(ctx, func(it types.Item) {
		found++
		if it.Err != nil {
			itemErrs = append(itemErrs, fmt.Sprintf("item %d: %v", found, it.Err))
			return
		}

		rec, warns := normalize.Course(it.Raw, now)
		for _, w := range warns {
			log.Printf("[ingest:%s] data quality: %s (title=%q)", name, w, rec.Title)
		}

		id, created, perr := c.Catalog.CreateOrUpdateCourse(ctx, rec)
		if perr != nil {
			itemErrs = append(itemErrs, fmt.Sprintf("item %d (%s): persist: %v", found, rec.Title, perr))
			return
		}
		updated++
		if created {
			c.publish("course_created", map[string]any{"id": id, "source": name})
		}
	})

	status := domain.JobCompleted
	errs := itemErrs
	if runErr != nil {
		// run-level failure: the adapter produced nothing usable
		status = domain.JobFailed
		errs = []string{runErr.Error()}
		log.Printf("[ingest:%s] run failed: %v", name, runErr)
	}

	completed := time.Now().UTC()
	uerr := c.Jobs.UpdateJob(ctx, jobID, domain.JobUpdate{
		Status:         &status,
		CoursesFound:   &found,
		CoursesUpdated: &updated,
		Errors:         errs,
		SetErrors:      true,
		CompletedAt:    &completed,
	})
	if uerr != nil {
		return domain.IngestionJob{}, fmt.Errorf("ingest: finalize job: %w", uerr)
	}

	log.Printf("[ingest:%s] %s found=%d updated=%d errors=%d",
		name, status, found, updated, len(errs))
	c.publish("ingest_completed", map[string]any{
		"source": name, "status": status, "found": found, "updated": updated,
	})

	return c.Jobs.GetJob(ctx, jobID)
}

// RunAll runs every configured source strictly sequentially with a pause in
// between. One source failing is isolated to its own job record and never
// stops the sources after it.
func (c *Controller) RunAll(ctx context.Context) {
	log.Printf("[ingest] starting run of %d sources", len(c.Adapters))
	for i, a := range c.Adapters {
		if i > 0 && c.InterSourcePause > 0 {
			select {
			case <-ctx.Done():
				log.Printf("[ingest] run aborted: %v", ctx.Err())
				return
			case <-time.After(c.InterSourcePause):
			}
		}
		if _, err := c.RunSource(ctx, a.Name()); err != nil {
			log.Printf("[ingest:%s] %v", a.Name(), err)
		}
	}
	log.Printf("[ingest] run finished")
}

// SourceNames lists the configured sources in run order.
func (c *Controller) SourceNames() []string {
	out := make([]string, 0, len(c.Adapters))
	for _, a := range c.Adapters {
		out = append(out, a.Name())
	}
	return out
}

func (c *Controller) adapter(name string) types.Adapter {
	for _, a := range c.Adapters {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

func (c *Controller) setStatus(ctx context.Context, jobID, status string) {
	if err := c.Jobs.UpdateJob(ctx, jobID, domain.JobUpdate{Status: &status}); err != nil {
		log.Printf("[ingest] job %s status update failed: %v", jobID, err)
	}
}

func (c *Controller) publish(typ string, data map[string]any) {
	if c.Hub == nil {
		return
	}
	c.Hub.Publish(events.MakeEvent("", typ, 1, data))
}
