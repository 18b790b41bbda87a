package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"coursehub-engine/internal/store"
)

type IngestHandler struct {
	Store        *store.Store
	Runner       Runner
	IngestStatus *atomic.Value // httpapi.IngestStatus
}

func (h IngestHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.IngestStatus.Load().(IngestStatus)
	writeJSON(w, st)
}

// Run kicks off an ingestion run in the background: all sources, or just the
// one named by ?source=. Overlapping runs are refused rather than queued.
func (h IngestHandler) Run(w http.ResponseWriter, r *http.Request) {
	source := strings.TrimSpace(r.URL.Query().Get("source"))
	if source != "" && !h.knownSource(source) {
		WriteError(w, r, http.StatusBadRequest, "unknown_source", "unknown source "+source)
		return
	}

	st := h.IngestStatus.Load().(IngestStatus)
	if st.Running {
		WriteError(w, r, http.StatusConflict, "already_running", "an ingestion run is already in progress")
		return
	}

	h.IngestStatus.Store(IngestStatus{
		LastRunAt: time.Now().Format(time.RFC3339),
		LastOkAt:  st.LastOkAt,
		Running:   true,
		Source:    source,
	})

	go func() {
		ctx := context.Background()
		var runErr error
		if source != "" {
			_, runErr = h.Runner.RunSource(ctx, source)
		} else {
			h.Runner.RunAll(ctx)
		}

		now := time.Now().Format(time.RFC3339)
		next := h.IngestStatus.Load().(IngestStatus)
		next.Running = false
		next.Source = ""
		next.LastRunAt = now
		if runErr != nil {
			next.LastError = runErr.Error()
		} else {
			next.LastError = ""
			next.LastOkAt = now
		}
		h.IngestStatus.Store(next)
	}()

	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true, "source": source})
}

func (h IngestHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid limit")
			return
		}
		limit = n
	}

	jobs, err := h.Store.ListJobs(r.Context(), limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "jobs_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{"jobs": jobs})
}

func (h IngestHandler) GetJobByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/ingest/jobs/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "job id required")
		return
	}

	job, err := h.Store.GetJob(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, "not_found", "job not found")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "jobs_failed", err.Error())
		return
	}
	writeJSON(w, job)
}

func (h IngestHandler) knownSource(name string) bool {
	for _, s := range h.Runner.SourceNames() {
		if s == name {
			return true
		}
	}
	return false
}
