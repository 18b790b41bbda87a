package httpapi

import (
	"context"
	"sync/atomic"

	"coursehub-engine/internal/config"
	"coursehub-engine/internal/domain"
	"coursehub-engine/internal/events"
	"coursehub-engine/internal/search"
	"coursehub-engine/internal/store"
)

// Runner triggers ingestion runs. Satisfied by ingest.Controller; an
// interface here so handler tests don't need real adapters.
type Runner interface {
	RunSource(ctx context.Context, name string) (domain.IngestionJob, error)
	RunAll(ctx context.Context)
	SourceNames() []string
}

type Deps struct {
	Store  *store.Store
	Engine *search.Engine
	Runner Runner

	Hub *events.Hub

	// Atomic stores
	CfgVal       *atomic.Value // stores config.Config
	IngestStatus *atomic.Value // stores httpapi.IngestStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}
