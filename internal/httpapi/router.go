package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach extras that need
// server state.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Health
	hh := HealthHandler{Store: d.Store}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Courses
	crh := CoursesHandler{Engine: d.Engine, Store: d.Store}
	mux.HandleFunc("/courses", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: crh.Search,
	}))
	mux.HandleFunc("/courses/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: crh.GetByPath, // expects /courses/{id}
	}))

	// Facet values for filter dropdowns
	mh := MetaHandler{Store: d.Store, Runner: d.Runner}
	mux.HandleFunc("/meta/categories", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: mh.Categories,
	}))
	mux.HandleFunc("/meta/skill-areas", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: mh.SkillAreas,
	}))
	mux.HandleFunc("/meta/providers", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: mh.Providers,
	}))
	mux.HandleFunc("/meta/sources", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: mh.Sources,
	}))

	// Ingestion
	ih := IngestHandler{
		Store:        d.Store,
		Runner:       d.Runner,
		IngestStatus: d.IngestStatus,
	}
	mux.HandleFunc("/ingest/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ih.Run,
	}))
	mux.HandleFunc("/ingest/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ih.Status,
	}))
	mux.HandleFunc("/ingest/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ih.ListJobs,
	}))
	mux.HandleFunc("/ingest/jobs/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ih.GetJobByPath, // expects /ingest/jobs/{id}
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		Hub:         d.Hub,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// Secrets (use cfgVal, NOT a snapshot cfg)
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/portal", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetPortalPassword,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
