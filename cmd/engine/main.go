package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"coursehub-engine/internal/config"
	"coursehub-engine/internal/events"
	"coursehub-engine/internal/httpapi"
	"coursehub-engine/internal/ingest"
	"coursehub-engine/internal/scheduler"
	"coursehub-engine/internal/scrape/portal"
	"coursehub-engine/internal/scrape/sample"
	"coursehub-engine/internal/scrape/skillsfuture"
	"coursehub-engine/internal/scrape/types"
	"coursehub-engine/internal/scrape/util"
	"coursehub-engine/internal/search"
	"coursehub-engine/internal/secrets"
	"coursehub-engine/internal/store"
)

func main() {
	// .env is optional; real env always wins
	_ = godotenv.Load()

	dataDir := os.Getenv("COURSEHUB_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir; a second instance would fight over the
	// sqlite file and double-scrape sources.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("data dir lock: %v", err)
	}
	if !locked {
		log.Fatalf("another engine instance already owns %s", dataDir)
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	if vr := config.Validate(cfg); !vr.OK() {
		log.Fatalf("config invalid (%s): %v", userCfgPath, vr.Err())
	} else {
		for _, warn := range vr.Warnings {
			log.Printf("[config] warning: %s", warn)
		}
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "coursehub.db")
	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()
	if err := st.Migrate(); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	controller := &ingest.Controller{
		Catalog:          st,
		Jobs:             st,
		Hub:              hub,
		Adapters:         buildAdapters(cfg),
		InterSourcePause: cfg.InterSourcePause(),
	}
	log.Printf("[engine] sources enabled: %v", controller.SourceNames())

	sched, err := scheduler.New(cfg.Schedule.DailyCron, cfg.StartupDelay(), func(ctx context.Context) {
		controller.RunAll(ctx)
	})
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	ingestStatus := &atomic.Value{}
	ingestStatus.Store(httpapi.IngestStatus{})

	mux := httpapi.NewMux(httpapi.Deps{
		Store:        st,
		Engine:       &search.Engine{Catalog: st},
		Runner:       controller,
		Hub:          hub,
		CfgVal:       &cfgVal,
		IngestStatus: ingestStatus,
		UserCfgPath:  userCfgPath,
		LoadCfg:      loadCfg,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Handler:           httpapi.Chain(mux, httpapi.RequestID, httpapi.Cors, httpapi.Recover, httpapi.AccessLog),
		ReadHeaderTimeout: 5 * time.Second,
	}

	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))
	log.Printf("engine listening on http://%s (db=%s) shutdown_token=%s", addr, dbPath, token)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
	log.Printf("engine stopped")
}

func buildAdapters(cfg config.Config) []types.Adapter {
	limiter := util.NewHostLimiter(cfg.RequestDelay())

	var out []types.Adapter
	if cfg.Sources.SkillsFuture.Enabled {
		out = append(out, skillsfuture.New(cfg.Sources.SkillsFuture, limiter, cfg.Scraping.MaxConcurrent))
	}
	if cfg.Sources.Portal.Enabled {
		p := cfg.Sources.Portal
		account := p.KeyringAccount
		if account == "" {
			account = secrets.PortalKeyringAccount(p.Username)
		}
		out = append(out, portal.New(portal.Config{
			BaseURL:        p.BaseURL,
			Username:       p.Username,
			KeyringAccount: account,
			PageSize:       p.PageSize,
		}, limiter, secrets.GetPortalPassword))
	}
	if cfg.Sources.Sample.Enabled {
		out = append(out, sample.New())
	}
	return out
}
