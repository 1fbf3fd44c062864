package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "pregweight/internal/adapter/http"
	"pregweight/internal/adapter/memory"
	"pregweight/internal/adapter/postgres"
	"pregweight/internal/adapter/sqlite"
	"pregweight/internal/app"
	"pregweight/internal/config"
	"pregweight/internal/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("store open: %v", err)
	}
	defer func() { _ = closeStore() }()

	now := time.Now
	weightSvc := app.NewWeightService(store, now)
	pregnancySvc := app.NewPregnancyService(store, weightSvc, now)
	profileSvc := app.NewProfileService(store)
	importSvc := app.NewImportService(weightSvc, pregnancySvc, now)

	ctx := context.Background()
	if err := profileSvc.EnsureDefaults(ctx); err != nil {
		log.Fatalf("profile defaults: %v", err)
	}
	if _, err := pregnancySvc.Initialize(ctx); err != nil {
		log.Fatalf("initialize: %v", err)
	}
	if cfg.ImportFile != "" {
		res, err := importSvc.ImportFile(ctx, cfg.ImportFile)
		if err != nil {
			log.Printf("import %s: %v", cfg.ImportFile, err)
		} else if res.Skipped {
			log.Printf("import %s skipped: %s", cfg.ImportFile, res.Reason)
		}
	}

	h := adapthttp.New(adapthttp.Services{
		Weights:   weightSvc,
		Pregnancy: pregnancySvc,
		Profile:   profileSvc,
		Analytics: app.NewAnalyticsService(weightSvc, profileSvc, pregnancySvc, now),
		Charts:    app.NewChartsService(weightSvc),
		Imports:   importSvc,
		Now:       now,
	}, cfg.WebDir).WithPageSize(cfg.PageSize).Handler()

	srv := &http.Server{Addr: cfg.Addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigs
		log.Printf("received %v, shutting down", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s (store=%s)", cfg.Addr, cfg.Store)
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	if err := serve(srv, ln, done); err != nil {
		log.Fatal(err)
	}
}

// serve runs srv until it fails or is shut down. After a shutdown it blocks
// until done is closed, so in-flight requests finish before the store closes.
func serve(srv *http.Server, ln net.Listener, done <-chan struct{}) error {
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}

func openStore(cfg *config.Config) (domain.Store, func() error, error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.StoreMemory:
		log.Printf("using in-memory store; data is lost on exit")
		return memory.New(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}
