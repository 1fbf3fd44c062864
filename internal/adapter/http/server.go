package adapthttp

import (
	"net/http"
	"time"

	"pregweight/internal/app"
	"pregweight/internal/domain"
)

// Services bundles the application services the HTTP adapter drives.
type Services struct {
	Weights   *app.WeightService
	Pregnancy *app.PregnancyService
	Profile   *app.ProfileService
	Analytics *app.AnalyticsService
	Charts    *app.ChartsService
	Imports   *app.ImportService
	Now       domain.Clock
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	weights   *app.WeightService
	pregnancy *app.PregnancyService
	profile   *app.ProfileService
	analytics *app.AnalyticsService
	charts    *app.ChartsService
	imports   *app.ImportService
	now       domain.Clock

	webDir   string
	pageSize int
}

// New creates a Server wired to the given application services. An empty
// webDir disables static file serving.
func New(svc Services, webDir string) *Server {
	now := svc.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		weights:   svc.Weights,
		pregnancy: svc.Pregnancy,
		profile:   svc.Profile,
		analytics: svc.Analytics,
		charts:    svc.Charts,
		imports:   svc.Imports,
		now:       now,
		webDir:    webDir,
		pageSize:  10,
	}
}

// WithPageSize sets the default page size of record listings.
func (s *Server) WithPageSize(n int) *Server {
	if n > 0 {
		s.pageSize = n
	}
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/weight/records", s.handleWeightRecords)
	api.HandleFunc("/weight/latest", s.handleWeightLatest)
	api.HandleFunc("/weight/recompute", s.handleWeightRecompute)

	api.HandleFunc("/pregnancy/start-date", s.handleStartDate)
	api.HandleFunc("/pregnancy/age", s.handlePregnancyAge)
	api.HandleFunc("/pregnancy/reconcile", s.handleReconcile)
	api.HandleFunc("/pregnancy/audit", s.handleAudit)

	api.HandleFunc("/profile", s.handleProfile)

	api.HandleFunc("/analytics/bmi", s.handleBMI)
	api.HandleFunc("/analytics/summary", s.handleSummary)

	api.HandleFunc("/charts/weight", s.handleChartsWeight)

	api.HandleFunc("/import", s.handleImport)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	if s.webDir != "" {
		root.Handle("/", spaFromDisk(s.webDir))
	}

	return withNoCache(s.loggingMiddleware(root))
}
