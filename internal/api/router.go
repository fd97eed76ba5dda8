package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/doxa/internal/api/handlers"
	mw "github.com/Harshitk-cp/doxa/internal/api/middleware"
	"github.com/Harshitk-cp/doxa/internal/buildconfig"
	"github.com/Harshitk-cp/doxa/internal/config"
	"github.com/Harshitk-cp/doxa/internal/domain"
	"github.com/Harshitk-cp/doxa/internal/service"
	"github.com/Harshitk-cp/doxa/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router       *chi.Mux
	Sweeper      *service.SweeperService
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(logger *zap.Logger) *App {
	// Stores
	sessionStore := store.NewSessionStore()

	// Services
	sessionSvc := service.NewSessionService(sessionStore, logger)
	revisionSvc := service.NewRevisionService(logger)
	sweeperSvc := service.NewSweeperService(sessionStore, config.SessionTTL(), logger)
	sweeperSvc.SetInterval(config.SweepInterval())

	// Handlers
	sessionHandler := handlers.NewSessionHandler(sessionSvc)
	beliefHandler := handlers.NewBeliefHandler(sessionSvc, revisionSvc)
	cnfHandler := handlers.NewCNFHandler()

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Sweeper:   sweeperSvc,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health and metrics (no auth)
	r.Get("/health", app.healthHandler())
	r.Get("/metrics", app.metricsHandler())

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		// Stateless normalization
		r.Post("/cnf", cnfHandler.Normalize)

		// Sessions and their belief bases
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Get("/", sessionHandler.List)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Delete)
				r.Get("/beliefs", beliefHandler.List)
				r.Post("/expand", beliefHandler.Expand)
				r.Post("/contract", beliefHandler.Contract)
				r.Post("/revise", beliefHandler.Revise)
				r.Post("/entails", beliefHandler.Entails)
				r.Post("/remove", beliefHandler.Remove)
			})
		})
	})

	return app
}

// NewRouter returns just the chi.Mux for callers that manage no lifecycle.
func NewRouter(logger *zap.Logger) *chi.Mux {
	return NewApp(logger).Router
}

func (app *App) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": buildconfig.Version(),
			"uptime":  time.Since(app.startTime).Round(time.Second).String(),
		})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure the store satisfies its domain interface at compile time.
var _ domain.SessionStore = (*store.SessionStore)(nil)
