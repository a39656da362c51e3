package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maternalab/gravida/internal/api/handlers"
	mw "github.com/maternalab/gravida/internal/api/middleware"
	"github.com/maternalab/gravida/internal/buildconfig"
	"github.com/maternalab/gravida/internal/config"
	"github.com/maternalab/gravida/internal/content"
	"github.com/maternalab/gravida/internal/domain"
	"github.com/maternalab/gravida/internal/embedding"
	"github.com/maternalab/gravida/internal/service"
	"github.com/maternalab/gravida/internal/store"
	"go.uber.org/zap"
)

// App holds the router and request metrics for lifecycle management.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	memoryStore := store.NewMemoryStore(db)
	profileStore := store.NewProfileStore(db)
	documentStore := store.NewDocumentStore(db)

	// External clients via provider factory
	timeout := config.ProviderTimeout()

	embeddingProvider := config.EmbeddingProvider()
	embeddingClient, err := embedding.NewClient(embeddingProvider, config.EmbeddingAPIKey(), timeout)
	if err != nil {
		logger.Warn("embedding client initialization failed", zap.String("provider", embeddingProvider), zap.Error(err))
	} else {
		logger.Info("embedding client initialized", zap.String("provider", embeddingProvider))
	}

	var embedder service.MemoryEmbedder
	if embeddingClient != nil {
		cache, err := embedding.NewCache(embeddingClient)
		if err != nil {
			logger.Warn("embedding cache initialization failed", zap.Error(err))
		} else {
			embedder = cache
		}
	}

	contentProvider := config.ContentProvider()
	contentClient, err := content.NewClient(contentProvider, config.ContentAPIKey(), config.OllamaHost(), timeout)
	if err != nil {
		logger.Warn("content client initialization failed", zap.String("provider", contentProvider), zap.Error(err))
	} else {
		logger.Info("content client initialized", zap.String("provider", contentProvider))
	}

	// Services
	memorySvc := service.NewMemoryService(memoryStore, embedder, contentClient, logger)
	retriever := service.NewRetriever(memoryStore, embedder, logger)
	planner := service.NewPlanner()
	executor := service.NewExecutor(memorySvc, profileStore, documentStore, contentClient, logger)
	responder := service.NewResponder(documentStore, contentClient, logger)
	timelineSvc := service.NewTimelineService(profileStore, logger)

	turnCfg := service.TurnConfig{
		RecentWindow:      config.TurnRecentWindow(),
		RelevantLimit:     config.TurnRelevantLimit(),
		MaxActions:        config.TurnMaxActions(),
		PriorityThreshold: config.TurnPriorityThreshold(),
	}
	orchestrator := service.NewOrchestrator(profileStore, documentStore, memorySvc, retriever, planner, executor, responder, turnCfg, logger)

	// Handlers
	chatHandler := handlers.NewChatHandler(orchestrator)
	profileHandler := handlers.NewProfileHandler(profileStore, documentStore)
	memoryHandler := handlers.NewMemoryHandler(memorySvc)
	timelineHandler := handlers.NewTimelineHandler(timelineSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.CountRequests(&app.requestCount, &app.errorCount))
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/chat", chatHandler.Message)

		r.Route("/profiles", func(r chi.Router) {
			r.Post("/", profileHandler.Create)
			r.Route("/{user_id}", func(r chi.Router) {
				r.Get("/", profileHandler.Get)
				r.Patch("/", profileHandler.Update)
				r.Post("/documents", profileHandler.AddDocument)
				r.Get("/documents", profileHandler.ListDocuments)
				r.Get("/timeline", timelineHandler.Get)
				r.Get("/timeline/upcoming", timelineHandler.Upcoming)
			})
		})

		r.Route("/memories", func(r chi.Router) {
			r.Post("/", memoryHandler.Create)
			r.Get("/recent", memoryHandler.Recent)
			r.Get("/by-kind", memoryHandler.ByKind)
			r.Get("/summary", memoryHandler.Summary)
		})
	})

	return app
}

// NewRouter returns just the chi.Mux.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": buildconfig.Version(),
			"commit":  buildconfig.Commit(),
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
			"build": buildconfig.VersionInfo(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.MemoryStore     = (*store.MemoryStore)(nil)
	_ domain.ProfileStore    = (*store.ProfileStore)(nil)
	_ domain.DocumentStore   = (*store.DocumentStore)(nil)
	_ domain.EmbeddingClient = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient = (*embedding.HashClient)(nil)
	_ domain.EmbeddingClient = (*embedding.MockClient)(nil)
	_ domain.ContentClient   = (*content.Client)(nil)
	_ domain.ContentClient   = (*content.MockClient)(nil)
	_ service.MemoryEmbedder = (*embedding.Cache)(nil)
)
