package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"sitetrack/internal/cache"
	"sitetrack/internal/catalog"
	"sitetrack/internal/middleware/ratelimit"
	"sitetrack/internal/middleware/security"
	"sitetrack/internal/middleware/trace"
	"sitetrack/internal/report"
	"sitetrack/internal/services"
)

// Config carries the server's tunables.
type Config struct {
	Addr             string
	FlattenChunkSize int
}

type Server struct {
	http.Server
	catalogSvc  *services.CatalogService
	progressSvc *services.ProgressService

	flattenChunk int

	// Derived report reads are cached per project; any write under the same
	// project invalidates by key prefix.
	reportCache    *cache.LRUCache[report.MonthlyReport]
	dashboardCache *cache.LRUCache[report.DashboardSummary]
	cacheManager   *cache.Manager

	rateLimiter  *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg Config, catalogSvc *services.CatalogService, progressSvc *services.ProgressService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		catalogSvc:   catalogSvc,
		progressSvc:  progressSvc,
		flattenChunk: cfg.FlattenChunkSize,

		reportCache:    cache.NewLRUCache[report.MonthlyReport](100, 5*time.Minute),
		dashboardCache: cache.NewLRUCache[report.DashboardSummary](200, 5*time.Minute),
		cacheManager:   cache.NewManager(),

		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}
	if s.flattenChunk <= 0 {
		s.flattenChunk = catalog.DefaultFlattenChunk
	}

	s.cacheManager.Register(s.reportCache)
	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	// Catalog tree and bulk transfer
	mux.HandleFunc("GET /api/catalog", s.handleHierarchy)
	mux.HandleFunc("GET /api/catalog/flat", s.handleFlatten)
	mux.HandleFunc("POST /api/catalog/import", s.handleImport)
	mux.HandleFunc("GET /api/catalog/export", s.handleExport)

	// Catalog node CRUD
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)
	mux.HandleFunc("POST /api/activities", s.handleCreateActivity)
	mux.HandleFunc("PUT /api/activities/{id}", s.handleUpdateActivity)
	mux.HandleFunc("DELETE /api/activities/{id}", s.handleDeleteActivity)
	mux.HandleFunc("POST /api/subtasks", s.handleCreateSubTask)
	mux.HandleFunc("PUT /api/subtasks/{id}", s.handleUpdateSubTask)
	mux.HandleFunc("DELETE /api/subtasks/{id}", s.handleDeleteSubTask)

	// Project tasks and progress
	mux.HandleFunc("POST /api/projects/{projectID}/tasks", s.handleBindTask)
	mux.HandleFunc("GET /api/projects/{projectID}/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks/{taskID}/progress", s.handleRecordProgress)
	mux.HandleFunc("GET /api/tasks/{taskID}/progress/{period}", s.handleGetRecord)

	// Derived reads
	mux.HandleFunc("GET /api/projects/{projectID}/report", s.handleReport)
	mux.HandleFunc("GET /api/projects/{projectID}/dashboard", s.handleDashboard)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	traceMw := trace.NewMiddleware(extractClientIP)

	s.Server = http.Server{
		Addr:    cfg.Addr,
		Handler: headers.Middleware(s.limitWrites(traceMw.Middleware(mux))),
	}
	return s
}

// limitWrites rate-limits mutating requests per client; reads pass through.
func (s *Server) limitWrites(next http.Handler) http.Handler {
	limited := s.rateLimiter.Middleware(extractClientIP, nil)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// extractClientIP resolves the client address, considering proxies.
func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// invalidateProject drops every cached derived read for the project.
func (s *Server) invalidateProject(projectID string) {
	s.reportCache.DeletePrefix(projectID + "|")
	s.dashboardCache.DeletePrefix(projectID + "|")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
