// Package http assembles the REST API: route tree, middleware chain, and
// the server lifecycle.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/prometheus"
	"github.com/lexatlas/lexatlas/internal/interfaces/http/handlers"
	"github.com/lexatlas/lexatlas/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware settings needed to
// build the route tree.  Nil handlers leave their routes unregistered, so
// partial deployments (a worker exposing only health) reuse the same
// router.
type RouterConfig struct {
	Documents  *handlers.DocumentHandler
	Analysis   *handlers.AnalysisHandler
	Comparison *handlers.ComparisonHandler
	Graph      *handlers.GraphHandler
	QA         *handlers.QAHandler
	Health     *handlers.HealthHandler

	CORS      *middleware.CORSConfig
	RateLimit *middleware.RateLimitConfig

	Mode    string
	Logger  logging.Logger
	Metrics *prometheus.Metrics
}

// NewRouter builds the complete HTTP handler.
func NewRouter(cfg RouterConfig) http.Handler {
	switch cfg.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(cfg.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger, cfg.Metrics))
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.RateLimit != nil {
		limit := *cfg.RateLimit
		limit.SkipPaths = append(limit.SkipPaths, "/healthz", "/readyz", "/metrics")
		r.Use(middleware.RateLimit(limit))
	}

	if cfg.Health != nil {
		r.GET("/healthz", cfg.Health.Liveness)
		r.GET("/readyz", cfg.Health.Readiness)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api/v1")
	registerDocumentRoutes(api, cfg.Documents)
	registerAnalysisRoutes(api, cfg.Analysis)
	registerComparisonRoutes(api, cfg.Comparison)
	registerGraphRoutes(api, cfg.Graph)
	registerQARoutes(api, cfg.QA)

	return r
}

func registerDocumentRoutes(api *gin.RouterGroup, h *handlers.DocumentHandler) {
	if h == nil {
		return
	}
	api.POST("/documents", h.Upload)
	api.GET("/documents", h.List)
	api.GET("/documents/:documentID", h.Get)
	api.DELETE("/documents/:documentID", h.Delete)
}

func registerAnalysisRoutes(api *gin.RouterGroup, h *handlers.AnalysisHandler) {
	if h == nil {
		return
	}
	api.POST("/documents/:documentID/analysis", h.Analyze)
	api.GET("/documents/:documentID/analysis/history", h.History)
	api.GET("/documents/:documentID/suggestions", h.Suggestions)
	api.GET("/documents/:documentID/details", h.Details)
	api.GET("/documents/:documentID/summary", h.Summary)
	api.GET("/documents/:documentID/sections/:name", h.Section)
	api.POST("/clauses/classify", h.ClassifyClause)
}

func registerComparisonRoutes(api *gin.RouterGroup, h *handlers.ComparisonHandler) {
	if h == nil {
		return
	}
	api.POST("/compare/sections", h.Sections)
	api.POST("/compare/provision", h.Provision)
	api.POST("/compare/whole", h.Whole)
}

func registerGraphRoutes(api *gin.RouterGroup, h *handlers.GraphHandler) {
	if h == nil {
		return
	}
	api.GET("/documents/:documentID/citations", h.Citations)
	api.GET("/documents/:documentID/citations/report", h.Report)
	api.POST("/graph/rebuild", h.Rebuild)
	api.GET("/graph/documents/:name/citations", h.DocumentCitations)
	api.GET("/graph/documents/:name/co-cited", h.CoCited)
	api.GET("/graph/top-cited", h.TopCited)
}

func registerQARoutes(api *gin.RouterGroup, h *handlers.QAHandler) {
	if h == nil {
		return
	}
	api.POST("/qa/ask", h.Ask)
	api.GET("/search", h.Search)
}
