package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"estates/internal/catalog"
	"estates/internal/format"
	"estates/internal/metrics"
	"estates/internal/models"
	"estates/internal/query"
)

const requestIDHeader = "X-Request-ID"

// Options tunes the HTTP surface.
type Options struct {
	StaticDir   string
	CORSOrigins []string
	// RateLimit is the sustained requests per second for /api; zero disables limiting.
	RateLimit float64
	RateBurst int
	Formatter *format.Formatter
	Metrics   *metrics.Metrics
}

// Server provides HTTP handlers over the read-only project catalog.
type Server struct {
	engine    *gin.Engine
	catalog   *catalog.Catalog
	query     *query.Engine
	formatter *format.Formatter
	metrics   *metrics.Metrics
	limiter   *rate.Limiter
	logger    *slog.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(cat *catalog.Catalog, engine *query.Engine, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = query.NewEngine()
	}
	if opts.Formatter == nil {
		opts.Formatter, _ = format.NewFormatter(format.DefaultLocale)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api/healthz", "/metrics"))
	router.Use(corsMiddleware(opts.CORSOrigins))
	router.Use(opts.Metrics.Middleware())

	srv := &Server{
		engine:    router,
		catalog:   cat,
		query:     engine,
		formatter: opts.Formatter,
		metrics:   opts.Metrics,
		logger:    logger,
		staticDir: opts.StaticDir,
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = int(opts.RateLimit) + 1
		}
		srv.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	srv.metrics.SetCatalogSize(cat.Len())
	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.engine.Group("/api")
	api.Use(s.rateLimit())
	{
		api.GET("/healthz", s.handleHealth)
		api.GET("/filters", s.handleFilters)

		projects := api.Group("/projects")
		{
			projects.GET("", s.handleListProjects)
			projects.GET("/grouped", s.handleGroupedProjects)
			projects.GET("/featured", s.handleFeaturedProjects)
			projects.GET("/suggestions", s.handleSuggestions)
			projects.GET("/:id", s.handleGetProject)
		}
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "projects": s.catalog.Len()})
}

// parseID reads a project identifier path parameter.
func parseID(c *gin.Context, name string) (models.ProjectID, bool) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return "", false
	}
	return models.ProjectID(raw), true
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	attrs := []any{slog.String("path", c.FullPath()), slog.String("error", err.Error()), slog.String("request_id", c.GetString(requestIDHeader))}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", attrs...)
	} else {
		s.logger.Warn("request rejected", attrs...)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}

// requestID tags every request with an id, reusing the caller's when present.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// rateLimit rejects API calls beyond the configured rate.
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter != nil && !s.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
