package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/floatchat/argo-explorer/internal/observability"
	"github.com/floatchat/argo-explorer/services/api/chat"
	"github.com/floatchat/argo-explorer/services/api/config"
	"github.com/floatchat/argo-explorer/services/api/db"
)

const banner = "🌊 ARGO Backend API is running!"

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg       config.Config
	store     *db.Store
	generator chat.Generator
	logger    *slog.Logger
	clock     clockwork.Clock
	registry  *prometheus.Registry
	metrics   *observability.APIMetrics
	engine    *gin.Engine
}

// New constructs a server with routes and middleware. generator may be nil,
// in which case /chat answers 503.
func New(cfg config.Config, store *db.Store, generator chat.Generator, logger *slog.Logger, clock clockwork.Clock) *Server {
	if cfg.ChatTimeout <= 0 {
		cfg.ChatTimeout = 30 * time.Second
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())
	engine.Use(corsMiddleware(cfg.AllowOrigins))

	server := &Server{
		cfg:       cfg,
		store:     store,
		generator: generator,
		logger:    logger,
		clock:     clock,
		registry:  registry,
		metrics:   observability.NewAPIMetrics(registry),
		engine:    engine,
	}
	engine.Use(server.metricsMiddleware())
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, banner)
	})
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := s.engine.Group("/")
	if s.cfg.BearerToken != "" {
		api.Use(bearerAuthMiddleware(s.cfg.BearerToken))
	}
	{
		api.GET("/everything", s.handleEverything)
		api.GET("/latlong", s.handleLatLong)
		api.GET("/profiles", s.handleProfiles)
		for _, metric := range db.Metrics {
			api.GET("/"+metric, s.handleMetric(metric))
		}
		api.POST("/chat", s.handleChat)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
