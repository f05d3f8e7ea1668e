package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/khryptorgraphics/cpuschedsim/internal/config"
	"github.com/khryptorgraphics/cpuschedsim/pkg/auth"
	"github.com/khryptorgraphics/cpuschedsim/pkg/cache"
	"github.com/khryptorgraphics/cpuschedsim/pkg/runner"
	"github.com/khryptorgraphics/cpuschedsim/pkg/store"
)

// Server is the HTTP host around the simulation core. It owns no
// scheduling state itself; every request builds a fresh TaskInfo and
// hands it to the runner pool.
type Server struct {
	config *config.Config
	store  *store.Repository
	cache  *cache.Client
	jwtSvc *auth.JWTService
	mw     *auth.Middleware
	pool   *runner.Pool
	logger *slog.Logger
	server *http.Server
}

// NewServer wires the host: JWT service, run pool, and the backing
// store/cache if configured.
func NewServer(cfg *config.Config, st *store.Repository, ch *cache.Client, logger *slog.Logger) (*Server, error) {
	jwtSvc, err := auth.NewJWTService(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	return &Server{
		config: cfg,
		store:  st,
		cache:  ch,
		jwtSvc: jwtSvc,
		mw:     auth.NewMiddleware(jwtSvc),
		pool:   runner.New(),
		logger: logger,
	}, nil
}

// Start runs the HTTP server until the process is told to stop.
func (s *Server) Start(ctx context.Context) error {
	router := s.setupRouter()

	s.server = &http.Server{
		Addr:         s.config.API.Listen,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server",
		"address", s.config.API.Listen,
		"tls_enabled", s.config.API.TLSEnabled)

	if s.config.API.TLSEnabled {
		return s.server.ListenAndServeTLS(s.config.API.CertFile, s.config.API.KeyFile)
	}
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping API server")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) setupRouter() *gin.Engine {
	if s.logger.Enabled(context.Background(), slog.LevelDebug) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(s.loggingMiddleware())
	router.Use(gin.Recovery())
	router.Use(s.corsMiddleware())
	router.Use(s.securityMiddleware())

	if s.config.API.RateLimit.Enabled {
		router.Use(s.rateLimitMiddleware())
	}

	router.GET("/health", s.healthHandler)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/token", s.issueTokenHandler)
		v1.POST("/runs", s.createRunHandler)

		protected := v1.Group("/")
		protected.Use(s.mw.RequireAuth())
		{
			protected.GET("/runs/:id", s.getRunHandler)
			protected.GET("/runs", s.listRunsHandler)
		}
	}

	router.GET("/ws/runs/:id/trace", s.traceWebsocketHandler)

	return router
}
