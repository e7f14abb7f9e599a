// Package web serves the sales dashboard, the record editor and a small JSON API.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/hotelpro/internal/auth"
	"github.com/Veraticus/hotelpro/internal/report"
	"github.com/Veraticus/hotelpro/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options configures a Server.
type Options struct {
	Addr          string
	CORSOrigins   []string
	TargetRevenue float64
	TotalRooms    int
	EnableMetrics bool
	// SecureCookies marks the session cookie Secure; enable behind TLS.
	SecureCookies bool
}

// Server wires the record store, the login gate and the session codec into a gin router.
type Server struct {
	router    *gin.Engine
	store     service.RecordStore
	gate      *auth.Gate
	tokens    *auth.Tokens
	logger    *slog.Logger
	metrics   *Metrics
	templates map[string]*template.Template
	opts      Options
}

// NewServer builds the router. The store is shared by every request.
func NewServer(store service.RecordStore, gate *auth.Gate, tokens *auth.Tokens, logger *slog.Logger, opts Options) (*Server, error) {
	if store == nil || gate == nil || tokens == nil {
		return nil, fmt.Errorf("store, gate and tokens are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8501"
	}
	if opts.TotalRooms == 0 {
		opts.TotalRooms = report.TotalRooms
	}
	if opts.TargetRevenue == 0 {
		opts.TargetRevenue = report.TargetRevenue
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		store:     store,
		gate:      gate,
		tokens:    tokens,
		logger:    logger,
		templates: tmpl,
		opts:      opts,
	}
	if opts.EnableMetrics {
		s.metrics = NewMetrics()
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.logger))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	r.GET("/healthz", s.handleHealth)

	pages := r.Group("/", SessionLoader(s.tokens))
	pages.GET("/login", s.handleLoginForm)
	pages.POST("/login", s.handleLogin)
	pages.POST("/logout", s.handleLogout)

	authed := pages.Group("/", RequireAuth())
	authed.GET("/", s.handleDashboard)
	authed.GET("/export.csv", s.handleExport)
	authed.GET("/edit", s.handleEditForm)
	authed.POST("/edit", s.handleEditSave)

	api := r.Group("/api", s.corsMiddleware())
	// Preflight requests are answered by the CORS middleware before auth runs.
	api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	authedAPI := api.Group("", SessionLoader(s.tokens), RequireAuth())
	authedAPI.GET("/summary", s.handleAPISummary)
	authedAPI.GET("/records", s.handleAPIRecords)
	authedAPI.PUT("/records", s.handleAPIReplaceRecords)
}

// corsMiddleware lets configured origins call the JSON API with the session cookie.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	if len(s.opts.CORSOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(cors.Config{
		AllowOrigins:     s.opts.CORSOrigins,
		AllowMethods:     []string{"GET", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Type"},
		MaxAge:           12 * time.Hour,
	})
}

// Handler returns the router for use with httptest or a custom http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", s.opts.Addr, "backend", s.store.Name())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down dashboard")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
