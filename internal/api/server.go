package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/backupdash/internal/api/handler"
	mw "github.com/edvin/backupdash/internal/api/middleware"
	"github.com/edvin/backupdash/internal/api/response"
	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/config"
	"github.com/edvin/backupdash/internal/core"
	"github.com/edvin/backupdash/internal/mcpserver"
)

const (
	backendTimeout = 20 * time.Second
	readyzTimeout  = 3 * time.Second
)

// Server routes the dashboard API: probes and metrics at the root, login
// under /auth and everything else under /api/v1 behind token auth.
type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	client   *backend.Client
	services *core.Services
	cfg      *config.Config
}

func NewServer(logger zerolog.Logger, client *backend.Client, services *core.Services, cfg *config.Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		client:   client,
		services: services,
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		mw.RequestLogger(s.logger),
		middleware.Recoverer,
		mw.Metrics,
	)
	if len(s.cfg.CORSOrigins) > 0 {
		s.router.Use(mw.CORS(s.cfg.CORSOrigins))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)
	s.router.Handle("/metrics", promhttp.Handler())

	auth := handler.NewAuth(s.services.Auth, s.services.Profile)
	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/login", auth.Login)
		r.Post("/password-reset", auth.PasswordReset)
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth(s.services.Auth, s.cfg.AuthRequired))
		r.Get("/me", auth.Me)
		s.dashboardRoutes(r)

		granularity := backend.Granularity(s.cfg.ActivityGranularity)
		r.Mount("/mcp", mcpserver.New(s.services, granularity, s.cfg.ActivityDays, s.logger))
	})
}

// dashboardRoutes registers the read-only views. Each is a single backend
// round trip or a small fan-out, so they share a request timeout; the MCP
// mount streams and stays outside it.
func (s *Server) dashboardRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(backendTimeout))

		r.Get("/dashboard", handler.NewDashboard(s.services.Dashboard).Overview)
		r.Get("/stats", handler.NewStats(s.services.Stats).Get)
		r.Get("/machines", handler.NewMachine(s.services.Machine).List)
		r.Get("/alerts", handler.NewAlert(s.services.Alert).ListUnresolved)
		r.Get("/jobs", handler.NewBackupJob(s.services.BackupJob).List)
		r.Get("/profiles/{id}", handler.NewProfile(s.services.Profile).Get)

		logs := handler.NewBackupLog(s.services.BackupLog)
		r.Get("/logs", logs.List)
		r.Get("/logs/export.csv", logs.ExportCSV)

		activity := handler.NewActivity(s.services.Activity, backend.Granularity(s.cfg.ActivityGranularity), s.cfg.ActivityDays)
		r.Get("/activity", activity.Series)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz stays 200 when no backend is configured, since the dashboard
// then serves empty data; only a configured backend that fails its ping is
// not ready.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
	defer cancel()

	status, check := http.StatusOK, "ok"
	if !s.client.Configured() {
		check = "unconfigured"
	} else if err := s.client.Ping(ctx); err != nil {
		status, check = http.StatusServiceUnavailable, err.Error()
	}
	response.WriteJSON(w, status, map[string]string{"backend": check})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
