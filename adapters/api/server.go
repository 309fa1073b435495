// Package api serves the readiness sync and review surface over HTTP.
// The contract is computed-results-only: raw biometric streams never
// leave the edge through this API.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fieldready/app"
	"fieldready/internal"
	"fieldready/internal/telemetry"
	"fieldready/ports"
)

// Server wires the readiness engine and stores behind a chi router
type Server struct {
	engine  *app.ReadinessEngine
	samples ports.MetricReader
	manual  ports.ManualEntryRepository
	scores  ports.ScoreStore
	audit   ports.AuditLog
	issuer  *TokenIssuer
	metrics *telemetry.Metrics
	log     *internal.Logger
}

// NewServer creates the API server
func NewServer(
	engine *app.ReadinessEngine,
	samples ports.MetricReader,
	manual ports.ManualEntryRepository,
	scores ports.ScoreStore,
	audit ports.AuditLog,
	issuer *TokenIssuer,
	metrics *telemetry.Metrics,
	logger *internal.Logger,
) *Server {
	return &Server{
		engine:  engine,
		samples: samples,
		manual:  manual,
		scores:  scores,
		audit:   audit,
		issuer:  issuer,
		metrics: metrics,
		log:     logger.Named("api"),
	}
}

// Router builds the route tree
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireAuth)

		// write paths: devices push, they never read
		r.With(s.requireRole(RoleDevice, RoleSoldier, RoleAdmin)).
			Post("/samples", s.handlePostSamples)
		r.With(s.requireRole(RoleDevice, RoleSoldier, RoleAdmin)).
			Post("/readiness", s.handleSyncResult)
		r.With(s.requireRole(RoleSoldier, RoleAdmin)).
			Post("/users/{userID}/manual", s.handlePostManual)
		r.With(s.requireRole(RoleSoldier, RoleAdmin)).
			Post("/users/{userID}/calculate", s.handleCalculate)

		// read paths
		r.With(s.requireRole(RoleSoldier, RoleAdmin)).Group(func(r chi.Router) {
			r.Get("/users/{userID}/latest", s.handleLatest)
			r.Get("/users/{userID}/history", s.handleHistory)
			r.Get("/users/{userID}/export", s.handleExport)
			r.Get("/users/{userID}/availability", s.handleAvailability)
			r.Get("/users/{userID}/insights", s.handleInsights)
			r.Get("/users/{userID}/anomalies", s.handleAnomalies)
		})
		r.With(s.requireRole(RoleAdmin)).Get("/users", s.handleUserSummary)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
