// Package http assembles the REST API from the per-entity handlers.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aikifed/internal/association"
	"aikifed/internal/club"
	"aikifed/internal/insurance"
	"aikifed/internal/license"
	"aikifed/internal/member"
	"aikifed/internal/payment"
	"aikifed/internal/platform/metrics"
	"aikifed/internal/platform/middleware"
	"aikifed/internal/seminar"
	"aikifed/internal/transport/http/shared"
)

// Deps collects everything the router mounts. All fields are required except
// Validator (nil disables auth) and Metrics (nil disables instrumentation).
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Validator    middleware.JWTValidator
	Associations *association.Handler
	Clubs        *club.Handler
	Members      *member.Handler
	Licenses     *license.Handler
	Seminars     *seminar.Handler
	Payments     *payment.Handler
	Insurances   *insurance.Handler
}

// NewRouter builds the HTTP surface: /healthz, /metrics, and the versioned
// API under /api/v1. The payment webhook stays outside the auth wall because
// the gateway cannot send bearer tokens.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(observe(deps.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		deps.Payments.RegisterWebhook(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(deps.Validator, deps.Logger))
			deps.Associations.Register(r)
			deps.Clubs.Register(r)
			deps.Members.Register(r)
			deps.Licenses.Register(r)
			deps.Seminars.Register(r)
			deps.Payments.Register(r)
			deps.Insurances.Register(r)
		})
	})

	return r
}

// observe records request durations labelled by method and chi route pattern.
func observe(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			route := chi.RouteContext(r.Context()).RoutePattern()
			m.ObserveRequest(r.Method, route, start)
		})
	}
}
