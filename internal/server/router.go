// Package server assembles the HTTP router from the per-context handlers.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	enrollmenthandler "kitahub/internal/enrollment/handler"
	familyhandler "kitahub/internal/family/handler"
	identityhandler "kitahub/internal/identity/handler"
	programhandler "kitahub/internal/programcatalog/handler"
	tenanthandler "kitahub/internal/tenant/handler"
)

// Handlers collects the per-context HTTP handlers mounted under /api/v1.
type Handlers struct {
	Tenant     *tenanthandler.Handler
	Family     *familyhandler.Handler
	Identity   *identityhandler.Handler
	Catalog    *programhandler.Handler
	Enrollment *enrollmenthandler.Handler
}

// NewRouter builds the full router: context routes under /api/v1, liveness
// at /healthz, Prometheus at /metrics.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		h.Tenant.Register(r)
		h.Family.Register(r)
		h.Identity.Register(r)
		h.Catalog.Register(r)
		h.Enrollment.Register(r)
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
