package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// healthCheckTimeout bounds each component check behind /health.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Metrics first so every request is counted, including panics.
	r.Use(metricsMiddleware)
	r.Use(requestIDMiddleware)
	r.Use(chimw.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(cors.Handler(s.corsOptions()))
	r.Use(bodySizeLimitMiddleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Get(s.cfg.GraphQLPath, s.handleGraphQL)
	r.Post(s.cfg.GraphQLPath, s.handleGraphQL)

	return r
}

func (s *Server) corsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: orDefault(s.cfg.CORS.AllowedOrigins, []string{"*"}),
		AllowedMethods: orDefault(s.cfg.CORS.AllowedMethods, []string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		AllowedHeaders: orDefault(s.cfg.CORS.AllowedHeaders, []string{"Accept", "Content-Type", "X-Request-ID"}),
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}
}

// handleHealth pings the database, plus MQTT and InfluxDB when enabled.
// Any failing component turns the response into a 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	components := map[string]string{"database": "ok"}
	status := http.StatusOK

	if err := s.database.HealthCheck(ctx); err != nil {
		s.logger.Warn("database health check failed", "error", err)
		components["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	for name, hc := range map[string]HealthChecker{"mqtt": s.mqtt, "influxdb": s.influxdb} {
		if hc == nil {
			continue
		}
		components[name] = "ok"
		if err := hc.HealthCheck(ctx); err != nil {
			s.logger.Warn("health check failed", "component", name, "error", err)
			components[name] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "unavailable"
	}
	writeJSON(w, status, map[string]any{
		"status":     overall,
		"version":    s.version,
		"components": components,
	})
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}
