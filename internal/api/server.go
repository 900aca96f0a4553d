package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/nerrad567/birchhill-core/internal/infrastructure/config"
	"github.com/nerrad567/birchhill-core/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HealthChecker is implemented by components /health reports on.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	Logger   *logging.Logger
	Resolver Resolver
	Database HealthChecker
	MQTT     HealthChecker // optional; nil when ingestion is disabled
	InfluxDB HealthChecker // optional; nil when mirroring is disabled
	Version  string
}

// Server is the HTTP server for the GraphQL API.
//
// It is created with New() and started with Start().
type Server struct {
	cfg      config.APIConfig
	logger   *logging.Logger
	schema   graphql.Schema
	database HealthChecker
	mqtt     HealthChecker
	influxdb HealthChecker
	version  string
	server   *http.Server
	handler  http.Handler
}

// New creates a new API server and builds the GraphQL schema.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if deps.Database == nil {
		return nil, fmt.Errorf("database health checker is required")
	}

	schema, err := NewSchema(deps.Resolver)
	if err != nil {
		return nil, fmt.Errorf("building graphql schema: %w", err)
	}

	s := &Server{
		cfg:      deps.Config,
		logger:   deps.Logger.With("component", "api"),
		schema:   schema,
		database: deps.Database,
		mqtt:     deps.MQTT,
		influxdb: deps.InfluxDB,
		version:  deps.Version,
	}
	s.handler = s.buildRouter()
	return s, nil
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for HTTP connections in a background goroutine.
//
// The listener is bound before Start returns, so a port already in use is
// reported here rather than logged later.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.handler,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
		// Requests keep ctx's values but not its cancellation, so a signal
		// does not abort work that Close is waiting to drain.
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.server.Addr, err)
	}

	s.logger.Info("API server starting", "address", ln.Addr().String(), "graphql_path", s.cfg.GraphQLPath)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
