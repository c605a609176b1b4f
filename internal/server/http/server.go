package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"yolearn/internal/logging"
)

// ServerConfig holds the listener settings.
type ServerConfig struct {
	Host         string
	Port         int
	Debug        bool
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server owns the HTTP listener and its graceful shutdown.
type Server struct {
	httpServer *http.Server
	logger     logging.Logger
}

// NewServer wires the router into an http.Server ready to start.
func NewServer(handler *APIHandler, config ServerConfig, logger logging.Logger) *Server {
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = 30 * time.Second
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 30 * time.Second
	}

	engine := NewRouter(handler, RouterConfig{Debug: config.Debug, EnableCORS: config.EnableCORS})

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
			Handler:      engine,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
		},
		logger: logging.OrNop(logger),
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start blocks serving requests until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
