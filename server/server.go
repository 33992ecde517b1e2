package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/evcommunities/demo/config"
	"github.com/evcommunities/demo/logger"
)

// Server is the demo HTTP server.
type Server struct {
	httpServer *http.Server
}

// New builds the server on the configured port with the given launcher
// behind the API routes.
func New(cfg *config.Config, launcher Launcher) *Server {
	handler := NewHandler(cfg.PrivateKey, launcher)
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
			Handler:           handler.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// ListenAndServe runs the server until it is shut down.
func (s *Server) ListenAndServe() error {
	logger.Info("Starting the demo server at %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
