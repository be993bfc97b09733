// Package server exposes pack export over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/adapters/osfs"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/config"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/pack"
	"github.com/aliihsanhayirli06-prog/youtube-tamam/internal/ports"
)

// PackSaver stores exported packs in the pack history.
type PackSaver interface {
	Save(cfg *config.Config, p *pack.Pack) (pack.SaveResult, error)
}

// Server serves the export API.
type Server struct {
	cfg   *config.Config
	saver PackSaver
	fs    ports.FileSystem
}

// New creates a server with the given dependencies.
func New(cfg *config.Config, saver PackSaver, fs ports.FileSystem) *Server {
	return &Server{cfg: cfg, saver: saver, fs: fs}
}

// NewDefault creates a server with real production dependencies.
func NewDefault(cfg *config.Config) *Server {
	return New(cfg, pack.NewDefaultExporter(), osfs.New())
}

// Handler returns the routed handler wrapped in request id and access log
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/export/pack", s.ExportPack)
	mux.HandleFunc("GET /api/health", s.Health)

	return RequestID(Logger(mux))
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", ln.Addr().String(), "archive_exports", s.cfg.Server.ArchiveExports)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
