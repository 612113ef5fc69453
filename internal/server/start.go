package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server until ctx is canceled, then shuts everything down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", s.Cfg.Addr())
		if err := s.E.Start(s.Cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Server failed", "error", err)
			s.shutdown()
			return err
		}
	case <-ctx.Done():
	}

	return s.shutdown()
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("Shutting down server...")
	err := s.E.Shutdown(ctx)

	for _, m := range s.modules {
		if mErr := m.Shutdown(ctx); mErr != nil {
			slog.Error("Module shutdown failed", "module", m.Name(), "error", mErr)
		}
	}

	if report := s.injector.ShutdownWithContext(ctx); report != nil && !report.Succeed {
		slog.Error("Service shutdown failed", "error", report.Error())
	}

	slog.Info("Server stopped")
	return err
}
