package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/domeohq/doors-backend/pkg/logger"
)

// Server wraps the HTTP server with a graceful shutdown window.
type Server struct {
	srv  *http.Server
	logg *logger.Logger
}

func NewServer(addr string, handler http.Handler, logg *logger.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logg: logg,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if s.logg != nil {
		s.logg.Info(context.Background(), "shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var combined error
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		combined = multierr.Append(combined, err)
	}
	if err := <-errCh; err != nil {
		combined = multierr.Append(combined, err)
	}
	return combined
}
