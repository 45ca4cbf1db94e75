package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/baechuer/identity-service/internal/bootstrap"
	"github.com/baechuer/identity-service/internal/logger"
)

// drain window for in-flight requests after a shutdown signal
var shutdownTimeout = 15 * time.Second

// server is what Run drives; *http.Server satisfies it through httpServer.
type server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
	Addr() string
}

type httpServer struct{ *http.Server }

func (s httpServer) Addr() string { return s.Server.Addr }

type builder func() (server, func(), error)

// Run builds the server, serves until a signal or a listener failure, and
// returns the process exit code.
func Run(build builder, sigCh <-chan os.Signal, lg zerolog.Logger) int {
	srv, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", srv.Addr()).Msg("identity service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		lg.Error().Err(err).Msg("listener failed")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		lg.Error().Err(err).Msg("graceful shutdown failed; closing")
		_ = srv.Close()
	}

	lg.Info().Msg("stopped")
	return 0
}

func buildServer() (server, func(), error) {
	srv, cleanup, err := bootstrap.NewServer()
	if err != nil {
		return nil, nil, err
	}
	return httpServer{srv}, cleanup, nil
}

func main() {
	logger.Init()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	os.Exit(Run(buildServer, sigCh, logger.Logger))
}
