package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/passbox/internal/app"
	"github.com/allisson/passbox/internal/config"
)

// RunServer starts the API server and, when enabled, the metrics server. It
// blocks until SIGINT/SIGTERM or a fatal server error, then shuts both down
// within ShutdownTimeout.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting passbox server",
		slog.String("version", version),
		slog.String("db_driver", cfg.DBDriver),
	)
	defer closeContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	servers := []namedServer{{name: "api", server: server}}
	if metricsServer != nil {
		servers = append(servers, namedServer{name: "metrics", server: metricsServer})
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runServers(ctx, logger, cfg.ShutdownTimeout, servers...)
}

// lifecycle is implemented by the API and metrics servers.
type lifecycle interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type namedServer struct {
	name   string
	server lifecycle
}

// runServers starts every server and waits until ctx is done or one of them
// fails, then shuts all of them down within timeout.
func runServers(ctx context.Context, logger *slog.Logger, timeout time.Duration, servers ...namedServer) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(func() error {
			if err := s.server.Start(gctx); err != nil {
				return fmt.Errorf("%s server error: %w", s.name, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers", slog.Duration("timeout", timeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var errs []error
		for _, s := range servers {
			if err := s.server.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("%s server shutdown: %w", s.name, err))
			}
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}
