package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sunhex/internal/platform/config"
	"sunhex/internal/platform/httpserver"
	"sunhex/internal/platform/logger"
)

// main loads configuration and hands off to run, which owns the server
// lifecycle. Wiring of stores, publishers and routes lives in wiring.go.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	log.Info("initializing sunhex",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"debug_output", cfg.DebugOutput,
	)

	deps, err := wire(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close(log)

	srv := httpserver.New(cfg.Addr, deps.router, cfg.RequestTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	for _, bg := range deps.background {
		g.Go(func() error { return bg(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// backgroundTask runs until ctx is cancelled. A nil return on cancellation
// is a clean stop.
type backgroundTask func(ctx context.Context) error

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

const (
	auditBufferSize  = 1024
	cleanupInterval  = time.Minute
	kafkaCloseWindow = 5 * time.Second
)
