package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/affinity/internal/adapters/http/api"
	"github.com/okian/affinity/internal/adapters/http/swagger"
	"github.com/okian/affinity/internal/adapters/reasoning"
	app "github.com/okian/affinity/internal/app"
	"github.com/okian/affinity/internal/config"
	"github.com/okian/affinity/internal/domain/resolver"
	"github.com/okian/affinity/pkg/logger"
	"github.com/okian/affinity/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// A local .env may carry the reasoning API key.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := append(app.FromConfig(cfg), app.WithLogger(log.Named("service")))
	reasoner, err := newReasoner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create reasoning client: %w", err)
	}
	if reasoner != nil {
		opts = append(opts, app.WithReasoner(reasoner))
		log.Info(ctx, "reasoning enabled", logger.String("model", cfg.ReasoningModel))
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer func() {
		if err := svc.Stop(context.Background()); err != nil {
			log.Error(ctx, "service stop failed", logger.Error(err))
		}
	}()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc, cfg),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newReasoner builds the Gemini tie-break when reasoning is enabled. It
// returns nil when disabled.
func newReasoner(ctx context.Context, cfg *config.Config) (resolver.Reasoner, error) {
	if !cfg.ReasoningEnabled {
		return nil, nil
	}
	key, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}
	gen, err := reasoning.NewGeminiGenerator(ctx, key, cfg.ReasoningModel)
	if err != nil {
		return nil, err
	}
	return reasoning.New(gen,
		reasoning.WithTimeout(time.Duration(cfg.ReasoningTimeoutMS)*time.Millisecond),
		reasoning.WithRetries(cfg.ReasoningRetries),
		reasoning.WithInterval(time.Duration(cfg.ReasoningIntervalMS)*time.Millisecond),
	), nil
}

// newMux registers the docs and business routes.
func newMux(ctx context.Context, svc *app.Service, cfg *config.Config) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, cfg.MaxMatchLimit).Register(ctx, mux)
	return mux
}

func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats refreshes the queue and store gauges.
			_ = svc.GetStats()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
