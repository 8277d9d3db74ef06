package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tasktrack/platform/internal/application/reminder"
	"github.com/tasktrack/platform/internal/config"
	"github.com/tasktrack/platform/internal/infrastructure/eventbus"
	"github.com/tasktrack/platform/internal/infrastructure/observability"
	"github.com/tasktrack/platform/internal/infrastructure/persistence/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadReminderWorkerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	obsCfg := observability.Config{Enabled: cfg.Observability.OTelEnabled, ServiceName: cfg.Observability.ServiceName}

	lp, logger, err := observability.InitLogger(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer shutdownWithTimeout(func(c context.Context) error { return lp.Shutdown(c) }, "logger provider")
	slog.SetDefault(logger)

	tp, err := observability.InitTracerProvider(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("failed to init tracer provider: %w", err)
	}
	defer shutdownWithTimeout(func(c context.Context) error { return tp.Shutdown(c) }, "tracer provider")

	mp, err := observability.InitMeterProvider(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("failed to init meter provider: %w", err)
	}
	defer shutdownWithTimeout(func(c context.Context) error { return mp.Shutdown(c) }, "meter provider")

	slog.InfoContext(ctx, "starting reminder scheduler")

	store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	writer := eventbus.NewWriter(cfg.Kafka.Brokers)
	publisher := eventbus.NewPublisher(writer, store.Event)
	defer publisher.Close()

	scheduler := reminder.NewScheduler(store.Reminder, store.Reminder, publisher, reminder.Config{
		OverdueAlertsEnabled: cfg.Reminder.EnableOverdue,
	})
	worker := reminder.NewWorker(scheduler, cfg.Reminder.CheckInterval)

	if err := worker.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reminder worker: %w", err)
	}

	healthServer := newHealthServer(cfg.HealthPort, worker)
	errResult := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "health server listening", "addr", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errResult <- fmt.Errorf("failed to serve health endpoint: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "shutting down")
		worker.Stop(context.Background())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			slog.WarnContext(shutdownCtx, "health server shutdown timed out", "error", err)
		}
		return nil
	case err := <-errResult:
		worker.Stop(context.Background())
		return err
	}
}

// newHealthServer exposes the worker's liveness/readiness contract over
// plain HTTP, the same two-route shape the API server answers on /health
// and /ready.
func newHealthServer(port string, worker *reminder.Worker) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if !worker.Live() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if !worker.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	})
	return &http.Server{Addr: ":" + port, Handler: mux}
}

func shutdownWithTimeout(shutdown func(context.Context) error, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown "+name, "error", err)
	}
}
