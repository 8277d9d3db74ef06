package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tasktrack/platform/internal/application/recurring"
	"github.com/tasktrack/platform/internal/application/task"
	"github.com/tasktrack/platform/internal/config"
	"github.com/tasktrack/platform/internal/infrastructure/eventbus"
	"github.com/tasktrack/platform/internal/infrastructure/observability"
	"github.com/tasktrack/platform/internal/infrastructure/persistence/postgres"
	"github.com/tasktrack/platform/internal/infrastructure/persistence/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadRecurringWorkerConfig()
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

	slog.InfoContext(ctx, "starting recurring task generator")

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

	redisClient := redis.NewClient(cfg.Redis.URL, "", 0)
	defer redisClient.Close()
	dedup := redis.NewDedup(redisClient)

	producerWriter := eventbus.NewWriter(cfg.Kafka.Brokers)
	publisher := eventbus.NewPublisher(producerWriter, store.Event)
	defer publisher.Close()

	taskService := task.NewService(store.Task, store, publisher)
	processor := recurring.NewProcessor(store.Series, taskService, dedup)

	dlqWriter := eventbus.NewWriter(cfg.Kafka.Brokers)

	consumer := recurring.NewConsumer(cfg.Kafka.Brokers, eventbus.TopicTaskOperations, cfg.ConsumerGroup, processor, dlqWriter)
	defer consumer.Close()

	dlqConsumer := recurring.NewDLQConsumer(cfg.Kafka.Brokers, eventbus.DLQTopic(eventbus.TopicTaskOperations), cfg.ConsumerGroup, processor)
	defer dlqConsumer.Close()

	errResult := make(chan error, 2)
	go func() {
		if err := consumer.Run(ctx); err != nil {
			errResult <- fmt.Errorf("recurring consumer stopped: %w", err)
		}
	}()
	go func() {
		if err := dlqConsumer.Run(ctx); err != nil {
			errResult <- fmt.Errorf("dlq consumer stopped: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "shutting down")
		return nil
	case err := <-errResult:
		return err
	}
}

func shutdownWithTimeout(shutdown func(context.Context) error, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown "+name, "error", err)
	}
}
