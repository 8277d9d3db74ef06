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

	"github.com/tasktrack/platform/internal/application/auth"
	"github.com/tasktrack/platform/internal/application/chat"
	"github.com/tasktrack/platform/internal/application/conversation"
	"github.com/tasktrack/platform/internal/application/notification"
	"github.com/tasktrack/platform/internal/application/series"
	"github.com/tasktrack/platform/internal/application/task"
	"github.com/tasktrack/platform/internal/config"
	"github.com/tasktrack/platform/internal/infrastructure/eventbus"
	apphttp "github.com/tasktrack/platform/internal/infrastructure/http"
	"github.com/tasktrack/platform/internal/infrastructure/http/handler"
	"github.com/tasktrack/platform/internal/infrastructure/http/middleware"
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
	cfg, err := config.LoadServerConfig()
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

	slog.InfoContext(ctx, "starting tasktrack API server")

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
	decodeCache := redis.NewDecodeCache(redisClient)

	kafkaWriter := eventbus.NewWriter(cfg.Kafka.Brokers)
	publisher := eventbus.NewPublisher(kafkaWriter, store.Event)
	defer publisher.Close()

	authTokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(store.Auth, authTokens, decodeCache, cfg.JWT.Expiry())

	taskService := task.NewService(store.Task, store, publisher)
	seriesService := series.NewService(store.Series, taskService)
	conversationService := conversation.NewService(store.Conversation)
	notificationService := notification.NewService(store.Reminder)

	dispatcher := chat.NewDispatcher(taskService)
	agent := chat.NewAgent(cfg.Chat.AnthropicAPIKey, cfg.Chat.Model, dispatcher)
	chatService := chat.NewService(conversationService, agent)

	h := handler.New(authService, taskService, seriesService, conversationService, notificationService, chatService, cfg.Pagination)
	authMiddleware := middleware.NewAuth(authService)
	router := apphttp.NewRouter(h, authMiddleware, store.Pool(), cfg.HTTP.MaxBodyBytes)

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Host + ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
	}

	errResult := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errResult <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.WarnContext(shutdownCtx, "HTTP server shutdown timed out", "error", err)
		}
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
