package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trickstertwo/xclock"

	"github.com/Gunvolt24/hermes_receiver/config"
	cachemem "github.com/Gunvolt24/hermes_receiver/internal/cache/memory"
	"github.com/Gunvolt24/hermes_receiver/internal/consumer"
	"github.com/Gunvolt24/hermes_receiver/internal/domain"
	"github.com/Gunvolt24/hermes_receiver/internal/kafka"
	"github.com/Gunvolt24/hermes_receiver/internal/ports"
	"github.com/Gunvolt24/hermes_receiver/internal/receiver"
	rest "github.com/Gunvolt24/hermes_receiver/internal/transport/http"
	"github.com/Gunvolt24/hermes_receiver/internal/usecase"
	"github.com/Gunvolt24/hermes_receiver/internal/wrapper"
	"github.com/Gunvolt24/hermes_receiver/pkg/logger"
	"github.com/Gunvolt24/hermes_receiver/pkg/metrics"
	"github.com/Gunvolt24/hermes_receiver/pkg/telemetry"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, конвейер чтения).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер
	Consumer        ports.MessageConsumer // конвейер чтения сообщений
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// TopicFromConfig — описание топика из секции Topic.
func TopicFromConfig(c config.Topic) domain.Topic {
	return domain.Topic{
		Group:       strings.TrimSpace(c.Group),
		Name:        strings.TrimSpace(c.Name),
		ContentType: domain.ParseContentType(c.ContentType),
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
// Ошибка создания получателя (нет потока, неизвестный топик) прерывает запуск.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}
	return bootstrapWith(ctx, cfg, logg, cleanupLogger)
}

func bootstrapWith(ctx context.Context, cfg *config.Config, logg ports.Logger, cleanupLogger func() error) (*App, Cleanup, error) {
	closeLogger := func() {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
	}

	// Регистрация метрик (Prometheus).
	if cfg.Metrics.Enabled {
		metrics.MustRegister()
	}

	topic := TopicFromConfig(cfg.Topic)

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := telemetry.Shutdown(func(context.Context) error { return nil })
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, telemetry.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			Topic:       topic.QualifiedName(),
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}
	closeTrace := func() {
		if tErr := shutdownTrace(context.Background()); tErr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", tErr)
		}
	}

	clock := xclock.Default()

	// Лог-клиент и получатель.
	connector := kafka.NewConnector(&kafka.ConsumerConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		StartOffset:    cfg.Kafka.StartOffset,
		ReadTimeout:    cfg.Kafka.ReadTimeout,
		CommitInterval: cfg.Kafka.CommitInterval,
		MinBytes:       cfg.Kafka.MinBytes,
		MaxBytes:       cfg.Kafka.MaxBytes,
		VerifyTopic:    cfg.Kafka.VerifyTopic,
	}, logg)

	rcv, err := receiver.New(
		topic,
		connector,
		wrapper.NewMessageContentWrapper(),
		metrics.NewReadTimer(topic.QualifiedName()),
		clock,
		logg,
		receiver.Config{StreamCount: cfg.Kafka.StreamCount},
	)
	if err != nil {
		logg.Errorf(ctx, "receiver construction failed topic=%s: %v", topic.QualifiedName(), err)
		if sErr := connector.Shutdown(); sErr != nil {
			logg.Warnf(ctx, "connector shutdown: %v", sErr)
		}
		closeTrace()
		closeLogger()
		return nil, func() {}, fmt.Errorf("create receiver: %w", err)
	}

	// Обработчик по умолчанию и кэш последних сообщений.
	cache := cachemem.NewLRUCacheTTL(cfg.Cache.Capacity, cfg.Cache.TTL, clock)
	messageService := usecase.NewMessageService(cache, logg)

	pipeline := consumer.NewPipeline(rcv, messageService, logg, consumer.Config{
		Topic:         topic.QualifiedName(),
		HandleTimeout: cfg.Kafka.HandleTimeout,
		RetryInitial:  cfg.Kafka.RetryInitial,
		RetryMax:      cfg.Kafka.RetryMax,
	})

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(messageService, rcv, logg, cfg.HTTP.WriteTimeout)
	router := rest.NewRouter(httpHandler, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		Consumer:        pipeline,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if err := pipeline.Close(); err != nil {
			logg.Warnf(ctx, "consumer pipeline close error: %v", err)
		}
		closeTrace()
		closeLogger()
	}

	logg.Infof(ctx, "receiver ready topic=%s content_type=%s streams=%d",
		topic.QualifiedName(), topic.ContentType, cfg.Kafka.StreamCount)
	return app, cleanup, nil
}

// Run — запускает HTTP-сервер и конвейер; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	// Запуск конвейера.
	go func() {
		a.Logger.Infof(ctx, "consumer pipeline starting")
		if err := a.Consumer.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Остановка получателя (повторный Close безопасен).
	if err := a.Consumer.Close(); err != nil {
		a.Logger.Warnf(ctx, "consumer pipeline close error: %v", err)
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
