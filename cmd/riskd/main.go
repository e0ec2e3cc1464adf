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

	"github.com/joho/godotenv"

	"github.com/engthiagolucena/customer-risk-analysis/internal/application/usecase"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/port"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/service"
	"github.com/engthiagolucena/customer-risk-analysis/internal/infrastructure/config"
	"github.com/engthiagolucena/customer-risk-analysis/internal/infrastructure/kafka"
	"github.com/engthiagolucena/customer-risk-analysis/internal/infrastructure/messaging"
	"github.com/engthiagolucena/customer-risk-analysis/internal/infrastructure/metrics"
	grpcpresentation "github.com/engthiagolucena/customer-risk-analysis/internal/presentation/grpc"
	"github.com/engthiagolucena/customer-risk-analysis/internal/presentation/rest"
	"github.com/engthiagolucena/customer-risk-analysis/pkg/auth"
	pkgkafka "github.com/engthiagolucena/customer-risk-analysis/pkg/kafka"
	"github.com/engthiagolucena/customer-risk-analysis/pkg/observability"
	"github.com/engthiagolucena/customer-risk-analysis/pkg/tlsutil"
)

const serviceName = "risk-service"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	logger.Info("starting risk-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Tracing.
	if cfg.Tracing.Enabled {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: serviceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRate:  cfg.Tracing.SampleRate,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	// Metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer meterProvider.Shutdown(context.Background())

	recorder, err := metrics.NewRecorder(meterProvider)
	if err != nil {
		logger.Error("failed to create metric instruments", "error", err)
		os.Exit(1)
	}

	// Event publishing.
	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
		SASLEnabled:   cfg.Kafka.SASLUsername != "",
		TLS:           cfg.Kafka.TLSEnabled,
	}

	var publisher port.EventPublisher = messaging.NewLogPublisher(logger)
	readiness := map[string]rest.ReadinessCheck{}
	if cfg.Kafka.PublishEnabled {
		producer, err := pkgkafka.NewProducer(kafkaCfg)
		if err != nil {
			logger.Error("failed to create kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = kafka.NewKafkaEventPublisher(producer, cfg.Kafka.EventsTopic, logger)
		readiness["kafka"] = func(ctx context.Context) error { return pkgkafka.Ping(ctx, kafkaCfg) }
		logger.Info("publishing risk events to kafka", "topic", cfg.Kafka.EventsTopic)
	}

	// Domain services and use cases.
	classifier := service.NewRiskClassifier()
	evaluateRiskUC := usecase.NewEvaluateRisk(publisher, recorder, classifier, logger)
	classifyProfileUC := usecase.NewClassifyProfile(publisher, recorder, classifier, logger)
	listRiskTiersUC := usecase.NewListRiskTiers()

	// Authentication.
	var validator auth.TokenValidator
	if cfg.Auth.Enabled {
		jwtService, err := newJWTService(cfg.Auth)
		if err != nil {
			logger.Error("failed to configure authentication", "error", err)
			os.Exit(1)
		}
		validator = jwtService
	}

	// gRPC server.
	grpcHandler := grpcpresentation.NewRiskServiceHandler(evaluateRiskUC, classifyProfileUC, listRiskTiersUC, logger, cfg.Auth.Enabled)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Validator:   validator,
		Address:     cfg.GRPCAddress(),
		TLSCertFile: cfg.TLS.CertFile,
		TLSKeyFile:  cfg.TLS.KeyFile,
		Reflection:  cfg.GRPCReflection,
	}, logger)
	if err != nil {
		logger.Error("failed to create gRPC server", "error", err)
		os.Exit(1)
	}

	// HTTP server.
	riskHandler, err := rest.NewRiskHandler(evaluateRiskUC, classifyProfileUC, listRiskTiersUC, logger)
	if err != nil {
		logger.Error("failed to create HTTP handler", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr: cfg.HTTPAddress(),
		Handler: rest.NewRouter(rest.RouterConfig{
			Health:         rest.NewHealthHandler(serviceName, logger, readiness),
			Risk:           riskHandler,
			Metrics:        metricsHandler,
			Validator:      validator,
			Logger:         logger,
			RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
			RateLimitBurst: cfg.RateLimit.Burst,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	if cfg.TLS.Enabled() {
		tlsConfig, err := tlsutil.ServerConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			logger.Error("failed to load HTTP TLS configuration", "error", err)
			os.Exit(1)
		}
		httpServer.TLSConfig = tlsConfig
	}

	// Start servers.
	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress(), "tls", cfg.TLS.Enabled())
		var err error
		if cfg.TLS.Enabled() {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Application intake.
	if cfg.Kafka.ConsumeEnabled {
		handler := kafka.NewApplicationHandler(evaluateRiskUC, logger)
		consumer, err := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.ApplicationsTopic, handler.Handle, logger)
		if err != nil {
			logger.Error("failed to create kafka consumer", "error", err)
			os.Exit(1)
		}
		defer consumer.Close()

		go func() {
			if err := consumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer error: %w", err)
			}
		}()
	}

	logger.Info("risk-service started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
		"auth_enabled", cfg.Auth.Enabled,
	)

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	logger.Info("shutting down risk-service")
	cancel()

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("risk-service stopped")
}

// newJWTService builds a validator from either a PEM public key file or an
// HMAC secret. The key file wins when both are set.
func newJWTService(cfg config.AuthConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
	}
	if cfg.JWTPublicKeyPath != "" {
		pem, err := auth.LoadKeyFromFile(cfg.JWTPublicKeyPath)
		if err != nil {
			return nil, err
		}
		jwtCfg.PublicKeyPEM = string(pem)
	}
	return auth.NewJWTService(jwtCfg)
}
