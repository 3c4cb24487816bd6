package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"marketplace-service/internal/api"
	"marketplace-service/internal/config"
	"marketplace-service/internal/messaging"
	"marketplace-service/internal/messaging/kafka"
	"marketplace-service/internal/service"
	"marketplace-service/internal/store"
)

const (
	defaultAppName      = "MarketplaceService"
	healthCheckInterval = 10 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on system environment")
	}

	// --- Configuration Loading ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading configuration", "err", err)
		os.Exit(1)
	}
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With("service", defaultAppName, "env", cfg.AppEnv)
	slog.SetDefault(logger)
	logger.Info("Configuration loaded", "logLevel", cfg.LogLevel)

	// --- Database Connection ---
	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		logger.Error("Failed to initialize database connection", "err", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()
	if err := db.PingContext(startupCtx); err != nil {
		logger.Error("Failed to ping database", "err", err)
		os.Exit(1)
	}

	dbStore := store.NewPostgresStore(db)
	if err := dbStore.Migrate(startupCtx); err != nil {
		logger.Error("Failed to apply database schema", "err", err)
		os.Exit(1)
	}
	logger.Info("Database connection established and schema applied")

	// --- Event Publisher ---
	var publisher messaging.Publisher = messaging.Nop{}
	if cfg.Kafka.Enabled() {
		kafkaPublisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Warn("Error closing Kafka publisher", "err", err)
			}
		}()
		publisher = kafkaPublisher
		logger.Info("Publishing domain events to Kafka", "brokers", cfg.Kafka.Brokers)
	} else {
		logger.Info("KAFKA_BROKERS not set, domain events are discarded")
	}

	// --- Initialize API Handlers ---
	svcs := service.New(dbStore, publisher)
	auth := api.NewAuthenticator(cfg.Auth, svcs.Users)
	httpAPIHandler := api.NewHTTPHandler(svcs, auth)

	// --- Setup & Start HTTP Server ---
	httpRouter := chi.NewRouter()
	setupBaseMiddleware(httpRouter, cfg.HttpServer.TimeoutRequest)
	registerHealthCheck(httpRouter, dbStore)
	httpAPIHandler.RegisterRoutes(httpRouter)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      httpRouter,
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	go func() {
		logger.Info("HTTP server listening", "port", cfg.HttpServer.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", "err", err)
			os.Exit(1)
		}
		logger.Info("HTTP server has stopped")
	}()

	// --- Setup & Start gRPC Server ---
	healthServer := health.NewServer()
	grpcServer := setupGRPCServer(healthServer)
	grpcListener, err := net.Listen("tcp", ":"+cfg.GrpcServer.Port)
	if err != nil {
		logger.Error("Failed to listen for gRPC", "port", cfg.GrpcServer.Port, "err", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("gRPC server listening", "port", cfg.GrpcServer.Port)
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Error("gRPC server Serve error", "err", err)
			os.Exit(1)
		}
		logger.Info("gRPC server has stopped")
	}()

	watchCtx, stopWatch := context.WithCancel(context.Background())
	go watchDatabaseHealth(watchCtx, dbStore, healthServer)

	// --- Graceful Shutdown ---
	shutdownComplete := make(chan struct{})
	go waitForShutdown(httpServer, grpcServer, healthServer, stopWatch, shutdownComplete)

	<-shutdownComplete
	if err := db.Close(); err != nil {
		logger.Warn("Error closing database connection", "err", err)
	}
	logger.Info("Service shutdown sequence finished")
}

func setupBaseMiddleware(router *chi.Mux, requestTimeout time.Duration) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(requestTimeout))
	slog.Info("Base HTTP middleware registered", "requestTimeout", requestTimeout)
}

func registerHealthCheck(router *chi.Mux, pinger interface{ Ping(context.Context) error }) {
	healthPath := "/api/healthz"
	router.Get(healthPath, func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		dbStatus := "healthy"
		if err := pinger.Ping(ctx); err != nil {
			dbStatus = "unhealthy"
			slog.Warn("Health check DB ping failed", "err", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK) // Always 200, the payload carries the detailed status.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":      "healthy",
			"serviceName": defaultAppName,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"database":    dbStatus,
		})
	})
	slog.Info("HTTP health check registered", "path", healthPath)
}

func setupGRPCServer(healthServer *health.Server) *grpc.Server {
	s := grpc.NewServer()

	grpc_health_v1.RegisterHealthServer(s, healthServer)
	slog.Info("gRPC health check service registered")

	// Enable gRPC server reflection (useful for tools like grpcurl).
	reflection.Register(s)
	slog.Info("gRPC reflection service registered")

	return s
}

// watchDatabaseHealth reports NOT_SERVING on the gRPC health service while the database is unreachable.
func watchDatabaseHealth(ctx context.Context, pinger interface{ Ping(context.Context) error }, healthServer *health.Server) {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	last := grpc_health_v1.HealthCheckResponse_UNKNOWN
	for {
		status := grpc_health_v1.HealthCheckResponse_SERVING
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := pinger.Ping(pingCtx); err != nil {
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
		cancel()
		if status != last {
			slog.Info("gRPC health status changed", "status", status.String())
			healthServer.SetServingStatus("", status)
			last = status
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func waitForShutdown(
	httpServer *http.Server,
	grpcServer *grpc.Server,
	healthServer *health.Server,
	stopWatch context.CancelFunc,
	shutdownComplete chan struct{},
) {
	defer close(shutdownComplete)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-sigChan
	slog.Info("Received signal, starting graceful shutdown", "signal", receivedSignal.String())

	stopWatch()
	healthServer.Shutdown()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	// GracefulStop waits for in-flight RPCs; it is forced below if the context expires first.
	stoppedGrpc := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stoppedGrpc)
	}()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server graceful shutdown failed", "err", err)
	} else {
		slog.Info("HTTP server gracefully shut down")
	}

	select {
	case <-stoppedGrpc:
		slog.Info("gRPC server gracefully shut down")
	case <-shutdownCtx.Done():
		slog.Warn("gRPC server graceful shutdown timed out, forcing stop", "err", shutdownCtx.Err())
		grpcServer.Stop()
	}

	slog.Info("Graceful shutdown sequence completed")
}
