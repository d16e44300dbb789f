package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/cache"
	"github.com/SAP-F-2025/exam-session-service/internal/config"
	"github.com/SAP-F-2025/exam-session-service/internal/handlers"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-session-service/internal/services"
	"github.com/SAP-F-2025/exam-session-service/internal/session"
	"github.com/SAP-F-2025/exam-session-service/internal/utils"
	"github.com/SAP-F-2025/exam-session-service/internal/validator"
	"github.com/SAP-F-2025/exam-session-service/pkg"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory stores", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var exams repositories.ExamRepository = postgres.NewExamPostgreSQL(db)
	results := postgres.NewResultPostgreSQL(db)

	var prefsStore services.PreferencesStore = services.NewMemoryPreferencesStore()
	if redisClient != nil {
		redisCache := cache.NewRedisCache(redisClient, logger)
		exams = cache.NewCachedExamRepository(exams, redisCache, cfg.CacheTTL, logger)
		prefsStore = cache.NewPreferencesCache(redisCache)
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	v := validator.New()
	catalog := services.NewCatalogService(exams, logger, v)
	resultSvc := services.NewResultService(results, exams, logger)
	sessions := services.NewSessionService(
		ctx,
		exams,
		results,
		publisher,
		persisterFactory(cfg, redisClient, logger),
		logger,
		services.ControllerConfig{TimerInterval: cfg.TimerInterval},
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	appLogger := utils.NewSlogLogger(logger)
	router := gin.New()
	router.Use(gin.Recovery(), utils.LoggerMiddleware(appLogger), utils.ContextLogger(appLogger))

	manager := handlers.NewHandlerManager(handlers.Dependencies{
		Sessions:    sessions,
		Catalog:     catalog,
		Results:     resultSvc,
		Export:      services.NewExportService(resultSvc, logger),
		Preferences: services.NewPreferencesService(prefsStore, v),
		Validator:   v,
	}, cfg.DefaultUserID, appLogger)
	manager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment, "session_store", cfg.SessionStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ListenAndServe failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	sessions.Shutdown(shutdownCtx)

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// persisterFactory picks where saved sessions live. Redis is used only when
// configured and reachable.
func persisterFactory(cfg *config.Config, client *redis.Client, logger *slog.Logger) services.PersisterFactory {
	if cfg.SessionStore == "redis" && client != nil {
		return func(userID string) session.SnapshotPersister {
			return cache.NewSavedSessionCache(client, userID, logger)
		}
	}
	if cfg.SessionStore == "redis" {
		logger.Warn("Saved sessions kept in memory", "reason", "redis unavailable")
	}
	return func(string) session.SnapshotPersister {
		return session.NewMemoryPersister()
	}
}
