package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/qpaper-backend/internal/config"
	"github.com/stemsi/qpaper-backend/internal/database"
	"github.com/stemsi/qpaper-backend/internal/handler"
	"github.com/stemsi/qpaper-backend/internal/logger"
	"github.com/stemsi/qpaper-backend/internal/middleware"
	"github.com/stemsi/qpaper-backend/internal/repository"
	"github.com/stemsi/qpaper-backend/internal/router"
	"github.com/stemsi/qpaper-backend/internal/service"
	"github.com/stemsi/qpaper-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting question paper backend")

	// ─── Load Catalog ──────────────────────────────────────────────────
	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("Failed to load catalog")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	if err := validator.Setup(catalog); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up validator")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	questionRepo := repository.NewQuestionRepository(pool)
	chapterRepo := repository.NewChapterRepository(pool)
	sessionStore := service.NewRedisSessionStore(rdb, cfg.PaperSessionTTL)

	// ─── Initialize Services ──────────────────────────────────────────
	questionService := service.NewQuestionService(questionRepo, catalog, log)
	chapterService := service.NewChapterService(chapterRepo, catalog, log)
	paperService := service.NewPaperService(questionRepo, sessionStore, catalog, log)
	mediaService := service.NewMediaService(cfg, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Question: handler.NewQuestionHandler(questionService),
		Chapter:  handler.NewChapterHandler(chapterService),
		Catalog:  handler.NewCatalogHandler(catalog),
		Media:    handler.NewMediaHandler(mediaService, cfg.MaxUploadBytes),
		Paper:    handler.NewPaperHandler(paperService),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": pool.Ping,
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		}, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	uploadLimiter := middleware.NewUploadLimiter(rdb, cfg.UploadRateLimit, log)
	r := router.SetupRouter(handlers, uploadLimiter, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
