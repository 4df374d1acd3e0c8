package main

import (
	"context"
	"fmt"
	"time"

	"github.com/stemsi/qpaper-backend/internal/config"
	"github.com/stemsi/qpaper-backend/internal/database"
	"github.com/stemsi/qpaper-backend/internal/logger"
	"github.com/stemsi/qpaper-backend/internal/repository"
	"github.com/stemsi/qpaper-backend/internal/service"
)

// seed-catalog writes the chapter lists from the catalog YAML into the
// chapters table. Chapters already stored are left alone, so it is safe
// to run after every catalog change.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("Failed to load catalog")
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	chapterService := service.NewChapterService(repository.NewChapterRepository(pool), catalog, log)

	total := len(catalog.SeedChapters())
	fmt.Printf("=== Seeding %d catalog chapters ===\n", total)

	added, err := chapterService.Seed(ctx)
	if err != nil {
		log.Fatal().Err(err).Int("added", added).Msg("Seeding stopped")
	}

	fmt.Printf("Seed completed! Added %d new chapters, %d were already present.\n", added, total-added)
}
