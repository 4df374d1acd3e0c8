package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stemsi/qpaper-backend/internal/config"
	"github.com/stemsi/qpaper-backend/internal/database"
	"github.com/stemsi/qpaper-backend/internal/importer"
	"github.com/stemsi/qpaper-backend/internal/logger"
	"github.com/stemsi/qpaper-backend/internal/model"
	"github.com/stemsi/qpaper-backend/internal/repository"
	"github.com/stemsi/qpaper-backend/internal/service"
)

func main() {
	sheet := flag.String("sheet", "", "sheet to read (default: first sheet)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: import-questions [-sheet NAME] <file.xlsx>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Columns: Subject, Standard, Chapter, Exam, Question, A, B, C, D, Answer")
		fmt.Fprintln(os.Stderr, "All rows are validated before any is stored; one bad row aborts the import.")
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	file, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open workbook")
	}
	defer file.Close()

	rows, err := importer.ReadXLSX(file, *sheet)
	if err != nil {
		log.Fatal().Err(err).Str("file", flag.Arg(0)).Msg("Failed to read workbook")
	}
	if len(rows) == 0 {
		fmt.Println("No questions found.")
		return
	}

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("Failed to load catalog")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	questionService := service.NewQuestionService(repository.NewQuestionRepository(pool), catalog, log)

	reqs := make([]model.QuestionRequest, len(rows))
	for i, row := range rows {
		reqs[i] = row.Request
	}

	fmt.Printf("=== Importing %d questions from %s ===\n", len(reqs), flag.Arg(0))
	created, err := questionService.Import(ctx, reqs)
	if err != nil {
		var rowErr *service.RowError
		if errors.As(err, &rowErr) && rowErr.Index < len(rows) {
			log.Fatal().Err(rowErr.Err).Int("sheet_row", rows[rowErr.Index].Line).Msg("Import aborted")
		}
		log.Fatal().Err(err).Msg("Import aborted")
	}
	fmt.Printf("Import completed! Stored %d questions.\n", len(created))
}
