package main

import (
	"context"
	"flag"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"benchgate/adapters/postgres"
	"benchgate/adapters/results"
	"benchgate/app"
	"benchgate/internal/config"
	"benchgate/internal/errors"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	resultsPath := flag.String("results", "", "path to raw results file (json, csv or xlsx)")
	persist := flag.Bool("persist", false, "save the decision report to the database")
	flag.Parse()

	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	inputPath := cfg.Paths.ResultsFile
	if *resultsPath != "" {
		inputPath = *resultsPath
	}

	reader := results.NewReader(inputPath)
	read, err := reader.Read()
	if err != nil {
		log.Fatalf("failed to read results: %v", err)
	}

	ctx := context.Background()
	service := app.NewAnalysisService(cfg)
	report, path, err := service.Run(ctx, read.Samples)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	log.Printf("recommendation: %s", report.OverallRecommendation)
	log.Printf("confidence score: %.2f", report.ConfidenceScore)
	log.Printf("report: %s", path)

	if *persist {
		if cfg.Database.URL == "" {
			log.Fatalf("configuration error: %v", errors.ConfigInvalid("persist requested but DATABASE_URL is not set"))
		}
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		repo := postgres.NewRunRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("failed to ensure schema: %v", err)
		}
		if err := repo.SaveRun(ctx, report); err != nil {
			log.Fatalf("failed to save run: %v", err)
		}
		log.Printf("run %s saved", report.RunID)
	}
}
