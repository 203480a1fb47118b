package main

import (
	"context"
	"flag"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"benchgate/adapters/postgres"
	"benchgate/internal/api"
	"benchgate/internal/config"
	"benchgate/internal/errors"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatalf("configuration error: %v", errors.ConfigInvalid("DATABASE_URL is required to serve stored runs"))
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRunRepository(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	server := api.NewServer(repo)
	if err := server.ListenAndServe(cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
