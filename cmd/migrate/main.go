// Command migrate applies the embedded schema migrations to the configured database.
//
//	migrate [up|down|status|version]
package main

import (
	"database/sql"
	"errors"
	"log"
	"os"

	"github.com/DanNano/FFQueryAnalyzer/internal/config"
	"github.com/DanNano/FFQueryAnalyzer/internal/logger"
	"github.com/DanNano/FFQueryAnalyzer/internal/repository"
	"github.com/DanNano/FFQueryAnalyzer/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️ .env not loaded: %v", err)
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	db, err := sql.Open("pgx", repository.DSN(cfg.Postgres))
	if err != nil {
		appLogger.Fatal().Err(err).Msg("sql open failed")
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		appLogger.Fatal().Err(err).Msg("goose dialect")
	}
	if err := goose.Run(command, db, "."); err != nil {
		appLogger.Fatal().Err(err).Str("command", command).Msg("migration failed")
	}
	appLogger.Info().Str("command", command).Msg("✅ Migrations done")
}
