package main

import (
	"context"
	"flag"

	"gurukul/internal/config"
	"gurukul/internal/database"
	"gurukul/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	command := flag.String("command", "up", "Migration command: up|down|status")
	flag.Parse()

	logger := logger.New()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Msgf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch *command {
	case "up":
		err = database.Migrate(ctx, db)
	case "down":
		err = database.Rollback(ctx, db)
	case "status":
		err = database.Status(ctx, db)
	default:
		logger.Fatal().Msgf("Invalid command: %s", *command)
	}
	if err != nil {
		logger.Fatal().Msgf("migrate %s failed: %v", *command, err)
	}
	logger.Info().Msgf("migrate %s complete", *command)
}
