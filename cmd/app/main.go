package main

import (
	"context"

	"meetingbook/config"
	"meetingbook/di"
	"meetingbook/helper"
	"meetingbook/shared/logger"

	"github.com/rs/zerolog/log"
)

//go:generate go run github.com/swaggo/swag/cmd/swag init -g cmd/app/main.go -o docs -d ../../

// @title						Meeting Room Booking API
// @version					1.0
// @BasePath					/api
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
	}

	app := di.InitializeService()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Reminder.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start reminder job")
	}

	app.HTTP.Serve()
}
