package main

import (
	"taskapp/config"
	"taskapp/di"
	"taskapp/helper"
	"taskapp/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Task API
// @version 1.0
// @description Task list CRUD service.
// @BasePath /
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
