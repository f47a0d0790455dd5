package main

import (
	"pms/config"
	"pms/di"
	"pms/helper"
	"pms/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title PMS API
// @version 1.0
// @description Property management API: customers, rooms, bookings and the front desk dashboard.
// @BasePath /
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
