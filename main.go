package main

import (
	"github.com/Dacosmicgiant/fitness-mock/internal/config"
	"github.com/Dacosmicgiant/fitness-mock/internal/database"
	logger "github.com/Dacosmicgiant/fitness-mock/internal/logging"
	"github.com/Dacosmicgiant/fitness-mock/internal/repository"
	"github.com/Dacosmicgiant/fitness-mock/internal/router"
	"github.com/Dacosmicgiant/fitness-mock/internal/service"

	"go.uber.org/zap"
)

func main() {
	// Console-only logger until the configuration is available.
	bootstrap := logger.Console()

	// Initialize Configuration
	if err := config.Init(".", bootstrap); err != nil {
		bootstrap.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Logger from the configured directory and rotation settings
	log, err := logger.Init(config.Conf.Logging)
	if err != nil {
		bootstrap.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	// Initialize Database
	db, err := database.Init(log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Background sweep for expired premium subscriptions
	scheduler := service.NewScheduler(log, repository.NewUserRepo(db))
	scheduler.Start()

	// Setup router, passing the logger and database handle to it
	r := router.Setup(log, db)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
