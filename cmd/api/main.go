package main

import (
	"os"

	"github.com/hamzahassan/campuscore/internal/pkg/logger"
	"github.com/hamzahassan/campuscore/internal/server"
)

// @title CampusCore API
// @version 1.0
// @description Backend API for the CampusCore learning management system

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed")
		os.Exit(1)
	}
}
