package main

import (
	"os"

	"github.com/pdamaso/cityfall/internal/api"
	"github.com/pdamaso/cityfall/internal/constants"
	"github.com/pdamaso/cityfall/internal/engine"
	"github.com/pdamaso/cityfall/internal/logging"

	"github.com/gin-gonic/gin"
)

func main() {
	checkEnvVars([]string{constants.EnvSessionSecret, constants.EnvGoogleClientID, constants.EnvGoogleClientSecret})

	// Load the content configuration file (required). Path may be provided
	// via CITYFALL_CONFIG env var or defaults to ./cityfall_config.json in
	// the current working directory.
	configPath := os.Getenv("CITYFALL_CONFIG")
	if configPath == "" {
		configPath = "./cityfall_config.json"
	}
	cfg := loadConfigOrExit(configPath)

	// Allow the DB path to be configured via CITYFALL_DB. Default to a
	// `data/` directory inside the backend module for local development.
	dbPath := os.Getenv("CITYFALL_DB")
	if dbPath == "" {
		dbPath = "./data/cityfall.db"
	}
	repo := createRepositoryOrExit(dbPath)

	eng := engine.New(cfg.Catalog)
	handler := api.NewSessionHandler(repo, eng, cfg.Catalog, cfg.ActionTimeout)
	authHandler := api.NewAuthHandler(repo)

	startTimeoutScanner(repo, eng, cfg.ActionTimeout)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteVersion, api.Version)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)
		apiRoutes.GET(constants.RouteOpenSessions, handler.ListOpenSessions)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.GET(constants.RoutePlayerStats, handler.GetPlayerStats)
		protected.POST(constants.RoutePlayerProfile, handler.UpdatePlayerProfile)

		protected.POST(constants.RouteSessions, handler.CreateSession)
		protected.GET(constants.RouteSessionByUUID, handler.GetSession)
		protected.GET(constants.RouteSessionByCode, handler.GetSessionByCode)
		protected.GET(constants.RouteSessionMessages, handler.GetMessages)

		protected.POST(constants.RouteSessionNodeAction, handler.NodeAction)
		protected.POST(constants.RouteSessionGearAction, handler.GearAction)
		protected.POST(constants.RouteSessionDiceResult, handler.DiceResult)
		protected.POST(constants.RouteSessionTarget, handler.TargetAction)
		protected.POST(constants.RouteSessionTeamAction, handler.TeamAction)
		protected.POST(constants.RouteSessionEndTurn, handler.EndTurn)
		protected.POST(constants.RouteSessionAutoRun, handler.AutoRun)
	}

	router.POST(constants.RouteAuthGoogleCallBack, authHandler.GoogleOAuthCallback)
	router.POST(constants.RouteAuthLogout, authHandler.Logout)

	// Start server on configured address
	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": v})
		}
	}
}
