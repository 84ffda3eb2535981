package main

import (
	"github.com/pdamaso/cityfall/internal/config"
	"github.com/pdamaso/cityfall/internal/logging"
	"github.com/pdamaso/cityfall/internal/storage"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid cityfall configuration", err, logging.Fields{"config_path": path, "hint": "create a cityfall_config.json with 'action_list', 'gear_list', 'target_list', 'team_list' and 'tuning' sections, plus an optional server{address,action_timeout_seconds}"})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db)
}
