package main

import (
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/config"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/logging"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/storage"
)

func parseEnvOrExit() *config.Env {
	env, err := config.ParseEnv()
	if err != nil {
		logging.Fatal("Invalid environment configuration", err, nil)
	}
	return env
}

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid arena configuration", err, logging.Fields{
			"config_path": path,
			"hint":        "create an arena_config.json with a 'dungeon_list' array (dungeon_id,name,gold_reward,exp_reward,monsters[]) and optional keys: item_list, loot_tables, level_exp, pvp_gold_reward",
		})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string, catalog []storage.ItemTemplate) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath, catalog)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db)
}
