package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/iWorld-y/trend_scout/pkg/agent"
	"github.com/iWorld-y/trend_scout/pkg/config"
	"github.com/iWorld-y/trend_scout/pkg/logger"
	"github.com/iWorld-y/trend_scout/pkg/storage"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	// A missing .env is fine; secrets may come from the environment proper.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.LLM.APIKey == "" {
		log.Fatal("config error: llm.api_key is not set")
	}

	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	logger.Log.Info("starting trend scout...")

	var store *storage.Storage
	if cfg.DB.Host != "" {
		s, err := storage.NewStorage(cfg.DB)
		if err != nil {
			logger.Log.Errorf("failed to connect to database: %v. Artifacts will be file-only.", err)
		} else {
			store = s
			defer store.Close()
			logger.Log.Info("connected to database")
		}
	} else {
		logger.Log.Info("no database configured, artifacts will be file-only")
	}

	scout, err := agent.NewScout(cfg, store)
	if err != nil {
		logger.Log.Fatalf("failed to build agent: %v", err)
	}

	path, err := scout.RunWithRetry(context.Background())
	if err != nil {
		logger.Log.Fatalf("workflow failed: %v", err)
	}

	logger.Log.Infof("report written: %s", path)
}
