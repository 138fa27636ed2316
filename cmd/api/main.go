package main

import (
	"os"

	"github.com/openledger/bankrecon/internal/api"
	"github.com/openledger/bankrecon/internal/domain/engine"
	"github.com/openledger/bankrecon/internal/infrastructure/config"
	"github.com/openledger/bankrecon/internal/infrastructure/storage"
	"github.com/openledger/bankrecon/internal/observability"
)

func main() {
	cfg := config.LoadOrEnv()
	logger := observability.NewLogger(cfg.Observability.Logging)

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to open run store", "path", cfg.Storage.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	serverCfg := api.DefaultConfig()
	if cfg.Server.Port > 0 {
		serverCfg.Port = cfg.Server.Port
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		serverCfg.AllowedOrigins = cfg.Server.AllowedOrigins
	}

	eng := engine.New(cfg.Matcher.ToEngineConfig())
	server := api.NewServer(serverCfg, eng, store, logger)

	if err := server.Run(); err != nil {
		logger.Error("api server exited", "error", err)
		os.Exit(1)
	}
}
