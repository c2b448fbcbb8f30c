package main

import (
	"fmt"
	"os"

	"github.com/kurihiro0119/git-fetcher/internal/api"
	"github.com/kurihiro0119/git-fetcher/internal/config"
	"github.com/kurihiro0119/git-fetcher/internal/logging"
	"github.com/kurihiro0119/git-fetcher/internal/storage"
	"github.com/kurihiro0119/git-fetcher/internal/storage/postgres"
	"github.com/kurihiro0119/git-fetcher/internal/storage/sqlite"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	// Initialize storage
	var store storage.Storage
	switch cfg.StorageType {
	case "postgres":
		store, err = postgres.NewPostgresStorage(cfg.PostgresURL)
		if err != nil {
			logger.Fatal("failed to initialize PostgreSQL storage", "err", err)
		}
	default:
		store, err = sqlite.NewSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			logger.Fatal("failed to initialize SQLite storage", "err", err)
		}
	}
	defer store.Close()

	// Setup routes
	router := api.SetupRoutes(api.NewHandler(store), logger)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	logger.Info("starting API server", "addr", addr, "storage", cfg.StorageType)

	if err := router.Run(addr); err != nil {
		logger.Error("server stopped", "err", err)
		store.Close()
		os.Exit(1)
	}
}
