package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/kineticlabs/kinetic/internal/config"
	"github.com/kineticlabs/kinetic/internal/server"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("could not load config, continuing with env-only configuration", "path", cfgPath, "error", err)
		cfg = &config.Config{}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}
	if port == "" {
		port = "8080"
	}

	srv := server.NewServer(cfg, logger)
	defer srv.Store.Close()

	r := srv.SetupRouter()

	logger.Info("starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server exited", "error", err)
	}
}
