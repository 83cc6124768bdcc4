package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"wfm-flipper/internal/api"
	"wfm-flipper/internal/config"
	"wfm-flipper/internal/db"
	"wfm-flipper/internal/engine"
	"wfm-flipper/internal/logger"
	"wfm-flipper/internal/wfm"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	// .env is optional; real env vars win either way.
	godotenv.Load()

	logger.Banner(version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Config", fmt.Sprintf("Load failed: %v", err))
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	// Persisted user settings layer over the file/env config.
	cfg = database.LoadConfig(cfg)
	if *port > 0 {
		cfg.Port = *port
	}

	wfm.RegisterMetrics()
	client := wfm.NewClient(wfm.ClientOptions{
		Platform:          cfg.Platform,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		CacheTTL:          cfg.CacheTTL,
		DetailStore:       database,
	})

	scanner := engine.NewScanner(client, engine.Params{
		TrailingWindow:  cfg.TrailingWindow,
		PreferredPeriod: cfg.PreferredPeriod,
		FallbackPeriod:  cfg.FallbackPeriod,
		Workers:         cfg.Workers,
	})

	srv := api.NewServer(cfg, client, scanner, database, version)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	logger.Server(addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}
}
