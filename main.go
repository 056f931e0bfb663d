package main

import (
	"log"

	"github.com/joho/godotenv"

	"edanalyzer/app"
	"edanalyzer/internal/config"
	"edanalyzer/ui"
)

func main() {
	// Load .env first so config sees everything
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.AI.Enabled {
		log.Printf("AI analysis enabled (model=%s, timeout=%v)", cfg.AI.Model, cfg.AI.Timeout)
	} else {
		log.Printf("AI analysis disabled, running deterministic pipeline only")
	}

	pipeline := app.NewPipeline(cfg)
	server := ui.NewServer(cfg.Server, pipeline)
	if err := server.Run(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
