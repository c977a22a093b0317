package main

import (
	"context"
	"log"
	"os"

	"help2postman/internal/config"
	"help2postman/internal/fetcher"
	"help2postman/internal/logging"
	"help2postman/internal/parser"
	"help2postman/internal/pipeline"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize Components
	logger := logging.New(os.Stderr, logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	f := fetcher.New(fetcher.Options{Timeout: cfg.Timeout, Logger: logger})
	p := pipeline.New(cfg, f, parser.New(parser.Options{StopAtNextHeading: cfg.StrictSections}))
	p.Log = logger

	// 3. Fetch, parse, generate and save
	if _, err := p.Run(context.Background()); err != nil {
		log.Fatalf("Failed to generate collection: %v", err)
	}
}
