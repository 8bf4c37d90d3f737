package main

import (
	"log"

	"github.com/DataContractHub/data-contract-backend/config"
	"github.com/DataContractHub/data-contract-backend/internal/bootstrap"
)

const serviceName = "data-contract-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.Gemini.APIKey == "" {
		log.Printf("[warn] GEMINI_API_KEY not set; /api/suggest_metadata will answer 500")
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Cfg:         cfg,
	})

	log.Printf("[info] service=%s version=%s listening on :%s", serviceName, cfg.App.Version, cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
