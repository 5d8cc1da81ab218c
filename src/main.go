package main

import (
	"context"
	"finflow-server/src/api"
	"finflow-server/src/assistant"
	"finflow-server/src/config"
	"finflow-server/src/db"
	"finflow-server/src/plaid"
	"finflow-server/src/util"
	"log"
	"net/http"
)

func main() {
	cfg := config.Load()

	// Connect to database
	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	db.InitCache()

	if cfg.DemoSeed {
		if err := util.SeedDemoData(context.Background(), pool); err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
	}

	plaidClient := plaid.NewPlaidClient(cfg.PlaidClientID, cfg.PlaidSecret, cfg.PlaidEnv)
	chatAssistant := assistant.New(pool, cfg.OpenAIAPIKey)

	// Router
	router := api.NewRouter(pool, plaidClient, chatAssistant, cfg.AllowedOrigins, cfg.DemoMode)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
