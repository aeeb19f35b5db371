package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/tradersutopia/tradersutopia/internal/collector"
	"github.com/tradersutopia/tradersutopia/internal/db"
	"github.com/tradersutopia/tradersutopia/internal/search"
)

// Scheduled entrypoint: one invocation performs one collection pass over
// every mapped Discord channel. Set COLLECTOR_INTERVAL (e.g. "60s") to
// run as a long-lived poller instead; the secret cache then spares the
// Secrets Manager API between passes.
func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()
	defer db.CloseDB()
	search.InitSearch()

	secrets, err := collector.NewSecretCache(context.Background(), 5*time.Minute)
	if err != nil {
		log.Fatalf("Error creating secret cache: %v", err)
	}

	interval := os.Getenv("COLLECTOR_INTERVAL")
	if interval == "" {
		if err := runOnce(secrets); err != nil {
			log.Fatalf("Collector run failed: %v", err)
		}
		return
	}

	every, err := time.ParseDuration(interval)
	if err != nil {
		log.Fatalf("Invalid COLLECTOR_INTERVAL: %v", err)
	}
	for {
		if err := runOnce(secrets); err != nil {
			log.Printf("Collector run failed: %v", err)
		}
		time.Sleep(every)
	}
}

func runOnce(secrets *collector.SecretCache) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tokenSecretID := os.Getenv("DISCORD_TOKEN_SECRET_ID")
	mappingSecretID := os.Getenv("CHANNEL_MAPPING_SECRET_ID")
	if tokenSecretID == "" || mappingSecretID == "" {
		log.Fatal("DISCORD_TOKEN_SECRET_ID and CHANNEL_MAPPING_SECRET_ID must be set")
	}

	botToken, err := secrets.Get(ctx, tokenSecretID)
	if err != nil {
		return err
	}
	rawMappings, err := secrets.Get(ctx, mappingSecretID)
	if err != nil {
		return err
	}
	mappings, err := collector.ParseMappings(rawMappings)
	if err != nil {
		return err
	}

	return collector.Run(ctx, botToken, mappings)
}
