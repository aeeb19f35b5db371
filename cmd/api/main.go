package main

import (
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/tradersutopia/tradersutopia/internal/api"
	"github.com/tradersutopia/tradersutopia/internal/cache"
	"github.com/tradersutopia/tradersutopia/internal/db"
	"github.com/tradersutopia/tradersutopia/internal/search"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()
	defer db.CloseDB()
	cache.InitRedis()
	search.InitSearch()
	api.InitAuth()

	go api.StartAPIServer()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	log.Println("Press Ctrl+C to exit")
	<-stop
	log.Println("Gracefully shutting down.")
}
