package cache

import (
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var Rdb *redis.Client

func InitRedis() {
	REDIS_URL := os.Getenv("REDIS_URL")
	if REDIS_URL == "" {
		REDIS_URL = "redis://localhost:6379"
	}
	opts, err := redis.ParseURL(REDIS_URL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	Rdb = redis.NewClient(opts)
}
