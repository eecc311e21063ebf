package config

import (
	"log"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	// If .env is missing, ignore error (env vars can be set by other means)
	_ = godotenv.Load()
	log.Println("Environment variables loaded (if .env present)")
}
