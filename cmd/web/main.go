package main

import (
	"github.com/joho/godotenv"

	"lexportal_backend/internal/app"
	"lexportal_backend/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, relying on the environment")
	}

	app.Run()
}
