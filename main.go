package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/andrewpaige1/codementor-api/cmd"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	cmd.Execute()
}
