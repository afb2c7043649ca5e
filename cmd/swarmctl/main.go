package main

import (
	"log"

	"swarm-console/internal/cli"
	"swarm-console/internal/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cli.Execute()
}
