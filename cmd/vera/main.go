package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/vera-labs/vera-cli/internal/adapters/driving/cli"
)

func main() {
	// Optional .env file; absence is not an error.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
