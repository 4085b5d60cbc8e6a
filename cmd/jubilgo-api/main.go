package main

import (
	"log"

	"github.com/jubilgo/jubilgo-api/internal/config"
	"github.com/jubilgo/jubilgo-api/internal/infrastructure/server"
)

func main() {
	log.Println("Starting JubilGo API...")

	// Load Configuration
	cfg := config.Load()

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
