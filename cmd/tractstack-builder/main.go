package main

import (
	"log"

	"github.com/AtRiskMedia/tractstack-builder/internal/application/startup"
)

func main() {
	if err := startup.Initialize(); err != nil {
		log.Fatalf("Page builder startup failed: %v", err)
	}

	log.Println("Page builder has shut down gracefully.")
}
