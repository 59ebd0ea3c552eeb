package main

import (
	"log"

	"github.com/rawa7/hightech/internal/transport/http"
)

func main() {
	if err := http.Run(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
