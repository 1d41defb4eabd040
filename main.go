package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"policyminer/api"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	addr := ":5000"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := api.NewRouter()
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /")
	log.Println("  GET  /api/health")
	log.Println("  GET  /api/v1/emails")
	log.Println("  POST /api/v1/upload")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
