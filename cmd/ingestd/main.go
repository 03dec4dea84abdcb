package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/coldfront-analytics/dryice-backend/internal/config"
	"github.com/coldfront-analytics/dryice-backend/internal/dataset"
	"github.com/coldfront-analytics/dryice-backend/internal/ingest"
	"github.com/coldfront-analytics/dryice-backend/internal/repository"
	"github.com/coldfront-analytics/dryice-backend/internal/repository/postgres"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

// ingestd is the upload-facing sidecar. It validates order CSVs, stores the
// raw files in the data directory, and archives parsed rows to Postgres. It
// runs separately from the analytics server so bulk uploads never compete
// with dashboard traffic.
func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	loader, err := dataset.NewLoader(cfg.Inventory, cfg.App.WindowStart, cfg.App.WindowEnd)
	if err != nil {
		log.Fatalf("Invalid analysis window: %v", err)
	}

	// Create router
	r := mux.NewRouter()

	// Initialize Database
	var repo repository.OrderRepository
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Printf("warning: order archive unavailable, uploads are file-only: %v", err)
	} else {
		repo = postgres.NewOrderRepository(db)
		defer db.Close()
	}

	// Initialize Services
	ingestService := ingest.NewService(loader, repo, cfg.App.DataDir)

	// Register routes
	ingestHandler := ingest.NewHandler(ingestService)
	ingestHandler.RegisterRoutes(r)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.IngestPort)
	log.Printf("Ingest server starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
