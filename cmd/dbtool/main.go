package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"trip-itinerary-service/internal/adapters/repositories"
	"trip-itinerary-service/internal/config"
	"trip-itinerary-service/internal/platform/db"
	"trip-itinerary-service/internal/ports"
)

func main() {
	schemaOnly := flag.Bool("schema-only", false, "create tables without seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Connect(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	repo, err := repositories.NewItineraryRepository(cfg.DBDriver, conn)
	if err != nil {
		log.Fatal(err)
	}

	initAndSeed(conn, repo, cfg.SeedPath, !*schemaOnly)
}

func initAndSeed(conn *sql.DB, repo ports.ItineraryRepository, seedPath string, seed bool) {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if !seed {
		return
	}

	log.Printf("Seeding database from %s...", seedPath)
	if err := repositories.SeedFromJSON(context.Background(), repo, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
