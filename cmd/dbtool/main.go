package main

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"school-route-service/internal/adapters/repositories"
	"school-route-service/internal/config"
	"school-route-service/internal/platform/db"

	"github.com/joho/godotenv"
)

// dbtool prepares a Postgres database: schema plus the destination catalog.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/destinations.json")
	if err := initAndSeed(context.Background(), conn, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
		return err
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := repositories.SeedPostgresFromJSON(ctx, conn, seedPath); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}
