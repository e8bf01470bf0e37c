package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joaosgotti/web-backend-caixa-dagua/config"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/database"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/level"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/models"
	"github.com/joho/godotenv"
)

func main() {
	var (
		hours = flag.Int("hours", 24, "Window of readings to show, in hours")
	)
	flag.Parse()

	log.Println("🔍 Caixa d'Água Database Viewer")
	log.Println("===============================")

	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Printf("✅ Connected to database: %s@%s:%s/%s",
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	store := database.NewDatabaseStore(db.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-time.Duration(*hours) * time.Hour)
	readings, err := store.ReadingsSince(ctx, cutoff)
	if err != nil {
		log.Fatalf("❌ Query failed: %v", err)
	}

	fmt.Printf("\n📊 Readings from the last %d hour(s):\n", *hours)
	fmt.Println("=====================================")
	fmt.Printf("%-6s %-26s %-14s %-9s\n", "ID", "Created On", "Distance (cm)", "Level (%)")
	fmt.Println("---------------------------------------------------------")

	for _, reading := range readings {
		fmt.Printf("%-6d %-26s %-14.2f %-9s\n",
			reading.ID,
			reading.CreatedOn.Format(time.RFC3339),
			reading.Distancia,
			formatLevel(reading, cfg.Calibration))
	}

	fmt.Printf("\nTotal: %d reading(s)\n", len(readings))
}

func formatLevel(reading models.Reading, bounds config.CalibrationBounds) string {
	distancia := reading.Distancia
	nivel := level.Compute(&distancia, bounds.MinDistance, bounds.MaxDistance)
	if nivel == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *nivel)
}
