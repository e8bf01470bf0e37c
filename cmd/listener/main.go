package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joaosgotti/web-backend-caixa-dagua/config"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/database"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/mqtt"
	"github.com/joho/godotenv"
)

// The listener is the only writer of the leituras table. It runs as
// its own process so a broker hiccup never takes the API down with it.
func main() {
	log.Println("📡 Starting Caixa d'Água MQTT Listener...")

	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Ingestion without persistence is pointless, so unlike the API
	// there is no in-memory fallback here
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.CreateTables(db.DB); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	readingStore := database.NewDatabaseStore(db.DB)

	client := mqtt.NewClient(cfg.MQTT, readingStore)
	if err := client.Connect(); err != nil {
		log.Fatalf("❌ Failed to connect to MQTT broker: %v", err)
	}
	defer client.Disconnect()

	if err := client.SubscribeToDistance(); err != nil {
		log.Fatalf("❌ Failed to subscribe: %v", err)
	}

	log.Printf("✅ Listening on topic %s", cfg.MQTT.TopicDistance)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down listener...")
}
