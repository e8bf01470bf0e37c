package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joaosgotti/web-backend-caixa-dagua/config"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/database"
	httphandlers "github.com/joaosgotti/web-backend-caixa-dagua/internal/http"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/services"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/store"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/timezone"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/ws"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("🌊 Starting Caixa d'Água Level API...")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found: %v", err)
	} else {
		log.Println("✅ Loaded .env file")
	}

	// Load configuration. Calibration bounds are validated here and a
	// bad calibration aborts startup: serving levels computed from
	// wrong bounds would be worse than not serving at all.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Printf("📋 Loaded configuration: Server port=%s, calibration min=%d max=%d, display tz=%s",
		cfg.Server.Port, cfg.Calibration.MinDistance, cfg.Calibration.MaxDistance, cfg.Display.Timezone)

	// Initialize data store with PostgreSQL or fallback to in-memory
	var readingStore store.ReadingStore

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Printf("⚠️  Warning: Failed to connect to database: %v", err)
		log.Println("📱 Falling back to in-memory storage")
		readingStore = store.NewMemoryStore(1000)
		log.Println("💾 Initialized in-memory data store")
	} else {
		if err := database.CreateTables(db.DB); err != nil {
			log.Fatalf("❌ Failed to run migrations: %v", err)
		}

		readingStore = database.NewDatabaseStore(db.DB)
		defer db.Close()
		log.Println("💾 Initialized PostgreSQL data store")
	}

	// Reading service: level computation + display timezone
	normalizer := timezone.NewNormalizer(cfg.Display.Timezone)
	readingService := services.NewReadingService(readingStore, cfg.Calibration, normalizer)

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	go wsHub.Run()
	log.Println("🔌 Started WebSocket hub")

	// Broadcaster pushes fresh readings to connected dashboards
	broadcaster := services.NewLevelBroadcaster(readingService, wsHub, 5*time.Second)
	broadcaster.Start()

	// Setup HTTP routes
	router := httphandlers.SetupRoutes(readingService, readingStore, wsHub)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Printf("🚀 Starting HTTP server on port %s", cfg.Server.Port)
		log.Println("📡 API endpoints available:")
		log.Println("  GET /leituras/ultima - Latest reading with computed level")
		log.Println("  GET /leituras/{unit}/{value} - Readings in trailing window (h/d)")
		log.Println("  GET /leituras/stats - Reading statistics")
		log.Println("  GET /leituras/export/history.csv - Export history to CSV")
		log.Println("  GET /leituras/export/history.xlsx - Export history to Excel")
		log.Println("  WS /ws - WebSocket for real-time level updates")
		log.Printf("🌐 Server running at http://localhost:%s", cfg.Server.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ HTTP server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	broadcaster.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server shutdown complete")
}
