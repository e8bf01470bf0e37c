package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/services"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/store"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/ws"
)

// SetupRoutes configures all HTTP routes for the level API
func SetupRoutes(readings *services.ReadingService, readingStore store.ReadingStore, wsHub *ws.Hub) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"}, // In production, specify allowed origins
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	handlers := NewHandlers(readings, readingStore)

	r.Route("/leituras", func(r chi.Router) {
		// Latest reading with computed level
		r.Get("/ultima", handlers.GetUltimaLeitura)

		// Reading statistics
		r.Get("/stats", handlers.GetStats)

		// History export for spreadsheets / charts
		r.Route("/export", func(r chi.Router) {
			r.Get("/history.csv", handlers.ExportHistoryCSV)
			r.Get("/history.xlsx", handlers.ExportHistoryExcel)
		})

		// Trailing window: unit is 'h' or 'd', value >= 1
		r.Get("/{unit}/{value}", handlers.GetLeiturasPorPeriodo)
	})

	// WebSocket route for real-time level updates
	if wsHub != nil {
		r.HandleFunc("/ws", wsHub.HandleWebSocket)
	}

	return r
}
