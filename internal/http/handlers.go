package http

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/export"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/services"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/store"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	readings      *services.ReadingService
	store         store.ReadingStore
	exportService *export.ExportService
}

// NewHandlers creates a new handlers instance
func NewHandlers(readings *services.ReadingService, readingStore store.ReadingStore) *Handlers {
	return &Handlers{
		readings:      readings,
		store:         readingStore,
		exportService: export.NewExportService(),
	}
}

// errorResponse is the JSON body for every non-2xx answer
type errorResponse struct {
	Error string `json:"error"`
}

// GetUltimaLeitura returns the most recent reading with its computed
// level. An empty table answers 404; the frontend treats that as "no
// data yet", not as a fault.
func (h *Handlers) GetUltimaLeitura(w http.ResponseWriter, r *http.Request) {
	reading, err := h.readings.Latest(r.Context())
	if err != nil {
		log.Printf("❌ Error fetching latest reading: %v", err)
		h.sendErrorResponse(w, "Internal server error while fetching latest reading", http.StatusInternalServerError)
		return
	}
	if reading == nil {
		h.sendErrorResponse(w, "No readings recorded yet", http.StatusNotFound)
		return
	}

	h.writeJSON(w, reading)
}

// GetLeiturasPorPeriodo returns readings from the trailing window
// {value} hours or days wide, oldest first. Bad units or counts are
// client errors and never reach the store.
func (h *Handlers) GetLeiturasPorPeriodo(w http.ResponseWriter, r *http.Request) {
	unit := chi.URLParam(r, "unit")
	valueStr := chi.URLParam(r, "value")

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		h.sendErrorResponse(w, fmt.Sprintf("Invalid window value %q: must be a positive integer", valueStr), http.StatusBadRequest)
		return
	}

	readings, err := h.readings.Window(r.Context(), unit, value)
	if err != nil {
		if errors.Is(err, services.ErrInvalidUnit) || errors.Is(err, services.ErrInvalidValue) {
			h.sendErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("❌ Error fetching readings window: %v", err)
		h.sendErrorResponse(w, "Internal server error while fetching readings", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, readings)
}

// GetStats returns basic statistics about the stored readings
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.ReadingCount(r.Context())
	if err != nil {
		log.Printf("❌ Error counting readings: %v", err)
		h.sendErrorResponse(w, "Internal server error while fetching stats", http.StatusInternalServerError)
		return
	}

	stats := map[string]interface{}{
		"total_readings": count,
		"server_time":    time.Now().UTC(),
	}

	h.writeJSON(w, stats)
}

// exportWindow resolves the optional unit/value query parameters of
// the export endpoints, defaulting to the last 7 days
func (h *Handlers) exportWindow(r *http.Request) (string, int, error) {
	unit := r.URL.Query().Get("unit")
	if unit == "" {
		unit = "d"
	}

	value := 7
	if valueStr := r.URL.Query().Get("value"); valueStr != "" {
		parsed, err := strconv.Atoi(valueStr)
		if err != nil {
			return "", 0, fmt.Errorf("invalid window value %q: must be a positive integer", valueStr)
		}
		value = parsed
	}

	if _, err := services.ParseWindow(unit, value); err != nil {
		return "", 0, err
	}
	return unit, value, nil
}

// ExportHistoryCSV streams the processed level history as CSV
func (h *Handlers) ExportHistoryCSV(w http.ResponseWriter, r *http.Request) {
	unit, value, err := h.exportWindow(r)
	if err != nil {
		h.sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	readings, err := h.readings.Window(r.Context(), unit, value)
	if err != nil {
		log.Printf("❌ Error fetching readings for CSV export: %v", err)
		h.sendErrorResponse(w, "Internal server error while exporting history", http.StatusInternalServerError)
		return
	}

	records := h.exportService.GenerateCSV(readings)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=history_%s.csv", time.Now().Format("2006-01-02")))

	writer := csv.NewWriter(w)
	if err := h.exportService.WriteCSV(writer, records); err != nil {
		log.Printf("❌ Error writing CSV export: %v", err)
	}
}

// ExportHistoryExcel streams the processed level history as an Excel
// workbook
func (h *Handlers) ExportHistoryExcel(w http.ResponseWriter, r *http.Request) {
	unit, value, err := h.exportWindow(r)
	if err != nil {
		h.sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	readings, err := h.readings.Window(r.Context(), unit, value)
	if err != nil {
		log.Printf("❌ Error fetching readings for Excel export: %v", err)
		h.sendErrorResponse(w, "Internal server error while exporting history", http.StatusInternalServerError)
		return
	}

	meta := export.ExportMetadata{
		GeneratedAt:   time.Now(),
		DateRange:     fmt.Sprintf("last %d%s", value, unit),
		TotalReadings: len(readings),
	}

	file, err := h.exportService.GenerateExcel(readings, meta)
	if err != nil {
		log.Printf("❌ Error generating Excel export: %v", err)
		h.sendErrorResponse(w, "Internal server error while exporting history", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=history_%s.xlsx", time.Now().Format("2006-01-02")))

	if err := file.Write(w); err != nil {
		log.Printf("❌ Error writing Excel export: %v", err)
	}
}

// writeJSON sends a 200 response with a JSON body
func (h *Handlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// sendErrorResponse sends a standardized error response
func (h *Handlers) sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}
