package export

import (
	"testing"
	"time"

	"github.com/joaosgotti/web-backend-caixa-dagua/internal/models"
)

func intPtr(n int) *int {
	return &n
}

func TestGenerateCSV(t *testing.T) {
	es := NewExportService()

	readings := []models.LevelReading{
		{ID: 1, Distancia: 23.5, Nivel: intPtr(66), CreatedOn: "2024-05-01T09:00:00-03:00"},
		{ID: 2, Distancia: 40.0, Nivel: nil, CreatedOn: "2024-05-01T09:05:00-03:00"},
	}

	records := es.GenerateCSV(readings)

	if len(records) != 3 {
		t.Fatalf("Expected header plus 2 records, got %d", len(records))
	}

	header := records[0]
	if header[0] != "ID" || header[3] != "Level (%)" {
		t.Errorf("Expected standard header, got %v", header)
	}

	first := records[1]
	if first[0] != "1" || first[1] != "2024-05-01T09:00:00-03:00" || first[2] != "23.50" || first[3] != "66" {
		t.Errorf("Unexpected first record: %v", first)
	}

	second := records[2]
	if second[3] != "n/a" {
		t.Errorf("Expected 'n/a' for a missing level, got %q", second[3])
	}
}

func TestGenerateCSV_Empty(t *testing.T) {
	es := NewExportService()

	records := es.GenerateCSV(nil)

	if len(records) != 1 {
		t.Errorf("Expected only the header for empty history, got %d records", len(records))
	}
}

func TestGenerateExcel(t *testing.T) {
	es := NewExportService()

	readings := []models.LevelReading{
		{ID: 7, Distancia: 15.0, Nivel: intPtr(88), CreatedOn: "2024-05-01T09:00:00-03:00"},
	}
	meta := ExportMetadata{
		GeneratedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		DateRange:     "last 7d",
		TotalReadings: 1,
	}

	file, err := es.GenerateExcel(readings, meta)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("Expected 2 sheets, got %v", sheets)
	}

	rangeValue, err := file.GetCellValue("Summary", "B4")
	if err != nil {
		t.Fatalf("Failed to read summary cell: %v", err)
	}
	if rangeValue != "last 7d" {
		t.Errorf("Expected date range 'last 7d', got %q", rangeValue)
	}

	id, _ := file.GetCellValue("Leituras", "A2")
	nivel, _ := file.GetCellValue("Leituras", "D2")
	if id != "7" {
		t.Errorf("Expected reading ID 7 in the first data row, got %q", id)
	}
	if nivel != "88" {
		t.Errorf("Expected level 88 in the first data row, got %q", nivel)
	}
}
