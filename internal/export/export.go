package export

import (
	"encoding/csv"
	"strconv"
	"time"

	"github.com/joaosgotti/web-backend-caixa-dagua/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExportService renders processed level history as downloadable files
type ExportService struct{}

// NewExportService creates a new export service instance
func NewExportService() *ExportService {
	return &ExportService{}
}

// ExportMetadata contains information about the export
type ExportMetadata struct {
	GeneratedAt   time.Time `json:"generated_at"`
	DateRange     string    `json:"date_range"`
	TotalReadings int       `json:"total_readings"`
}

// GenerateExcel creates an Excel file with the level history
func (es *ExportService) GenerateExcel(readings []models.LevelReading, meta ExportMetadata) (*excelize.File, error) {
	f := excelize.NewFile()

	es.createSummarySheet(f, meta)
	es.createReadingsSheet(f, readings)

	f.SetActiveSheet(0)

	return f, nil
}

// createSummarySheet creates the summary overview sheet
func (es *ExportService) createSummarySheet(f *excelize.File, meta ExportMetadata) error {
	sheetName := "Summary"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", "Water Tank Level History")
	f.MergeCell(sheetName, "A1", "C1")
	f.SetCellStyle(sheetName, "A1", "C1", headerStyle)
	f.SetRowHeight(sheetName, 1, 25)

	f.SetCellValue(sheetName, "A3", "Generated At:")
	f.SetCellValue(sheetName, "B3", meta.GeneratedAt.Format("2006-01-02 15:04:05"))
	f.SetCellValue(sheetName, "A4", "Date Range:")
	f.SetCellValue(sheetName, "B4", meta.DateRange)
	f.SetCellValue(sheetName, "A5", "Total Readings:")
	f.SetCellValue(sheetName, "B5", meta.TotalReadings)

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "C", 25)

	return nil
}

// createReadingsSheet creates the level readings sheet
func (es *ExportService) createReadingsSheet(f *excelize.File, readings []models.LevelReading) error {
	sheetName := "Leituras"
	f.NewSheet(sheetName)

	headers := []string{"ID", "Timestamp", "Distance (cm)", "Level (%)"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"70AD47"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	f.SetCellStyle(sheetName, "A1", "D1", headerStyle)

	for i, reading := range readings {
		row := i + 2
		cellA, _ := excelize.CoordinatesToCellName(1, row)
		cellB, _ := excelize.CoordinatesToCellName(2, row)
		cellC, _ := excelize.CoordinatesToCellName(3, row)
		cellD, _ := excelize.CoordinatesToCellName(4, row)

		f.SetCellValue(sheetName, cellA, reading.ID)
		f.SetCellValue(sheetName, cellB, reading.CreatedOn)
		f.SetCellValue(sheetName, cellC, reading.Distancia)
		if reading.Nivel != nil {
			f.SetCellValue(sheetName, cellD, *reading.Nivel)
		} else {
			f.SetCellValue(sheetName, cellD, "n/a")
		}
	}

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 28)
	f.SetColWidth(sheetName, "C", "D", 14)

	return nil
}

// GenerateCSV creates CSV records for level readings
func (es *ExportService) GenerateCSV(readings []models.LevelReading) [][]string {
	records := [][]string{
		{"ID", "Timestamp", "Distance (cm)", "Level (%)"},
	}

	for _, reading := range readings {
		nivel := "n/a"
		if reading.Nivel != nil {
			nivel = strconv.Itoa(*reading.Nivel)
		}
		record := []string{
			strconv.FormatInt(reading.ID, 10),
			reading.CreatedOn,
			strconv.FormatFloat(reading.Distancia, 'f', 2, 64),
			nivel,
		}
		records = append(records, record)
	}

	return records
}

// WriteCSV writes CSV data to a writer
func (es *ExportService) WriteCSV(w *csv.Writer, records [][]string) error {
	return w.WriteAll(records)
}
