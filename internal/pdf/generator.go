package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/medtrack/backend/pkg/model"
	"go.uber.org/zap"
)

// PDFGenerator renders adherence reports as PDF documents
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// ReportData contains all data needed for report rendering
type ReportData struct {
	Adherence   *model.AdherenceReport
	Medications []model.Medication
	History     []model.HistoryRecord
}

// Generate creates a PDF adherence report from the provided data
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	g.logger.Info("generating adherence report PDF",
		zap.String("start_date", data.Adherence.StartDate),
		zap.String("end_date", data.Adherence.EndDate),
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	g.addTitle(pdf, "Medication Adherence Report", data.Adherence)
	g.addSummary(pdf, data.Adherence)
	g.addDailyBreakdown(pdf, data.Adherence.Days)
	g.addMedicationList(pdf, data.Medications)
	g.addHistoryLog(pdf, data.History)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("adherence report PDF generated",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// addTitle adds the report title and header information
func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, title string, report *model.AdherenceReport) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Period: %s to %s", report.StartDate, report.EndDate), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

// addSummary adds the aggregate adherence figures
func (g *PDFGenerator) addSummary(pdf *gofpdf.Fpdf, report *model.AdherenceReport) {
	g.addSectionHeader(pdf, "Summary")

	pdf.CellFormat(0, 6, fmt.Sprintf("Adherence rate: %d%%", report.Rate), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Doses expected: %d", report.Expected), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Doses taken: %d", report.Taken), "", 1, "L", false, 0, "")
	pdf.Ln(5)
}

// addDailyBreakdown adds the per-day adherence table
func (g *PDFGenerator) addDailyBreakdown(pdf *gofpdf.Fpdf, days []model.DayAggregate) {
	g.addSectionHeader(pdf, "Daily Breakdown")

	if len(days) == 0 {
		pdf.CellFormat(0, 8, "No days in the selected period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(35, 7, "Date", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Taken", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 7, "Missed", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 7, "Skipped", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, "Status", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, day := range days {
		pdf.CellFormat(35, 6, day.Date, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", day.Taken), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", day.Missed), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", day.Skipped), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, string(day.Status), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)
}

// addMedicationList adds the medication list section
func (g *PDFGenerator) addMedicationList(pdf *gofpdf.Fpdf, medications []model.Medication) {
	g.addSectionHeader(pdf, "Medications")

	if len(medications) == 0 {
		pdf.CellFormat(0, 8, "No medications recorded.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, med := range medications {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, med.Name, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  Dosage: %s", med.Dosage), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("  Frequency: %s", med.Frequency), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("  Start Date: %s", med.StartDate), "", 1, "L", false, 0, "")
		if med.EndDate != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("  End Date: %s", med.EndDate), "", 1, "L", false, 0, "")
		}
		if med.Notes != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Notes: %s", med.Notes), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}
	pdf.Ln(5)
}

// addHistoryLog adds the flat history listing
func (g *PDFGenerator) addHistoryLog(pdf *gofpdf.Fpdf, history []model.HistoryRecord) {
	g.addSectionHeader(pdf, "Dose History")

	if len(history) == 0 {
		pdf.CellFormat(0, 8, "No dose events recorded during this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 7, "Date", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Time", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 7, "Medication", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, "Dosage", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Status", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, record := range history {
		pdf.CellFormat(30, 6, record.Date, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, record.Time, "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 6, record.MedicationName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, record.Dosage, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, string(record.Status), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(5)
}
