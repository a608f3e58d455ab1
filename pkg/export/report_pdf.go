package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// ReportSection is one titled block of body text on the report.
type ReportSection struct {
	Title string
	Lines []string
}

// ReportFactorRow is one factor line in the score table.
type ReportFactorRow struct {
	Label   string
	Score   string
	Comment string
}

// ReportDocument describes a rendered assessment report.
type ReportDocument struct {
	Title       string
	StudentName string
	StudentType string
	GeneratedOn string
	Factors     []ReportFactorRow
	Sections    []ReportSection
}

// ReportPDFExporter renders assessment reports into PDF bytes.
type ReportPDFExporter struct{}

// NewReportPDFExporter constructs a report PDF exporter.
func NewReportPDFExporter() *ReportPDFExporter {
	return &ReportPDFExporter{}
}

// Render creates the report PDF: a header, the factor score table, and the
// narrative sections.
func (e *ReportPDFExporter) Render(doc ReportDocument) ([]byte, error) {
	if doc.Title == "" {
		return nil, fmt.Errorf("pdf requires a title")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, strings.ToUpper(doc.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if doc.StudentName != "" {
		pdf.CellFormat(0, 6, "Student: "+doc.StudentName, "", 1, "L", false, 0, "")
	}
	if doc.StudentType != "" {
		pdf.CellFormat(0, 6, "Profile: "+doc.StudentType, "", 1, "L", false, 0, "")
	}
	if doc.GeneratedOn != "" {
		pdf.CellFormat(0, 6, "Generated: "+doc.GeneratedOn, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(doc.Factors) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(60, 8, "Factor", "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 8, "Score", "1", 0, "C", false, 0, "")
		pdf.CellFormat(105, 8, "Comment", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, row := range doc.Factors {
			pdf.CellFormat(60, 7, row.Label, "1", 0, "", false, 0, "")
			pdf.CellFormat(25, 7, row.Score, "1", 0, "C", false, 0, "")
			pdf.CellFormat(105, 7, row.Comment, "1", 0, "", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	for _, section := range doc.Sections {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, section.Title, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, line := range section.Lines {
			pdf.MultiCell(0, 5, line, "", "L", false)
		}
		pdf.Ln(3)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}
