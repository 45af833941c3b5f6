package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"github.com/yukikurage/staff-management-api/internal/models"
)

// ReportPDF renders a single work report on A4 pages using the core
// Helvetica font. Characters outside cp1252 are not representable.
func ReportPDF(report models.WorkReport, loc *time.Location) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("ReportPDF panic recover: %v", r)
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(report.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(report.Title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	author := report.User.Name
	if author == "" {
		author = report.User.Username
	}
	meta := []string{
		fmt.Sprintf("Author: %s", author),
		fmt.Sprintf("Submitted: %s", report.CreatedAt.In(loc).Format("2006-01-02 15:04")),
		fmt.Sprintf("Status: %s", report.Status),
	}
	if report.ReviewedAt != nil {
		meta = append(meta, fmt.Sprintf("Reviewed: %s", report.ReviewedAt.In(loc).Format("2006-01-02 15:04")))
	}
	for _, line := range meta {
		pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, tr(report.Content), "", "L", false)

	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
