package statement

import (
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the statement on one A4 portrait page.
func (s Statement) WritePDF(w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(s.Title+" "+s.PeriodTitle, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(s.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, tr(s.PeriodTitle), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, tr(s.DateRange), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	for _, section := range s.Sections {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, tr(section.Title), "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, row := range section.Rows {
			pdf.CellFormat(110, 7, tr(row.Label), "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 7, tr(row.Value), "", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, tr(s.Footer), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}
