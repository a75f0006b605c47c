package document

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDF is a single document with a header block followed by tables.
type PDF struct {
	Title  string
	Header []KeyValue
	Tables []Table
}

const (
	pageWidth   = 190.0
	lineHeight  = 7.0
	tableHeight = 6.0
)

// WritePDF renders doc on A4 portrait pages and returns the file bytes.
func WritePDF(doc PDF) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(doc.Title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	for _, kv := range doc.Header {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(55, lineHeight, tr(kv.Key))
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, lineHeight, tr(kv.Value))
		pdf.Ln(lineHeight)
	}

	for _, t := range doc.Tables {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, lineHeight+1, tr(t.Title))
		pdf.Ln(lineHeight + 1)

		if len(t.Header) == 0 {
			continue
		}
		width := pageWidth / float64(len(t.Header))

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(68, 114, 196)
		pdf.SetTextColor(255, 255, 255)
		for _, h := range t.Header {
			pdf.CellFormat(width, tableHeight, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		if len(t.Rows) == 0 {
			pdf.CellFormat(pageWidth, tableHeight, "-", "1", 0, "C", false, 0, "")
			pdf.Ln(-1)
		}
		for _, row := range t.Rows {
			for c := range t.Header {
				var v string
				if c < len(row) {
					v = fmt.Sprint(row[c])
				}
				pdf.CellFormat(width, tableHeight, tr(v), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
