// Package certificate renders participation certificates as PDF.
package certificate

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const ContentType = "application/pdf"

type Data struct {
	Participant    string
	Event          string
	Date           string // DD/MM/YYYY
	Faculty        string
	Signatory      string
	SignatoryTitle string
}

type Renderer struct{}

// Render draws an A4 landscape certificate and returns the PDF bytes.
func (Renderer) Render(d Data) ([]byte, error) {
	if d.Faculty == "" {
		d.Faculty = "Faculty Coordinator"
	}

	pdf := fpdf.New("L", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	w, h := pdf.GetPageSize()

	// borders
	pdf.SetDrawColor(0x16, 0x29, 0x78)
	pdf.SetLineWidth(1)
	pdf.Rect(20, 20, w-40, h-40, "D")
	pdf.SetDrawColor(0xdf, 0xf4, 0xf3)
	pdf.SetLineWidth(3)
	pdf.Rect(25, 25, w-50, h-50, "D")

	centered := func(y float64, family, style string, size float64, r, g, b int, text string) {
		pdf.SetFont(family, style, size)
		pdf.SetTextColor(r, g, b)
		pdf.SetXY(0, y)
		pdf.CellFormat(w, size*1.2, tr(text), "", 0, "C", false, 0, "")
	}

	centered(100, "Helvetica", "", 40, 0x16, 0x29, 0x78, "CERTIFICATE")
	centered(150, "Helvetica", "", 25, 0x33, 0x33, 0x33, "OF PARTICIPATION")
	centered(220, "Helvetica", "", 15, 0x55, 0x55, 0x55, "This is to certify that")
	centered(250, "Times", "BI", 35, 0, 0, 0, d.Participant)
	centered(310, "Helvetica", "", 15, 0x55, 0x55, 0x55, "has successfully participated in the event")
	centered(340, "Times", "B", 25, 0x16, 0x29, 0x78, d.Event)
	centered(380, "Helvetica", "", 15, 0x55, 0x55, 0x55, "held on "+d.Date)

	const signY, signW = 480.0, 200.0
	signature := func(x float64, name, title string) {
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(1)
		pdf.Line(x, signY, x+signW, signY)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Times", "B", 14)
		pdf.SetXY(x, signY+10)
		pdf.CellFormat(signW, 16, tr(name), "", 0, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(x, signY+30)
		pdf.CellFormat(signW, 12, tr(title), "", 0, "C", false, 0, "")
	}
	signature(100, d.Faculty, "Faculty Coordinator")
	signature(w-300, d.Signatory, d.SignatoryTitle)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName is the attachment name for a participant's certificate.
func FileName(participant string) string {
	return participant + "_Certificate.pdf"
}
