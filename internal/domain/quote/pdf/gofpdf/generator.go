package gofpdf

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"

	"github.com/bitfaber/preventivo/internal/domain/quote/render"
)

type Generator struct{}

func New() *Generator { return &Generator{} }

// Generate emits the document's lines top to bottom in the rendered
// order: bold title first, then regular body lines. Core fonts cover the
// Italian labels; the translator maps UTF-8 input to cp1252.
func (g *Generator) Generate(doc render.Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Dettagli Preventivo", false)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	for i, line := range doc.Lines {
		if i == 0 {
			pdf.SetFont("Helvetica", "B", 16)
			pdf.Cell(0, 10, tr(line))
			pdf.Ln(10)
			pdf.SetFont("Helvetica", "", 11)
			continue
		}
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
