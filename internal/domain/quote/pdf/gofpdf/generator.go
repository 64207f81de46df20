package gofpdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Additional-Code/funerarias/internal/domain/lineitem"
	"github.com/Additional-Code/funerarias/internal/domain/quote"
)

type Generator struct {
	now func() time.Time
}

func New() *Generator { return &Generator{now: time.Now} }

func (g *Generator) Generate(doc quote.Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(fmt.Sprintf("%s %s", doc.Kind, doc.Number)), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(fmt.Sprintf("%s N° %s", doc.Kind, doc.Number)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	if !doc.Date.IsZero() {
		pdf.Cell(0, 5, tr("Fecha: "+doc.Date.Format("02-01-2006")))
		pdf.Ln(5)
	}
	if !doc.ValidUntil.IsZero() {
		pdf.Cell(0, 5, tr("Válida hasta: "+doc.ValidUntil.Format("02-01-2006")))
		pdf.Ln(5)
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(95, 6, tr("Emisor"))
	pdf.Cell(95, 6, tr("Cliente"))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	left := []string{doc.Issuer.Name, rutLine(doc.Issuer.RUT), doc.Issuer.Address, doc.Issuer.Email, doc.Issuer.Phone}
	right := []string{doc.Client.Name, rutLine(doc.Client.RUT), doc.Client.Email, doc.Client.Phone, ""}
	for i := range left {
		if left[i] == "" && right[i] == "" {
			continue
		}
		pdf.Cell(95, 5, tr(trim(left[i], 50)))
		pdf.Cell(95, 5, tr(trim(right[i], 50)))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(85, 7, tr("Detalle"), "B", 0, "L", true, 0, "")
	pdf.CellFormat(15, 7, tr("Cant."), "B", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, tr("Precio"), "B", 0, "R", true, 0, "")
	pdf.CellFormat(20, 7, tr("Dcto."), "B", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, tr("Subtotal"), "B", 0, "R", true, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range doc.Items {
		pdf.CellFormat(85, 6, tr(trim(it.Name, 48)), "", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, lineitem.FormatCLP(it.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, lineitem.FormatPercent(it.DiscountPercent), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, lineitem.FormatCLP(it.Subtotal), "", 0, "R", false, 0, "")
		pdf.Ln(6)
		if it.Description != "" {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(85, 4, tr(trim(it.Description, 60)), "", 0, "L", false, 0, "")
			pdf.Ln(4)
			pdf.SetFont("Helvetica", "", 9)
		}
	}

	pdf.Ln(4)
	totals := [][2]string{
		{"Subtotal", lineitem.FormatCLP(doc.Totals.Subtotal)},
		{"IVA (" + lineitem.FormatPercent(doc.TaxRate) + ")", lineitem.FormatCLP(doc.Totals.Tax)},
		{"Total", lineitem.FormatCLP(doc.Totals.Total)},
	}
	for i, row := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Helvetica", "B", 11)
		} else {
			pdf.SetFont("Helvetica", "", 10)
		}
		pdf.CellFormat(150, 6, tr(row[0]), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, row[1], "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}

	if doc.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, tr(doc.Notes), "", "L", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Cell(0, 5, tr("Generado: "+g.now().Format(time.RFC3339)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func rutLine(rut string) string {
	if rut == "" {
		return ""
	}
	return "RUT " + rut
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
