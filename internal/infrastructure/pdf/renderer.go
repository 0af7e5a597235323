// Package pdf renders quotations and invoices to PDF with gofpdf.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"bizconsole/internal/core/types"
	"bizconsole/internal/domain/documents"
	"bizconsole/pkg/logger"
)

// Renderer implements documents.Renderer using the built-in Helvetica font,
// so no font files are needed at runtime. Text is transcoded to cp1252.
type Renderer struct {
	// Company is printed in the page footer.
	Company string
}

var _ documents.Renderer = (*Renderer)(nil)

// New creates a renderer.
func New(company string) *Renderer {
	return &Renderer{Company: company}
}

// ContentType implements documents.Renderer.
func (r *Renderer) ContentType() string {
	return "application/pdf"
}

// Filename returns the download name for doc.
func Filename(doc documents.Document) string {
	name := doc.Number
	if name == "" {
		name = string(doc.Kind)
	}
	return name + ".pdf"
}

// Render implements documents.Renderer. Amounts are rounded to two decimals here
// and nowhere else.
func (r *Renderer) Render(ctx context.Context, doc documents.Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(fmt.Sprintf("%s %s", doc.Kind.Label(), doc.Number)), false)
	pdf.SetCreator("bizconsole", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 10, strings.ToUpper(doc.Kind.Label()))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	header := [][2]string{
		{doc.Kind.Label() + " #", doc.Number},
		{"Date", doc.IssueDate.String()},
		{doc.Kind.DateLabel(), doc.DueOrValidDate.String()},
		{"Status", strings.ToUpper(string(doc.Status))},
		{"Customer", doc.Customer},
	}
	if doc.Project != "" {
		header = append(header, [2]string{"Project", doc.Project})
	}
	for _, kv := range header {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(35, 6, tr(kv[0]+":"))
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 6, tr(kv[1]))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(95, 8, "Service", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Rate", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range doc.Items {
		pdf.CellFormat(95, 7, tr(trim(item.Service, 55)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, item.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, types.Format2(item.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, types.Format2(item.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	totals := [][2]string{
		{"Subtotal", types.Format2(doc.Subtotal)},
		{fmt.Sprintf("Tax (%s%%)", doc.TaxPercent.String()), types.Format2(doc.TaxAmount)},
		{fmt.Sprintf("Discount (%s%%)", doc.DiscountPercent.String()), "-" + types.Format2(doc.DiscountAmount)},
	}
	for _, kv := range totals {
		pdf.Cell(120, 6, "")
		pdf.Cell(35, 6, kv[0])
		pdf.CellFormat(35, 6, kv[1], "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(120, 8, "")
	pdf.Cell(35, 8, "Total")
	pdf.CellFormat(35, 8, types.Format2(doc.Total), "", 1, "R", false, 0, "")

	if doc.Notes != "" {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 6, "Notes")
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(doc.Notes), "", "L", false)
	}

	if r.Company != "" {
		pdf.SetY(-20)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 5, tr(r.Company), "", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		logger.Error(ctx, "pdf output failed", "number", doc.Number, "error", err)
		return nil, fmt.Errorf("render %s: %w", doc.Number, err)
	}
	return buf.Bytes(), nil
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
