package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/evermore-events/weddingops/internal/billing"
	"github.com/evermore-events/weddingops/internal/model"
	"github.com/evermore-events/weddingops/internal/money"
)

type Generator struct {
	fontName string
}

func NewGenerator() (*Generator, error) {
	return &Generator{fontName: "Helvetica"}, nil
}

// Generate renders a client-facing billing statement: event details, the
// per-service cost breakdown, discounts, product tax, the payment schedule
// with per-installment status, and the running balance.
func (g *Generator) Generate(st billing.Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, "Contract Billing Statement", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s", st.GeneratedAt.Format("January 2, 2006")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	g.addClientBlock(pdf, st.Contract)
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Services", "", 1, "L", false, 0, "")

	headers := []string{"Service", "Package", "Extra Staff", "Overtime", "Add-On", "Subtotal"}
	colWidths := []float64{35, 29, 29, 29, 29, 29}
	g.drawTableRow(pdf, headers, colWidths, true)

	for _, cc := range st.Totals.Categories {
		row := []string{
			categoryTitle(cc.Category),
			cc.PackageCost.Dollars(),
			cc.StaffCost.Dollars(),
			cc.OvertimeCost.Dollars(),
			cc.AddOnCost.Dollars(),
			cc.Subtotal.Dollars(),
		}
		g.drawTableRow(pdf, row, colWidths, false)
	}

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "", 10)
	g.summaryLine(pdf, "Services Subtotal", st.Totals.ServicesSubtotal)
	if st.Totals.Discounts.Bundle > 0 {
		g.summaryLine(pdf, "Bundle Discount", -st.Totals.Discounts.Bundle)
	}
	if st.Totals.Discounts.Sunday > 0 {
		g.summaryLine(pdf, "Sunday Discount", -st.Totals.Discounts.Sunday)
	}
	if st.Totals.Discounts.Discretionary > 0 {
		g.summaryLine(pdf, "Additional Discount", -st.Totals.Discounts.Discretionary)
	}
	if st.Totals.Products.Subtotal > 0 {
		g.summaryLine(pdf, "Products", st.Totals.Products.Subtotal)
		g.summaryLine(pdf, fmt.Sprintf("Sales Tax (%.2f%%)", float64(st.Totals.Products.TaxRateBps)/100), st.Totals.Products.Tax)
	}
	pdf.SetFont(g.fontName, "B", 11)
	g.summaryLine(pdf, "Contract Total", st.Totals.Total)
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Payment Schedule", "", 1, "L", false, 0, "")

	scheduleHeaders := []string{"Installment", "Due", "Amount", "Status"}
	scheduleWidths := []float64{70, 45, 35, 30}
	g.drawTableRow(pdf, scheduleHeaders, scheduleWidths, true)
	for _, es := range st.Settlement.Entries {
		row := []string{
			es.Entry.Description,
			formatDueDate(es.Entry.DueDate),
			es.Entry.Amount.Dollars(),
			string(es.Status),
		}
		g.drawTableRow(pdf, row, scheduleWidths, false)
	}

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "", 10)
	g.summaryLine(pdf, "Total Paid", st.Settlement.TotalPaid)
	pdf.SetFont(g.fontName, "B", 11)
	g.summaryLine(pdf, "Balance Due", st.Settlement.BalanceDue)

	if st.Settlement.Complete {
		pdf.Ln(2)
		pdf.SetFont(g.fontName, "B", 11)
		pdf.SetTextColor(0, 120, 0)
		pdf.CellFormat(0, 6, "Paid in full. Thank you!", "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	} else if next := st.Settlement.NextDue; next != nil {
		pdf.Ln(2)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("Next installment: %s, %s, due %s",
			next.Entry.Description, next.Entry.Amount.Dollars(), formatDueDate(next.Entry.DueDate)), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) addClientBlock(pdf *gofpdf.Fpdf, c model.Contract) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(0, 6, "Event", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	lines := []string{
		fmt.Sprintf("Client: %s", safeValue(c.ClientName)),
		fmt.Sprintf("Email: %s", safeValue(c.ClientEmail)),
		fmt.Sprintf("Phone: %s", safeValue(c.ClientPhone)),
		fmt.Sprintf("Venue: %s", safeValue(c.VenueName)),
		fmt.Sprintf("Event Date: %s", formatDate(c.EventDate)),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
}

func (g *Generator) drawTableRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(g.fontName, style, 10)
	for i, col := range cols {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func (g *Generator) summaryLine(pdf *gofpdf.Fpdf, label string, amount money.Money) {
	pdf.CellFormat(0, 6, fmt.Sprintf("%s: %s", label, amount.Dollars()), "", 1, "R", false, 0, "")
}

func categoryTitle(c model.Category) string {
	lower := strings.ToLower(string(c))
	if lower == "" {
		return ""
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("January 2, 2006")
}

func formatDueDate(t *time.Time) string {
	if t == nil {
		return "Upon booking"
	}
	return t.Format("January 2, 2006")
}
