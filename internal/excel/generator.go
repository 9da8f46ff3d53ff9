package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/evermore-events/weddingops/internal/billing"
	"github.com/evermore-events/weddingops/internal/money"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate writes the contract ledger workbook: a summary sheet with totals
// and schedule status, and a payments sheet listing every recorded receipt.
func (g *Generator) Generate(st billing.Statement) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, st); err != nil {
		return nil, err
	}

	paymentsSheet := "Payments"
	file.NewSheet(paymentsSheet)
	if err := g.writePayments(file, paymentsSheet, st); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, st billing.Statement) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Client")
	set("B1", st.Contract.ClientName)
	set("A2", "Event Date")
	set("B2", formatDate(st.Contract.EventDate))
	set("A3", "Venue")
	set("B3", st.Contract.VenueName)
	set("A4", "Schedule Mode")
	set("B4", string(st.Contract.ScheduleMode))
	set("A5", "Status")
	set("B5", string(st.Settlement.Status))
	set("A6", "Contract Total")
	set("B6", formatMoney(st.Totals.Total))
	set("A7", "Total Paid")
	set("B7", formatMoney(st.Settlement.TotalPaid))
	set("A8", "Balance Due")
	set("B8", formatMoney(st.Settlement.BalanceDue))

	row := 10
	set(fmt.Sprintf("A%d", row), "Service")
	set(fmt.Sprintf("B%d", row), "Subtotal")
	for _, cc := range st.Totals.Categories {
		row++
		set(fmt.Sprintf("A%d", row), string(cc.Category))
		set(fmt.Sprintf("B%d", row), formatMoney(cc.Subtotal))
	}
	row++
	set(fmt.Sprintf("A%d", row), "Discounts")
	set(fmt.Sprintf("B%d", row), formatMoney(-st.Totals.AppliedDiscount))
	if st.Totals.Products.Subtotal > 0 {
		row++
		set(fmt.Sprintf("A%d", row), "Products")
		set(fmt.Sprintf("B%d", row), formatMoney(st.Totals.Products.Subtotal))
		row++
		set(fmt.Sprintf("A%d", row), fmt.Sprintf("Sales Tax (%.2f%%)", float64(st.Totals.Products.TaxRateBps)/100))
		set(fmt.Sprintf("B%d", row), formatMoney(st.Totals.Products.Tax))
	}

	row += 2
	set(fmt.Sprintf("A%d", row), "Installment")
	set(fmt.Sprintf("B%d", row), "Due")
	set(fmt.Sprintf("C%d", row), "Amount")
	set(fmt.Sprintf("D%d", row), "Status")
	for _, es := range st.Settlement.Entries {
		row++
		set(fmt.Sprintf("A%d", row), es.Entry.Description)
		set(fmt.Sprintf("B%d", row), formatDueDate(es.Entry.DueDate))
		set(fmt.Sprintf("C%d", row), formatMoney(es.Entry.Amount))
		set(fmt.Sprintf("D%d", row), string(es.Status))
	}

	_ = file.SetColWidth(sheet, "A", "A", 30)
	_ = file.SetColWidth(sheet, "B", "B", 18)
	_ = file.SetColWidth(sheet, "C", "C", 14)
	_ = file.SetColWidth(sheet, "D", "D", 12)
	return nil
}

func (g *Generator) writePayments(file *excelize.File, sheet string, st billing.Statement) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{"Received", "Amount", "Method", "Reference", "Purpose", "Memo"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, p := range st.Contract.Payments {
		row := 2 + i
		set(fmt.Sprintf("A%d", row), formatDateTime(p.ReceivedAt))
		set(fmt.Sprintf("B%d", row), formatMoney(p.Amount))
		set(fmt.Sprintf("C%d", row), p.Method)
		set(fmt.Sprintf("D%d", row), p.Reference)
		set(fmt.Sprintf("E%d", row), p.Purpose)
		set(fmt.Sprintf("F%d", row), p.Memo)
	}

	totalRow := 2 + len(st.Contract.Payments) + 1
	set(fmt.Sprintf("A%d", totalRow), "Total")
	set(fmt.Sprintf("B%d", totalRow), formatMoney(st.Settlement.TotalPaid))

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "B", 14)
	_ = file.SetColWidth(sheet, "C", "E", 18)
	_ = file.SetColWidth(sheet, "F", "F", 40)
	return nil
}

func formatMoney(m money.Money) string {
	return m.Dollars()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatDueDate(t *time.Time) string {
	if t == nil {
		return "Upon booking"
	}
	return t.Format("2006-01-02")
}
