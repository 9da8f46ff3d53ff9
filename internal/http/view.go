package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evermore-events/weddingops/internal/billing"
	"github.com/evermore-events/weddingops/internal/money"
	"github.com/evermore-events/weddingops/internal/service"
)

// settlementView flattens a settlement result into the wire shape the
// portal consumes. Money fields carry both raw cents and a display string.
func settlementView(result *service.SettlementResult) gin.H {
	return gin.H{
		"contract_id":   result.ContractID,
		"version":       result.Version,
		"schedule_mode": result.Mode,
		"totals":        totalsView(result.Totals),
		"settlement":    reconcileView(result.Settlement),
	}
}

func totalsView(t billing.Totals) gin.H {
	categories := make([]gin.H, 0, len(t.Categories))
	for _, cc := range t.Categories {
		categories = append(categories, gin.H{
			"category":       cc.Category,
			"package_cost":   moneyView(cc.PackageCost),
			"staff_cost":     moneyView(cc.StaffCost),
			"overtime_cost":  moneyView(cc.OvertimeCost),
			"addon_cost":     moneyView(cc.AddOnCost),
			"subtotal":       moneyView(cc.Subtotal),
			"included_hours": cc.IncludedHours,
			"overtime_hours": cc.OvertimeHours,
		})
	}
	return gin.H{
		"categories":        categories,
		"services_subtotal": moneyView(t.ServicesSubtotal),
		"discounts": gin.H{
			"bundle":        moneyView(t.Discounts.Bundle),
			"sunday":        moneyView(t.Discounts.Sunday),
			"discretionary": moneyView(t.Discounts.Discretionary),
			"total":         moneyView(t.Discounts.Total),
			"applied":       moneyView(t.AppliedDiscount),
		},
		"products": gin.H{
			"subtotal":         moneyView(t.Products.Subtotal),
			"taxable_subtotal": moneyView(t.Products.TaxableSubtotal),
			"tax_rate_bps":     t.Products.TaxRateBps,
			"tax":              moneyView(t.Products.Tax),
			"total":            moneyView(t.Products.Total),
		},
		"total": moneyView(t.Total),
	}
}

func reconcileView(s billing.Settlement) gin.H {
	entries := make([]gin.H, 0, len(s.Entries))
	for _, es := range s.Entries {
		entries = append(entries, entryView(es))
	}
	view := gin.H{
		"entries":      entries,
		"total_paid":   moneyView(s.TotalPaid),
		"balance_due":  moneyView(s.BalanceDue),
		"complete":     s.Complete,
		"schedule_gap": moneyView(s.ScheduleGap),
		"status":       s.Status,
	}
	if s.NextDue != nil {
		view["next_due"] = entryView(*s.NextDue)
	}
	return view
}

func entryView(es billing.EntryState) gin.H {
	view := gin.H{
		"id":          es.Entry.ID,
		"position":    es.Entry.Position,
		"description": es.Entry.Description,
		"amount":      moneyView(es.Entry.Amount),
		"status":      es.Status,
	}
	if es.Entry.DueDate != nil {
		view["due_date"] = es.Entry.DueDate.Format(time.DateOnly)
	}
	return view
}

func moneyView(m money.Money) gin.H {
	return gin.H{"cents": int64(m), "display": m.Dollars()}
}
