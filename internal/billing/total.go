package billing

import (
	"time"

	"github.com/evermore-events/weddingops/internal/model"
	"github.com/evermore-events/weddingops/internal/money"
)

// Quote is the immutable snapshot a total is computed from. It carries
// everything the calculators need so that recomputation is a pure function of
// one value, with no ambient state.
type Quote struct {
	EventDate     time.Time
	Selections    []model.ServiceSelection
	AddOn         *model.AddOnOption
	Products      []model.ProductLineItem
	Discretionary *model.DiscountOption
	TaxRateBps    int64
}

// QuoteFor builds a Quote from a loaded contract aggregate plus the tax rate
// resolved for its location.
func QuoteFor(c *model.Contract, taxRateBps int64) Quote {
	return Quote{
		EventDate:     c.EventDate,
		Selections:    c.Selections,
		AddOn:         c.AddOn,
		Products:      c.Products,
		Discretionary: c.DiscretionaryDiscount,
		TaxRateBps:    taxRateBps,
	}
}

// Totals is the full pricing breakdown for a contract.
type Totals struct {
	Categories       []CategoryCost
	ServicesSubtotal money.Money
	Discounts        DiscountBreakdown
	AppliedDiscount  money.Money // Discounts.Total capped at ServicesSubtotal
	Products         ProductTotals
	Total            money.Money
}

// Compute is the contract total aggregator:
//
//	total = services subtotal - discounts + product total, floored at zero
//
// This is the only place discounts are subtracted. The floor means the
// applied discount can be smaller than the ideal discount the engine reports.
func Compute(q Quote) Totals {
	t := Totals{}

	for i := range q.Selections {
		cost := CostForSelection(&q.Selections[i], q.AddOn)
		t.Categories = append(t.Categories, cost)
		t.ServicesSubtotal += cost.Subtotal
	}

	t.Discounts = Discounts(q.Selections, q.EventDate, q.Discretionary)
	t.AppliedDiscount = t.Discounts.Total
	if t.AppliedDiscount > t.ServicesSubtotal {
		t.AppliedDiscount = t.ServicesSubtotal
	}

	t.Products = ProductCosts(q.Products, q.TaxRateBps)

	t.Total = money.Clamp(t.ServicesSubtotal - t.AppliedDiscount + t.Products.Total)
	return t
}
