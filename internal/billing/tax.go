package billing

import (
	"github.com/evermore-events/weddingops/internal/model"
	"github.com/evermore-events/weddingops/internal/money"
)

// ProductTotals is the product-and-tax side of a contract.
type ProductTotals struct {
	Subtotal        money.Money // all line costs, taxable or not
	TaxableSubtotal money.Money
	TaxRateBps      int64
	Tax             money.Money
	Total           money.Money // subtotal + tax
}

// ProductCosts sums line items and applies the location tax rate to the
// taxable portion, rounding half-up to the cent. The rate is looked up once
// per computation cycle by the caller and passed in as basis points.
func ProductCosts(items []model.ProductLineItem, taxRateBps int64) ProductTotals {
	t := ProductTotals{TaxRateBps: taxRateBps}
	for _, item := range items {
		line := item.LineCost()
		t.Subtotal += line
		if item.Product != nil && item.Product.Taxable {
			t.TaxableSubtotal += line
		}
	}
	t.Tax = t.TaxableSubtotal.MulBps(taxRateBps)
	t.Total = t.Subtotal + t.Tax
	return t
}
