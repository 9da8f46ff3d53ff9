package billing

import (
	"time"

	"github.com/evermore-events/weddingops/internal/model"
	"github.com/evermore-events/weddingops/internal/money"
)

const (
	bundleUnitPerService = money.Money(200_00)
	sundayUnitPerService = money.Money(100_00)
)

// DiscountBreakdown reports the ideal discount per rule. Clamping against the
// services subtotal happens at the aggregator, not here.
type DiscountBreakdown struct {
	Bundle        money.Money
	Sunday        money.Money
	Discretionary money.Money
	Total         money.Money
}

// Discounts applies the bundling and calendar rules to the set of categories
// that have a package selected.
//
// Bundle, with S = selected non-photobooth services:
//
//	photobooth and S >= 2  ->  200 * (S + 1)
//	photobooth and S == 1  ->  200
//	no photobooth, S >= 2  ->  200 * S
//
// Sunday events additionally earn 100 per selected service, photobooth
// included.
func Discounts(selections []model.ServiceSelection, eventDate time.Time, discretionary *model.DiscountOption) DiscountBreakdown {
	var s int
	photobooth := false
	for i := range selections {
		if !selections[i].HasPackage() {
			continue
		}
		if selections[i].Category == model.CategoryPhotobooth {
			photobooth = true
			continue
		}
		s++
	}

	var d DiscountBreakdown

	switch {
	case photobooth && s >= 2:
		d.Bundle = bundleUnitPerService * money.Money(s+1)
	case photobooth && s == 1:
		d.Bundle = bundleUnitPerService
	case !photobooth && s >= 2:
		d.Bundle = bundleUnitPerService * money.Money(s)
	}

	if !eventDate.IsZero() && eventDate.Weekday() == time.Sunday {
		count := s
		if photobooth {
			count++
		}
		d.Sunday = sundayUnitPerService * money.Money(count)
	}

	if discretionary != nil {
		d.Discretionary = discretionary.Amount
	}

	d.Total = d.Bundle + d.Sunday + d.Discretionary
	return d
}
