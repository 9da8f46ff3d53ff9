package billing

import (
	"github.com/evermore-events/weddingops/internal/model"
	"github.com/evermore-events/weddingops/internal/money"
)

// CategoryCost is one service line's computed cost and hours breakdown.
type CategoryCost struct {
	Category      model.Category
	PackageCost   money.Money
	StaffCost     money.Money
	OvertimeCost  money.Money
	AddOnCost     money.Money
	Subtotal      money.Money
	IncludedHours int
	OvertimeHours int
}

// CostForSelection computes a category subtotal: package + extra staff +
// overtime + add-on (Photography only). A selection with no package costs
// zero no matter what staff or overtime entries hang off it; the intake UI
// allows entering those before a package is chosen, so they are kept but
// priced at nothing until a package exists.
func CostForSelection(sel *model.ServiceSelection, addOn *model.AddOnOption) CategoryCost {
	cost := CategoryCost{}
	if sel == nil {
		return cost
	}
	cost.Category = sel.Category
	if !sel.HasPackage() {
		return cost
	}

	cost.PackageCost = sel.Package.Price
	cost.IncludedHours = sel.Package.IncludedHours

	if sel.ExtraStaff != nil {
		cost.StaffCost = sel.ExtraStaff.Price
		cost.IncludedHours += sel.ExtraStaff.Hours
	}

	for _, ot := range sel.Overtime {
		cost.OvertimeCost += ot.Cost()
		if ot.Hours > 0 {
			cost.OvertimeHours += ot.Hours
		}
	}

	if sel.Category == model.CategoryPhotography && addOn != nil {
		cost.AddOnCost = addOn.Price
	}

	cost.Subtotal = cost.PackageCost + cost.StaffCost + cost.OvertimeCost + cost.AddOnCost
	return cost
}
