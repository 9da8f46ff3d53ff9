package model

import (
	"github.com/google/uuid"

	"github.com/evermore-events/weddingops/internal/money"
)

// Rate catalog rows. These are shared, read-only reference data owned by the
// configuration collaborator; contracts only hold references into them.

type PackageOption struct {
	ID            uuid.UUID
	Category      Category
	Name          string
	Price         money.Money
	IncludedHours int
	SortOrder     int
	Active        bool
}

type StaffOption struct {
	ID       uuid.UUID
	Category Category
	Name     string
	Price    money.Money
	Hours    int
	Active   bool
}

type OvertimeRate struct {
	ID         uuid.UUID
	Category   Category
	Role       string
	HourlyRate money.Money
	Active     bool
}

// AddOnOption covers photography-only extras such as an engagement session.
type AddOnOption struct {
	ID     uuid.UUID
	Name   string
	Price  money.Money
	Active bool
}

type Product struct {
	ID      uuid.UUID
	Name    string
	Price   money.Money
	Taxable bool
	Active  bool
}

// DiscountOption is a discretionary discount catalog entry. Amount is the
// authoritative value; Label keeps the legacy display text, which historically
// embedded the amount ("Military ($250)").
type DiscountOption struct {
	ID     uuid.UUID
	Label  string
	Amount money.Money
	Active bool
}

type Location struct {
	ID         uuid.UUID
	Name       string
	State      string
	TaxRateBps int64
}
