package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/evermore-events/weddingops/internal/money"
)

type Category string

const (
	CategoryPhotography Category = "PHOTOGRAPHY"
	CategoryVideography Category = "VIDEOGRAPHY"
	CategoryDJ          Category = "DJ"
	CategoryPhotobooth  Category = "PHOTOBOOTH"
)

var Categories = []Category{
	CategoryPhotography,
	CategoryVideography,
	CategoryDJ,
	CategoryPhotobooth,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryPhotography, CategoryVideography, CategoryDJ, CategoryPhotobooth:
		return true
	}
	return false
}

type ScheduleMode string

const (
	ScheduleModeFixed  ScheduleMode = "FIXED"
	ScheduleModeCustom ScheduleMode = "CUSTOM"
)

type ContractStatus string

const (
	ContractStatusBooked        ContractStatus = "BOOKED"
	ContractStatusPartiallyPaid ContractStatus = "PARTIALLY_PAID"
	ContractStatusPaidInFull    ContractStatus = "PAID_IN_FULL"
)

// Contract is the aggregate the billing engine operates on. Total and Status
// are caches of derived values, rewritten on every recomputation. Version
// increments on every financial mutation and backs optimistic-concurrency
// checks from stale clients.
type Contract struct {
	ID           uuid.UUID
	ClientName   string
	ClientEmail  string
	ClientPhone  string
	VenueName    string
	EventDate    time.Time
	LocationID   *uuid.UUID
	ScheduleMode ScheduleMode
	Total        money.Money
	Status       ContractStatus
	Version      int64

	AddOnID                 *uuid.UUID
	AddOn                   *AddOnOption
	DiscretionaryDiscountID *uuid.UUID
	DiscretionaryDiscount   *DiscountOption

	Selections []ServiceSelection
	Products   []ProductLineItem
	Schedule   []ScheduleEntry
	Payments   []Payment

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SelectionFor returns the selection for a category, nil if absent.
func (c *Contract) SelectionFor(cat Category) *ServiceSelection {
	for i := range c.Selections {
		if c.Selections[i].Category == cat {
			return &c.Selections[i]
		}
	}
	return nil
}

type ServiceSelection struct {
	ID         uuid.UUID
	ContractID uuid.UUID
	Category   Category

	PackageID *uuid.UUID
	Package   *PackageOption

	ExtraStaffID *uuid.UUID
	ExtraStaff   *StaffOption

	Overtime []OvertimeEntry
}

// HasPackage reports whether the selection carries a priced package. Extra
// staff and overtime contribute cost only when this is true.
func (s *ServiceSelection) HasPackage() bool {
	return s != nil && s.Package != nil
}

type OvertimeEntry struct {
	ID          uuid.UUID
	SelectionID uuid.UUID
	RateID      uuid.UUID
	Rate        *OvertimeRate
	Hours       int
}

func (o OvertimeEntry) Cost() money.Money {
	if o.Rate == nil || o.Hours <= 0 {
		return 0
	}
	return o.Rate.HourlyRate * money.Money(o.Hours)
}

type ProductLineItem struct {
	ID         uuid.UUID
	ContractID uuid.UUID
	ProductID  uuid.UUID
	Product    *Product
	Quantity   int
}

func (p ProductLineItem) LineCost() money.Money {
	if p.Product == nil || p.Quantity <= 0 {
		return 0
	}
	return p.Product.Price * money.Money(p.Quantity)
}
