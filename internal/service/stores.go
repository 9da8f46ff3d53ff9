package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/evermore-events/weddingops/internal/model"
	"github.com/evermore-events/weddingops/internal/money"
)

// ContractStore is the persistence collaborator for contract aggregates.
// InTx opens one transaction; ContractTx.Lock must take a row-level lock on
// the contract so no two writers touch the same contract's financial state
// at once.
type ContractStore interface {
	Load(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	InTx(ctx context.Context, fn func(tx ContractTx) error) error
}

type ContractTx interface {
	// Lock loads the full aggregate under SELECT ... FOR UPDATE.
	Lock(id uuid.UUID) (*model.Contract, error)

	// SaveDerived rewrites the cached total/status and bumps the version.
	SaveDerived(id uuid.UUID, total money.Money, status model.ContractStatus, version int64) error

	SetScheduleMode(id uuid.UUID, mode model.ScheduleMode) error
	ReplaceSchedule(id uuid.UUID, entries []model.ScheduleEntry) error
	InsertScheduleEntry(entry model.ScheduleEntry) error
	UpdateScheduleEntry(entry model.ScheduleEntry) error
	DeleteScheduleEntry(id uuid.UUID) error

	InsertPayment(p model.Payment) error
	UpdatePayment(p model.Payment) error
	DeletePayment(id uuid.UUID) error

	ReplaceSelections(id uuid.UUID, update SelectionsUpdate) error
}

// SelectionsUpdate is the persisted form of a selections edit: resolved
// aggregate children plus the scalar references that live on the contract
// row.
type SelectionsUpdate struct {
	Selections              []model.ServiceSelection
	Products                []model.ProductLineItem
	LocationID              *uuid.UUID
	AddOnID                 *uuid.UUID
	DiscretionaryDiscountID *uuid.UUID
}

// Catalog is the read-only rate catalog collaborator. Lookups return
// gorm.ErrRecordNotFound for missing rows; the billing service degrades those
// to zero cost with a logged warning rather than failing the operation.
type Catalog interface {
	Package(ctx context.Context, id uuid.UUID) (*model.PackageOption, error)
	StaffOption(ctx context.Context, id uuid.UUID) (*model.StaffOption, error)
	OvertimeRate(ctx context.Context, id uuid.UUID) (*model.OvertimeRate, error)
	AddOn(ctx context.Context, id uuid.UUID) (*model.AddOnOption, error)
	Product(ctx context.Context, id uuid.UUID) (*model.Product, error)
	DiscountOption(ctx context.Context, id uuid.UUID) (*model.DiscountOption, error)
	TaxRateBps(ctx context.Context, locationID uuid.UUID) (int64, error)
}
