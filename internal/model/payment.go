package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/evermore-events/weddingops/internal/money"
)

type EntryStatus string

const (
	EntryStatusPaid   EntryStatus = "PAID"
	EntryStatusUnpaid EntryStatus = "UNPAID"
)

// ScheduleEntry is one installment of a contract's payment plan. DueDate is
// nil for the fixed-mode deposit, which is due upon booking. Position fixes
// the allocation order used by reconciliation.
type ScheduleEntry struct {
	ID          uuid.UUID
	ContractID  uuid.UUID
	Position    int
	Description string
	DueDate     *time.Time
	Amount      money.Money
}

// Payment is a recorded receipt. Amount is signed; negative amounts represent
// refunds or credits.
type Payment struct {
	ID         uuid.UUID
	ContractID uuid.UUID
	Amount     money.Money
	Method     string
	Reference  string
	Memo       string
	Purpose    string
	ReceivedAt time.Time
	CreatedAt  time.Time
}
