package billing

import (
	"github.com/evermore-events/weddingops/internal/model"
	"github.com/evermore-events/weddingops/internal/money"
)

// Epsilon absorbs sub-cent drift when deciding whether an installment or the
// whole contract is settled.
const Epsilon = money.Money(1)

// EntryState is a schedule entry with its derived paid/unpaid status.
type EntryState struct {
	Entry  model.ScheduleEntry
	Status model.EntryStatus
}

// Settlement is the reconciler's projection of a contract's ledger.
type Settlement struct {
	Entries     []EntryState
	TotalPaid   money.Money
	BalanceDue  money.Money
	NextDue     *EntryState
	Complete    bool
	ScheduleGap money.Money // scheduled sum minus contract total; nonzero only in custom mode
	Status      model.ContractStatus
}

// Reconcile allocates cumulative payments against schedule entries in order.
// Each entry consumes its amount from the running remainder whether or not it
// was covered; an entry is paid when the remainder covers it within Epsilon.
// This matches the deposit-then-balance allocation the fixed split requires:
// money fills slots in order even when insufficient.
func Reconcile(total money.Money, entries []model.ScheduleEntry, payments []model.Payment) Settlement {
	s := Settlement{}

	for _, p := range payments {
		s.TotalPaid += p.Amount
	}

	var scheduled money.Money
	remaining := s.TotalPaid
	for _, entry := range entries {
		scheduled += entry.Amount
		state := EntryState{Entry: entry, Status: model.EntryStatusUnpaid}
		if remaining >= entry.Amount-Epsilon {
			state.Status = model.EntryStatusPaid
		}
		remaining -= entry.Amount
		s.Entries = append(s.Entries, state)
	}

	for i := range s.Entries {
		if s.Entries[i].Status == model.EntryStatusUnpaid {
			s.NextDue = &s.Entries[i]
			break
		}
	}
	s.Complete = s.NextDue == nil

	s.BalanceDue = money.Clamp(total - s.TotalPaid)
	s.ScheduleGap = scheduled - total

	switch {
	case total > 0 && s.BalanceDue <= Epsilon:
		s.Status = model.ContractStatusPaidInFull
	case s.TotalPaid > 0 && s.TotalPaid < total:
		s.Status = model.ContractStatusPartiallyPaid
	default:
		s.Status = model.ContractStatusBooked
	}

	return s
}
