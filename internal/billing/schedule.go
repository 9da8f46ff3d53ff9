package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/evermore-events/weddingops/internal/model"
	"github.com/evermore-events/weddingops/internal/money"
)

const (
	DepositDescription = "Deposit"
	BalanceDescription = "Balance"
)

// ScheduleConfig carries the fixed-mode generation knobs. The legacy modules
// disagreed on the deposit split; the canonical rule lives in configuration
// so the business can change it without a release.
type ScheduleConfig struct {
	DepositPercent  int         // portion of the total due up front
	DepositRoundTo  money.Money // deposit rounds to the nearest multiple, 0 disables
	BalanceLeadDays int         // balance falls due this many days before the event
}

func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		DepositPercent:  50,
		DepositRoundTo:  money.FromDollars(100),
		BalanceLeadDays: 60,
	}
}

// FixedSchedule generates the canonical two-entry plan: a deposit due upon
// booking (no date) and the balance due before the event. The deposit is a
// percentage of the total rounded to the configured unit; the balance absorbs
// the rounding so the two always sum to the contract total. A zero total
// yields no entries.
func FixedSchedule(contractID uuid.UUID, total money.Money, eventDate time.Time, cfg ScheduleConfig) []model.ScheduleEntry {
	if total <= 0 {
		return nil
	}

	deposit := (total * money.Money(cfg.DepositPercent) / 100).RoundToNearest(cfg.DepositRoundTo)
	if deposit > total {
		deposit = total
	}
	if deposit < 0 {
		deposit = 0
	}
	balance := total - deposit

	var balanceDue *time.Time
	if !eventDate.IsZero() {
		due := eventDate.AddDate(0, 0, -cfg.BalanceLeadDays)
		balanceDue = &due
	}

	entries := []model.ScheduleEntry{
		{
			ID:          uuid.New(),
			ContractID:  contractID,
			Position:    0,
			Description: DepositDescription,
			Amount:      deposit,
		},
	}
	entries = append(entries, model.ScheduleEntry{
		ID:          uuid.New(),
		ContractID:  contractID,
		Position:    1,
		Description: BalanceDescription,
		DueDate:     balanceDue,
		Amount:      balance,
	})
	return entries
}
