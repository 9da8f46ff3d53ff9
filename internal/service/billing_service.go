package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/evermore-events/weddingops/internal/billing"
	"github.com/evermore-events/weddingops/internal/config"
	"github.com/evermore-events/weddingops/internal/model"
	"github.com/evermore-events/weddingops/internal/money"
)

// BillingService owns the contract pricing and settlement flows. Every
// mutation runs inside one row-locked transaction: load the aggregate,
// recompute with the pure calculators, persist derived state, all or nothing.
type BillingService struct {
	store    ContractStore
	catalog  Catalog
	schedule billing.ScheduleConfig
	log      zerolog.Logger
}

func NewBillingService(store ContractStore, catalog Catalog, cfg *config.Config, log zerolog.Logger) *BillingService {
	return &BillingService{
		store:   store,
		catalog: catalog,
		schedule: billing.ScheduleConfig{
			DepositPercent:  cfg.Billing.DepositPercent,
			DepositRoundTo:  cfg.Billing.DepositRoundTo,
			BalanceLeadDays: cfg.Billing.BalanceLeadDays,
		},
		log: log,
	}
}

// SettlementResult is returned by every operation: the recomputed totals and
// the reconciled schedule snapshot.
type SettlementResult struct {
	ContractID uuid.UUID
	Version    int64
	Mode       model.ScheduleMode
	Totals     billing.Totals
	Settlement billing.Settlement
}

// taxRateFor resolves the location tax rate once per computation cycle. A
// missing location degrades to a zero rate with a warning: the business must
// still be able to save a contract with incomplete catalog data.
func (s *BillingService) taxRateFor(ctx context.Context, locationID *uuid.UUID) int64 {
	if locationID == nil {
		return 0
	}
	rate, err := s.catalog.TaxRateBps(ctx, *locationID)
	if err != nil {
		s.log.Warn().Err(err).Str("location_id", locationID.String()).Msg("tax rate lookup failed, using zero")
		return 0
	}
	return rate
}

// recompute runs the aggregator and reconciler against the locked aggregate
// and persists the derived total, status and bumped version. In fixed mode a
// total change regenerates the two-entry schedule.
func (s *BillingService) recompute(ctx context.Context, tx ContractTx, c *model.Contract) (*SettlementResult, error) {
	totals := billing.Compute(billing.QuoteFor(c, s.taxRateFor(ctx, c.LocationID)))

	entries := c.Schedule
	if c.ScheduleMode == model.ScheduleModeFixed && totals.Total != c.Total {
		entries = billing.FixedSchedule(c.ID, totals.Total, c.EventDate, s.schedule)
		if err := tx.ReplaceSchedule(c.ID, entries); err != nil {
			return nil, err
		}
	}

	settlement := billing.Reconcile(totals.Total, entries, c.Payments)

	version := c.Version + 1
	if err := tx.SaveDerived(c.ID, totals.Total, settlement.Status, version); err != nil {
		return nil, err
	}

	return &SettlementResult{
		ContractID: c.ID,
		Version:    version,
		Mode:       c.ScheduleMode,
		Totals:     totals,
		Settlement: settlement,
	}, nil
}

func (s *BillingService) lock(tx ContractTx, id uuid.UUID, expectedVersion int64) (*model.Contract, error) {
	c, err := tx.Lock(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contract %s", ErrNotFound, id)
		}
		return nil, err
	}
	if expectedVersion != 0 && c.Version != expectedVersion {
		return nil, ErrConflict
	}
	return c, nil
}

// ComputeTotal re-derives the contract total from current selections and
// persists the cache.
func (s *BillingService) ComputeTotal(ctx context.Context, contractID uuid.UUID) (*SettlementResult, error) {
	var result *SettlementResult
	err := s.store.InTx(ctx, func(tx ContractTx) error {
		c, err := s.lock(tx, contractID, 0)
		if err != nil {
			return err
		}
		result, err = s.recompute(ctx, tx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetSettlement is the read-side projection: no writes, no locks.
func (s *BillingService) GetSettlement(ctx context.Context, contractID uuid.UUID) (*SettlementResult, error) {
	c, err := s.store.Load(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contract %s", ErrNotFound, contractID)
		}
		return nil, err
	}
	totals := billing.Compute(billing.QuoteFor(c, s.taxRateFor(ctx, c.LocationID)))
	return &SettlementResult{
		ContractID: c.ID,
		Version:    c.Version,
		Mode:       c.ScheduleMode,
		Totals:     totals,
		Settlement: billing.Reconcile(totals.Total, c.Schedule, c.Payments),
	}, nil
}

type OvertimeInput struct {
	RateID uuid.UUID
	Hours  int
}

type SelectionInput struct {
	Category     model.Category
	PackageID    *uuid.UUID
	ExtraStaffID *uuid.UUID
	Overtime     []OvertimeInput
}

type ProductInput struct {
	ProductID uuid.UUID
	Quantity  int
}

type UpdateSelectionsInput struct {
	ContractID              uuid.UUID
	ExpectedVersion         int64
	Selections              []SelectionInput
	Products                []ProductInput
	LocationID              *uuid.UUID
	AddOnID                 *uuid.UUID
	DiscretionaryDiscountID *uuid.UUID
	Principal               model.Principal
}

// UpdateSelections replaces the contract's service selections, products,
// add-on, discretionary discount and location, then recomputes.
func (s *BillingService) UpdateSelections(ctx context.Context, input UpdateSelectionsInput) (*SettlementResult, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	selections, err := s.resolveSelections(ctx, input.ContractID, input.Selections)
	if err != nil {
		return nil, err
	}
	products, err := s.resolveProducts(ctx, input.ContractID, input.Products)
	if err != nil {
		return nil, err
	}
	addOn, err := s.resolveAddOn(ctx, input.AddOnID)
	if err != nil {
		return nil, err
	}
	discount, err := s.resolveDiscount(ctx, input.DiscretionaryDiscountID)
	if err != nil {
		return nil, err
	}

	update := SelectionsUpdate{
		Selections:              selections,
		Products:                products,
		LocationID:              input.LocationID,
		AddOnID:                 input.AddOnID,
		DiscretionaryDiscountID: input.DiscretionaryDiscountID,
	}

	var result *SettlementResult
	err = s.store.InTx(ctx, func(tx ContractTx) error {
		c, err := s.lock(tx, input.ContractID, input.ExpectedVersion)
		if err != nil {
			return err
		}
		if err := tx.ReplaceSelections(input.ContractID, update); err != nil {
			return err
		}

		c.Selections = selections
		c.Products = products
		c.LocationID = input.LocationID
		c.AddOn = addOn
		c.AddOnID = input.AddOnID
		c.DiscretionaryDiscount = discount
		c.DiscretionaryDiscountID = input.DiscretionaryDiscountID

		result, err = s.recompute(ctx, tx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *BillingService) resolveSelections(ctx context.Context, contractID uuid.UUID, inputs []SelectionInput) ([]model.ServiceSelection, error) {
	seen := map[model.Category]bool{}
	out := make([]model.ServiceSelection, 0, len(inputs))
	for _, in := range inputs {
		if !in.Category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
		}
		if seen[in.Category] {
			return nil, fmt.Errorf("%w: duplicate selection for category %s", ErrInvalidInput, in.Category)
		}
		seen[in.Category] = true

		sel := model.ServiceSelection{
			ID:         uuid.New(),
			ContractID: contractID,
			Category:   in.Category,
			PackageID:  in.PackageID,
		}
		if in.PackageID != nil {
			pkg, err := s.catalog.Package(ctx, *in.PackageID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, err
				}
				s.log.Warn().Str("package_id", in.PackageID.String()).Msg("package lookup miss, selection priced at zero")
			} else if pkg.Category != in.Category {
				return nil, fmt.Errorf("%w: package %s does not belong to category %s", ErrInvalidInput, pkg.ID, in.Category)
			} else {
				sel.Package = pkg
			}
		}
		if in.ExtraStaffID != nil {
			sel.ExtraStaffID = in.ExtraStaffID
			staff, err := s.catalog.StaffOption(ctx, *in.ExtraStaffID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, err
				}
				s.log.Warn().Str("staff_option_id", in.ExtraStaffID.String()).Msg("staff option lookup miss, priced at zero")
			} else {
				sel.ExtraStaff = staff
			}
		}
		for _, ot := range in.Overtime {
			if ot.Hours <= 0 {
				return nil, fmt.Errorf("%w: overtime hours must be positive", ErrInvalidInput)
			}
			entry := model.OvertimeEntry{
				ID:          uuid.New(),
				SelectionID: sel.ID,
				RateID:      ot.RateID,
				Hours:       ot.Hours,
			}
			rate, err := s.catalog.OvertimeRate(ctx, ot.RateID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, err
				}
				s.log.Warn().Str("rate_id", ot.RateID.String()).Msg("overtime rate lookup miss, priced at zero")
			} else {
				entry.Rate = rate
			}
			sel.Overtime = append(sel.Overtime, entry)
		}
		out = append(out, sel)
	}
	return out, nil
}

func (s *BillingService) resolveProducts(ctx context.Context, contractID uuid.UUID, inputs []ProductInput) ([]model.ProductLineItem, error) {
	out := make([]model.ProductLineItem, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity < 1 {
			return nil, fmt.Errorf("%w: product quantity must be at least 1", ErrInvalidInput)
		}
		item := model.ProductLineItem{
			ID:         uuid.New(),
			ContractID: contractID,
			ProductID:  in.ProductID,
			Quantity:   in.Quantity,
		}
		product, err := s.catalog.Product(ctx, in.ProductID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			s.log.Warn().Str("product_id", in.ProductID.String()).Msg("product lookup miss, line priced at zero")
		} else {
			item.Product = product
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *BillingService) resolveAddOn(ctx context.Context, id *uuid.UUID) (*model.AddOnOption, error) {
	if id == nil {
		return nil, nil
	}
	addOn, err := s.catalog.AddOn(ctx, *id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		s.log.Warn().Str("addon_id", id.String()).Msg("add-on lookup miss, priced at zero")
		return nil, nil
	}
	return addOn, nil
}

func (s *BillingService) resolveDiscount(ctx context.Context, id *uuid.UUID) (*model.DiscountOption, error) {
	if id == nil {
		return nil, nil
	}
	opt, err := s.catalog.DiscountOption(ctx, *id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		s.log.Warn().Str("discount_id", id.String()).Msg("discount lookup miss, applied as zero")
		return nil, nil
	}
	return opt, nil
}

type SetScheduleModeInput struct {
	ContractID      uuid.UUID
	Mode            model.ScheduleMode
	ExpectedVersion int64
	Principal       model.Principal
}

// SetScheduleMode drives the schedule state machine. Switching into fixed
// mode discards whatever entries exist and regenerates the canonical
// deposit/balance pair; switching into custom mode keeps the current entries
// as the editable starting point.
func (s *BillingService) SetScheduleMode(ctx context.Context, input SetScheduleModeInput) (*SettlementResult, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if input.Mode != model.ScheduleModeFixed && input.Mode != model.ScheduleModeCustom {
		return nil, fmt.Errorf("%w: unknown schedule mode %q", ErrInvalidInput, input.Mode)
	}

	var result *SettlementResult
	err := s.store.InTx(ctx, func(tx ContractTx) error {
		c, err := s.lock(tx, input.ContractID, input.ExpectedVersion)
		if err != nil {
			return err
		}
		if err := tx.SetScheduleMode(c.ID, input.Mode); err != nil {
			return err
		}
		c.ScheduleMode = input.Mode

		totals := billing.Compute(billing.QuoteFor(c, s.taxRateFor(ctx, c.LocationID)))
		entries := c.Schedule
		if input.Mode == model.ScheduleModeFixed {
			entries = billing.FixedSchedule(c.ID, totals.Total, c.EventDate, s.schedule)
			if err := tx.ReplaceSchedule(c.ID, entries); err != nil {
				return err
			}
		}

		settlement := billing.Reconcile(totals.Total, entries, c.Payments)
		version := c.Version + 1
		if err := tx.SaveDerived(c.ID, totals.Total, settlement.Status, version); err != nil {
			return err
		}
		result = &SettlementResult{
			ContractID: c.ID,
			Version:    version,
			Mode:       input.Mode,
			Totals:     totals,
			Settlement: settlement,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type ScheduleEntryInput struct {
	ContractID      uuid.UUID
	EntryID         uuid.UUID // zero for add
	Description     string
	DueDate         *time.Time
	Amount          money.Money
	ExpectedVersion int64
	Principal       model.Principal
}

func validateEntryInput(input ScheduleEntryInput) error {
	if input.Description == "" {
		return fmt.Errorf("%w: schedule entry description is required", ErrInvalidInput)
	}
	if input.Amount <= 0 {
		return fmt.Errorf("%w: schedule entry amount must be positive", ErrInvalidInput)
	}
	return nil
}

// AddScheduleEntry appends a custom installment. Rejected in fixed mode,
// where the schedule is system-generated.
func (s *BillingService) AddScheduleEntry(ctx context.Context, input ScheduleEntryInput) (*SettlementResult, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if err := validateEntryInput(input); err != nil {
		return nil, err
	}

	var result *SettlementResult
	err := s.store.InTx(ctx, func(tx ContractTx) error {
		c, err := s.lock(tx, input.ContractID, input.ExpectedVersion)
		if err != nil {
			return err
		}
		if c.ScheduleMode != model.ScheduleModeCustom {
			return fmt.Errorf("%w: schedule entries are system-generated in fixed mode", ErrInvalidInput)
		}

		entry := model.ScheduleEntry{
			ID:          uuid.New(),
			ContractID:  c.ID,
			Position:    len(c.Schedule),
			Description: input.Description,
			DueDate:     input.DueDate,
			Amount:      input.Amount,
		}
		if err := tx.InsertScheduleEntry(entry); err != nil {
			return err
		}
		c.Schedule = append(c.Schedule, entry)

		result, err = s.recompute(ctx, tx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *BillingService) EditScheduleEntry(ctx context.Context, input ScheduleEntryInput) (*SettlementResult, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if err := validateEntryInput(input); err != nil {
		return nil, err
	}

	var result *SettlementResult
	err := s.store.InTx(ctx, func(tx ContractTx) error {
		c, err := s.lock(tx, input.ContractID, input.ExpectedVersion)
		if err != nil {
			return err
		}
		if c.ScheduleMode != model.ScheduleModeCustom {
			return fmt.Errorf("%w: schedule entries are system-generated in fixed mode", ErrInvalidInput)
		}

		found := false
		for i := range c.Schedule {
			if c.Schedule[i].ID == input.EntryID {
				c.Schedule[i].Description = input.Description
				c.Schedule[i].DueDate = input.DueDate
				c.Schedule[i].Amount = input.Amount
				if err := tx.UpdateScheduleEntry(c.Schedule[i]); err != nil {
					return err
				}
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: schedule entry %s", ErrNotFound, input.EntryID)
		}

		result, err = s.recompute(ctx, tx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *BillingService) RemoveScheduleEntry(ctx context.Context, contractID, entryID uuid.UUID, expectedVersion int64, principal model.Principal) (*SettlementResult, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	var result *SettlementResult
	err := s.store.InTx(ctx, func(tx ContractTx) error {
		c, err := s.lock(tx, contractID, expectedVersion)
		if err != nil {
			return err
		}
		if c.ScheduleMode != model.ScheduleModeCustom {
			return fmt.Errorf("%w: schedule entries are system-generated in fixed mode", ErrInvalidInput)
		}

		kept := c.Schedule[:0]
		found := false
		for _, entry := range c.Schedule {
			if entry.ID == entryID {
				found = true
				continue
			}
			kept = append(kept, entry)
		}
		if !found {
			return fmt.Errorf("%w: schedule entry %s", ErrNotFound, entryID)
		}
		if err := tx.DeleteScheduleEntry(entryID); err != nil {
			return err
		}
		// Close the gap so positions stay 0..n-1; the reconciler's
		// allocation order and the next add both depend on it.
		for i := range kept {
			if kept[i].Position != i {
				kept[i].Position = i
				if err := tx.UpdateScheduleEntry(kept[i]); err != nil {
					return err
				}
			}
		}
		c.Schedule = kept

		result, err = s.recompute(ctx, tx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type PaymentInput struct {
	ContractID      uuid.UUID
	PaymentID       uuid.UUID // zero for record
	Amount          money.Money
	Method          string
	Reference       string
	Memo            string
	Purpose         string
	ReceivedAt      time.Time
	ExpectedVersion int64
	Principal       model.Principal
}

// RecordPayment appends a payment after checking it against the currently
// visible balance due. Overpayment is rejected at entry, never clamped.
// Negative amounts (refunds/credits) bypass that check.
func (s *BillingService) RecordPayment(ctx context.Context, input PaymentInput) (*SettlementResult, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if input.Amount == 0 {
		return nil, fmt.Errorf("%w: payment amount is required", ErrInvalidInput)
	}

	var result *SettlementResult
	err := s.store.InTx(ctx, func(tx ContractTx) error {
		c, err := s.lock(tx, input.ContractID, input.ExpectedVersion)
		if err != nil {
			return err
		}

		current := billing.Reconcile(c.Total, c.Schedule, c.Payments)
		if input.Amount > current.BalanceDue+billing.Epsilon {
			return fmt.Errorf("%w: payment %s exceeds balance due %s",
				ErrInvalidInput, input.Amount, current.BalanceDue)
		}

		receivedAt := input.ReceivedAt
		if receivedAt.IsZero() {
			receivedAt = time.Now().UTC()
		}
		payment := model.Payment{
			ID:         uuid.New(),
			ContractID: c.ID,
			Amount:     input.Amount,
			Method:     input.Method,
			Reference:  input.Reference,
			Memo:       input.Memo,
			Purpose:    input.Purpose,
			ReceivedAt: receivedAt,
		}
		if err := tx.InsertPayment(payment); err != nil {
			return err
		}
		c.Payments = append(c.Payments, payment)

		result, err = s.recompute(ctx, tx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// EditPayment validates the delta against the balance plus the amount being
// replaced, so growing a payment is bounded the same way a new one is. The
// descriptive fields are rewritten from the input, so an empty memo or
// reference clears the stored value; only a zero ReceivedAt is kept as-is.
func (s *BillingService) EditPayment(ctx context.Context, input PaymentInput) (*SettlementResult, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if input.Amount == 0 {
		return nil, fmt.Errorf("%w: payment amount is required", ErrInvalidInput)
	}

	var result *SettlementResult
	err := s.store.InTx(ctx, func(tx ContractTx) error {
		c, err := s.lock(tx, input.ContractID, input.ExpectedVersion)
		if err != nil {
			return err
		}

		var original *model.Payment
		for i := range c.Payments {
			if c.Payments[i].ID == input.PaymentID {
				original = &c.Payments[i]
				break
			}
		}
		if original == nil {
			return fmt.Errorf("%w: payment %s", ErrNotFound, input.PaymentID)
		}

		current := billing.Reconcile(c.Total, c.Schedule, c.Payments)
		delta := input.Amount - original.Amount
		if delta > current.BalanceDue+billing.Epsilon {
			return fmt.Errorf("%w: payment change %s exceeds balance due %s",
				ErrInvalidInput, delta, current.BalanceDue)
		}

		original.Amount = input.Amount
		original.Method = input.Method
		original.Reference = input.Reference
		original.Memo = input.Memo
		original.Purpose = input.Purpose
		if !input.ReceivedAt.IsZero() {
			original.ReceivedAt = input.ReceivedAt
		}
		if err := tx.UpdatePayment(*original); err != nil {
			return err
		}

		result, err = s.recompute(ctx, tx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *BillingService) DeletePayment(ctx context.Context, contractID, paymentID uuid.UUID, expectedVersion int64, principal model.Principal) (*SettlementResult, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	var result *SettlementResult
	err := s.store.InTx(ctx, func(tx ContractTx) error {
		c, err := s.lock(tx, contractID, expectedVersion)
		if err != nil {
			return err
		}

		kept := c.Payments[:0]
		found := false
		for _, p := range c.Payments {
			if p.ID == paymentID {
				found = true
				continue
			}
			kept = append(kept, p)
		}
		if !found {
			return fmt.Errorf("%w: payment %s", ErrNotFound, paymentID)
		}
		if err := tx.DeletePayment(paymentID); err != nil {
			return err
		}
		c.Payments = kept

		result, err = s.recompute(ctx, tx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
