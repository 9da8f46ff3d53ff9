package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/evermore-events/weddingops/internal/billing"
	"github.com/evermore-events/weddingops/internal/config"
	"github.com/evermore-events/weddingops/internal/model"
	"github.com/evermore-events/weddingops/internal/money"
)

// fakeStore keeps one contract aggregate in memory and applies the same
// writes the SQL repository would, so service flows can run end to end.
type fakeStore struct {
	contract *model.Contract
}

func (f *fakeStore) Load(_ context.Context, id uuid.UUID) (*model.Contract, error) {
	if f.contract == nil || f.contract.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneContract(f.contract), nil
}

func (f *fakeStore) InTx(_ context.Context, fn func(tx ContractTx) error) error {
	return fn(f)
}

func (f *fakeStore) Lock(id uuid.UUID) (*model.Contract, error) {
	if f.contract == nil || f.contract.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneContract(f.contract), nil
}

func (f *fakeStore) SaveDerived(_ uuid.UUID, total money.Money, status model.ContractStatus, version int64) error {
	f.contract.Total = total
	f.contract.Status = status
	f.contract.Version = version
	return nil
}

func (f *fakeStore) SetScheduleMode(_ uuid.UUID, mode model.ScheduleMode) error {
	f.contract.ScheduleMode = mode
	return nil
}

func (f *fakeStore) ReplaceSchedule(_ uuid.UUID, entries []model.ScheduleEntry) error {
	f.contract.Schedule = append([]model.ScheduleEntry(nil), entries...)
	return nil
}

func (f *fakeStore) InsertScheduleEntry(entry model.ScheduleEntry) error {
	f.contract.Schedule = append(f.contract.Schedule, entry)
	return nil
}

func (f *fakeStore) UpdateScheduleEntry(entry model.ScheduleEntry) error {
	for i := range f.contract.Schedule {
		if f.contract.Schedule[i].ID == entry.ID {
			f.contract.Schedule[i] = entry
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeStore) DeleteScheduleEntry(id uuid.UUID) error {
	kept := f.contract.Schedule[:0]
	for _, e := range f.contract.Schedule {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	f.contract.Schedule = kept
	return nil
}

func (f *fakeStore) InsertPayment(p model.Payment) error {
	f.contract.Payments = append(f.contract.Payments, p)
	return nil
}

func (f *fakeStore) UpdatePayment(p model.Payment) error {
	for i := range f.contract.Payments {
		if f.contract.Payments[i].ID == p.ID {
			f.contract.Payments[i] = p
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeStore) DeletePayment(id uuid.UUID) error {
	kept := f.contract.Payments[:0]
	for _, p := range f.contract.Payments {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.contract.Payments = kept
	return nil
}

func (f *fakeStore) ReplaceSelections(_ uuid.UUID, update SelectionsUpdate) error {
	f.contract.Selections = append([]model.ServiceSelection(nil), update.Selections...)
	f.contract.Products = append([]model.ProductLineItem(nil), update.Products...)
	f.contract.LocationID = update.LocationID
	f.contract.AddOnID = update.AddOnID
	f.contract.DiscretionaryDiscountID = update.DiscretionaryDiscountID
	return nil
}

func cloneContract(c *model.Contract) *model.Contract {
	out := *c
	out.Selections = append([]model.ServiceSelection(nil), c.Selections...)
	for i := range out.Selections {
		out.Selections[i].Overtime = append([]model.OvertimeEntry(nil), c.Selections[i].Overtime...)
	}
	out.Products = append([]model.ProductLineItem(nil), c.Products...)
	out.Schedule = append([]model.ScheduleEntry(nil), c.Schedule...)
	out.Payments = append([]model.Payment(nil), c.Payments...)
	return &out
}

type fakeCatalog struct {
	packages  map[uuid.UUID]*model.PackageOption
	staff     map[uuid.UUID]*model.StaffOption
	rates     map[uuid.UUID]*model.OvertimeRate
	addOns    map[uuid.UUID]*model.AddOnOption
	products  map[uuid.UUID]*model.Product
	discounts map[uuid.UUID]*model.DiscountOption
	taxRates  map[uuid.UUID]int64
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		packages:  map[uuid.UUID]*model.PackageOption{},
		staff:     map[uuid.UUID]*model.StaffOption{},
		rates:     map[uuid.UUID]*model.OvertimeRate{},
		addOns:    map[uuid.UUID]*model.AddOnOption{},
		products:  map[uuid.UUID]*model.Product{},
		discounts: map[uuid.UUID]*model.DiscountOption{},
		taxRates:  map[uuid.UUID]int64{},
	}
}

func (f *fakeCatalog) Package(_ context.Context, id uuid.UUID) (*model.PackageOption, error) {
	if p, ok := f.packages[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) StaffOption(_ context.Context, id uuid.UUID) (*model.StaffOption, error) {
	if s, ok := f.staff[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) OvertimeRate(_ context.Context, id uuid.UUID) (*model.OvertimeRate, error) {
	if r, ok := f.rates[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) AddOn(_ context.Context, id uuid.UUID) (*model.AddOnOption, error) {
	if a, ok := f.addOns[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) Product(_ context.Context, id uuid.UUID) (*model.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) DiscountOption(_ context.Context, id uuid.UUID) (*model.DiscountOption, error) {
	if d, ok := f.discounts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) TaxRateBps(_ context.Context, locationID uuid.UUID) (int64, error) {
	if rate, ok := f.taxRates[locationID]; ok {
		return rate, nil
	}
	return 0, gorm.ErrRecordNotFound
}

var (
	admin = model.Principal{UserID: uuid.New(), Role: model.RoleAdmin, Name: "Olivia"}
	staff = model.Principal{UserID: uuid.New(), Role: model.RoleStaff, Name: "Marcus"}
)

func testConfig() *config.Config {
	return &config.Config{
		Billing: config.BillingConfig{
			DepositPercent:  50,
			DepositRoundTo:  money.FromDollars(100),
			BalanceLeadDays: 60,
		},
	}
}

func newService(store *fakeStore, catalog *fakeCatalog) *BillingService {
	return NewBillingService(store, catalog, testConfig(), zerolog.Nop())
}

// fixedContract builds a booked contract with one photography package priced
// at the given amount and a generated fixed schedule.
func fixedContract(total money.Money) (*fakeStore, *fakeCatalog) {
	catalog := newFakeCatalog()
	pkgID := uuid.New()
	catalog.packages[pkgID] = &model.PackageOption{
		ID:       pkgID,
		Category: model.CategoryPhotography,
		Name:     "Gold",
		Price:    total,
	}

	contractID := uuid.New()
	eventDate := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	c := &model.Contract{
		ID:           contractID,
		ClientName:   "Jordan Lee",
		EventDate:    eventDate,
		ScheduleMode: model.ScheduleModeFixed,
		Total:        total,
		Status:       model.ContractStatusBooked,
		Version:      1,
		Selections: []model.ServiceSelection{{
			ID:         uuid.New(),
			ContractID: contractID,
			Category:   model.CategoryPhotography,
			PackageID:  &pkgID,
			Package:    catalog.packages[pkgID],
		}},
		Schedule: billing.FixedSchedule(contractID, total, eventDate, billing.DefaultScheduleConfig()),
	}
	return &fakeStore{contract: c}, catalog
}

func TestRecordPaymentUpdatesStatus(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)

	result, err := svc.RecordPayment(context.Background(), PaymentInput{
		ContractID: store.contract.ID,
		Amount:     money.FromDollars(1500),
		Method:     "check",
		Principal:  admin,
	})
	require.NoError(t, err)

	assert.Equal(t, model.ContractStatusPartiallyPaid, result.Settlement.Status)
	assert.Equal(t, money.FromDollars(1500), result.Settlement.BalanceDue)
	require.Len(t, result.Settlement.Entries, 2)
	assert.Equal(t, model.EntryStatusPaid, result.Settlement.Entries[0].Status)
	assert.Equal(t, model.EntryStatusUnpaid, result.Settlement.Entries[1].Status)
	assert.Equal(t, model.ContractStatusPartiallyPaid, store.contract.Status)

	result, err = svc.RecordPayment(context.Background(), PaymentInput{
		ContractID: store.contract.ID,
		Amount:     money.FromDollars(1500),
		Method:     "card",
		Principal:  admin,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ContractStatusPaidInFull, result.Settlement.Status)
	assert.True(t, result.Settlement.Complete)
	assert.Equal(t, money.Money(0), result.Settlement.BalanceDue)
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)

	_, err := svc.RecordPayment(context.Background(), PaymentInput{
		ContractID: store.contract.ID,
		Amount:     money.FromDollars(3001),
		Principal:  admin,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, store.contract.Payments)
}

func TestRecordPaymentAllowsRefund(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)

	_, err := svc.RecordPayment(context.Background(), PaymentInput{
		ContractID: store.contract.ID,
		Amount:     money.FromDollars(1500),
		Principal:  admin,
	})
	require.NoError(t, err)

	result, err := svc.RecordPayment(context.Background(), PaymentInput{
		ContractID: store.contract.ID,
		Amount:     money.FromDollars(-500),
		Purpose:    "refund",
		Principal:  admin,
	})
	require.NoError(t, err)
	assert.Equal(t, money.FromDollars(1000), result.Settlement.TotalPaid)
	assert.Equal(t, money.FromDollars(2000), result.Settlement.BalanceDue)
}

func TestEditPaymentValidatesDelta(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)

	_, err := svc.RecordPayment(context.Background(), PaymentInput{
		ContractID: store.contract.ID,
		Amount:     money.FromDollars(1500),
		Principal:  admin,
	})
	require.NoError(t, err)
	paymentID := store.contract.Payments[0].ID

	// Growing the payment past the remaining balance is rejected.
	_, err = svc.EditPayment(context.Background(), PaymentInput{
		ContractID: store.contract.ID,
		PaymentID:  paymentID,
		Amount:     money.FromDollars(3100),
		Principal:  admin,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, money.FromDollars(1500), store.contract.Payments[0].Amount)

	// Growing it up to the full total is fine.
	result, err := svc.EditPayment(context.Background(), PaymentInput{
		ContractID: store.contract.ID,
		PaymentID:  paymentID,
		Amount:     money.FromDollars(3000),
		Principal:  admin,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ContractStatusPaidInFull, result.Settlement.Status)
}

func TestEditPaymentClearsDescriptiveFields(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)

	_, err := svc.RecordPayment(context.Background(), PaymentInput{
		ContractID: store.contract.ID,
		Amount:     money.FromDollars(1500),
		Method:     "check",
		Reference:  "1042",
		Memo:       "deposit check",
		Principal:  admin,
	})
	require.NoError(t, err)
	paymentID := store.contract.Payments[0].ID

	// An edit rewrites the descriptive fields, so omitting memo/reference
	// clears them instead of silently keeping the old values.
	_, err = svc.EditPayment(context.Background(), PaymentInput{
		ContractID: store.contract.ID,
		PaymentID:  paymentID,
		Amount:     money.FromDollars(1500),
		Method:     "card",
		Principal:  admin,
	})
	require.NoError(t, err)

	payment := store.contract.Payments[0]
	assert.Equal(t, "card", payment.Method)
	assert.Empty(t, payment.Reference)
	assert.Empty(t, payment.Memo)
	assert.False(t, payment.ReceivedAt.IsZero())
}

func TestDeletePaymentReopensContract(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)

	_, err := svc.RecordPayment(context.Background(), PaymentInput{
		ContractID: store.contract.ID,
		Amount:     money.FromDollars(3000),
		Principal:  admin,
	})
	require.NoError(t, err)
	require.Equal(t, model.ContractStatusPaidInFull, store.contract.Status)

	result, err := svc.DeletePayment(context.Background(), store.contract.ID, store.contract.Payments[0].ID, 0, admin)
	require.NoError(t, err)
	assert.Equal(t, model.ContractStatusBooked, result.Settlement.Status)
	assert.Equal(t, money.FromDollars(3000), result.Settlement.BalanceDue)
}

func TestMutationsRequireAdmin(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)
	ctx := context.Background()

	_, err := svc.RecordPayment(ctx, PaymentInput{ContractID: store.contract.ID, Amount: money.FromDollars(100), Principal: staff})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.SetScheduleMode(ctx, SetScheduleModeInput{ContractID: store.contract.ID, Mode: model.ScheduleModeCustom, Principal: staff})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.UpdateSelections(ctx, UpdateSelectionsInput{ContractID: store.contract.ID, Principal: staff})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.AddScheduleEntry(ctx, ScheduleEntryInput{ContractID: store.contract.ID, Description: "x", Amount: 1, Principal: staff})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestVersionConflict(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)

	_, err := svc.RecordPayment(context.Background(), PaymentInput{
		ContractID:      store.contract.ID,
		Amount:          money.FromDollars(100),
		ExpectedVersion: 7,
		Principal:       admin,
	})
	require.ErrorIs(t, err, ErrConflict)

	// Matching version passes the check.
	_, err = svc.RecordPayment(context.Background(), PaymentInput{
		ContractID:      store.contract.ID,
		Amount:          money.FromDollars(100),
		ExpectedVersion: store.contract.Version,
		Principal:       admin,
	})
	require.NoError(t, err)
}

func TestGetSettlementUnknownContract(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)

	_, err := svc.GetSettlement(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomEntryOpsRejectedInFixedMode(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)

	_, err := svc.AddScheduleEntry(context.Background(), ScheduleEntryInput{
		ContractID:  store.contract.ID,
		Description: "Extra installment",
		Amount:      money.FromDollars(500),
		Principal:   admin,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCustomScheduleLifecycle(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)
	ctx := context.Background()

	result, err := svc.SetScheduleMode(ctx, SetScheduleModeInput{
		ContractID: store.contract.ID,
		Mode:       model.ScheduleModeCustom,
		Principal:  admin,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ScheduleModeCustom, result.Mode)
	// Switching into custom keeps the generated entries as a starting point.
	require.Len(t, store.contract.Schedule, 2)

	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	result, err = svc.AddScheduleEntry(ctx, ScheduleEntryInput{
		ContractID:  store.contract.ID,
		Description: "Album payment",
		DueDate:     &due,
		Amount:      money.FromDollars(300),
		Principal:   admin,
	})
	require.NoError(t, err)
	require.Len(t, store.contract.Schedule, 3)
	// Custom schedules may drift from the total; the gap is reported, not fixed.
	assert.Equal(t, money.FromDollars(300), result.Settlement.ScheduleGap)

	entryID := store.contract.Schedule[2].ID
	result, err = svc.EditScheduleEntry(ctx, ScheduleEntryInput{
		ContractID:  store.contract.ID,
		EntryID:     entryID,
		Description: "Album payment",
		DueDate:     &due,
		Amount:      money.FromDollars(150),
		Principal:   admin,
	})
	require.NoError(t, err)
	assert.Equal(t, money.FromDollars(150), result.Settlement.ScheduleGap)

	result, err = svc.RemoveScheduleEntry(ctx, store.contract.ID, entryID, 0, admin)
	require.NoError(t, err)
	require.Len(t, store.contract.Schedule, 2)
	assert.Equal(t, money.Money(0), result.Settlement.ScheduleGap)
}

func TestRemoveThenAddKeepsPositionsSequential(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)
	ctx := context.Background()

	_, err := svc.SetScheduleMode(ctx, SetScheduleModeInput{
		ContractID: store.contract.ID,
		Mode:       model.ScheduleModeCustom,
		Principal:  admin,
	})
	require.NoError(t, err)
	require.Len(t, store.contract.Schedule, 2)

	// Removing the first entry must renumber the survivor, so the next add
	// cannot collide with an existing position.
	_, err = svc.RemoveScheduleEntry(ctx, store.contract.ID, store.contract.Schedule[0].ID, 0, admin)
	require.NoError(t, err)
	require.Len(t, store.contract.Schedule, 1)
	assert.Equal(t, 0, store.contract.Schedule[0].Position)

	result, err := svc.AddScheduleEntry(ctx, ScheduleEntryInput{
		ContractID:  store.contract.ID,
		Description: "Final payment",
		Amount:      money.FromDollars(1500),
		Principal:   admin,
	})
	require.NoError(t, err)
	require.Len(t, store.contract.Schedule, 2)

	seen := map[int]bool{}
	for i, entry := range store.contract.Schedule {
		assert.Equal(t, i, entry.Position)
		assert.False(t, seen[entry.Position], "position %d assigned twice", entry.Position)
		seen[entry.Position] = true
	}
	// Allocation starts at the renumbered first entry.
	require.NotNil(t, result.Settlement.NextDue)
	assert.Equal(t, store.contract.Schedule[0].Description, result.Settlement.NextDue.Entry.Description)
}

func TestFixedModeRegeneratesOnTotalChange(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)
	ctx := context.Background()

	// Add a DJ package so the total (and the bundle discount) changes.
	djID := uuid.New()
	catalog.packages[djID] = &model.PackageOption{
		ID:       djID,
		Category: model.CategoryDJ,
		Name:     "Premier",
		Price:    money.FromDollars(1400),
	}
	pkgID := *store.contract.Selections[0].PackageID

	result, err := svc.UpdateSelections(ctx, UpdateSelectionsInput{
		ContractID: store.contract.ID,
		Selections: []SelectionInput{
			{Category: model.CategoryPhotography, PackageID: &pkgID},
			{Category: model.CategoryDJ, PackageID: &djID},
		},
		Principal: admin,
	})
	require.NoError(t, err)

	// 3000 + 1400 - 400 bundle discount.
	expected := money.FromDollars(4000)
	assert.Equal(t, expected, result.Totals.Total)
	require.Len(t, store.contract.Schedule, 2)
	assert.Equal(t, money.FromDollars(2000), store.contract.Schedule[0].Amount)
	assert.Equal(t, money.FromDollars(2000), store.contract.Schedule[1].Amount)
}

func TestFlipBackToFixedRegenerates(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)
	ctx := context.Background()

	_, err := svc.SetScheduleMode(ctx, SetScheduleModeInput{
		ContractID: store.contract.ID,
		Mode:       model.ScheduleModeCustom,
		Principal:  admin,
	})
	require.NoError(t, err)

	_, err = svc.AddScheduleEntry(ctx, ScheduleEntryInput{
		ContractID:  store.contract.ID,
		Description: "Extra",
		Amount:      money.FromDollars(250),
		Principal:   admin,
	})
	require.NoError(t, err)
	require.Len(t, store.contract.Schedule, 3)

	result, err := svc.SetScheduleMode(ctx, SetScheduleModeInput{
		ContractID: store.contract.ID,
		Mode:       model.ScheduleModeFixed,
		Principal:  admin,
	})
	require.NoError(t, err)
	require.Len(t, store.contract.Schedule, 2)
	assert.Equal(t, money.FromDollars(1500), store.contract.Schedule[0].Amount)
	assert.Equal(t, money.Money(0), result.Settlement.ScheduleGap)
}

func TestUpdateSelectionsValidation(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)
	ctx := context.Background()
	pkgID := *store.contract.Selections[0].PackageID

	_, err := svc.UpdateSelections(ctx, UpdateSelectionsInput{
		ContractID: store.contract.ID,
		Selections: []SelectionInput{{Category: "CATERING"}},
		Principal:  admin,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateSelections(ctx, UpdateSelectionsInput{
		ContractID: store.contract.ID,
		Selections: []SelectionInput{
			{Category: model.CategoryPhotography},
			{Category: model.CategoryPhotography},
		},
		Principal: admin,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Package from the wrong category is rejected, not repriced.
	_, err = svc.UpdateSelections(ctx, UpdateSelectionsInput{
		ContractID: store.contract.ID,
		Selections: []SelectionInput{{Category: model.CategoryDJ, PackageID: &pkgID}},
		Principal:  admin,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateSelectionsLookupMissDegradesToZero(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)

	ghost := uuid.New()
	result, err := svc.UpdateSelections(context.Background(), UpdateSelectionsInput{
		ContractID: store.contract.ID,
		Selections: []SelectionInput{{Category: model.CategoryPhotography, PackageID: &ghost}},
		Principal:  admin,
	})
	require.NoError(t, err)
	assert.Equal(t, money.Money(0), result.Totals.Total)
	assert.Equal(t, model.ContractStatusBooked, result.Settlement.Status)
}

func TestUpdateSelectionsWithProductsAndTax(t *testing.T) {
	store, catalog := fixedContract(money.FromDollars(3000))
	svc := newService(store, catalog)

	locationID := uuid.New()
	catalog.taxRates[locationID] = 800
	productID := uuid.New()
	catalog.products[productID] = &model.Product{
		ID:      productID,
		Name:    "Wedding Album",
		Price:   money.FromDollars(250),
		Taxable: true,
	}
	pkgID := *store.contract.Selections[0].PackageID

	result, err := svc.UpdateSelections(context.Background(), UpdateSelectionsInput{
		ContractID: store.contract.ID,
		Selections: []SelectionInput{{Category: model.CategoryPhotography, PackageID: &pkgID}},
		Products:   []ProductInput{{ProductID: productID, Quantity: 2}},
		LocationID: &locationID,
		Principal:  admin,
	})
	require.NoError(t, err)

	assert.Equal(t, money.FromDollars(500), result.Totals.Products.Subtotal)
	assert.Equal(t, money.FromDollars(40), result.Totals.Products.Tax)
	assert.Equal(t, money.FromDollars(3540), result.Totals.Total)
}
