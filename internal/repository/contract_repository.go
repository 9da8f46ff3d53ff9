package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/evermore-events/weddingops/internal/model"
	"github.com/evermore-events/weddingops/internal/money"
	"github.com/evermore-events/weddingops/internal/service"
)

// ContractRepository loads and mutates contract aggregates. Mutations go
// through InTx, which opens one transaction and hands back a ContractTx whose
// Lock takes a FOR UPDATE row lock on the contract, serializing writers per
// contract.
type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Load(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	return loadContract(r.db.WithContext(ctx), id, false)
}

func (r *ContractRepository) InTx(ctx context.Context, fn func(tx service.ContractTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&contractTx{tx: tx})
	})
}

type contractTx struct {
	tx *gorm.DB
}

func (t *contractTx) Lock(id uuid.UUID) (*model.Contract, error) {
	return loadContract(t.tx, id, true)
}

type contractRow struct {
	ID                      uuid.UUID
	ClientName              string
	ClientEmail             string
	ClientPhone             string
	VenueName               string
	EventDate               time.Time
	LocationID              *uuid.UUID
	ScheduleMode            model.ScheduleMode
	TotalCents              int64
	Status                  model.ContractStatus
	Version                 int64
	AddonID                 *uuid.UUID
	DiscretionaryDiscountID *uuid.UUID
	AddonName               *string
	AddonPriceCents         *int64
	DiscountLabel           *string
	DiscountAmountCents     *int64
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func loadContract(db *gorm.DB, id uuid.UUID, forUpdate bool) (*model.Contract, error) {
	lock := ""
	if forUpdate {
		// lock only the contract row; catalog joins stay lock-free
		lock = "FOR UPDATE OF c"
	}

	var row contractRow
	err := db.Raw(`
		SELECT
			c.id,
			c.client_name,
			c.client_email,
			c.client_phone,
			c.venue_name,
			c.event_date,
			c.location_id,
			c.schedule_mode,
			c.total_cents,
			c.status,
			c.version,
			c.addon_id,
			c.discretionary_discount_id,
			a.name AS addon_name,
			a.price_cents AS addon_price_cents,
			d.label AS discount_label,
			d.amount_cents AS discount_amount_cents,
			c.created_at,
			c.updated_at
		FROM contracts c
		LEFT JOIN addon_options a ON a.id = c.addon_id
		LEFT JOIN discount_options d ON d.id = c.discretionary_discount_id
		WHERE c.id = ?
		`+lock, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	c := &model.Contract{
		ID:                      row.ID,
		ClientName:              row.ClientName,
		ClientEmail:             row.ClientEmail,
		ClientPhone:             row.ClientPhone,
		VenueName:               row.VenueName,
		EventDate:               row.EventDate,
		LocationID:              row.LocationID,
		ScheduleMode:            row.ScheduleMode,
		Total:                   money.Money(row.TotalCents),
		Status:                  row.Status,
		Version:                 row.Version,
		AddOnID:                 row.AddonID,
		DiscretionaryDiscountID: row.DiscretionaryDiscountID,
		CreatedAt:               row.CreatedAt,
		UpdatedAt:               row.UpdatedAt,
	}
	if row.AddonID != nil && row.AddonName != nil {
		c.AddOn = &model.AddOnOption{
			ID:    *row.AddonID,
			Name:  *row.AddonName,
			Price: money.Money(derefInt64(row.AddonPriceCents)),
		}
	}
	if row.DiscretionaryDiscountID != nil && row.DiscountLabel != nil {
		c.DiscretionaryDiscount = &model.DiscountOption{
			ID:     *row.DiscretionaryDiscountID,
			Label:  *row.DiscountLabel,
			Amount: money.Money(derefInt64(row.DiscountAmountCents)),
		}
	}

	if err := loadSelections(db, c); err != nil {
		return nil, err
	}
	if err := loadProducts(db, c); err != nil {
		return nil, err
	}
	if err := loadSchedule(db, c); err != nil {
		return nil, err
	}
	if err := loadPayments(db, c); err != nil {
		return nil, err
	}
	return c, nil
}

func loadSelections(db *gorm.DB, c *model.Contract) error {
	var rows []struct {
		ID              uuid.UUID
		Category        model.Category
		PackageID       *uuid.UUID
		ExtraStaffID    *uuid.UUID
		PackageName     *string
		PackageCents    *int64
		PackageHours    *int
		StaffName       *string
		StaffCents      *int64
		StaffHours      *int
	}
	err := db.Raw(`
		SELECT
			s.id,
			s.category,
			s.package_id,
			s.extra_staff_id,
			p.name AS package_name,
			p.price_cents AS package_cents,
			p.included_hours AS package_hours,
			st.name AS staff_name,
			st.price_cents AS staff_cents,
			st.hours AS staff_hours
		FROM service_selections s
		LEFT JOIN package_options p ON p.id = s.package_id
		LEFT JOIN staff_options st ON st.id = s.extra_staff_id
		WHERE s.contract_id = ?
		ORDER BY s.category
	`, c.ID).Scan(&rows).Error
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		sel := model.ServiceSelection{
			ID:           row.ID,
			ContractID:   c.ID,
			Category:     row.Category,
			PackageID:    row.PackageID,
			ExtraStaffID: row.ExtraStaffID,
		}
		if row.PackageID != nil && row.PackageName != nil {
			sel.Package = &model.PackageOption{
				ID:            *row.PackageID,
				Category:      row.Category,
				Name:          *row.PackageName,
				Price:         money.Money(derefInt64(row.PackageCents)),
				IncludedHours: derefInt(row.PackageHours),
			}
		}
		if row.ExtraStaffID != nil && row.StaffName != nil {
			sel.ExtraStaff = &model.StaffOption{
				ID:       *row.ExtraStaffID,
				Category: row.Category,
				Name:     *row.StaffName,
				Price:    money.Money(derefInt64(row.StaffCents)),
				Hours:    derefInt(row.StaffHours),
			}
		}
		c.Selections = append(c.Selections, sel)
		byID[sel.ID] = len(c.Selections) - 1
	}
	if len(c.Selections) == 0 {
		return nil
	}

	var otRows []struct {
		ID          uuid.UUID
		SelectionID uuid.UUID
		RateID      uuid.UUID
		Hours       int
		Role        *string
		RateCents   *int64
	}
	err = db.Raw(`
		SELECT
			o.id,
			o.selection_id,
			o.rate_id,
			o.hours,
			r.role,
			r.hourly_rate_cents AS rate_cents
		FROM overtime_entries o
		JOIN service_selections s ON s.id = o.selection_id
		LEFT JOIN overtime_rates r ON r.id = o.rate_id
		WHERE s.contract_id = ?
		ORDER BY o.created_at
	`, c.ID).Scan(&otRows).Error
	if err != nil {
		return err
	}
	for _, row := range otRows {
		pos, ok := byID[row.SelectionID]
		if !ok {
			continue
		}
		entry := model.OvertimeEntry{
			ID:          row.ID,
			SelectionID: row.SelectionID,
			RateID:      row.RateID,
			Hours:       row.Hours,
		}
		if row.Role != nil {
			entry.Rate = &model.OvertimeRate{
				ID:         row.RateID,
				Category:   c.Selections[pos].Category,
				Role:       *row.Role,
				HourlyRate: money.Money(derefInt64(row.RateCents)),
			}
		}
		c.Selections[pos].Overtime = append(c.Selections[pos].Overtime, entry)
	}
	return nil
}

func loadProducts(db *gorm.DB, c *model.Contract) error {
	var rows []struct {
		ID         uuid.UUID
		ProductID  uuid.UUID
		Quantity   int
		Name       *string
		PriceCents *int64
		Taxable    *bool
	}
	err := db.Raw(`
		SELECT
			li.id,
			li.product_id,
			li.quantity,
			p.name,
			p.price_cents,
			p.taxable
		FROM product_line_items li
		LEFT JOIN products p ON p.id = li.product_id
		WHERE li.contract_id = ?
		ORDER BY li.created_at
	`, c.ID).Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		item := model.ProductLineItem{
			ID:         row.ID,
			ContractID: c.ID,
			ProductID:  row.ProductID,
			Quantity:   row.Quantity,
		}
		if row.Name != nil {
			item.Product = &model.Product{
				ID:      row.ProductID,
				Name:    *row.Name,
				Price:   money.Money(derefInt64(row.PriceCents)),
				Taxable: row.Taxable != nil && *row.Taxable,
			}
		}
		c.Products = append(c.Products, item)
	}
	return nil
}

func loadSchedule(db *gorm.DB, c *model.Contract) error {
	var rows []struct {
		ID          uuid.UUID
		Position    int
		Description string
		DueDate     *time.Time
		AmountCents int64
	}
	err := db.Raw(`
		SELECT id, position, description, due_date, amount_cents
		FROM schedule_entries
		WHERE contract_id = ?
		ORDER BY position
	`, c.ID).Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		c.Schedule = append(c.Schedule, model.ScheduleEntry{
			ID:          row.ID,
			ContractID:  c.ID,
			Position:    row.Position,
			Description: row.Description,
			DueDate:     row.DueDate,
			Amount:      money.Money(row.AmountCents),
		})
	}
	return nil
}

func loadPayments(db *gorm.DB, c *model.Contract) error {
	var rows []struct {
		ID          uuid.UUID
		AmountCents int64
		Method      string
		Reference   string
		Memo        string
		Purpose     string
		ReceivedAt  time.Time
		CreatedAt   time.Time
	}
	err := db.Raw(`
		SELECT id, amount_cents, method, reference, memo, purpose, received_at, created_at
		FROM payments
		WHERE contract_id = ?
		ORDER BY received_at, created_at
	`, c.ID).Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		c.Payments = append(c.Payments, model.Payment{
			ID:         row.ID,
			ContractID: c.ID,
			Amount:     money.Money(row.AmountCents),
			Method:     row.Method,
			Reference:  row.Reference,
			Memo:       row.Memo,
			Purpose:    row.Purpose,
			ReceivedAt: row.ReceivedAt,
			CreatedAt:  row.CreatedAt,
		})
	}
	return nil
}

func (t *contractTx) SaveDerived(id uuid.UUID, total money.Money, status model.ContractStatus, version int64) error {
	return t.tx.Exec(`
		UPDATE contracts
		SET total_cents = ?, status = ?, version = ?, updated_at = NOW()
		WHERE id = ?
	`, int64(total), status, version, id).Error
}

func (t *contractTx) SetScheduleMode(id uuid.UUID, mode model.ScheduleMode) error {
	return t.tx.Exec(`
		UPDATE contracts
		SET schedule_mode = ?, updated_at = NOW()
		WHERE id = ?
	`, mode, id).Error
}

func (t *contractTx) ReplaceSchedule(id uuid.UUID, entries []model.ScheduleEntry) error {
	if err := t.tx.Exec(`DELETE FROM schedule_entries WHERE contract_id = ?`, id).Error; err != nil {
		return err
	}
	for _, entry := range entries {
		if err := t.InsertScheduleEntry(entry); err != nil {
			return err
		}
	}
	return nil
}

func (t *contractTx) InsertScheduleEntry(entry model.ScheduleEntry) error {
	return t.tx.Exec(`
		INSERT INTO schedule_entries (id, contract_id, position, description, due_date, amount_cents)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.ContractID, entry.Position, entry.Description, entry.DueDate, int64(entry.Amount)).Error
}

func (t *contractTx) UpdateScheduleEntry(entry model.ScheduleEntry) error {
	return t.tx.Exec(`
		UPDATE schedule_entries
		SET position = ?, description = ?, due_date = ?, amount_cents = ?
		WHERE id = ?
	`, entry.Position, entry.Description, entry.DueDate, int64(entry.Amount), entry.ID).Error
}

func (t *contractTx) DeleteScheduleEntry(id uuid.UUID) error {
	return t.tx.Exec(`DELETE FROM schedule_entries WHERE id = ?`, id).Error
}

func (t *contractTx) InsertPayment(p model.Payment) error {
	return t.tx.Exec(`
		INSERT INTO payments (id, contract_id, amount_cents, method, reference, memo, purpose, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.ContractID, int64(p.Amount), p.Method, p.Reference, p.Memo, p.Purpose, p.ReceivedAt).Error
}

func (t *contractTx) UpdatePayment(p model.Payment) error {
	return t.tx.Exec(`
		UPDATE payments
		SET amount_cents = ?, method = ?, reference = ?, memo = ?, purpose = ?, received_at = ?
		WHERE id = ?
	`, int64(p.Amount), p.Method, p.Reference, p.Memo, p.Purpose, p.ReceivedAt, p.ID).Error
}

func (t *contractTx) DeletePayment(id uuid.UUID) error {
	return t.tx.Exec(`DELETE FROM payments WHERE id = ?`, id).Error
}

func (t *contractTx) ReplaceSelections(id uuid.UUID, update service.SelectionsUpdate) error {
	if err := t.tx.Exec(`
		DELETE FROM overtime_entries
		WHERE selection_id IN (SELECT id FROM service_selections WHERE contract_id = ?)
	`, id).Error; err != nil {
		return err
	}
	if err := t.tx.Exec(`DELETE FROM service_selections WHERE contract_id = ?`, id).Error; err != nil {
		return err
	}
	if err := t.tx.Exec(`DELETE FROM product_line_items WHERE contract_id = ?`, id).Error; err != nil {
		return err
	}

	for _, sel := range update.Selections {
		if err := t.tx.Exec(`
			INSERT INTO service_selections (id, contract_id, category, package_id, extra_staff_id)
			VALUES (?, ?, ?, ?, ?)
		`, sel.ID, id, sel.Category, sel.PackageID, sel.ExtraStaffID).Error; err != nil {
			return err
		}
		for _, ot := range sel.Overtime {
			if err := t.tx.Exec(`
				INSERT INTO overtime_entries (id, selection_id, rate_id, hours)
				VALUES (?, ?, ?, ?)
			`, ot.ID, sel.ID, ot.RateID, ot.Hours).Error; err != nil {
				return err
			}
		}
	}
	for _, item := range update.Products {
		if err := t.tx.Exec(`
			INSERT INTO product_line_items (id, contract_id, product_id, quantity)
			VALUES (?, ?, ?, ?)
		`, item.ID, id, item.ProductID, item.Quantity).Error; err != nil {
			return err
		}
	}

	return t.tx.Exec(`
		UPDATE contracts
		SET location_id = ?, addon_id = ?, discretionary_discount_id = ?, updated_at = NOW()
		WHERE id = ?
	`, update.LocationID, update.AddOnID, update.DiscretionaryDiscountID, id).Error
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
