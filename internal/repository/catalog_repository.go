package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/evermore-events/weddingops/internal/model"
	"github.com/evermore-events/weddingops/internal/money"
)

// CatalogRepository reads the shared, read-only rate catalog: package,
// staffing and overtime options per category, products, add-ons,
// discretionary discounts and location tax rates.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) Packages(ctx context.Context, category model.Category) ([]model.PackageOption, error) {
	var rows []struct {
		ID            uuid.UUID
		Category      model.Category
		Name          string
		PriceCents    int64
		IncludedHours int
		SortOrder     int
		Active        bool
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, category, name, price_cents, included_hours, sort_order, active
		FROM package_options
		WHERE category = ? AND active
		ORDER BY sort_order, name
	`, category).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.PackageOption, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.PackageOption{
			ID:            row.ID,
			Category:      row.Category,
			Name:          row.Name,
			Price:         money.Money(row.PriceCents),
			IncludedHours: row.IncludedHours,
			SortOrder:     row.SortOrder,
			Active:        row.Active,
		})
	}
	return out, nil
}

func (r *CatalogRepository) Package(ctx context.Context, id uuid.UUID) (*model.PackageOption, error) {
	var row struct {
		ID            uuid.UUID
		Category      model.Category
		Name          string
		PriceCents    int64
		IncludedHours int
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, category, name, price_cents, included_hours
		FROM package_options
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.PackageOption{
		ID:            row.ID,
		Category:      row.Category,
		Name:          row.Name,
		Price:         money.Money(row.PriceCents),
		IncludedHours: row.IncludedHours,
	}, nil
}

func (r *CatalogRepository) StaffOptions(ctx context.Context, category model.Category) ([]model.StaffOption, error) {
	var rows []struct {
		ID         uuid.UUID
		Category   model.Category
		Name       string
		PriceCents int64
		Hours      int
		Active     bool
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, category, name, price_cents, hours, active
		FROM staff_options
		WHERE category = ? AND active
		ORDER BY name
	`, category).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.StaffOption, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.StaffOption{
			ID:       row.ID,
			Category: row.Category,
			Name:     row.Name,
			Price:    money.Money(row.PriceCents),
			Hours:    row.Hours,
			Active:   row.Active,
		})
	}
	return out, nil
}

func (r *CatalogRepository) StaffOption(ctx context.Context, id uuid.UUID) (*model.StaffOption, error) {
	var row struct {
		ID         uuid.UUID
		Category   model.Category
		Name       string
		PriceCents int64
		Hours      int
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, category, name, price_cents, hours
		FROM staff_options
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.StaffOption{
		ID:       row.ID,
		Category: row.Category,
		Name:     row.Name,
		Price:    money.Money(row.PriceCents),
		Hours:    row.Hours,
	}, nil
}

func (r *CatalogRepository) OvertimeRates(ctx context.Context, category model.Category) ([]model.OvertimeRate, error) {
	var rows []struct {
		ID              uuid.UUID
		Category        model.Category
		Role            string
		HourlyRateCents int64
		Active          bool
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, category, role, hourly_rate_cents, active
		FROM overtime_rates
		WHERE category = ? AND active
		ORDER BY role
	`, category).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.OvertimeRate, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.OvertimeRate{
			ID:         row.ID,
			Category:   row.Category,
			Role:       row.Role,
			HourlyRate: money.Money(row.HourlyRateCents),
			Active:     row.Active,
		})
	}
	return out, nil
}

func (r *CatalogRepository) OvertimeRate(ctx context.Context, id uuid.UUID) (*model.OvertimeRate, error) {
	var row struct {
		ID              uuid.UUID
		Category        model.Category
		Role            string
		HourlyRateCents int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, category, role, hourly_rate_cents
		FROM overtime_rates
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.OvertimeRate{
		ID:         row.ID,
		Category:   row.Category,
		Role:       row.Role,
		HourlyRate: money.Money(row.HourlyRateCents),
	}, nil
}

func (r *CatalogRepository) AddOns(ctx context.Context) ([]model.AddOnOption, error) {
	var rows []struct {
		ID         uuid.UUID
		Name       string
		PriceCents int64
		Active     bool
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, price_cents, active
		FROM addon_options
		WHERE active
		ORDER BY name
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.AddOnOption, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.AddOnOption{
			ID:     row.ID,
			Name:   row.Name,
			Price:  money.Money(row.PriceCents),
			Active: row.Active,
		})
	}
	return out, nil
}

func (r *CatalogRepository) AddOn(ctx context.Context, id uuid.UUID) (*model.AddOnOption, error) {
	var row struct {
		ID         uuid.UUID
		Name       string
		PriceCents int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, price_cents
		FROM addon_options
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.AddOnOption{ID: row.ID, Name: row.Name, Price: money.Money(row.PriceCents)}, nil
}

func (r *CatalogRepository) Products(ctx context.Context) ([]model.Product, error) {
	var rows []struct {
		ID         uuid.UUID
		Name       string
		PriceCents int64
		Taxable    bool
		Active     bool
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, price_cents, taxable, active
		FROM products
		WHERE active
		ORDER BY name
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Product{
			ID:      row.ID,
			Name:    row.Name,
			Price:   money.Money(row.PriceCents),
			Taxable: row.Taxable,
			Active:  row.Active,
		})
	}
	return out, nil
}

func (r *CatalogRepository) Product(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var row struct {
		ID         uuid.UUID
		Name       string
		PriceCents int64
		Taxable    bool
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, price_cents, taxable
		FROM products
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.Product{
		ID:      row.ID,
		Name:    row.Name,
		Price:   money.Money(row.PriceCents),
		Taxable: row.Taxable,
	}, nil
}

func (r *CatalogRepository) DiscountOptions(ctx context.Context) ([]model.DiscountOption, error) {
	var rows []struct {
		ID          uuid.UUID
		Label       string
		AmountCents int64
		Active      bool
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, label, amount_cents, active
		FROM discount_options
		WHERE active
		ORDER BY label
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.DiscountOption, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.DiscountOption{
			ID:     row.ID,
			Label:  row.Label,
			Amount: money.Money(row.AmountCents),
			Active: row.Active,
		})
	}
	return out, nil
}

func (r *CatalogRepository) DiscountOption(ctx context.Context, id uuid.UUID) (*model.DiscountOption, error) {
	var row struct {
		ID          uuid.UUID
		Label       string
		AmountCents int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, label, amount_cents
		FROM discount_options
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.DiscountOption{ID: row.ID, Label: row.Label, Amount: money.Money(row.AmountCents)}, nil
}

func (r *CatalogRepository) Locations(ctx context.Context) ([]model.Location, error) {
	var rows []model.Location
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, state, tax_rate_bps
		FROM locations
		ORDER BY name
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CatalogRepository) TaxRateBps(ctx context.Context, locationID uuid.UUID) (int64, error) {
	var row struct {
		ID         uuid.UUID
		TaxRateBps int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, tax_rate_bps
		FROM locations
		WHERE id = ?
		LIMIT 1
	`, locationID).Scan(&row).Error
	if err != nil {
		return 0, err
	}
	if row.ID == uuid.Nil {
		return 0, gorm.ErrRecordNotFound
	}
	return row.TaxRateBps, nil
}
