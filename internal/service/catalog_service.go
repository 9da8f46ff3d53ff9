package service

import (
	"context"

	"github.com/evermore-events/weddingops/internal/model"
)

// CatalogLister is the list side of the rate catalog, backing the intake
// screens.
type CatalogLister interface {
	Packages(ctx context.Context, category model.Category) ([]model.PackageOption, error)
	StaffOptions(ctx context.Context, category model.Category) ([]model.StaffOption, error)
	OvertimeRates(ctx context.Context, category model.Category) ([]model.OvertimeRate, error)
	AddOns(ctx context.Context) ([]model.AddOnOption, error)
	Products(ctx context.Context) ([]model.Product, error)
	DiscountOptions(ctx context.Context) ([]model.DiscountOption, error)
	Locations(ctx context.Context) ([]model.Location, error)
}

// CatalogService surfaces the rate catalog for the intake screens: package,
// staffing and overtime options per category, plus products, add-ons,
// discretionary discounts and locations.
type CatalogService struct {
	catalog CatalogLister
}

func NewCatalogService(catalog CatalogLister) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) Packages(ctx context.Context, category model.Category) ([]model.PackageOption, error) {
	if !category.Valid() {
		return nil, ErrInvalidInput
	}
	return s.catalog.Packages(ctx, category)
}

func (s *CatalogService) StaffOptions(ctx context.Context, category model.Category) ([]model.StaffOption, error) {
	if !category.Valid() {
		return nil, ErrInvalidInput
	}
	return s.catalog.StaffOptions(ctx, category)
}

func (s *CatalogService) OvertimeRates(ctx context.Context, category model.Category) ([]model.OvertimeRate, error) {
	if !category.Valid() {
		return nil, ErrInvalidInput
	}
	return s.catalog.OvertimeRates(ctx, category)
}

func (s *CatalogService) AddOns(ctx context.Context) ([]model.AddOnOption, error) {
	return s.catalog.AddOns(ctx)
}

func (s *CatalogService) Products(ctx context.Context) ([]model.Product, error) {
	return s.catalog.Products(ctx)
}

func (s *CatalogService) DiscountOptions(ctx context.Context) ([]model.DiscountOption, error) {
	return s.catalog.DiscountOptions(ctx)
}

func (s *CatalogService) Locations(ctx context.Context) ([]model.Location, error) {
	return s.catalog.Locations(ctx)
}
