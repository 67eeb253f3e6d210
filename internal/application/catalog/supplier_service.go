package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/sitestock/backend/internal/domain/catalog"
	"github.com/sitestock/backend/internal/domain/partner"
	"github.com/sitestock/backend/internal/domain/shared"
)

// SupplierService handles supplier reference data
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	materialRepo catalog.MaterialRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, materialRepo catalog.MaterialRepository) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		materialRepo: materialRepo,
	}
}

// CreateSupplier creates a supplier
func (s *SupplierService) CreateSupplier(ctx context.Context, actor shared.Actor, input CreateSupplierInput) (*SupplierResponse, error) {
	if !actor.CanManageCatalog() {
		return nil, shared.ErrUnauthorized
	}

	supplier, err := partner.NewSupplier(input.Name, input.ContactName, input.Phone, input.Email, input.Address)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetSupplier returns one supplier by id
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrSupplierNotFound
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// ListSuppliers returns a page of suppliers matching the filter
func (s *SupplierService) ListSuppliers(ctx context.Context, filter shared.Filter) (*shared.Paginated[SupplierResponse], error) {
	suppliers, err := s.supplierRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.supplierRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToSupplierResponses(suppliers), total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdateSupplier applies a partial update to a supplier
func (s *SupplierService) UpdateSupplier(ctx context.Context, actor shared.Actor, id uuid.UUID, input UpdateSupplierInput) (*SupplierResponse, error) {
	if !actor.CanManageCatalog() {
		return nil, shared.ErrUnauthorized
	}

	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrSupplierNotFound
	}

	patch := partner.SupplierPatch{
		Name:        input.Name,
		ContactName: input.ContactName,
		Phone:       input.Phone,
		Email:       input.Email,
		Address:     input.Address,
		IsActive:    input.IsActive,
	}
	if err := supplier.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// DeleteSupplier deletes a supplier. Deletion is refused while any catalog
// entry references it.
func (s *SupplierService) DeleteSupplier(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	if !actor.CanManageCatalog() {
		return shared.ErrUnauthorized
	}

	if _, err := s.supplierRepo.FindByID(ctx, id); err != nil {
		return shared.ErrSupplierNotFound
	}

	dependents, err := s.materialRepo.CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if dependents > 0 {
		return shared.ErrHasDependents
	}

	return s.supplierRepo.Delete(ctx, id)
}
