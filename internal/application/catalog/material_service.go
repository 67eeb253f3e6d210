package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sitestock/backend/internal/domain/catalog"
	"github.com/sitestock/backend/internal/domain/inventory"
	"github.com/sitestock/backend/internal/domain/partner"
	"github.com/sitestock/backend/internal/domain/request"
	"github.com/sitestock/backend/internal/domain/shared"
)

// MaterialCache is a read-through cache over catalog entries. Lookups by id
// are hot on every request create and every issuance, so they are worth
// caching; writes invalidate. Implementations live in infrastructure/cache.
type MaterialCache interface {
	Get(ctx context.Context, id uuid.UUID) (*catalog.Material, bool)
	Set(ctx context.Context, material *catalog.Material)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// MaterialService handles material catalog operations
type MaterialService struct {
	materialRepo   catalog.MaterialRepository
	supplierRepo   partner.SupplierRepository
	levelRepo      inventory.InventoryLevelRepository
	txRepo         inventory.MaterialTransactionRepository
	requestRepo    request.MaterialRequestRepository
	cache          MaterialCache
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(
	materialRepo catalog.MaterialRepository,
	supplierRepo partner.SupplierRepository,
	levelRepo inventory.InventoryLevelRepository,
	txRepo inventory.MaterialTransactionRepository,
	requestRepo request.MaterialRequestRepository,
) *MaterialService {
	return &MaterialService{
		materialRepo: materialRepo,
		supplierRepo: supplierRepo,
		levelRepo:    levelRepo,
		txRepo:       txRepo,
		requestRepo:  requestRepo,
		logger:       zap.NewNop(),
	}
}

// SetCache sets the read-through material cache
func (s *MaterialService) SetCache(cache MaterialCache) {
	s.cache = cache
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *MaterialService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger
func (s *MaterialService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// CreateMaterial creates a catalog entry. Codes are unique case-sensitively;
// a duplicate is rejected before hitting the database index.
func (s *MaterialService) CreateMaterial(ctx context.Context, actor shared.Actor, input CreateMaterialInput) (*MaterialResponse, error) {
	if !actor.CanManageCatalog() {
		return nil, shared.ErrUnauthorized
	}

	exists, err := s.materialRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrDuplicateCode
	}

	material, err := catalog.NewMaterial(input.Code, input.Name, input.Category, input.Unit)
	if err != nil {
		return nil, err
	}

	patch := catalog.MaterialPatch{
		UnitCost:          input.UnitCost,
		MinimumStockLevel: input.MinimumStockLevel,
		MaximumStockLevel: input.MaximumStockLevel,
		ReorderPoint:      input.ReorderPoint,
	}
	if input.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *input.SupplierID); err != nil {
			return nil, shared.ErrSupplierNotFound
		}
		patch.SupplierID = input.SupplierID
	}
	if err := material.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}

	s.publishAndClear(ctx, material)
	resp := ToMaterialResponse(material)
	return &resp, nil
}

// GetMaterial returns one catalog entry by id
func (s *MaterialService) GetMaterial(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	material, err := s.findMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToMaterialResponse(material)
	return &resp, nil
}

// GetMaterialByCode returns one catalog entry by its unique code
func (s *MaterialService) GetMaterialByCode(ctx context.Context, code string) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, shared.ErrMaterialNotFound
	}
	resp := ToMaterialResponse(material)
	return &resp, nil
}

// ListMaterials returns a page of catalog entries matching the filter
func (s *MaterialService) ListMaterials(ctx context.Context, filter shared.Filter) (*shared.Paginated[MaterialResponse], error) {
	materials, err := s.materialRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.materialRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToMaterialResponses(materials), total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdateMaterial applies a partial update to a catalog entry. Cost changes
// only affect future requests; existing snapshots are untouched.
func (s *MaterialService) UpdateMaterial(ctx context.Context, actor shared.Actor, id uuid.UUID, input UpdateMaterialInput) (*MaterialResponse, error) {
	if !actor.CanManageCatalog() {
		return nil, shared.ErrUnauthorized
	}

	material, err := s.findMaterial(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := catalog.MaterialPatch{
		Name:              input.Name,
		Category:          input.Category,
		Unit:              input.Unit,
		UnitCost:          input.UnitCost,
		ClearUnitCost:     input.ClearUnitCost,
		MinimumStockLevel: input.MinimumStockLevel,
		MaximumStockLevel: input.MaximumStockLevel,
		ReorderPoint:      input.ReorderPoint,
		ClearSupplier:     input.ClearSupplier,
	}
	if input.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *input.SupplierID); err != nil {
			return nil, shared.ErrSupplierNotFound
		}
		patch.SupplierID = input.SupplierID
	}
	if err := material.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	s.publishAndClear(ctx, material)
	resp := ToMaterialResponse(material)
	return &resp, nil
}

// DeactivateMaterial soft-retires a catalog entry. It stays resolvable on
// historical requests and ledger rows but cannot be requested anymore.
func (s *MaterialService) DeactivateMaterial(ctx context.Context, actor shared.Actor, id uuid.UUID) (*MaterialResponse, error) {
	if !actor.CanManageCatalog() {
		return nil, shared.ErrUnauthorized
	}

	material, err := s.findMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := material.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	s.publishAndClear(ctx, material)
	resp := ToMaterialResponse(material)
	return &resp, nil
}

// ActivateMaterial re-enables a deactivated catalog entry
func (s *MaterialService) ActivateMaterial(ctx context.Context, actor shared.Actor, id uuid.UUID) (*MaterialResponse, error) {
	if !actor.CanManageCatalog() {
		return nil, shared.ErrUnauthorized
	}

	material, err := s.findMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := material.Activate(); err != nil {
		return nil, err
	}
	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	resp := ToMaterialResponse(material)
	return &resp, nil
}

// DeleteMaterial hard-deletes a catalog entry. Deletion is refused while any
// request, ledger row or log entry references the material; deactivate instead.
func (s *MaterialService) DeleteMaterial(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	if !actor.CanManageCatalog() {
		return shared.ErrUnauthorized
	}

	if _, err := s.findMaterial(ctx, id); err != nil {
		return err
	}

	requests, err := s.requestRepo.CountByMaterial(ctx, id)
	if err != nil {
		return err
	}
	levels, err := s.levelRepo.CountByMaterial(ctx, id)
	if err != nil {
		return err
	}
	transactions, err := s.txRepo.CountByMaterial(ctx, id)
	if err != nil {
		return err
	}
	if requests > 0 || levels > 0 || transactions > 0 {
		return shared.ErrHasDependents
	}

	if err := s.materialRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// findMaterial resolves a material through the cache when one is configured
func (s *MaterialService) findMaterial(ctx context.Context, id uuid.UUID) (*catalog.Material, error) {
	if s.cache != nil {
		if material, ok := s.cache.Get(ctx, id); ok {
			return material, nil
		}
	}

	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrMaterialNotFound
	}
	if s.cache != nil {
		s.cache.Set(ctx, material)
	}
	return material, nil
}

func (s *MaterialService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
}

func (s *MaterialService) publishAndClear(ctx context.Context, material *catalog.Material) {
	events := material.GetDomainEvents()
	material.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish material events",
			zap.String("material_code", material.Code),
			zap.Error(err),
		)
	}
}
