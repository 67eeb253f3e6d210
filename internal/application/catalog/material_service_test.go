package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sitestock/backend/internal/domain/catalog"
	"github.com/sitestock/backend/internal/domain/inventory"
	"github.com/sitestock/backend/internal/domain/partner"
	"github.com/sitestock/backend/internal/domain/request"
	"github.com/sitestock/backend/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockMaterialRepository is a mock implementation of catalog.MaterialRepository
type MockMaterialRepository struct {
	mock.Mock
}

func (m *MockMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Material), args.Error(1)
}

func (m *MockMaterialRepository) FindByCode(ctx context.Context, code string) (*catalog.Material, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Material), args.Error(1)
}

func (m *MockMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Material, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Material), args.Error(1)
}

func (m *MockMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMaterialRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockMaterialRepository) Save(ctx context.Context, material *catalog.Material) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *MockMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMaterialRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSupplierRepository is a mock implementation of partner.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockInventoryLevelRepository only implements the dependency-count methods
// the catalog service touches; the rest panic if reached.
type MockInventoryLevelRepository struct {
	mock.Mock
}

func (m *MockInventoryLevelRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryLevel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryLevel), args.Error(1)
}

func (m *MockInventoryLevelRepository) FindByAccount(ctx context.Context, materialID uuid.UUID, location inventory.Location) (*inventory.InventoryLevel, error) {
	args := m.Called(ctx, materialID, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryLevel), args.Error(1)
}

func (m *MockInventoryLevelRepository) FindByAccountForUpdate(ctx context.Context, materialID uuid.UUID, location inventory.Location) (*inventory.InventoryLevel, error) {
	args := m.Called(ctx, materialID, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryLevel), args.Error(1)
}

func (m *MockInventoryLevelRepository) GetOrCreate(ctx context.Context, materialID uuid.UUID, location inventory.Location) (*inventory.InventoryLevel, error) {
	args := m.Called(ctx, materialID, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryLevel), args.Error(1)
}

func (m *MockInventoryLevelRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID) ([]inventory.InventoryLevel, error) {
	args := m.Called(ctx, materialID)
	return args.Get(0).([]inventory.InventoryLevel), args.Error(1)
}

func (m *MockInventoryLevelRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryLevel, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.InventoryLevel), args.Error(1)
}

func (m *MockInventoryLevelRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryLevelRepository) Save(ctx context.Context, level *inventory.InventoryLevel) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

func (m *MockInventoryLevelRepository) SumByMaterial(ctx context.Context, materialID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, materialID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockInventoryLevelRepository) CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	args := m.Called(ctx, materialID)
	return args.Get(0).(int64), args.Error(1)
}

// MockMaterialTransactionRepository is a mock implementation of MaterialTransactionRepository
type MockMaterialTransactionRepository struct {
	mock.Mock
}

func (m *MockMaterialTransactionRepository) Append(ctx context.Context, tx *inventory.MaterialTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockMaterialTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.MaterialTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.MaterialTransaction), args.Error(1)
}

func (m *MockMaterialTransactionRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]inventory.MaterialTransaction, error) {
	args := m.Called(ctx, materialID, filter)
	return args.Get(0).([]inventory.MaterialTransaction), args.Error(1)
}

func (m *MockMaterialTransactionRepository) FindByReference(ctx context.Context, refType inventory.ReferenceType, refID uuid.UUID) ([]inventory.MaterialTransaction, error) {
	args := m.Called(ctx, refType, refID)
	return args.Get(0).([]inventory.MaterialTransaction), args.Error(1)
}

func (m *MockMaterialTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.MaterialTransaction, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.MaterialTransaction), args.Error(1)
}

func (m *MockMaterialTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMaterialTransactionRepository) CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	args := m.Called(ctx, materialID)
	return args.Get(0).(int64), args.Error(1)
}

// MockMaterialRequestRepository is a mock implementation of MaterialRequestRepository
type MockMaterialRequestRepository struct {
	mock.Mock
}

func (m *MockMaterialRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*request.MaterialRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.MaterialRequest), args.Error(1)
}

func (m *MockMaterialRequestRepository) FindByRequestNumber(ctx context.Context, requestNumber string) (*request.MaterialRequest, error) {
	args := m.Called(ctx, requestNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.MaterialRequest), args.Error(1)
}

func (m *MockMaterialRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]request.MaterialRequest, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]request.MaterialRequest), args.Error(1)
}

func (m *MockMaterialRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMaterialRequestRepository) Create(ctx context.Context, req *request.MaterialRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockMaterialRequestRepository) Save(ctx context.Context, req *request.MaterialRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockMaterialRequestRepository) NextRequestNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockMaterialRequestRepository) CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	args := m.Called(ctx, materialID)
	return args.Get(0).(int64), args.Error(1)
}

// fakeMaterialCache is a map-backed cache that counts hits and misses
type fakeMaterialCache struct {
	entries map[uuid.UUID]*catalog.Material
	hits    int
	misses  int
}

func newFakeMaterialCache() *fakeMaterialCache {
	return &fakeMaterialCache{entries: make(map[uuid.UUID]*catalog.Material)}
}

func (c *fakeMaterialCache) Get(_ context.Context, id uuid.UUID) (*catalog.Material, bool) {
	if m, ok := c.entries[id]; ok {
		c.hits++
		return m, true
	}
	c.misses++
	return nil, false
}

func (c *fakeMaterialCache) Set(_ context.Context, material *catalog.Material) {
	c.entries[material.ID] = material
}

func (c *fakeMaterialCache) Invalidate(_ context.Context, id uuid.UUID) {
	delete(c.entries, id)
}

// =============================================================================
// Test Fixtures
// =============================================================================

type materialServiceFixture struct {
	service      *MaterialService
	materialRepo *MockMaterialRepository
	supplierRepo *MockSupplierRepository
	levelRepo    *MockInventoryLevelRepository
	txRepo       *MockMaterialTransactionRepository
	requestRepo  *MockMaterialRequestRepository
	cache        *fakeMaterialCache
}

func newMaterialServiceFixture() *materialServiceFixture {
	materialRepo := new(MockMaterialRepository)
	supplierRepo := new(MockSupplierRepository)
	levelRepo := new(MockInventoryLevelRepository)
	txRepo := new(MockMaterialTransactionRepository)
	requestRepo := new(MockMaterialRequestRepository)
	cache := newFakeMaterialCache()

	service := NewMaterialService(materialRepo, supplierRepo, levelRepo, txRepo, requestRepo)
	service.SetCache(cache)

	return &materialServiceFixture{
		service:      service,
		materialRepo: materialRepo,
		supplierRepo: supplierRepo,
		levelRepo:    levelRepo,
		txRepo:       txRepo,
		requestRepo:  requestRepo,
		cache:        cache,
	}
}

func storedTestMaterial(t *testing.T) *catalog.Material {
	t.Helper()
	m, err := catalog.NewMaterial("CEM-42.5", "Portland Cement 42.5N", "Cement", "bag")
	require.NoError(t, err)
	m.ClearDomainEvents()
	return m
}

// =============================================================================
// CreateMaterial
// =============================================================================

func TestMaterialService_CreateMaterial(t *testing.T) {
	ctx := context.Background()
	keeper := shared.NewActor(uuid.New(), shared.RoleStorekeeper)

	t.Run("creates catalog entry", func(t *testing.T) {
		f := newMaterialServiceFixture()
		unitCost := decimal.NewFromFloat(9.5)

		f.materialRepo.On("ExistsByCode", ctx, "CEM-42.5").Return(false, nil)
		f.materialRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Material")).Return(nil)

		resp, err := f.service.CreateMaterial(ctx, keeper, CreateMaterialInput{
			Code:     "CEM-42.5",
			Name:     "Portland Cement 42.5N",
			Category: "Cement",
			Unit:     "bag",
			UnitCost: &unitCost,
		})

		require.NoError(t, err)
		assert.Equal(t, "CEM-42.5", resp.Code)
		assert.True(t, resp.IsActive)
		require.NotNil(t, resp.UnitCost)
		assert.True(t, resp.UnitCost.Equal(unitCost))
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		f := newMaterialServiceFixture()

		f.materialRepo.On("ExistsByCode", ctx, "CEM-42.5").Return(true, nil)

		resp, err := f.service.CreateMaterial(ctx, keeper, CreateMaterialInput{
			Code: "CEM-42.5", Name: "Portland Cement", Unit: "bag",
		})

		require.Error(t, err)
		assert.Nil(t, resp)
		assert.Equal(t, shared.ErrDuplicateCode, err)
		f.materialRepo.AssertNotCalled(t, "Save")
	})

	t.Run("validates supplier reference", func(t *testing.T) {
		f := newMaterialServiceFixture()
		supplierID := uuid.New()

		f.materialRepo.On("ExistsByCode", ctx, "REB-12").Return(false, nil)
		f.supplierRepo.On("FindByID", ctx, supplierID).Return(nil, shared.ErrNotFound)

		_, err := f.service.CreateMaterial(ctx, keeper, CreateMaterialInput{
			Code: "REB-12", Name: "Rebar 12mm", Unit: "ton", SupplierID: &supplierID,
		})

		assert.Equal(t, shared.ErrSupplierNotFound, err)
	})

	t.Run("denies employees", func(t *testing.T) {
		f := newMaterialServiceFixture()
		employee := shared.NewActor(uuid.New(), shared.RoleEmployee)

		_, err := f.service.CreateMaterial(ctx, employee, CreateMaterialInput{Code: "X", Name: "x", Unit: "pc"})

		assert.Equal(t, shared.ErrUnauthorized, err)
	})
}

// =============================================================================
// Reads and cache behavior
// =============================================================================

func TestMaterialService_GetMaterial(t *testing.T) {
	ctx := context.Background()

	t.Run("reads through the cache", func(t *testing.T) {
		f := newMaterialServiceFixture()
		material := storedTestMaterial(t)

		f.materialRepo.On("FindByID", ctx, material.ID).Return(material, nil).Once()

		first, err := f.service.GetMaterial(ctx, material.ID)
		require.NoError(t, err)
		second, err := f.service.GetMaterial(ctx, material.ID)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, f.cache.hits)
		assert.Equal(t, 1, f.cache.misses)
		f.materialRepo.AssertNumberOfCalls(t, "FindByID", 1)
	})

	t.Run("maps missing material", func(t *testing.T) {
		f := newMaterialServiceFixture()
		id := uuid.New()

		f.materialRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.GetMaterial(ctx, id)

		assert.Equal(t, shared.ErrMaterialNotFound, err)
	})

	t.Run("finds by code", func(t *testing.T) {
		f := newMaterialServiceFixture()
		material := storedTestMaterial(t)

		f.materialRepo.On("FindByCode", ctx, "CEM-42.5").Return(material, nil)

		resp, err := f.service.GetMaterialByCode(ctx, "CEM-42.5")

		require.NoError(t, err)
		assert.Equal(t, material.ID, resp.ID)
	})
}

func TestMaterialService_UpdateMaterial(t *testing.T) {
	ctx := context.Background()
	keeper := shared.NewActor(uuid.New(), shared.RoleStorekeeper)

	t.Run("applies patch and invalidates cache", func(t *testing.T) {
		f := newMaterialServiceFixture()
		material := storedTestMaterial(t)
		f.cache.Set(ctx, material)
		newCost := decimal.NewFromFloat(11.25)

		f.materialRepo.On("Save", ctx, material).Return(nil)

		resp, err := f.service.UpdateMaterial(ctx, keeper, material.ID, UpdateMaterialInput{UnitCost: &newCost})

		require.NoError(t, err)
		assert.True(t, resp.UnitCost.Equal(newCost))
		_, cached := f.cache.entries[material.ID]
		assert.False(t, cached)
	})

	t.Run("denies managers", func(t *testing.T) {
		f := newMaterialServiceFixture()
		manager := shared.NewActor(uuid.New(), shared.RoleProjectManager)

		_, err := f.service.UpdateMaterial(ctx, manager, uuid.New(), UpdateMaterialInput{})

		assert.Equal(t, shared.ErrUnauthorized, err)
	})
}

func TestMaterialService_DeactivateActivate(t *testing.T) {
	ctx := context.Background()
	admin := shared.NewActor(uuid.New(), shared.RoleAdmin)

	t.Run("deactivates then reactivates", func(t *testing.T) {
		f := newMaterialServiceFixture()
		material := storedTestMaterial(t)

		f.materialRepo.On("FindByID", ctx, material.ID).Return(material, nil)
		f.materialRepo.On("Save", ctx, material).Return(nil)

		resp, err := f.service.DeactivateMaterial(ctx, admin, material.ID)
		require.NoError(t, err)
		assert.False(t, resp.IsActive)

		resp, err = f.service.ActivateMaterial(ctx, admin, material.ID)
		require.NoError(t, err)
		assert.True(t, resp.IsActive)
	})

	t.Run("double deactivation fails", func(t *testing.T) {
		f := newMaterialServiceFixture()
		material := storedTestMaterial(t)
		require.NoError(t, material.Deactivate())
		material.ClearDomainEvents()

		f.materialRepo.On("FindByID", ctx, material.ID).Return(material, nil)

		_, err := f.service.DeactivateMaterial(ctx, admin, material.ID)

		require.Error(t, err)
		f.materialRepo.AssertNotCalled(t, "Save")
	})
}

// =============================================================================
// DeleteMaterial
// =============================================================================

func TestMaterialService_DeleteMaterial(t *testing.T) {
	ctx := context.Background()
	admin := shared.NewActor(uuid.New(), shared.RoleAdmin)

	t.Run("deletes unreferenced material", func(t *testing.T) {
		f := newMaterialServiceFixture()
		material := storedTestMaterial(t)
		f.cache.Set(ctx, material)

		f.requestRepo.On("CountByMaterial", ctx, material.ID).Return(int64(0), nil)
		f.levelRepo.On("CountByMaterial", ctx, material.ID).Return(int64(0), nil)
		f.txRepo.On("CountByMaterial", ctx, material.ID).Return(int64(0), nil)
		f.materialRepo.On("Delete", ctx, material.ID).Return(nil)

		err := f.service.DeleteMaterial(ctx, admin, material.ID)

		require.NoError(t, err)
		_, cached := f.cache.entries[material.ID]
		assert.False(t, cached)
	})

	t.Run("refuses while requests reference the material", func(t *testing.T) {
		f := newMaterialServiceFixture()
		material := storedTestMaterial(t)
		f.cache.Set(ctx, material)

		f.requestRepo.On("CountByMaterial", ctx, material.ID).Return(int64(3), nil)
		f.levelRepo.On("CountByMaterial", ctx, material.ID).Return(int64(0), nil)
		f.txRepo.On("CountByMaterial", ctx, material.ID).Return(int64(0), nil)

		err := f.service.DeleteMaterial(ctx, admin, material.ID)

		assert.Equal(t, shared.ErrHasDependents, err)
		f.materialRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("refuses while ledger rows exist", func(t *testing.T) {
		f := newMaterialServiceFixture()
		material := storedTestMaterial(t)
		f.cache.Set(ctx, material)

		f.requestRepo.On("CountByMaterial", ctx, material.ID).Return(int64(0), nil)
		f.levelRepo.On("CountByMaterial", ctx, material.ID).Return(int64(2), nil)
		f.txRepo.On("CountByMaterial", ctx, material.ID).Return(int64(5), nil)

		err := f.service.DeleteMaterial(ctx, admin, material.ID)

		assert.Equal(t, shared.ErrHasDependents, err)
	})
}

// =============================================================================
// SupplierService
// =============================================================================

func TestSupplierService(t *testing.T) {
	ctx := context.Background()
	keeper := shared.NewActor(uuid.New(), shared.RoleStorekeeper)

	t.Run("creates supplier", func(t *testing.T) {
		supplierRepo := new(MockSupplierRepository)
		materialRepo := new(MockMaterialRepository)
		service := NewSupplierService(supplierRepo, materialRepo)

		supplierRepo.On("Save", ctx, mock.AnythingOfType("*partner.Supplier")).Return(nil)

		resp, err := service.CreateSupplier(ctx, keeper, CreateSupplierInput{Name: "Apex Builders Supply"})

		require.NoError(t, err)
		assert.Equal(t, "Apex Builders Supply", resp.Name)
		assert.True(t, resp.IsActive)
	})

	t.Run("denies employees", func(t *testing.T) {
		service := NewSupplierService(new(MockSupplierRepository), new(MockMaterialRepository))
		employee := shared.NewActor(uuid.New(), shared.RoleEmployee)

		_, err := service.CreateSupplier(ctx, employee, CreateSupplierInput{Name: "x"})

		assert.Equal(t, shared.ErrUnauthorized, err)
	})

	t.Run("refuses deletion while materials reference the supplier", func(t *testing.T) {
		supplierRepo := new(MockSupplierRepository)
		materialRepo := new(MockMaterialRepository)
		service := NewSupplierService(supplierRepo, materialRepo)

		supplier, err := partner.NewSupplier("Apex Builders Supply", "", "", "", "")
		require.NoError(t, err)

		supplierRepo.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		materialRepo.On("CountBySupplier", ctx, supplier.ID).Return(int64(4), nil)

		err = service.DeleteSupplier(ctx, keeper, supplier.ID)

		assert.Equal(t, shared.ErrHasDependents, err)
		supplierRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("deletes unreferenced supplier", func(t *testing.T) {
		supplierRepo := new(MockSupplierRepository)
		materialRepo := new(MockMaterialRepository)
		service := NewSupplierService(supplierRepo, materialRepo)

		supplier, err := partner.NewSupplier("Apex Builders Supply", "", "", "", "")
		require.NoError(t, err)

		supplierRepo.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		materialRepo.On("CountBySupplier", ctx, supplier.ID).Return(int64(0), nil)
		supplierRepo.On("Delete", ctx, supplier.ID).Return(nil)

		err = service.DeleteSupplier(ctx, keeper, supplier.ID)

		require.NoError(t, err)
	})
}
