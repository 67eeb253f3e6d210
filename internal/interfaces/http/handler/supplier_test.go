package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/sitestock/backend/internal/application/catalog"
	"github.com/sitestock/backend/internal/domain/catalog"
	"github.com/sitestock/backend/internal/domain/partner"
	"github.com/sitestock/backend/internal/domain/shared"
	"github.com/sitestock/backend/internal/interfaces/http/dto"
)

// Map-backed fakes for supplier handler tests

type fakeSupplierRepository struct {
	suppliers map[uuid.UUID]*partner.Supplier
	returnErr error
}

func newFakeSupplierRepository() *fakeSupplierRepository {
	return &fakeSupplierRepository{suppliers: make(map[uuid.UUID]*partner.Supplier)}
}

func (f *fakeSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	if f.returnErr != nil {
		return nil, f.returnErr
	}
	if s, ok := f.suppliers[id]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	if f.returnErr != nil {
		return nil, f.returnErr
	}
	var result []partner.Supplier
	for _, s := range f.suppliers {
		result = append(result, *s)
	}
	return result, nil
}

func (f *fakeSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(f.suppliers)), f.returnErr
}

func (f *fakeSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	if f.returnErr != nil {
		return f.returnErr
	}
	f.suppliers[supplier.ID] = supplier
	return nil
}

func (f *fakeSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if f.returnErr != nil {
		return f.returnErr
	}
	if _, ok := f.suppliers[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.suppliers, id)
	return nil
}

// fakeCatalogRepository backs both the supplier dependency count and the
// material lookups the request handler tests need
type fakeCatalogRepository struct {
	materials       map[uuid.UUID]*catalog.Material
	countBySupplier int64
}

func (f *fakeCatalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Material, error) {
	if m, ok := f.materials[id]; ok {
		return m, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCatalogRepository) FindByCode(ctx context.Context, code string) (*catalog.Material, error) {
	for _, m := range f.materials {
		if m.Code == code {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCatalogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Material, error) {
	var result []catalog.Material
	for _, m := range f.materials {
		result = append(result, *m)
	}
	return result, nil
}

func (f *fakeCatalogRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(f.materials)), nil
}

func (f *fakeCatalogRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	for _, m := range f.materials {
		if m.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCatalogRepository) Save(ctx context.Context, material *catalog.Material) error {
	if f.materials == nil {
		f.materials = make(map[uuid.UUID]*catalog.Material)
	}
	f.materials[material.ID] = material
	return nil
}

func (f *fakeCatalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.materials[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.materials, id)
	return nil
}

func (f *fakeCatalogRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	return f.countBySupplier, nil
}

func setupSupplierTestHandler() (*SupplierHandler, *fakeSupplierRepository, *fakeCatalogRepository) {
	supplierRepo := newFakeSupplierRepository()
	materialRepo := &fakeCatalogRepository{}
	service := catalogapp.NewSupplierService(supplierRepo, materialRepo)
	return NewSupplierHandler(service), supplierRepo, materialRepo
}

func storedSupplier(t *testing.T, repo *fakeSupplierRepository, name string) *partner.Supplier {
	t.Helper()
	supplier, err := partner.NewSupplier(name, "J. Mwangi", "+254-700-000001", "sales@example.com", "Industrial Area")
	require.NoError(t, err)
	repo.suppliers[supplier.ID] = supplier
	return supplier
}

func TestSupplierHandler_Create(t *testing.T) {
	t.Run("creates supplier as storekeeper", func(t *testing.T) {
		handler, repo, _ := setupSupplierTestHandler()

		body, _ := json.Marshal(CreateSupplierRequest{
			Name:        "BuildMart Ltd",
			ContactName: "J. Mwangi",
			Email:       "sales@buildmart.example",
		})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/catalog/suppliers", bytes.NewBuffer(body))
		c.Request.Header.Set("Content-Type", "application/json")
		setActorContext(c, shared.NewActor(uuid.New(), shared.RoleStorekeeper))

		handler.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Len(t, repo.suppliers, 1)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "BuildMart Ltd", data["name"])
	})

	t.Run("rejects unauthenticated request", func(t *testing.T) {
		handler, repo, _ := setupSupplierTestHandler()

		body, _ := json.Marshal(CreateSupplierRequest{Name: "BuildMart Ltd"})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/catalog/suppliers", bytes.NewBuffer(body))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.Create(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, repo.suppliers)
	})

	t.Run("rejects employee role", func(t *testing.T) {
		handler, repo, _ := setupSupplierTestHandler()

		body, _ := json.Marshal(CreateSupplierRequest{Name: "BuildMart Ltd"})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/catalog/suppliers", bytes.NewBuffer(body))
		c.Request.Header.Set("Content-Type", "application/json")
		setActorContext(c, shared.NewActor(uuid.New(), shared.RoleEmployee))

		handler.Create(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, repo.suppliers)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		handler, _, _ := setupSupplierTestHandler()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/catalog/suppliers", bytes.NewBufferString(`{"contact_name":"J. Mwangi"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		setActorContext(c, shared.NewActor(uuid.New(), shared.RoleAdmin))

		handler.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSupplierHandler_GetByID(t *testing.T) {
	t.Run("returns an existing supplier", func(t *testing.T) {
		handler, repo, _ := setupSupplierTestHandler()
		supplier := storedSupplier(t, repo, "BuildMart Ltd")

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/catalog/suppliers/"+supplier.ID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: supplier.ID.String()}}

		handler.GetByID(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, supplier.ID.String(), data["id"])
	})

	t.Run("returns 404 for unknown supplier", func(t *testing.T) {
		handler, _, _ := setupSupplierTestHandler()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/catalog/suppliers/"+uuid.NewString(), nil)
		c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

		handler.GetByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 400 for malformed id", func(t *testing.T) {
		handler, _, _ := setupSupplierTestHandler()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/catalog/suppliers/not-a-uuid", nil)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		handler.GetByID(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSupplierHandler_List(t *testing.T) {
	handler, repo, _ := setupSupplierTestHandler()
	storedSupplier(t, repo, "BuildMart Ltd")
	storedSupplier(t, repo, "Steel & Sons")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/catalog/suppliers?page=1&page_size=20", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
}

func TestSupplierHandler_Update(t *testing.T) {
	t.Run("applies a partial update", func(t *testing.T) {
		handler, repo, _ := setupSupplierTestHandler()
		supplier := storedSupplier(t, repo, "BuildMart Ltd")

		body, _ := json.Marshal(map[string]interface{}{"phone": "+254-733-999999"})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/catalog/suppliers/"+supplier.ID.String(), bytes.NewBuffer(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: supplier.ID.String()}}
		setActorContext(c, shared.NewActor(uuid.New(), shared.RoleAdmin))

		handler.Update(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "+254-733-999999", repo.suppliers[supplier.ID].Phone)
		assert.Equal(t, "BuildMart Ltd", repo.suppliers[supplier.ID].Name)
	})

	t.Run("returns 404 for unknown supplier", func(t *testing.T) {
		handler, _, _ := setupSupplierTestHandler()

		body, _ := json.Marshal(map[string]interface{}{"phone": "+254-733-999999"})
		id := uuid.NewString()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/catalog/suppliers/"+id, bytes.NewBuffer(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: id}}
		setActorContext(c, shared.NewActor(uuid.New(), shared.RoleAdmin))

		handler.Update(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSupplierHandler_Delete(t *testing.T) {
	t.Run("deletes an unreferenced supplier", func(t *testing.T) {
		handler, repo, _ := setupSupplierTestHandler()
		supplier := storedSupplier(t, repo, "BuildMart Ltd")

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodDelete, "/catalog/suppliers/"+supplier.ID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: supplier.ID.String()}}
		setActorContext(c, shared.NewActor(uuid.New(), shared.RoleAdmin))

		handler.Delete(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, repo.suppliers)
	})

	t.Run("refuses deletion while catalog entries reference it", func(t *testing.T) {
		handler, repo, materialRepo := setupSupplierTestHandler()
		supplier := storedSupplier(t, repo, "BuildMart Ltd")
		materialRepo.countBySupplier = 4

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodDelete, "/catalog/suppliers/"+supplier.ID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: supplier.ID.String()}}
		setActorContext(c, shared.NewActor(uuid.New(), shared.RoleAdmin))

		handler.Delete(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Len(t, repo.suppliers, 1)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeHasDependents, resp.Error.Code)
	})
}
