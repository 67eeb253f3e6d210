package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sitestock/backend/internal/domain/partner"
	"github.com/sitestock/backend/internal/domain/shared"
)

// GormSupplierRepository persists suppliers through GORM. Suppliers are
// reference data, so the surface is plain CRUD plus a name search.
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	var supplier partner.Supplier
	err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// FindAll returns the suppliers matching the filter, paginated and sorted
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	var suppliers []partner.Supplier
	err := r.db.WithContext(ctx).
		Model(&partner.Supplier{}).
		Scopes(supplierCriteria(filter), paginateSuppliers(filter)).
		Find(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Count counts suppliers matching the filter, ignoring pagination
func (r *GormSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&partner.Supplier{}).
		Scopes(supplierCriteria(filter)).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Delete removes a supplier; deactivation is the usual path, deletion is
// only for suppliers never referenced by a material request
func (r *GormSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Supplier{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// supplierCriteria narrows the query by search text and the is_active flag
func supplierCriteria(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if filter.Search != "" {
			pattern := "%" + strings.TrimSpace(filter.Search) + "%"
			query = query.Where("name ILIKE ? OR contact_name ILIKE ?", pattern, pattern)
		}
		for key, value := range filter.Filters {
			if key == "is_active" {
				query = query.Where("is_active = ?", value)
			}
		}
		return query
	}
}

func paginateSuppliers(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		if filter.Page > 0 && filter.PageSize > 0 {
			query = query.Offset(filter.Offset()).Limit(filter.PageSize)
		}
		orderBy := ValidateSortField(filter.OrderBy, SupplierSortFields, "created_at")
		return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	}
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
