package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sitestock/backend/internal/domain/inventory"
	"github.com/sitestock/backend/internal/domain/shared"
)

// GormMaterialTransactionRepository implements the append-only movement log
// using GORM. There is no update or delete path on this table.
type GormMaterialTransactionRepository struct {
	db *gorm.DB
}

// NewGormMaterialTransactionRepository creates a new GormMaterialTransactionRepository
func NewGormMaterialTransactionRepository(db *gorm.DB) *GormMaterialTransactionRepository {
	return &GormMaterialTransactionRepository{db: db}
}

// Append inserts a new movement log entry
func (r *GormMaterialTransactionRepository) Append(ctx context.Context, tx *inventory.MaterialTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// FindByID finds a log entry by its ID
func (r *GormMaterialTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.MaterialTransaction, error) {
	var entry inventory.MaterialTransaction
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByMaterial finds log entries for a material, newest first
func (r *GormMaterialTransactionRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]inventory.MaterialTransaction, error) {
	var entries []inventory.MaterialTransaction
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.MaterialTransaction{}).Where("material_id = ?", materialID),
		filter,
	)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByReference finds the log entries created by one originating document
func (r *GormMaterialTransactionRepository) FindByReference(ctx context.Context, refType inventory.ReferenceType, refID uuid.UUID) ([]inventory.MaterialTransaction, error) {
	var entries []inventory.MaterialTransaction
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAll finds all log entries matching the filter
func (r *GormMaterialTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.MaterialTransaction, error) {
	var entries []inventory.MaterialTransaction
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.MaterialTransaction{}), filter)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Count counts log entries matching the filter
func (r *GormMaterialTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.MaterialTransaction{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByMaterial counts log entries referencing a material
func (r *GormMaterialTransactionRepository) CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.MaterialTransaction{}).
		Where("material_id = ?", materialID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormMaterialTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, TransactionSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMaterialTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "material_id":
			query = query.Where("material_id = ?", value)
		case "transaction_type":
			query = query.Where("transaction_type = ?", value)
		case "reference_type":
			query = query.Where("reference_type = ?", value)
		case "performed_by_id":
			query = query.Where("performed_by_id = ?", value)
		}
	}

	return query
}

// Ensure GormMaterialTransactionRepository implements MaterialTransactionRepository
var _ inventory.MaterialTransactionRepository = (*GormMaterialTransactionRepository)(nil)
