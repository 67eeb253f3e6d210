package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sitestock/backend/internal/domain/inventory"
	"github.com/sitestock/backend/internal/domain/shared"
)

// GormInventoryLevelRepository implements InventoryLevelRepository using GORM
type GormInventoryLevelRepository struct {
	db *gorm.DB
}

// NewGormInventoryLevelRepository creates a new GormInventoryLevelRepository
func NewGormInventoryLevelRepository(db *gorm.DB) *GormInventoryLevelRepository {
	return &GormInventoryLevelRepository{db: db}
}

func accountWhere(query *gorm.DB, materialID uuid.UUID, location inventory.Location) *gorm.DB {
	return query.Where(
		"material_id = ? AND location_type = ? AND location_reference = ? AND location_project_id = ?",
		materialID, location.Type, location.Reference, location.ProjectID,
	)
}

// FindByID finds a ledger row by its ID
func (r *GormInventoryLevelRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryLevel, error) {
	var level inventory.InventoryLevel
	if err := r.db.WithContext(ctx).First(&level, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// FindByAccount finds the ledger row for a material-location account
func (r *GormInventoryLevelRepository) FindByAccount(ctx context.Context, materialID uuid.UUID, location inventory.Location) (*inventory.InventoryLevel, error) {
	var level inventory.InventoryLevel
	query := accountWhere(r.db.WithContext(ctx), materialID, location)
	if err := query.First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// FindByAccountForUpdate finds the ledger row with a SELECT FOR UPDATE row
// lock. Concurrent check-then-debit sequences against the same account
// serialize on this lock for the rest of the enclosing transaction.
func (r *GormInventoryLevelRepository) FindByAccountForUpdate(ctx context.Context, materialID uuid.UUID, location inventory.Location) (*inventory.InventoryLevel, error) {
	var level inventory.InventoryLevel
	query := accountWhere(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		materialID, location,
	)
	if err := query.First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// GetOrCreate returns the ledger row for the account, creating an empty one
// if needed. ON CONFLICT DO NOTHING absorbs creation races; the loser of the
// race re-reads the winner's row.
func (r *GormInventoryLevelRepository) GetOrCreate(ctx context.Context, materialID uuid.UUID, location inventory.Location) (*inventory.InventoryLevel, error) {
	level, err := r.FindByAccount(ctx, materialID, location)
	if err == nil {
		return level, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	level, err = inventory.NewInventoryLevel(materialID, location)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "material_id"},
				{Name: "location_type"},
				{Name: "location_reference"},
				{Name: "location_project_id"},
			},
			DoNothing: true,
		}).
		Create(level).Error; err != nil {
		return nil, err
	}

	return r.FindByAccount(ctx, materialID, location)
}

// FindByMaterial finds every ledger row holding the given material
func (r *GormInventoryLevelRepository) FindByMaterial(ctx context.Context, materialID uuid.UUID) ([]inventory.InventoryLevel, error) {
	var levels []inventory.InventoryLevel
	if err := r.db.WithContext(ctx).
		Where("material_id = ?", materialID).
		Order("location_type ASC, location_reference ASC").
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// FindAll finds all ledger rows matching the filter
func (r *GormInventoryLevelRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryLevel, error) {
	var levels []inventory.InventoryLevel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryLevel{}), filter)

	if err := query.Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// Count counts ledger rows matching the filter
func (r *GormInventoryLevelRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.InventoryLevel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists a ledger row with an optimistic version check. A row moved by
// a concurrent writer since it was read yields ErrConcurrencyConflict.
func (r *GormInventoryLevelRepository) Save(ctx context.Context, level *inventory.InventoryLevel) error {
	if level.Version <= 1 {
		return r.db.WithContext(ctx).Save(level).Error
	}

	result := r.db.WithContext(ctx).
		Model(level).
		Where("id = ? AND version = ?", level.ID, level.Version-1).
		Updates(map[string]interface{}{
			"current_stock": level.CurrentStock,
			"version":       level.Version,
			"updated_at":    level.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SumByMaterial returns the total balance of a material across all accounts
func (r *GormInventoryLevelRepository) SumByMaterial(ctx context.Context, materialID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryLevel{}).
		Where("material_id = ?", materialID).
		Select("SUM(current_stock)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// CountByMaterial counts ledger rows referencing a material
func (r *GormInventoryLevelRepository) CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryLevel{}).
		Where("material_id = ?", materialID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormInventoryLevelRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, LevelSortFields, "updated_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInventoryLevelRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "material_id":
			query = query.Where("material_id = ?", value)
		case "location_type":
			query = query.Where("location_type = ?", value)
		case "project_id":
			query = query.Where("location_project_id = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("current_stock > 0")
			}
		}
	}

	return query
}

// Ensure GormInventoryLevelRepository implements InventoryLevelRepository
var _ inventory.InventoryLevelRepository = (*GormInventoryLevelRepository)(nil)
