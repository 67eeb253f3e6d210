package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitestock/backend/internal/domain/shared"
)

// InventoryLevelRepository defines persistence operations for ledger rows
type InventoryLevelRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryLevel, error)
	// FindByAccount finds the ledger row for a material-location account.
	// Returns shared.ErrNotFound when no row exists yet.
	FindByAccount(ctx context.Context, materialID uuid.UUID, location Location) (*InventoryLevel, error)
	// FindByAccountForUpdate behaves like FindByAccount but acquires a row
	// lock for the duration of the enclosing transaction. Every debit path
	// must load its row through this method so concurrent check-then-debit
	// sequences serialize per account.
	FindByAccountForUpdate(ctx context.Context, materialID uuid.UUID, location Location) (*InventoryLevel, error)
	// GetOrCreate returns the ledger row for the account, creating an empty
	// one if it does not exist. Creation is conflict-safe under concurrency.
	GetOrCreate(ctx context.Context, materialID uuid.UUID, location Location) (*InventoryLevel, error)
	FindByMaterial(ctx context.Context, materialID uuid.UUID) ([]InventoryLevel, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryLevel, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, level *InventoryLevel) error
	// SumByMaterial returns the total balance for a material across locations
	SumByMaterial(ctx context.Context, materialID uuid.UUID) (decimal.Decimal, error)
	// CountByMaterial counts ledger rows referencing a material. Used to
	// block catalog deletion while inventory exists.
	CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error)
}

// MaterialTransactionRepository is the append-only movement log. There is
// deliberately no update or delete: entries are immutable once written.
type MaterialTransactionRepository interface {
	Append(ctx context.Context, tx *MaterialTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*MaterialTransaction, error)
	FindByMaterial(ctx context.Context, materialID uuid.UUID, filter shared.Filter) ([]MaterialTransaction, error)
	FindByReference(ctx context.Context, refType ReferenceType, refID uuid.UUID) ([]MaterialTransaction, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]MaterialTransaction, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// CountByMaterial counts log entries referencing a material. Used to
	// block catalog deletion while audit history exists.
	CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error)
}
