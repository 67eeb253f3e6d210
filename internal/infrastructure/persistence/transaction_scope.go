package persistence

import (
	"context"

	"gorm.io/gorm"

	appinventory "github.com/sitestock/backend/internal/application/inventory"
	"github.com/sitestock/backend/internal/domain/inventory"
	"github.com/sitestock/backend/internal/domain/request"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Levels returns the ledger row repository scoped to the current transaction
func (r *gormTransactionalRepositories) Levels() inventory.InventoryLevelRepository {
	return NewGormInventoryLevelRepository(r.tx)
}

// Transactions returns the movement log repository scoped to the current transaction
func (r *gormTransactionalRepositories) Transactions() inventory.MaterialTransactionRepository {
	return NewGormMaterialTransactionRepository(r.tx)
}

// Requests returns the material request repository scoped to the current transaction
func (r *gormTransactionalRepositories) Requests() request.MaterialRequestRepository {
	return NewGormMaterialRequestRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinventory.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
