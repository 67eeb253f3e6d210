package inventory

import (
	"context"

	"github.com/sitestock/backend/internal/domain/inventory"
	"github.com/sitestock/backend/internal/domain/request"
)

// TransactionScope provides transactional access to the repositories touched
// by inventory-affecting operations. Everything executed within one scope
// shares a single database transaction and commits or rolls back as a unit.
// This is what makes "debit store, credit site, append log entry, advance
// request" an all-or-nothing step.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories scoped to the current
// transaction. All of them share the same underlying transaction handle.
type TransactionalRepositories interface {
	Levels() inventory.InventoryLevelRepository
	Transactions() inventory.MaterialTransactionRepository
	Requests() request.MaterialRequestRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// It backs unit tests that exercise orchestration logic against mocks.
type NoOpTransactionScope struct {
	levels       inventory.InventoryLevelRepository
	transactions inventory.MaterialTransactionRepository
	requests     request.MaterialRequestRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	levels inventory.InventoryLevelRepository,
	transactions inventory.MaterialTransactionRepository,
	requests request.MaterialRequestRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		levels:       levels,
		transactions: transactions,
		requests:     requests,
	}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Levels returns the ledger row repository
func (s *NoOpTransactionScope) Levels() inventory.InventoryLevelRepository {
	return s.levels
}

// Transactions returns the movement log repository
func (s *NoOpTransactionScope) Transactions() inventory.MaterialTransactionRepository {
	return s.transactions
}

// Requests returns the material request repository
func (s *NoOpTransactionScope) Requests() request.MaterialRequestRepository {
	return s.requests
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
