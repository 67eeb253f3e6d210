package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/sitestock/backend/internal/domain/shared"
)

// SupplierRepository defines persistence operations for the Supplier aggregate
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, supplier *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}
