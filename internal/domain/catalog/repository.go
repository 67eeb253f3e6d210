package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/sitestock/backend/internal/domain/shared"
)

// MaterialRepository defines persistence operations for the Material aggregate
type MaterialRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Material, error)
	FindByCode(ctx context.Context, code string) (*Material, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Material, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, material *Material) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountBySupplier counts materials referencing a supplier. Used to block
	// supplier deletion while references exist.
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
}
