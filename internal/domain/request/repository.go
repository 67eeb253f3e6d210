package request

import (
	"context"

	"github.com/google/uuid"

	"github.com/sitestock/backend/internal/domain/shared"
)

// MaterialRequestRepository defines persistence operations for the workflow
// aggregate. Requests are never physically deleted.
type MaterialRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MaterialRequest, error)
	FindByRequestNumber(ctx context.Context, requestNumber string) (*MaterialRequest, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]MaterialRequest, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, req *MaterialRequest) error
	// Save persists transition results with an optimistic version check and
	// returns shared.ErrConcurrencyConflict when the row moved underneath us.
	Save(ctx context.Context, req *MaterialRequest) error
	// NextRequestNumber allocates the next MR-NNNN number. Allocation reads
	// the highest existing number inside the enclosing transaction; the
	// unique index on request_number catches races, which callers resolve by
	// retrying the create.
	NextRequestNumber(ctx context.Context) (string, error)
	// CountByMaterial counts requests referencing a material. Used to block
	// catalog deletion while requests exist.
	CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error)
}
