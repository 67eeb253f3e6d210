package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sitestock/backend/internal/domain/request"
	"github.com/sitestock/backend/internal/domain/shared"
)

// requestNumberPrefix is the prefix of allocated request numbers (MR-0001)
const requestNumberPrefix = "MR-"

// GormMaterialRequestRepository implements MaterialRequestRepository using GORM
type GormMaterialRequestRepository struct {
	db *gorm.DB
}

// NewGormMaterialRequestRepository creates a new GormMaterialRequestRepository
func NewGormMaterialRequestRepository(db *gorm.DB) *GormMaterialRequestRepository {
	return &GormMaterialRequestRepository{db: db}
}

// FindByID finds a request by its ID
func (r *GormMaterialRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*request.MaterialRequest, error) {
	var req request.MaterialRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindByRequestNumber finds a request by its MR number
func (r *GormMaterialRequestRepository) FindByRequestNumber(ctx context.Context, requestNumber string) (*request.MaterialRequest, error) {
	var req request.MaterialRequest
	if err := r.db.WithContext(ctx).First(&req, "request_number = ?", requestNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindAll finds all requests matching the filter
func (r *GormMaterialRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]request.MaterialRequest, error) {
	var reqs []request.MaterialRequest
	query := r.applyFilter(r.db.WithContext(ctx).Model(&request.MaterialRequest{}), filter)

	if err := query.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// Count counts requests matching the filter
func (r *GormMaterialRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&request.MaterialRequest{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new request. A request number collision with a concurrent
// create surfaces as ErrDuplicateCode so callers can reallocate and retry.
func (r *GormMaterialRequestRepository) Create(ctx context.Context, req *request.MaterialRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrDuplicateCode
		}
		return err
	}
	return nil
}

// Save persists a transition result with an optimistic version check and
// returns ErrConcurrencyConflict when the row was moved by another writer.
func (r *GormMaterialRequestRepository) Save(ctx context.Context, req *request.MaterialRequest) error {
	result := r.db.WithContext(ctx).
		Model(req).
		Where("id = ? AND version = ?", req.ID, req.Version-1).
		Updates(map[string]interface{}{
			"status":                req.Status,
			"total_cost":            req.TotalCost,
			"approved_quantity":     req.ApprovedQuantity,
			"approved_by_id":        req.ApprovedByID,
			"approval_date":         req.ApprovalDate,
			"approval_comments":     req.ApprovalComments,
			"issued_quantity":       req.IssuedQuantity,
			"issued_by_id":          req.IssuedByID,
			"issuance_date":         req.IssuanceDate,
			"issuance_comments":     req.IssuanceComments,
			"acknowledged_quantity": req.AcknowledgedQuantity,
			"acknowledged_by_id":    req.AcknowledgedByID,
			"acknowledgement_date":  req.AcknowledgementDate,
			"acknowledgement_notes": req.AcknowledgementNotes,
			"completed_by_id":       req.CompletedByID,
			"completion_date":       req.CompletionDate,
			"completion_comments":   req.CompletionComments,
			"rejection_reason":      req.RejectionReason,
			"version":               req.Version,
			"updated_at":            req.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// NextRequestNumber allocates the next MR-NNNN number by reading the highest
// existing one. Callers run this inside a transaction; the unique index on
// request_number backstops concurrent allocations. Ordering by length first
// keeps the comparison numeric once the suffix outgrows four digits
// (lexicographically MR-9999 would sort above MR-10000).
func (r *GormMaterialRequestRepository) NextRequestNumber(ctx context.Context) (string, error) {
	var last request.MaterialRequest
	err := r.db.WithContext(ctx).
		Model(&request.MaterialRequest{}).
		Where("request_number LIKE ?", requestNumberPrefix+"%").
		Order("length(request_number) DESC, request_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var next int64 = 1
	if err == nil && last.RequestNumber != "" {
		suffix := strings.TrimPrefix(last.RequestNumber, requestNumberPrefix)
		var num int64
		if _, parseErr := fmt.Sscanf(suffix, "%d", &num); parseErr == nil {
			next = num + 1
		}
	}

	return fmt.Sprintf("%s%04d", requestNumberPrefix, next), nil
}

// CountByMaterial counts requests referencing a material
func (r *GormMaterialRequestRepository) CountByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&request.MaterialRequest{}).
		Where("material_id = ?", materialID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormMaterialRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, RequestSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMaterialRequestRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("request_number ILIKE ? OR justification ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "material_id":
			query = query.Where("material_id = ?", value)
		case "project_id":
			query = query.Where("project_id = ?", value)
		case "requested_by_id":
			query = query.Where("requested_by_id = ?", value)
		case "urgency":
			query = query.Where("urgency = ?", value)
		}
	}

	return query
}

// Ensure GormMaterialRequestRepository implements MaterialRequestRepository
var _ request.MaterialRequestRepository = (*GormMaterialRequestRepository)(nil)
