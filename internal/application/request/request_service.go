package request

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appinventory "github.com/sitestock/backend/internal/application/inventory"
	"github.com/sitestock/backend/internal/domain/catalog"
	"github.com/sitestock/backend/internal/domain/inventory"
	"github.com/sitestock/backend/internal/domain/request"
	"github.com/sitestock/backend/internal/domain/shared"
)

// createRetries bounds retries when two concurrent creates race for the same
// request number. The unique index surfaces the collision; we reallocate.
const createRetries = 3

// RequestService orchestrates the material request lifecycle. Read paths hit
// the plain repositories; every write runs inside a TransactionScope so the
// request row, the ledger rows and the movement log commit as one unit.
type RequestService struct {
	scope          appinventory.TransactionScope
	requestRepo    request.MaterialRequestRepository
	materialRepo   catalog.MaterialRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	scope appinventory.TransactionScope,
	requestRepo request.MaterialRequestRepository,
	materialRepo catalog.MaterialRepository,
) *RequestService {
	return &RequestService{
		scope:        scope,
		requestRepo:  requestRepo,
		materialRepo: materialRepo,
		logger:       zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *RequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger sets the logger
func (s *RequestService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// CreateRequest creates a PENDING request with a cost snapshot taken from the
// catalog at creation time. Later catalog cost changes never touch it.
func (s *RequestService) CreateRequest(ctx context.Context, actor shared.Actor, input CreateRequestInput) (*RequestResponse, error) {
	if actor.IsZero() {
		return nil, shared.ErrUnauthorized
	}

	material, err := s.materialRepo.FindByID(ctx, input.MaterialID)
	if err != nil {
		return nil, shared.ErrMaterialNotFound
	}
	if !material.IsActive {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Material is inactive and cannot be requested")
	}

	var created *request.MaterialRequest
	for attempt := 0; attempt < createRetries; attempt++ {
		err = s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			number, err := repos.Requests().NextRequestNumber(ctx)
			if err != nil {
				return err
			}

			req, err := request.NewMaterialRequest(
				number,
				input.MaterialID,
				input.ProjectID,
				actor.ID,
				input.Quantity,
				input.Justification,
				input.Urgency,
				input.DeliveryLocation,
				input.RequiredDate,
				material.UnitCost,
			)
			if err != nil {
				return err
			}

			if err := repos.Requests().Create(ctx, req); err != nil {
				return err
			}
			created = req
			return nil
		})
		if !errors.Is(err, shared.ErrDuplicateCode) {
			break
		}
		s.logger.Debug("request number collision, retrying", zap.Int("attempt", attempt+1))
	}
	if err != nil {
		return nil, err
	}

	s.publishAndClear(ctx, created)
	resp := ToRequestResponse(created)
	return &resp, nil
}

// GetRequest returns one request by id
func (s *RequestService) GetRequest(ctx context.Context, id uuid.UUID) (*RequestResponse, error) {
	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrRequestNotFound
	}
	resp := ToRequestResponse(req)
	return &resp, nil
}

// GetRequestByNumber returns one request by its MR number
func (s *RequestService) GetRequestByNumber(ctx context.Context, number string) (*RequestResponse, error) {
	req, err := s.requestRepo.FindByRequestNumber(ctx, number)
	if err != nil {
		return nil, shared.ErrRequestNotFound
	}
	resp := ToRequestResponse(req)
	return &resp, nil
}

// ListRequests returns a page of requests matching the filter
func (s *RequestService) ListRequests(ctx context.Context, filter shared.Filter) (*shared.Paginated[RequestResponse], error) {
	reqs, err := s.requestRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.requestRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToRequestResponses(reqs), total, filter.Page, filter.PageSize)
	return &page, nil
}

// ApproveRequest moves a PENDING request to APPROVED
func (s *RequestService) ApproveRequest(ctx context.Context, actor shared.Actor, id uuid.UUID, input ApproveRequestInput) (*RequestResponse, error) {
	if !actor.CanApproveRequests() {
		return nil, shared.ErrUnauthorized
	}
	return s.transition(ctx, id, func(req *request.MaterialRequest) error {
		return req.Approve(request.ApproveCommand{
			ApproverID:       actor.ID,
			ApprovedQuantity: input.ApprovedQuantity,
			Comments:         input.Comments,
		})
	})
}

// RejectRequest moves a PENDING or APPROVED request to REJECTED
func (s *RequestService) RejectRequest(ctx context.Context, actor shared.Actor, id uuid.UUID, input RejectRequestInput) (*RequestResponse, error) {
	if !actor.CanApproveRequests() {
		return nil, shared.ErrUnauthorized
	}
	return s.transition(ctx, id, func(req *request.MaterialRequest) error {
		return req.Reject(request.RejectCommand{
			ApproverID: actor.ID,
			Reason:     input.Reason,
		})
	})
}

// IssueRequest issues stock from the main store against an APPROVED request.
// The store debit, the optional site credit, the ISSUE log entry and the
// status transition commit atomically; if the store cannot cover the
// quantity the request stays APPROVED and nothing moves.
func (s *RequestService) IssueRequest(ctx context.Context, actor shared.Actor, id uuid.UUID, input IssueRequestInput) (*RequestResponse, error) {
	if !actor.CanIssueStock() {
		return nil, shared.ErrUnauthorized
	}

	var issued *request.MaterialRequest
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		req, err := repos.Requests().FindByID(ctx, id)
		if err != nil {
			return shared.ErrRequestNotFound
		}

		quantity := input.IssuedQuantity
		if quantity == nil {
			quantity = req.ApprovedQuantity
		}
		if quantity == nil {
			return req.MarkIssued(request.IssueCommand{IssuerID: actor.ID}) // yields the transition error
		}

		// Validate the transition before touching stock so an illegal
		// state never acquires a row lock.
		if err := req.MarkIssued(request.IssueCommand{
			IssuerID:       actor.ID,
			IssuedQuantity: *quantity,
			Comments:       input.Comments,
		}); err != nil {
			return err
		}

		store := inventory.MainStore()
		level, err := repos.Levels().FindByAccountForUpdate(ctx, req.MaterialID, store)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrInsufficientStock
			}
			return err
		}
		if err := level.Debit(*quantity); err != nil {
			return err
		}
		if err := repos.Levels().Save(ctx, level); err != nil {
			return err
		}

		target := req.IssueTarget()
		if target != nil {
			site, err := repos.Levels().GetOrCreate(ctx, req.MaterialID, *target)
			if err != nil {
				return err
			}
			if err := site.Credit(*quantity); err != nil {
				return err
			}
			if err := repos.Levels().Save(ctx, site); err != nil {
				return err
			}
		}

		entry, err := inventory.NewIssueTransaction(req.MaterialID, store, target, *quantity, actor.ID)
		if err != nil {
			return err
		}
		entry.WithReference(inventory.ReferenceTypeMaterialRequest, req.ID)
		if req.UnitCost != nil {
			entry.WithCost(*req.UnitCost)
		}
		if input.Comments != "" {
			entry.WithNotes(input.Comments)
		}
		if err := repos.Transactions().Append(ctx, entry); err != nil {
			return err
		}

		if err := repos.Requests().Save(ctx, req); err != nil {
			return err
		}
		issued = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishAndClear(ctx, issued)
	resp := ToRequestResponse(issued)
	return &resp, nil
}

// AcknowledgeRequest confirms receipt of an ISSUED request. Only the original
// requester, or an admin acting for them, may acknowledge.
func (s *RequestService) AcknowledgeRequest(ctx context.Context, actor shared.Actor, id uuid.UUID, input AcknowledgeRequestInput) (*RequestResponse, error) {
	return s.transition(ctx, id, func(req *request.MaterialRequest) error {
		if actor.ID != req.RequestedByID && actor.Role != shared.RoleAdmin {
			return shared.ErrUnauthorized
		}
		quantity := input.AcknowledgedQuantity
		if quantity == nil {
			quantity = req.IssuedQuantity
		}
		cmd := request.AcknowledgeCommand{
			AcknowledgerID: actor.ID,
			Notes:          input.Notes,
		}
		if quantity != nil {
			cmd.AcknowledgedQuantity = *quantity
		}
		return req.Acknowledge(cmd)
	})
}

// CompleteRequest closes out an ACKNOWLEDGED request
func (s *RequestService) CompleteRequest(ctx context.Context, actor shared.Actor, id uuid.UUID, input CompleteRequestInput) (*RequestResponse, error) {
	if !actor.CanCompleteRequests() {
		return nil, shared.ErrUnauthorized
	}
	return s.transition(ctx, id, func(req *request.MaterialRequest) error {
		return req.Complete(request.CompleteCommand{
			CompleterID: actor.ID,
			Comments:    input.Comments,
		})
	})
}

// CancelRequest cancels a PENDING or APPROVED request. The requester may
// cancel their own request; approvers may cancel any.
func (s *RequestService) CancelRequest(ctx context.Context, actor shared.Actor, id uuid.UUID, input CancelRequestInput) (*RequestResponse, error) {
	return s.transition(ctx, id, func(req *request.MaterialRequest) error {
		if actor.ID != req.RequestedByID && !actor.CanApproveRequests() {
			return shared.ErrUnauthorized
		}
		return req.Cancel(request.CancelCommand{
			CancelledByID: actor.ID,
			Reason:        input.Reason,
		})
	})
}

// transition loads the request, applies the mutation and saves it inside one
// transaction with the optimistic version check.
func (s *RequestService) transition(ctx context.Context, id uuid.UUID, mutate func(*request.MaterialRequest) error) (*RequestResponse, error) {
	var updated *request.MaterialRequest
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		req, err := repos.Requests().FindByID(ctx, id)
		if err != nil {
			return shared.ErrRequestNotFound
		}
		if err := mutate(req); err != nil {
			return err
		}
		if err := repos.Requests().Save(ctx, req); err != nil {
			return err
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishAndClear(ctx, updated)
	resp := ToRequestResponse(updated)
	return &resp, nil
}

func (s *RequestService) publishAndClear(ctx context.Context, req *request.MaterialRequest) {
	if req == nil {
		return
	}
	events := req.GetDomainEvents()
	req.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish request events",
			zap.String("request_number", req.RequestNumber),
			zap.Error(err),
		)
	}
}
