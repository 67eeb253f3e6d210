package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitestock/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeMaterialRequest = "MaterialRequest"

// Event type constants
const (
	EventTypeRequestCreated      = "MaterialRequestCreated"
	EventTypeRequestApproved     = "MaterialRequestApproved"
	EventTypeRequestRejected     = "MaterialRequestRejected"
	EventTypeRequestIssued       = "MaterialRequestIssued"
	EventTypeRequestAcknowledged = "MaterialRequestAcknowledged"
	EventTypeRequestCompleted    = "MaterialRequestCompleted"
	EventTypeRequestCancelled    = "MaterialRequestCancelled"
)

// RequestCreatedEvent is published when a request enters the workflow
type RequestCreatedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID       `json:"request_id"`
	RequestNumber string          `json:"request_number"`
	MaterialID    uuid.UUID       `json:"material_id"`
	ProjectID     uuid.UUID       `json:"project_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	Urgency       Urgency         `json:"urgency"`
}

// NewRequestCreatedEvent creates a new RequestCreatedEvent
func NewRequestCreatedEvent(r *MaterialRequest) *RequestCreatedEvent {
	return &RequestCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestCreated, AggregateTypeMaterialRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		MaterialID:      r.MaterialID,
		ProjectID:       r.ProjectID,
		Quantity:        r.RequestedQuantity,
		Urgency:         r.Urgency,
	}
}

// statusEvent is the shared shape of all transition events
type statusEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID     `json:"request_id"`
	RequestNumber string        `json:"request_number"`
	Status        RequestStatus `json:"status"`
}

func newStatusEvent(eventType string, r *MaterialRequest) statusEvent {
	return statusEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeMaterialRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		Status:          r.Status,
	}
}

// RequestApprovedEvent is published on approval
type RequestApprovedEvent struct {
	statusEvent
	ApprovedQuantity decimal.Decimal `json:"approved_quantity"`
}

// NewRequestApprovedEvent creates a new RequestApprovedEvent
func NewRequestApprovedEvent(r *MaterialRequest) *RequestApprovedEvent {
	e := &RequestApprovedEvent{statusEvent: newStatusEvent(EventTypeRequestApproved, r)}
	if r.ApprovedQuantity != nil {
		e.ApprovedQuantity = *r.ApprovedQuantity
	}
	return e
}

// RequestRejectedEvent is published on rejection
type RequestRejectedEvent struct {
	statusEvent
	Reason string `json:"reason"`
}

// NewRequestRejectedEvent creates a new RequestRejectedEvent
func NewRequestRejectedEvent(r *MaterialRequest) *RequestRejectedEvent {
	return &RequestRejectedEvent{statusEvent: newStatusEvent(EventTypeRequestRejected, r), Reason: r.RejectionReason}
}

// RequestIssuedEvent is published when stock is issued against the request
type RequestIssuedEvent struct {
	statusEvent
	IssuedQuantity decimal.Decimal `json:"issued_quantity"`
}

// NewRequestIssuedEvent creates a new RequestIssuedEvent
func NewRequestIssuedEvent(r *MaterialRequest) *RequestIssuedEvent {
	e := &RequestIssuedEvent{statusEvent: newStatusEvent(EventTypeRequestIssued, r)}
	if r.IssuedQuantity != nil {
		e.IssuedQuantity = *r.IssuedQuantity
	}
	return e
}

// RequestAcknowledgedEvent is published when receipt is confirmed
type RequestAcknowledgedEvent struct {
	statusEvent
}

// NewRequestAcknowledgedEvent creates a new RequestAcknowledgedEvent
func NewRequestAcknowledgedEvent(r *MaterialRequest) *RequestAcknowledgedEvent {
	return &RequestAcknowledgedEvent{statusEvent: newStatusEvent(EventTypeRequestAcknowledged, r)}
}

// RequestCompletedEvent is published when the workflow closes out
type RequestCompletedEvent struct {
	statusEvent
}

// NewRequestCompletedEvent creates a new RequestCompletedEvent
func NewRequestCompletedEvent(r *MaterialRequest) *RequestCompletedEvent {
	return &RequestCompletedEvent{statusEvent: newStatusEvent(EventTypeRequestCompleted, r)}
}

// RequestCancelledEvent is published on cancellation
type RequestCancelledEvent struct {
	statusEvent
	Reason string `json:"reason"`
}

// NewRequestCancelledEvent creates a new RequestCancelledEvent
func NewRequestCancelledEvent(r *MaterialRequest) *RequestCancelledEvent {
	return &RequestCancelledEvent{statusEvent: newStatusEvent(EventTypeRequestCancelled, r), Reason: r.RejectionReason}
}
