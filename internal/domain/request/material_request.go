package request

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitestock/backend/internal/domain/inventory"
	"github.com/sitestock/backend/internal/domain/shared"
)

// RequestStatus represents the lifecycle state of a material request
type RequestStatus string

const (
	// RequestStatusPending awaits approval
	RequestStatusPending RequestStatus = "PENDING"
	// RequestStatusApproved awaits store issuance
	RequestStatusApproved RequestStatus = "APPROVED"
	// RequestStatusIssued awaits acknowledgement by the requester
	RequestStatusIssued RequestStatus = "ISSUED"
	// RequestStatusAcknowledged awaits completion sign-off
	RequestStatusAcknowledged RequestStatus = "ACKNOWLEDGED"
	// RequestStatusCompleted is terminal
	RequestStatusCompleted RequestStatus = "COMPLETED"
	// RequestStatusRejected is terminal
	RequestStatusRejected RequestStatus = "REJECTED"
	// RequestStatusCancelled is terminal
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

// IsValid returns true if the status is a known RequestStatus
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusIssued,
		RequestStatusAcknowledged, RequestStatusCompleted,
		RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of RequestStatus
func (s RequestStatus) String() string {
	return string(s)
}

// IsTerminal returns true when no further transition is allowed
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case RequestStatusCompleted, RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo returns true if the target status is reachable in one step
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	switch s {
	case RequestStatusPending:
		return target == RequestStatusApproved || target == RequestStatusRejected || target == RequestStatusCancelled
	case RequestStatusApproved:
		return target == RequestStatusIssued || target == RequestStatusRejected || target == RequestStatusCancelled
	case RequestStatusIssued:
		return target == RequestStatusAcknowledged
	case RequestStatusAcknowledged:
		return target == RequestStatusCompleted
	case RequestStatusCompleted, RequestStatusRejected, RequestStatusCancelled:
		return false
	}
	return false
}

// Urgency classifies how soon the material is needed
type Urgency string

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyNormal   Urgency = "NORMAL"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

// IsValid returns true if the urgency is a known level
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// DeliveryLocation says where issued material should end up
type DeliveryLocation string

const (
	// DeliveryLocationStore hands the material out at the store counter
	DeliveryLocationStore DeliveryLocation = "STORE"
	// DeliveryLocationSite moves the material into the project's site stock
	DeliveryLocationSite DeliveryLocation = "SITE"
)

// IsValid returns true if the delivery location is known
func (d DeliveryLocation) IsValid() bool {
	return d == DeliveryLocationStore || d == DeliveryLocationSite
}

// Request quantity and justification bounds enforced at creation
var (
	maxRequestQuantity  = decimal.NewFromInt(10000)
	maxJustificationLen = 1000
)

// MaterialRequest is the workflow aggregate. Its status only moves along the
// transition graph above; once terminal the record is immutable and it is
// never physically deleted.
type MaterialRequest struct {
	shared.BaseAggregateRoot
	RequestNumber         string           `gorm:"type:varchar(20);not null;uniqueIndex"`
	MaterialID            uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProjectID             uuid.UUID        `gorm:"type:uuid;not null;index"`
	RequestedByID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	RequestedQuantity     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Justification         string           `gorm:"type:varchar(1000);not null"`
	Urgency               Urgency          `gorm:"type:varchar(10);not null"`
	DeliveryLocation      DeliveryLocation `gorm:"type:varchar(10);not null"`
	RequiredDate          *time.Time       `gorm:"type:timestamptz"`
	Status                RequestStatus    `gorm:"type:varchar(15);not null;default:'PENDING';index"`
	UnitCost              *decimal.Decimal `gorm:"type:decimal(18,4)"`
	TotalCost             *decimal.Decimal `gorm:"type:decimal(18,4)"`
	ApprovedQuantity      *decimal.Decimal `gorm:"type:decimal(18,4)"`
	ApprovedByID          *uuid.UUID       `gorm:"type:uuid"`
	ApprovalDate          *time.Time       `gorm:"type:timestamptz"`
	ApprovalComments      string           `gorm:"type:varchar(500)"`
	IssuedQuantity        *decimal.Decimal `gorm:"type:decimal(18,4)"`
	IssuedByID            *uuid.UUID       `gorm:"type:uuid"`
	IssuanceDate          *time.Time       `gorm:"type:timestamptz"`
	IssuanceComments      string           `gorm:"type:varchar(500)"`
	AcknowledgedQuantity  *decimal.Decimal `gorm:"type:decimal(18,4)"`
	AcknowledgedByID      *uuid.UUID       `gorm:"type:uuid"`
	AcknowledgementDate   *time.Time       `gorm:"type:timestamptz"`
	AcknowledgementNotes  string           `gorm:"type:varchar(500)"`
	CompletedByID         *uuid.UUID       `gorm:"type:uuid"`
	CompletionDate        *time.Time       `gorm:"type:timestamptz"`
	CompletionComments    string           `gorm:"type:varchar(500)"`
	RejectionReason       string           `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (MaterialRequest) TableName() string {
	return "material_requests"
}

// NewMaterialRequest creates a PENDING request with a cost snapshot taken from
// the catalog unit cost at creation time. A nil unit cost yields a nil total.
func NewMaterialRequest(
	requestNumber string,
	materialID, projectID, requestedByID uuid.UUID,
	quantity decimal.Decimal,
	justification string,
	urgency Urgency,
	delivery DeliveryLocation,
	requiredDate *time.Time,
	unitCost *decimal.Decimal,
) (*MaterialRequest, error) {
	if requestNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Request number cannot be empty")
	}
	if materialID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Material ID cannot be empty")
	}
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Project ID cannot be empty")
	}
	if requestedByID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Requester ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) || quantity.GreaterThan(maxRequestQuantity) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Requested quantity must be between 0 and 10000 exclusive of zero")
	}
	justification = strings.TrimSpace(justification)
	if justification == "" || utf8.RuneCountInString(justification) > maxJustificationLen {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Justification must be between 1 and 1000 characters")
	}
	if !urgency.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Invalid urgency %q", urgency))
	}
	if !delivery.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Invalid delivery location %q", delivery))
	}

	r := &MaterialRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RequestNumber:     requestNumber,
		MaterialID:        materialID,
		ProjectID:         projectID,
		RequestedByID:     requestedByID,
		RequestedQuantity: quantity,
		Justification:     justification,
		Urgency:           urgency,
		DeliveryLocation:  delivery,
		RequiredDate:      requiredDate,
		Status:            RequestStatusPending,
	}
	if unitCost != nil {
		cost := *unitCost
		total := cost.Mul(quantity)
		r.UnitCost = &cost
		r.TotalCost = &total
	}
	r.AddDomainEvent(NewRequestCreatedEvent(r))
	return r, nil
}

// invalidTransition builds the uniform illegal-transition error naming the
// current status and the attempted action.
func (r *MaterialRequest) invalidTransition(action string) error {
	return shared.NewDomainError("INVALID_STATE",
		fmt.Sprintf("Cannot %s a request in %s status", action, r.Status))
}

// Approve moves PENDING to APPROVED, stores the approved quantity (defaulting
// to the requested one) and recomputes the cost snapshot from it.
func (r *MaterialRequest) Approve(cmd ApproveCommand) error {
	if !r.Status.CanTransitionTo(RequestStatusApproved) {
		return r.invalidTransition("approve")
	}
	qty := r.RequestedQuantity
	if cmd.ApprovedQuantity != nil {
		if cmd.ApprovedQuantity.LessThanOrEqual(decimal.Zero) || cmd.ApprovedQuantity.GreaterThan(r.RequestedQuantity) {
			return shared.NewDomainError("VALIDATION_ERROR", "Approved quantity must be positive and not exceed the requested quantity")
		}
		qty = *cmd.ApprovedQuantity
	}

	now := time.Now()
	r.Status = RequestStatusApproved
	r.ApprovedQuantity = &qty
	r.ApprovedByID = &cmd.ApproverID
	r.ApprovalDate = &now
	r.ApprovalComments = cmd.Comments
	if r.UnitCost != nil {
		total := r.UnitCost.Mul(qty)
		r.TotalCost = &total
	}
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewRequestApprovedEvent(r))
	return nil
}

// Reject moves PENDING or APPROVED to the terminal REJECTED status
func (r *MaterialRequest) Reject(cmd RejectCommand) error {
	if !r.Status.CanTransitionTo(RequestStatusRejected) {
		return r.invalidTransition("reject")
	}
	if strings.TrimSpace(cmd.Reason) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Rejection reason is required")
	}

	now := time.Now()
	r.Status = RequestStatusRejected
	r.ApprovedByID = &cmd.ApproverID
	r.ApprovalDate = &now
	r.RejectionReason = cmd.Reason
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewRequestRejectedEvent(r))
	return nil
}

// MarkIssued moves APPROVED to ISSUED. Stock movement happens in the ledger;
// this method only validates and records the issuance on the aggregate, so it
// must run inside the same transaction as the ledger debit.
func (r *MaterialRequest) MarkIssued(cmd IssueCommand) error {
	if !r.Status.CanTransitionTo(RequestStatusIssued) {
		return r.invalidTransition("issue")
	}
	if cmd.IssuedQuantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Issued quantity must be positive")
	}
	if r.ApprovedQuantity != nil && cmd.IssuedQuantity.GreaterThan(*r.ApprovedQuantity) {
		return shared.NewDomainError("VALIDATION_ERROR", "Issued quantity cannot exceed the approved quantity")
	}

	now := time.Now()
	qty := cmd.IssuedQuantity
	r.Status = RequestStatusIssued
	r.IssuedQuantity = &qty
	r.IssuedByID = &cmd.IssuerID
	r.IssuanceDate = &now
	r.IssuanceComments = cmd.Comments
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewRequestIssuedEvent(r))
	return nil
}

// Acknowledge moves ISSUED to ACKNOWLEDGED, recording receipt by the requester
func (r *MaterialRequest) Acknowledge(cmd AcknowledgeCommand) error {
	if !r.Status.CanTransitionTo(RequestStatusAcknowledged) {
		return r.invalidTransition("acknowledge")
	}
	if cmd.AcknowledgedQuantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Acknowledged quantity must be positive")
	}

	now := time.Now()
	qty := cmd.AcknowledgedQuantity
	r.Status = RequestStatusAcknowledged
	r.AcknowledgedQuantity = &qty
	r.AcknowledgedByID = &cmd.AcknowledgerID
	r.AcknowledgementDate = &now
	r.AcknowledgementNotes = cmd.Notes
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewRequestAcknowledgedEvent(r))
	return nil
}

// Complete moves ACKNOWLEDGED to the terminal COMPLETED status
func (r *MaterialRequest) Complete(cmd CompleteCommand) error {
	if !r.Status.CanTransitionTo(RequestStatusCompleted) {
		return r.invalidTransition("complete")
	}

	now := time.Now()
	r.Status = RequestStatusCompleted
	r.CompletedByID = &cmd.CompleterID
	r.CompletionDate = &now
	r.CompletionComments = cmd.Comments
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewRequestCompletedEvent(r))
	return nil
}

// Cancel moves PENDING or APPROVED to the terminal CANCELLED status
func (r *MaterialRequest) Cancel(cmd CancelCommand) error {
	if !r.Status.CanTransitionTo(RequestStatusCancelled) {
		return r.invalidTransition("cancel")
	}
	if strings.TrimSpace(cmd.Reason) == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Cancellation reason is required")
	}

	now := time.Now()
	r.Status = RequestStatusCancelled
	r.RejectionReason = cmd.Reason
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewRequestCancelledEvent(r))
	return nil
}

// IssueTarget resolves the ledger account issued goods land in, or nil when
// the requester takes the material away at the store counter.
func (r *MaterialRequest) IssueTarget() *inventory.Location {
	if r.DeliveryLocation != DeliveryLocationSite {
		return nil
	}
	loc := inventory.SiteStock(r.ProjectID)
	return &loc
}
