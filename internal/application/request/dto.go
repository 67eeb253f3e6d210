package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitestock/backend/internal/domain/request"
)

// CreateRequestInput is the input for creating a material request
type CreateRequestInput struct {
	MaterialID       uuid.UUID
	ProjectID        uuid.UUID
	Quantity         decimal.Decimal
	Justification    string
	Urgency          request.Urgency
	DeliveryLocation request.DeliveryLocation
	RequiredDate     *time.Time
}

// ApproveRequestInput is the input for approving a request
type ApproveRequestInput struct {
	ApprovedQuantity *decimal.Decimal
	Comments         string
}

// RejectRequestInput is the input for rejecting a request
type RejectRequestInput struct {
	Reason string
}

// IssueRequestInput is the input for issuing stock against a request
type IssueRequestInput struct {
	IssuedQuantity *decimal.Decimal // nil defaults to the approved quantity
	Comments       string
}

// AcknowledgeRequestInput is the input for acknowledging receipt
type AcknowledgeRequestInput struct {
	AcknowledgedQuantity *decimal.Decimal // nil defaults to the issued quantity
	Notes                string
}

// CompleteRequestInput is the input for completing a request
type CompleteRequestInput struct {
	Comments string
}

// CancelRequestInput is the input for cancelling a request
type CancelRequestInput struct {
	Reason string
}

// RequestResponse is the read model of a material request
type RequestResponse struct {
	ID                   uuid.UUID                `json:"id"`
	RequestNumber        string                   `json:"request_number"`
	MaterialID           uuid.UUID                `json:"material_id"`
	ProjectID            uuid.UUID                `json:"project_id"`
	RequestedByID        uuid.UUID                `json:"requested_by_id"`
	RequestedQuantity    decimal.Decimal          `json:"requested_quantity"`
	Justification        string                   `json:"justification"`
	Urgency              request.Urgency          `json:"urgency"`
	DeliveryLocation     request.DeliveryLocation `json:"delivery_location"`
	RequiredDate         *time.Time               `json:"required_date,omitempty"`
	Status               request.RequestStatus    `json:"status"`
	UnitCost             *decimal.Decimal         `json:"unit_cost,omitempty"`
	TotalCost            *decimal.Decimal         `json:"total_cost,omitempty"`
	ApprovedQuantity     *decimal.Decimal         `json:"approved_quantity,omitempty"`
	ApprovedByID         *uuid.UUID               `json:"approved_by_id,omitempty"`
	ApprovalDate         *time.Time               `json:"approval_date,omitempty"`
	ApprovalComments     string                   `json:"approval_comments,omitempty"`
	IssuedQuantity       *decimal.Decimal         `json:"issued_quantity,omitempty"`
	IssuedByID           *uuid.UUID               `json:"issued_by_id,omitempty"`
	IssuanceDate         *time.Time               `json:"issuance_date,omitempty"`
	IssuanceComments     string                   `json:"issuance_comments,omitempty"`
	AcknowledgedQuantity *decimal.Decimal         `json:"acknowledged_quantity,omitempty"`
	AcknowledgedByID     *uuid.UUID               `json:"acknowledged_by_id,omitempty"`
	AcknowledgementDate  *time.Time               `json:"acknowledgement_date,omitempty"`
	AcknowledgementNotes string                   `json:"acknowledgement_notes,omitempty"`
	CompletedByID        *uuid.UUID               `json:"completed_by_id,omitempty"`
	CompletionDate       *time.Time               `json:"completion_date,omitempty"`
	CompletionComments   string                   `json:"completion_comments,omitempty"`
	RejectionReason      string                   `json:"rejection_reason,omitempty"`
	Version              int                      `json:"version"`
	CreatedAt            time.Time                `json:"created_at"`
	UpdatedAt            time.Time                `json:"updated_at"`
}

// ToRequestResponse converts a material request to its read model
func ToRequestResponse(r *request.MaterialRequest) RequestResponse {
	return RequestResponse{
		ID:                   r.ID,
		RequestNumber:        r.RequestNumber,
		MaterialID:           r.MaterialID,
		ProjectID:            r.ProjectID,
		RequestedByID:        r.RequestedByID,
		RequestedQuantity:    r.RequestedQuantity,
		Justification:        r.Justification,
		Urgency:              r.Urgency,
		DeliveryLocation:     r.DeliveryLocation,
		RequiredDate:         r.RequiredDate,
		Status:               r.Status,
		UnitCost:             r.UnitCost,
		TotalCost:            r.TotalCost,
		ApprovedQuantity:     r.ApprovedQuantity,
		ApprovedByID:         r.ApprovedByID,
		ApprovalDate:         r.ApprovalDate,
		ApprovalComments:     r.ApprovalComments,
		IssuedQuantity:       r.IssuedQuantity,
		IssuedByID:           r.IssuedByID,
		IssuanceDate:         r.IssuanceDate,
		IssuanceComments:     r.IssuanceComments,
		AcknowledgedQuantity: r.AcknowledgedQuantity,
		AcknowledgedByID:     r.AcknowledgedByID,
		AcknowledgementDate:  r.AcknowledgementDate,
		AcknowledgementNotes: r.AcknowledgementNotes,
		CompletedByID:        r.CompletedByID,
		CompletionDate:       r.CompletionDate,
		CompletionComments:   r.CompletionComments,
		RejectionReason:      r.RejectionReason,
		Version:              r.Version,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// ToRequestResponses converts a slice of material requests
func ToRequestResponses(reqs []request.MaterialRequest) []RequestResponse {
	out := make([]RequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, ToRequestResponse(&reqs[i]))
	}
	return out
}
