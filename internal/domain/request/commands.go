package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transition commands carry exactly the fields their transition accepts, so
// the legal input set of each step is visible in the type system instead of
// hiding inside a loose patch map.

// ApproveCommand approves a PENDING request
type ApproveCommand struct {
	ApproverID       uuid.UUID
	ApprovedQuantity *decimal.Decimal // nil defaults to the requested quantity
	Comments         string
}

// RejectCommand rejects a PENDING or APPROVED request
type RejectCommand struct {
	ApproverID uuid.UUID
	Reason     string
}

// IssueCommand issues stock against an APPROVED request
type IssueCommand struct {
	IssuerID       uuid.UUID
	IssuedQuantity decimal.Decimal
	Comments       string
}

// AcknowledgeCommand confirms receipt of an ISSUED request
type AcknowledgeCommand struct {
	AcknowledgerID       uuid.UUID
	AcknowledgedQuantity decimal.Decimal
	Notes                string
}

// CompleteCommand closes out an ACKNOWLEDGED request
type CompleteCommand struct {
	CompleterID uuid.UUID
	Comments    string
}

// CancelCommand cancels a PENDING or APPROVED request
type CancelCommand struct {
	CancelledByID uuid.UUID
	Reason        string
}
