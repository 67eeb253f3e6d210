package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitestock/backend/internal/domain/shared"
)

// TransactionType represents the kind of stock movement
type TransactionType string

const (
	// TransactionTypeIssue is a store issuance against a material request
	TransactionTypeIssue TransactionType = "ISSUE"
	// TransactionTypeTransfer moves stock between two locations
	TransactionTypeTransfer TransactionType = "TRANSFER"
	// TransactionTypeAdjustment corrects a balance up or down
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// IsValid returns true if the transaction type is known
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIssue, TransactionTypeTransfer, TransactionTypeAdjustment:
		return true
	}
	return false
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// ReferenceType names the document a transaction originated from
type ReferenceType string

const (
	// ReferenceTypeMaterialRequest links back to a material request
	ReferenceTypeMaterialRequest ReferenceType = "MATERIAL_REQUEST"
	// ReferenceTypeManual marks a manually initiated movement
	ReferenceTypeManual ReferenceType = "MANUAL"
)

// MaterialTransaction is one immutable entry in the stock movement log.
// Entries are only ever inserted; corrections are made with new entries.
// Replaying SignedQuantityFor over the full log for any account must
// reproduce the live InventoryLevel balance.
type MaterialTransaction struct {
	shared.BaseEntity
	MaterialID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_material_tx_material"`
	TransactionType TransactionType `gorm:"type:varchar(20);not null;index:idx_material_tx_type"`
	ReferenceType   ReferenceType   `gorm:"type:varchar(30);not null"`
	ReferenceID     *uuid.UUID      `gorm:"type:uuid;index"`
	FromLocation    *Location       `gorm:"embedded;embeddedPrefix:from_"`
	ToLocation      *Location       `gorm:"embedded;embeddedPrefix:to_"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"` // signed for adjustments, positive otherwise
	UnitCost        *decimal.Decimal `gorm:"type:decimal(18,4)"`
	TotalCost       *decimal.Decimal `gorm:"type:decimal(18,4)"`
	PerformedByID   uuid.UUID       `gorm:"type:uuid;not null"`
	Notes           string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (MaterialTransaction) TableName() string {
	return "material_transactions"
}

func newMaterialTransaction(
	materialID uuid.UUID,
	txType TransactionType,
	quantity decimal.Decimal,
	performedByID uuid.UUID,
) (*MaterialTransaction, error) {
	if materialID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Material ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid transaction type")
	}
	if performedByID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Performer ID cannot be empty")
	}

	return &MaterialTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		MaterialID:      materialID,
		TransactionType: txType,
		ReferenceType:   ReferenceTypeManual,
		Quantity:        quantity,
		PerformedByID:   performedByID,
	}, nil
}

// NewIssueTransaction records a store issuance. The from location is always an
// inventory account; the to location is set only when the goods land in a
// tracked site account (delivery to the requester at the store counter leaves
// the ledger entirely).
func NewIssueTransaction(
	materialID uuid.UUID,
	from Location,
	to *Location,
	quantity decimal.Decimal,
	performedByID uuid.UUID,
) (*MaterialTransaction, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Issue quantity must be positive")
	}
	tx, err := newMaterialTransaction(materialID, TransactionTypeIssue, quantity, performedByID)
	if err != nil {
		return nil, err
	}
	tx.FromLocation = &from
	tx.ToLocation = to
	return tx, nil
}

// NewTransferTransaction records a movement between two tracked accounts
func NewTransferTransaction(
	materialID uuid.UUID,
	from, to Location,
	quantity decimal.Decimal,
	performedByID uuid.UUID,
) (*MaterialTransaction, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Transfer quantity must be positive")
	}
	if from.Equals(to) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Transfer source and destination must differ")
	}
	tx, err := newMaterialTransaction(materialID, TransactionTypeTransfer, quantity, performedByID)
	if err != nil {
		return nil, err
	}
	tx.FromLocation = &from
	tx.ToLocation = &to
	return tx, nil
}

// NewAdjustmentTransaction records a signed correction to one account.
// A positive quantity is an increase, a negative one a decrease.
func NewAdjustmentTransaction(
	materialID uuid.UUID,
	location Location,
	signedQuantity decimal.Decimal,
	performedByID uuid.UUID,
) (*MaterialTransaction, error) {
	if signedQuantity.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Adjustment quantity cannot be zero")
	}
	tx, err := newMaterialTransaction(materialID, TransactionTypeAdjustment, signedQuantity, performedByID)
	if err != nil {
		return nil, err
	}
	tx.ToLocation = &location
	return tx, nil
}

// WithReference links the transaction back to its originating document
func (t *MaterialTransaction) WithReference(refType ReferenceType, refID uuid.UUID) *MaterialTransaction {
	t.ReferenceType = refType
	t.ReferenceID = &refID
	return t
}

// WithCost attaches the cost snapshot at movement time
func (t *MaterialTransaction) WithCost(unitCost decimal.Decimal) *MaterialTransaction {
	cost := unitCost
	total := unitCost.Mul(t.Quantity.Abs())
	t.UnitCost = &cost
	t.TotalCost = &total
	return t
}

// WithNotes attaches free-form notes
func (t *MaterialTransaction) WithNotes(notes string) *MaterialTransaction {
	t.Notes = notes
	return t
}

// WithCreatedAt overrides the entry timestamp; used by tests replaying history
func (t *MaterialTransaction) WithCreatedAt(at time.Time) *MaterialTransaction {
	t.CreatedAt = at
	return t
}

// SignedQuantityFor returns this entry's contribution to the balance of the
// given account. Summing it over every log entry for a (material, location)
// pair reproduces the live ledger balance.
func (t *MaterialTransaction) SignedQuantityFor(location Location) decimal.Decimal {
	switch t.TransactionType {
	case TransactionTypeAdjustment:
		if t.ToLocation != nil && t.ToLocation.Equals(location) {
			return t.Quantity
		}
	default:
		result := decimal.Zero
		if t.FromLocation != nil && t.FromLocation.Equals(location) {
			result = result.Sub(t.Quantity)
		}
		if t.ToLocation != nil && t.ToLocation.Equals(location) {
			result = result.Add(t.Quantity)
		}
		return result
	}
	return decimal.Zero
}
