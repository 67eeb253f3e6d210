package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitestock/backend/internal/domain/shared"
)

// InventoryLevel is one ledger row: the live stock balance of a material at a
// location. The composite identifier is MaterialID plus the embedded Location;
// that tuple carries a unique index so each account exists exactly once.
// Rows are created lazily on first credit and mutated only through Credit/Debit.
type InventoryLevel struct {
	shared.BaseAggregateRoot
	// Uniqueness of (material_id, location_*) is enforced by the
	// idx_inventory_account migration index.
	MaterialID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Location     Location        `gorm:"embedded;embeddedPrefix:location_"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryLevel) TableName() string {
	return "inventory_levels"
}

// NewInventoryLevel creates an empty ledger row for a material-location account
func NewInventoryLevel(materialID uuid.UUID, location Location) (*InventoryLevel, error) {
	if materialID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Material ID cannot be empty")
	}
	if !location.Type.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid location type")
	}

	return &InventoryLevel{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MaterialID:        materialID,
		Location:          location,
		CurrentStock:      decimal.Zero,
	}, nil
}

// Credit increases the balance. There is no upper bound on a ledger account.
func (l *InventoryLevel) Credit(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Credit quantity must be positive")
	}

	l.CurrentStock = l.CurrentStock.Add(quantity)
	l.Touch()
	l.IncrementVersion()
	return nil
}

// Debit decreases the balance. A debit that would drive the balance negative
// is rejected and leaves the row unchanged.
func (l *InventoryLevel) Debit(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Debit quantity must be positive")
	}
	if l.CurrentStock.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	l.CurrentStock = l.CurrentStock.Sub(quantity)
	l.Touch()
	l.IncrementVersion()
	return nil
}

// CanFulfill returns true if the balance covers the requested quantity
func (l *InventoryLevel) CanFulfill(quantity decimal.Decimal) bool {
	return l.CurrentStock.GreaterThanOrEqual(quantity)
}

// IsEmpty returns true if the balance is zero
func (l *InventoryLevel) IsEmpty() bool {
	return l.CurrentStock.IsZero()
}
