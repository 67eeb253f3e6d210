package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitestock/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInventoryLevel = "InventoryLevel"

// Event type constants
const (
	EventTypeStockCredited       = "StockCredited"
	EventTypeStockDebited        = "StockDebited"
	EventTypeStockBelowReorder   = "StockBelowReorder"
	EventTypeStockOutsideBounds  = "StockOutsideBounds"
)

// StockCreditedEvent is published when a ledger account is credited
type StockCreditedEvent struct {
	shared.BaseDomainEvent
	MaterialID uuid.UUID       `json:"material_id"`
	Location   Location        `json:"location"`
	Quantity   decimal.Decimal `json:"quantity"`
	Balance    decimal.Decimal `json:"balance"`
}

// NewStockCreditedEvent creates a new StockCreditedEvent
func NewStockCreditedEvent(level *InventoryLevel, quantity decimal.Decimal) *StockCreditedEvent {
	return &StockCreditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCredited, AggregateTypeInventoryLevel, level.ID),
		MaterialID:      level.MaterialID,
		Location:        level.Location,
		Quantity:        quantity,
		Balance:         level.CurrentStock,
	}
}

// StockDebitedEvent is published when a ledger account is debited
type StockDebitedEvent struct {
	shared.BaseDomainEvent
	MaterialID uuid.UUID       `json:"material_id"`
	Location   Location        `json:"location"`
	Quantity   decimal.Decimal `json:"quantity"`
	Balance    decimal.Decimal `json:"balance"`
}

// NewStockDebitedEvent creates a new StockDebitedEvent
func NewStockDebitedEvent(level *InventoryLevel, quantity decimal.Decimal) *StockDebitedEvent {
	return &StockDebitedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDebited, AggregateTypeInventoryLevel, level.ID),
		MaterialID:      level.MaterialID,
		Location:        level.Location,
		Quantity:        quantity,
		Balance:         level.CurrentStock,
	}
}

// StockOutsideBoundsEvent is published when an adjustment or transfer leaves a
// balance outside the material's configured min/max levels. Bounds are
// advisory: the movement still commits, the event only feeds reporting.
type StockOutsideBoundsEvent struct {
	shared.BaseDomainEvent
	MaterialID uuid.UUID       `json:"material_id"`
	Location   Location        `json:"location"`
	Balance    decimal.Decimal `json:"balance"`
	Minimum    decimal.Decimal `json:"minimum"`
	Maximum    decimal.Decimal `json:"maximum"`
}

// NewStockOutsideBoundsEvent creates a new StockOutsideBoundsEvent
func NewStockOutsideBoundsEvent(level *InventoryLevel, minimum, maximum decimal.Decimal) *StockOutsideBoundsEvent {
	return &StockOutsideBoundsEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockOutsideBounds, AggregateTypeInventoryLevel, level.ID),
		MaterialID:      level.MaterialID,
		Location:        level.Location,
		Balance:         level.CurrentStock,
		Minimum:         minimum,
		Maximum:         maximum,
	}
}
