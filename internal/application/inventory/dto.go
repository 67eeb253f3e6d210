package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitestock/backend/internal/domain/inventory"
)

// AdjustmentType says which way a manual adjustment moves the balance
type AdjustmentType string

const (
	// AdjustmentIncrease credits the account
	AdjustmentIncrease AdjustmentType = "INCREASE"
	// AdjustmentDecrease debits the account
	AdjustmentDecrease AdjustmentType = "DECREASE"
)

// IsValid returns true if the adjustment type is known
func (a AdjustmentType) IsValid() bool {
	return a == AdjustmentIncrease || a == AdjustmentDecrease
}

// AdjustInventoryInput is the input for a manual stock adjustment
type AdjustInventoryInput struct {
	MaterialID     uuid.UUID
	Location       inventory.Location
	AdjustmentType AdjustmentType
	Quantity       decimal.Decimal
	Reason         string
}

// TransferMaterialInput is the input for a location-to-location transfer
type TransferMaterialInput struct {
	MaterialID uuid.UUID
	From       inventory.Location
	To         inventory.Location
	Quantity   decimal.Decimal
	Notes      string
}

// LevelResponse is the read model of one ledger row
type LevelResponse struct {
	ID           uuid.UUID          `json:"id"`
	MaterialID   uuid.UUID          `json:"material_id"`
	Location     inventory.Location `json:"location"`
	CurrentStock decimal.Decimal    `json:"current_stock"`
	LastUpdated  time.Time          `json:"last_updated"`
}

// ToLevelResponse converts a ledger row to its read model
func ToLevelResponse(level *inventory.InventoryLevel) LevelResponse {
	return LevelResponse{
		ID:           level.ID,
		MaterialID:   level.MaterialID,
		Location:     level.Location,
		CurrentStock: level.CurrentStock,
		LastUpdated:  level.UpdatedAt,
	}
}

// ToLevelResponses converts a slice of ledger rows
func ToLevelResponses(levels []inventory.InventoryLevel) []LevelResponse {
	out := make([]LevelResponse, 0, len(levels))
	for i := range levels {
		out = append(out, ToLevelResponse(&levels[i]))
	}
	return out
}

// TransactionResponse is the read model of one movement log entry
type TransactionResponse struct {
	ID              uuid.UUID                 `json:"id"`
	MaterialID      uuid.UUID                 `json:"material_id"`
	TransactionType inventory.TransactionType `json:"transaction_type"`
	ReferenceType   inventory.ReferenceType   `json:"reference_type"`
	ReferenceID     *uuid.UUID                `json:"reference_id,omitempty"`
	FromLocation    *inventory.Location       `json:"from_location,omitempty"`
	ToLocation      *inventory.Location       `json:"to_location,omitempty"`
	Quantity        decimal.Decimal           `json:"quantity"`
	UnitCost        *decimal.Decimal          `json:"unit_cost,omitempty"`
	TotalCost       *decimal.Decimal          `json:"total_cost,omitempty"`
	PerformedByID   uuid.UUID                 `json:"performed_by_id"`
	Notes           string                    `json:"notes,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
}

// ToTransactionResponse converts a log entry to its read model
func ToTransactionResponse(tx *inventory.MaterialTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		MaterialID:      tx.MaterialID,
		TransactionType: tx.TransactionType,
		ReferenceType:   tx.ReferenceType,
		ReferenceID:     tx.ReferenceID,
		FromLocation:    tx.FromLocation,
		ToLocation:      tx.ToLocation,
		Quantity:        tx.Quantity,
		UnitCost:        tx.UnitCost,
		TotalCost:       tx.TotalCost,
		PerformedByID:   tx.PerformedByID,
		Notes:           tx.Notes,
		CreatedAt:       tx.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of log entries
func ToTransactionResponses(txs []inventory.MaterialTransaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, ToTransactionResponse(&txs[i]))
	}
	return out
}
