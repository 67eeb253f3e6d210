package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitestock/backend/internal/domain/shared"
)

// Material represents a catalog entry for a construction material.
// It is reference data: material requests snapshot its unit cost at creation
// time, so later cost changes never rewrite historical requests.
type Material struct {
	shared.BaseAggregateRoot
	Code              string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name              string           `gorm:"type:varchar(200);not null"`
	Category          string           `gorm:"type:varchar(100)"`
	Unit              string           `gorm:"type:varchar(30);not null"`
	UnitCost          *decimal.Decimal `gorm:"type:decimal(18,4)"`
	MinimumStockLevel decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	MaximumStockLevel decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderPoint      decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	SupplierID        *uuid.UUID       `gorm:"type:uuid;index"`
	IsActive          bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Material) TableName() string {
	return "materials"
}

// NewMaterial creates a new material catalog entry
func NewMaterial(code, name, category, unit string) (*Material, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Material code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Material name cannot be empty")
	}
	if strings.TrimSpace(unit) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Material unit cannot be empty")
	}

	m := &Material{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Category:          category,
		Unit:              unit,
		MinimumStockLevel: decimal.Zero,
		MaximumStockLevel: decimal.Zero,
		ReorderPoint:      decimal.Zero,
		IsActive:          true,
	}
	m.AddDomainEvent(NewMaterialCreatedEvent(m))
	return m, nil
}

// MaterialPatch carries a partial update. Nil fields are left unchanged.
type MaterialPatch struct {
	Name              *string
	Category          *string
	Unit              *string
	UnitCost          *decimal.Decimal
	ClearUnitCost     bool
	MinimumStockLevel *decimal.Decimal
	MaximumStockLevel *decimal.Decimal
	ReorderPoint      *decimal.Decimal
	SupplierID        *uuid.UUID
	ClearSupplier     bool
}

// Apply applies the patch to the material
func (m *Material) Apply(patch MaterialPatch) error {
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return shared.NewDomainError("VALIDATION_ERROR", "Material name cannot be empty")
		}
		m.Name = *patch.Name
	}
	if patch.Category != nil {
		m.Category = *patch.Category
	}
	if patch.Unit != nil {
		if strings.TrimSpace(*patch.Unit) == "" {
			return shared.NewDomainError("VALIDATION_ERROR", "Material unit cannot be empty")
		}
		m.Unit = *patch.Unit
	}
	if patch.ClearUnitCost {
		m.UnitCost = nil
	} else if patch.UnitCost != nil {
		if patch.UnitCost.IsNegative() {
			return shared.NewDomainError("VALIDATION_ERROR", "Unit cost cannot be negative")
		}
		cost := *patch.UnitCost
		m.UnitCost = &cost
	}
	if patch.MinimumStockLevel != nil {
		if patch.MinimumStockLevel.IsNegative() {
			return shared.NewDomainError("VALIDATION_ERROR", "Minimum stock level cannot be negative")
		}
		m.MinimumStockLevel = *patch.MinimumStockLevel
	}
	if patch.MaximumStockLevel != nil {
		if patch.MaximumStockLevel.IsNegative() {
			return shared.NewDomainError("VALIDATION_ERROR", "Maximum stock level cannot be negative")
		}
		m.MaximumStockLevel = *patch.MaximumStockLevel
	}
	if patch.ReorderPoint != nil {
		if patch.ReorderPoint.IsNegative() {
			return shared.NewDomainError("VALIDATION_ERROR", "Reorder point cannot be negative")
		}
		m.ReorderPoint = *patch.ReorderPoint
	}
	if patch.ClearSupplier {
		m.SupplierID = nil
	} else if patch.SupplierID != nil {
		id := *patch.SupplierID
		m.SupplierID = &id
	}

	m.Touch()
	m.IncrementVersion()
	m.AddDomainEvent(NewMaterialUpdatedEvent(m))
	return nil
}

// SetUnitCost sets the catalog unit cost
func (m *Material) SetUnitCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Unit cost cannot be negative")
	}
	m.UnitCost = &cost
	m.Touch()
	m.IncrementVersion()
	return nil
}

// Deactivate soft-retires the material. Deactivated materials stay visible on
// historical requests and ledger rows but cannot be requested anymore.
func (m *Material) Deactivate() error {
	if !m.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Material is already inactive")
	}
	m.IsActive = false
	m.Touch()
	m.IncrementVersion()
	m.AddDomainEvent(NewMaterialDeactivatedEvent(m))
	return nil
}

// Activate re-enables a deactivated material
func (m *Material) Activate() error {
	if m.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Material is already active")
	}
	m.IsActive = true
	m.Touch()
	m.IncrementVersion()
	return nil
}

// CostFor returns the total cost snapshot for the given quantity, or nil when
// the material has no catalog cost.
func (m *Material) CostFor(quantity decimal.Decimal) *decimal.Decimal {
	if m.UnitCost == nil {
		return nil
	}
	total := m.UnitCost.Mul(quantity)
	return &total
}
