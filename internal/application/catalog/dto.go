package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitestock/backend/internal/domain/catalog"
	"github.com/sitestock/backend/internal/domain/partner"
)

// CreateMaterialInput is the input for creating a catalog entry
type CreateMaterialInput struct {
	Code              string
	Name              string
	Category          string
	Unit              string
	UnitCost          *decimal.Decimal
	MinimumStockLevel *decimal.Decimal
	MaximumStockLevel *decimal.Decimal
	ReorderPoint      *decimal.Decimal
	SupplierID        *uuid.UUID
}

// UpdateMaterialInput is a partial update; nil fields are left unchanged
type UpdateMaterialInput struct {
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

// MaterialResponse is the read model of a catalog entry
type MaterialResponse struct {
	ID                uuid.UUID        `json:"id"`
	Code              string           `json:"code"`
	Name              string           `json:"name"`
	Category          string           `json:"category,omitempty"`
	Unit              string           `json:"unit"`
	UnitCost          *decimal.Decimal `json:"unit_cost,omitempty"`
	MinimumStockLevel decimal.Decimal  `json:"minimum_stock_level"`
	MaximumStockLevel decimal.Decimal  `json:"maximum_stock_level"`
	ReorderPoint      decimal.Decimal  `json:"reorder_point"`
	SupplierID        *uuid.UUID       `json:"supplier_id,omitempty"`
	IsActive          bool             `json:"is_active"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ToMaterialResponse converts a material to its read model
func ToMaterialResponse(m *catalog.Material) MaterialResponse {
	return MaterialResponse{
		ID:                m.ID,
		Code:              m.Code,
		Name:              m.Name,
		Category:          m.Category,
		Unit:              m.Unit,
		UnitCost:          m.UnitCost,
		MinimumStockLevel: m.MinimumStockLevel,
		MaximumStockLevel: m.MaximumStockLevel,
		ReorderPoint:      m.ReorderPoint,
		SupplierID:        m.SupplierID,
		IsActive:          m.IsActive,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// ToMaterialResponses converts a slice of materials
func ToMaterialResponses(materials []catalog.Material) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(materials))
	for i := range materials {
		out = append(out, ToMaterialResponse(&materials[i]))
	}
	return out
}

// CreateSupplierInput is the input for creating a supplier
type CreateSupplierInput struct {
	Name        string
	ContactName string
	Phone       string
	Email       string
	Address     string
}

// UpdateSupplierInput is a partial update; nil fields are left unchanged
type UpdateSupplierInput struct {
	Name        *string
	ContactName *string
	Phone       *string
	Email       *string
	Address     *string
	IsActive    *bool
}

// SupplierResponse is the read model of a supplier
type SupplierResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToSupplierResponse converts a supplier to its read model
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Email:       s.Email,
		Address:     s.Address,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToSupplierResponses converts a slice of suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, ToSupplierResponse(&suppliers[i]))
	}
	return out
}
