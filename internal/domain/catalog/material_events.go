package catalog

import (
	"github.com/google/uuid"

	"github.com/sitestock/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeMaterial = "Material"

// Event type constants
const (
	EventTypeMaterialCreated     = "MaterialCreated"
	EventTypeMaterialUpdated     = "MaterialUpdated"
	EventTypeMaterialDeactivated = "MaterialDeactivated"
)

// MaterialCreatedEvent is published when a new material is added to the catalog
type MaterialCreatedEvent struct {
	shared.BaseDomainEvent
	MaterialID uuid.UUID `json:"material_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
}

// NewMaterialCreatedEvent creates a new MaterialCreatedEvent
func NewMaterialCreatedEvent(m *Material) *MaterialCreatedEvent {
	return &MaterialCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialCreated, AggregateTypeMaterial, m.ID),
		MaterialID:      m.ID,
		Code:            m.Code,
		Name:            m.Name,
		Unit:            m.Unit,
	}
}

// MaterialUpdatedEvent is published when a catalog entry changes
type MaterialUpdatedEvent struct {
	shared.BaseDomainEvent
	MaterialID uuid.UUID `json:"material_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
}

// NewMaterialUpdatedEvent creates a new MaterialUpdatedEvent
func NewMaterialUpdatedEvent(m *Material) *MaterialUpdatedEvent {
	return &MaterialUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialUpdated, AggregateTypeMaterial, m.ID),
		MaterialID:      m.ID,
		Code:            m.Code,
		Name:            m.Name,
	}
}

// MaterialDeactivatedEvent is published when a material is soft-retired
type MaterialDeactivatedEvent struct {
	shared.BaseDomainEvent
	MaterialID uuid.UUID `json:"material_id"`
	Code       string    `json:"code"`
}

// NewMaterialDeactivatedEvent creates a new MaterialDeactivatedEvent
func NewMaterialDeactivatedEvent(m *Material) *MaterialDeactivatedEvent {
	return &MaterialDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaterialDeactivated, AggregateTypeMaterial, m.ID),
		MaterialID:      m.ID,
		Code:            m.Code,
	}
}
