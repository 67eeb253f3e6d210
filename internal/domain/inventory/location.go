package inventory

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sitestock/backend/internal/domain/shared"
)

// LocationType distinguishes the central store from project sites
type LocationType string

const (
	// LocationTypeStore is the central material store
	LocationTypeStore LocationType = "STORE"
	// LocationTypeSite is a project construction site
	LocationTypeSite LocationType = "SITE"
)

// IsValid returns true if the location type is known
func (t LocationType) IsValid() bool {
	return t == LocationTypeStore || t == LocationTypeSite
}

// String returns the string representation of LocationType
func (t LocationType) String() string {
	return string(t)
}

// Default location references used when callers do not name one explicitly.
const (
	MainStoreReference = "Main Store"
	SiteStockReference = "Site Stock"
)

// Location addresses one inventory balance: every (material, location) pair is
// one ledger account. Optional parts are normalized so that equal accounts
// always compare equal: a missing reference is the empty string and a missing
// project is uuid.Nil.
type Location struct {
	Type      LocationType `gorm:"type:varchar(10);not null" json:"type"`
	Reference string       `gorm:"type:varchar(100);not null;default:''" json:"reference"`
	ProjectID uuid.UUID    `gorm:"type:uuid;not null;default:'00000000-0000-0000-0000-000000000000'" json:"project_id"`
}

// NewLocation creates a normalized location
func NewLocation(locType LocationType, reference string, projectID uuid.UUID) (Location, error) {
	if !locType.IsValid() {
		return Location{}, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Invalid location type %q", locType))
	}
	return Location{
		Type:      locType,
		Reference: strings.TrimSpace(reference),
		ProjectID: projectID,
	}, nil
}

// MainStore returns the central store location
func MainStore() Location {
	return Location{Type: LocationTypeStore, Reference: MainStoreReference}
}

// SiteStock returns the site stock location for a project
func SiteStock(projectID uuid.UUID) Location {
	return Location{Type: LocationTypeSite, Reference: SiteStockReference, ProjectID: projectID}
}

// Equals compares two normalized locations
func (l Location) Equals(other Location) bool {
	return l.Type == other.Type && l.Reference == other.Reference && l.ProjectID == other.ProjectID
}

// String returns a human-readable description of the location
func (l Location) String() string {
	if l.ProjectID == uuid.Nil {
		return fmt.Sprintf("%s/%s", l.Type, l.Reference)
	}
	return fmt.Sprintf("%s/%s/%s", l.Type, l.Reference, l.ProjectID)
}
