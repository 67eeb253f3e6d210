package partner

import (
	"strings"

	"github.com/sitestock/backend/internal/domain/shared"
)

// Supplier represents a material supplier. Suppliers are reference data:
// they can be edited freely but never deleted while catalog entries point at them.
type Supplier struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(200);not null"`
	ContactName string `gorm:"type:varchar(100)"`
	Phone       string `gorm:"type:varchar(30)"`
	Email       string `gorm:"type:varchar(200)"`
	Address     string `gorm:"type:varchar(500)"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(name, contactName, phone, email, address string) (*Supplier, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Supplier name cannot be empty")
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		ContactName:       contactName,
		Phone:             phone,
		Email:             email,
		Address:           address,
		IsActive:          true,
	}, nil
}

// SupplierPatch carries a partial update. Nil fields are left unchanged.
type SupplierPatch struct {
	Name        *string
	ContactName *string
	Phone       *string
	Email       *string
	Address     *string
	IsActive    *bool
}

// Apply applies the patch to the supplier
func (s *Supplier) Apply(patch SupplierPatch) error {
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return shared.NewDomainError("VALIDATION_ERROR", "Supplier name cannot be empty")
		}
		s.Name = *patch.Name
	}
	if patch.ContactName != nil {
		s.ContactName = *patch.ContactName
	}
	if patch.Phone != nil {
		s.Phone = *patch.Phone
	}
	if patch.Email != nil {
		s.Email = *patch.Email
	}
	if patch.Address != nil {
		s.Address = *patch.Address
	}
	if patch.IsActive != nil {
		s.IsActive = *patch.IsActive
	}

	s.Touch()
	s.IncrementVersion()
	return nil
}
