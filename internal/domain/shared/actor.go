package shared

import "github.com/google/uuid"

// Role represents the role of the caller performing an operation
type Role string

const (
	// RoleAdmin has full authority over all operations
	RoleAdmin Role = "ADMIN"
	// RoleProjectManager can approve, reject and complete material requests
	RoleProjectManager Role = "PROJECT_MANAGER"
	// RoleStorekeeper can issue materials and move stock
	RoleStorekeeper Role = "STOREKEEPER"
	// RoleEmployee can create and acknowledge material requests
	RoleEmployee Role = "EMPLOYEE"
)

// IsValid returns true if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleProjectManager, RoleStorekeeper, RoleEmployee:
		return true
	}
	return false
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated caller identity handed to the domain by the
// authentication layer. The domain never looks up users itself.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// NewActor creates an actor from an id and role
func NewActor(id uuid.UUID, role Role) Actor {
	return Actor{ID: id, Role: role}
}

// IsZero returns true if the actor carries no identity
func (a Actor) IsZero() bool {
	return a.ID == uuid.Nil
}

// CanApproveRequests returns true if the actor holds approval authority
func (a Actor) CanApproveRequests() bool {
	return a.Role == RoleAdmin || a.Role == RoleProjectManager
}

// CanIssueStock returns true if the actor holds store-issuance authority
func (a Actor) CanIssueStock() bool {
	return a.Role == RoleAdmin || a.Role == RoleStorekeeper
}

// CanCompleteRequests returns true if the actor may close out requests
func (a Actor) CanCompleteRequests() bool {
	return a.Role == RoleAdmin || a.Role == RoleProjectManager
}

// CanManageCatalog returns true if the actor may maintain the material catalog
func (a Actor) CanManageCatalog() bool {
	return a.Role == RoleAdmin || a.Role == RoleStorekeeper
}
