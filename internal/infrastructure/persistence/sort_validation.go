package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// MaterialSortFields contains allowed sort fields for catalog entries
var MaterialSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"category":   true,
	"unit_cost":  true,
	"is_active":  true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"is_active":  true,
}

// RequestSortFields contains allowed sort fields for material requests
var RequestSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"request_number": true,
	"status":         true,
	"urgency":        true,
	"required_date":  true,
}

// LevelSortFields contains allowed sort fields for ledger rows
var LevelSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"current_stock": true,
	"location_type": true,
}

// TransactionSortFields contains allowed sort fields for the movement log
var TransactionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"transaction_type": true,
	"quantity":         true,
}
