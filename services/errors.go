package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Ingestion errors. Both are local and non-retryable: an invalid identifier
// is surfaced to the caller, a tenant mismatch indicates a caller bug.
var (
	ErrInvalidIdentifier = errors.New("invalid case number")
	ErrTenantMismatch    = errors.New("record belongs to a different firm")
)

// ErrMonitoringActive blocks removal of a case whose subscription is still
// acknowledged by the provider
var ErrMonitoringActive = errors.New("deactivate monitoring before removing the case")

// isUniqueViolation reports whether err is a unique-index conflict. GORM
// translates some driver errors to ErrDuplicatedKey; the sqlite driver also
// surfaces the raw constraint message, so both are checked.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
