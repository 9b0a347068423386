// Package validation provides pure validation functions for API handlers.
// All functions here are free of I/O; handlers call them before touching
// the store so that a rejected request never produces a write.
package validation

import "strings"

// =============================================================================
// Family Validation
// =============================================================================

// ValidateCreateFamilyFields validates required fields for family creation.
// Returns the offending field name and a user-facing message, or empty
// strings when everything is valid.
func ValidateCreateFamilyFields(name string, guests []string, host string) (field, message string) {
	if strings.TrimSpace(name) == "" {
		return "name", "name is required"
	}
	if !hasNonBlank(guests) {
		return "possible_guests", "at least one guest name is required"
	}
	if host == "" {
		return "host", "host is required"
	}
	return "", ""
}

// =============================================================================
// Table Validation
// =============================================================================

// ValidateCreateTableFields validates required fields for table creation.
func ValidateCreateTableFields(label string, capacity int) (field, message string) {
	if strings.TrimSpace(label) == "" {
		return "label", "label is required"
	}
	if capacity < 1 {
		return "capacity", "capacity must be at least 1"
	}
	return "", ""
}

// =============================================================================
// Config Validation
// =============================================================================

// ValidateConfigFields validates required fields for a configuration update.
// The deadline may be blank (confirmations never close) but the timezone
// identifier is always required.
func ValidateConfigFields(timezone string) (field, message string) {
	if strings.TrimSpace(timezone) == "" {
		return "timezone", "timezone is required"
	}
	return "", ""
}

func hasNonBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
