package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCreateFamilyFields_Valid(t *testing.T) {
	field, msg := ValidateCreateFamilyFields("Pérez", []string{"Ana"}, "bride")
	assert.Empty(t, field)
	assert.Empty(t, msg)
}

func TestValidateCreateFamilyFields_MissingName(t *testing.T) {
	field, _ := ValidateCreateFamilyFields("  ", []string{"Ana"}, "bride")
	assert.Equal(t, "name", field)
}

func TestValidateCreateFamilyFields_BlankGuests(t *testing.T) {
	field, _ := ValidateCreateFamilyFields("Pérez", []string{" ", ""}, "bride")
	assert.Equal(t, "possible_guests", field)
}

func TestValidateCreateFamilyFields_MissingHost(t *testing.T) {
	field, _ := ValidateCreateFamilyFields("Pérez", []string{"Ana"}, "")
	assert.Equal(t, "host", field)
}

func TestValidateCreateTableFields_Valid(t *testing.T) {
	field, _ := ValidateCreateTableFields("Mesa 1", 8)
	assert.Empty(t, field)
}

func TestValidateCreateTableFields_MissingLabel(t *testing.T) {
	field, _ := ValidateCreateTableFields("", 8)
	assert.Equal(t, "label", field)
}

func TestValidateCreateTableFields_BadCapacity(t *testing.T) {
	field, _ := ValidateCreateTableFields("Mesa 1", 0)
	assert.Equal(t, "capacity", field)
}

func TestValidateConfigFields(t *testing.T) {
	field, _ := ValidateConfigFields("America/Bogota")
	assert.Empty(t, field)

	field, _ = ValidateConfigFields("  ")
	assert.Equal(t, "timezone", field)
}
