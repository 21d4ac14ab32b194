package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ana@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("Ana <ana@example.com>"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@x.io"))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("ana_dev"))
	assert.NoError(t, ValidateUsername("zoë"))
	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("ana dev"))
	assert.Error(t, ValidateUsername("../ana"))
	assert.Error(t, ValidateUsername("ｊｏｅ"))
	assert.Error(t, ValidateUsername(strings.Repeat("a", 51)))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Ana Lima"))
	assert.Error(t, ValidateName("   "))
	assert.Error(t, ValidateName(strings.Repeat("é", 101)))
}

func TestNormalizeText(t *testing.T) {
	decomposed := "Zoe\u0308"
	assert.Equal(t, "Zo\u00eb", NormalizeText("  "+decomposed+" "))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("hunter2"))
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)))
}

func TestValidateField(t *testing.T) {
	assert.NoError(t, ValidateField("address", "Rua A, 10", 10))
	assert.Error(t, ValidateField("address", "Rua Augusta, 1000", 10))
}
