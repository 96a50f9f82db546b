package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"ann@example.com",
		"a.b+tag@sub.domain.org",
		"UPPER@EXAMPLE.COM",
	}
	for _, email := range valid {
		assert.True(t, ValidateEmail(email), "expected %q to be valid", email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"ann@",
		"ann@localhost",
		"ann example@example.com",
	}
	for _, email := range invalid {
		assert.False(t, ValidateEmail(email), "expected %q to be invalid", email)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("12345678"))
	assert.True(t, ValidatePassword("a-much-longer-password"))
	assert.False(t, ValidatePassword("1234567"))
	assert.False(t, ValidatePassword(""))
}

func TestValidateRequired(t *testing.T) {
	assert.True(t, ValidateRequired("x"))
	assert.False(t, ValidateRequired(""))
	assert.False(t, ValidateRequired("   "))
}

func TestValidateName(t *testing.T) {
	assert.True(t, ValidateName("An"))
	assert.True(t, ValidateName("  Ann  "))
	assert.False(t, ValidateName("A"))
	assert.False(t, ValidateName(" "))
}
