package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("x"))
	assert.False(t, IsEmpty(" x "))
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"user@example.com", "first.last+tag@sub.domain.co"}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), email)
	}

	invalid := []string{"", "plain", "@nouser.com", "user@", "user@domain", "user @example.com"}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsValidDate(t *testing.T) {
	date, ok := IsValidDate("2025-06-01")
	assert.True(t, ok)
	assert.Equal(t, 2025, date.Year())

	for _, s := range []string{"", "01-06-2025", "2025/06/01", "2025-13-01", "2025-06-32", "yesterday"} {
		_, ok := IsValidDate(s)
		assert.False(t, ok, s)
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "is required"},
		{Field: "year", Message: "must be a plausible calendar year"},
	}

	assert.Contains(t, errs.Error(), "email: is required")
	assert.Contains(t, errs.Error(), "; ")

	m := errs.ToMap()
	assert.Equal(t, "is required", m["email"])
	assert.Len(t, m, 2)
}
