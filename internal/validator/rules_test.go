package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"client@example.com",
		"prenom.nom@societe.ci",
		"user+tag@mail.co",
	}
	for _, e := range valid {
		assert.True(t, ValidateEmail(e), e)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@missing-local.com",
		"user@",
		"user@domain",
	}
	for _, e := range invalid {
		assert.False(t, ValidateEmail(e), e)
	}
}

func TestValidatePassword(t *testing.T) {
	valid := []string{
		"Abcdefg1",
		"S3curePassword",
		"longEnough9chars",
	}
	for _, p := range valid {
		assert.True(t, ValidatePassword(p), p)
	}

	invalid := []string{
		"",
		"Ab1",            // too short
		"abcdefgh1",      // no upper case
		"ABCDEFGH1",      // no lower case
		"Abcdefghi",      // no digit
	}
	for _, p := range invalid {
		assert.False(t, ValidatePassword(p), p)
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{
		"+225 0102030405",
		"+33612345678",
		"0102030405",
		"07 08 09 10 11",
	}
	for _, p := range valid {
		assert.True(t, ValidatePhoneNumber(p), p)
	}

	invalid := []string{
		"",
		"12345",          // too short
		"not-a-number",
		"+225-01-02-03",  // dashes are not accepted
	}
	for _, p := range invalid {
		assert.False(t, ValidatePhoneNumber(p), p)
	}
}

func TestValidateLoanDuration(t *testing.T) {
	assert.False(t, ValidateLoanDuration(0))
	assert.False(t, ValidateLoanDuration(2))
	assert.True(t, ValidateLoanDuration(3))
	assert.True(t, ValidateLoanDuration(36))
	assert.True(t, ValidateLoanDuration(120))
	assert.False(t, ValidateLoanDuration(121))
	assert.False(t, ValidateLoanDuration(-12))
}

func TestValidateStructWithCustomRules(t *testing.T) {
	type payload struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,password"`
		Phone    string `json:"phone" validate:"omitempty,phone"`
		Months   int    `json:"months" validate:"required,loan_duration"`
	}

	v := New()

	err := v.Validate(&payload{
		Email:    "client@example.com",
		Password: "S3curePass",
		Phone:    "+225 0102030405",
		Months:   24,
	})
	assert.NoError(t, err)

	err = v.Validate(&payload{
		Email:    "broken",
		Password: "weak",
		Months:   200,
	})
	assert.Error(t, err)

	vErr, ok := err.(*ValidationError)
	assert.True(t, ok)
	assert.Contains(t, vErr.Errors, "email")
	assert.Contains(t, vErr.Errors, "password")
	assert.Contains(t, vErr.Errors, "months")
	assert.NotContains(t, vErr.Errors, "phone") // empty passes omitempty
}
