package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// International or local format (France, Côte d'Ivoire): optional
	// country code, then 8 to 15 digits.
	phoneRegex     = regexp.MustCompile(`^(\+\d{1,3}\s?)?\d{8,15}$`)
	upperRegex     = regexp.MustCompile(`[A-Z]`)
	lowerRegex     = regexp.MustCompile(`[a-z]`)
	digitRegex     = regexp.MustCompile(`\d`)
	whitespaceOnly = regexp.MustCompile(`\s`)
)

// ValidateEmail reports whether the address has a plausible mailbox shape.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword enforces at least 8 characters with an upper-case
// letter, a lower-case letter and a digit.
func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return upperRegex.MatchString(password) &&
		lowerRegex.MatchString(password) &&
		digitRegex.MatchString(password)
}

// ValidatePhoneNumber accepts local and international numbers, ignoring
// embedded spaces.
func ValidatePhoneNumber(phone string) bool {
	return phoneRegex.MatchString(whitespaceOnly.ReplaceAllString(phone, ""))
}

// ValidateLoanDuration bounds the requested duration: 3 months to 10 years.
func ValidateLoanDuration(months int) bool {
	return months >= 3 && months <= 120
}

func registerCustomRules(v *validator.Validate) error {
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value := strings.TrimSpace(fl.Field().String())
		if value == "" {
			return true // pair with `required` when the field is mandatory
		}
		return ValidatePhoneNumber(value)
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidatePassword(fl.Field().String())
	}); err != nil {
		return err
	}

	return v.RegisterValidation("loan_duration", func(fl validator.FieldLevel) bool {
		return ValidateLoanDuration(int(fl.Field().Int()))
	})
}
