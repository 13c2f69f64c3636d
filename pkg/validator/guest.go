package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyEmail indicates the email address is empty
	ErrEmptyEmail = errors.New("email address cannot be empty")

	// ErrInvalidEmail indicates the email address is malformed
	ErrInvalidEmail = errors.New("email address is not valid")

	// ErrEmptyPhone indicates the phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidPhone indicates the phone number has too few or too many digits
	ErrInvalidPhone = errors.New("phone number must contain 7 to 15 digits")
)

// emailRegex is intentionally permissive; the check-in form only needs to
// catch obvious typos, not enforce RFC 5322.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// digitRegex matches digits only
var digitRegex = regexp.MustCompile(`^\+?\d+$`)

// GuestValidator validates contact details on check-in forms
type GuestValidator struct{}

// NewGuestValidator creates a new guest validator instance
func NewGuestValidator() *GuestValidator {
	return &GuestValidator{}
}

// ValidateEmail validates and normalizes an email address.
// Returns the lowercased address and an error if invalid.
func (v *GuestValidator) ValidateEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", ErrEmptyEmail
	}
	if !emailRegex.MatchString(trimmed) {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(trimmed), nil
}

// ValidatePhone validates an international phone number.
// Accepts formats like +1 415 555 0100, (415) 555-0100 or 0771234567.
// Returns the sanitized number (digits, with a leading + preserved).
func (v *GuestValidator) ValidatePhone(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.SanitizePhone(phone)
	if !digitRegex.MatchString(sanitized) {
		return "", ErrInvalidPhone
	}

	digits := strings.TrimPrefix(sanitized, "+")
	if len(digits) < 7 || len(digits) > 15 {
		return "", ErrInvalidPhone
	}

	return sanitized, nil
}

// SanitizePhone removes spaces, dashes, dots and parentheses. A leading +
// is kept; any other non-digit character survives so validation can
// reject it.
func (v *GuestValidator) SanitizePhone(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
