package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	v := NewGuestValidator()

	tests := []struct {
		name     string
		email    string
		expected string
		wantErr  error
	}{
		{"Valid email", "alice@example.com", "alice@example.com", nil},
		{"Uppercase is normalized", "Alice@Example.COM", "alice@example.com", nil},
		{"Surrounding whitespace trimmed", "  alice@example.com  ", "alice@example.com", nil},
		{"Subdomain", "alice@mail.example.co.uk", "alice@mail.example.co.uk", nil},
		{"Plus addressing", "alice+hotel@example.com", "alice+hotel@example.com", nil},
		{"Empty", "", "", ErrEmptyEmail},
		{"Whitespace only", "   ", "", ErrEmptyEmail},
		{"Missing at sign", "alice.example.com", "", ErrInvalidEmail},
		{"Missing domain dot", "alice@example", "", ErrInvalidEmail},
		{"Contains spaces", "alice @example.com", "", ErrInvalidEmail},
		{"Double at sign", "alice@@example.com", "", ErrInvalidEmail},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.ValidateEmail(tc.email)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestValidatePhone(t *testing.T) {
	v := NewGuestValidator()

	tests := []struct {
		name     string
		phone    string
		expected string
		wantErr  error
	}{
		{"International with plus", "+14155550100", "+14155550100", nil},
		{"Spaces", "+1 415 555 0100", "+14155550100", nil},
		{"Dashes", "415-555-0100", "4155550100", nil},
		{"Parentheses", "(415) 555-0100", "4155550100", nil},
		{"Dots", "415.555.0100", "4155550100", nil},
		{"Local format", "0771234567", "0771234567", nil},
		{"Minimum length", "1234567", "1234567", nil},
		{"Empty", "", "", ErrEmptyPhone},
		{"Whitespace only", "   ", "", ErrEmptyPhone},
		{"Too short", "123456", "", ErrInvalidPhone},
		{"Too long", "1234567890123456", "", ErrInvalidPhone},
		{"Letters", "call me maybe", "", ErrInvalidPhone},
		{"Plus in the middle", "123+4567890", "", ErrInvalidPhone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.ValidatePhone(tc.phone)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSanitizePhone(t *testing.T) {
	v := NewGuestValidator()

	tests := []struct {
		name     string
		phone    string
		expected string
	}{
		{"Already clean", "+14155550100", "+14155550100"},
		{"Mixed separators", "+1 (415) 555-0100", "+14155550100"},
		{"Keeps unexpected characters", "415x555", "415x555"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, v.SanitizePhone(tc.phone))
		})
	}
}
