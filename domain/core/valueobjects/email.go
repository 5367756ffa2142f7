package valueobjects

import (
	"errors"
	"net/mail"
	"strings"
)

// Email is a normalized (trimmed, lower-cased) email address.
// Two addresses that differ only by case are the same account.
type Email struct {
	value string
}

// NewEmail normalizes and validates an address
func NewEmail(raw string) (Email, error) {
	normalized := NormalizeEmail(raw)
	if normalized == "" {
		return Email{}, errors.New("email cannot be empty")
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return Email{}, errors.New("email is not a valid address")
	}
	return Email{value: normalized}, nil
}

// NormalizeEmail trims and lower-cases an address without validating it
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// String returns the normalized address
func (e Email) String() string {
	return e.value
}

// IsZero checks if the Email is the zero value
func (e Email) IsZero() bool {
	return e.value == ""
}
