package valueobject

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidEmail is matched by every error returned from ParseEmail.
var ErrInvalidEmail = errors.New("valueobject: invalid email address")

// emailValidate only runs single-field rules; validator.Validate is safe for
// concurrent use.
var emailValidate = validator.New()

// InvalidEmailError reports the rejected candidate.
type InvalidEmailError struct {
	Input string
}

// Error implements the error interface.
func (e *InvalidEmailError) Error() string {
	return fmt.Sprintf("%q is not a valid email address", e.Input)
}

// Is makes errors.Is(err, ErrInvalidEmail) succeed.
func (e *InvalidEmailError) Is(target error) bool {
	return target == ErrInvalidEmail
}

// Email is a syntactically valid email address.
//
// The only way to obtain a non-zero Email is ParseEmail (or MustParseEmail),
// so any Email in circulation has passed validation.
type Email struct {
	address string
}

// ParseEmail validates candidate and wraps it.
//
// The candidate must be non-empty, contain no whitespace, match the
// go-playground "email" grammar and carry a dot in its domain part.
func ParseEmail(candidate string) (Email, error) {
	if candidate == "" || strings.IndexFunc(candidate, unicode.IsSpace) >= 0 {
		return Email{}, &InvalidEmailError{Input: candidate}
	}

	at := strings.LastIndexByte(candidate, '@')
	if at <= 0 || !strings.Contains(candidate[at+1:], ".") {
		return Email{}, &InvalidEmailError{Input: candidate}
	}

	if err := emailValidate.Var(candidate, "required,email"); err != nil {
		return Email{}, &InvalidEmailError{Input: candidate}
	}

	return Email{address: candidate}, nil
}

// MustParseEmail is like ParseEmail but panics on invalid input.
// Use it for constants and tests only.
func MustParseEmail(candidate string) Email {
	e, err := ParseEmail(candidate)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the address.
func (e Email) String() string {
	return e.address
}

// IsZero reports whether e was never parsed.
func (e Email) IsZero() bool {
	return e.address == ""
}

// MarshalText implements encoding.TextMarshaler.
func (e Email) MarshalText() ([]byte, error) {
	return []byte(e.address), nil
}

// ---------------------------------------------------------------------
// SQL INTERFACES
// ---------------------------------------------------------------------

// Value implements driver.Valuer for Email.
func (e Email) Value() (driver.Value, error) {
	return e.address, nil
}
