// Package secret wraps sensitive configuration values so they cannot leak
// through logging, formatting or serialization by accident.
//
// The raw value is only reachable through Expose, which should be called at
// the single place the value must leave the process (an Authorization header,
// an SMTP AUTH exchange).
package secret

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Redacted is printed in place of the raw value.
const Redacted = "[REDACTED]"

// String holds a secret string value.
//
// The value sits behind a pointer: when a String is nested in another struct
// and that struct is printed with %v or %#v, fmt shows an address instead of
// the value.
type String struct {
	value *string
}

// New wraps value.
func New(value string) String {
	return String{value: &value}
}

// Expose returns the raw value.
func (s String) Expose() string {
	if s.value == nil {
		return ""
	}
	return *s.value
}

// IsEmpty reports whether the wrapped value is empty.
func (s String) IsEmpty() bool {
	return s.Expose() == ""
}

// String implements fmt.Stringer.
func (s String) String() string {
	return Redacted
}

// GoString implements fmt.GoStringer.
func (s String) GoString() string {
	return "secret.String(" + Redacted + ")"
}

// Format implements fmt.Formatter so every verb prints the redacted form.
func (s String) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('#') {
			_, _ = fmt.Fprint(f, s.GoString())
			return
		}
		_, _ = fmt.Fprint(f, Redacted)
	case 'q':
		_, _ = fmt.Fprintf(f, "%q", Redacted)
	default:
		_, _ = fmt.Fprint(f, Redacted)
	}
}

// MarshalJSON implements json.Marshaler.
func (s String) MarshalJSON() ([]byte, error) {
	return json.Marshal(Redacted)
}

// MarshalText implements encoding.TextMarshaler.
func (s String) MarshalText() ([]byte, error) {
	return []byte(Redacted), nil
}

// LogValue implements slog.LogValuer.
func (s String) LogValue() slog.Value {
	return slog.StringValue(Redacted)
}
