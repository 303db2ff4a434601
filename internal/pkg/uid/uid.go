// Package uid generates identifiers: UUIDs for rows and correlation ids, and
// random alphanumeric tokens for links sent to subscribers.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
