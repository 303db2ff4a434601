// Package hash provides keyed hashing for values that must be looked up later
// but never stored in plain form, such as subscription tokens.
package hash
