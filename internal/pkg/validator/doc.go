// Package validator checks request structs against `validate` tags.
//
// V10Validator wraps go-playground/validator with English messages and the
// subscribername rule, and reports failures as a V10ValidationError keyed by
// snake_case field name.
package validator
