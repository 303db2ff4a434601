package validator

// Validator validates request and domain structs using `validate` struct tags.
type Validator interface {
	// Validate returns nil when data satisfies every rule, or an error
	// describing the violations (V10ValidationError for the v10 implementation).
	Validate(data any) error
}
