package uid

import "github.com/google/uuid"

// UUID generates time-ordered (version 7) UUIDs.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Next returns a new UUID, falling back to version 4 if the clock source fails.
func (u *UUID) Next() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Generate returns a new UUID string.
func (u *UUID) Generate() string {
	return u.Next().String()
}
