package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shandysiswandi/newsletter/internal/pkg/valueobject"
)

var ErrSubscriberStatusUnknown = errors.New("subscription: subscriber status is unknown")

// SubscriberStatus is persisted as text.
type SubscriberStatus string

const (
	// SubscriberStatusPending means the confirmation link has not been followed yet.
	SubscriberStatusPending SubscriberStatus = "pending_confirmation"

	// SubscriberStatusConfirmed means the subscriber receives newsletter issues.
	SubscriberStatusConfirmed SubscriberStatus = "confirmed"
)

func (s SubscriberStatus) String() string {
	return string(s)
}

func (s SubscriberStatus) IsUnknown() bool {
	switch s {
	case SubscriberStatusPending, SubscriberStatusConfirmed:
		return false
	default:
		return true
	}
}

func ParseSubscriberStatus(s string) (SubscriberStatus, error) {
	status := SubscriberStatus(s)
	if status.IsUnknown() {
		return "", ErrSubscriberStatusUnknown
	}
	return status, nil
}

type Subscriber struct {
	ID           uuid.UUID
	Email        valueobject.Email
	Name         string
	Status       SubscriberStatus
	SubscribedAt time.Time
}

func (s Subscriber) IsConfirmed() bool {
	return s.Status == SubscriberStatusConfirmed
}

// Token links a subscriber to a confirmation link. Only the hash is stored.
type Token struct {
	Hash         string
	SubscriberID uuid.UUID
	CreatedAt    time.Time
}

// NewSubscription is what a subscribe request persists in one transaction.
// Insert is false when the subscriber row already exists and only a fresh
// token is issued.
type NewSubscription struct {
	Subscriber Subscriber
	Token      Token
	Insert     bool
}
