package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shandysiswandi/newsletter/internal/pkg/valueobject"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
)

func (s *DB) GetSubscriberByEmail(ctx context.Context, email valueobject.Email) (_ *entity.Subscriber, err error) {
	ctx, span := s.startSpan(ctx, "GetSubscriberByEmail")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetSubscriptionByEmail(ctx, email)
	if err != nil {
		return nil, s.mapError(err)
	}

	stored, err := valueobject.ParseEmail(row.Email)
	if err != nil {
		return nil, fmt.Errorf("stored subscriber %s: %w", row.ID, err)
	}

	status, err := entity.ParseSubscriberStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("stored subscriber %s: %w", row.ID, err)
	}

	return &entity.Subscriber{
		ID:           row.ID,
		Email:        stored,
		Name:         row.Name,
		Status:       status,
		SubscribedAt: row.SubscribedAt,
	}, nil
}

func (s *DB) GetSubscriberIDByToken(ctx context.Context, tokenHash string) (_ uuid.UUID, err error) {
	ctx, span := s.startSpan(ctx, "GetSubscriberIDByToken")
	defer func() { s.endSpan(span, err) }()

	id, err := s.query.GetSubscriberIDByTokenHash(ctx, tokenHash)
	if err != nil {
		return uuid.Nil, s.mapError(err)
	}

	return id, nil
}
