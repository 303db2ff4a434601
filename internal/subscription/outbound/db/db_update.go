package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/shandysiswandi/newsletter/internal/pkg/goerror"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
)

func (s *DB) ConfirmSubscriber(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := s.startSpan(ctx, "ConfirmSubscriber")
	defer func() { s.endSpan(span, err) }()

	affected, err := s.query.UpdateSubscriptionStatus(ctx, id, entity.SubscriberStatusConfirmed.String())
	if err != nil {
		return s.mapError(err)
	}
	if affected == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
