package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
)

func (s *DB) NewSubscription(ctx context.Context, sub entity.NewSubscription) (err error) {
	ctx, span := s.startSpan(ctx, "NewSubscription")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	wtx := s.query.WithTx(tx)

	if sub.Insert {
		if err = wtx.CreateSubscription(ctx, CreateSubscriptionParams{
			ID:           sub.Subscriber.ID,
			Email:        sub.Subscriber.Email,
			Name:         sub.Subscriber.Name,
			Status:       sub.Subscriber.Status.String(),
			SubscribedAt: sub.Subscriber.SubscribedAt,
		}); err != nil {
			return s.mapError(err)
		}
	}

	if err = wtx.CreateSubscriptionToken(ctx, CreateSubscriptionTokenParams{
		TokenHash:    sub.Token.Hash,
		SubscriberID: sub.Token.SubscriberID,
		CreatedAt:    sub.Token.CreatedAt,
	}); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
