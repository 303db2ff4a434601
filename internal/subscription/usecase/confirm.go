package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/newsletter/internal/pkg/goerror"
	"github.com/shandysiswandi/newsletter/internal/pkg/uid"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
)

type ConfirmInput struct {
	Token string `validate:"required"`
}

type ConfirmOutput struct {
	Status entity.SubscriberStatus
}

var errInvalidToken = goerror.NewBusiness("Invalid subscription token", goerror.CodeUnauthorized)

func (s *Usecase) Confirm(ctx context.Context, in ConfirmInput) (*ConfirmOutput, error) {
	ctx, span := s.startSpan(ctx, "Confirm")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	// Tokens of the wrong shape cannot exist in storage.
	if !isWellFormedToken(in.Token) {
		return nil, errInvalidToken
	}

	tokenHash, err := s.hmac.Hash(in.Token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash subscription token", "error", err)
		return nil, goerror.NewServer(err)
	}

	subscriberID, err := s.repoDB.GetSubscriberIDByToken(ctx, string(tokenHash))
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "subscription token not found", "token_hash", string(tokenHash))
		return nil, errInvalidToken
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get subscriber id by token", "token_hash", string(tokenHash), "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.ConfirmSubscriber(ctx, subscriberID); err != nil {
		slog.ErrorContext(ctx, "failed to repo confirm subscriber", "subscriber_id", subscriberID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ConfirmOutput{Status: entity.SubscriberStatusConfirmed}, nil
}

func isWellFormedToken(token string) bool {
	if len(token) != uid.TokenLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
