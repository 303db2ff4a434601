package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/newsletter/internal/pkg/goerror"
	"github.com/shandysiswandi/newsletter/internal/pkg/mail"
	"github.com/shandysiswandi/newsletter/internal/pkg/validator"
	"github.com/shandysiswandi/newsletter/internal/pkg/valueobject"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
)

type SubscribeInput struct {
	Email string `validate:"required"`
	Name  string `validate:"required,subscribername"`
}

type SubscribeOutput struct {
	Email  string
	Status entity.SubscriberStatus
}

func (s *Usecase) Subscribe(ctx context.Context, in SubscribeInput) (*SubscribeOutput, error) {
	ctx, span := s.startSpan(ctx, "Subscribe")
	defer span.End()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)

	fields := validator.V10ValidationError{}
	if err := s.validator.Validate(in); err != nil {
		if !errors.As(err, &fields) {
			return nil, goerror.NewInvalidInput(err)
		}
	}

	email, err := valueobject.ParseEmail(in.Email)
	if err != nil && fields["email"] == "" {
		fields["email"] = "Email must be a valid email address"
	}
	if len(fields) > 0 {
		return nil, goerror.NewInvalidInput(fields)
	}

	now := s.clock.Now()
	sub := entity.NewSubscription{
		Subscriber: entity.Subscriber{
			Email:        email,
			Name:         in.Name,
			Status:       entity.SubscriberStatusPending,
			SubscribedAt: now,
		},
	}

	existing, err := s.repoDB.GetSubscriberByEmail(ctx, email)
	switch {
	case err == nil && existing.IsConfirmed():
		return nil, goerror.NewBusiness("Email already subscribed", goerror.CodeConflict)
	case err == nil:
		sub.Subscriber = *existing
	case errors.Is(err, goerror.ErrNotFound):
		sub.Subscriber.ID = s.ids.Next()
		sub.Insert = true
	default:
		slog.ErrorContext(ctx, "failed to repo get subscriber by email", "email", email.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	token := s.token.Generate()
	tokenHash, err := s.hmac.Hash(token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash subscription token", "error", err)
		return nil, goerror.NewServer(err)
	}
	sub.Token = entity.Token{
		Hash:         string(tokenHash),
		SubscriberID: sub.Subscriber.ID,
		CreatedAt:    now,
	}

	if err := s.repoDB.NewSubscription(ctx, sub); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			slog.WarnContext(ctx, "concurrent subscription for the same email", "subscriber_id", sub.Subscriber.ID)
			return nil, goerror.NewBusiness("Subscription already in progress", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo new subscription", "subscriber_id", sub.Subscriber.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	link := confirmationLink(s.cfg.GetString("app.base_url"), token)
	if err := s.repoMail.Send(ctx, confirmationEmail(email, link)); err != nil {
		attrs := []any{"subscriber_id", sub.Subscriber.ID, "error", err}
		var sendErr *mail.SendError
		if errors.As(err, &sendErr) {
			attrs = append(attrs, "kind", sendErr.Kind.String(), "status_code", sendErr.StatusCode)
		}
		slog.ErrorContext(ctx, "failed to send confirmation email", attrs...)
		return nil, goerror.NewServer(err)
	}

	return &SubscribeOutput{Email: email.String(), Status: sub.Subscriber.Status}, nil
}
