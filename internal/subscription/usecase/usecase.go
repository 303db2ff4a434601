package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shandysiswandi/newsletter/internal/pkg/clock"
	"github.com/shandysiswandi/newsletter/internal/pkg/config"
	"github.com/shandysiswandi/newsletter/internal/pkg/hash"
	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/mail"
	"github.com/shandysiswandi/newsletter/internal/pkg/uid"
	"github.com/shandysiswandi/newsletter/internal/pkg/validator"
	"github.com/shandysiswandi/newsletter/internal/pkg/valueobject"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetSubscriberByEmail(ctx context.Context, email valueobject.Email) (*entity.Subscriber, error)
	GetSubscriberIDByToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	NewSubscription(ctx context.Context, sub entity.NewSubscription) error
	ConfirmSubscriber(ctx context.Context, id uuid.UUID) error
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type idGenerator interface {
	Next() uuid.UUID
}

type Usecase struct {
	repoDB    repoDB
	repoMail  repoMail
	cfg       config.Config
	ids       idGenerator
	token     uid.StringID
	hmac      hash.Hash
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	RepoMail   repoMail
	Config     config.Config
	IDs        idGenerator
	Token      uid.StringID
	HMAC       hash.Hash
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func NewSubscription(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		repoMail:  dep.RepoMail,
		cfg:       dep.Config,
		ids:       dep.IDs,
		token:     dep.Token,
		hmac:      dep.HMAC,
		clock:     dep.Clock,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("subscription.usecase").Start(ctx, name)
}
