package subscription

import (
	"context"
	"errors"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/newsletter/internal/pkg/clock"
	"github.com/shandysiswandi/newsletter/internal/pkg/config"
	"github.com/shandysiswandi/newsletter/internal/pkg/hash"
	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/mail"
	"github.com/shandysiswandi/newsletter/internal/pkg/router"
	"github.com/shandysiswandi/newsletter/internal/pkg/uid"
	"github.com/shandysiswandi/newsletter/internal/pkg/validator"
	"github.com/shandysiswandi/newsletter/internal/subscription/inbound"
	"github.com/shandysiswandi/newsletter/internal/subscription/outbound/db"
	"github.com/shandysiswandi/newsletter/internal/subscription/outbound/email"
	"github.com/shandysiswandi/newsletter/internal/subscription/usecase"
)

var ErrInvalidBaseURL = errors.New("subscription: app.base_url must be an absolute http(s) url")

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	DBConn     *pgxpool.Pool              `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       *uid.UUID                  `validate:"required"`
	Token      uid.StringID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	base, err := url.Parse(dep.Config.GetString("app.base_url"))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return ErrInvalidBaseURL
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	if dep.Config.GetBool("database.auto_migrate") {
		if err := repoDB.Migrate(dep.Ctx); err != nil {
			return err
		}
	}

	uc := usecase.NewSubscription(usecase.Dependency{
		RepoDB:     repoDB,
		RepoMail:   email.New(dep.Mail, dep.Instrument),
		Config:     dep.Config,
		IDs:        dep.UUID,
		Token:      dep.Token,
		HMAC:       dep.HMAC,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
