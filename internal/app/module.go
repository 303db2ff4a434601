package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/newsletter/internal/subscription"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.subscription.enabled") {
		if err := subscription.New(subscription.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Router:     a.router,
			Mail:       a.mail,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Token:      a.token,
			HMAC:       a.hmac,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module subscription", "error", err)
			os.Exit(1)
		}
	}
}
