package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/newsletter/internal/pkg/clock"
	"github.com/shandysiswandi/newsletter/internal/pkg/config"
	"github.com/shandysiswandi/newsletter/internal/pkg/hash"
	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/mail"
	"github.com/shandysiswandi/newsletter/internal/pkg/router"
	"github.com/shandysiswandi/newsletter/internal/pkg/uid"
	"github.com/shandysiswandi/newsletter/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	uuid      *uid.UUID
	token     uid.StringID

	// resources
	dbConn *pgxpool.Pool
	mail   mail.Mail

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initDatabase()
	app.initMail()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
