package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/newsletter/internal/pkg/clock"
	"github.com/shandysiswandi/newsletter/internal/pkg/config"
	"github.com/shandysiswandi/newsletter/internal/pkg/hash"
	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/mail"
	"github.com/shandysiswandi/newsletter/internal/pkg/router"
	"github.com/shandysiswandi/newsletter/internal/pkg/secret"
	"github.com/shandysiswandi/newsletter/internal/pkg/uid"
	"github.com/shandysiswandi/newsletter/internal/pkg/validator"
	"github.com/shandysiswandi/newsletter/internal/pkg/valueobject"
)

const (
	mailDriverAPI  = "api"
	mailDriverSMTP = "smtp"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.token = uid.NewToken()
	a.hmac = hash.NewHMACSHA256(secret.New(a.config.GetString("hash.hmac.secret")))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator
}

func (a *App) initDatabase() {
	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	if err := pingDatabase(a.ctx, pool, a.config.GetSecond("database.ping_timeout_seconds")); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

// pingDatabase keeps pinging with backoff until the database answers or
// timeout elapses, so the service can start alongside its database.
func pingDatabase(ctx context.Context, pool *pgxpool.Pool, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(2*time.Second, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			slog.WarnContext(ctx, "database not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (a *App) initMail() {
	sender, err := valueobject.ParseEmail(a.config.GetString("email_client.sender_email"))
	if err != nil {
		slog.Error("failed to parse mail sender", "error", err)
		os.Exit(1)
	}

	driver := strings.TrimSpace(a.config.GetString("mail.driver"))

	var m mail.Mail
	switch driver {
	case "", mailDriverAPI:
		m, err = mail.NewClient(mail.ClientConfig{
			BaseURL:            a.config.GetString("email_client.base_url"),
			Sender:             sender,
			AuthorizationToken: secret.New(a.config.GetString("email_client.authorization_token")),
			Timeout:            a.config.GetMillisecond("email_client.timeout_milliseconds"),
		})
	case mailDriverSMTP:
		m, err = mail.NewSMTP(mail.SMTPConfig{
			Host:     a.config.GetString("mail.smtp.host"),
			Port:     a.config.GetInt("mail.smtp.port"),
			Username: a.config.GetString("mail.smtp.username"),
			Password: secret.New(a.config.GetString("mail.smtp.password")),
			From:     sender,
			Timeout:  a.config.GetMillisecond("mail.smtp.timeout_milliseconds"),
		})
	default:
		slog.Error("failed to init mail, unknown driver", "driver", driver)
		os.Exit(1)
	}
	if err != nil {
		slog.Error("failed to init mail", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.mail = m
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	a.router.GET("/health_check", func(*router.Request) (any, error) {
		return nil, nil
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				a.dbConn.Close()

				return nil
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
