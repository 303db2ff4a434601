package mail

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/shandysiswandi/newsletter/internal/pkg/secret"
	"github.com/shandysiswandi/newsletter/internal/pkg/valueobject"
)

const defaultSMTPTimeout = 10 * time.Second

var (
	// ErrSMTPHostPortRequired is returned when Host/Port are missing.
	ErrSMTPHostPortRequired = errors.New("mail: smtp host and port are required")
	// ErrSMTPNoSender is returned when the configured sender is empty.
	ErrSMTPNoSender = errors.New("mail: smtp sender is required")
	// ErrSMTPNoAuth is returned when credentials are configured but the server
	// does not offer AUTH.
	ErrSMTPNoAuth = errors.New("mail: smtp server does not support AUTH")
	// ErrInvalidHeader is returned when a header value contains a line break.
	ErrInvalidHeader = errors.New("mail: header value contains a line break")
)

// SMTP is a Mail implementation backed by net/smtp, meant for local mail
// catchers such as Mailpit.
type SMTP struct {
	host    string
	addr    string
	from    valueobject.Email
	auth    smtp.Auth
	timeout time.Duration
}

// SMTPConfig configures the SMTP implementation.
type SMTPConfig struct {
	// Host is the SMTP server hostname.
	Host string
	// Port is the SMTP server port.
	Port int
	// Username is the SMTP authentication username.
	Username string
	// Password is the SMTP authentication password.
	Password secret.String
	// From is the sender address.
	From valueobject.Email
	// Timeout bounds one whole SMTP session when the context has no earlier
	// deadline. Zero means 10 seconds.
	Timeout time.Duration
}

// NewSMTP constructs an SMTP mail sender.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}
	if cfg.From.IsZero() {
		return nil, ErrSMTPNoSender
	}

	var auth smtp.Auth
	if cfg.Username != "" && !cfg.Password.IsEmpty() {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password.Expose(), cfg.Host)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSMTPTimeout
	}

	return &SMTP{
		host:    cfg.Host,
		addr:    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from:    cfg.From,
		auth:    auth,
		timeout: timeout,
	}, nil
}

// Send delivers a message over one SMTP session. The session is aborted when
// ctx is done or the configured timeout elapses, whichever comes first.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To.IsZero() {
		return ErrNoRecipient
	}
	if strings.ContainsAny(msg.Subject, "\r\n") {
		return ErrInvalidHeader
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("mail: smtp dial aborted: %w", ctxErr)
		}
		return err
	}
	defer conn.Close()

	// Closing the connection unblocks any pending read or write.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := s.session(conn, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("mail: smtp session aborted: %w", ctxErr)
		}
		return err
	}
	return nil
}

func (s *SMTP) session(conn net.Conn, msg Message) error {
	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}); err != nil {
			return err
		}
	}
	if s.auth != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return ErrSMTPNoAuth
		}
		if err := c.Auth(s.auth); err != nil {
			return err
		}
	}

	if err := c.Mail(s.from.String()); err != nil {
		return err
	}
	if err := c.Rcpt(msg.To.String()); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(buildRaw(s.from, msg))); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return c.Quit()
}

// Close implements io.Closer for interface compatibility.
func (s *SMTP) Close() error {
	return nil
}

func buildRaw(from valueobject.Email, msg Message) string {
	body, contentType := buildBody(msg)

	headers := []string{
		"From: " + from.String(),
		"To: " + msg.To.String(),
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
		"Content-Type: " + contentType,
	}

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body
}

func buildBody(msg Message) (body string, contentType string) {
	if msg.HTMLBody != "" && msg.TextBody != "" {
		boundary := multipartBoundary()
		var sb strings.Builder
		sb.WriteString("This is a multipart message in MIME format.\r\n")
		fmt.Fprintf(&sb, "--%s\r\n", boundary)
		sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		sb.WriteString(msg.TextBody)
		sb.WriteString("\r\n")
		fmt.Fprintf(&sb, "--%s\r\n", boundary)
		sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		sb.WriteString(msg.HTMLBody)
		sb.WriteString("\r\n")
		fmt.Fprintf(&sb, "--%s--", boundary)
		return sb.String(), "multipart/alternative; boundary=" + boundary
	}

	if msg.HTMLBody != "" {
		return msg.HTMLBody, "text/html; charset=UTF-8"
	}

	return msg.TextBody, "text/plain; charset=UTF-8"
}

func multipartBoundary() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "newsletter-boundary-fallback"
	}
	return "newsletter-boundary-" + hex.EncodeToString(b[:])
}
