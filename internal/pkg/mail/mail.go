package mail

import (
	"context"
	"io"

	"github.com/shandysiswandi/newsletter/internal/pkg/valueobject"
)

// Message represents a single-recipient email payload.
type Message struct {
	// To is the recipient.
	To valueobject.Email
	// Subject is the email subject line.
	Subject string
	// HTMLBody is the HTML rendition of the body.
	HTMLBody string
	// TextBody is the plain-text rendition of the body.
	TextBody string
}

// Mail abstracts an email provider (HTTP API, SMTP).
type Mail interface {
	io.Closer
	// Send dispatches the given message using the underlying provider.
	Send(ctx context.Context, msg Message) error
}
