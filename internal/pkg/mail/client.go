package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shandysiswandi/newsletter/internal/pkg/secret"
	"github.com/shandysiswandi/newsletter/internal/pkg/valueobject"
)

const (
	sendPath = "/mail/send"

	contentTypePlain = "text/plain"
	contentTypeHTML  = "text/html"

	// maxDrainBytes bounds how much of an ignored response body is read
	// before the connection is handed back to the pool.
	maxDrainBytes = 64 * 1024
)

// ClientConfig configures the HTTP API driver.
type ClientConfig struct {
	// BaseURL is the provider API root, e.g. https://api.sendgrid.com/v3.
	BaseURL string
	// Sender is the verified address used as "from".
	Sender valueobject.Email
	// AuthorizationToken is the provider bearer token.
	AuthorizationToken secret.String
	// Timeout bounds the whole request/response exchange of a single send.
	Timeout time.Duration
}

// Client sends email through the provider's HTTP API.
//
// A Client is immutable after NewClient and safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	sender     valueobject.Email
	token      secret.String
}

// NewClient builds a Client that owns its own connection pool.
//
// A malformed base URL or a non-positive timeout is a configuration error;
// callers are expected to treat it as fatal at startup.
func NewClient(cfg ClientConfig) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, ErrInvalidBaseURL
	}
	if cfg.Timeout <= 0 {
		return nil, ErrInvalidTimeout
	}

	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		transport = &http.Transport{}
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport.Clone(),
			Timeout:   cfg.Timeout,
			// A 3xx is returned as-is and classified as a status error.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		baseURL: base,
		sender:  cfg.Sender,
		token:   cfg.AuthorizationToken,
	}, nil
}

// SendEmail delivers one message to recipient with a single POST to
// {base_url}/mail/send.
//
// Any 2xx response is success. A non-2xx response yields a status-kind
// *SendError; a connection failure, timeout or context cancellation yields a
// transport-kind *SendError. Nothing is retried.
func (c *Client) SendEmail(ctx context.Context, recipient valueobject.Email, subject, htmlContent, textContent string) error {
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: sendPath})

	body, err := json.Marshal(sendEmailRequest{
		Personalizations: []sendEmailPersonalization{
			{To: sendEmailObject{Email: recipient.String()}},
		},
		From:    sendEmailObject{Email: c.sender.String()},
		Subject: subject,
		Content: []sendEmailContent{
			{Type: contentTypePlain, Value: textContent},
			{Type: contentTypeHTML, Value: htmlContent},
		},
	})
	if err != nil {
		return &SendError{Kind: KindTransport, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return &SendError{Kind: KindTransport, Err: err}
	}
	req.Header.Set("Authorization", "Bearer: "+c.token.Expose())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &SendError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	// The body is never inspected, but reading it keeps the connection
	// reusable and surfaces a response that dies midway.
	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes)); err != nil {
		return &SendError{Kind: KindTransport, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &SendError{Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	return nil
}

// Send implements Mail.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if msg.To.IsZero() {
		return ErrNoRecipient
	}
	return c.SendEmail(ctx, msg.To, msg.Subject, msg.HTMLBody, msg.TextBody)
}

// Close releases idle pooled connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// ---------------------------------------------------------------------
// PROVIDER ENVELOPE
// ---------------------------------------------------------------------

type sendEmailRequest struct {
	Personalizations []sendEmailPersonalization `json:"personalizations"`
	From             sendEmailObject            `json:"from"`
	Subject          string                     `json:"subject"`
	Content          []sendEmailContent         `json:"content"`
}

type sendEmailPersonalization struct {
	To sendEmailObject `json:"to"`
}

// sendEmailObject always serializes "name" as null.
type sendEmailObject struct {
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type sendEmailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
