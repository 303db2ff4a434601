package mail

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBaseURL is returned by NewClient when the provider URL is unusable.
	ErrInvalidBaseURL = errors.New("mail: base url must be an absolute http(s) url")
	// ErrInvalidTimeout is returned by NewClient when the timeout is not positive.
	ErrInvalidTimeout = errors.New("mail: timeout must be greater than zero")
	// ErrNoRecipient is returned when a Message has no recipient.
	ErrNoRecipient = errors.New("mail: no recipient provided")

	// ErrTransport matches every transport-kind *SendError.
	ErrTransport = errors.New("mail: transport failure")
	// ErrStatus matches every status-kind *SendError.
	ErrStatus = errors.New("mail: provider rejected the request")
)

// Kind classifies a SendError.
type Kind int

const (
	// KindTransport covers connection failures, timeouts and unreadable responses.
	KindTransport Kind = iota + 1
	// KindStatus covers responses with a status code outside 2xx.
	KindStatus
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// SendError is returned by Client when a send fails at runtime.
//
// It never carries request headers, so the credential cannot surface through it.
type SendError struct {
	// Kind tells transport failures apart from provider rejections.
	Kind Kind
	// StatusCode is the provider's HTTP status for KindStatus, zero otherwise.
	StatusCode int
	// Err is the underlying transport error for KindTransport.
	Err error
}

// Error implements the error interface.
func (e *SendError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("mail: provider responded with status %d", e.StatusCode)
	}
	if e.Err != nil {
		return "mail: transport failure: " + e.Err.Error()
	}
	return "mail: transport failure"
}

// Unwrap returns the underlying error.
func (e *SendError) Unwrap() error {
	return e.Err
}

// Is matches ErrTransport and ErrStatus by kind.
func (e *SendError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrStatus:
		return e.Kind == KindStatus
	default:
		return false
	}
}
