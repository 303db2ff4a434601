package router

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/shandysiswandi/newsletter/internal/pkg/goerror"
)

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request
}

// GetQuery returns the trimmed value of the query parameter key.
func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// IsForm reports whether the body is application/x-www-form-urlencoded.
func (r *Request) IsForm() bool {
	ct, _, _ := strings.Cut(r.Header.Get("Content-Type"), ";")
	return strings.EqualFold(strings.TrimSpace(ct), "application/x-www-form-urlencoded")
}

// GetForm returns the value of the form field key from a url-encoded body.
func (r *Request) GetForm(key string) (string, error) {
	if err := r.ParseForm(); err != nil {
		return "", goerror.NewInvalidFormat()
	}
	return r.PostForm.Get(key), nil
}

// DecodeBody decodes the JSON body into dst.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return goerror.NewInvalidFormat()
	}

	return nil
}
