package router

import (
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/shandysiswandi/newsletter/internal/pkg/config"
	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
)

const maskedValue = "masked"

// masker redacts values whose key (header, JSON field, form field or query
// parameter) is in the set. Keys are lower-case.
type masker map[string]struct{}

func newMasker(cfg config.Config) masker {
	fields := slices.Clone(instrument.DefaultMaskFields)
	if cfg != nil {
		fields = append(fields, cfg.GetArray("instrument.log_mask_fields")...)
	}

	m := make(masker, len(fields))
	for _, f := range fields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			m[f] = struct{}{}
		}
	}
	return m
}

func (m masker) has(key string) bool {
	_, ok := m[strings.ToLower(key)]
	return ok
}

func (m masker) headers(h http.Header) http.Header {
	out := h.Clone()
	for k := range out {
		if m.has(k) {
			out.Set(k, maskedValue)
		}
	}
	return out
}

func (m masker) value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if m.has(k) {
				out[k] = maskedValue
				continue
			}
			out[k] = m.value(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = m.value(inner)
		}
		return out
	default:
		return v
	}
}

func (m masker) form(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		switch {
		case m.has(k):
			out[k] = maskedValue
		case len(v) == 1:
			out[k] = v[0]
		default:
			out[k] = v
		}
	}
	return out
}

// body renders a captured request or response body for a log line: JSON and
// url-encoded forms are masked field by field, other text is kept as is.
func (m masker) body(contentType string, body []byte) any {
	if len(body) == 0 {
		return nil
	}

	var decoded any
	if json.Unmarshal(body, &decoded) == nil {
		return m.value(decoded)
	}

	ct, _, _ := strings.Cut(contentType, ";")
	if strings.EqualFold(strings.TrimSpace(ct), "application/x-www-form-urlencoded") {
		if values, err := url.ParseQuery(string(body)); err == nil {
			return m.form(values)
		}
	}

	if !utf8.Valid(body) {
		return "<binary body omitted>"
	}
	return string(body)
}

// uri returns the request URI with masked query values. The confirmation
// link carries its token in the query string.
func (m masker) uri(u *url.URL) string {
	if u == nil {
		return ""
	}
	if u.RawQuery == "" || len(m) == 0 {
		return u.RequestURI()
	}

	query := u.Query()
	for k := range query {
		if m.has(k) {
			query[k] = []string{maskedValue}
		}
	}

	masked := *u
	masked.RawQuery = query.Encode()
	return masked.RequestURI()
}
