package instrument

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

// DefaultMaskFields are always masked in log output, whatever the configuration adds.
var DefaultMaskFields = []string{
	"authorization",
	"authorization_token",
	"password",
	"token",
	"subscription_token",
	"email",
}

const maskedValue = "masked"

// redactor replaces the value of any attribute, group member, map entry or
// JSON field whose key it holds (compared lower-case).
type redactor map[string]struct{}

func newRedactor(extra []string) redactor {
	r := make(redactor, len(DefaultMaskFields)+len(extra))
	for _, list := range [][]string{DefaultMaskFields, extra} {
		for _, f := range list {
			if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
				r[f] = struct{}{}
			}
		}
	}
	return r
}

func (r redactor) has(key string) bool {
	_, ok := r[strings.ToLower(key)]
	return ok
}

func (r redactor) attr(a slog.Attr) slog.Attr {
	if r.has(a.Key) {
		return slog.String(a.Key, maskedValue)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = r.attr(ga)
		}
		a.Value = slog.GroupValue(out...)
	case slog.KindString:
		if s, ok := r.jsonText([]byte(a.Value.String())); ok {
			a.Value = slog.StringValue(s)
		}
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case map[string]any, []any:
			a.Value = slog.AnyValue(r.value(v))
		case map[string]string:
			m := make(map[string]any, len(v))
			for k, s := range v {
				m[k] = s
			}
			a.Value = slog.AnyValue(r.value(m))
		case []byte:
			if s, ok := r.jsonText(v); ok {
				a.Value = slog.StringValue(s)
			}
		}
	}

	return a
}

func (r redactor) value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if r.has(k) {
				out[k] = maskedValue
				continue
			}
			out[k] = r.value(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = r.value(inner)
		}
		return out
	default:
		return v
	}
}

// jsonText masks a JSON object or array carried as text. ok is false when
// payload is not JSON.
func (r redactor) jsonText(payload []byte) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", false
	}

	masked, err := json.Marshal(r.value(decoded))
	if err != nil {
		return "", false
	}
	return string(masked), true
}

type maskHandler struct {
	next   slog.Handler
	redact redactor
}

func (h *maskHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *maskHandler) Handle(ctx context.Context, record slog.Record) error {
	masked := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.redact.attr(a))
		return true
	})

	return h.next.Handle(ctx, masked)
}

func (h *maskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.redact.attr(a)
	}
	return &maskHandler{next: h.next.WithAttrs(masked), redact: h.redact}
}

func (h *maskHandler) WithGroup(name string) slog.Handler {
	return &maskHandler{next: h.next.WithGroup(name), redact: h.redact}
}
