package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/uid"
)

const (
	// HeaderCorrelationID is echoed on every response.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is accepted from proxies that do not set HeaderCorrelationID.
	HeaderRequestID = "X-Request-ID"

	maxCIDLen = 128
)

// sanitizeCID trims v and rejects anything but visible ASCII, so a client
// cannot inject headers or log lines through it.
func sanitizeCID(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > maxCIDLen {
		v = v[:maxCIDLen]
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '!' || v[i] > '~' {
			return ""
		}
	}
	return v
}

func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cid string
			for _, h := range [...]string{HeaderCorrelationID, HeaderRequestID} {
				if cid = sanitizeCID(r.Header.Get(h)); cid != "" {
					break
				}
			}
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
