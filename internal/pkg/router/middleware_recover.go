package router

import (
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/newsletter/internal/pkg/stacktrace"
)

//nolint:contextcheck // the request context is still the right one here
func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:err113,errorlint // sentinel must pass through untouched
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			slog.ErrorContext(r.Context(), "panic while serving request",
				"because", rvr,
				"method", r.Method,
				"stack", stacktrace.Internal(1),
			)

			writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
