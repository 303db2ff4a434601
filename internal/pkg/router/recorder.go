package router

import (
	"bytes"
	"net/http"
)

const maxLoggedBodyBytes = 32 * 1024

// responseRecorder captures the status, size, the first maxLoggedBodyBytes of
// the body and the handler error for the observability middleware.
type responseRecorder struct {
	http.ResponseWriter

	status    int
	written   int
	body      bytes.Buffer
	truncated bool
	err       error
}

func (w *responseRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if room := maxLoggedBodyBytes - w.body.Len(); len(p) > room {
		w.body.Write(p[:room])
		w.truncated = true
	} else {
		w.body.Write(p)
	}

	n, err := w.ResponseWriter.Write(p)
	w.written += n
	return n, err
}

// SetError is how the router hands the handler error to the middleware.
func (w *responseRecorder) SetError(err error) {
	w.err = err
}

func (w *responseRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *responseRecorder) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
