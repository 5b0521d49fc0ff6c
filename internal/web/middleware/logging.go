// Package middleware holds the chi middleware of the validation API.
package middleware

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/regvalidate/internal/logging"
)

// quietPaths are logged at debug; they are hit by load balancers and
// Prometheus every few seconds.
var quietPaths = map[string]bool{"/healthz": true, "/metrics": true}

// Logger writes an access line per request. Mount it after chi's RequestID
// so the line carries request_id.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log := logging.FromContext(r.Context()).Info
		switch {
		case quietPaths[r.URL.Path]:
			log = logging.FromContext(r.Context()).Debug
		case rec.status >= http.StatusInternalServerError:
			log = logging.FromContext(r.Context()).Error
		}
		log("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", r.RemoteAddr,
		)
	})
}

// recorder keeps the first status written and the body size.
type recorder struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

func (rec *recorder) WriteHeader(status int) {
	if rec.written {
		return
	}
	rec.status, rec.written = status, true
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *recorder) Write(b []byte) (int, error) {
	if !rec.written {
		rec.WriteHeader(http.StatusOK)
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

func (rec *recorder) Unwrap() http.ResponseWriter { return rec.ResponseWriter }
