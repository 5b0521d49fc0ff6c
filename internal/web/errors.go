package web

// errors.go maps validate endpoint errors to HTTP responses.
//
// The technical error is logged with the request id for correlation. The
// client gets a short message and a machine-readable code. File problems
// that the pipeline reports as validation codes are not errors here; they
// come back as a 200 outcome.

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/regvalidate/internal/core"
	"github.com/JonMunkholm/regvalidate/internal/logging"
)

// errBadRequest marks problems with the request itself.
var errBadRequest = errors.New("bad request")

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type apiError struct {
	status  int
	code    string
	message string
}

func classify(err error) apiError {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return apiError{http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds the size limit"}
	case errors.Is(err, errBadRequest), errors.Is(err, core.ErrInvalidMessage):
		return apiError{http.StatusBadRequest, "INVALID_REQUEST", err.Error()}
	case errors.Is(err, core.ErrTooManyRuns):
		return apiError{http.StatusServiceUnavailable, "BUSY", "too many validations in progress, retry later"}
	case errors.Is(err, context.DeadlineExceeded):
		return apiError{http.StatusGatewayTimeout, "TIMEOUT", "validation did not finish in time"}
	default:
		return apiError{http.StatusInternalServerError, "INTERNAL", "validation failed unexpectedly"}
	}
}

// respondError logs err and writes the mapped JSON error response.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	e := classify(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", e.status,
		"code", e.code,
		"error", err,
	)

	if e.status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}
	writeJSON(w, e.status, ErrorResponse{Error: e.message, Code: e.code})
}
