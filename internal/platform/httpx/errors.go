package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors the JSON endpoints map to problem responses.
var (
	ErrNotFound    = errors.New("resource not found")
	ErrValidation  = errors.New("validation failed")
	ErrForbidden   = errors.New("forbidden")
	ErrUnavailable = errors.New("service unavailable")
)

var problemStatuses = []struct {
	err    error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrValidation, http.StatusBadRequest},
	{ErrForbidden, http.StatusForbidden},
	{ErrUnavailable, http.StatusServiceUnavailable},
}

// StatusFor returns the HTTP status a wrapped sentinel maps to, or 500.
func StatusFor(err error) int {
	for _, p := range problemStatuses {
		if errors.Is(err, p.err) {
			return p.status
		}
	}
	return http.StatusInternalServerError
}

// RespondError writes err as a problem document for the request. Errors
// without a sentinel are reported as 500 with no detail.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	detail := ""
	if status != http.StatusInternalServerError {
		detail = err.Error()
	}
	instance := ""
	if r != nil && r.URL != nil {
		instance = r.URL.Path
	}
	Problem(w, status, instance, detail)
}
