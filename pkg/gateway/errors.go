package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"fleetgate-hq/fleetgate/pkg/upstream"
)

// httpError is a local request failure carrying the status to answer with.
// It covers the non-upstream branches of the error taxonomy: validation
// (400), unmatched routes (404) and unconfigured families (503).
type httpError struct {
	Status  int
	Message string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

func badRequest(format string, args ...any) *httpError {
	return &httpError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *httpError {
	return &httpError{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func notConfigured(label string) *httpError {
	return &httpError{Status: http.StatusServiceUnavailable, Message: label + " not configured"}
}

// errorStatus maps any dispatch failure to its response status and caller
// message. Upstream errors keep their original status when known; transport
// failures collapse to 500. Anything unclassified is an internal error.
func errorStatus(err error) (int, string) {
	var local *httpError
	if errors.As(err, &local) {
		return local.Status, local.Message
	}

	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus(), apiErr.Message
	}

	return http.StatusInternalServerError, "Internal Server Error"
}
