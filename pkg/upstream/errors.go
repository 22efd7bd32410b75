package upstream

import "fmt"

// APIError represents a failed upstream call. It preserves the upstream HTTP
// status code when one was received; transport-level failures (DNS, refused
// connection, timeout) carry StatusCode 0.
type APIError struct {
	// Family is the API family the call was made against.
	Family Family

	// Endpoint is the relative path that was requested.
	Endpoint string

	// StatusCode is the upstream HTTP status code, or 0 when the request
	// never produced a response.
	StatusCode int

	// Message is the caller-facing message: "HTTP <code>: <body>" for
	// status failures, "Request failed: <detail>" for transport failures.
	Message string

	// Cause is the underlying transport error, if any.
	Cause error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Family, e.Endpoint, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the status code to surface to the gateway caller:
// the upstream status when known, 500 otherwise.
func (e *APIError) HTTPStatus() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return 500
}
