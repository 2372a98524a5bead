package servicenow

import (
	"errors"
	"net/http"
)

// Status is an HTTP status code with a fixed user-facing meaning.
type Status int

const (
	StatusUnauthorized     Status = http.StatusUnauthorized
	StatusForbidden        Status = http.StatusForbidden
	StatusNotFound         Status = http.StatusNotFound
	StatusMethodNotAllowed Status = http.StatusMethodNotAllowed
	StatusConflict         Status = http.StatusConflict
	StatusInternalError    Status = http.StatusInternalServerError
)

// Message returns the fixed message for s, or false for codes without one.
func (s Status) Message() (string, bool) {
	switch s {
	case StatusUnauthorized:
		return "The user credentials are incorrect.", true
	case StatusForbidden:
		return "Forbidden. The user is not an admin or does not have the CICD role.", true
	case StatusNotFound:
		return "Not found. The requested item was not found.", true
	case StatusMethodNotAllowed:
		return "Invalid method. The functionality is disabled.", true
	case StatusConflict:
		return "Conflict. The requested item is not unique.", true
	case StatusInternalError:
		return "Internal server error. An unexpected error occurred while processing the request.", true
	default:
		return "", false
	}
}

// Describe resolves the user-facing message for a failed request:
// the fixed message for known status codes, then the message carried in
// the response body, then the error text itself.
func Describe(err error) string {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return err.Error()
	}
	if msg, ok := Status(httpErr.StatusCode).Message(); ok {
		return msg
	}
	if msg := httpErr.BodyMessage(); msg != "" {
		return msg
	}
	return httpErr.Error()
}
