package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrDecode marks responses whose body did not match the declared
// contract for the endpoint. Wraps the underlying cause.
var ErrDecode = errors.New("malformed api response")

// ErrNoToken is returned when an authenticated call is attempted
// without a bearer token.
var ErrNoToken = errors.New("not logged in")

// Error is a non-2xx response from the server, carrying whatever
// message the envelope held.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// IsAuth reports whether the failure was an authentication or
// authorization rejection.
func (e *Error) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsAuthError reports whether err is a 401/403 from the server.
func IsAuthError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.IsAuth()
}
