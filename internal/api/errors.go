package api

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError is the single error shape for failed API calls.
//
// Status carries the HTTP status code of a server-rejected request.
// Transport-level failures (DNS, connection refused, timeout) have Status 0,
// which is how callers tell "the server said no" apart from "the server was
// never reached".
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a server rejection with 401.
func IsUnauthorized(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == http.StatusUnauthorized
}

// IsTransport reports whether err is a transport-level failure, i.e. the
// request never produced an HTTP response. Such failures are not proof of
// invalid credentials.
func IsTransport(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == 0
}

func transportError(err error) *RequestError {
	return &RequestError{Message: err.Error()}
}
